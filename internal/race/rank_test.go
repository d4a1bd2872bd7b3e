package race

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func finisher(id, t int64) Racer {
	return Racer{DiscordID: id, Time: t, Finished: true}
}

func dnf(id int64) Racer {
	return Racer{DiscordID: id, Time: -1}
}

func ranksByID(placements []Placement) map[int64]int {
	out := make(map[int64]int, len(placements))
	for _, p := range placements {
		out[p.DiscordID] = p.Rank
	}
	return out
}

func TestRank_FinishersInTimeOrder(t *testing.T) {
	placements := Rank([]Racer{finisher(3, 30), finisher(1, 10), finisher(2, 20)})

	require.Len(t, placements, 3)
	assert.Equal(t, int64(1), placements[0].DiscordID)
	assert.Equal(t, int64(2), placements[1].DiscordID)
	assert.Equal(t, int64(3), placements[2].DiscordID)
	assert.Equal(t, []int{1, 2, 3}, []int{placements[0].Rank, placements[1].Rank, placements[2].Rank})
}

func TestRank_NonFinisherSharesLastFinisherRank(t *testing.T) {
	placements := Rank([]Racer{dnf(4), finisher(1, 10), finisher(2, 20), finisher(3, 30)})

	require.Len(t, placements, 4)
	assert.Equal(t, int64(4), placements[3].DiscordID, "non-finisher sorts last")
	assert.Equal(t, map[int64]int{1: 1, 2: 2, 3: 3, 4: 3}, ranksByID(placements))
}

func TestRank_EveryNonFinisherRanksN(t *testing.T) {
	placements := Rank([]Racer{dnf(8), finisher(1, 10), dnf(9), finisher(2, 20)})

	require.Len(t, placements, 4)
	ranks := ranksByID(placements)
	assert.Equal(t, 2, ranks[8], "rank N, not N+1")
	assert.Equal(t, 2, ranks[9], "rank N, not N+1")
}

func TestRank_OnlyNonFinishers(t *testing.T) {
	placements := Rank([]Racer{dnf(1), dnf(2)})

	require.Len(t, placements, 2)
	assert.Equal(t, int64(1), placements[0].DiscordID)
	assert.Equal(t, int64(2), placements[1].DiscordID)
	assert.Equal(t, 1, placements[0].Rank)
	assert.Equal(t, 1, placements[1].Rank)
}

func TestRank_TiesKeepInputOrder(t *testing.T) {
	placements := Rank([]Racer{finisher(7, 50), finisher(5, 50), finisher(6, 40)})

	require.Len(t, placements, 3)
	assert.Equal(t, int64(6), placements[0].DiscordID)
	assert.Equal(t, int64(7), placements[1].DiscordID)
	assert.Equal(t, int64(5), placements[2].DiscordID)
	assert.Equal(t, map[int64]int{6: 1, 7: 2, 5: 3}, ranksByID(placements))
}

func TestRank_NonFinisherTimeIgnoredForOrdering(t *testing.T) {
	// A non-finisher's recorded time is below every finisher's but it still sorts last.
	slowDNF := Racer{DiscordID: 9, Time: 1}
	placements := Rank([]Racer{slowDNF, finisher(1, 100)})

	require.Len(t, placements, 2)
	assert.Equal(t, int64(1), placements[0].DiscordID)
	assert.Equal(t, int64(9), placements[1].DiscordID)
	assert.Equal(t, int64(1), placements[1].Time, "recorded time is preserved")
	assert.Equal(t, 1, placements[1].Rank)
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []Racer{finisher(2, 20), finisher(1, 10)}
	Rank(in)
	assert.Equal(t, int64(2), in[0].DiscordID)
}

func TestRank_Empty(t *testing.T) {
	assert.Empty(t, Rank(nil))
}
