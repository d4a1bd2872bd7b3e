package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akaNaymin/necrobot/internal/race"
	"github.com/akaNaymin/necrobot/internal/testutil"
)

func TestFastestTimes_OneRowPerUser(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	clock := testutil.NewDeterministicClock()
	info := testutil.SeededAllZones("Cadence", false)

	for _, tm := range []int64{500, 300, 400, 300, 600} {
		recordTestRace(t, s, clock, info,
			testutil.Finisher(1, "ay", tm),
			testutil.Finisher(2, "bee", tm+50),
		)
	}

	times, err := s.FastestTimes(ctx, "Cadence", false, 10)
	require.NoError(t, err)
	require.Len(t, times, 2)

	assert.Equal(t, "ay", times[0].Name)
	assert.Equal(t, int64(300), times[0].Time)
	assert.Equal(t, testutil.Epoch.Add(time.Minute), times[0].Start, "earlier of the tied races")
	assert.Equal(t, int64(12345), times[0].Seed)

	assert.Equal(t, "bee", times[1].Name)
	assert.Equal(t, int64(350), times[1].Time)
}

func TestFastestTimes_Filters(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	clock := testutil.NewDeterministicClock()

	public := testutil.SeededAllZones("Cadence", false)

	private := public
	private.Private = true

	unseeded := public
	unseeded.Seeded = false

	otherDescriptor := public
	otherDescriptor.Descriptor = "Story"

	amplified := testutil.SeededAllZones("Cadence", true)
	otherCharacter := testutil.SeededAllZones("Bolt", false)

	recordTestRace(t, s, clock, private, testutil.Finisher(1, "private", 10))
	recordTestRace(t, s, clock, unseeded, testutil.Finisher(2, "unseeded", 20))
	recordTestRace(t, s, clock, otherDescriptor, testutil.Finisher(3, "story", 30))
	recordTestRace(t, s, clock, amplified, testutil.Finisher(4, "amp", 40))
	recordTestRace(t, s, clock, otherCharacter, testutil.Finisher(5, "bolt", 50))
	recordTestRace(t, s, clock, public,
		testutil.Finisher(6, "counted", 600),
		testutil.DNF(7, "quitter", 60, 3),
	)

	times, err := s.FastestTimes(ctx, "Cadence", false, 10)
	require.NoError(t, err)
	require.Len(t, times, 1)
	assert.Equal(t, "counted", times[0].Name)

	times, err = s.FastestTimes(ctx, "Cadence", true, 10)
	require.NoError(t, err)
	require.Len(t, times, 1)
	assert.Equal(t, "amp", times[0].Name)
}

func TestFastestTimes_ExcludesNonPositiveTimes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	clock := testutil.NewDeterministicClock()

	recordTestRace(t, s, clock, testutil.SeededAllZones("Cadence", false),
		testutil.Finisher(1, "zero", 0),
		testutil.Finisher(2, "real", 100),
	)

	times, err := s.FastestTimes(ctx, "Cadence", false, 10)
	require.NoError(t, err)
	require.Len(t, times, 1)
	assert.Equal(t, "real", times[0].Name)
}

func TestFastestTimes_Limit(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	clock := testutil.NewDeterministicClock()

	recordTestRace(t, s, clock, testutil.SeededAllZones("Cadence", false),
		testutil.Finisher(1, "a", 300),
		testutil.Finisher(2, "b", 100),
		testutil.Finisher(3, "c", 200),
	)

	times, err := s.FastestTimes(ctx, "Cadence", false, 2)
	require.NoError(t, err)
	require.Len(t, times, 2)
	assert.Equal(t, "b", times[0].Name)
	assert.Equal(t, "c", times[1].Name)
}

func TestLeaderboards_NonPositiveLimitReturnsNothing(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	clock := testutil.NewDeterministicClock()

	recordTestRace(t, s, clock, testutil.SeededAllZones("Cadence", false),
		testutil.Finisher(1, "a", 300),
		testutil.Finisher(2, "b", 100),
		testutil.Finisher(3, "c", 200),
	)

	for _, limit := range []int{0, -1} {
		times, err := s.FastestTimes(ctx, "Cadence", false, limit)
		require.NoError(t, err)
		assert.NotNil(t, times)
		assert.Empty(t, times, "fastest times with limit %d", limit)

		counts, err := s.MostRaces(ctx, "Cadence", limit)
		require.NoError(t, err)
		assert.NotNil(t, counts)
		assert.Empty(t, counts, "most races with limit %d", limit)
	}
}

func TestFastestTimes_Empty(t *testing.T) {
	s := createTestStore(t)

	times, err := s.FastestTimes(context.Background(), "Cadence", false, 10)
	require.NoError(t, err)
	assert.NotNil(t, times)
	assert.Empty(t, times)
}

func TestMostRaces(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	clock := testutil.NewDeterministicClock()

	base := testutil.SeededAllZones("Cadence", false)
	amp := testutil.SeededAllZones("Cadence", true)
	unseeded := base
	unseeded.Seeded = false
	private := base
	private.Private = true
	bolt := testutil.SeededAllZones("Bolt", false)

	recordTestRace(t, s, clock, base, testutil.Finisher(1, "ay", 100), testutil.Finisher(2, "bee", 200))
	recordTestRace(t, s, clock, amp, testutil.Finisher(1, "ay", 100))
	recordTestRace(t, s, clock, unseeded, testutil.Finisher(2, "bee", 100), testutil.Finisher(3, "cee", 200))
	recordTestRace(t, s, clock, private, testutil.Finisher(1, "ay", 100))
	recordTestRace(t, s, clock, bolt, testutil.Finisher(4, "dee", 100))

	counts, err := s.MostRaces(ctx, "Cadence", 10)
	require.NoError(t, err)
	assert.Equal(t, []race.RaceCount{
		{Name: "ay", Total: 2, Base: 1, Amplified: 1},
		{Name: "bee", Total: 2, Base: 2, Amplified: 0},
		{Name: "cee", Total: 1, Base: 1, Amplified: 0},
		{Name: "dee", Total: 0, Base: 0, Amplified: 0},
	}, counts)

	counts, err = s.MostRaces(ctx, "Cadence", 1)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, "ay", counts[0].Name)
}

func TestRaceHistory(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	clock := testutil.NewDeterministicClock()

	cadence := testutil.SeededAllZones("Cadence", false)
	bolt := testutil.SeededAllZones("Bolt", false)
	ampBolt := testutil.SeededAllZones("Bolt", true)
	unseeded := cadence
	unseeded.Seeded = false

	recordTestRace(t, s, clock, cadence, testutil.Finisher(1, "ay", 100))
	recordTestRace(t, s, clock, bolt, testutil.Finisher(1, "ay", 100))
	recordTestRace(t, s, clock, bolt, testutil.DNF(1, "ay", 100, 5))
	recordTestRace(t, s, clock, ampBolt, testutil.Finisher(1, "ay", 100))
	recordTestRace(t, s, clock, unseeded, testutil.Finisher(1, "ay", 100))
	recordTestRace(t, s, clock, cadence, testutil.Finisher(2, "bee", 100))

	history, err := s.RaceHistory(ctx, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []race.CharacterCount{
		{Character: "Bolt", Count: 2},
		{Character: "Cadence", Count: 1},
	}, history)

	history, err = s.RaceHistory(ctx, 1, true)
	require.NoError(t, err)
	assert.Equal(t, []race.CharacterCount{{Character: "Bolt", Count: 1}}, history)

	history, err = s.RaceHistory(ctx, 99, false)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRaceTimes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	clock := testutil.NewDeterministicClock()

	cadence := testutil.SeededAllZones("Cadence", false)
	private := cadence
	private.Private = true

	recordTestRace(t, s, clock, cadence, testutil.Finisher(1, "ay", 100))
	recordTestRace(t, s, clock, cadence, testutil.DNF(1, "ay", 250, 7))
	recordTestRace(t, s, clock, private, testutil.Finisher(1, "ay", 50))
	recordTestRace(t, s, clock, testutil.SeededAllZones("Cadence", true), testutil.Finisher(1, "ay", 75))

	times, err := s.RaceTimes(ctx, 1, "Cadence", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []race.TimeLevel{
		{Time: 100, Level: race.LevelQualifying},
		{Time: 250, Level: 7},
	}, times)
}

func TestLatestRaceIndex(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	clock := testutil.NewDeterministicClock()
	info := testutil.SeededAllZones("Cadence", false)

	_, ok, err := s.LatestRaceIndex(ctx, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	recordTestRace(t, s, clock, info, testutil.Finisher(1, "ay", 100))
	assert.Equal(t, int64(0), mustLatestRaceIndex(t, s, 1), "race 0 is a real race")

	recordTestRace(t, s, clock, info, testutil.Finisher(1, "ay", 100))
	recordTestRace(t, s, clock, info, testutil.Finisher(2, "bee", 100))
	assert.Equal(t, int64(1), mustLatestRaceIndex(t, s, 1))
}

func mustLatestRaceIndex(t *testing.T, s *Store, discordID int64) int64 {
	t.Helper()
	id, ok, err := s.LatestRaceIndex(context.Background(), discordID)
	require.NoError(t, err)
	require.True(t, ok)
	return id
}
