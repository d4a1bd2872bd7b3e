package race

import "sort"

// Rank orders racers for recording and assigns ranks.
//
// Non-finishers get an effective time one past the slowest finisher (or 1 when
// nobody finished) so they always sort last. The sort is stable, so ties keep
// the caller's order. Finishers take the running counter and advance it; a
// non-finisher does not advance it and is stored with the rank of the last
// finisher before it. With N finishers every non-finisher ranks N. Do not
// switch this to N+1, the value the advanced counter would give.
func Rank(racers []Racer) []Placement {
	var maxTime int64
	for _, r := range racers {
		if r.Finished && r.Time > maxTime {
			maxTime = r.Time
		}
	}
	dnfTime := maxTime + 1

	effective := func(r Racer) int64 {
		if r.Finished {
			return r.Time
		}
		return dnfTime
	}

	sorted := make([]Racer, len(racers))
	copy(sorted, racers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return effective(sorted[i]) < effective(sorted[j])
	})

	placements := make([]Placement, 0, len(sorted))
	next, last := 1, 0
	for _, r := range sorted {
		if r.Finished {
			placements = append(placements, Placement{Racer: r, Rank: next})
			last = next
			next++
			continue
		}
		placements = append(placements, Placement{Racer: r, Rank: unfinishedRank(last)})
	}
	return placements
}

// unfinishedRank is the rank stored for a non-finisher given the rank of the
// last finisher placed before it (0 when none).
func unfinishedRank(lastFinisher int) int {
	if lastFinisher == 0 {
		return 1
	}
	return lastFinisher
}
