package race

import "fmt"

// FormatTime renders a race time given in hundredths of a second as
// m:ss.hh, or h:mm:ss.hh past an hour. Non-positive times render as "--".
func FormatTime(hundredths int64) string {
	if hundredths <= 0 {
		return "--"
	}
	h := hundredths % 100
	secs := hundredths / 100
	s := secs % 60
	mins := secs / 60
	if mins >= 60 {
		return fmt.Sprintf("%d:%02d:%02d.%02d", mins/60, mins%60, s, h)
	}
	return fmt.Sprintf("%d:%02d.%02d", mins, s, h)
}

// Stats summarises a user's results with one character.
type Stats struct {
	Races    int   `json:"races"`
	Finishes int   `json:"finishes"`
	Best     int64 `json:"best"`
	Mean     int64 `json:"mean"`
}

// FinishRate is the fraction of races that finished, 0 when there are none.
func (s Stats) FinishRate() float64 {
	if s.Races == 0 {
		return 0
	}
	return float64(s.Finishes) / float64(s.Races)
}

// Summarize folds raw results into Stats. A result counts as a finish when it
// reached the qualifying level with a positive time; Best and Mean cover
// finishes only and are 0 when there are none.
func Summarize(results []TimeLevel) Stats {
	st := Stats{Races: len(results)}
	var total int64
	for _, r := range results {
		if r.Level != LevelQualifying || r.Time <= 0 {
			continue
		}
		st.Finishes++
		total += r.Time
		if st.Best == 0 || r.Time < st.Best {
			st.Best = r.Time
		}
	}
	if st.Finishes > 0 {
		st.Mean = total / int64(st.Finishes)
	}
	return st
}
