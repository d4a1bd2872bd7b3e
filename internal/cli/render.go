package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"

	"github.com/akaNaymin/necrobot/internal/race"
)

// Text renderers for command output. JSON output encodes the same values
// directly, so nothing here affects it.

func writePlacements(w io.Writer, raceID int64, placements []race.Placement) error {
	fmt.Fprintf(w, "Race %d\n", raceID)
	if len(placements) == 0 {
		_, err := fmt.Fprintln(w, "  (no racers)")
		return err
	}
	for _, p := range placements {
		status := race.FormatTime(p.Time)
		if p.Level != race.LevelQualifying {
			status = fmt.Sprintf("level %d", p.Level)
		}
		fmt.Fprintf(w, "  %-5s %-20s %s", humanize.Ordinal(p.Rank), p.Name, status)
		if p.Comment != "" {
			fmt.Fprintf(w, "  (%s)", p.Comment)
		}
		fmt.Fprintln(w)
	}
	return nil
}

func writeUsers(w io.Writer, users []race.User) error {
	if len(users) == 0 {
		_, err := fmt.Fprintln(w, "No users found.")
		return err
	}
	for _, u := range users {
		fmt.Fprintf(w, "%d  %s\n", u.DiscordID, u.Name)
		if u.TwitchName != "" {
			fmt.Fprintf(w, "  twitch:   %s\n", u.TwitchName)
		}
		if u.RTMPName != "" {
			fmt.Fprintf(w, "  rtmp:     %s\n", u.RTMPName)
		}
		if u.Timezone != "" {
			fmt.Fprintf(w, "  timezone: %s\n", u.Timezone)
		}
		if u.UserInfo != "" {
			fmt.Fprintf(w, "  info:     %s\n", u.UserInfo)
		}
		fmt.Fprintf(w, "  alerts:   daily=%t race=%t\n", u.DailyAlert, u.RaceAlert)
	}
	return nil
}

func writePreferences(w io.Writer, discordID int64, p race.Preferences) error {
	_, err := fmt.Fprintf(w, "%d  daily_alert=%t race_alert=%t\n", discordID, deref(p.DailyAlert), deref(p.RaceAlert))
	return err
}

func deref(b *bool) bool {
	return b != nil && *b
}

func writeDailyTimes(w io.Writer, dailyID int64, t race.DailyType, times []race.DailyTime) error {
	fmt.Fprintf(w, "=== Daily %d (%s) ===\n", dailyID, t)
	if len(times) == 0 {
		_, err := fmt.Fprintln(w, "  (no entries)")
		return err
	}
	for i, dt := range times {
		fmt.Fprintf(w, "  %-5s %-20s %s\n", humanize.Ordinal(i+1), dt.Name, dailyResult(dt))
	}
	return nil
}

func dailyResult(dt race.DailyTime) string {
	if dt.Level == race.LevelNotSubmitted {
		return "not submitted"
	}
	return fmt.Sprintf("level %d  %s", dt.Level, race.FormatTime(dt.Time))
}

func writeFastest(w io.Writer, character string, amplified bool, times []race.FastestTime) error {
	fmt.Fprintf(w, "=== Fastest %s ===\n", boardTitle(character, amplified))
	if len(times) == 0 {
		_, err := fmt.Fprintln(w, "  (no qualifying times)")
		return err
	}
	for i, ft := range times {
		fmt.Fprintf(w, "  %-5s %-20s %10s  seed %-10d %s\n",
			humanize.Ordinal(i+1),
			ft.Name,
			race.FormatTime(ft.Time),
			ft.Seed,
			ft.Start.UTC().Format("2006-01-02"),
		)
	}
	return nil
}

func writeMostRaces(w io.Writer, character string, counts []race.RaceCount) error {
	fmt.Fprintf(w, "=== Most races: %s ===\n", character)
	if len(counts) == 0 {
		_, err := fmt.Fprintln(w, "  (no races)")
		return err
	}
	fmt.Fprintf(w, "  %-5s %-20s %7s %7s %7s\n", "", "name", "total", "base", "amp")
	for i, rc := range counts {
		fmt.Fprintf(w, "  %-5s %-20s %7s %7s %7s\n",
			humanize.Ordinal(i+1),
			rc.Name,
			humanize.Comma(int64(rc.Total)),
			humanize.Comma(int64(rc.Base)),
			humanize.Comma(int64(rc.Amplified)),
		)
	}
	return nil
}

func writeHistory(w io.Writer, discordID int64, amplified bool, history []race.CharacterCount) error {
	variant := "base"
	if amplified {
		variant = "amplified"
	}
	fmt.Fprintf(w, "=== Race history for %d (%s) ===\n", discordID, variant)
	if len(history) == 0 {
		_, err := fmt.Fprintln(w, "  (no races)")
		return err
	}
	for _, cc := range history {
		fmt.Fprintf(w, "  %-12s %s\n", cc.Character, humanize.Comma(int64(cc.Count)))
	}
	return nil
}

func writeStats(w io.Writer, discordID int64, character string, amplified bool, st race.Stats) error {
	fmt.Fprintf(w, "=== Stats for %d: %s ===\n", discordID, boardTitle(character, amplified))
	fmt.Fprintf(w, "  Races:    %s\n", humanize.Comma(int64(st.Races)))
	fmt.Fprintf(w, "  Finishes: %s (%.0f%%)\n", humanize.Comma(int64(st.Finishes)), st.FinishRate()*100)
	fmt.Fprintf(w, "  Best:     %s\n", race.FormatTime(st.Best))
	_, err := fmt.Fprintf(w, "  Mean:     %s\n", race.FormatTime(st.Mean))
	return err
}

func boardTitle(character string, amplified bool) string {
	if amplified {
		return character + " (amplified)"
	}
	return character
}
