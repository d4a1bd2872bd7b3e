package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/akaNaymin/necrobot/internal/race"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanUser scans a user_data row selected in column order
// discord_id, name, twitch_name, rtmp_name, timezone, user_info, daily_alert, race_alert.
func scanUser(row rowScanner) (race.User, error) {
	var u race.User
	var name, twitch, rtmp, tz, info sql.NullString
	if err := row.Scan(&u.DiscordID, &name, &twitch, &rtmp, &tz, &info, &u.DailyAlert, &u.RaceAlert); err != nil {
		return race.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.Name = name.String
	u.TwitchName = twitch.String
	u.RTMPName = rtmp.String
	u.Timezone = tz.String
	u.UserInfo = info.String
	return u, nil
}

// formatTimestamp renders t in the stored second-precision UTC layout.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(race.TimestampLayout)
}

// parseTimestamp reads a stored race start time.
func parseTimestamp(s string) (time.Time, error) {
	t, err := time.ParseInLocation(race.TimestampLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// nullableID stores 0 as NULL.
func nullableID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
