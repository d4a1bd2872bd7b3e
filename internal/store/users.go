package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/akaNaymin/necrobot/internal/race"
)

const upsertIdentitySQL = `
	INSERT INTO user_data (discord_id, name)
	VALUES (?, ?)
	ON CONFLICT(discord_id) DO UPDATE SET name = excluded.name
`

// UpsertIdentity creates the user row for discordID if absent, otherwise
// overwrites its name. Other columns are left untouched.
func (s *Store) UpsertIdentity(ctx context.Context, discordID int64, name string) error {
	return s.withTx(ctx, "upsert identity", writeScope, func(tx *sql.Tx) error {
		return upsertIdentity(ctx, tx, discordID, name)
	})
}

// UpsertIdentities registers many users in one transaction.
func (s *Store) UpsertIdentities(ctx context.Context, ids []race.Identity) error {
	return s.withTx(ctx, "upsert identities", writeScope, func(tx *sql.Tx) error {
		for _, id := range ids {
			if err := upsertIdentity(ctx, tx, id.DiscordID, id.Name); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertIdentity(ctx context.Context, tx *sql.Tx, discordID int64, name string) error {
	_, err := tx.ExecContext(ctx, upsertIdentitySQL, discordID, race.NormalizeName(name))
	return err
}

// FindUsers returns every user matching all set fields of f, or every user
// when f is empty. Results are ordered by discord id.
func (s *Store) FindUsers(ctx context.Context, f race.UserFilter) ([]race.User, error) {
	var filter conjunction
	if f.DiscordID != nil {
		filter.eq("discord_id", *f.DiscordID)
	}
	if f.Name != nil {
		filter.eq("name", race.NormalizeName(*f.Name))
	}
	if f.TwitchName != nil {
		filter.eq(columnTwitchName, *f.TwitchName)
	}
	if f.RTMPName != nil {
		filter.eq(columnRTMPName, *f.RTMPName)
	}
	where, args := filter.where()
	query := `
		SELECT discord_id, name, twitch_name, rtmp_name, timezone, user_info, daily_alert, race_alert
		FROM user_data` + where + " ORDER BY discord_id ASC"

	users := []race.User{}
	err := s.withTx(ctx, "find users", readScope, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				return err
			}
			users = append(users, u)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}

// FindDiscordID returns the discord id of a user with the given name. When
// several users share the name the lowest id is returned.
func (s *Store) FindDiscordID(ctx context.Context, name string) (int64, bool, error) {
	var id sql.NullInt64
	err := s.withTx(ctx, "find discord id", readScope, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx,
			`SELECT MIN(discord_id) FROM user_data WHERE name = ?`,
			race.NormalizeName(name),
		).Scan(&id)
	})
	if err != nil {
		return 0, false, err
	}
	return id.Int64, id.Valid, nil
}

// Preferences returns the stored notification flags of a user. It fails with
// a not-found error when the user has no row.
func (s *Store) Preferences(ctx context.Context, discordID int64) (race.Preferences, error) {
	var prefs race.Preferences
	err := s.withTx(ctx, "get preferences", readScope, func(tx *sql.Tx) error {
		var err error
		prefs, err = readPreferences(ctx, tx, discordID)
		return err
	})
	return prefs, err
}

func readPreferences(ctx context.Context, tx *sql.Tx, discordID int64) (race.Preferences, error) {
	var daily, raceAlert bool
	err := tx.QueryRowContext(ctx,
		`SELECT daily_alert, race_alert FROM user_data WHERE discord_id = ?`,
		discordID,
	).Scan(&daily, &raceAlert)
	if err != nil {
		return race.Preferences{}, err
	}
	return race.Preferences{DailyAlert: race.Bool(daily), RaceAlert: race.Bool(raceAlert)}, nil
}

// SetPreferences merges the set fields of update onto the user's stored
// preferences and writes the result back. Read and write happen in one
// scope, but two callers updating the same user concurrently still race per
// field: last write wins. A user without a row yields a not-found error.
func (s *Store) SetPreferences(ctx context.Context, discordID int64, update race.Preferences) error {
	return s.withTx(ctx, "set preferences", writeScope, func(tx *sql.Tx) error {
		stored, err := readPreferences(ctx, tx, discordID)
		if err != nil {
			return err
		}
		merged := stored.Merge(update)

		_, err = tx.ExecContext(ctx, `
			INSERT INTO user_data (discord_id, daily_alert, race_alert)
			VALUES (?, ?, ?)
			ON CONFLICT(discord_id) DO UPDATE SET
				daily_alert = excluded.daily_alert,
				race_alert = excluded.race_alert
		`, discordID, *merged.DailyAlert, *merged.RaceAlert)
		return err
	})
}

// IDsMatchingPreferences returns the discord ids of users whose flags equal
// every set field of match. An empty match returns no ids.
func (s *Store) IDsMatchingPreferences(ctx context.Context, match race.Preferences) ([]int64, error) {
	ids := []int64{}
	if match.IsEmpty() {
		return ids, nil
	}

	var filter conjunction
	if match.DailyAlert != nil {
		filter.eq("daily_alert", *match.DailyAlert)
	}
	if match.RaceAlert != nil {
		filter.eq("race_alert", *match.RaceAlert)
	}
	where, args := filter.where()
	query := "SELECT discord_id FROM user_data" + where + " ORDER BY discord_id ASC"

	err := s.withTx(ctx, "ids matching preferences", readScope, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var id int64
			if err := rows.Scan(&id); err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Profile columns that can be set one at a time.
const (
	columnTimezone   = "timezone"
	columnTwitchName = "twitch_name"
	columnRTMPName   = "rtmp_name"
	columnUserInfo   = "user_info"
)

// SetTimezone sets a user's timezone. No-op if the user has no row.
func (s *Store) SetTimezone(ctx context.Context, discordID int64, timezone string) error {
	return s.setUserColumn(ctx, columnTimezone, discordID, timezone)
}

// SetTwitchName sets a user's twitch name. No-op if the user has no row.
func (s *Store) SetTwitchName(ctx context.Context, discordID int64, twitchName string) error {
	return s.setUserColumn(ctx, columnTwitchName, discordID, twitchName)
}

// SetRTMPName sets a user's RTMP name. No-op if the user has no row.
func (s *Store) SetRTMPName(ctx context.Context, discordID int64, rtmpName string) error {
	return s.setUserColumn(ctx, columnRTMPName, discordID, rtmpName)
}

// SetUserInfo sets a user's free-text info. No-op if the user has no row.
func (s *Store) SetUserInfo(ctx context.Context, discordID int64, info string) error {
	return s.setUserColumn(ctx, columnUserInfo, discordID, info)
}

// setUserColumn updates one profile column. column is always one of the
// constants above, never caller input.
func (s *Store) setUserColumn(ctx context.Context, column string, discordID int64, value string) error {
	op := "set " + column
	return s.withTx(ctx, op, writeScope, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			fmt.Sprintf(`UPDATE user_data SET %s = ? WHERE discord_id = ?`, column),
			value, discordID,
		)
		return err
	})
}
