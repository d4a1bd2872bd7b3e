package store

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/akaNaymin/necrobot/internal/race"
)

// CreateDaily inserts a new daily definition. It is a one-time creation, not
// an upsert: a second call for the same (dailyID, type) is a constraint
// violation. A messageID of 0 leaves the announcement unset.
func (s *Store) CreateDaily(ctx context.Context, dailyID int64, dailyType race.DailyType, seed int64, messageID int64) error {
	err := s.withTx(ctx, "create daily", writeScope, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO daily_data (daily_id, type, seed, msg_id)
			VALUES (?, ?, ?, ?)
		`, dailyID, dailyType, seed, nullableID(messageID))
		return err
	})
	if err != nil {
		return err
	}
	slog.Info("daily created", "daily_id", dailyID, "type", dailyType, "seed", seed)
	return nil
}

// SetDailyMessage records the announcement message of a daily. Nothing
// happens when the daily does not exist.
func (s *Store) SetDailyMessage(ctx context.Context, dailyID int64, dailyType race.DailyType, messageID int64) error {
	return s.withTx(ctx, "set daily message", writeScope, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE daily_data SET msg_id = ?
			WHERE daily_id = ? AND type = ?
		`, nullableID(messageID), dailyID, dailyType)
		return err
	})
}

// DailyMessageID returns the announcement message of a daily. ok is false
// when the daily does not exist or has no message yet.
func (s *Store) DailyMessageID(ctx context.Context, dailyID int64, dailyType race.DailyType) (messageID int64, ok bool, err error) {
	var msg sql.NullInt64
	err = s.withTx(ctx, "daily message id", readScope, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			SELECT msg_id FROM daily_data WHERE daily_id = ? AND type = ?
		`, dailyID, dailyType).Scan(&msg)
		if err == sql.ErrNoRows {
			return nil
		}
		return err
	})
	if err != nil {
		return 0, false, err
	}
	return msg.Int64, msg.Valid, nil
}

// DailySeed returns the seed of a daily. ok is false when it does not exist.
func (s *Store) DailySeed(ctx context.Context, dailyID int64, dailyType race.DailyType) (seed int64, ok bool, err error) {
	err = s.withTx(ctx, "daily seed", readScope, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			SELECT seed FROM daily_data WHERE daily_id = ? AND type = ?
		`, dailyID, dailyType).Scan(&seed)
		if err == sql.ErrNoRows {
			return nil
		}
		ok = err == nil
		return err
	})
	if err != nil {
		return 0, false, err
	}
	return seed, ok, nil
}

// RegisterOrSubmitDaily writes a user's entry for a daily, replacing any
// existing entry outright. An entry with level race.LevelNotSubmitted is a
// registration; any other level is a submission.
func (s *Store) RegisterOrSubmitDaily(ctx context.Context, e race.DailyEntry) error {
	return s.withTx(ctx, "register daily", writeScope, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO daily_races (discord_id, daily_id, type, level, time)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(discord_id, daily_id, type) DO UPDATE SET
				level = excluded.level,
				time = excluded.time
		`, e.DiscordID, e.DailyID, e.Type, e.Level, e.Time)
		return err
	})
}

// RegisterDaily registers a user for a daily without a submission.
func (s *Store) RegisterDaily(ctx context.Context, discordID, dailyID int64, dailyType race.DailyType) error {
	return s.RegisterOrSubmitDaily(ctx, race.DailyEntry{
		DiscordID: discordID,
		DailyID:   dailyID,
		Type:      dailyType,
		Level:     race.LevelNotSubmitted,
		Time:      -1,
	})
}

// SubmitDaily records a user's result for a daily.
func (s *Store) SubmitDaily(ctx context.Context, discordID, dailyID int64, dailyType race.DailyType, level int, time int64) error {
	return s.RegisterOrSubmitDaily(ctx, race.DailyEntry{
		DiscordID: discordID,
		DailyID:   dailyID,
		Type:      dailyType,
		Level:     level,
		Time:      time,
	})
}

// HasRegisteredDaily reports whether the user has any entry for the daily.
func (s *Store) HasRegisteredDaily(ctx context.Context, discordID, dailyID int64, dailyType race.DailyType) (bool, error) {
	return s.dailyExists(ctx, "has registered daily", `
		SELECT EXISTS (
			SELECT 1 FROM daily_races
			WHERE discord_id = ? AND daily_id = ? AND type = ?
		)`, discordID, dailyID, dailyType)
}

// HasSubmittedDaily reports whether the user has submitted for the daily.
func (s *Store) HasSubmittedDaily(ctx context.Context, discordID, dailyID int64, dailyType race.DailyType) (bool, error) {
	return s.dailyExists(ctx, "has submitted daily", `
		SELECT EXISTS (
			SELECT 1 FROM daily_races
			WHERE discord_id = ? AND daily_id = ? AND type = ? AND level != ?
		)`, discordID, dailyID, dailyType, race.LevelNotSubmitted)
}

func (s *Store) dailyExists(ctx context.Context, op, query string, args ...any) (bool, error) {
	var exists bool
	err := s.withTx(ctx, op, readScope, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, args...).Scan(&exists)
	})
	return exists, err
}

// LatestRegisteredDaily returns the highest daily id the user has an entry
// for. ok is false when there is none.
func (s *Store) LatestRegisteredDaily(ctx context.Context, discordID int64, dailyType race.DailyType) (int64, bool, error) {
	return s.latestDaily(ctx, "latest registered daily", `
		SELECT MAX(daily_id) FROM daily_races
		WHERE discord_id = ? AND type = ?
	`, discordID, dailyType)
}

// LatestSubmittedDaily returns the highest daily id the user has submitted
// for. ok is false when there is none.
func (s *Store) LatestSubmittedDaily(ctx context.Context, discordID int64, dailyType race.DailyType) (int64, bool, error) {
	return s.latestDaily(ctx, "latest submitted daily", `
		SELECT MAX(daily_id) FROM daily_races
		WHERE discord_id = ? AND type = ? AND level != ?
	`, discordID, dailyType, race.LevelNotSubmitted)
}

func (s *Store) latestDaily(ctx context.Context, op, query string, args ...any) (int64, bool, error) {
	var id sql.NullInt64
	err := s.withTx(ctx, op, readScope, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx, query, args...).Scan(&id)
	})
	if err != nil {
		return 0, false, err
	}
	return id.Int64, id.Valid, nil
}

// WithdrawDaily moves a user's entry back to registered-not-submitted. The
// row is kept. Nothing happens when there is no entry.
func (s *Store) WithdrawDaily(ctx context.Context, discordID, dailyID int64, dailyType race.DailyType) error {
	return s.withTx(ctx, "withdraw daily", writeScope, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE daily_races SET level = ?
			WHERE discord_id = ? AND daily_id = ? AND type = ?
		`, race.LevelNotSubmitted, discordID, dailyID, dailyType)
		return err
	})
}

// DailyTimes returns every entry of a daily with the user's name, best level
// first and fastest time within a level.
func (s *Store) DailyTimes(ctx context.Context, dailyID int64, dailyType race.DailyType) ([]race.DailyTime, error) {
	times := []race.DailyTime{}
	err := s.withTx(ctx, "daily times", readScope, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT u.name, dr.level, dr.time
			FROM daily_races dr
			JOIN user_data u ON u.discord_id = dr.discord_id
			WHERE dr.daily_id = ? AND dr.type = ?
			ORDER BY dr.level DESC, dr.time ASC
		`, dailyID, dailyType)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var dt race.DailyTime
			var name sql.NullString
			if err := rows.Scan(&name, &dt.Level, &dt.Time); err != nil {
				return err
			}
			dt.Name = name.String
			times = append(times, dt)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return times, nil
}
