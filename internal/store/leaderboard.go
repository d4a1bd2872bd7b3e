package store

import (
	"context"
	"database/sql"

	"github.com/akaNaymin/necrobot/internal/race"
)

// FastestTimes returns each user's best qualifying time for a character,
// fastest first, at most limit rows. Qualifying results are seeded, public,
// all-zones races of the requested amplified variant with a positive time at
// level race.LevelQualifying. A user contributes one row; when a user has the
// same best time twice the earlier race wins. A limit below 1 yields no rows.
func (s *Store) FastestTimes(ctx context.Context, character string, amplified bool, limit int) ([]race.FastestTime, error) {
	out := []race.FastestTime{}
	if limit < 1 {
		return out, nil
	}
	err := s.withTx(ctx, "fastest times", readScope, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			WITH qualifying AS (
				SELECT
					rd.discord_id,
					rd.time,
					r.seed,
					r.timestamp,
					r.race_id,
					ROW_NUMBER() OVER (
						PARTITION BY rd.discord_id
						ORDER BY rd.time ASC, r.race_id ASC
					) AS pos
				FROM racer_data rd
				JOIN race_data r ON r.race_id = rd.race_id
				WHERE rd.time > 0
					AND rd.level = ?
					AND r.character_name = ?
					AND r.descriptor = ?
					AND r.seeded
					AND r.amplified = ?
					AND NOT r.private
			)
			SELECT u.name, q.time, q.seed, q.timestamp
			FROM qualifying q
			JOIN user_data u ON u.discord_id = q.discord_id
			WHERE q.pos = 1
			ORDER BY q.time ASC, q.race_id ASC
			LIMIT ?
		`, race.LevelQualifying, character, race.DescriptorAllZones, amplified, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var ft race.FastestTime
			var name sql.NullString
			var ts string
			if err := rows.Scan(&name, &ft.Time, &ft.Seed, &ts); err != nil {
				return err
			}
			if ft.Start, err = parseTimestamp(ts); err != nil {
				return err
			}
			ft.Name = name.String
			out = append(out, ft)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// MostRaces returns per-user counts of public all-zones races with a
// character, split by amplified variant, most races first, at most limit
// rows. Every user who has raced appears, with zero counts if none of their
// races match. A limit below 1 yields no rows.
func (s *Store) MostRaces(ctx context.Context, character string, limit int) ([]race.RaceCount, error) {
	out := []race.RaceCount{}
	if limit < 1 {
		return out, nil
	}
	err := s.withTx(ctx, "most races", readScope, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT user_name, base + amplified AS total, base, amplified
			FROM (
				SELECT
					u.discord_id,
					u.name AS user_name,
					SUM(CASE WHEN r.character_name = ?1
						AND r.descriptor = ?2
						AND NOT r.amplified
						AND NOT r.private THEN 1 ELSE 0 END) AS base,
					SUM(CASE WHEN r.character_name = ?1
						AND r.descriptor = ?2
						AND r.amplified
						AND NOT r.private THEN 1 ELSE 0 END) AS amplified
				FROM racer_data rd
				JOIN user_data u ON u.discord_id = rd.discord_id
				JOIN race_data r ON r.race_id = rd.race_id
				GROUP BY u.discord_id
			)
			ORDER BY total DESC, user_name ASC
			LIMIT ?3
		`, character, race.DescriptorAllZones, limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var rc race.RaceCount
			var name sql.NullString
			if err := rows.Scan(&name, &rc.Total, &rc.Base, &rc.Amplified); err != nil {
				return err
			}
			rc.Name = name.String
			out = append(out, rc)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RaceHistory returns how many seeded, public, all-zones races of the given
// amplified variant a user has run with each character, most first.
func (s *Store) RaceHistory(ctx context.Context, discordID int64, amplified bool) ([]race.CharacterCount, error) {
	out := []race.CharacterCount{}
	err := s.withTx(ctx, "race history", readScope, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT r.character_name, COUNT(*) AS num
			FROM racer_data rd
			JOIN race_data r ON r.race_id = rd.race_id
			WHERE rd.discord_id = ?
				AND r.descriptor = ?
				AND r.amplified = ?
				AND r.seeded
				AND NOT r.private
			GROUP BY r.character_name
			ORDER BY num DESC, r.character_name ASC
		`, discordID, race.DescriptorAllZones, amplified)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var cc race.CharacterCount
			if err := rows.Scan(&cc.Character, &cc.Count); err != nil {
				return err
			}
			out = append(out, cc)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RaceTimes returns the raw (time, level) pairs of a user's seeded, public,
// all-zones races with a character. Order is unspecified.
func (s *Store) RaceTimes(ctx context.Context, discordID int64, character string, amplified bool) ([]race.TimeLevel, error) {
	out := []race.TimeLevel{}
	err := s.withTx(ctx, "race times", readScope, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT rd.time, rd.level
			FROM racer_data rd
			JOIN race_data r ON r.race_id = rd.race_id
			WHERE rd.discord_id = ?
				AND r.character_name = ?
				AND r.descriptor = ?
				AND r.amplified = ?
				AND r.seeded
				AND NOT r.private
		`, discordID, character, race.DescriptorAllZones, amplified)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var tl race.TimeLevel
			if err := rows.Scan(&tl.Time, &tl.Level); err != nil {
				return err
			}
			out = append(out, tl)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LatestRaceIndex returns the highest race id the user took part in. ok is
// false when the user has no races.
func (s *Store) LatestRaceIndex(ctx context.Context, discordID int64) (int64, bool, error) {
	var id sql.NullInt64
	err := s.withTx(ctx, "latest race index", readScope, func(tx *sql.Tx) error {
		return tx.QueryRowContext(ctx,
			`SELECT MAX(race_id) FROM racer_data WHERE discord_id = ?`,
			discordID,
		).Scan(&id)
	})
	if err != nil {
		return 0, false, err
	}
	return id.Int64, id.Valid, nil
}
