package store

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/akaNaymin/necrobot/internal/race"
)

// RecordRace persists a finished race and its racers in one transaction and
// returns the allocated race id.
//
// The id is one past the current maximum (0 for an empty ledger). Racers are
// ranked with race.Rank and written in placement order, each followed by an
// upsert of the racer's identity. Any failure rolls the whole race back; a
// collision on the race id or a racer listed twice surfaces as a constraint
// violation and is not retried.
func (s *Store) RecordRace(ctx context.Context, r race.Race) (int64, error) {
	var raceID int64
	err := s.withTx(ctx, "record race", writeScope, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx,
			`SELECT COALESCE(MAX(race_id), -1) + 1 FROM race_data`,
		).Scan(&raceID); err != nil {
			return err
		}

		info := r.Info
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO race_data
			(race_id, timestamp, character_name, descriptor, flags, seed, seeded, amplified, condor, private)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			raceID,
			formatTimestamp(r.Start),
			info.Character,
			info.Descriptor,
			info.Flags,
			info.Seed,
			info.Seeded,
			info.Amplified,
			info.Condor,
			info.Private,
		); err != nil {
			return err
		}

		for _, p := range race.Rank(r.Racers) {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO racer_data
				(race_id, discord_id, time, rank, igt, comment, level)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`,
				raceID,
				p.DiscordID,
				p.Time,
				p.Rank,
				p.IGT,
				p.Comment,
				p.Level,
			); err != nil {
				return err
			}

			if err := upsertIdentity(ctx, tx, p.DiscordID, p.Name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	slog.Info("race recorded",
		"race_id", raceID,
		"character", r.Info.Character,
		"racers", len(r.Racers),
	)
	return raceID, nil
}

// RaceResults returns the stored placements of a race in rank order. The
// racer name is the user's current name.
func (s *Store) RaceResults(ctx context.Context, raceID int64) ([]race.Placement, error) {
	placements := []race.Placement{}
	err := s.withTx(ctx, "race results", readScope, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT rd.discord_id, u.name, rd.time, rd.rank, rd.igt, rd.comment, rd.level
			FROM racer_data rd
			JOIN user_data u ON u.discord_id = rd.discord_id
			WHERE rd.race_id = ?
			ORDER BY rd.rank ASC, rd.rowid ASC
		`, raceID)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p race.Placement
			var name sql.NullString
			if err := rows.Scan(&p.DiscordID, &name, &p.Time, &p.Rank, &p.IGT, &p.Comment, &p.Level); err != nil {
				return err
			}
			p.Name = name.String
			placements = append(placements, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return placements, nil
}
