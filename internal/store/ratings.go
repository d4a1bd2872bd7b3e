package store

import (
	"context"
	"database/sql"

	"github.com/akaNaymin/necrobot/internal/race"
)

// SetRating stores a user's rating, replacing any previous one. Both values
// are truncated toward zero on write.
func (s *Store) SetRating(ctx context.Context, discordID int64, r race.Rating) error {
	mu, sigma := r.Quantize()
	return s.withTx(ctx, "set rating", writeScope, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ladder_data (discord_id, trueskill_mu, trueskill_sigma)
			VALUES (?, ?, ?)
			ON CONFLICT(discord_id) DO UPDATE SET
				trueskill_mu = excluded.trueskill_mu,
				trueskill_sigma = excluded.trueskill_sigma
		`, discordID, mu, sigma)
		return err
	})
}

// Rating returns a user's stored rating. ok is false when none is stored.
func (s *Store) Rating(ctx context.Context, discordID int64) (race.Rating, bool, error) {
	var mu, sigma int64
	var ok bool
	err := s.withTx(ctx, "get rating", readScope, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			SELECT trueskill_mu, trueskill_sigma FROM ladder_data WHERE discord_id = ?
		`, discordID).Scan(&mu, &sigma)
		if err == sql.ErrNoRows {
			return nil
		}
		ok = err == nil
		return err
	})
	if err != nil || !ok {
		return race.Rating{}, false, err
	}
	return race.RatingFromStored(mu, sigma), true, nil
}
