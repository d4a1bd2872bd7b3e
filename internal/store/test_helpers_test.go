package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akaNaymin/necrobot/internal/race"
	"github.com/akaNaymin/necrobot/internal/testutil"
)

// createTestStore creates a connected store on a fresh database file.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{Path: filepath.Join(t.TempDir(), "test.db")})
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// recordTestRace records a race started at the clock's next tick.
func recordTestRace(t *testing.T, s *Store, clock *testutil.DeterministicClock, info race.RaceInfo, racers ...race.Racer) int64 {
	t.Helper()
	id, err := s.RecordRace(context.Background(), race.Race{
		Info:   info,
		Start:  clock.Next(),
		Racers: racers,
	})
	require.NoError(t, err)
	return id
}

// countRows counts the rows of a table outside any scope.
func countRows(t *testing.T, s *Store, table string) int {
	t.Helper()
	var n int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

// verifyPragma checks that a pragma is set to the expected value.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}

func int64Ptr(v int64) *int64    { return &v }
func stringPtr(v string) *string { return &v }
