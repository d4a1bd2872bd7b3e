package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

const defaultBusyTimeout = 5 * time.Second

// Config holds the connection parameters of the ledger database.
type Config struct {
	// Path is the SQLite database file. It is created if missing.
	Path string

	// BusyTimeout bounds how long a statement waits for another writer's lock.
	// Zero means 5 seconds.
	BusyTimeout time.Duration
}

// dsn builds the driver connection string. Transactions begin IMMEDIATE so
// that a read followed by a write inside one scope holds the write lock
// throughout.
func (c Config) dsn() string {
	timeout := c.BusyTimeout
	if timeout <= 0 {
		timeout = defaultBusyTimeout
	}
	q := url.Values{}
	q.Set("_busy_timeout", strconv.FormatInt(timeout.Milliseconds(), 10))
	q.Set("_foreign_keys", "1")
	q.Set("_journal_mode", "WAL")
	q.Set("_synchronous", "NORMAL")
	q.Set("_txlock", "immediate")
	return "file:" + c.Path + "?" + q.Encode()
}

// Store owns the single ledger connection. It dials lazily on first use and
// re-dials once if the connection has dropped. All callers share it; each
// operation runs in its own transaction scope.
type Store struct {
	cfg  Config
	open func(dsn string) (*sql.DB, error)

	mu sync.Mutex
	db *sql.DB
}

// Open returns a Store for cfg. No connection is made until the first
// operation; use Ping to connect eagerly.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("open store: database path is required")
	}
	return &Store{
		cfg: cfg,
		open: func(dsn string) (*sql.DB, error) {
			return sql.Open("sqlite3", dsn)
		},
	}, nil
}

// Close releases the connection. A later operation dials again.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

// Ping makes sure a live connection exists, dialing if needed.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.conn(ctx)
	return err
}

// conn returns the live connection, dialing or re-dialing as needed.
func (s *Store) conn(ctx context.Context) (*sql.DB, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		err := s.db.PingContext(ctx)
		if err == nil {
			return s.db, nil
		}
		slog.Warn("ledger connection lost, reconnecting", "path", s.cfg.Path, "error", err)
		_ = s.db.Close()
		s.db = nil
	}

	db, err := s.dial(ctx)
	if err != nil {
		return nil, &Error{Code: ErrCodeConnection, Op: "connect", Err: err}
	}
	s.db = db
	return db, nil
}

// dial opens the database, limits it to one connection and applies the schema.
func (s *Store) dial(ctx context.Context) (*sql.DB, error) {
	db, err := s.open(s.cfg.dsn())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection for the whole process; SQLite has a single writer anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	slog.Info("ledger connected", "path", s.cfg.Path)
	return db, nil
}

// scopeMode says whether a transaction scope commits.
type scopeMode int

const (
	readScope scopeMode = iota
	writeScope
)

// withTx runs fn inside one transaction. Write scopes commit when fn returns
// nil; every other exit rolls back. Errors are classified into the store's
// error taxonomy.
func (s *Store) withTx(ctx context.Context, op string, mode scopeMode, fn func(tx *sql.Tx) error) error {
	db, err := s.conn(ctx)
	if err != nil {
		return err
	}

	scopeID := uuid.Must(uuid.NewV7()).String()
	slog.Debug("scope begin", "op", op, "scope", scopeID, "write", mode == writeScope)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return classify(op, err)
	}
	defer tx.Rollback() // No-op if committed

	if err := fn(tx); err != nil {
		slog.Debug("scope aborted", "op", op, "scope", scopeID, "error", err)
		return classify(op, err)
	}

	if mode == writeScope {
		if err := tx.Commit(); err != nil {
			return classify(op, err)
		}
	}

	slog.Debug("scope end", "op", op, "scope", scopeID)
	return nil
}
