package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Error is a ledger failure with a category callers can branch on.
//
// Categories:
//   - Connection: the database link could not be established or restored
//   - Constraint violation: a non-upsert insert hit an existing key
//   - Not found: a required row is absent
//
// Any other failure is returned wrapped with its operation name only.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Op is the store operation that failed.
	Op string

	// Err is the underlying driver error.
	Err error
}

// ErrorCode categorizes ledger errors.
type ErrorCode string

const (
	// ErrCodeConnection indicates the database link is down.
	ErrCodeConnection ErrorCode = "CONNECTION"

	// ErrCodeConstraint indicates a duplicate key or other constraint failure.
	ErrCodeConstraint ErrorCode = "CONSTRAINT_VIOLATION"

	// ErrCodeNotFound indicates a required row does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsConnectionError reports whether err is a connection failure.
func IsConnectionError(err error) bool {
	return hasCode(err, ErrCodeConnection)
}

// IsConstraintViolation reports whether err is a constraint violation.
func IsConstraintViolation(err error) bool {
	return hasCode(err, ErrCodeConstraint)
}

// IsNotFound reports whether err is a missing required row.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// classify wraps a driver error raised inside op.
func classify(op string, err error) error {
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, sql.ErrNoRows) {
		return &Error{Code: ErrCodeNotFound, Op: op, Err: err}
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return &Error{Code: ErrCodeConstraint, Op: op, Err: err}
	}
	if errors.Is(err, sql.ErrConnDone) {
		return &Error{Code: ErrCodeConnection, Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
