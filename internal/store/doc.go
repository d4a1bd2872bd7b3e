// Package store provides the SQLite-backed race-results ledger.
//
// The ledger holds:
//   - user_data: identities and notification preferences
//   - race_data / racer_data: recorded races and per-racer placements
//   - daily_data / daily_races: daily challenges and user entries
//   - ladder_data: skill ratings
//
// # Connection
//
// A Store owns exactly one connection. It dials on first use, pings before
// every operation and re-dials once when the link has dropped; a link that
// cannot be restored fails the operation with a connection error. No retry
// or backoff happens here.
//
// Every exported operation runs in its own transaction scope. Write scopes
// commit on success and roll back on any error, so a failed operation leaves
// nothing behind. Transactions begin IMMEDIATE, which keeps the read of the
// current maximum race id and the insert of the next one under the same
// write lock.
//
// # Errors
//
// Failures are reported as *Error with a Code:
//   - ErrCodeConnection: the database is unreachable
//   - ErrCodeConstraint: a duplicate key on a non-upsert insert
//   - ErrCodeNotFound: a required row is absent (e.g. Preferences for an unknown user)
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout: configurable, 5 seconds by default
//   - foreign_keys=ON: racer rows reference their race and user
package store
