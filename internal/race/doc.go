// Package race defines the value types of the race-results ledger.
//
// The types here carry no storage concerns; internal/store persists them.
//
// # Ranking
//
// Rank turns the raw racer list of a finished race into placements:
//   - Finishers sort by time ascending; equal times keep input order
//   - Non-finishers sort after every finisher
//   - Finishers receive distinct ranks 1..N in sorted order
//   - A non-finisher shares the rank of the last finisher placed before it,
//     or rank 1 when no finisher has been placed
//
// # Sentinels
//
// Daily entries and racer rows share the level column with two reserved values:
//   - LevelNotSubmitted (-1): registered for a daily but nothing submitted
//   - LevelQualifying (-2): a completed run that counts for the fastest-time board
package race
