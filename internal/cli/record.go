package cli

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/akaNaymin/necrobot/internal/race"
)

// RecordOptions holds flags for the record command.
type RecordOptions struct {
	*RootOptions

	// Now supplies the start time for race files that omit one (for testing).
	// If nil, defaults to time.Now.
	Now func() time.Time
}

// recordResult is the payload of a recorded race.
type recordResult struct {
	RaceID     int64            `json:"race_id"`
	Placements []race.Placement `json:"placements"`
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RecordOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "record <race-file>",
		Short: "Record a finished race from a YAML race file",
		Long: `Record a finished race from a YAML race file.

The file is validated against the race file schema, racers are ranked and the
race is written in a single transaction. Racer identities are registered or
renamed as part of the same write.

Example:
  necroledger record --db ./ledger.db ./race.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return recordRace(opts, args[0], cmd)
		},
	}

	return cmd
}

func recordRace(opts *RecordOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	r, err := LoadRaceFile(path)
	if err != nil {
		exitErr := WrapExitError(ExitCommandError, "failed to load race file", err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			exitErr.withReason(loadErr.Code)
		}
		return exitErr
	}
	out.VerboseLog("Loaded %s: %d racers", path, len(r.Racers))

	if r.Start.IsZero() {
		now := opts.Now
		if now == nil {
			now = time.Now
		}
		r.Start = now()
	}

	st, err := opts.openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	raceID, err := st.RecordRace(ctx, r)
	if err != nil {
		return storeFailure("failed to record race", err)
	}

	placements, err := st.RaceResults(ctx, raceID)
	if err != nil {
		return storeFailure("failed to read race results", err)
	}

	return out.Render(recordResult{RaceID: raceID, Placements: placements}, func(w io.Writer) error {
		return writePlacements(w, raceID, placements)
	})
}

// NewResultsCommand creates the results command.
func NewResultsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "results <race-id>",
		Short:         "Show the stored placements of a race",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			raceID, err := parseInt64Arg("race id", args[0])
			if err != nil {
				return err
			}

			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			placements, err := st.RaceResults(cmd.Context(), raceID)
			if err != nil {
				return storeFailure("failed to read race results", err)
			}
			return rootOpts.formatter(cmd).Render(recordResult{RaceID: raceID, Placements: placements}, func(w io.Writer) error {
				return writePlacements(w, raceID, placements)
			})
		},
	}
}

// closeStore releases a store at the end of a command.
func closeStore(st interface{ Close() error }) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}
