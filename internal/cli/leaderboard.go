package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/akaNaymin/necrobot/internal/race"
)

const defaultBoardLimit = 20

// NewLeaderboardCommand creates the leaderboard command group.
func NewLeaderboardCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "leaderboard",
		Aliases: []string{"lb"},
		Short:   "Query leaderboards and per-user race statistics",
		Long: `Query leaderboards and per-user race statistics.

Boards count only public races with the "All-zones" descriptor. Fastest
times, history and stats also require a seeded race.`,
	}

	cmd.AddCommand(newFastestCommand(rootOpts))
	cmd.AddCommand(newMostCommand(rootOpts))
	cmd.AddCommand(newHistoryCommand(rootOpts))
	cmd.AddCommand(newStatsCommand(rootOpts))
	cmd.AddCommand(newLatestCommand(rootOpts))

	return cmd
}

// BoardOptions holds flags shared by the leaderboard commands.
type BoardOptions struct {
	*RootOptions
	Amplified bool
	Limit     int
}

func (o *BoardOptions) bindAmplified(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.Amplified, "amplified", false, "query the amplified variant")
}

func (o *BoardOptions) bindLimit(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.Limit, "limit", defaultBoardLimit, "maximum rows")
}

func (o *BoardOptions) checkLimit() error {
	if o.Limit <= 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --limit %d: must be positive", o.Limit))
	}
	return nil
}

func newFastestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BoardOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fastest <character>",
		Short: "Fastest seeded times per user for a character",
		Long: `Show each user's fastest completed seeded time for a character.

Example:
  necroledger leaderboard fastest Cadence --amplified --limit 10`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.checkLimit(); err != nil {
				return err
			}
			character := args[0]

			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			times, err := st.FastestTimes(cmd.Context(), character, opts.Amplified, opts.Limit)
			if err != nil {
				return storeFailure("failed to query fastest times", err)
			}
			return opts.formatter(cmd).Render(times, func(w io.Writer) error {
				return writeFastest(w, character, opts.Amplified, times)
			})
		},
	}

	opts.bindAmplified(cmd)
	opts.bindLimit(cmd)
	return cmd
}

func newMostCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BoardOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "most <character>",
		Short:         "Users with the most races for a character",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.checkLimit(); err != nil {
				return err
			}
			character := args[0]

			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			counts, err := st.MostRaces(cmd.Context(), character, opts.Limit)
			if err != nil {
				return storeFailure("failed to query race counts", err)
			}
			return opts.formatter(cmd).Render(counts, func(w io.Writer) error {
				return writeMostRaces(w, character, counts)
			})
		},
	}

	opts.bindLimit(cmd)
	return cmd
}

func newHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BoardOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "history <discord-id>",
		Short:         "A user's seeded race count per character",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64Arg("discord id", args[0])
			if err != nil {
				return err
			}

			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			history, err := st.RaceHistory(cmd.Context(), id, opts.Amplified)
			if err != nil {
				return storeFailure("failed to query race history", err)
			}
			return opts.formatter(cmd).Render(history, func(w io.Writer) error {
				return writeHistory(w, id, opts.Amplified, history)
			})
		},
	}

	opts.bindAmplified(cmd)
	return cmd
}

// statsResult is the payload of leaderboard stats.
type statsResult struct {
	race.Stats
	FinishRate float64          `json:"finish_rate"`
	Results    []race.TimeLevel `json:"results"`
}

func newStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BoardOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "stats <discord-id> <character>",
		Short:         "Summarise a user's seeded results with a character",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64Arg("discord id", args[0])
			if err != nil {
				return err
			}
			character := args[1]

			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			results, err := st.RaceTimes(cmd.Context(), id, character, opts.Amplified)
			if err != nil {
				return storeFailure("failed to query race times", err)
			}
			stats := race.Summarize(results)
			payload := statsResult{Stats: stats, FinishRate: stats.FinishRate(), Results: results}
			return opts.formatter(cmd).Render(payload, func(w io.Writer) error {
				return writeStats(w, id, character, opts.Amplified, stats)
			})
		},
	}

	opts.bindAmplified(cmd)
	return cmd
}

func newLatestCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "latest <discord-id>",
		Short:         "The most recent race a user took part in",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64Arg("discord id", args[0])
			if err != nil {
				return err
			}

			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			raceID, ok, err := st.LatestRaceIndex(cmd.Context(), id)
			if err != nil {
				return storeFailure("failed to query latest race", err)
			}
			if !ok {
				return NewExitError(ExitFailure, fmt.Sprintf("user %d has no races", id))
			}
			return rootOpts.formatter(cmd).Render(map[string]int64{"race_id": raceID}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%d last raced in race %d\n", id, raceID)
				return err
			})
		},
	}
}
