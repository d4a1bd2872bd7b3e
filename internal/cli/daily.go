package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/akaNaymin/necrobot/internal/race"
)

// NewDailyCommand creates the daily command group.
func NewDailyCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Manage daily challenges and entries",
		Long: `Manage daily challenges and user entries.

Daily types are named: cadence, rotating.`,
	}

	cmd.AddCommand(newDailyCreateCommand(rootOpts))
	cmd.AddCommand(newDailyShowCommand(rootOpts))
	cmd.AddCommand(newDailyMessageCommand(rootOpts))
	cmd.AddCommand(newDailyRegisterCommand(rootOpts))
	cmd.AddCommand(newDailyWithdrawCommand(rootOpts))
	cmd.AddCommand(newDailySubmitCommand(rootOpts))
	cmd.AddCommand(newDailyStatusCommand(rootOpts))
	cmd.AddCommand(newDailyTimesCommand(rootOpts))

	return cmd
}

// dailyKey is the (daily id, type) pair most daily commands take.
type dailyKey struct {
	DailyID int64          `json:"daily_id"`
	Type    race.DailyType `json:"type"`
}

func parseDailyKey(idArg, typeArg string) (dailyKey, error) {
	id, err := parseInt64Arg("daily id", idArg)
	if err != nil {
		return dailyKey{}, err
	}
	t, err := parseDailyTypeArg(typeArg)
	if err != nil {
		return dailyKey{}, err
	}
	return dailyKey{DailyID: id, Type: t}, nil
}

// DailyCreateOptions holds flags for daily create.
type DailyCreateOptions struct {
	*RootOptions
	MessageID int64
}

func newDailyCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DailyCreateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "create <daily-id> <type> <seed>",
		Short: "Create a daily challenge",
		Long: `Create a daily challenge. Creating the same (daily id, type) twice fails.

Example:
  necroledger daily create 412 cadence 8675309 --message 5551234`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseDailyKey(args[0], args[1])
			if err != nil {
				return err
			}
			seed, err := parseInt64Arg("seed", args[2])
			if err != nil {
				return err
			}

			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			if err := st.CreateDaily(cmd.Context(), key.DailyID, key.Type, seed, opts.MessageID); err != nil {
				return storeFailure("failed to create daily", err)
			}
			return opts.formatter(cmd).Render(key, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Created daily %d (%s) with seed %d\n", key.DailyID, key.Type, seed)
				return err
			})
		},
	}

	cmd.Flags().Int64Var(&opts.MessageID, "message", 0, "announcement message id")
	return cmd
}

// dailyInfo is the payload of daily show.
type dailyInfo struct {
	dailyKey
	Seed      int64  `json:"seed"`
	MessageID *int64 `json:"message_id,omitempty"`
}

func newDailyShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "show <daily-id> <type>",
		Short:         "Show a daily's seed and announcement message",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseDailyKey(args[0], args[1])
			if err != nil {
				return err
			}

			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			ctx := cmd.Context()
			seed, ok, err := st.DailySeed(ctx, key.DailyID, key.Type)
			if err != nil {
				return storeFailure("failed to read daily", err)
			}
			if !ok {
				return NewExitError(ExitFailure, fmt.Sprintf("no daily %d (%s)", key.DailyID, key.Type))
			}
			info := dailyInfo{dailyKey: key, Seed: seed}
			msg, ok, err := st.DailyMessageID(ctx, key.DailyID, key.Type)
			if err != nil {
				return storeFailure("failed to read daily", err)
			}
			if ok {
				info.MessageID = &msg
			}

			return rootOpts.formatter(cmd).Render(info, func(w io.Writer) error {
				fmt.Fprintf(w, "Daily %d (%s)\n", key.DailyID, key.Type)
				fmt.Fprintf(w, "  seed:    %d\n", seed)
				if info.MessageID == nil {
					_, err := fmt.Fprintln(w, "  message: (unset)")
					return err
				}
				_, err := fmt.Fprintf(w, "  message: %d\n", *info.MessageID)
				return err
			})
		},
	}
}

func newDailyMessageCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "message <daily-id> <type> <message-id>",
		Short:         "Record a daily's announcement message",
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseDailyKey(args[0], args[1])
			if err != nil {
				return err
			}
			msg, err := parseInt64Arg("message id", args[2])
			if err != nil {
				return err
			}

			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			if err := st.SetDailyMessage(cmd.Context(), key.DailyID, key.Type, msg); err != nil {
				return storeFailure("failed to set daily message", err)
			}
			return rootOpts.formatter(cmd).Render(key, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Daily %d (%s) message set to %d\n", key.DailyID, key.Type, msg)
				return err
			})
		},
	}
}

// entryCommand builds the register and withdraw commands, which share
// their arguments and differ only in the store call.
func entryCommand(rootOpts *RootOptions, use, short, verb string, apply func(cmd *cobra.Command, user int64, key dailyKey) error) *cobra.Command {
	return &cobra.Command{
		Use:           use + " <discord-id> <daily-id> <type>",
		Short:         short,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := parseInt64Arg("discord id", args[0])
			if err != nil {
				return err
			}
			key, err := parseDailyKey(args[1], args[2])
			if err != nil {
				return err
			}
			if err := apply(cmd, user, key); err != nil {
				return err
			}
			return rootOpts.formatter(cmd).Render(key, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%d %s daily %d (%s)\n", user, verb, key.DailyID, key.Type)
				return err
			})
		},
	}
}

func newDailyRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	return entryCommand(rootOpts, "register", "Register a user for a daily", "registered for",
		func(cmd *cobra.Command, user int64, key dailyKey) error {
			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			if err := st.RegisterDaily(cmd.Context(), user, key.DailyID, key.Type); err != nil {
				return storeFailure("failed to register for daily", err)
			}
			return nil
		})
}

func newDailyWithdrawCommand(rootOpts *RootOptions) *cobra.Command {
	return entryCommand(rootOpts, "withdraw", "Withdraw a user's daily submission", "withdrew from",
		func(cmd *cobra.Command, user int64, key dailyKey) error {
			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			if err := st.WithdrawDaily(cmd.Context(), user, key.DailyID, key.Type); err != nil {
				return storeFailure("failed to withdraw from daily", err)
			}
			return nil
		})
}

func newDailySubmitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "submit <discord-id> <daily-id> <type> <level> <time>",
		Short: "Submit a user's daily result",
		Long: `Submit a user's daily result, replacing any earlier entry.

Level is the level reached and time is in hundredths of a second. The daily
board ranks higher levels first, then faster times.

Example:
  necroledger daily submit 1234 412 cadence 18 45210`,
		Args:          cobra.ExactArgs(5),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := parseInt64Arg("discord id", args[0])
			if err != nil {
				return err
			}
			key, err := parseDailyKey(args[1], args[2])
			if err != nil {
				return err
			}
			level, err := parseIntArg("level", args[3])
			if err != nil {
				return err
			}
			t, err := parseInt64Arg("time", args[4])
			if err != nil {
				return err
			}

			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			entry := race.DailyEntry{DiscordID: user, DailyID: key.DailyID, Type: key.Type, Level: level, Time: t}
			if err := st.RegisterOrSubmitDaily(cmd.Context(), entry); err != nil {
				return storeFailure("failed to submit daily", err)
			}
			return rootOpts.formatter(cmd).Render(entry, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%d submitted daily %d (%s): %s\n",
					user, key.DailyID, key.Type, dailyResult(race.DailyTime{Level: level, Time: t}))
				return err
			})
		},
	}
}

// dailyStatus is the payload of daily status.
type dailyStatus struct {
	DiscordID        int64          `json:"discord_id"`
	Type             race.DailyType `json:"type"`
	LatestRegistered *int64         `json:"latest_registered,omitempty"`
	LatestSubmitted  *int64         `json:"latest_submitted,omitempty"`
	Submitted        bool           `json:"submitted_latest"`
}

func newDailyStatusCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "status <discord-id> <type>",
		Short:         "Show a user's latest daily registration and submission",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := parseInt64Arg("discord id", args[0])
			if err != nil {
				return err
			}
			t, err := parseDailyTypeArg(args[1])
			if err != nil {
				return err
			}

			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			ctx := cmd.Context()
			status := dailyStatus{DiscordID: user, Type: t}

			reg, ok, err := st.LatestRegisteredDaily(ctx, user, t)
			if err != nil {
				return storeFailure("failed to read daily status", err)
			}
			if ok {
				status.LatestRegistered = &reg
				status.Submitted, err = st.HasSubmittedDaily(ctx, user, reg, t)
				if err != nil {
					return storeFailure("failed to read daily status", err)
				}
			}
			sub, ok, err := st.LatestSubmittedDaily(ctx, user, t)
			if err != nil {
				return storeFailure("failed to read daily status", err)
			}
			if ok {
				status.LatestSubmitted = &sub
			}

			return rootOpts.formatter(cmd).Render(status, func(w io.Writer) error {
				fmt.Fprintf(w, "%d (%s)\n", user, t)
				fmt.Fprintf(w, "  latest registered: %s\n", optionalID(status.LatestRegistered))
				fmt.Fprintf(w, "  latest submitted:  %s\n", optionalID(status.LatestSubmitted))
				_, err := fmt.Fprintf(w, "  submitted latest:  %t\n", status.Submitted)
				return err
			})
		},
	}
}

func optionalID(id *int64) string {
	if id == nil {
		return "none"
	}
	return fmt.Sprintf("%d", *id)
}

func newDailyTimesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "times <daily-id> <type>",
		Short:         "Show the leaderboard of a daily",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := parseDailyKey(args[0], args[1])
			if err != nil {
				return err
			}

			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			times, err := st.DailyTimes(cmd.Context(), key.DailyID, key.Type)
			if err != nil {
				return storeFailure("failed to read daily times", err)
			}
			return rootOpts.formatter(cmd).Render(times, func(w io.Writer) error {
				return writeDailyTimes(w, key.DailyID, key.Type, times)
			})
		},
	}
}
