package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/akaNaymin/necrobot/internal/race"
)

// NewRatingCommand creates the rating command group.
func NewRatingCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rating",
		Short: "Read and write skill ratings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "get <discord-id>",
		Short:         "Show a user's stored rating",
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

			r, ok, err := st.Rating(cmd.Context(), id)
			if err != nil {
				return storeFailure("failed to read rating", err)
			}
			if !ok {
				return NewExitError(ExitFailure, fmt.Sprintf("no rating for %d", id))
			}
			return rootOpts.formatter(cmd).Render(r, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%d  mu=%.0f sigma=%.0f\n", id, r.Mu, r.Sigma)
				return err
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <discord-id> <mu> <sigma>",
		Short: "Store a user's rating",
		Long: `Store a user's rating, replacing any earlier one.

Both values are truncated toward zero when stored. Put "--" before the
arguments when a value is negative.

Example:
  necroledger rating set -- 1234 -3.9 2.2`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64Arg("discord id", args[0])
			if err != nil {
				return err
			}
			mu, err := parseFloatArg("mu", args[1])
			if err != nil {
				return err
			}
			sigma, err := parseFloatArg("sigma", args[2])
			if err != nil {
				return err
			}

			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			r := race.CreateRating(mu, sigma)
			if err := st.SetRating(cmd.Context(), id, r); err != nil {
				return storeFailure("failed to store rating", err)
			}
			storedMu, storedSigma := r.Quantize()
			stored := race.RatingFromStored(storedMu, storedSigma)
			return rootOpts.formatter(cmd).Render(stored, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%d  mu=%d sigma=%d\n", id, storedMu, storedSigma)
				return err
			})
		},
	})

	return cmd
}
