package cli

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/akaNaymin/necrobot/internal/race"
	"github.com/akaNaymin/necrobot/internal/store"
)

// NewUserCommand creates the user command group.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Look up and manage users",
	}

	cmd.AddCommand(newUserFindCommand(rootOpts))
	cmd.AddCommand(newUserRegisterCommand(rootOpts))
	cmd.AddCommand(newUserImportCommand(rootOpts))
	cmd.AddCommand(newUserPrefsCommand(rootOpts))
	cmd.AddCommand(newUserAlertsCommand(rootOpts))
	cmd.AddCommand(newUserSetCommand(rootOpts))

	return cmd
}

// UserFindOptions holds flags for user find.
type UserFindOptions struct {
	*RootOptions
	ID     int64
	Name   string
	Twitch string
	RTMP   string
}

func newUserFindCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserFindOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "find",
		Short: "Find users by id, name, twitch or rtmp name",
		Long: `Find users by any combination of id, name, twitch name and rtmp name.

Set filters are combined with AND. Without filters every user is listed.

Example:
  necroledger user find --name incnone`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter race.UserFilter
			flags := cmd.Flags()
			if flags.Changed("id") {
				filter.DiscordID = &opts.ID
			}
			if flags.Changed("name") {
				filter.Name = &opts.Name
			}
			if flags.Changed("twitch") {
				filter.TwitchName = &opts.Twitch
			}
			if flags.Changed("rtmp") {
				filter.RTMPName = &opts.RTMP
			}

			out := opts.formatter(cmd)
			if filter.IsEmpty() {
				out.VerboseLog("No filters given, listing every user")
			}

			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			users, err := st.FindUsers(cmd.Context(), filter)
			if err != nil {
				return storeFailure("failed to find users", err)
			}
			return out.Render(users, func(w io.Writer) error {
				return writeUsers(w, users)
			})
		},
	}

	cmd.Flags().Int64Var(&opts.ID, "id", 0, "discord id")
	cmd.Flags().StringVar(&opts.Name, "name", "", "user name")
	cmd.Flags().StringVar(&opts.Twitch, "twitch", "", "twitch name")
	cmd.Flags().StringVar(&opts.RTMP, "rtmp", "", "rtmp name")

	return cmd
}

func newUserRegisterCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "register <discord-id> <name>",
		Short:         "Register a user or update their name",
		Args:          cobra.ExactArgs(2),
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

			if err := st.UpsertIdentity(cmd.Context(), id, args[1]); err != nil {
				return storeFailure("failed to register user", err)
			}
			identity := race.Identity{DiscordID: id, Name: race.NormalizeName(args[1])}
			return rootOpts.formatter(cmd).Render(identity, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Registered %d as %s\n", identity.DiscordID, identity.Name)
				return err
			})
		},
	}
}

func newUserImportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <members-file>",
		Short: "Register many users from a YAML list",
		Long: `Register many users from a YAML list of identities in one transaction.

The file is a list of {discord_id, name} entries:

  - discord_id: 1
    name: incnone
  - discord_id: 2
    name: mayantics`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := loadIdentities(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load members file", err)
			}

			st, err := rootOpts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			if err := st.UpsertIdentities(cmd.Context(), ids); err != nil {
				return storeFailure("failed to import users", err)
			}
			return rootOpts.formatter(cmd).Render(map[string]int{"imported": len(ids)}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Imported %d users\n", len(ids))
				return err
			})
		},
	}
}

// loadIdentities reads a YAML list of identities with strict field checking.
func loadIdentities(path string) ([]race.Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ids []race.Identity
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&ids); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	for i, id := range ids {
		if id.DiscordID <= 0 || id.Name == "" {
			return nil, fmt.Errorf("entry %d: discord_id and name are required", i)
		}
	}
	return ids, nil
}

// UserPrefsOptions holds flags for user prefs and user alerts.
type UserPrefsOptions struct {
	*RootOptions
	DailyAlert bool
	RaceAlert  bool
}

// preferences builds a partial Preferences from the flags actually given.
func (o *UserPrefsOptions) preferences(cmd *cobra.Command) race.Preferences {
	var p race.Preferences
	if cmd.Flags().Changed("daily-alert") {
		p.DailyAlert = race.Bool(o.DailyAlert)
	}
	if cmd.Flags().Changed("race-alert") {
		p.RaceAlert = race.Bool(o.RaceAlert)
	}
	return p
}

func (o *UserPrefsOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.DailyAlert, "daily-alert", false, "daily challenge alerts")
	cmd.Flags().BoolVar(&o.RaceAlert, "race-alert", false, "race alerts")
}

func newUserPrefsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserPrefsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "prefs <discord-id>",
		Short: "Show or update a user's alert preferences",
		Long: `Show or update a user's alert preferences.

Only the flags given are changed; the rest keep their stored values.

Example:
  necroledger user prefs 1234 --daily-alert=true`,
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

			ctx := cmd.Context()
			if update := opts.preferences(cmd); !update.IsEmpty() {
				if err := st.SetPreferences(ctx, id, update); err != nil {
					return prefsFailure(id, err)
				}
			}
			prefs, err := st.Preferences(ctx, id)
			if err != nil {
				return prefsFailure(id, err)
			}
			return opts.formatter(cmd).Render(prefs, func(w io.Writer) error {
				return writePreferences(w, id, prefs)
			})
		},
	}

	opts.bindFlags(cmd)
	return cmd
}

func prefsFailure(id int64, err error) error {
	if store.IsNotFound(err) {
		return WrapExitError(ExitFailure, fmt.Sprintf("unknown user %d", id), err)
	}
	return storeFailure("failed to access preferences", err)
}

func newUserAlertsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserPrefsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "List users whose preferences match the given flags",
		Long: `List the discord ids of users whose preferences match every flag given.

Without flags nothing matches.

Example:
  necroledger user alerts --daily-alert=true`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			ids, err := st.IDsMatchingPreferences(cmd.Context(), opts.preferences(cmd))
			if err != nil {
				return storeFailure("failed to match preferences", err)
			}
			return opts.formatter(cmd).Render(ids, func(w io.Writer) error {
				for _, id := range ids {
					fmt.Fprintln(w, id)
				}
				return nil
			})
		},
	}

	opts.bindFlags(cmd)
	return cmd
}

// UserSetOptions holds flags for user set.
type UserSetOptions struct {
	*RootOptions
	Timezone string
	Twitch   string
	RTMP     string
	Info     string
}

func newUserSetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &UserSetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "set <discord-id>",
		Short: "Set profile fields of a registered user",
		Long: `Set profile fields of a registered user. Unknown users are left alone.

Example:
  necroledger user set 1234 --twitch incnone --timezone America/New_York`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseInt64Arg("discord id", args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			setters := map[string]func(*store.Store) error{
				"timezone": func(st *store.Store) error { return st.SetTimezone(ctx, id, opts.Timezone) },
				"twitch":   func(st *store.Store) error { return st.SetTwitchName(ctx, id, opts.Twitch) },
				"rtmp":     func(st *store.Store) error { return st.SetRTMPName(ctx, id, opts.RTMP) },
				"info":     func(st *store.Store) error { return st.SetUserInfo(ctx, id, opts.Info) },
			}
			updated := []string{}
			for _, flag := range []string{"timezone", "twitch", "rtmp", "info"} {
				if cmd.Flags().Changed(flag) {
					updated = append(updated, flag)
				}
			}
			if len(updated) == 0 {
				return NewExitError(ExitCommandError, "nothing to set: pass --timezone, --twitch, --rtmp or --info")
			}

			st, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeStore(st)

			for _, flag := range updated {
				if err := setters[flag](st); err != nil {
					return storeFailure("failed to set "+flag, err)
				}
			}

			return opts.formatter(cmd).Render(map[string][]string{"updated": updated}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "Updated %d: %v\n", id, updated)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "IANA timezone")
	cmd.Flags().StringVar(&opts.Twitch, "twitch", "", "twitch name")
	cmd.Flags().StringVar(&opts.RTMP, "rtmp", "", "rtmp name")
	cmd.Flags().StringVar(&opts.Info, "info", "", "free-text user info")

	return cmd
}
