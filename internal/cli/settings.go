package cli

import (
	"github.com/spf13/cobra"
)

// NewSettingsCommand reads and writes the key-value settings table.
func NewSettingsCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Manage key-value settings",
	}

	get := &cobra.Command{
		Use:   "get <key>",
		Short: "Read a setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			value, ok, err := a.engine.GetSetting(cmd.Context(), args[0])
			if err != nil {
				return WrapExitError(ExitFailure, "read setting", err)
			}
			if !ok {
				out.Error("NOT_FOUND", "setting not found: "+args[0])
				return WrapExitError(ExitFailure, "setting not found: "+args[0], nil)
			}
			return out.Success(value)
		},
	}

	set := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Write a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.engine.SetSetting(cmd.Context(), args[0], args[1]); err != nil {
				return WrapExitError(ExitFailure, "write setting", err)
			}
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(map[string]any{"key": args[0]})
		},
	}

	cmd.AddCommand(get, set)
	return cmd
}
