package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/pourhouse/pourhouse/internal/mailer"
)

// NewSendCommand generates the export and emails it.
func NewSendCommand(opts *RootOptions) *cobra.Command {
	var ff filterFlags
	var recipients []string

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Email the CSV sales export",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := ff.parse()
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			doc, err := generateExport(cmd.Context(), a, f)
			if err != nil {
				return err
			}

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			client := mailer.New(a.cfg.EmailBaseURL)

			res, err := client.Send(cmd.Context(), recipients, mailer.Document{
				Filename: exportFilename(time.Now()),
				Content:  doc,
			}, func(pct int) {
				out.VerboseLog("upload %d%%", pct)
			})
			if err != nil {
				out.Error(string(mailer.CategoryOf(err)), err.Error())
				return WrapExitError(ExitFailure, "send export", err)
			}

			return out.Success(map[string]any{
				"message":    res.Message,
				"recipients": res.Recipients,
			})
		},
	}

	ff.register(cmd)
	cmd.Flags().StringSliceVar(&recipients, "to", nil, "recipient addresses (max 10)")
	cmd.MarkFlagRequired("to")
	return cmd
}
