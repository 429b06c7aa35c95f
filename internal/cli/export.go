package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pourhouse/pourhouse/internal/export"
	"github.com/pourhouse/pourhouse/internal/report"
)

// NewExportCommand writes the CSV export for a filter to a file.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	var ff filterFlags
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the CSV sales export",
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

			if err := os.WriteFile(outPath, doc, 0o644); err != nil {
				return WrapExitError(ExitFailure, "write export", err)
			}

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			return out.Success(map[string]any{"file": outPath, "bytes": len(doc)})
		},
	}

	ff.register(cmd)
	cmd.Flags().StringVarP(&outPath, "out", "o", "sales-report.csv", "output file")
	return cmd
}

// generateExport assembles the report, revenue and detailed breakdowns for
// the filter and renders the document.
func generateExport(ctx context.Context, a *app, f report.Filter) ([]byte, error) {
	r, err := a.builder.FullReport(ctx, f)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "build report", err)
	}
	revenue, err := a.builder.TotalRevenue(ctx, f)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "compute revenue", err)
	}

	var bd export.Breakdowns
	if f.EventID != "" {
		// Date bounds only; the event scope is re-applied by the breakdown.
		detail, err := a.builder.EventBreakdown(ctx, f.EventID, report.Filter{Start: f.Start, End: f.End})
		if err != nil {
			return nil, WrapExitError(ExitFailure, "build event breakdown", err)
		}
		bd.Event = &detail
	}
	noEvent, err := a.builder.NoEventBreakdown(ctx, report.Filter{Start: f.Start, End: f.End})
	if err != nil {
		return nil, WrapExitError(ExitFailure, "build breakdown", err)
	}
	bd.NoEvent = noEvent

	tag, err := a.cfg.LanguageTag()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "configured locale", err)
	}

	return export.New(tag).Generate(r, revenue, bd, f, time.Now()), nil
}

// exportFilename names the document sent by email.
func exportFilename(now time.Time) string {
	return fmt.Sprintf("sales-report-%s.csv", now.Format("2006-01-02"))
}
