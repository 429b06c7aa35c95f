package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewReportCommand prints the aggregate report for a filter.
func NewReportCommand(opts *RootOptions) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show sales aggregates",
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

			r, err := a.builder.FullReport(cmd.Context(), f)
			if err != nil {
				return WrapExitError(ExitFailure, "build report", err)
			}
			revenue, err := a.builder.TotalRevenue(cmd.Context(), f)
			if err != nil {
				return WrapExitError(ExitFailure, "compute revenue", err)
			}

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}
			if opts.Format == "json" {
				return out.Success(map[string]any{"report": r, "totalRevenue": revenue})
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Sales: %d   Volume: %.2f L   Revenue: %.2f\n\n", r.Summary.TotalSales, r.Summary.TotalVolumeLiters, revenue)

			tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PRODUCT\tCUPS\tLITERS\tREVENUE")
			for _, g := range r.ByCatalogItem {
				fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\n", g.Name, g.TotalCups, g.TotalLiters, g.TotalRevenue)
			}
			tw.Flush()

			fmt.Fprintln(w)
			tw = tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SIZE (ML)\tCOUNT")
			for _, g := range r.ByContainerSize {
				fmt.Fprintf(tw, "%d\t%d\n", g.SizeMilliliters, g.Count)
			}
			return tw.Flush()
		},
	}

	ff.register(cmd)
	return cmd
}
