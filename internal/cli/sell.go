package cli

import (
	"github.com/spf13/cobra"

	"github.com/pourhouse/pourhouse/internal/store"
)

// NewSellCommand records one sale.
func NewSellCommand(opts *RootOptions) *cobra.Command {
	var (
		item  string
		size  int
		qty   int
		event string
		user  string
	)

	cmd := &cobra.Command{
		Use:   "sell",
		Short: "Record a sale",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout(), Verbose: opts.Verbose}

			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			id, err := a.engine.RecordSale(cmd.Context(), store.Sale{
				CatalogItemID: item,
				ContainerSize: size,
				Quantity:      qty,
				EventID:       event,
				Username:      user,
			})
			if err != nil {
				out.Error(string(store.ErrCodeConstraint), err.Error())
				return WrapExitError(ExitFailure, "record sale", err)
			}

			return out.Success(map[string]any{"id": id})
		},
	}

	cmd.Flags().StringVar(&item, "item", "", "catalog item id")
	cmd.Flags().IntVar(&size, "size", 0, "container size in milliliters")
	cmd.Flags().IntVar(&qty, "qty", 1, "number of cups")
	cmd.Flags().StringVar(&event, "event", "", "event id (optional)")
	cmd.Flags().StringVar(&user, "user", "", "selling user (optional)")
	cmd.MarkFlagRequired("item")
	cmd.MarkFlagRequired("size")

	return cmd
}
