package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pourhouse/pourhouse/internal/catalog"
)

// NewCatalogCommand lists and extends the product catalog.
func NewCatalogCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the product catalog",
	}
	cmd.AddCommand(newCatalogListCommand(opts))
	cmd.AddCommand(newCatalogAddCommand(opts))
	return cmd
}

func newCatalogListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List catalog items",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			items, err := a.engine.CatalogItems(cmd.Context())
			if err != nil {
				return WrapExitError(ExitFailure, "list catalog", err)
			}

			if opts.Format == "json" {
				out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
				return out.Success(items)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tCOLOR\tDESCRIPTION")
			for _, item := range items {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", item.ID, item.Name, item.Color, item.Description)
			}
			return tw.Flush()
		},
	}
}

func newCatalogAddCommand(opts *RootOptions) *cobra.Command {
	var item catalog.Item

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a catalog item",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.engine.AddCatalogItem(cmd.Context(), item); err != nil {
				return WrapExitError(ExitFailure, "add catalog item", err)
			}

			out := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return out.Success(map[string]any{"id": item.ID})
		},
	}

	cmd.Flags().StringVar(&item.ID, "id", "", "item id")
	cmd.Flags().StringVar(&item.Name, "name", "", "display name")
	cmd.Flags().StringVar(&item.Color, "color", "#808080", "display color (#rrggbb)")
	cmd.Flags().StringVar(&item.Description, "desc", "", "description")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("name")
	return cmd
}
