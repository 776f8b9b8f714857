package command

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/normalize"
	"github.com/logecui/pantry/internal/sync"
)

func newShoppingCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shopping",
		Short: "Manage the shopping list",
	}
	cmd.AddCommand(
		newShoppingListCmd(app),
		newShoppingAddCmd(app),
		newShoppingDoneCmd(app),
		newShoppingClearCmd(app),
	)
	return cmd
}

func newShoppingListCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the shopping list",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			items, origin, err := a.Engine.LoadArticles(cmd.Context(), a.ListRef(cmd.Context()))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, art := range items {
				mark := "[ ]"
				if art.IsPurchased {
					mark = "[x]"
				}
				fmt.Fprintf(w, "%s\t%s\t%s %s\n", mark, art.Name, art.Quantity, art.Unit)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d articles (%s)\n", len(items), origin)
			return nil
		},
	}
}

func newShoppingAddCmd(app func() *App) *cobra.Command {
	var quantity, unit string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an article to the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			created, err := a.Shopping.Add(cmd.Context(), a.ListRef(cmd.Context()), model.Article{
				Name:     args[0],
				Quantity: quantity,
				Unit:     unit,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", created.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&quantity, "quantity", "", "quantity to buy")
	cmd.Flags().StringVar(&unit, "unit", "", "unit for the quantity")
	return cmd
}

func newShoppingDoneCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "done <name>",
		Short: "Mark an article as purchased",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()
			items, _, err := a.Engine.LoadArticles(ctx, a.ListRef(ctx))
			if err != nil {
				return err
			}

			for i := range items {
				if items[i].IsPurchased || !normalize.Equal(items[i].Name, args[0]) {
					continue
				}
				if err := a.Engine.ToggleArticlePurchased(ctx, sync.NopGate{}, &items[i], true); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Checked off %s\n", items[i].Name)
				return nil
			}
			return fmt.Errorf("no unpurchased article named %q", args[0])
		},
	}
}

func newShoppingClearCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every purchased article",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if err := a.Shopping.DeletePurchased(cmd.Context(), a.ListRef(cmd.Context())); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Purchased articles removed")
			return nil
		},
	}
}
