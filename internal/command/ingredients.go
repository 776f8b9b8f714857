package command

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/normalize"
	"github.com/logecui/pantry/internal/sync"
)

func newIngredientsCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingredients",
		Short: "Manage the kitchen inventory",
	}
	cmd.AddCommand(
		newIngredientsListCmd(app),
		newIngredientsAddCmd(app),
		newIngredientsToggleCmd(app),
	)
	return cmd
}

func newIngredientsListCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			items, origin, err := a.Engine.LoadIngredients(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tQTY\tAVAILABLE")
			for _, ing := range items {
				mark := " "
				if ing.IsAvailable {
					mark = "yes"
				}
				fmt.Fprintf(w, "%s\t%s %s\t%s\n", ing.Name, ing.Quantity, ing.Unit, mark)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d ingredients (%s)\n", len(items), origin)
			return nil
		},
	}
}

func newIngredientsAddCmd(app func() *App) *cobra.Command {
	var quantity, unit string
	var available bool

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add an inventory item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			created, err := a.Engine.CreateIngredient(cmd.Context(), model.Ingredient{
				Name:        args[0],
				Quantity:    quantity,
				Unit:        unit,
				IsAvailable: available,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&quantity, "quantity", "", "quantity on hand")
	cmd.Flags().StringVar(&unit, "unit", "", "unit for the quantity")
	cmd.Flags().BoolVar(&available, "available", true, "mark the item as available")
	return cmd
}

func newIngredientsToggleCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <name>",
		Short: "Flip an item's availability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			items, _, err := a.Engine.LoadIngredients(cmd.Context())
			if err != nil {
				return err
			}

			ing := findIngredient(items, args[0])
			if ing == nil {
				return fmt.Errorf("no ingredient named %q", args[0])
			}
			target := !ing.IsAvailable
			if err := a.Engine.ToggleIngredientAvailable(cmd.Context(), sync.NopGate{}, ing, target); err != nil {
				return err
			}
			state := "unavailable"
			if target {
				state = "available"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", ing.Name, state)
			return nil
		},
	}
}

func findIngredient(items []model.Ingredient, name string) *model.Ingredient {
	for i := range items {
		if normalize.Equal(items[i].Name, name) {
			return &items[i]
		}
	}
	return nil
}
