package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/logecui/pantry/internal/model"
	"github.com/logecui/pantry/internal/sync"
)

func newMenuCmd(app func() *App) *cobra.Command {
	var (
		courses []string
		send    bool
	)

	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Generate a menu and see what is missing from the pantry",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()

			var opts sync.MenuOptions
			for _, c := range courses {
				opts.Categories = append(opts.Categories, model.ParseCategory(c))
			}

			menu, err := a.Engine.GenerateMenu(ctx, opts)
			if err != nil {
				return err
			}
			if len(menu.Entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recipes to pick from")
				return nil
			}

			out := cmd.OutOrStdout()
			for _, entry := range menu.Entries {
				fmt.Fprintf(out, "%-8s %s", entry.Recipe.Category, entry.Recipe.Name)
				switch entry.Analysis.Status {
				case sync.StatusAllAvailable:
					fmt.Fprint(out, "  (everything on hand)")
				case sync.StatusMissing:
					fmt.Fprintf(out, "  (missing: %s)", strings.Join(entry.Analysis.Missing, ", "))
				default:
					fmt.Fprint(out, "  (no ingredient data)")
				}
				fmt.Fprintln(out)
			}

			if !menu.CanSendMissing {
				if len(menu.Entries) > 0 && menu.Missing == nil {
					fmt.Fprintln(out, "Shopping list unchanged: availability is incomplete")
				}
				return nil
			}
			fmt.Fprintf(out, "Missing overall: %s\n", strings.Join(menu.Missing, ", "))

			if !send {
				return nil
			}
			n, err := a.Engine.SendMissing(ctx, a.ListRef(ctx), menu)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Added %d articles to the shopping list\n", n)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&courses, "course", nil, "courses to include (default: entree, plat, dessert)")
	cmd.Flags().BoolVar(&send, "send", false, "add missing ingredients to the shopping list")
	return cmd
}
