package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logecui/pantry/internal/sync"
)

func newSyncCmd(app func() *App) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Refresh the local cache from the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			ctx := cmd.Context()

			a.Engine.Subscribe(func(ev sync.Event) {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %5d items (%s)\n", ev.Entity, ev.Count, ev.Origin)
			})

			ref := a.ListRef(ctx)
			if _, _, err := a.Engine.LoadIngredients(ctx); err != nil {
				return err
			}
			if _, _, err := a.Engine.LoadArticles(ctx, ref); err != nil {
				return err
			}
			if _, _, err := a.Engine.LoadRecipes(ctx); err != nil {
				return err
			}

			if !watch {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Watching for remote changes (ctrl-c to stop)")
			rt := a.NewRealtime()
			return a.Engine.WatchRemote(ctx, rt, ref)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and resync on remote changes")
	return cmd
}
