package command

import (
	"github.com/spf13/cobra"
)

var version = "dev"

// NewRoot builds the pantry command tree. The App is constructed in
// PersistentPreRunE so `--help` and flag errors never touch the cache or
// the network.
func NewRoot() *cobra.Command {
	var (
		configPath string
		app        *App
	)

	root := &cobra.Command{
		Use:     "pantry",
		Short:   "pantry - offline-first kitchen inventory, recipes and shopping lists",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(configPath)
			if err != nil {
				return err
			}
			app = a
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if app == nil {
				return nil
			}
			return app.Close()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.toml (default: user config dir)")

	appOf := func() *App { return app }
	root.AddCommand(
		newLoginCmd(appOf),
		newLogoutCmd(appOf),
		newAccountCmd(appOf),
		newSyncCmd(appOf),
		newIngredientsCmd(appOf),
		newShoppingCmd(appOf),
		newRecipesCmd(appOf),
		newMenuCmd(appOf),
		newBackupCmd(appOf),
		newJoinCmd(appOf),
		newUpdateCmd(appOf),
	)
	return root
}
