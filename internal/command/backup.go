package command

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logecui/pantry/internal/backup"
)

func newBackupCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export or restore an encrypted snapshot of the local cache",
	}
	cmd.AddCommand(
		newBackupExportCmd(app),
		newBackupImportCmd(app),
	)
	return cmd
}

func (a *App) backupStores() backup.Stores {
	return backup.Stores{
		Ingredients: a.IngredientCache,
		Articles:    a.ArticleCache,
		Recipes:     a.RecipeCache,
	}
}

func newBackupExportCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write an encrypted snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			passphrase, err := readPassword(cmd)
			if err != nil {
				return err
			}
			if err := backup.Export(args[0], passphrase, a.backupStores()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Backup written to %s\n", args[0])
			return nil
		},
	}
}

func newBackupImportCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Restore the cache from a snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			passphrase, err := readPassword(cmd)
			if err != nil {
				return err
			}
			if err := backup.Import(args[0], passphrase, a.backupStores()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Cache restored")
			return nil
		},
		Args: cobra.ExactArgs(1),
	}
}
