package command

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/logecui/pantry/internal/service"
)

func newUpdateCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Check whether a newer release is published",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			versions := service.NewVersions(a.Client)

			latest := versions.CheckForUpdate(cmd.Context(), runtime.GOOS, version)
			if latest == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "pantry %s is up to date\n", version)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pantry %s is available: %s\n", latest.Version, latest.DownloadURL)
			if latest.IsMandatory {
				fmt.Fprintln(cmd.OutOrStdout(), "This update is mandatory.")
			}
			return nil
		},
	}
}
