package command

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newJoinCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "join <code>",
		Short: "Join a shared shopping list by invite code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			listID, err := a.Lists.JoinByCode(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Joined shared list %s\n", listID)
			return nil
		},
	}
}
