package command

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAccountCmd(app func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage the account itself",
	}
	cmd.AddCommand(
		newAccountSignupCmd(app),
		newAccountRecoverCmd(app),
		newAccountPasswordCmd(app),
		newAccountDeleteCmd(app),
	)
	return cmd
}

func newAccountSignupCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "signup <email>",
		Short: "Register a new account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			if _, err := a.Auth.SignUp(cmd.Context(), args[0], password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created for %s; check your inbox to confirm\n", args[0])
			return nil
		},
	}
}

func newAccountRecoverCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recover <email>",
		Short: "Send a password-reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app().Auth.Recover(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Reset email sent")
			return nil
		},
	}
}

func newAccountPasswordCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "password",
		Short: "Change the password of the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			fmt.Fprintln(cmd.OutOrStdout(), "New password")
			password, err := readPassword(cmd)
			if err != nil {
				return err
			}
			if err := a.Auth.UpdatePassword(cmd.Context(), a.Session, password); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
			return nil
		},
	}
}

func newAccountDeleteCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Permanently delete the account and its remote data",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			fmt.Fprint(cmd.OutOrStdout(), "Type the account email to confirm deletion: ")
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil {
				return fmt.Errorf("read confirmation: %w", err)
			}
			confirm := strings.TrimSpace(line)
			if confirm == "" {
				return fmt.Errorf("deletion aborted")
			}
			if err := a.Auth.DeleteAccount(cmd.Context(), a.Session); err != nil {
				return err
			}
			if err := a.ClearSession(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Account deleted")
			return nil
		},
	}
}
