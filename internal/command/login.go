package command

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newLoginCmd(app func() *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and store the session for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app()
			if email == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Email: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil {
					return fmt.Errorf("read email: %w", err)
				}
				email = strings.TrimSpace(line)
			}

			password, err := readPassword(cmd)
			if err != nil {
				return err
			}

			session, err := a.Auth.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			a.Session.Set(session.Token(), session.UserID())
			if err := a.SaveSession(); err != nil {
				return fmt.Errorf("store session: %w", err)
			}

			// The personal shopping list exists from the first login on.
			if _, err := a.Lists.EnsurePersonal(cmd.Context(), a.Session.UserID()); err != nil {
				a.Logger.Warn("personal list setup failed", "error", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (prompted when omitted)")
	return cmd
}

func newLogoutCmd(app func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app().ClearSession(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// readPassword reads without echo when stdin is a terminal, falling back to
// a plain line read so piped input keeps working.
func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), "Password: ")
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
