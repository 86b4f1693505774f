package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"taskcal/internal/session"
)

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the task backend",
		Long: `Sign in with email and password. The session cookies are persisted,
so subsequent commands reuse the session until it expires or you log
out. An expiring access token is renewed automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if email == "" {
				email, err = promptLine(cmd, "Email: ")
				if err != nil {
					return err
				}
			}
			if password == "" {
				password, err = promptLine(cmd, "Password: ")
				if err != nil {
					return err
				}
			}

			details, err := app.client.Login(context.Background(), email, password)
			if err != nil {
				return err
			}
			if err := app.save(); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", details.Username, details.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email (prompted when omitted)")
	cmd.Flags().StringVar(&password, "password", "", "Account password (prompted when omitted)")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear the persisted session",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			// Best effort on the server side; the local session is
			// cleared regardless so a broken backend cannot trap us in
			// a logged-in state.
			if err := app.client.Logout(context.Background()); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: server logout failed: %v\n", err)
			}
			if err := app.persist.Clear(); err != nil {
				return fmt.Errorf("clearing session: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			user, ok := app.session.User()
			if !ok {
				fmt.Fprintln(out, "Not logged in")
				return nil
			}

			fmt.Fprintf(out, "Logged in as %s (%s)\n", user.Username, user.Email)
			fmt.Fprintf(out, "Session file: %s\n", app.persist.Path())

			expiry, err := session.TokenExpiry(app.client.Jar(), app.client.BaseURL())
			switch {
			case err != nil:
				fmt.Fprintf(out, "Access token: unavailable (%v)\n", err)
			case time.Now().After(expiry):
				fmt.Fprintf(out, "Access token: expired %s (renewed on next request)\n", expiry.Local().Format(time.RFC1123))
			default:
				fmt.Fprintf(out, "Access token: valid until %s\n", expiry.Local().Format(time.RFC1123))
			}
			return nil
		},
	}
}

// promptLine reads one line from the command's stdin.
func promptLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.OutOrStdout(), prompt)
	in := cmd.InOrStdin()
	if in == nil {
		in = os.Stdin
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
