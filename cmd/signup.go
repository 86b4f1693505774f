package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"taskcal/internal/api"
)

// profileFlags registers the registration fields shared by signup and
// verify. The backend requires the full profile on OTP verification.
func profileFlags(cmd *cobra.Command, p *api.Profile) {
	cmd.Flags().StringVar(&p.Username, "username", "", "Account username")
	cmd.Flags().StringVar(&p.Email, "email", "", "Account email")
	cmd.Flags().StringVar(&p.Password, "password", "", "Account password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
}

func newSignupCmd() *cobra.Command {
	var profile api.Profile

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new account",
		Long: `Register a new account. The backend mails a one-time password to the
given address; complete the registration with 'taskcal verify'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			msg, err := app.client.Signup(context.Background(), profile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			fmt.Fprintln(cmd.OutOrStdout(), "Check your mail for the verification code, then run 'taskcal verify'.")
			return nil
		},
	}

	profileFlags(cmd, &profile)
	return cmd
}

func newVerifyCmd() *cobra.Command {
	var (
		profile api.Profile
		otp     string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Confirm a registration with the mailed code",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			if otp == "" {
				otp, err = promptLine(cmd, "Verification code: ")
				if err != nil {
					return err
				}
			}

			msg, err := app.client.VerifyOTP(context.Background(), profile, otp)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			fmt.Fprintln(cmd.OutOrStdout(), "Account verified. Run 'taskcal login' to sign in.")
			return nil
		},
	}

	profileFlags(cmd, &profile)
	cmd.Flags().StringVar(&otp, "otp", "", "Verification code from the registration mail (prompted when omitted)")
	return cmd
}

func newResendCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "resend",
		Short: "Request a fresh verification code",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			msg, err := app.client.ResendOTP(context.Background(), email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Email of the pending registration")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
