package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/careerforge/onboarding-portal/internal/api/dto"
	"github.com/careerforge/onboarding-portal/internal/client"
)

func newLoginCmd(a *app) *cobra.Command {
	var email, password, sessionKey, otp string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the portal",
		Long: `Sign in with email and password. Staff accounts also need a session key.
Admins receive a one-time code by email unless a verified code from the last
30 days is on file; rerun with --otp to finish.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if password == "" && otp == "" {
				return errors.New("either --password or --otp is required")
			}
			var result client.LoginResult
			var err error

			if otp != "" {
				result, err = a.api.VerifyOTP(ctx, email, otp)
			} else {
				result, err = a.api.Login(ctx, dto.LoginRequest{
					Email:      email,
					Password:   password,
					SessionKey: sessionKey,
					TrustToken: a.session.TrustTokenFor(email, time.Now()),
				})
			}
			if err != nil {
				return err
			}

			if result.OTPRequired {
				if err := a.api.RequestOTP(ctx, email, password); err != nil {
					return err
				}
				fmt.Fprintln(a.out, color.YellowString("A one-time code was sent to %s.", email))
				fmt.Fprintln(a.out, "Rerun: boardctl login --email", email, "--otp <code>")
				return nil
			}

			a.session.Apply(result)
			if err := a.session.Save(a.cfg.SessionPath); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s signed in as %s (%s)\n", color.GreenString("ok"), result.User.Name, result.User.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&sessionKey, "session-key", "", "session key issued by an admin")
	cmd.Flags().StringVar(&otp, "otp", "", "one-time code (admins)")
	_ = cmd.MarkFlagRequired("email")
	cmd.MarkFlagsMutuallyExclusive("password", "otp")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.session.Logout()
			if err := a.session.Save(a.cfg.SessionPath); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "signed out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok := a.session.CurrentUser()
			if !ok {
				return errNotLoggedIn
			}
			role := string(user.Role)
			if user.SubRole != "" {
				role += "/" + string(user.SubRole)
			}
			fmt.Fprintf(a.out, "%s <%s> %s\n", user.Name, user.Email, role)
			if trust := a.session.AdminOTPTrust; trust != nil && trust.ValidFor(user.Email, time.Now()) {
				fmt.Fprintf(a.out, "code verified until %s\n", trust.VerifiedAt.Add(client.TrustValidity).Format("2006-01-02"))
			}
			return nil
		},
	}
}
