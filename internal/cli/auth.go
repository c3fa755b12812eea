package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mcoot/circle-go/internal/apiclient"
	"github.com/mcoot/circle-go/internal/route"
	"github.com/mcoot/circle-go/internal/session"
)

func newAuthCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Account and session commands",
	}

	cmd.AddCommand(newAuthRegisterCmd(a))
	cmd.AddCommand(newAuthLoginCmd(a))
	cmd.AddCommand(newAuthLogoutCmd(a))
	cmd.AddCommand(newAuthMeCmd(a))

	return cmd
}

// credentials prompts for whatever was not given on the command line
func (a *app) credentials(user, pass string) (string, string, error) {
	var err error
	if user == "" {
		if user, err = huhUsername(); err != nil {
			return "", "", err
		}
	}
	if pass == "" {
		if pass, err = a.password("Password"); err != nil {
			return "", "", err
		}
	}
	return user, pass, nil
}

// land shows the post-sign-in landing screen to a user who is already
// signed in
func (a *app) land(cmd *cobra.Command) error {
	sel := a.newSelection(&route.Recorder{}, &noticeBox{})
	dash, err := sel.Dashboard(cmd.Context())
	if err != nil {
		return err
	}
	if dash.Identity == nil {
		return ErrNotLoggedIn
	}

	a.out.Print(LandingResult{
		Message:   fmt.Sprintf("Already logged in as %s", dash.Identity.Username),
		Dashboard: dash,
	})
	return nil
}

func newAuthRegisterCmd(a *app) *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:         "register",
		Short:       "Create an account and sign in",
		Annotations: onScreen(route.Entry),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.redirect != "" {
				return a.land(cmd)
			}
			user, pass, err := a.credentials(user, pass)
			if err != nil {
				return err
			}

			if err := a.auth.Register(cmd.Context(), user, pass); err != nil {
				return errors.New(apiclient.Detail(err, session.AuthErrorFallback))
			}

			a.out.Print(a.store.Identity())
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (prompted if omitted)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (prompted if omitted)")

	return cmd
}

func newAuthLoginCmd(a *app) *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Sign in with an existing account",
		Annotations: onScreen(route.Entry),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.redirect != "" {
				return a.land(cmd)
			}
			user, pass, err := a.credentials(user, pass)
			if err != nil {
				return err
			}

			if err := a.auth.Login(cmd.Context(), user, pass); err != nil {
				return errors.New(apiclient.Detail(err, session.AuthErrorFallback))
			}

			a.out.Print(a.store.Identity())
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (prompted if omitted)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (prompted if omitted)")

	return cmd
}

func newAuthLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out",
		RunE: func(cmd *cobra.Command, args []string) error {
			err := a.auth.Logout(cmd.Context())
			if clearErr := a.client.ClearCookies(); clearErr != nil {
				return fmt.Errorf("failed to clear cookies: %w", clearErr)
			}
			if err != nil {
				// The local session is gone either way
				a.logger.Warn("logout request failed", slog.String("error", err.Error()))
			}

			a.out.PrintMessage("Logged out")
			return nil
		},
	}
}

func newAuthMeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "me",
		Short:       "Show the signed-in user",
		Annotations: onScreen(route.Levels),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.out.Print(a.store.Identity())
			return nil
		},
	}
}
