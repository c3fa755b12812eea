// Package cli implements the circle command-line client.
package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/circle-go/internal/apiclient"
	"github.com/mcoot/circle-go/internal/guard"
	"github.com/mcoot/circle-go/internal/route"
	"github.com/mcoot/circle-go/internal/session"
)

// ErrNotLoggedIn is returned by protected commands without a session
var ErrNotLoggedIn = errors.New("not logged in")

// screenAnnotation names the screen a command stands in for. The screen's
// guard runs before the command.
const screenAnnotation = "screen"

// app is what every command shares once the root pre-run has finished
type app struct {
	cfg    *Config
	out    *Output
	logger *slog.Logger
	client *apiclient.Client
	store  *session.Store
	auth   *session.Authenticator

	// redirect is where the guard sent a public command, or ""
	redirect route.Route

	// Interactive prompts; replaced in tests
	confirm  func(prompt string) (bool, error)
	password func(title string) (string, error)
}

func newApp() *app {
	return &app{
		cfg:      DefaultConfig(),
		confirm:  huhConfirm,
		password: huhPassword,
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "circle",
		Short: "Terminal client for Circle of Inevitability contests",
		Long: `circle is a terminal client for the Circle of Inevitability training game.

Sign in, generate a contest of problems matched to your rating, mark problems
solved as you go and complete the contest to earn rating, levels and traits.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfg.ServerURL, "server", a.cfg.ServerURL, "Server URL (env: CIRCLE_SERVER)")
	rootCmd.PersistentFlags().StringVar(&a.cfg.CookieFile, "cookie-file", a.cfg.CookieFile, "Session cookie file (env: CIRCLE_COOKIE_FILE)")
	rootCmd.PersistentFlags().StringVar(&a.cfg.ConfigFile, "config", a.cfg.ConfigFile, "Config file (env: CIRCLE_CONFIG)")
	rootCmd.PersistentFlags().StringVarP(&a.cfg.Output, "output", "o", a.cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&a.cfg.Verbose, "verbose", "v", a.cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newAuthCmd(a))
	rootCmd.AddCommand(newLevelsCmd(a))
	rootCmd.AddCommand(newFightCmd(a))
	rootCmd.AddCommand(newContestCmd(a))
	rootCmd.AddCommand(newPlayCmd(a))
	rootCmd.AddCommand(newHistoryCmd(a))
	rootCmd.AddCommand(newHealthCmd(a))

	return rootCmd
}

// setup builds the shared client and session, then runs the route guard for
// commands bound to a screen
func (a *app) setup(cmd *cobra.Command) error {
	if err := a.cfg.ApplyFile(cmd); err != nil {
		return err
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	a.out = NewOutput(a.cfg.Output, cmd.OutOrStdout(), cmd.ErrOrStderr())

	level := slog.LevelWarn
	if a.cfg.Verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	client, err := apiclient.New(a.cfg.ServerURL,
		apiclient.WithCookieStore(apiclient.NewFileCookieStore(a.cfg.CookieFile)),
		apiclient.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	a.client = client
	a.store = session.New(client, a.logger)
	a.auth = session.NewAuthenticator(client, a.store)

	screen := route.Route(cmd.Annotations[screenAnnotation])
	if screen == "" {
		return nil
	}

	a.store.CheckAuth(cmd.Context())
	nav := &route.Recorder{}
	if guard.Apply(nav, screen, a.store.Snapshot()) {
		return nil
	}

	visit, ok := nav.Last()
	a.logger.Debug("guard redirected command",
		slog.String("command", cmd.CommandPath()),
		slog.String("kind", guard.KindFor(screen).String()),
		slog.String("target", string(visit.To)),
	)
	if !ok || visit.To == route.Entry {
		return ErrNotLoggedIn
	}
	a.redirect = visit.To
	return nil
}

// onScreen binds a command to a screen's guard
func onScreen(r route.Route) map[string]string {
	return map[string]string{screenAnnotation: string(r)}
}

// Execute runs the root command, printing any error it returns
func Execute(ctx context.Context) error {
	a := newApp()
	err := newRootCmd(a).ExecuteContext(ctx)
	if err != nil {
		out := a.out
		if out == nil {
			out = NewOutput(a.cfg.Output, os.Stdout, os.Stderr)
		}
		out.PrintError(err)
	}
	return err
}
