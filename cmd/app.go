// Package cmd holds the companion command tree.
package cmd

import (
	"github.com/grovetools/companion/cli"
	"github.com/grovetools/companion/command"
	"github.com/grovetools/companion/config"
	"github.com/grovetools/companion/logging"
	"github.com/grovetools/companion/pkg/launch"
	"github.com/grovetools/companion/pkg/prober"
	"github.com/grovetools/companion/pkg/repository"
	"github.com/grovetools/companion/pkg/scripts"
	"github.com/grovetools/companion/pkg/sessions"
	"github.com/grovetools/companion/pkg/settings"
	"github.com/grovetools/companion/pkg/workspace"
	"github.com/spf13/cobra"
)

// app wires the domain managers for one command invocation.
type app struct {
	cfg      *config.Config
	repos    *repository.Repositories
	builder  *command.SafeBuilder
	launcher *launch.Launcher
	projects *workspace.Manager
	scripts  *scripts.Manager
	sessions *sessions.Manager
	settings *settings.Manager
	prober   *prober.Prober
}

// openApp loads the configuration and opens the record store.
func openApp() (*app, error) {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return nil, err
	}
	repos, err := repository.Open(cfg.Store)
	if err != nil {
		return nil, err
	}

	builder := command.NewSafeBuilder()
	launcher := launch.New(cfg.Launch, builder)
	projects := workspace.NewManager(repos.Projects)
	return &app{
		cfg:      cfg,
		repos:    repos,
		builder:  builder,
		launcher: launcher,
		projects: projects,
		scripts:  scripts.NewManager(repos.Scripts),
		sessions: sessions.NewManager(repos.Sessions, projects, launcher),
		settings: settings.NewManager(repos.Settings),
		prober:   prober.New(cfg.SuperClaude, builder),
	}, nil
}

func (a *app) Close() error {
	return a.repos.Close()
}

// withApp runs fn with an open app and closes it afterwards.
func withApp(fn func(cmd *cobra.Command, args []string, a *app) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				logging.NewLogger("cli").WithError(err).Warn("Failed to close record store")
			}
		}()
		return fn(cmd, args, a)
	}
}

// jsonOutput reports whether --json was given.
func jsonOutput(cmd *cobra.Command) bool {
	return cli.GetOptions(cmd).JSONOutput
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	return cli.PrintJSON(cmd.OutOrStdout(), v)
}

// notify returns the user-facing notifier.
func notify(cmd *cobra.Command) *logging.PrettyLogger {
	return logging.NewPrettyLogger().WithWriter(cmd.ErrOrStderr())
}
