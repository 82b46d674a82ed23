package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grovetools/companion/cli"
	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/internal/pidfile"
	"github.com/grovetools/companion/pkg/paths"
	"github.com/grovetools/companion/pkg/router"
	"github.com/grovetools/companion/tui/components/table"
	"github.com/spf13/cobra"
)

// NewRouterCmd creates the `router` command.
func NewRouterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "router",
		Aliases: []string{"ccr"},
		Short:   "Edit the claude-code-router configuration and control the proxy",
	}
	cmd.AddCommand(
		newRouterShowCmd(),
		newRouterSetCmd(),
		newRouterProviderCmd(),
		newRouterStatusCmd(),
		newRouterStartCmd(),
		newRouterStopCmd(),
		newRouterWatchCmd(),
		newRouterLogsCmd(),
		newRouterSchemaCmd(),
	)
	return cmd
}

func routerController() (*router.Controller, error) {
	cfg, err := cli.LoadConfig()
	if err != nil {
		return nil, err
	}
	return router.NewController(cfg.Router, nil), nil
}

// editRouterConfig loads the router config, applies fn and saves it.
func editRouterConfig(fn func(c *router.Config) error) (string, error) {
	ctl, err := routerController()
	if err != nil {
		return "", err
	}
	path := ctl.ConfigPath()
	cfg, err := router.Load(path)
	if err != nil {
		return "", err
	}
	if err := fn(cfg); err != nil {
		return "", err
	}
	return path, router.Save(path, cfg)
}

func newRouterShowCmd() *cobra.Command {
	var reveal bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the router configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := routerController()
			if err != nil {
				return err
			}
			cfg, err := router.Load(ctl.ConfigPath())
			if err != nil {
				return err
			}
			if jsonOutput(cmd) {
				return printJSON(cmd, cfg)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, table.StatusTable(cfg.Fields(reveal)))
			if len(cfg.Providers) == 0 {
				fmt.Fprintln(out, "\nNo providers. Add one with: companion router provider add --name <name>")
				return nil
			}
			rows := make([][]string, 0, len(cfg.Providers))
			for i, p := range cfg.Providers {
				key := p.APIKey
				if !reveal && key != "" {
					key = router.Mask(key)
				}
				rows = append(rows, []string{strconv.Itoa(i), p.Name, p.APIBaseURL, key, strings.Join(p.Models, ", ")})
			}
			fmt.Fprintln(out, table.SimpleTable([]string{"#", "NAME", "API BASE URL", "API KEY", "MODELS"}, rows))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reveal, "reveal", false, "Show API keys in full")
	return cmd
}

func newRouterSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <field> <value>",
		Short: "Set a router field",
		Long: `Set a top-level or routing field of the router configuration. An
empty value clears the field.

Fields: ` + strings.Join(router.FieldNames(), ", ") + `

Examples:
  companion router set API_TIMEOUT_MS 600000
  companion router set Router.think deepseek,deepseek-reasoner`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			value := ""
			if len(args) == 2 {
				value = args[1]
			}
			path, err := editRouterConfig(func(c *router.Config) error {
				return c.SetField(args[0], value)
			})
			if err != nil {
				return err
			}
			notify(cmd).Success(fmt.Sprintf("Set %s", args[0]))
			notify(cmd).Path("config", path)
			return nil
		},
	}
}

func newRouterProviderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provider",
		Short: "Add, remove and edit router providers",
	}

	var p router.Provider
	var modelsFlag []string
	add := &cobra.Command{
		Use:   "add",
		Short: "Append a provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var index int
			_, err := editRouterConfig(func(c *router.Config) error {
				index = c.AddProvider(p)
				return c.SetProviderField(index, "models", modelsFlag...)
			})
			if err != nil {
				return err
			}
			notify(cmd).Success(fmt.Sprintf("Added provider #%d %s", index, p.Name))
			return nil
		},
	}
	add.Flags().StringVar(&p.Name, "name", "", "Provider name")
	add.Flags().StringVar(&p.APIBaseURL, "url", "", "Chat completions endpoint")
	add.Flags().StringVar(&p.APIKey, "key", "", "API key")
	add.Flags().StringSliceVar(&modelsFlag, "models", nil, "Model identifiers (comma separated)")

	remove := &cobra.Command{
		Use:     "remove <index>",
		Aliases: []string{"rm"},
		Short:   "Remove the provider at index",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			var removed router.Provider
			if _, err := editRouterConfig(func(c *router.Config) error {
				removed, err = c.RemoveProvider(index)
				return err
			}); err != nil {
				return err
			}
			notify(cmd).Success(fmt.Sprintf("Removed provider %s", removed.Name))
			return nil
		},
	}

	set := &cobra.Command{
		Use:   "set <index> <field> <value...>",
		Short: "Edit a field of the provider at index",
		Long: `Edit one provider field. Fields: ` + strings.Join(router.ProviderFields, ", ") + `.
"models" takes any number of values; "transformer" takes a JSON object.

Examples:
  companion router provider set 0 api_key sk-xxx
  companion router provider set 0 models deepseek-chat deepseek-reasoner`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if _, err := editRouterConfig(func(c *router.Config) error {
				return c.SetProviderField(index, args[1], args[2:]...)
			}); err != nil {
				return err
			}
			notify(cmd).Success(fmt.Sprintf("Updated provider #%d %s", index, args[1]))
			return nil
		},
	}

	cmd.AddCommand(add, remove, set)
	return cmd
}

func parseIndex(s string) (int, error) {
	index, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.InvalidInput(fmt.Sprintf("provider index must be a number, got '%s'", s))
	}
	return index, nil
}

func printStatus(cmd *cobra.Command, status router.Status) error {
	if jsonOutput(cmd) {
		return printJSON(cmd, status)
	}
	state := "stopped"
	if status.Running {
		state = "running"
	}
	rows := [][2]string{{"state", state}, {"source", string(status.Source)}}
	if status.PID > 0 {
		rows = append(rows, [2]string{"pid", strconv.Itoa(status.PID)})
	}
	if status.Output != "" {
		rows = append(rows, [2]string{"output", status.Output})
	}
	fmt.Fprintln(cmd.OutOrStdout(), table.StatusTable(rows))
	return nil
}

func newRouterStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report whether the proxy is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := routerController()
			if err != nil {
				return err
			}
			status, err := ctl.Status(cmd.Context())
			if err != nil {
				return err
			}
			return printStatus(cmd, status)
		},
	}
}

func newRouterStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the proxy in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := routerController()
			if err != nil {
				return err
			}
			if err := cli.NewProgress("Starting router...").Run(func() error {
				return ctl.Start(cmd.Context())
			}); err != nil {
				return err
			}
			notify(cmd).Success("Router start requested")
			status, err := ctl.Status(cmd.Context())
			if err != nil {
				return err
			}
			return printStatus(cmd, status)
		},
	}
}

func newRouterStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the proxy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := routerController()
			if err != nil {
				return err
			}
			if err := cli.NewProgress("Stopping router...").Run(func() error {
				return ctl.Stop(cmd.Context())
			}); err != nil {
				return err
			}
			notify(cmd).Success("Router stopped")
			status, err := ctl.Status(cmd.Context())
			if err != nil {
				return err
			}
			return printStatus(cmd, status)
		},
	}
}

func newRouterWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print the router configuration each time its file changes",
		Long: `Watches the router configuration file and reports every settled change
until interrupted. Only one watcher runs at a time.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := routerController()
			if err != nil {
				return err
			}
			pidPath := filepath.Join(paths.StateDir(), "router-watch.pid")
			if err := pidfile.Acquire(pidPath); err != nil {
				return errors.Wrap(err, errors.ErrCodeAlreadyExists, "router watch is already running").
					WithDetail("pid_file", pidPath)
			}
			defer pidfile.Release(pidPath)

			path := ctl.ConfigPath()
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to create router config directory")
			}
			w, err := router.NewWatcher(path, router.DefaultDebounce)
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to watch router config").
					WithDetail("path", path)
			}

			notify(cmd).InfoPretty(fmt.Sprintf("Watching %s (Ctrl+C to stop)", path))
			return w.Run(cmd.Context(), func(cfg *router.Config, err error) {
				if err != nil {
					notify(cmd).ErrorPretty("Router config unreadable", err)
					return
				}
				if verr := router.Validate(cfg); verr != nil {
					notify(cmd).WarnPretty(verr.Error())
				}
				notify(cmd).Success(fmt.Sprintf("Router config reloaded: %d providers", len(cfg.Providers)))
				if cfg.Router != nil && cfg.Router.Default != "" {
					notify(cmd).Field("default route", cfg.Router.Default)
				}
			})
		},
	}
}

func newRouterLogsCmd() *cobra.Command {
	var opts router.TailOptions
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the proxy log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctl, err := routerController()
			if err != nil {
				return err
			}
			return router.TailLog(cmd.Context(), ctl.LogPath(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Follow, "follow", "f", false, "Keep printing new lines")
	cmd.Flags().IntVarP(&opts.Lines, "lines", "n", 0, "Only the last N lines (default: all)")
	return cmd
}

func newRouterSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the router configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := router.GenerateSchema()
			if err != nil {
				return errors.Wrap(err, errors.ErrCodeInternal, "failed to generate router schema")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}

