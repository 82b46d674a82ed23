package router

import (
	"context"
	"strings"
	"time"

	"github.com/grovetools/companion/command"
	"github.com/grovetools/companion/config"
	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/internal/pidfile"
	"github.com/grovetools/companion/logging"
	"github.com/grovetools/companion/util/pathutil"
)

// statusTimeout bounds the `status` call; start and stop are not bounded.
const statusTimeout = 10 * time.Second

// StatusSource tells where a Status came from.
type StatusSource string

const (
	SourceCLI     StatusSource = "cli"
	SourcePidFile StatusSource = "pidfile"
)

// Status is the proxy state as reported at the time of the call.
type Status struct {
	Running bool         `json:"running"`
	PID     int          `json:"pid,omitempty"`
	Output  string       `json:"output,omitempty"`
	Source  StatusSource `json:"source"`
}

// Controller drives the router CLI.
type Controller struct {
	cfg     config.RouterConfig
	builder *command.SafeBuilder
}

// NewController creates a Controller. A nil builder uses the real executor.
func NewController(cfg config.RouterConfig, builder *command.SafeBuilder) *Controller {
	if builder == nil {
		builder = command.NewSafeBuilder()
	}
	return &Controller{cfg: cfg, builder: builder}
}

// ConfigPath returns the expanded location of the router config file.
func (c *Controller) ConfigPath() string { return pathutil.MustExpand(c.cfg.ConfigPath) }

// LogPath returns the expanded location of the router log file.
func (c *Controller) LogPath() string { return pathutil.MustExpand(c.cfg.LogPath) }

func (c *Controller) binary() string {
	if c.cfg.Binary == "" {
		return "ccr"
	}
	return c.cfg.Binary
}

// Status asks the CLI for the proxy state. When the CLI is not installed the
// pid file is checked instead.
func (c *Controller) Status(ctx context.Context) (Status, error) {
	log := logging.NewLogger("router")

	cmd, err := c.builder.Build(ctx, c.binary(), "status")
	if err != nil {
		return Status{}, err
	}
	result, err := cmd.WithTimeout(statusTimeout).Run()
	if errors.Is(err, errors.ErrCodeCommandNotFound) {
		log.WithField("binary", c.binary()).Debug("Router CLI missing, reading pid file")
		return c.statusFromPidFile()
	}
	if err != nil {
		return Status{}, err
	}

	output := strings.TrimSpace(result.Stdout)
	status := Status{Running: parseRunning(output), Output: output, Source: SourceCLI}
	if running, pid, err := pidfile.IsRunning(pathutil.MustExpand(c.cfg.PidPath)); err == nil && running {
		status.PID = pid
	}
	return status, nil
}

func (c *Controller) statusFromPidFile() (Status, error) {
	running, pid, err := pidfile.IsRunning(pathutil.MustExpand(c.cfg.PidPath))
	if err != nil {
		return Status{}, errors.Wrap(err, errors.ErrCodeCommandFailed, "failed to read router pid file").
			WithDetail("path", c.cfg.PidPath)
	}
	status := Status{Running: running, Source: SourcePidFile}
	if running {
		status.PID = pid
	}
	return status, nil
}

// Start launches the proxy in the background. It returns once the process
// was spawned; it does not wait for the proxy to come up.
func (c *Controller) Start(ctx context.Context) error {
	cmd, err := c.builder.Build(ctx, c.binary(), "start")
	if err != nil {
		return err
	}
	logging.NewLogger("router").WithField("command", cmd.String()).Info("Starting router")
	return cmd.Start()
}

// Stop runs the CLI's stop command and waits for it.
func (c *Controller) Stop(ctx context.Context) error {
	cmd, err := c.builder.Build(ctx, c.binary(), "stop")
	if err != nil {
		return err
	}
	logging.NewLogger("router").WithField("command", cmd.String()).Info("Stopping router")
	_, err = cmd.Run()
	return err
}

// parseRunning interprets the CLI's status text.
func parseRunning(output string) bool {
	lower := strings.ToLower(output)
	for _, negative := range []string{"not running", "stopped", "is not"} {
		if strings.Contains(lower, negative) {
			return false
		}
	}
	return strings.Contains(lower, "running")
}
