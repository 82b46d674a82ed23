// Package launch starts the external programs companion hands work to: the
// session-start script, a terminal, an editor and CLI tools. Every launch is
// an argument vector; nothing is interpreted by a shell.
package launch

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/companion/command"
	"github.com/grovetools/companion/config"
	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/logging"
	"github.com/grovetools/companion/pkg/paths"
	"github.com/grovetools/companion/util/pathutil"
)

//go:embed assets/start-session.sh
var startSessionScript []byte

// Launcher runs external programs according to the launch configuration.
type Launcher struct {
	cfg     config.LaunchConfig
	builder *command.SafeBuilder
}

// New creates a Launcher. A nil builder uses the real executor.
func New(cfg config.LaunchConfig, builder *command.SafeBuilder) *Launcher {
	if builder == nil {
		builder = command.NewSafeBuilder()
	}
	return &Launcher{cfg: cfg, builder: builder}
}

// StartSession runs `sh <script> <path> <agent> <editor>` and waits for it.
// A non-zero exit or any stderr output is reported as COMMAND_FAILED.
func (l *Launcher) StartSession(ctx context.Context, projectPath, agent, editor string) (command.Result, error) {
	if err := l.builder.Validate("path", projectPath); err != nil {
		return command.Result{}, err
	}
	for _, arg := range []string{agent, editor} {
		if arg == "" {
			continue
		}
		if err := l.builder.Validate("toolArg", arg); err != nil {
			return command.Result{}, err
		}
	}

	script, err := l.sessionScript()
	if err != nil {
		return command.Result{}, err
	}

	cmd, err := l.builder.Build(ctx, "sh", script, projectPath, agent, editor)
	if err != nil {
		return command.Result{}, err
	}
	logging.NewLogger("launch").WithField("command", cmd.String()).Debug("Starting session")

	result, err := cmd.InDir(projectPath).Run()
	if err != nil {
		return result, err
	}
	if stderr := strings.TrimSpace(result.Stderr); stderr != "" {
		return result, errors.New(errors.ErrCodeCommandFailed, "session script reported errors").
			WithDetail("command", cmd.String()).
			WithDetail("stderr", stderr)
	}
	return result, nil
}

// sessionScript returns the configured script, or writes the bundled one to
// the state directory and returns that path.
func (l *Launcher) sessionScript() (string, error) {
	if l.cfg.StartSessionScript != "" {
		path, err := pathutil.Expand(l.cfg.StartSessionScript)
		if err != nil {
			return "", errors.ConfigInvalid("launch.start_session_script: " + err.Error())
		}
		if _, err := os.Stat(path); err != nil {
			return "", errors.ConfigInvalid(fmt.Sprintf("launch.start_session_script not readable: %s", path)).
				WithDetail("path", path)
		}
		return path, nil
	}

	path := filepath.Join(paths.StateDir(), "start-session.sh")
	if current, err := os.ReadFile(path); err == nil && bytes.Equal(current, startSessionScript) {
		return path, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to create state directory")
	}
	if err := os.WriteFile(path, startSessionScript, 0o755); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to install session script").
			WithDetail("path", path)
	}
	return path, nil
}

// OpenTerminal opens a terminal in dir without waiting for it.
func (l *Launcher) OpenTerminal(ctx context.Context, dir string) error {
	return l.startTemplate(ctx, "launch.terminal_command", l.cfg.TerminalCommand, dir)
}

// OpenEditor opens dir in the named editor without waiting for it.
func (l *Launcher) OpenEditor(ctx context.Context, editor, dir string) error {
	argv, ok := l.cfg.EditorCommands[editor]
	if !ok {
		return errors.InvalidInput(fmt.Sprintf("no command configured for editor '%s'", editor)).
			WithDetail("editor", editor)
	}
	return l.startTemplate(ctx, "launch.editor_commands."+editor, argv, dir)
}

func (l *Launcher) startTemplate(ctx context.Context, name string, template []string, dir string) error {
	if err := l.builder.Validate("path", dir); err != nil {
		return err
	}
	argv := Expand(template, dir)
	if len(argv) == 0 {
		return errors.ConfigInvalid(name + " is empty")
	}

	cmd, err := l.builder.Build(ctx, argv[0], argv[1:]...)
	if err != nil {
		return err
	}
	logging.NewLogger("launch").WithField("command", cmd.String()).Debug("Launching")
	return cmd.InDir(dir).Start()
}

// RunTool runs `<binary> <subcommand> [args...]` and waits for it. The
// subcommand must be a single lowercase token.
func (l *Launcher) RunTool(ctx context.Context, binary, subcommand string, args ...string) (command.Result, error) {
	if err := l.builder.Validate("subcommand", subcommand); err != nil {
		return command.Result{}, err
	}
	cmd, err := l.builder.Build(ctx, binary, append([]string{subcommand}, args...)...)
	if err != nil {
		return command.Result{}, err
	}
	logging.NewLogger("launch").WithField("command", cmd.String()).Debug("Running tool")
	return cmd.Run()
}

// Expand substitutes config.PathPlaceholder in every element of template.
// When no element carries the placeholder, dir is appended.
func Expand(template []string, dir string) []string {
	argv := make([]string, 0, len(template)+1)
	substituted := false
	for _, arg := range template {
		if strings.Contains(arg, config.PathPlaceholder) {
			substituted = true
			arg = strings.ReplaceAll(arg, config.PathPlaceholder, dir)
		}
		argv = append(argv, arg)
	}
	if !substituted && len(argv) > 0 {
		argv = append(argv, dir)
	}
	return argv
}
