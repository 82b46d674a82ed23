package command

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/grovetools/companion/errors"
)

// MaxTimeout is the maximum allowed timeout
const MaxTimeout = 10 * time.Minute

var (
	subcommandRegex = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)
	toolNameRegex   = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._-]*$`)
)

// SafeBuilder builds argument-vector commands after validating their inputs.
// No command built here ever goes through a shell.
type SafeBuilder struct {
	validators map[string]func(string) error
	executor   Executor
}

// NewSafeBuilder creates a new SafeBuilder instance with a RealExecutor
func NewSafeBuilder() *SafeBuilder {
	return NewSafeBuilderWithExecutor(&RealExecutor{})
}

// NewSafeBuilderWithExecutor creates a new SafeBuilder with a custom Executor
func NewSafeBuilderWithExecutor(exec Executor) *SafeBuilder {
	return &SafeBuilder{
		validators: makeDefaultValidators(),
		executor:   exec,
	}
}

// Executor returns the executor commands are created with.
func (sb *SafeBuilder) Executor() Executor {
	return sb.executor
}

// makeDefaultValidators returns the default set of validators
func makeDefaultValidators() map[string]func(string) error {
	return map[string]func(string) error{
		"subcommand": ValidateSubcommand,
		"path":       ValidatePath,
		"toolArg":    validateToolArg,
	}
}

// ValidateSubcommand accepts a single lowercase command token such as "init" or "load-context".
func ValidateSubcommand(name string) error {
	if name == "" {
		return fmt.Errorf("subcommand cannot be empty")
	}
	if !subcommandRegex.MatchString(name) {
		return fmt.Errorf("invalid subcommand: %q (must be a lowercase word, digits, '-' or '_')", name)
	}
	return nil
}

// ValidatePath rejects empty paths and paths carrying NUL or line breaks.
// Paths only ever travel as argv elements, so shell characters are allowed.
func ValidatePath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsAny(path, "\n\r\x00") {
		return fmt.Errorf("path contains invalid characters: %q", path)
	}
	return nil
}

// validateToolArg accepts plain values passed positionally to scripts (agent, editor names).
func validateToolArg(value string) error {
	if !toolNameRegex.MatchString(value) {
		return fmt.Errorf("invalid argument: %q", value)
	}
	return nil
}

// Validate validates specific arguments
func (sb *SafeBuilder) Validate(argType string, value string) error {
	validator, exists := sb.validators[argType]
	if !exists {
		return fmt.Errorf("no validator for argument type: %s", argType)
	}

	if err := validator(value); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, err.Error()).
			WithDetail("type", argType)
	}
	return nil
}

// Command represents a validated command awaiting execution
type Command struct {
	ctx      context.Context
	name     string
	args     []string
	dir      string
	timeout  time.Duration
	executor Executor
}

// Result holds the captured output of a finished command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Build creates a new command. Without WithTimeout it runs unbounded.
func (sb *SafeBuilder) Build(ctx context.Context, name string, args ...string) (*Command, error) {
	if strings.TrimSpace(name) == "" {
		return nil, errors.InvalidInput("command name cannot be empty")
	}
	if strings.ContainsRune(name, 0) {
		return nil, errors.InvalidInput("command name contains a NUL byte")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	return &Command{
		ctx:      ctx,
		name:     name,
		args:     args,
		executor: sb.executor,
	}, nil
}

// WithTimeout bounds execution; it is capped at MaxTimeout.
func (c *Command) WithTimeout(timeout time.Duration) *Command {
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	c.timeout = timeout
	return c
}

// InDir sets the working directory.
func (c *Command) InDir(dir string) *Command {
	c.dir = dir
	return c
}

// String renders the argv for logs and notifications.
func (c *Command) String() string {
	return strings.TrimSpace(c.name + " " + strings.Join(c.args, " "))
}

// Exec creates the exec.Cmd. The returned cancel func must be called
// once the command has finished.
func (c *Command) Exec() (*exec.Cmd, context.CancelFunc) {
	ctx, cancel := c.runContext()
	return c.cmd(ctx), cancel
}

func (c *Command) runContext() (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(c.ctx, c.timeout)
	}
	return context.WithCancel(c.ctx)
}

func (c *Command) cmd(ctx context.Context) *exec.Cmd {
	cmd := c.executor.CommandContext(ctx, c.name, c.args...) //nolint:gosec // argv only, validated by SafeBuilder
	cmd.Dir = c.dir
	return cmd
}

// Run executes the command and captures stdout and stderr separately.
// A non-zero exit yields COMMAND_FAILED with the captured Result still returned.
func (c *Command) Run() (Result, error) {
	ctx, cancel := c.runContext()
	defer cancel()
	cmd := c.cmd(ctx)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err == nil {
		return result, nil
	}

	if stderrors.Is(err, exec.ErrNotFound) {
		return result, errors.CommandNotFound(c.name)
	}
	failure := errors.CommandFailed(c.String(), err)
	if stderrors.Is(ctx.Err(), context.DeadlineExceeded) {
		failure = failure.WithDetail("timeout", c.timeout.String())
	}
	if msg := strings.TrimSpace(result.Stderr); msg != "" {
		failure = failure.WithDetail("stderr", msg)
	}
	return result, failure
}

// Start launches the command without waiting for it. The child is not
// tracked: cancelling the build context does not stop it and no timeout
// applies.
func (c *Command) Start() error {
	cmd := c.cmd(context.WithoutCancel(c.ctx))
	if err := cmd.Start(); err != nil {
		if stderrors.Is(err, exec.ErrNotFound) {
			return errors.CommandNotFound(c.name)
		}
		return errors.CommandFailed(c.String(), err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
