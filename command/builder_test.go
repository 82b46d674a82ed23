package command

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSubcommand(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain word", "init", false},
		{"with hyphen", "load-context", false},
		{"with underscore", "save_state", false},
		{"with digits", "v2", false},
		{"empty", "", true},
		{"uppercase", "Init", true},
		{"leading hyphen", "-rf", true},
		{"flag", "--help", true},
		{"semicolon", "init;rm", true},
		{"space", "init now", true},
		{"substitution", "$(whoami)", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubcommand(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSubcommand(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"absolute", "/tmp/p1", false},
		{"with spaces", "/Users/me/My Project", false},
		{"relative", "code/app", false},
		{"empty", "", true},
		{"blank", "   ", true},
		{"ampersand", "/Users/me/code/R&D", false},
		{"dollar and semicolon", "/tmp/a;b$c", false},
		{"quotes", `/tmp/it's "here"`, false},
		{"newline", "/tmp/p1\nrm", true},
		{"carriage return", "/tmp/p1\rrm", true},
		{"nul", "/tmp/p1\x00", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePath(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestSafeBuilderValidate(t *testing.T) {
	sb := NewSafeBuilder()

	assert.NoError(t, sb.Validate("subcommand", "init"))
	assert.NoError(t, sb.Validate("toolArg", "Claude Code Router"))

	err := sb.Validate("subcommand", "init;ls")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	assert.Error(t, sb.Validate("unknown", "x"))
}

func TestBuildRejectsEmptyName(t *testing.T) {
	_, err := NewSafeBuilder().Build(context.Background(), "  ")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestWithTimeoutIsCapped(t *testing.T) {
	cmd, err := NewSafeBuilder().Build(context.Background(), "true")
	require.NoError(t, err)

	cmd.WithTimeout(time.Hour)
	assert.Equal(t, MaxTimeout, cmd.timeout)
	assert.Equal(t, "true", cmd.String())
}

func TestRunCapturesOutput(t *testing.T) {
	dir := t.TempDir()
	tool := testutil.FakeExecutable(t, dir, "tool", `echo "out:$1"; echo "err:$2" >&2`)

	cmd, err := NewSafeBuilder().Build(context.Background(), tool, "a b", "c;d")
	require.NoError(t, err)

	result, err := cmd.Run()
	require.NoError(t, err)
	assert.Equal(t, "out:a b\n", result.Stdout, "arguments are passed verbatim, never through a shell")
	assert.Equal(t, "err:c;d\n", result.Stderr)
	assert.Equal(t, 0, result.ExitCode)
}

func TestRunNonZeroExit(t *testing.T) {
	dir := t.TempDir()
	tool := testutil.FakeExecutable(t, dir, "failing", `echo "boom" >&2; exit 3`)

	cmd, err := NewSafeBuilder().Build(context.Background(), tool)
	require.NoError(t, err)

	result, err := cmd.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeCommandFailed))
	assert.Equal(t, 3, result.ExitCode)

	companionErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, 3, companionErr.Details["exitCode"])
	assert.Equal(t, "boom", companionErr.Details["stderr"])
}

func TestRunMissingBinary(t *testing.T) {
	testutil.OnlyPath(t, t.TempDir())

	cmd, err := NewSafeBuilder().Build(context.Background(), "definitely-not-installed")
	require.NoError(t, err)

	_, err = cmd.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeCommandNotFound))
}

func TestRunTimeout(t *testing.T) {
	dir := t.TempDir()
	tool := testutil.FakeExecutable(t, dir, "slow", `exec sleep 5`)

	cmd, err := NewSafeBuilder().Build(context.Background(), tool)
	require.NoError(t, err)

	start := time.Now()
	_, err = cmd.WithTimeout(100 * time.Millisecond).Run()
	require.Error(t, err)
	assert.Less(t, time.Since(start), 4*time.Second)

	companionErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, "100ms", companionErr.Details["timeout"])
}

func TestInDirAndStart(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "started")
	tool := testutil.FakeExecutable(t, dir, "launcher", `pwd > "`+marker+`"`)

	cmd, err := NewSafeBuilder().Build(context.Background(), tool)
	require.NoError(t, err)
	require.NoError(t, cmd.InDir(dir).Start())

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(marker)
		return err == nil && strings.TrimSpace(string(data)) != ""
	}, 5*time.Second, 20*time.Millisecond)
}

func TestStartOutlivesCancelledContext(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "finished")
	tool := testutil.FakeExecutable(t, dir, "slow", `sleep 0.3; touch "`+marker+`"`)

	ctx, cancel := context.WithCancel(context.Background())
	cmd, err := NewSafeBuilder().Build(ctx, tool)
	require.NoError(t, err)
	require.NoError(t, cmd.Start())
	cancel()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(marker)
		return err == nil
	}, 5*time.Second, 20*time.Millisecond)
}

func TestStartMissingBinary(t *testing.T) {
	cmd, err := NewSafeBuilder().Build(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Error(t, cmd.Start())
}
