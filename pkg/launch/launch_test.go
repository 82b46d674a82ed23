package launch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/companion/config"
	"github.com/grovetools/companion/errors"
	"github.com/grovetools/companion/pkg/paths"
	"github.com/grovetools/companion/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a script body that writes each argument on its own line.
func recorder(out string) string {
	return `for a in "$@"; do printf '%s\n' "$a"; done > "` + out + `"`
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestStartSession(t *testing.T) {
	testutil.RequireShell(t)
	ctx := context.Background()
	project := t.TempDir()

	t.Run("passes arguments verbatim", func(t *testing.T) {
		bin := t.TempDir()
		out := filepath.Join(bin, "args")
		script := testutil.FakeExecutable(t, bin, "start.sh", recorder(out))

		l := New(config.LaunchConfig{StartSessionScript: script}, nil)
		_, err := l.StartSession(ctx, project, "Claude Code Router", "VSCode")
		require.NoError(t, err)
		assert.Equal(t, []string{project, "Claude Code Router", "VSCode"}, readLines(t, out))
	})

	t.Run("stderr output is a failure", func(t *testing.T) {
		script := testutil.FakeExecutable(t, t.TempDir(), "start.sh", `echo "agent missing" >&2`)
		l := New(config.LaunchConfig{StartSessionScript: script}, nil)

		_, err := l.StartSession(ctx, project, "", "")
		require.Error(t, err)
		ce, ok := errors.As(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeCommandFailed, ce.Code)
		assert.Equal(t, "agent missing", ce.Details["stderr"])
	})

	t.Run("non-zero exit is a failure", func(t *testing.T) {
		script := testutil.FakeExecutable(t, t.TempDir(), "start.sh", `exit 4`)
		l := New(config.LaunchConfig{StartSessionScript: script}, nil)

		result, err := l.StartSession(ctx, project, "", "")
		assert.True(t, errors.Is(err, errors.ErrCodeCommandFailed))
		assert.Equal(t, 4, result.ExitCode)
	})

	t.Run("shell characters in the path travel verbatim", func(t *testing.T) {
		bin := t.TempDir()
		out := filepath.Join(bin, "args")
		script := testutil.FakeExecutable(t, bin, "start.sh", recorder(out))
		odd := filepath.Join(t.TempDir(), "R&D; $HOME")
		require.NoError(t, os.Mkdir(odd, 0o755))

		l := New(config.LaunchConfig{StartSessionScript: script}, nil)
		_, err := l.StartSession(ctx, odd, "", "")
		require.NoError(t, err)
		assert.Equal(t, odd, readLines(t, out)[0])
	})

	t.Run("rejects line breaks and tool argument injection", func(t *testing.T) {
		l := New(config.LaunchConfig{}, nil)
		_, err := l.StartSession(ctx, project+"\nrm -rf /", "", "")
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

		_, err = l.StartSession(ctx, project, "Claude$(id)", "")
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	})

	t.Run("missing configured script", func(t *testing.T) {
		l := New(config.LaunchConfig{StartSessionScript: filepath.Join(t.TempDir(), "nope.sh")}, nil)
		_, err := l.StartSession(ctx, project, "", "")
		assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
	})

	t.Run("bundled script", func(t *testing.T) {
		testutil.IsolatedHome(t)
		l := New(config.LaunchConfig{}, nil)

		_, err := l.StartSession(ctx, project, "", "")
		require.NoError(t, err)

		installed, err := os.ReadFile(filepath.Join(paths.StateDir(), "start-session.sh"))
		require.NoError(t, err)
		assert.Equal(t, startSessionScript, installed)

		_, err = l.StartSession(ctx, filepath.Join(project, "missing"), "", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeCommandFailed))
	})
}

func TestOpenTerminalAndEditor(t *testing.T) {
	testutil.RequireShell(t)
	ctx := context.Background()
	dir := t.TempDir()
	bin := t.TempDir()

	termOut := filepath.Join(bin, "term-args")
	term := testutil.FakeExecutable(t, bin, "term", recorder(termOut))
	editOut := filepath.Join(bin, "edit-args")
	edit := testutil.FakeExecutable(t, bin, "edit", recorder(editOut))

	l := New(config.LaunchConfig{
		TerminalCommand: []string{term, "--working-directory={path}"},
		EditorCommands:  map[string][]string{"Cursor": {edit, "-n"}},
	}, nil)

	require.NoError(t, l.OpenTerminal(ctx, dir))
	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(termOut)
		return err == nil && string(data) == "--working-directory="+dir+"\n"
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, l.OpenEditor(ctx, "Cursor", dir))
	assert.Eventually(t, func() bool {
		data, err := os.ReadFile(editOut)
		return err == nil && string(data) == "-n\n"+dir+"\n"
	}, 5*time.Second, 20*time.Millisecond)

	err := l.OpenEditor(ctx, "Notepad", dir)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	err = New(config.LaunchConfig{TerminalCommand: []string{}}, nil).OpenTerminal(ctx, dir)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))

	err = New(config.LaunchConfig{TerminalCommand: []string{filepath.Join(bin, "absent")}}, nil).OpenTerminal(ctx, dir)
	assert.Error(t, err)
}

func TestRunTool(t *testing.T) {
	testutil.RequireShell(t)
	ctx := context.Background()
	bin := t.TempDir()
	tool := testutil.FakeExecutable(t, bin, "superclaude", `echo "ran $*"`)
	l := New(config.LaunchConfig{}, nil)

	result, err := l.RunTool(ctx, tool, "analyze", "--deep", "a b")
	require.NoError(t, err)
	assert.Equal(t, "ran analyze --deep a b\n", result.Stdout)

	for _, bad := range []string{"analyze; rm -rf ~", "Analyze", "", "a b"} {
		_, err := l.RunTool(ctx, tool, bad)
		assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput), "subcommand %q", bad)
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name     string
		template []string
		want     []string
	}{
		{"placeholder element", []string{"open", "-a", "iTerm", "{path}"}, []string{"open", "-a", "iTerm", "/p"}},
		{"placeholder inside element", []string{"ghostty", "--working-directory={path}"}, []string{"ghostty", "--working-directory=/p"}},
		{"no placeholder appends", []string{"code", "-n"}, []string{"code", "-n", "/p"}},
		{"empty template", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Expand(tt.template, "/p"))
		})
	}
}
