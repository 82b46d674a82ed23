package logging

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	t.Setenv("COMPANION_HOME", t.TempDir())
	Reset()

	logger := NewLogger("test-component")
	require.NotNil(t, logger)
	assert.Equal(t, "test-component", logger.Data["component"])

	// Cached per component
	assert.Same(t, logger, NewLogger("test-component"))
}

func TestLoggerOutput(t *testing.T) {
	var buf bytes.Buffer

	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&TextFormatter{Config: FormatConfig{}})

	logger.WithField("component", "test").Info("Test message")

	output := buf.String()
	assert.Contains(t, output, "[INFO]")
	assert.Contains(t, output, "test")
	assert.Contains(t, output, "Test message")
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		entry   *logrus.Entry
		want    []string
		notWant []string
	}{
		{
			name:   "default format",
			config: FormatConfig{},
			entry: &logrus.Entry{
				Level:   logrus.InfoLevel,
				Message: "test message",
				Data: logrus.Fields{
					"component": "store",
					"key":       "projects",
				},
			},
			want: []string{"[INFO]", "store", "test message", "key=projects"},
		},
		{
			name: "simple format",
			config: FormatConfig{
				DisableTimestamp: true,
				DisableComponent: true,
			},
			entry: &logrus.Entry{
				Level:   logrus.WarnLevel,
				Message: "warning message",
				Data:    logrus.Fields{"component": "prober"},
			},
			want:    []string{"[WARN]", "warning message"},
			notWant: []string{"prober"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &TextFormatter{Config: tt.config}
			out, err := formatter.Format(tt.entry)
			require.NoError(t, err)
			for _, want := range tt.want {
				assert.Contains(t, string(out), want)
			}
			for _, notWant := range tt.notWant {
				assert.NotContains(t, string(out), notWant)
			}
		})
	}
}

func TestFormatterFieldOrderIsStable(t *testing.T) {
	formatter := &TextFormatter{Config: FormatConfig{DisableTimestamp: true}}
	entry := &logrus.Entry{
		Level:   logrus.InfoLevel,
		Message: "m",
		Data:    logrus.Fields{"b": 2, "a": 1, "c": 3},
	}
	out, err := formatter.Format(entry)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(out), "m a=1 b=2 c=3\n"), "got %q", out)
}

func TestLevelResolution(t *testing.T) {
	t.Setenv("COMPANION_HOME", t.TempDir())

	t.Run("env wins over config", func(t *testing.T) {
		t.Setenv("COMPANION_LOG_LEVEL", "error")
		entry := newLogger("lvl", Config{Level: "debug"}, true)
		assert.Equal(t, logrus.ErrorLevel, entry.Logger.GetLevel())
	})

	t.Run("config level", func(t *testing.T) {
		t.Setenv("COMPANION_LOG_LEVEL", "")
		entry := newLogger("lvl", Config{Level: "warn"}, true)
		assert.Equal(t, logrus.WarnLevel, entry.Logger.GetLevel())
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		t.Setenv("COMPANION_LOG_LEVEL", "chatty")
		entry := newLogger("lvl", Config{}, true)
		assert.Equal(t, logrus.InfoLevel, entry.Logger.GetLevel())
	})
}

func TestCallerReporting(t *testing.T) {
	t.Setenv("COMPANION_HOME", t.TempDir())
	t.Setenv("COMPANION_LOG_CALLER", "true")

	entry := newLogger("caller", Config{}, true)
	assert.True(t, entry.Logger.ReportCaller)
}

func TestShouldLogToStderr(t *testing.T) {
	t.Setenv("COMPANION_DEBUG", "")

	tests := []struct {
		name        string
		mode        string
		level       logrus.Level
		interactive bool
		want        bool
	}{
		{"always", "always", logrus.InfoLevel, true, true},
		{"never", "never", logrus.DebugLevel, false, false},
		{"auto interactive info", "auto", logrus.InfoLevel, true, false},
		{"auto piped", "", logrus.InfoLevel, false, true},
		{"auto debug", "auto", logrus.DebugLevel, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, shouldLogToStderr(tt.mode, tt.level, tt.interactive))
		})
	}
}

func TestFileSink(t *testing.T) {
	home := t.TempDir()
	t.Setenv("COMPANION_HOME", home)
	t.Setenv("COMPANION_LOG_LEVEL", "")

	t.Run("default location", func(t *testing.T) {
		entry := newLogger("sink", Config{Format: FormatConfig{StructuredToStderr: "never"}}, true)
		entry.Info("to file")

		matches, err := filepath.Glob(filepath.Join(home, "state", "logs", "sink-*.log"))
		require.NoError(t, err)
		require.Len(t, matches, 1)
		data, err := os.ReadFile(matches[0])
		require.NoError(t, err)
		assert.Contains(t, string(data), "to file")
	})

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "companion.log")
		entry := newLogger("sink", Config{
			File:   FileSinkConfig{Path: path},
			Format: FormatConfig{Preset: "json", StructuredToStderr: "never"},
		}, true)
		entry.Warn("json line")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"json line"`)
	})

	t.Run("disabled", func(t *testing.T) {
		assert.Nil(t, openLogFile("off", FileSinkConfig{Disabled: true}))
	})
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLogger().WithWriter(&buf)

	p.Success("project added")
	p.WarnPretty("superclaude not detected")
	p.ErrorPretty("start failed", errors.New("exit status 1"))
	p.Field("pinned", true)
	p.Path("config", "/tmp/config.json")
	p.Code("line one\nline two\n")

	out := buf.String()
	for _, want := range []string{
		"project added", "superclaude not detected", "start failed", "exit status 1",
		"pinned", "true", "/tmp/config.json", "line one", "line two",
	} {
		assert.Contains(t, out, want)
	}
}
