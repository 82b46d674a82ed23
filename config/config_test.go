package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/companion/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestExtensions verifies that unknown top-level sections are kept for extensions
func TestExtensions(t *testing.T) {
	yamlContent := []byte(`
version: "1.0"
store:
  driver: file

logging:
  level: debug
  report_caller: true

tui:
  theme: gruvbox
`)

	cfg, err := LoadFromBytes(yamlContent, FormatYAML)
	require.NoError(t, err)

	require.NotNil(t, cfg.Extensions)
	assert.Contains(t, cfg.Extensions, "logging")
	assert.Contains(t, cfg.Extensions, "tui")
	assert.NotContains(t, cfg.Extensions, "store")

	type LoggingConfig struct {
		Level        string `yaml:"level"`
		ReportCaller bool   `yaml:"report_caller"`
	}

	var logCfg LoggingConfig
	require.NoError(t, cfg.UnmarshalExtension("logging", &logCfg))
	assert.Equal(t, "debug", logCfg.Level)
	assert.True(t, logCfg.ReportCaller)

	// A missing extension leaves the target untouched.
	var missing LoggingConfig
	require.NoError(t, cfg.UnmarshalExtension("nope", &missing))
	assert.Empty(t, missing.Level)
}

func TestDefaults(t *testing.T) {
	cfg, err := LoadFromBytes([]byte(""), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, DefaultVersion, cfg.Version)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, DefaultMaxRetries, cfg.Store.MaxRetries)
	assert.Equal(t, "superclaude", cfg.SuperClaude.Binary)
	assert.Equal(t, []string{"--help"}, cfg.SuperClaude.HelpArgs)
	assert.Equal(t, "10s", cfg.SuperClaude.ProbeTimeout)
	assert.Equal(t, "ccr", cfg.Router.Binary)
	assert.Equal(t, "~/.claude-code-router/config.json", cfg.Router.ConfigPath)
	assert.Contains(t, cfg.Launch.TerminalCommand, PathPlaceholder)
	assert.Contains(t, cfg.Launch.EditorCommands, "VSCode")
	assert.Contains(t, cfg.Launch.EditorCommands, "Cursor")
	assert.Contains(t, cfg.Launch.EditorCommands, "Ghostty")
}

func TestTOML(t *testing.T) {
	tomlContent := []byte(`
version = "1.0"

[store]
driver = "memory"
max_retries = 5

[superclaude]
probe_timeout = "2s"

[logging]
level = "warn"
`)

	cfg, err := LoadFromBytes(tomlContent, FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, DriverMemory, cfg.Store.Driver)
	assert.Equal(t, 5, cfg.Store.MaxRetries)
	assert.Equal(t, "2s", cfg.SuperClaude.ProbeTimeout)
	assert.Contains(t, cfg.Extensions, "logging")
	assert.NotContains(t, cfg.Extensions, "store")
}

func TestEnvVarExpansion(t *testing.T) {
	t.Setenv("COMPANION_TEST_DB", "/tmp/companion-test.db")

	cfg, err := LoadFromBytes([]byte(`
store:
  path: ${COMPANION_TEST_DB}
router:
  binary: ${COMPANION_TEST_UNSET:-ccr-dev}
`), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/companion-test.db", cfg.Store.Path)
	assert.Equal(t, "ccr-dev", cfg.Router.Binary)
}

func TestUnquotedVersion(t *testing.T) {
	cfg, err := LoadFromBytes([]byte("version: 1.0\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "1.0", cfg.Version)
}

func TestLoadFromBytesRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"unknown driver", "store:\n  driver: postgres\n"},
		{"negative retries", "store:\n  max_retries: -1\n"},
		{"wrong type", "store:\n  max_retries: lots\n"},
		{"bad timeout", "superclaude:\n  probe_timeout: soon\n"},
		{"empty terminal program", "launch:\n  terminal_command: [\"\", \"{path}\"]\n"},
		{"malformed yaml", "store: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromBytes([]byte(tt.content), FormatYAML)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid), "got %v", err)
		})
	}
}

func TestLoadDefault(t *testing.T) {
	t.Run("missing global file yields defaults", func(t *testing.T) {
		t.Setenv("COMPANION_HOME", t.TempDir())
		t.Setenv(EnvConfigPath, "")

		cfg, err := LoadDefault()
		require.NoError(t, err)
		assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	})

	t.Run("global file is found", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("COMPANION_HOME", home)
		t.Setenv(EnvConfigPath, "")
		dir := filepath.Join(home, "config")
		require.NoError(t, os.MkdirAll(dir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "companion.toml"), []byte("[store]\ndriver = \"file\"\n"), 0644))

		cfg, err := LoadDefault()
		require.NoError(t, err)
		assert.Equal(t, DriverFile, cfg.Store.Driver)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		t.Setenv(EnvConfigPath, filepath.Join(t.TempDir(), "missing.yml"))

		_, err := LoadDefault()
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
	})
}

func TestSchemaIsValidJSON(t *testing.T) {
	data, err := GenerateSchema()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"store"`)
	assert.Contains(t, string(data), `"probe_timeout"`)
	assert.NotContains(t, string(data), `"Extensions"`)
}

func TestProbeTimeout(t *testing.T) {
	assert.Equal(t, "2s", SuperClaudeConfig{ProbeTimeout: "2s"}.Timeout().String())
	assert.Equal(t, "10s", SuperClaudeConfig{ProbeTimeout: "bogus"}.Timeout().String())
}
