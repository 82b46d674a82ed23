package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/mitchellh/mapstructure"
)

//go:generate go run ../tools/schema-generator/ ../schema/definitions

const (
	DefaultVersion      = "1.0"
	DefaultStoreDriver  = "sqlite"
	DefaultMaxRetries   = 3
	DefaultProbeTimeout = "10s"
)

// Store drivers understood by store.Open.
const (
	DriverSQLite = "sqlite"
	DriverFile   = "file"
	DriverMemory = "memory"
)

// PathPlaceholder is replaced by the target directory in launch argv templates.
const PathPlaceholder = "{path}"

// StoreConfig selects and configures the record store backend.
type StoreConfig struct {
	Driver     string `yaml:"driver,omitempty" toml:"driver,omitempty" validate:"omitempty,oneof=sqlite file memory" jsonschema:"enum=sqlite,enum=file,enum=memory,description=Record store backend (default: sqlite)"`
	Path       string `yaml:"path,omitempty" toml:"path,omitempty" jsonschema:"description=Database or JSON file location (default: <data dir>/companion.db)"`
	MaxRetries int    `yaml:"max_retries,omitempty" toml:"max_retries,omitempty" validate:"gte=0,lte=100" jsonschema:"minimum=0,description=Read-modify-write attempts before a revision conflict is reported (default: 3)"`
}

// LaunchConfig configures how external tools are started.
type LaunchConfig struct {
	StartSessionScript string              `yaml:"start_session_script,omitempty" toml:"start_session_script,omitempty" jsonschema:"description=Session start script; the bundled script is used when empty"`
	TerminalCommand    []string            `yaml:"terminal_command,omitempty" toml:"terminal_command,omitempty" jsonschema:"description=Argument vector that opens a terminal; {path} is replaced by the directory"`
	EditorCommands     map[string][]string `yaml:"editor_commands,omitempty" toml:"editor_commands,omitempty" jsonschema:"description=Argument vector per editor name (VSCode/Cursor/Ghostty)"`
}

// SuperClaudeConfig configures the SuperClaude prober.
type SuperClaudeConfig struct {
	Binary           string   `yaml:"binary,omitempty" toml:"binary,omitempty" jsonschema:"description=Tool name searched on PATH when settings carry no path (default: superclaude)"`
	CapabilitiesArgs []string `yaml:"capabilities_args,omitempty" toml:"capabilities_args,omitempty" jsonschema:"description=Arguments of the structured capability listing"`
	HelpArgs         []string `yaml:"help_args,omitempty" toml:"help_args,omitempty" jsonschema:"description=Arguments of the help output used as fallback"`
	ProbeTimeout     string   `yaml:"probe_timeout,omitempty" toml:"probe_timeout,omitempty" jsonschema:"description=Time budget of each probe invocation (default: 10s)"`
}

// Timeout returns the parsed probe timeout.
func (s SuperClaudeConfig) Timeout() time.Duration {
	d, err := time.ParseDuration(s.ProbeTimeout)
	if err != nil || d <= 0 {
		d, _ = time.ParseDuration(DefaultProbeTimeout)
	}
	return d
}

// RouterConfig locates the claude-code-router proxy and its files.
type RouterConfig struct {
	ConfigPath string `yaml:"config_path,omitempty" toml:"config_path,omitempty" jsonschema:"description=Router configuration file (default: ~/.claude-code-router/config.json)"`
	Binary     string `yaml:"binary,omitempty" toml:"binary,omitempty" jsonschema:"description=Router CLI (default: ccr)"`
	LogPath    string `yaml:"log_path,omitempty" toml:"log_path,omitempty" jsonschema:"description=Router log file"`
	PidPath    string `yaml:"pid_path,omitempty" toml:"pid_path,omitempty" jsonschema:"description=Router pid file"`
}

// Config is the companion configuration file (companion.yml or companion.toml).
type Config struct {
	Version     string            `yaml:"version" toml:"version" jsonschema:"description=Configuration version (e.g. 1.0)"`
	Store       StoreConfig       `yaml:"store,omitempty" toml:"store,omitempty" jsonschema:"description=Record store settings"`
	Launch      LaunchConfig      `yaml:"launch,omitempty" toml:"launch,omitempty" jsonschema:"description=External tool launching"`
	SuperClaude SuperClaudeConfig `yaml:"superclaude,omitempty" toml:"superclaude,omitempty" jsonschema:"description=SuperClaude probing"`
	Router      RouterConfig      `yaml:"router,omitempty" toml:"router,omitempty" jsonschema:"description=claude-code-router integration"`

	// Extensions captures all other top-level keys (logging, tui, ...).
	Extensions map[string]interface{} `yaml:",inline" toml:"-" jsonschema:"-"`
}

// knownKeys lists the top-level keys decoded into typed fields.
var knownKeys = map[string]bool{
	"version":     true,
	"store":       true,
	"launch":      true,
	"superclaude": true,
	"router":      true,
}

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	if c.Version == "" {
		c.Version = DefaultVersion
	}

	if c.Store.Driver == "" {
		c.Store.Driver = DefaultStoreDriver
	}
	if c.Store.MaxRetries == 0 {
		c.Store.MaxRetries = DefaultMaxRetries
	}

	if len(c.Launch.TerminalCommand) == 0 {
		c.Launch.TerminalCommand = defaultTerminalCommand()
	}
	if c.Launch.EditorCommands == nil {
		c.Launch.EditorCommands = make(map[string][]string)
	}
	for editor, argv := range defaultEditorCommands() {
		if _, ok := c.Launch.EditorCommands[editor]; !ok {
			c.Launch.EditorCommands[editor] = argv
		}
	}

	if c.SuperClaude.Binary == "" {
		c.SuperClaude.Binary = "superclaude"
	}
	if len(c.SuperClaude.CapabilitiesArgs) == 0 {
		c.SuperClaude.CapabilitiesArgs = []string{"capabilities", "--json"}
	}
	if len(c.SuperClaude.HelpArgs) == 0 {
		c.SuperClaude.HelpArgs = []string{"--help"}
	}
	if c.SuperClaude.ProbeTimeout == "" {
		c.SuperClaude.ProbeTimeout = DefaultProbeTimeout
	}

	if c.Router.ConfigPath == "" {
		c.Router.ConfigPath = "~/.claude-code-router/config.json"
	}
	if c.Router.Binary == "" {
		c.Router.Binary = "ccr"
	}
	if c.Router.LogPath == "" {
		c.Router.LogPath = "~/.claude-code-router/claude-code-router.log"
	}
	if c.Router.PidPath == "" {
		c.Router.PidPath = "~/.claude-code-router/.claude-code-router.pid"
	}
}

func defaultTerminalCommand() []string {
	switch runtime.GOOS {
	case "darwin":
		return []string{"open", "-a", "iTerm", PathPlaceholder}
	default:
		return []string{"x-terminal-emulator", "--working-directory", PathPlaceholder}
	}
}

func defaultEditorCommands() map[string][]string {
	cmds := map[string][]string{
		"VSCode": {"code", PathPlaceholder},
		"Cursor": {"cursor", PathPlaceholder},
	}
	if runtime.GOOS == "darwin" {
		cmds["Ghostty"] = []string{"open", "-a", "Ghostty", PathPlaceholder}
	} else {
		cmds["Ghostty"] = []string{"ghostty", "--working-directory=" + PathPlaceholder}
	}
	return cmds
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded companion.yml into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// A missing key leaves the target zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "yaml",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}
