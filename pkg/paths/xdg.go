// Package paths provides XDG-compliant path resolution for companion.
//
// Resolution order:
// 1. COMPANION_HOME (portable root) → $COMPANION_HOME/{config,data,state}
// 2. XDG env vars → $XDG_*_HOME/companion
// 3. Platform defaults → ~/.config/companion, ~/.local/share/companion, etc.
package paths

import (
	"os"
	"path/filepath"
)

const appName = "companion"

// baseDir resolves one XDG base directory.
func baseDir(homeSub, xdgVar string, fallback ...string) string {
	if root := os.Getenv("COMPANION_HOME"); root != "" {
		return filepath.Join(root, homeSub)
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		parts := append([]string{homeDir}, fallback...)
		return filepath.Join(append(parts, appName)...)
	}
	return ""
}

// ConfigDir returns the companion configuration directory.
// Used for companion.yml.
func ConfigDir() string {
	return baseDir("config", "XDG_CONFIG_HOME", ".config")
}

// DataDir returns the companion data directory.
// Used for the record store database.
func DataDir() string {
	return baseDir("data", "XDG_DATA_HOME", ".local", "share")
}

// StateDir returns the companion state directory.
// Used for logs.
func StateDir() string {
	return baseDir("state", "XDG_STATE_HOME", ".local", "state")
}

// LogDir returns the directory component log files are written to.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// DatabasePath returns the default location of the SQLite record store.
func DatabasePath() string {
	data := DataDir()
	if data == "" {
		return ""
	}
	return filepath.Join(data, "companion.db")
}

// EnsureDirs creates all companion directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), DataDir(), StateDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
