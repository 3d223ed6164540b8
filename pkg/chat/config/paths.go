package config

import (
	"os"
	"path/filepath"
)

const appDirName = "workmate"

// DefaultConfigDir returns the directory searched for config.yaml:
// $XDG_CONFIG_HOME/workmate (or the platform equivalent).
func DefaultConfigDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, appDirName)
}

// DefaultConfigPath returns the canonical config file location.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// DefaultDataDir returns the directory for locally persisted data such as
// the transcript database: $XDG_DATA_HOME/workmate or ~/.local/share/workmate.
func DefaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", appDirName)
}

// DefaultHistoryDSN returns the sqlite database path used when the
// configuration does not supply one.
func DefaultHistoryDSN() string {
	return filepath.Join(DefaultDataDir(), "history.db")
}
