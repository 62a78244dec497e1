// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the application's configuration directory,
// $HOME/.config/shiftsense.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shiftsense"
	}
	return filepath.Join(home, ".config", "shiftsense")
}

// DefaultDatabasePath returns the default SQLite database location inside
// the configuration directory.
func DefaultDatabasePath() string {
	return filepath.Join(Dir(), "shiftsense.db")
}

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	// First expand tilde if present
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	// Then expand environment variables
	return os.ExpandEnv(path)
}
