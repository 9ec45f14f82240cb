// =============================================================================
// paths.go - Home Directory and File Locations
// =============================================================================
//
// Locations of the files the terminal client reads and writes: the TOML
// config file, the line editor history and the node's keyword file.
//
// =============================================================================

package main

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	// configFileName is looked up in the home directory when --config is
	// not given.
	configFileName = ".stars.toml"

	// envFileName is loaded from the working directory if present.
	envFileName = ".env"
)

// homeDir returns the user's home directory, or "" if it cannot be
// determined.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// defaultConfigPath returns ~/.stars.toml, or "" without a home directory.
func defaultConfigPath() string {
	home := homeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, configFileName)
}

// GO CONCEPT: No Shell Expansion
// ------------------------------
// os.Open("~/x") looks for a directory literally named "~". Tilde
// expansion is a shell feature, so paths from config files and flags are
// expanded by hand before use.
// expandHome replaces a leading "~/" with the home directory.
func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		if home := homeDir(); home != "" {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
