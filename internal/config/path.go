package config

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName is the directory name used under the XDG base directories.
const AppName = "layoutguide"

// ExpandPath expands a leading ~ and $VAR references in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + path[1:]
		}
	}
	expanded := os.ExpandEnv(path)
	if expanded == "" {
		return ""
	}
	return filepath.Clean(expanded)
}

// xdgDir returns $env/layoutguide, or ~/fallback/layoutguide when env is unset.
func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName)
	}
	return filepath.Join(ExpandPath("~"), fallback, AppName)
}

// DefaultConfigDir holds config.yaml and the Google token file.
func DefaultConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir holds the run history database.
func DefaultDataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}
