// ABOUTME: XDG-based data and config directory resolution for the snippets CLI.
// ABOUTME: Checks XDG_DATA_HOME / XDG_CONFIG_HOME, falls back to ~/.local/share/snippets and ~/.config/snippets.
package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// defaultDataDir returns the default data directory for persistent state.
// It checks XDG_DATA_HOME first, then falls back to ~/.local/share/snippets.
func defaultDataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "snippets"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".local", "share", "snippets"), nil
}

// defaultConfigDir returns the default config directory.
// It checks XDG_CONFIG_HOME first, then falls back to ~/.config/snippets.
func defaultConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "snippets"), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}

	return filepath.Join(home, ".config", "snippets"), nil
}

// resolveStorePath returns the scan index database path, creating the data
// directory when the default location is used.
func resolveStorePath(override string) (string, error) {
	if override != "" {
		return override, nil
	}

	dataDir, err := defaultDataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	return filepath.Join(dataDir, "index.db"), nil
}
