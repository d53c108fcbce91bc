// ABOUTME: Loads snippets.yaml configuration from the snippet directory or the XDG config directory.
// ABOUTME: File values fill only the settings the user did not pass as flags.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// configFileName is looked up first in the snippet directory, then in the
// XDG config directory.
const configFileName = "snippets.yaml"

// fileConfig mirrors the snippets.yaml schema.
type fileConfig struct {
	Title     string   `yaml:"title"`
	Tagline   string   `yaml:"tagline"`
	Output    string   `yaml:"output"`
	Exclude   []string `yaml:"exclude"`
	Markdown  bool     `yaml:"markdown"`
	Timestamp bool     `yaml:"timestamp"`
}

// applyFileConfig merges the first config file found into cfg. Explicit
// flags always win; a missing file is fine; a malformed file is an error the
// user should see rather than silently ignore.
func applyFileConfig(cfg *config) error {
	paths := []string{filepath.Join(cfg.dir, configFileName)}
	if configDir, err := defaultConfigDir(); err == nil {
		paths = append(paths, filepath.Join(configDir, configFileName))
	}

	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}

		var fc fileConfig
		if err := yaml.Unmarshal(raw, &fc); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}

		mergeFileConfig(cfg, fc)
		return nil
	}
	return nil
}

// mergeFileConfig copies file values into cfg for settings not set by flags.
func mergeFileConfig(cfg *config, fc fileConfig) {
	if !cfg.flagsSet["title"] && fc.Title != "" {
		cfg.title = fc.Title
	}
	if !cfg.flagsSet["tagline"] && fc.Tagline != "" {
		cfg.tagline = fc.Tagline
	}
	if !cfg.flagsSet["out"] && fc.Output != "" {
		cfg.output = fc.Output
	}
	// The -exclude flag form is comma-separated, so both sources flow
	// through one parser.
	if !cfg.flagsSet["exclude"] && len(fc.Exclude) > 0 {
		cfg.exclude = strings.Join(fc.Exclude, ",")
	}
	if !cfg.flagsSet["markdown"] && fc.Markdown {
		cfg.markdown = true
	}
	if !cfg.flagsSet["timestamp"] && fc.Timestamp {
		cfg.timestamp = true
	}
}
