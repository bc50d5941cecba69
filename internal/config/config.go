// Package config loads snipdoc's optional TOML configuration. Configuration
// only supplies defaults; command-line flags always win.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds defaults for extraction and rendering.
type Config struct {
	// Encoding is the default text encoding for included files.
	Encoding string `toml:"encoding"`
	// TabWidth expands tabs in extracted blocks when > 0.
	TabWidth int `toml:"tab_width"`
	// DiffContext is the number of context lines per diff hunk.
	DiffContext int `toml:"diff_context"`
	// Theme is the chroma style used by the renderer.
	Theme string `toml:"theme"`
	// Color is "auto", "on", or "off".
	Color string `toml:"color"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DiffContext: 3,
		Theme:       "monokai",
		Color:       "auto",
	}
}

// Load looks for snipdoc.toml in the working directory, then in the user
// config directory (e.g. ~/.config/snipdoc/). It returns the effective
// config and the path it was loaded from ("" when no file was found, which
// is not an error). A file that exists but fails to parse is an error.
func Load() (Config, string, error) {
	paths := []string{"snipdoc.toml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "snipdoc", "snipdoc.toml"))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		cfg, err := LoadFile(path)
		if err != nil {
			return Default(), path, err
		}
		return cfg, path, nil
	}
	return Default(), "", nil
}

// LoadFile reads one TOML config file over the defaults.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Default(), fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
