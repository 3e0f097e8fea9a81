// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Layout  LayoutConfig  `toml:"layout"`
	Sieve   SieveConfig   `toml:"sieve"`
	History HistoryConfig `toml:"history"`
	UI      UIConfig      `toml:"ui"`
}

// LayoutConfig maps column layout settings.
type LayoutConfig struct {
	Margin    *int     `toml:"margin"`
	CellWidth *float64 `toml:"cell-width"`
}

// SieveConfig maps sieve engine settings.
type SieveConfig struct {
	MaxBound *int `toml:"max-bound"`
}

// HistoryConfig maps calculation history settings.
type HistoryConfig struct {
	Enabled     *bool `toml:"enabled"`
	Last        *int  `toml:"last"`
	CurveWindow *int  `toml:"curve-window"`
}

// UIConfig maps interactive interface settings.
type UIConfig struct {
	ResizeDebounceMs *int `toml:"resize-debounce-ms"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
