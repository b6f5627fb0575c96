// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Generate GenerateConfig `toml:"generate"`
	Evaluate EvaluateConfig `toml:"evaluate"`
	Store    StoreConfig    `toml:"store"`
}

// GenerateConfig maps layout search settings.
type GenerateConfig struct {
	Workers  *int  `toml:"workers"`
	Cache    *bool `toml:"cache"`
	Progress *bool `toml:"progress"`
	Styled   *bool `toml:"styled"`
}

// EvaluateConfig maps evaluation report settings.
type EvaluateConfig struct {
	Fingers *bool `toml:"fingers"`
}

// StoreConfig maps run history settings.
type StoreConfig struct {
	Path *string `toml:"path"`
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// DBPath returns the configured database path or the XDG default.
func (c FileConfig) DBPath() string {
	if c.Store.Path != nil && *c.Store.Path != "" {
		return *c.Store.Path
	}
	return DefaultDBPath()
}
