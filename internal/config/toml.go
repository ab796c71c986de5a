// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Input InputConfig `toml:"input"`
	Chart ChartConfig `toml:"chart"`
	Log   LogConfig   `toml:"log"`
}

// InputConfig maps data source settings.
type InputConfig struct {
	TimeColumn *string `toml:"time-column"`
	WPMColumn  *string `toml:"wpm-column"`
	DB         *string `toml:"db"`
}

// ChartConfig maps PNG output settings.
type ChartConfig struct {
	Width  *int    `toml:"width"`
	Height *int    `toml:"height"`
	Out    *string `toml:"out"`
}

// LogConfig maps logger settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
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
