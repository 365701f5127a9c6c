package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds overrides read from CODETYPE_* environment variables. Unset variables
// leave the corresponding field nil.
type EnvConfig struct {
	LessonsDir *string `env:"CODETYPE_LESSONS_DIR"`
	DBPath     *string `env:"CODETYPE_DB_PATH"`
	FlashMs    *int    `env:"CODETYPE_FLASH_MS"`
	Mode       *string `env:"CODETYPE_MODE"`
}

// LoadEnv parses overrides from the process environment.
func LoadEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// LoadEnvFrom parses overrides from the given variables instead of the process environment.
func LoadEnvFrom(vars map[string]string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: vars}); err != nil {
		return EnvConfig{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}

// Apply merges the file config with environment overrides; environment wins.
func (e EnvConfig) Apply(cfg FileConfig) FileConfig {
	if e.LessonsDir != nil {
		cfg.Practice.LessonsDir = e.LessonsDir
	}
	if e.FlashMs != nil {
		cfg.Practice.FlashMs = e.FlashMs
	}
	if e.Mode != nil {
		cfg.Practice.Mode = e.Mode
	}
	return cfg
}
