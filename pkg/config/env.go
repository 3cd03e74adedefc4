package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix is the prefix of environment overrides, e.g. IMGSWEEP_RESIZE_QUALITY
const EnvPrefix = "IMGSWEEP"

// ApplyEnv overlays IMGSWEEP_* environment variables onto cfg.
// Variables that are not set leave the current value untouched.
func ApplyEnv(cfg *Config) error {
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration from environment: %w", err)
	}

	return nil
}

// EnvUsage writes the list of recognised environment variables
func EnvUsage() error {
	return envconfig.Usage(EnvPrefix, Default())
}
