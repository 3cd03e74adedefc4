package config

import (
	"github.com/sdejongh/imgsweep/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Scan    ScanConfig    `yaml:"scan" envconfig:"scan"`
	Remove  RemoveConfig  `yaml:"remove" envconfig:"remove"`
	Resize  ResizeConfig  `yaml:"resize" envconfig:"resize"`
	Output  OutputConfig  `yaml:"output" envconfig:"output"`
	Logging LoggingConfig `yaml:"logging" envconfig:"logging"`
}

// ScanConfig holds catalog settings
type ScanConfig struct {
	Exclude []string `yaml:"exclude" split_words:"true"`
}

// RemoveConfig holds settings for disposing of corrupt images
type RemoveConfig struct {
	OnCollision     models.CollisionPolicy `yaml:"on_collision" split_words:"true"`
	ContinueOnError bool                   `yaml:"continue_on_error" split_words:"true"`
}

// ResizeConfig holds settings for the compress tool
type ResizeConfig struct {
	Quality         int    `yaml:"quality" split_words:"true"`          // JPEG quality 1-100
	PNGCompression  string `yaml:"png_compression" split_words:"true"`  // "default", "speed", "best", "none"
	Interpolation   string `yaml:"interpolation" split_words:"true"`    // resampling kernel
	ChainDimensions bool   `yaml:"chain_dimensions" split_words:"true"` // legacy size chaining
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format" split_words:"true"`   // "human" or "json"
	Progress bool   `yaml:"progress" split_words:"true"` // Show progress bars
	Quiet    bool   `yaml:"quiet" split_words:"true"`    // Suppress non-error output
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Format string `yaml:"format" split_words:"true"` // "json" or "text"
	Level  string `yaml:"level" split_words:"true"`  // "debug", "info", "warn", "error"
	File   string `yaml:"file" split_words:"true"`   // Log file path (empty = disabled)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			Exclude: []string{},
		},
		Remove: RemoveConfig{
			OnCollision:     models.CollisionFail,
			ContinueOnError: false,
		},
		Resize: ResizeConfig{
			Quality:         75,
			PNGCompression:  "default",
			Interpolation:   "bilinear",
			ChainDimensions: false,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: true,
			Quiet:    false,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
			File:   "",
		},
	}
}

// Interpolations lists the accepted resampling kernel names
var Interpolations = []string{"nearest", "bilinear", "bicubic", "mitchell", "lanczos2", "lanczos3"}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if _, err := models.ParseCollisionPolicy(string(c.Remove.OnCollision)); err != nil {
		return &models.ValidationError{
			Field:   "remove.on_collision",
			Message: "must be 'fail', 'overwrite', or 'rename'",
		}
	}

	if c.Resize.Quality < 1 || c.Resize.Quality > 100 {
		return &models.ValidationError{
			Field:   "resize.quality",
			Message: "must be between 1 and 100",
		}
	}

	validCompression := map[string]bool{"default": true, "speed": true, "best": true, "none": true}
	if !validCompression[c.Resize.PNGCompression] {
		return &models.ValidationError{
			Field:   "resize.png_compression",
			Message: "must be 'default', 'speed', 'best', or 'none'",
		}
	}

	validInterp := false
	for _, name := range Interpolations {
		if c.Resize.Interpolation == name {
			validInterp = true
			break
		}
	}
	if !validInterp {
		return &models.ValidationError{
			Field:   "resize.interpolation",
			Message: "must be one of nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
