package models

import (
	"errors"
)

// ErrFolderNotFound is returned when a folder argument does not exist
var ErrFolderNotFound = errors.New("specified directory does not exist")

// ConfigError is a user-facing configuration problem: a bad folder argument,
// a non-directory move destination, an incomplete size, a file without a
// format extension. Operations fail with it before touching anything.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// IsConfigError reports whether err is or wraps a *ConfigError
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// ValidationError represents an invalid configuration file value
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}
