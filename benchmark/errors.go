package benchmark

import (
	"errors"
	"fmt"
)

// ConfigurationError reports an invalid command line option or option combination.
// It is produced before any database work starts.
type ConfigurationError struct {
	Option string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Option == "" {
		return fmt.Sprintf("configuration error: %s", e.Reason)
	}

	return fmt.Sprintf("configuration error: --%s %s", e.Option, e.Reason)
}

// NewConfigurationError returns a *ConfigurationError for the given option
func NewConfigurationError(option string, format string, args ...interface{}) error {
	return &ConfigurationError{Option: option, Reason: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err carries a ConfigurationError
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
