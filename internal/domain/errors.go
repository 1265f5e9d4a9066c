package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownFiscalYear = errors.New("unknown fiscal year")
	ErrUnknownAgeBand    = errors.New("unknown age band")
	ErrUnknownDateBucket = errors.New("unknown capital gains date bucket")
	ErrUnknownTerm       = errors.New("unknown capital gains term")
	ErrUnknownResidency  = errors.New("unknown residency status")
	ErrUnknownRegime     = errors.New("unknown regime")
)

// ConfigError reports an input that names something the rule table does not know.
// It is fatal to the call; callers must not substitute a default.
type ConfigError struct {
	Field string
	Value string
	Err   error
}

// NewConfigError builds a ConfigError for field/value wrapping err.
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{Field: field, Value: value, Err: err}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError reports whether err carries a ConfigError anywhere in its chain.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
