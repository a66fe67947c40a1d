package schema

import (
	"errors"
	"fmt"
)

// ErrNoSource is returned by Load when no schema source is configured.
var ErrNoSource = errors.New("schema: no source configured")

// ConfigurationError reports a schema that could not be read, parsed or
// compiled. It is a startup concern and never a per-request failure.
type ConfigurationError struct {
	Source string
	Field  string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("schema %s: field %q: %v", e.Source, e.Field, e.Err)
	}
	return fmt.Sprintf("schema %s: %v", e.Source, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// FieldError is one field-level validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"msg"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}
