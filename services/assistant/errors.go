package assistant

import (
	"errors"
	"fmt"
)

// ParseError signals a structurally valid booking command whose date or time
// field did not survive strict parsing. The orchestrator treats this as "no
// booking occurred" and asks the user to retry.
type ParseError struct {
	Field string
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("booking command field %s has unparsable value %q", e.Field, e.Value)
}

// ResolutionError signals an employee name that matched no active employee
// while the business requires one.
type ResolutionError struct {
	Name string
}

func (e *ResolutionError) Error() string {
	if e.Name == "" {
		return "booking command named no employee but the business requires one"
	}
	return fmt.Sprintf("employee %q matched no active employee", e.Name)
}

// ExternalServiceError wraps a failure of an external collaborator (dialogue
// engine transport or timeout).
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// ConfigurationError signals missing credentials for the dialogue engine.
// Fatal per request.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// IsExternal reports whether err is an ExternalServiceError.
func IsExternal(err error) bool {
	var ee *ExternalServiceError
	return errors.As(err, &ee)
}

// IsConfiguration reports whether err is a ConfigurationError.
func IsConfiguration(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
