package contracts

import (
	"errors"
	"fmt"
)

// ConfigError reports an assembly-time failure: an introduction delegate that
// does not satisfy a declared capability, an advisor that matches nothing it
// was required to match, or a malformed descriptor. Configuration errors are
// fatal to proxy construction and are never deferred to call time.
type ConfigError struct {
	// Op names the assembly step that failed, e.g. "introduce" or "build".
	Op string
	// Reason describes the failure.
	Reason string
	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("weave config: %s: %s: %v", e.Op, e.Reason, e.Err)
	}
	return fmt.Sprintf("weave config: %s: %s", e.Op, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError checks if an error is an assembly-time configuration error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// MethodNotFoundError reports a dispatch against a method the receiver does
// not carry, neither declared on its type nor introduced.
type MethodNotFoundError struct {
	// Method is the requested method name.
	Method string
	// Target describes the receiver that lacks it.
	Target string
}

// Error implements the error interface.
func (e *MethodNotFoundError) Error() string {
	return fmt.Sprintf("method %s not found on %s", e.Method, e.Target)
}

// IsMethodNotFound checks if an error is a dispatch against a missing method.
func IsMethodNotFound(err error) bool {
	var me *MethodNotFoundError
	return errors.As(err, &me)
}

// UnexpectedError wraps a failure the call's own contract did not account
// for, currently a panic recovered from advice or from the target method.
// Wrapping it keeps the outcome typed instead of crashing the caller or
// silently dropping the panic value.
type UnexpectedError struct {
	// Method is the invocation during which the panic occurred.
	Method string
	// Value is the recovered panic value.
	Value any
}

// Error implements the error interface.
func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected failure in %s: %v", e.Method, e.Value)
}

// Unwrap exposes a panic value that was itself an error.
func (e *UnexpectedError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// IsUnexpected checks if an error is a wrapped unexpected failure.
func IsUnexpected(err error) bool {
	var ue *UnexpectedError
	return errors.As(err, &ue)
}
