// Package errs defines the error kinds raised while building and enforcing
// type specifications.
//
// Every kind has a sentinel usable with errors.Is and a struct type carrying
// the details, usable with errors.As. None of them are retried or swallowed:
// decoration-time kinds (config, missing spec, resolution) abort the
// decoration, call-time kinds (spec mismatch, type) abort the single call.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfig       = errors.New("invalid decorator configuration")
	ErrMissingSpec  = errors.New("no type specification")
	ErrResolution   = errors.New("type reference cannot be resolved")
	ErrSpecMismatch = errors.New("arguments do not match the specification")
	ErrType         = errors.New("wrong type")
)

// ConfigError indicates the decorator was applied with an invalid argument shape.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("typesafe: invalid configuration: %s", e.Reason)
}

func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

// MissingSpecError indicates neither an explicit mapping nor documentation
// was available for a callable.
type MissingSpecError struct {
	Func string
}

func (e *MissingSpecError) Error() string {
	return fmt.Sprintf("typesafe: %s has no documentation and no explicit specification", e.Func)
}

func (e *MissingSpecError) Is(target error) bool { return target == ErrMissingSpec }

func NewMissingSpecError(fn string) *MissingSpecError {
	return &MissingSpecError{Func: fn}
}

// ResolutionError wraps the failure to turn a declared reference into a
// checkable type.
type ResolutionError struct {
	Param string
	Ref   string
	Err   error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("typesafe: cannot resolve type %q for %s: %v", e.Ref, e.Param, e.Err)
}

func (e *ResolutionError) Is(target error) bool { return target == ErrResolution }

func (e *ResolutionError) Unwrap() error { return e.Err }

func NewResolutionError(param, ref string, err error) *ResolutionError {
	return &ResolutionError{Param: param, Ref: ref, Err: err}
}

// SpecMismatchError reports call-time arguments that disagree with the
// specification: names the call supplied but the spec does not declare,
// names the spec declares but the call never supplied, or a call shape the
// callable cannot accept at all.
type SpecMismatchError struct {
	Func       string
	Unexpected []string
	Missing    []string
	Reason     string
}

func (e *SpecMismatchError) Error() string {
	var parts []string
	if len(e.Unexpected) > 0 {
		parts = append(parts, "unexpected "+strings.Join(e.Unexpected, ", "))
	}
	if len(e.Missing) > 0 {
		parts = append(parts, "missing "+strings.Join(e.Missing, ", "))
	}
	if e.Reason != "" {
		parts = append(parts, e.Reason)
	}
	return fmt.Sprintf("typesafe: call to %s does not match its specification: %s", e.Func, strings.Join(parts, "; "))
}

func (e *SpecMismatchError) Is(target error) bool { return target == ErrSpecMismatch }

// TypeError is a validation failure for one argument or the return value.
type TypeError struct {
	Param    string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("Wrong type for %s: expected: %s, actual: %s.", e.Param, e.Expected, e.Actual)
}

func (e *TypeError) Is(target error) bool { return target == ErrType }

func NewTypeError(param, expected, actual string) *TypeError {
	return &TypeError{Param: param, Expected: expected, Actual: actual}
}
