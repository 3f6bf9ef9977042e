package relic

import (
	"errors"
	"fmt"
)

// Sentinel errors for repository lifecycle and lookup outcomes.
var (
	// ErrNotFound is returned when a select-by-key matches no row.
	ErrNotFound = errors.New("relic: entity not found")

	// ErrClosed is returned when an operation is attempted against a
	// repository that holds no open connection.
	ErrClosed = errors.New("relic: repository is not open")

	// ErrAlreadyOpen is returned when Open is called on a repository that
	// already holds a connection. The existing connection is untouched.
	ErrAlreadyOpen = errors.New("relic: repository is already open")

	// ErrNoPath is returned when Open is called without a database path
	// and none was configured.
	ErrNoPath = errors.New("relic: no database path configured")
)

// UnknownAttributeError is returned when a select criterion references an
// attribute name that is absent from the entity's attribute map.
type UnknownAttributeError struct {
	Table string
	Attr  string
}

// Error returns the error string.
func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("relic: table %q has no attribute %q", e.Table, e.Attr)
}

// IsUnknownAttribute reports whether the error is an UnknownAttributeError.
func IsUnknownAttribute(err error) bool {
	var e *UnknownAttributeError
	return errors.As(err, &e)
}

// InvalidOperatorError is returned when a select criterion uses a
// comparison operator outside the supported set.
type InvalidOperatorError struct {
	Op string
}

// Error returns the error string.
func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("relic: invalid comparison operator %q", e.Op)
}

// IsInvalidOperator reports whether the error is an InvalidOperatorError.
func IsInvalidOperator(err error) bool {
	var e *InvalidOperatorError
	return errors.As(err, &e)
}

// ConversionError is returned when a raw column value cannot be coerced to
// an attribute's declared type.
type ConversionError struct {
	Attr  string // attribute being loaded, if known
	Value any
	Type  Type
	cause error
}

// Error returns the error string.
func (e *ConversionError) Error() string {
	if e.Attr != "" {
		return fmt.Sprintf("relic: cannot convert %v (%T) to %s for attribute %q", e.Value, e.Value, e.Type, e.Attr)
	}
	return fmt.Sprintf("relic: cannot convert %v (%T) to %s", e.Value, e.Value, e.Type)
}

// Unwrap returns the underlying parse error, if any.
func (e *ConversionError) Unwrap() error { return e.cause }

// IsConversion reports whether the error is a ConversionError.
func IsConversion(err error) bool {
	var e *ConversionError
	return errors.As(err, &e)
}

// ExecError is returned when the database rejects or fails to execute a
// built statement. It carries the statement text and wraps the driver
// error.
type ExecError struct {
	Stmt string
	Err  error
}

// Error returns the error string.
func (e *ExecError) Error() string {
	return fmt.Sprintf("relic: executing %q: %v", e.Stmt, e.Err)
}

// Unwrap returns the driver error.
func (e *ExecError) Unwrap() error { return e.Err }

// IsExec reports whether the error is an ExecError.
func IsExec(err error) bool {
	var e *ExecError
	return errors.As(err, &e)
}
