// Package errs defines the error kinds shared by the row data packages.
//
// Contract violations (a bad column index, a cursor outside the list, a
// property used before it was set) are reported as errors wrapping
// ErrIllegalArgument or ErrIllegalState. Failures of an underlying source
// are wrapped in RowDataError or PoolError so callers can still reach the
// cause with errors.Cause or errors.Is.
package errs

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrIllegalArgument = errors.New("illegal argument")
	ErrIllegalState    = errors.New("illegal state")
)

// Reason narrows down why an argument or a state was rejected.
type Reason int

const (
	ParameterValueNotValid Reason = iota
	RangeNotValid
	LengthNotValid
	PropertyNotSet
	ObjectMustBeOpen
	FieldNotFound
)

var reasonNames = [...]string{
	ParameterValueNotValid: "parameter value not valid",
	RangeNotValid:          "range not valid",
	LengthNotValid:         "length not valid",
	PropertyNotSet:         "property not set",
	ObjectMustBeOpen:       "object must be open",
	FieldNotFound:          "field not found",
}

func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return fmt.Sprintf("reason(%d)", int(r))
	}
	return reasonNames[r]
}

// ContractError reports a rejected argument or an operation invoked in the
// wrong state. Kind is ErrIllegalArgument or ErrIllegalState.
type ContractError struct {
	Kind   error
	Name   string
	Reason Reason
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Name, e.Reason)
}

// Is makes errors.Is(err, ErrIllegalArgument) work for wrapped contract errors.
func (e *ContractError) Is(target error) bool {
	return target == e.Kind
}

func IllegalArgument(name string, reason Reason) error {
	return &ContractError{Kind: ErrIllegalArgument, Name: name, Reason: reason}
}

func IllegalState(name string, reason Reason) error {
	return &ContractError{Kind: ErrIllegalState, Name: name, Reason: reason}
}

// IsIllegalArgument reports whether err carries ErrIllegalArgument.
func IsIllegalArgument(err error) bool {
	return errors.Is(err, ErrIllegalArgument)
}

// IsIllegalState reports whether err carries ErrIllegalState.
func IsIllegalState(err error) bool {
	return errors.Is(err, ErrIllegalState)
}

// RowDataError wraps a failure of the source a RowData was loaded from.
type RowDataError struct {
	Source string
	cause  error
}

func NewRowDataError(source string, cause error) error {
	if cause == nil {
		return nil
	}
	return &RowDataError{Source: source, cause: errors.WithStack(cause)}
}

func (e *RowDataError) Error() string {
	return fmt.Sprintf("row data %s: %v", e.Source, e.cause)
}

func (e *RowDataError) Cause() error  { return errors.Cause(e.cause) }
func (e *RowDataError) Unwrap() error { return e.cause }

// PoolError wraps a failure to obtain or configure a connection to a source.
type PoolError struct {
	Driver string
	cause  error
}

func NewPoolError(driver string, cause error) error {
	if cause == nil {
		return nil
	}
	return &PoolError{Driver: driver, cause: errors.WithStack(cause)}
}

func (e *PoolError) Error() string {
	return fmt.Sprintf("connection pool %s: %v", e.Driver, e.cause)
}

func (e *PoolError) Cause() error  { return errors.Cause(e.cause) }
func (e *PoolError) Unwrap() error { return e.cause }
