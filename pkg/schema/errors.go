package schema

import (
	"errors"
	"fmt"

	"github.com/aretw0/rail/pkg/domain"
)

// ErrRegistryFrozen is returned when a type is registered after Freeze.
var ErrRegistryFrozen = errors.New("schema: registry is frozen")

// SchemaError reports a malformed schema document, or a runtime value that
// cannot be dispatched through the tree (an unknown choice selector).
type SchemaError struct {
	Tag    string // Element tag
	Name   string // Element name, if any
	Line   int    // Source line, 0 when unknown
	Reason string
	Err    error // Underlying cause, if any
}

func (e *SchemaError) Error() string {
	loc := "<" + e.Tag + ">"
	if e.Name != "" {
		loc = fmt.Sprintf("<%s name=%q>", e.Tag, e.Name)
	}
	if e.Line > 0 {
		return fmt.Sprintf("schema: line %d: %s: %s", e.Line, loc, e.Reason)
	}
	return fmt.Sprintf("schema: %s: %s", loc, e.Reason)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// UnknownTypeError is returned when an element tag is not registered.
type UnknownTypeError struct {
	Tag  string
	Line int
}

func (e *UnknownTypeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("schema: line %d: unknown type %q", e.Line, e.Tag)
	}
	return fmt.Sprintf("schema: unknown type %q", e.Tag)
}

// UnknownModelError is returned when a model-bound node names a model the
// registry cannot resolve.
type UnknownModelError struct {
	Model string
	Err   error
}

func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("schema: invalid model %q: %v", e.Model, e.Err)
}

func (e *UnknownModelError) Unwrap() error { return e.Err }

// TypeCoercionError reports a raw value that cannot be converted to the
// node's data type.
type TypeCoercionError struct {
	Tag   string
	Value any
	Err   error
}

func (e *TypeCoercionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot coerce %#v to %s: %v", e.Value, e.Tag, e.Err)
	}
	return fmt.Sprintf("cannot coerce %#v (%T) to %s", e.Value, e.Value, e.Tag)
}

func (e *TypeCoercionError) Unwrap() error { return e.Err }

// BindingError is returned in strict mode when a directive names a
// validator that does not apply to the element, or when the catalog cannot
// construct a validator from its arguments.
type BindingError struct {
	Tag       string
	Validator string
	Err       error
}

func (e *BindingError) Error() string {
	return fmt.Sprintf("schema: validator %s is not valid for element %s: %v", e.Validator, e.Tag, e.Err)
}

func (e *BindingError) Unwrap() error { return e.Err }

// errNotApplicable is the cause of a BindingError raised for a validator the
// catalog does not list for the tag.
var errNotApplicable = errors.New("not registered for this type")

// ValidatorFailure is returned by validators whose on-fail policy surfaces
// the failure to the caller instead of correcting the value.
type ValidatorFailure struct {
	Validator string
	Value     any
	Reason    string
	Reask     bool // The caller should ask the generator again
	FixValue  any  // Suggested correction, if the validator has one
}

func (e *ValidatorFailure) Error() string {
	return fmt.Sprintf("validator %s failed on %#v: %s", e.Validator, e.Value, e.Reason)
}

// PathError locates an error raised while validating a nested value.
type PathError struct {
	Path domain.Path
	Err  error
}

func (e *PathError) Error() string {
	if len(e.Path) == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// AggregateError represents multiple schema failures found in one document.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d schema errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

// Unwrap exposes the aggregated errors to errors.Is and errors.As.
func (e *AggregateError) Unwrap() []error { return e.Errors }

// Errors returns all errors if err is an AggregateError, otherwise a slice
// holding err itself. A nil err yields nil.
func Errors(err error) []error {
	if err == nil {
		return nil
	}
	var aggr *AggregateError
	if errors.As(err, &aggr) {
		return aggr.Errors
	}
	return []error{err}
}
