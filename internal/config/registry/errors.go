package registry

import (
	"errors"
	"fmt"
	"strings"
)

// Errors returned by registry operations.
var (
	// ErrAlreadyRegistered indicates a duplicate property path. Schema
	// registration happens once at startup, so hitting this is a build bug.
	ErrAlreadyRegistered = errors.New("property already registered")

	// ErrFrozen indicates registration was attempted after Freeze.
	ErrFrozen = errors.New("registry is frozen")

	// ErrReservedSegment indicates a path uses a segment reserved for the
	// script-side proxy methods.
	ErrReservedSegment = errors.New("reserved path segment")
)

// UnknownPropertyError is returned when a path is not registered.
type UnknownPropertyError struct {
	// Path is the full dotted path that was looked up.
	Path string
}

func (e *UnknownPropertyError) Error() string {
	return fmt.Sprintf("unknown property %q", e.Path)
}

// AssignToBranchError is returned when a write targets a branch path.
// Branches group child properties and are never assignable themselves.
type AssignToBranchError struct {
	// Path is the branch path that was assigned to.
	Path string
}

func (e *AssignToBranchError) Error() string {
	return fmt.Sprintf("cannot assign to %q: it is a section, not a property", e.Path)
}

// TypeMismatchError is returned when a value's shape does not match the
// property's kind.
type TypeMismatchError struct {
	// Path is the property path.
	Path string
	// Expected is the expected kind name (e.g., "integer").
	Expected string
	// Value is the rejected value.
	Value any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: expected %s, got %T (%v)", e.Path, e.Expected, e.Value, e.Value)
}

// RangeError is returned when a numeric value falls outside the declared
// bounds.
type RangeError struct {
	// Path is the property path.
	Path string
	// Value is the rejected value.
	Value float64
	// Min and Max are the declared inclusive bounds.
	Min float64
	Max float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: value %v out of range %v..%v", e.Path, e.Value, e.Min, e.Max)
}

// EnumError is returned when a string is not among the declared variants.
type EnumError struct {
	// Path is the property path.
	Path string
	// Name is the enum type name.
	Name string
	// Value is the rejected string.
	Value string
	// Variants lists every accepted value verbatim.
	Variants []string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid %s (expected one of: %s)",
		e.Path, e.Value, e.Name, strings.Join(e.Variants, ", "))
}

// ColorError is returned when a string is not a parseable hex color.
type ColorError struct {
	// Path is the property path.
	Path string
	// Value is the rejected string.
	Value string
}

func (e *ColorError) Error() string {
	return fmt.Sprintf("%s: %q is not a valid color (expected #rrggbb or #rrggbbaa)", e.Path, e.Value)
}

// ArrayElementError is returned when a list element fails validation. The
// whole assignment is rejected; the previous list value is retained.
type ArrayElementError struct {
	// Path is the property path.
	Path string
	// Index is the 1-based position of the offending element.
	Index int
	// Err describes why the element was rejected.
	Err error
}

func (e *ArrayElementError) Error() string {
	return fmt.Sprintf("%s: element %d: %v", e.Path, e.Index, e.Err)
}

// Unwrap returns the underlying element error.
func (e *ArrayElementError) Unwrap() error {
	return e.Err
}

// ObjectError is returned when an object value has the wrong field shape.
type ObjectError struct {
	// Path is the property path.
	Path string
	// Message describes the shape violation.
	Message string
	// Value is the rejected object.
	Value any
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("%s: %s (value: %v)", e.Path, e.Message, e.Value)
}
