package record

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
)

var (
	ErrTypeMismatch         = errors.New("type mismatch")
	ErrRequiredFieldMissing = errors.New("required field missing")
	ErrValidationFailed     = errors.New("validation failed")
	ErrUnsupportedShape     = errors.New("unsupported shape")
)

// TypeMismatchError reports a value that cannot be converted to the
// declared type. Path is relative to the value being converted.
type TypeMismatchError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeMismatchError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s at %s: expected %s, got %s", ErrTypeMismatch, e.Path, e.Expected, e.Actual)
	}
	return fmt.Sprintf("%s: expected %s, got %s", ErrTypeMismatch, e.Expected, e.Actual)
}

func (e *TypeMismatchError) Unwrap() error {
	return ErrTypeMismatch
}

type RequiredFieldError struct {
	Schema string
	Field  string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("%s: %s.%s", ErrRequiredFieldMissing, e.Schema, e.Field)
}

func (e *RequiredFieldError) Unwrap() error {
	return ErrRequiredFieldMissing
}

// ShapeError reports a declared type the converter cannot handle, such as a
// collection of any.
type ShapeError struct {
	Path   string
	Type   reflect.Type
	Reason string
}

func (e *ShapeError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", ErrUnsupportedShape, e.Type, e.Reason)
	if e.Path != "" {
		return msg + " at " + e.Path
	}
	return msg
}

func (e *ShapeError) Unwrap() error {
	return ErrUnsupportedShape
}

type Mismatch struct {
	Expected string
	Actual   string
}

// ValidationError aggregates every problem found by Validate.
type ValidationError struct {
	Schema string
	// Missing lists the paths of required fields holding no value, in
	// schema order.
	Missing []string
	// Mismatched maps paths to the type found where another was declared.
	Mismatched map[string]Mismatch
	// Check holds the errors returned by schema check hooks.
	Check []error
}

func (e *ValidationError) Error() string {
	buf := &strings.Builder{}
	fmt.Fprintf(buf, "%s: %s", e.Schema, ErrValidationFailed)
	if len(e.Missing) != 0 {
		fmt.Fprintf(buf, "\nThe following required fields were missing: %s", strings.Join(e.Missing, ", "))
	}
	if len(e.Mismatched) != 0 {
		buf.WriteString("\nThe following fields had the wrong type:")
		for _, p := range slices.Sorted(maps.Keys(e.Mismatched)) {
			m := e.Mismatched[p]
			fmt.Fprintf(buf, "\n\t%s (expected %s, got %s)", p, m.Expected, m.Actual)
		}
	}
	for _, err := range e.Check {
		fmt.Fprintf(buf, "\n%v", err)
	}
	return buf.String()
}

func (e *ValidationError) Unwrap() []error {
	return append([]error{ErrValidationFailed}, e.Check...)
}

func (e *ValidationError) empty() bool {
	return len(e.Missing) == 0 && len(e.Mismatched) == 0 && len(e.Check) == 0
}
