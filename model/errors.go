package model

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// A fixed-width field does not have its exact width.
	ErrMalformedField = errors.New("malformed field")
	// An output value is negative or does not fit 128 bits.
	ErrValueOverflow = errors.New("value overflow")
	// A private key is not a valid secret for the curve.
	ErrInvalidKeyMaterial = errors.New("invalid key material")
	// The builder rejected a transaction input.
	ErrInvalidInput = errors.New("invalid input")
	// The builder rejected a transaction output.
	ErrInvalidOutput = errors.New("invalid output")
)

// FieldError names the input or output, and the field of it, the builder rejected.
// It matches ErrInvalidInput or ErrInvalidOutput and unwraps to the underlying cause.
type FieldError struct {
	// ErrInvalidInput or ErrInvalidOutput.
	Kind error
	// Position of the offending entry.
	Index int
	// Name of the offending field.
	Field string
	// ErrMalformedField or ErrValueOverflow, possibly wrapped.
	Err error
}

func InputError(index int, field string, err error) *FieldError {
	return &FieldError{Kind: ErrInvalidInput, Index: index, Field: field, Err: err}
}

func OutputError(index int, field string, err error) *FieldError {
	return &FieldError{Kind: ErrInvalidOutput, Index: index, Field: field, Err: err}
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %d: %s: %s", e.Kind, e.Index, e.Field, e.Err)
}

func (e *FieldError) Is(target error) bool {
	return target == e.Kind
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func malformed(field string, want, got int) error {
	return errors.Wrapf(ErrMalformedField, "%s must be %d bytes, got %d", field, want, got)
}
