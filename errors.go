package indexarray

import (
	"errors"
	"fmt"
)

// ErrInvalidEncoding is returned when UnmarshalBinary is given bytes that
// were not produced by MarshalBinary.
var ErrInvalidEncoding = errors.New("indexarray: invalid encoding")

// ErrInvalidRecord indicates an untyped record that could not be converted.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrInvalidRecord struct {
	Position int
	cause    error
}

func (e *ErrInvalidRecord) Error() string {
	return fmt.Sprintf("invalid record at position %d: %v", e.Position, e.cause)
}

func (e *ErrInvalidRecord) Unwrap() error { return e.cause }
