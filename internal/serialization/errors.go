package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidMagic      = errors.New("invalid magic bytes")
	ErrChecksumMismatch  = errors.New("checksum mismatch: file may be corrupted")
	ErrMalformed         = errors.New("malformed checkpoint")
	ErrTooManyTensors    = errors.New("too many tensors in file")
	ErrInvalidTensorName = errors.New("invalid tensor name")
)

// ValidationError describes which tensor failed validation and why.
// It unwraps to one of the sentinel errors above.
type ValidationError struct {
	Err     error  // Sentinel error (ErrMalformed, ErrInvalidTensorName, ...)
	Tensor  string // Tensor name involved, if known
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Tensor != "" {
		return fmt.Sprintf("%v: tensor %q: %s", e.Err, e.Tensor, e.Details)
	}
	return fmt.Sprintf("%v: %s", e.Err, e.Details)
}

// Unwrap returns the sentinel error for errors.Is.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
