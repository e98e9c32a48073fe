package serialization

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/born-ml/mha/internal/tensor"
)

// ValidateTensorName rejects names that cannot round-trip or that are
// likely to be hostile: empty, oversized, non-UTF-8, or containing NUL.
func ValidateTensorName(name string) error {
	switch {
	case name == "":
		return &ValidationError{Err: ErrInvalidTensorName, Details: "empty name"}
	case len(name) > MaxTensorNameLen:
		return &ValidationError{
			Err:     ErrInvalidTensorName,
			Tensor:  name[:32] + "...",
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	case !utf8.ValidString(name):
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "not valid UTF-8"}
	case strings.Contains(name, "\x00"):
		return &ValidationError{Err: ErrInvalidTensorName, Tensor: name, Details: "contains null byte"}
	}
	return nil
}

// validateTensor checks a decoded tensor record before it is materialized.
func validateTensor(name string, shape tensor.Shape, values int) error {
	if err := ValidateTensorName(name); err != nil {
		return err
	}
	if len(shape) > MaxRank {
		return &ValidationError{
			Err:     ErrMalformed,
			Tensor:  name,
			Details: fmt.Sprintf("rank %d > max %d", len(shape), MaxRank),
		}
	}
	// Reject element counts that overflow int before comparing with values.
	want := 1
	for _, d := range shape {
		if d < 0 || (d > 0 && want > values/d+1) {
			return &ValidationError{
				Err:     ErrMalformed,
				Tensor:  name,
				Details: fmt.Sprintf("shape %v does not describe %d values", shape, values),
			}
		}
		want *= d
	}
	if want != values {
		return &ValidationError{
			Err:     ErrMalformed,
			Tensor:  name,
			Details: fmt.Sprintf("shape %v needs %d values, found %d", shape, want, values),
		}
	}
	return nil
}
