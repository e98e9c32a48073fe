package nn

import "errors"

// Layer construction errors. Match with errors.Is.
var (
	// ErrNilGenerator is returned when a constructor that draws random
	// weights receives no generator.
	ErrNilGenerator = errors.New("nil generator")

	// ErrInvalidInitScale is returned for a negative, NaN or infinite
	// MHAConfig.InitScale.
	ErrInvalidInitScale = errors.New("invalid init scale")
)
