package tensor

import "errors"

// Common errors.
//
// Operations wrap these with the conflicting shapes or indices, so callers
// should match with errors.Is rather than comparing messages.
var (
	ErrDimensionMismatch = errors.New("dimension mismatch")
	ErrIndexOutOfBounds  = errors.New("index out of bounds")
	ErrRank              = errors.New("wrong rank")
	ErrSizeMismatch      = errors.New("element count mismatch")
	ErrIndivisible       = errors.New("dimension not divisible by head count")
	ErrEmptyInput        = errors.New("empty input")
	ErrShapeMismatch     = errors.New("shape mismatch")
	ErrInvalidShape      = errors.New("invalid shape")
	ErrInvalidAxes       = errors.New("invalid axes")
)
