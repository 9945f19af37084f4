package entity

import "errors"

// Domain errors
var (
	// Flow file errors
	ErrFlowFileMissing   = errors.New("flow file is missing")
	ErrFlowFileMalformed = errors.New("flow file is malformed")
	ErrFlowMissingID     = errors.New("flow entry is missing an id")

	// Retrieval errors
	ErrDimensionMismatch = errors.New("embedding dimension does not match stored vectors")
	ErrIndexUnavailable  = errors.New("vector index is unavailable")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
