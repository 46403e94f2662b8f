package cost

import "errors"

var (
	// ErrCostNotFound indicates the cost doesn't exist.
	ErrCostNotFound = errors.New("cost not found")
	// ErrInvalidInput indicates invalid cost input.
	ErrInvalidInput = errors.New("invalid cost input")
)
