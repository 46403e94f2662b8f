package changeorder

import "errors"

var (
	// ErrChangeOrderNotFound indicates the change order doesn't exist.
	ErrChangeOrderNotFound = errors.New("change order not found")
	// ErrInvalidTransition indicates the change order already has a final decision.
	ErrInvalidTransition = errors.New("invalid change order transition")
	// ErrInvalidInput indicates invalid change order input.
	ErrInvalidInput = errors.New("invalid change order input")
)
