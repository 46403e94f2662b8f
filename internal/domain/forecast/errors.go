package forecast

import "errors"

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrVersionConflict  = errors.New("snapshot version conflict")
	ErrNarratorDisabled = errors.New("narrative generation not configured")
)
