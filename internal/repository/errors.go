package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a guarded write finds the stored row changed,
	// or a uniqueness constraint rejects the write
	ErrConflict = errors.New("conflict: entity was modified concurrently")

	// ErrForeignKeyViolation is returned when a foreign key constraint fails
	ErrForeignKeyViolation = errors.New("foreign key violation")
)
