package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrForbidden indicates the caller is neither owner nor collaborator.
	ErrForbidden = errors.New("project access denied")
	// ErrInviteNotFound indicates no pending invitation matches the email.
	ErrInviteNotFound = errors.New("invitation not found")
	// ErrArchived indicates the project is archived and read-only.
	ErrArchived = errors.New("project archived")
)
