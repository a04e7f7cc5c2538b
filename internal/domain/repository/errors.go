package repository

import "errors"

var (
	// ErrNotFound is returned when a row addressed by id does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique constraint rejects a write.
	ErrConflict = errors.New("conflict")
	// ErrInvalidReference is returned when a foreign key points at nothing.
	ErrInvalidReference = errors.New("invalid reference")
)
