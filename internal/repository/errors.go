package repository

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write would violate a uniqueness constraint
	// or a concurrent writer changed the record first.
	ErrConflict = errors.New("record conflict")
)
