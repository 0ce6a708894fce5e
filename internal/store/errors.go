package store

import "errors"

var (
	// ErrConflict is returned when an insert would violate the active-identifier
	// uniqueness constraint. Recoverable: the detector re-reads the winning
	// record and proceeds down the duplicate path.
	ErrConflict = errors.New("identifier already active")
	// ErrNotFound is returned when a lookup or removal targets a record that
	// does not exist.
	ErrNotFound = errors.New("record not found")
)
