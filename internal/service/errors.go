package service

import "errors"

var (
	// ErrStoreUnavailable wraps storage I/O failures during lookup or insert.
	// The detection attempt is not retried internally; the caller decides.
	ErrStoreUnavailable = errors.New("identifier store unavailable")
	// ErrAlertWriteFailed is returned when a duplicate was identified but the
	// alert row could not be persisted. The detection operation as a whole is
	// failed; it is never reported as Accepted or Skipped instead.
	ErrAlertWriteFailed = errors.New("duplicate alert write failed")
	// ErrEmptyIdentifier is returned by the admin surface when asked to add a
	// blank identifier.
	ErrEmptyIdentifier = errors.New("identifier is empty")
)
