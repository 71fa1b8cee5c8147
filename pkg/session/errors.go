package session

import "errors"

// Session errors.
var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("session: not found")

	// ErrStore wraps every failure of the underlying storage.
	ErrStore = errors.New("session: store failure")

	// ErrCorruptData is returned when stored session data cannot be decoded.
	ErrCorruptData = errors.New("session: corrupt session data")

	// ErrTypeMismatch is returned by Value when the stored value has another type.
	ErrTypeMismatch = errors.New("session: type mismatch")

	// ErrInvalidSchedule is returned when the janitor schedule cannot be parsed.
	ErrInvalidSchedule = errors.New("session: invalid purge schedule")
)
