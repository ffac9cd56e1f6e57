package errors

import "errors"

// Reason codes returned by the availability probe and the commit. The UI
// translates these into user-facing text.
const (
	ReasonMissingSelection = "missing selection"
	ReasonInvalidInterval  = "end before start"
	ReasonTimeConflict     = "time conflict"
)

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrLockHeld = errors.New("slot lock is held by another request")
)
