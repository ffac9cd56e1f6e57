package errors

import "errors"

var (
	ErrNotFound = errors.New("leave request not found")

	ErrInvalidID = errors.New("invalid leave request ID format")

	// ErrAlreadyDecided signals a status update against a request that has
	// left the pending state.
	ErrAlreadyDecided = errors.New("leave request has already been decided")
)
