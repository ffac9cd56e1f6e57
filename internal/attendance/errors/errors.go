package errors

import "errors"

var (
	ErrNotFound = errors.New("attendance record not found")

	ErrInvalidID = errors.New("invalid attendance record ID format")

	// ErrAlreadyRecorded signals a second check-in for the same person
	// and date.
	ErrAlreadyRecorded = errors.New("attendance already recorded for this date")
)
