package models

import "errors"

// Domain errors shared across the session and response flows. Handlers map
// these to user-facing messages; everything else is treated as transient.
var (
	// ErrEmptyQuestion is returned when a session is created or edited with a blank question
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrEmptyResponse is returned when a participant submits a blank response
	ErrEmptyResponse = errors.New("response must not be empty")

	// ErrResponseTooLong is returned when a submission exceeds MaxResponseLength characters
	ErrResponseTooLong = errors.New("response exceeds maximum length")

	// ErrEmptyCode is returned when a join is attempted with a blank code
	ErrEmptyCode = errors.New("join code must not be empty")

	// ErrInvalidCode is returned when no session matches an entered join code
	ErrInvalidCode = errors.New("invalid session code")

	// ErrSessionNotFound is returned when a session id resolves to nothing
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionEnded is returned when the target session is no longer accepting responses
	ErrSessionEnded = errors.New("session has ended")

	// ErrNotOwner is returned when a presenter mutates a session they do not own
	ErrNotOwner = errors.New("session is owned by another presenter")
)
