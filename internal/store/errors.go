package store

import "errors"

var (
	// ErrMutationNotFound is returned when a queue operation targets an ID
	// that is not (or no longer) present in the mutation queue.
	ErrMutationNotFound = errors.New("queued mutation not found")

	// ErrLocalSessionNotFound is returned when no persisted session exists,
	// meaning the user has to log in.
	ErrLocalSessionNotFound = errors.New("local session not found")
)
