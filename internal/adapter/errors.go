package adapter

import "errors"

var (
	// ErrServerUnavailable marks connection-level failures: the request never
	// reached the server (refused connection, DNS failure, closed socket).
	// The sync engine treats these as "still offline".
	ErrServerUnavailable = errors.New("server unavailable")

	// ErrServerError marks attempts the server may have seen but did not
	// confirm: 5xx responses and request timeouts. Unlike
	// [ErrServerUnavailable] these count as failed attempts; the idempotency
	// key makes the eventual replay safe.
	ErrServerError = errors.New("server error")

	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("client unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
)
