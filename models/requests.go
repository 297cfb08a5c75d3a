package models

import "time"

// Credentials are the login inputs sent to the remote auth endpoint.
type Credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Session is the authenticated client session returned by the remote API and
// persisted locally so the client survives restarts without re-login.
type Session struct {
	Login     string    `json:"login"`
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"`
}

// MutationResult is the server's answer to a dispatched mutation. ID is set
// for creation operations and carries the server-assigned entity ID.
type MutationResult struct {
	ID string `json:"id"`
}
