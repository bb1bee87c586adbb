package session

import "errors"

var (
	// ErrNotFound indicates the session id is unknown or its TTL elapsed.
	// The two cases are indistinguishable by design.
	ErrNotFound = errors.New("session not found or expired")

	// ErrInvalidInput indicates a malformed session code or empty payload.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyCatalog indicates an upload that parsed to zero items.
	// Such uploads are rejected before any session is created or replaced.
	ErrEmptyCatalog = errors.New("catalog contains no items")

	// ErrCodeSpaceExhausted indicates repeated session-code collisions against
	// the authoritative store. It fails only the current creation attempt.
	ErrCodeSpaceExhausted = errors.New("session code space exhausted")
)
