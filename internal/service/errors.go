package service

import "errors"

// The engine's error taxonomy. Repositories and services wrap these so
// callers can branch with errors.Is; the API layer maps them onto HTTP
// status codes.
var (
	// ErrNotFound marks a missing user, recipe, meal plan, or plan entry.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a duplicate where the operation is not
	// idempotent, like planning the same recipe twice on one day.
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput marks malformed caller input, like a bad plan date
	// or an out-of-range rating.
	ErrInvalidInput = errors.New("invalid input")
	// ErrVersionConflict reports that a concurrent writer updated the
	// meal plan document first; the caller retries its read-modify-write.
	ErrVersionConflict = errors.New("version conflict")
	// ErrInvalidToken marks an unparseable, expired, or forged token.
	ErrInvalidToken = errors.New("invalid token")
)
