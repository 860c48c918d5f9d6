package store

import "errors"

// Generic sentinel errors shared by Entity and the typed stores. Callers
// translate these into domain errors at the service layer; individual stores
// wrap them with more specific sentinels where it helps (see user.go, list.go).
var (
	// ErrNotFound is returned when a key does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrAlreadyExists is returned on a primary-key or unique-index conflict.
	ErrAlreadyExists = errors.New("resource already exists")

	// ErrUnavailable is returned when the database cannot serve the request,
	// typically because it is shutting down. Safe to retry with backoff.
	ErrUnavailable = errors.New("store unavailable")
)
