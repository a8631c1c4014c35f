// Package common defines shared constants and sentinel errors used across
// the NoteNexus session core. Callers should use errors.Is to match these
// values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Collaborator-unavailable errors. Never fatal to the local session:
	// the local mutation stands and the failure is recorded for diagnostics.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// Snapshot records carry a schema version tag; anything else is rejected.
	ErrSchemaVersion = errors.New("unsupported snapshot schema version")

	// Session token errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
