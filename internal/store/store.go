// Package store provides the record store adapter: uniform CRUD access to
// the remote notes and profiles collections. Every call either completes
// or fails with an error wrapping common.ErrStoreUnavailable; there is no
// partial success for a single call and no adapter-level retry. Retry
// policy belongs to callers; the session layer treats all failures here
// as non-fatal.
package store

import (
	"context"

	"github.com/notenexus/notenexus/internal/common"
	"github.com/notenexus/notenexus/internal/models"
)

// NotePatch names the note fields a PatchNote call may update. Nil fields
// are left untouched.
type NotePatch struct {
	Rating      *float64
	RatingCount *int
	DocumentRef *string
}

// ProfilePatch names the profile fields a PatchProfile call may update.
// Nil fields are left untouched.
type ProfilePatch struct {
	Balance        *float64
	AdRevenue      *float64
	PurchasedNotes []string
	UploadedNotes  []string
}

// RecordStore is the adapter contract. Implementations: Postgres (remote
// backend) and Disabled (no backend configured; every operation succeeds
// trivially so upstream code never branches on configuration).
type RecordStore interface {
	ListNotes(ctx context.Context) ([]models.Note, error)
	InsertNote(ctx context.Context, n models.Note) error
	PatchNote(ctx context.Context, id string, patch NotePatch) error
	RemoveNote(ctx context.Context, id string) error

	FindProfileByEmail(ctx context.Context, email string) (models.Profile, error)
	InsertProfile(ctx context.Context, p models.Profile) error
	PatchProfile(ctx context.Context, id string, patch ProfilePatch) error
}

// Disabled is the adapter used when no remote backend is configured.
type Disabled struct{}

func NewDisabled() *Disabled { return &Disabled{} }

func (*Disabled) ListNotes(context.Context) ([]models.Note, error) { return nil, nil }

func (*Disabled) InsertNote(context.Context, models.Note) error { return nil }

func (*Disabled) PatchNote(context.Context, string, NotePatch) error { return nil }

func (*Disabled) RemoveNote(context.Context, string) error { return nil }

func (*Disabled) FindProfileByEmail(context.Context, string) (models.Profile, error) {
	return models.Profile{}, common.ErrNotFound
}

func (*Disabled) InsertProfile(context.Context, models.Profile) error { return nil }

func (*Disabled) PatchProfile(context.Context, string, ProfilePatch) error { return nil }
