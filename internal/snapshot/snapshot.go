// Package snapshot is the local durable session snapshot: a sqlite-backed
// key→JSON store holding the current profile, the local note catalog (used
// only when no remote store is configured), and the ad configuration. Each
// value is read once at startup and written on every change; every record
// carries a schema version tag and unversioned blobs are rejected.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"github.com/notenexus/notenexus/internal/common"
	"github.com/notenexus/notenexus/internal/models"
	"github.com/notenexus/notenexus/internal/snapshot/migrations"

	_ "modernc.org/sqlite"
)

// Fixed keys for the three session values.
const (
	keyProfile  = "profile"
	keyCatalog  = "catalog"
	keyAdConfig = "adconfig"
)

// Store is the durable local snapshot.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the snapshot database at dsn and brings
// its schema up to date.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := runMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate snapshot db: %w", err)
	}
	return &Store{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Clear wipes all snapshot records (used on logout).
func (s *Store) Clear(ctx context.Context) error {
	return newRecordRepo(s.db).Clear(ctx)
}

func (s *Store) save(ctx context.Context, key string, kind models.RecordKind, v any) error {
	raw, err := models.WrapRecord(kind, v)
	if err != nil {
		return err
	}
	return newRecordRepo(s.db).Set(ctx, key, raw)
}

func (s *Store) load(ctx context.Context, key string, kind models.RecordKind, v any) error {
	raw, err := newRecordRepo(s.db).Get(ctx, key)
	if err != nil {
		return err
	}
	if raw == nil {
		return common.ErrNotFound
	}
	return models.UnwrapRecord(raw, kind, v)
}

// SaveProfile persists the session profile.
func (s *Store) SaveProfile(ctx context.Context, p models.Profile) error {
	return s.save(ctx, keyProfile, models.KindProfile, p)
}

// LoadProfile returns the stored session profile, or common.ErrNotFound.
func (s *Store) LoadProfile(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	if err := s.load(ctx, keyProfile, models.KindProfile, &p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

// DeleteProfile removes the stored session profile (logout).
func (s *Store) DeleteProfile(ctx context.Context) error {
	return newRecordRepo(s.db).Delete(ctx, keyProfile)
}

// SaveCatalog persists the local note catalog.
func (s *Store) SaveCatalog(ctx context.Context, notes []models.Note) error {
	return s.save(ctx, keyCatalog, models.KindCatalog, notes)
}

// LoadCatalog returns the stored catalog, or common.ErrNotFound.
func (s *Store) LoadCatalog(ctx context.Context) ([]models.Note, error) {
	var notes []models.Note
	if err := s.load(ctx, keyCatalog, models.KindCatalog, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// SaveAdConfig persists the monetization configuration.
func (s *Store) SaveAdConfig(ctx context.Context, cfg models.AdConfig) error {
	return s.save(ctx, keyAdConfig, models.KindAdConfig, cfg)
}

// LoadAdConfig returns the stored ad configuration, or common.ErrNotFound.
func (s *Store) LoadAdConfig(ctx context.Context) (models.AdConfig, error) {
	var cfg models.AdConfig
	if err := s.load(ctx, keyAdConfig, models.KindAdConfig, &cfg); err != nil {
		return models.AdConfig{}, err
	}
	return cfg, nil
}
