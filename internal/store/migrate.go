package store

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"

	"github.com/notenexus/notenexus/internal/store/migrations"
)

// RunMigrations brings the remote record store schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
