package snapshot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/notenexus/notenexus/internal/dbx"
)

// recordRepo is the raw key→blob repository under the snapshot store.
type recordRepo struct {
	db dbx.DBTX
}

func newRecordRepo(db dbx.DBTX) *recordRepo {
	return &recordRepo{db: db}
}

func (r *recordRepo) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := r.db.QueryRowContext(ctx, `SELECT value FROM records WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get record[%s]: %w", key, err)
	}
	return value, nil
}

func (r *recordRepo) Set(ctx context.Context, key string, value []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO records (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to set record[%s]: %w", key, err)
	}
	return nil
}

func (r *recordRepo) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("failed to delete record[%s]: %w", key, err)
	}
	return nil
}

func (r *recordRepo) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM records`)
	if err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	return nil
}
