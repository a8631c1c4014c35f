package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/notenexus/notenexus/internal/common"
	"github.com/notenexus/notenexus/internal/dbx"
	"github.com/notenexus/notenexus/internal/models"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Postgres implements RecordStore over the remote backend. Single-statement
// operations run on the pool directly; RemoveNote runs its cascade inside a
// transaction.
type Postgres struct {
	db   dbx.DBTX
	pool *sql.DB
}

// NewPostgres returns a Postgres adapter bound to the given pool.
func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db, pool: db}
}

// OpenPostgres opens a pgx-backed connection pool for the given DSN.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open record store: %w", err)
	}
	return db, nil
}

// unavailable maps any backend failure onto the single adapter error so
// callers match with errors.Is(err, common.ErrStoreUnavailable).
func unavailable(err error) error {
	return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
}

func (r *Postgres) ListNotes(ctx context.Context) ([]models.Note, error) {
	query := `
		SELECT id, title, description, body, document_ref, author, price,
		       category, rating, rating_count, tags, created_at, is_free, thumbnail_ref
		FROM notes
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var result []models.Note
	for rows.Next() {
		var n models.Note
		var tags []byte
		if err := rows.Scan(&n.ID, &n.Title, &n.Description, &n.Body, &n.DocumentRef,
			&n.Author, &n.Price, &n.Category, &n.Rating, &n.RatingCount,
			&tags, &n.CreatedAt, &n.IsFree, &n.ThumbnailRef); err != nil {
			return nil, unavailable(err)
		}
		if len(tags) > 0 {
			if err := json.Unmarshal(tags, &n.Tags); err != nil {
				return nil, unavailable(err)
			}
		}
		result = append(result, n)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return result, nil
}

func (r *Postgres) InsertNote(ctx context.Context, n models.Note) error {
	tags, err := json.Marshal(n.Tags)
	if err != nil {
		return unavailable(err)
	}
	query := `
		INSERT INTO notes (id, title, description, body, document_ref, author, price,
		                   category, rating, rating_count, tags, created_at, is_free, thumbnail_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`
	if _, err := r.db.ExecContext(ctx, query,
		n.ID, n.Title, n.Description, n.Body, n.DocumentRef, n.Author, n.Price,
		n.Category, n.Rating, n.RatingCount, tags, n.CreatedAt, n.IsFree, n.ThumbnailRef); err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *Postgres) PatchNote(ctx context.Context, id string, patch NotePatch) error {
	var sets []string
	var args []any

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Rating != nil {
		add("rating", *patch.Rating)
	}
	if patch.RatingCount != nil {
		add("rating_count", *patch.RatingCount)
	}
	if patch.DocumentRef != nil {
		add("document_ref", *patch.DocumentRef)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE notes SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return unavailable(err)
	}
	return nil
}

// RemoveNote deletes the note row and strips its id from every profile's
// purchased and uploaded lists, in one transaction. A dangling id in a
// profile list would read as a phantom entitlement.
func (r *Postgres) RemoveNote(ctx context.Context, id string) error {
	err := dbx.WithTx(ctx, r.pool, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = $1`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE profiles SET purchased_notes = purchased_notes - $1::text, uploaded_notes = uploaded_notes - $1::text`,
			id)
		return err
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *Postgres) FindProfileByEmail(ctx context.Context, email string) (models.Profile, error) {
	query := `
		SELECT id, name, email, role, balance, ad_revenue, purchased_notes, uploaded_notes, password_hash
		FROM profiles
		WHERE email = $1
	`
	var p models.Profile
	var purchased, uploaded []byte
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&p.ID, &p.Name, &p.Email, &p.Role, &p.Balance, &p.AdRevenue,
		&purchased, &uploaded, &p.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Profile{}, common.ErrNotFound
		}
		return models.Profile{}, unavailable(err)
	}
	if len(purchased) > 0 {
		if err := json.Unmarshal(purchased, &p.PurchasedNotes); err != nil {
			return models.Profile{}, unavailable(err)
		}
	}
	if len(uploaded) > 0 {
		if err := json.Unmarshal(uploaded, &p.UploadedNotes); err != nil {
			return models.Profile{}, unavailable(err)
		}
	}
	return p, nil
}

func (r *Postgres) InsertProfile(ctx context.Context, p models.Profile) error {
	purchased, err := json.Marshal(p.PurchasedNotes)
	if err != nil {
		return unavailable(err)
	}
	uploaded, err := json.Marshal(p.UploadedNotes)
	if err != nil {
		return unavailable(err)
	}
	query := `
		INSERT INTO profiles (id, name, email, role, balance, ad_revenue, purchased_notes, uploaded_notes, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	if _, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Email, p.Role, p.Balance, p.AdRevenue, purchased, uploaded, p.PasswordHash); err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *Postgres) PatchProfile(ctx context.Context, id string, patch ProfilePatch) error {
	var sets []string
	var args []any

	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.Balance != nil {
		add("balance", *patch.Balance)
	}
	if patch.AdRevenue != nil {
		add("ad_revenue", *patch.AdRevenue)
	}
	if patch.PurchasedNotes != nil {
		b, err := json.Marshal(patch.PurchasedNotes)
		if err != nil {
			return unavailable(err)
		}
		add("purchased_notes", b)
	}
	if patch.UploadedNotes != nil {
		b, err := json.Marshal(patch.UploadedNotes)
		if err != nil {
			return unavailable(err)
		}
		add("uploaded_notes", b)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE profiles SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return unavailable(err)
	}
	return nil
}
