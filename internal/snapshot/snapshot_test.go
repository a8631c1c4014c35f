package snapshot

import (
	"context"
	"testing"

	"github.com/notenexus/notenexus/internal/common"
	"github.com/notenexus/notenexus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), "file:snapshot_tests?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = s.Clear(context.Background())
		_ = s.Close()
	})
	return s
}

func TestProfile_RoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	_, err := s.LoadProfile(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)

	p := models.Profile{
		ID:             "u1",
		Name:           "Alice",
		Email:          "alice@example.com",
		Role:           models.RoleUser,
		Balance:        12.5,
		PurchasedNotes: []string{"3"},
	}
	require.NoError(t, s.SaveProfile(ctx, p))

	got, err := s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// Write on every change: the latest value wins.
	p.Balance = 99
	require.NoError(t, s.SaveProfile(ctx, p))
	got, err = s.LoadProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 99.0, got.Balance)

	require.NoError(t, s.DeleteProfile(ctx))
	_, err = s.LoadProfile(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCatalog_RoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	notes := models.SeedCatalog()
	require.NoError(t, s.SaveCatalog(ctx, notes))

	got, err := s.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(notes))
	assert.Equal(t, notes[0].Title, got[0].Title)
	assert.Equal(t, notes[2].IsFree, got[2].IsFree)
}

func TestAdConfig_RoundTrip(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	cfg := models.AdConfig{Enabled: true, CPM: 10, ImpressionCount: 42}
	require.NoError(t, s.SaveAdConfig(ctx, cfg))

	got, err := s.LoadAdConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoad_RejectsUnversionedRecord(t *testing.T) {
	s := setupStore(t)
	ctx := context.Background()

	// A blob without the envelope version tag must be rejected, not
	// silently interpreted.
	require.NoError(t, newRecordRepo(s.db).Set(ctx, keyProfile, []byte(`{"id":"u1"}`)))

	_, err := s.LoadProfile(ctx)
	assert.ErrorIs(t, err, common.ErrSchemaVersion)
}
