package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notenexus/notenexus/internal/common"
)

func TestNewNote_FreePriceInvariant(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		wantFree bool
	}{
		{name: "paid note", price: 900, wantFree: false},
		{name: "free note", price: 0, wantFree: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := NewNote("t", "d", "body", "author", tt.price, CategoryScience, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFree, n.IsFree)
			assert.Equal(t, tt.price == 0, n.IsFree)
			assert.NotEmpty(t, n.ID)
		})
	}
}

func TestNewNote_Rejections(t *testing.T) {
	_, err := NewNote("t", "", "", "a", -1, CategoryScience, nil)
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = NewNote("t", "", "", "a", 10, Category("Alchemy"), nil)
	assert.ErrorIs(t, err, ErrUnknownCategory)

	_, err = NewNote("", "", "", "a", 10, CategoryScience, nil)
	assert.ErrorIs(t, err, ErrTitleRequired)
}

func TestProfile_Owns(t *testing.T) {
	p := Profile{PurchasedNotes: []string{"1", "3"}}
	assert.True(t, p.Owns("3"))
	assert.False(t, p.Owns("2"))
}

func TestClone_DoesNotShareBackingArrays(t *testing.T) {
	p := Profile{PurchasedNotes: []string{"1"}, UploadedNotes: []string{"2"}}
	c := p.Clone()
	c.PurchasedNotes[0] = "x"
	c.UploadedNotes[0] = "y"
	assert.Equal(t, "1", p.PurchasedNotes[0])
	assert.Equal(t, "2", p.UploadedNotes[0])

	n := Note{Tags: []string{"a"}}
	cn := n.Clone()
	cn.Tags[0] = "b"
	assert.Equal(t, "a", n.Tags[0])
}

func TestEnvelope_RoundTrip(t *testing.T) {
	p := Profile{ID: "u1", Email: "a@b.c", PurchasedNotes: []string{"1"}}

	raw, err := WrapRecord(KindProfile, p)
	require.NoError(t, err)

	var got Profile
	require.NoError(t, UnwrapRecord(raw, KindProfile, &got))
	assert.Equal(t, p, got)
}

func TestEnvelope_RejectsWrongVersionOrKind(t *testing.T) {
	raw := []byte(`{"schemaVersion":99,"kind":"profile","data":{}}`)
	var p Profile
	err := UnwrapRecord(raw, KindProfile, &p)
	require.ErrorIs(t, err, common.ErrSchemaVersion)

	raw, err = WrapRecord(KindAdConfig, AdConfig{})
	require.NoError(t, err)
	err = UnwrapRecord(raw, KindProfile, &p)
	require.ErrorIs(t, err, common.ErrSchemaVersion)
}

func TestSeedCatalog_FreePriceInvariant(t *testing.T) {
	for _, n := range SeedCatalog() {
		assert.Equal(t, n.Price == 0, n.IsFree, "note %s", n.ID)
		assert.True(t, n.Category.Valid())
	}
}
