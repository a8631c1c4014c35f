// Package models defines the NoteNexus domain types: marketplace notes,
// user profiles, and the monetization configuration, plus the versioned
// envelope used for every persisted snapshot record.
package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Category classifies a note. The set is closed; anything else is rejected
// at construction time.
type Category string

const (
	CategoryScience     Category = "Science"
	CategoryMath        Category = "Mathematics"
	CategoryHistory     Category = "History"
	CategoryProgramming Category = "Programming"
	CategoryBusiness    Category = "Business"
	CategoryLiterature  Category = "Literature"
	CategoryOther       Category = "Other"
)

var categories = map[Category]struct{}{
	CategoryScience:     {},
	CategoryMath:        {},
	CategoryHistory:     {},
	CategoryProgramming: {},
	CategoryBusiness:    {},
	CategoryLiterature:  {},
	CategoryOther:       {},
}

// Valid reports whether c belongs to the closed category set.
func (c Category) Valid() bool {
	_, ok := categories[c]
	return ok
}

var (
	ErrNegativePrice   = errors.New("price must be non-negative")
	ErrUnknownCategory = errors.New("unknown category")
	ErrTitleRequired   = errors.New("title is required")
)

// Note is a content item in the marketplace catalog.
//
// Invariant: Price == 0 if and only if IsFree. Rating is the running
// average of exactly RatingCount submissions, rounded to one decimal.
type Note struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Body         string    `json:"body"`
	DocumentRef  string    `json:"documentRef,omitempty"`
	Author       string    `json:"author"`
	Price        float64   `json:"price"`
	Category     Category  `json:"category"`
	Rating       float64   `json:"rating"`
	RatingCount  int       `json:"ratingCount"`
	Tags         []string  `json:"tags"`
	CreatedAt    time.Time `json:"createdAt"`
	IsFree       bool      `json:"isFree"`
	ThumbnailRef string    `json:"thumbnailRef,omitempty"`
}

// NewNote constructs a catalog note with a fresh id. IsFree is derived from
// the price, never passed in, so the free-price invariant holds by
// construction.
func NewNote(title, description, body, author string, price float64, category Category, tags []string) (Note, error) {
	if title == "" {
		return Note{}, ErrTitleRequired
	}
	if price < 0 {
		return Note{}, ErrNegativePrice
	}
	if !category.Valid() {
		return Note{}, ErrUnknownCategory
	}
	return Note{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Body:        body,
		Author:      author,
		Price:       price,
		Category:    category,
		Tags:        append([]string(nil), tags...),
		CreatedAt:   time.Now(),
		IsFree:      price == 0,
	}, nil
}

// Clone returns a deep copy so ledger transitions can return new values
// without sharing slice backing arrays with the input.
func (n Note) Clone() Note {
	out := n
	out.Tags = append([]string(nil), n.Tags...)
	return out
}
