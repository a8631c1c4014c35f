// Package ledger implements the entitlement ledger: pure state-transition
// functions over a Profile (plus, for rating, a Note). Every function
// returns a new value and never mutates its input; persistence is the
// caller's responsibility.
package ledger

import (
	"errors"
	"math"

	"github.com/notenexus/notenexus/internal/models"
)

var (
	// ErrAlreadyOwned rejects a purchase of a note already in the
	// profile's purchased set. Purchasing is a no-op error, never a
	// second entitlement.
	ErrAlreadyOwned = errors.New("note already owned")

	// ErrBelowMinimum rejects a withdrawal while balance + ad revenue is
	// under the configured threshold.
	ErrBelowMinimum = errors.New("earnings below minimum withdrawal")
)

// Purchase appends note.ID to the buyer's purchased set. It does not touch
// Balance: balance tracks an uploader's sale proceeds, not a spender's
// wallet. The seller-side credit is a separate transition (CreditSale)
// applied to the seller's own profile, because in general buyer != seller
// and only one of the two profiles belongs to the running session.
func Purchase(p models.Profile, n models.Note) (models.Profile, error) {
	if p.Owns(n.ID) {
		return models.Profile{}, ErrAlreadyOwned
	}
	out := p.Clone()
	out.PurchasedNotes = append(out.PurchasedNotes, n.ID)
	return out, nil
}

// CreditSale adds price × revenueSharePercent / 100 to the seller's
// balance. revenueSharePercent must already be clamped to [0, 100] by the
// caller.
func CreditSale(p models.Profile, price, revenueSharePercent float64) models.Profile {
	out := p.Clone()
	out.Balance += price * revenueSharePercent / 100
	return out
}

// CreditAdImpression adds cpm/1000 to the profile's ad revenue stream.
// Safe to call at any rate; throttling is the caller's concern.
func CreditAdImpression(p models.Profile, cpm float64) models.Profile {
	out := p.Clone()
	out.AdRevenue += cpm / 1000
	return out
}

// Rate folds one submitted score into the note's running average, rounded
// to one decimal. The stored rounded value feeds the next fold; raw score
// history is not retained, so the result can differ from rounding the
// exact mean by a tenth. score must be in [0, 5]; out-of-range submissions
// are a caller-validation error and never reach this function.
func Rate(n models.Note, score float64) models.Note {
	out := n.Clone()
	out.Rating = round1((n.Rating*float64(n.RatingCount) + score) / float64(n.RatingCount+1))
	out.RatingCount = n.RatingCount + 1
	return out
}

// UploadNote appends note.ID to the profile's uploaded set. Upload policy
// (admin-only in the current design) is enforced by the caller, not here.
func UploadNote(p models.Profile, n models.Note) models.Profile {
	out := p.Clone()
	out.UploadedNotes = append(out.UploadedNotes, n.ID)
	return out
}

// Withdraw zeroes both Balance and AdRevenue and returns their prior sum,
// or rejects with ErrBelowMinimum leaving the profile unchanged. No
// partial amount is ever observable.
func Withdraw(p models.Profile, minimum float64) (models.Profile, float64, error) {
	total := p.Balance + p.AdRevenue
	if total < minimum {
		return models.Profile{}, 0, ErrBelowMinimum
	}
	out := p.Clone()
	out.Balance = 0
	out.AdRevenue = 0
	return out, total, nil
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
