package models

import "github.com/google/uuid"

// Role is the account role. Exactly one privileged identity exists; its
// email is configuration, not a literal in logic.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Profile is an account. Balance accumulates sale proceeds, AdRevenue
// accumulates ad proceeds; the two are independent streams. PurchasedNotes
// has set semantics and never shrinks for a given user+note pair.
type Profile struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Role           Role     `json:"role"`
	Balance        float64  `json:"balance"`
	AdRevenue      float64  `json:"adRevenue"`
	PurchasedNotes []string `json:"purchasedNotes"`
	UploadedNotes  []string `json:"uploadedNotes"`
	// PasswordHash is a bcrypt hash. Compared, never logged.
	PasswordHash string `json:"passwordHash,omitempty"`
}

// NewProfile constructs a fresh user account with a generated id and zero
// balances.
func NewProfile(name, email, passwordHash string) Profile {
	return Profile{
		ID:             uuid.NewString(),
		Name:           name,
		Email:          email,
		Role:           RoleUser,
		PurchasedNotes: []string{},
		UploadedNotes:  []string{},
		PasswordHash:   passwordHash,
	}
}

// Owns reports whether the profile already holds an entitlement to noteID.
func (p Profile) Owns(noteID string) bool {
	for _, id := range p.PurchasedNotes {
		if id == noteID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	out := p
	out.PurchasedNotes = append([]string(nil), p.PurchasedNotes...)
	out.UploadedNotes = append([]string(nil), p.UploadedNotes...)
	return out
}
