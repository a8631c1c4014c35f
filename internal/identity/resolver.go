// Package identity resolves who is using the session: login against the
// record store or the reserved admin identity, and a two-step email OTP
// registration flow for new accounts. Verification codes are generated
// here, delivered by a mail sender, and never written to any log or
// durable store.
package identity

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/notenexus/notenexus/internal/common"
	"github.com/notenexus/notenexus/internal/logging"
	"github.com/notenexus/notenexus/internal/models"
	"github.com/notenexus/notenexus/internal/store"
)

const (
	// MinPasswordLen is the minimum accepted password length.
	MinPasswordLen = 6

	// CodeLen is the number of digits in a verification code.
	CodeLen = 6

	// CodeTTL is how long a verification code stays redeemable.
	CodeTTL = 10 * time.Minute

	// MaxCodeAttempts caps wrong-code submissions per pending
	// registration before the code is invalidated.
	MaxCodeAttempts = 5

	// ResendCooldown is the minimum gap between code sends for one
	// pending registration.
	ResendCooldown = time.Minute

	// AdminProfileID is the fixed id of the reserved admin profile.
	AdminProfileID = "admin-001"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNoAccount          = errors.New("no account for this email")
	ErrInvalidCode        = errors.New("verification code does not match")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrResendCooldown     = errors.New("verification code was sent too recently")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrPasswordTooShort   = errors.New("password is too short")
	ErrNameRequired       = errors.New("name is required")

	// ErrNoPendingRegistration reports a confirm or resend with no
	// registration in flight.
	ErrNoPendingRegistration = errors.New("no registration in progress")
)

// Sender delivers a verification code to an address. The mailer package
// provides the production implementation.
type Sender interface {
	SendCode(ctx context.Context, toEmail, toName, code string) error
}

// pendingRegistration is the in-memory state of a started, unconfirmed
// registration. The password is held only as its bcrypt hash.
type pendingRegistration struct {
	name         string
	email        string
	passwordHash string
	code         string
	issuedAt     time.Time
	attempts     int
}

// Resolver performs login and registration.
type Resolver struct {
	store store.RecordStore
	creds CredentialProvider
	mail  Sender
	log   logging.Logger

	now     func() time.Time
	genCode func() (string, error)

	pending *pendingRegistration
}

// NewResolver builds a resolver over the given record store, admin
// credentials and mail sender.
func NewResolver(log logging.Logger, rs store.RecordStore, creds CredentialProvider, mail Sender) *Resolver {
	return &Resolver{
		store:   rs,
		creds:   creds,
		mail:    mail,
		log:     log,
		now:     time.Now,
		genCode: func() (string, error) { return common.MakeRandDigits(CodeLen) },
	}
}

// NormalizeEmail lowercases and trims an address; all identity lookups go
// through this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// adminProfile is the demo admin identity created lazily on first admin
// login when the record store has no row for it.
func (r *Resolver) adminProfile() models.Profile {
	return models.Profile{
		ID:             AdminProfileID,
		Name:           r.creds.AdminName(),
		Email:          r.creds.AdminEmail(),
		Role:           models.RoleAdmin,
		Balance:        450.75,
		UploadedNotes:  []string{"1", "2", "4"},
		PurchasedNotes: []string{},
	}
}

// Login authenticates the email/password pair. The reserved admin address
// is checked against the configured admin secret; every other address is
// resolved through the record store and its bcrypt hash.
func (r *Resolver) Login(ctx context.Context, email string, password []byte) (models.Profile, error) {
	email = NormalizeEmail(email)

	if email == NormalizeEmail(r.creds.AdminEmail()) {
		if !r.creds.VerifyAdminSecret(password) {
			return models.Profile{}, ErrInvalidCredentials
		}
		return r.loadOrCreateAdmin(ctx), nil
	}

	p, err := r.store.FindProfileByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return models.Profile{}, ErrNoAccount
		}
		return models.Profile{}, fmt.Errorf("failed to look up profile: %w", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), password) != nil {
		return models.Profile{}, ErrInvalidCredentials
	}
	return p, nil
}

// loadOrCreateAdmin prefers the stored admin row so balance and lists
// survive across sessions; absent a store row it falls back to the demo
// profile and tries to persist it.
func (r *Resolver) loadOrCreateAdmin(ctx context.Context) models.Profile {
	p, err := r.store.FindProfileByEmail(ctx, NormalizeEmail(r.creds.AdminEmail()))
	if err == nil {
		return p
	}
	if !errors.Is(err, common.ErrNotFound) {
		r.log.Warn(ctx, "admin profile lookup failed, using local identity", "err", err)
	}

	p = r.adminProfile()
	if err := r.store.InsertProfile(ctx, p); err != nil {
		r.log.Warn(ctx, "admin profile exists locally only", "err", err)
	}
	return p
}

// BeginRegistration validates the applicant, generates a verification
// code, and mails it. Nothing is persisted until the code is confirmed.
// Starting a new registration replaces any earlier pending one.
func (r *Resolver) BeginRegistration(ctx context.Context, name, email string, password []byte) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	email = NormalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return ErrInvalidEmail
	}
	if len(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword(password, bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := r.genCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}

	if err := r.mail.SendCode(ctx, email, name, code); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}

	r.pending = &pendingRegistration{
		name:         name,
		email:        email,
		passwordHash: string(hash),
		code:         code,
		issuedAt:     r.now(),
	}
	r.log.Info(ctx, "verification code sent", "email", email)
	return nil
}

// ResendCode generates and mails a fresh code for the pending
// registration, resetting the attempt counter. Throttled to one send per
// cooldown window.
func (r *Resolver) ResendCode(ctx context.Context) error {
	if r.pending == nil {
		return ErrNoPendingRegistration
	}
	if r.now().Sub(r.pending.issuedAt) < ResendCooldown {
		return ErrResendCooldown
	}

	code, err := r.genCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}
	if err := r.mail.SendCode(ctx, r.pending.email, r.pending.name, code); err != nil {
		return fmt.Errorf("failed to send verification code: %w", err)
	}

	r.pending.code = code
	r.pending.issuedAt = r.now()
	r.pending.attempts = 0
	r.log.Info(ctx, "verification code resent", "email", r.pending.email)
	return nil
}

// ConfirmCode checks the submitted code against the pending registration.
// On a match it creates the profile and persists it; a mismatch leaves
// the pending registration intact so the correct code can still be
// submitted, up to MaxCodeAttempts tries. The comparison is constant
// time even though the code is short lived.
func (r *Resolver) ConfirmCode(ctx context.Context, code string) (models.Profile, error) {
	if r.pending == nil {
		return models.Profile{}, ErrNoPendingRegistration
	}
	if r.now().Sub(r.pending.issuedAt) > CodeTTL {
		r.pending = nil
		return models.Profile{}, ErrCodeExpired
	}

	if subtle.ConstantTimeCompare([]byte(r.pending.code), []byte(code)) != 1 {
		r.pending.attempts++
		if r.pending.attempts >= MaxCodeAttempts {
			r.pending = nil
			return models.Profile{}, ErrCodeExpired
		}
		return models.Profile{}, ErrInvalidCode
	}

	p := models.NewProfile(r.pending.name, r.pending.email, r.pending.passwordHash)
	if p.Email == NormalizeEmail(r.creds.AdminEmail()) {
		p.Role = models.RoleAdmin
	}

	if err := r.store.InsertProfile(ctx, p); err != nil {
		r.log.Warn(ctx, "profile exists locally only", "err", err)
	}
	r.pending = nil
	r.log.Info(ctx, "registration confirmed", "email", p.Email)
	return p, nil
}

// HasPendingRegistration reports whether a registration awaits its code.
func (r *Resolver) HasPendingRegistration() bool { return r.pending != nil }
