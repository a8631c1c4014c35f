// Package session owns the running session: the authoritative in-memory
// profile, note catalog and ad configuration. Every accepted ledger
// mutation is applied here first, then mirrored to the local snapshot and
// the remote record store. Mirror writes are fire-and-forget: a failure is
// logged and reported in the SyncResult, never rolled back into local
// state. This is a deliberate local-first, cloud-eventually model.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/notenexus/notenexus/internal/common"
	"github.com/notenexus/notenexus/internal/ledger"
	"github.com/notenexus/notenexus/internal/logging"
	"github.com/notenexus/notenexus/internal/models"
	"github.com/notenexus/notenexus/internal/purchase"
	"github.com/notenexus/notenexus/internal/snapshot"
	"github.com/notenexus/notenexus/internal/store"
)

var (
	// ErrNoteNotFound reports an operation against a note id missing
	// from the catalog.
	ErrNoteNotFound = errors.New("note not found in catalog")

	// ErrUploadForbidden rejects uploads by non-admin profiles. Upload is
	// a policy precondition of the current design, not an architectural
	// limit.
	ErrUploadForbidden = errors.New("upload requires the admin role")

	// ErrScoreOutOfRange rejects rating submissions outside [0, 5]
	// before they reach the ledger.
	ErrScoreOutOfRange = errors.New("score must be between 0 and 5")

	// ErrPurchaseInFlight rejects a second purchase workflow for a note
	// that already has one past Initiate.
	ErrPurchaseInFlight = errors.New("purchase already in progress for this note")
)

// SyncResult reports how a local mutation fared against the mirrors. The
// local mutation always stands; MirrorErr is non-nil when the remote
// record store write failed and the change exists locally only.
type SyncResult struct {
	MirrorErr error
}

// Synced reports whether the remote mirror accepted the write (trivially
// true when no remote backend is configured).
func (r SyncResult) Synced() bool { return r.MirrorErr == nil }

func (r SyncResult) merge(other SyncResult) SyncResult {
	if r.MirrorErr != nil {
		return r
	}
	return other
}

// Options configures a session.
type Options struct {
	// RevenueSharePercent of a sale credited to the uploader, clamped to
	// [0, 100] here because the ledger documents clamping as a caller
	// precondition.
	RevenueSharePercent float64

	// MinWithdrawal is the earnings threshold below which Withdraw is
	// rejected.
	MinWithdrawal float64

	// SellerEmail identifies the profile credited with sale proceeds. In
	// the current single-uploader design this is the reserved admin
	// address.
	SellerEmail string

	// VerifyDelay is the simulated payment verification pause.
	VerifyDelay time.Duration

	// DefaultCPM seeds the ad configuration when no snapshot exists yet.
	// Ads still start disabled; this only presets the rate.
	DefaultCPM float64

	// RemoteConfigured marks whether a remote record store backs the
	// adapter. The local catalog snapshot is written only when it does
	// not.
	RemoteConfigured bool
}

// Session is the single active session. All methods must be called from
// one goroutine; mutations are applied strictly in the order their events
// resolve.
type Session struct {
	log   logging.Logger
	store store.RecordStore
	snap  *snapshot.Store
	opts  Options

	profile  models.Profile
	catalog  []models.Note
	adConfig models.AdConfig

	// Workflows past Initiate, keyed by note id. Guards against two
	// purchase attempts for the same note both reaching Verifying.
	inFlight map[string]*purchase.Workflow
}

// New constructs a session around the given mirrors.
func New(log logging.Logger, rs store.RecordStore, snap *snapshot.Store, opts Options) *Session {
	if opts.RevenueSharePercent < 0 {
		opts.RevenueSharePercent = 0
	}
	if opts.RevenueSharePercent > 100 {
		opts.RevenueSharePercent = 100
	}
	return &Session{
		log:      log,
		store:    rs,
		snap:     snap,
		opts:     opts,
		inFlight: make(map[string]*purchase.Workflow),
	}
}

// Start loads the catalog and ad configuration. Catalog preference order:
// remote store, local snapshot, seed data. The ad configuration comes from
// the snapshot or defaults to disabled.
func (s *Session) Start(ctx context.Context) error {
	notes, err := s.store.ListNotes(ctx)
	if err != nil {
		s.log.Warn(ctx, "remote catalog unavailable, falling back to local", "err", err)
	}
	if len(notes) == 0 {
		notes, err = s.snap.LoadCatalog(ctx)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("failed to load local catalog: %w", err)
		}
	}
	if len(notes) == 0 {
		notes = models.SeedCatalog()
	}
	s.catalog = notes

	cfg, err := s.snap.LoadAdConfig(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("failed to load ad config: %w", err)
		}
		cfg = models.AdConfig{CPM: s.opts.DefaultCPM}
	}
	s.adConfig = cfg
	return nil
}

// SetProfile installs the authenticated profile and snapshots it.
func (s *Session) SetProfile(ctx context.Context, p models.Profile) {
	s.profile = p
	if err := s.snap.SaveProfile(ctx, p); err != nil {
		s.log.Warn(ctx, "failed to snapshot profile", "err", err)
	}
}

// ClearProfile drops the session profile and its snapshot (logout).
func (s *Session) ClearProfile(ctx context.Context) {
	s.profile = models.Profile{}
	s.inFlight = make(map[string]*purchase.Workflow)
	if err := s.snap.DeleteProfile(ctx); err != nil {
		s.log.Warn(ctx, "failed to clear profile snapshot", "err", err)
	}
}

// Profile returns a copy of the session profile.
func (s *Session) Profile() models.Profile { return s.profile.Clone() }

// LoggedIn reports whether a profile is installed.
func (s *Session) LoggedIn() bool { return s.profile.ID != "" }

// Catalog returns the session's note catalog.
func (s *Session) Catalog() []models.Note { return s.catalog }

// Note finds a catalog note by id.
func (s *Session) Note(id string) (models.Note, bool) {
	for _, n := range s.catalog {
		if n.ID == id {
			return n, true
		}
	}
	return models.Note{}, false
}

// AdConfig returns the current monetization configuration.
func (s *Session) AdConfig() models.AdConfig { return s.adConfig }

// SetAdConfig replaces the monetization configuration and persists it.
// The snapshot is the authority for this value; there is no remote mirror.
func (s *Session) SetAdConfig(ctx context.Context, cfg models.AdConfig) SyncResult {
	s.adConfig = cfg
	if err := s.snap.SaveAdConfig(ctx, cfg); err != nil {
		s.log.Warn(ctx, "failed to snapshot ad config", "err", err)
		return SyncResult{MirrorErr: err}
	}
	return SyncResult{}
}

// applyProfile installs an updated session profile, snapshots it, and
// mirrors the changed entitlement fields. The returned SyncResult carries
// only the remote outcome; a snapshot failure is logged.
func (s *Session) applyProfile(ctx context.Context, p models.Profile, patch store.ProfilePatch) SyncResult {
	s.profile = p
	if err := s.snap.SaveProfile(ctx, p); err != nil {
		s.log.Warn(ctx, "failed to snapshot profile", "err", err)
	}
	if err := s.store.PatchProfile(ctx, p.ID, patch); err != nil {
		s.log.Warn(ctx, "profile synced locally only", "op", "patchProfile", "err", err)
		return SyncResult{MirrorErr: err}
	}
	return SyncResult{}
}

// replaceNote swaps an updated note into the catalog and mirrors it.
func (s *Session) replaceNote(ctx context.Context, updated models.Note, patch store.NotePatch) SyncResult {
	for i, n := range s.catalog {
		if n.ID == updated.ID {
			s.catalog[i] = updated
			break
		}
	}
	s.snapshotCatalog(ctx)
	if err := s.store.PatchNote(ctx, updated.ID, patch); err != nil {
		s.log.Warn(ctx, "note synced locally only", "op", "patchNote", "err", err)
		return SyncResult{MirrorErr: err}
	}
	return SyncResult{}
}

// snapshotCatalog writes the catalog snapshot when it is the authority,
// i.e. when no remote store is configured.
func (s *Session) snapshotCatalog(ctx context.Context) {
	if s.opts.RemoteConfigured {
		return
	}
	if err := s.snap.SaveCatalog(ctx, s.catalog); err != nil {
		s.log.Warn(ctx, "failed to snapshot catalog", "err", err)
	}
}

// BeginPurchase opens a purchase workflow for the note and drives it to
// MethodChosen. A second attempt for a note whose workflow is still in
// flight fails fast instead of racing it to Verifying.
func (s *Session) BeginPurchase(noteID string) (*purchase.Workflow, error) {
	n, ok := s.Note(noteID)
	if !ok {
		return nil, ErrNoteNotFound
	}
	if w, exists := s.inFlight[noteID]; exists {
		switch w.State() {
		case purchase.StateSettled, purchase.StateCancelled:
			// stale terminal instance, replaceable
		default:
			return nil, ErrPurchaseInFlight
		}
	}

	w := purchase.New(s.opts.VerifyDelay)
	if err := w.Initiate(s.profile, n); err != nil {
		return nil, err
	}
	s.inFlight[noteID] = w
	return w, nil
}

// SettlePurchase completes a Verifying workflow: waits out verification,
// commits the buyer's entitlement locally, mirrors it, and fans out the
// independent seller-side credit. Buyer entry and seller credit are never
// conflated into one atomic update; in general they belong to different
// profiles.
func (s *Session) SettlePurchase(ctx context.Context, w *purchase.Workflow) (SyncResult, error) {
	updated, err := w.Settle(s.profile)
	if err != nil {
		return SyncResult{}, err
	}
	delete(s.inFlight, w.NoteID())

	res := s.applyProfile(ctx, updated, store.ProfilePatch{PurchasedNotes: updated.PurchasedNotes})
	res = res.merge(s.creditSeller(ctx, w.Price()))
	return res, nil
}

// CancelPurchase aborts an in-flight workflow with no side effects.
func (s *Session) CancelPurchase(w *purchase.Workflow) error {
	if err := w.Cancel(); err != nil {
		return err
	}
	delete(s.inFlight, w.NoteID())
	return nil
}

// creditSeller applies the uploader's revenue share for one sale. The
// seller profile lives in the remote store; when the session profile IS
// the seller the credit also lands locally. Failures follow the same
// fire-and-forget policy as every other mirror write.
func (s *Session) creditSeller(ctx context.Context, price float64) SyncResult {
	amount := price * s.opts.RevenueSharePercent / 100
	if amount == 0 || s.opts.SellerEmail == "" {
		return SyncResult{}
	}

	if s.profile.Email == s.opts.SellerEmail {
		credited := ledger.CreditSale(s.profile, price, s.opts.RevenueSharePercent)
		return s.applyProfile(ctx, credited, store.ProfilePatch{Balance: &credited.Balance})
	}

	seller, err := s.store.FindProfileByEmail(ctx, s.opts.SellerEmail)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			s.log.Warn(ctx, "seller credit synced locally only", "err", err)
			return SyncResult{MirrorErr: err}
		}
		// No multi-tenant backend: the seller-side mutation does not
		// apply.
		return SyncResult{}
	}

	credited := ledger.CreditSale(seller, price, s.opts.RevenueSharePercent)
	if err := s.store.PatchProfile(ctx, seller.ID, store.ProfilePatch{Balance: &credited.Balance}); err != nil {
		s.log.Warn(ctx, "seller credit failed", "err", err)
		return SyncResult{MirrorErr: err}
	}
	return SyncResult{}
}

// RateNote folds one score into the note's running average.
func (s *Session) RateNote(ctx context.Context, noteID string, score float64) (SyncResult, error) {
	if score < 0 || score > 5 {
		return SyncResult{}, ErrScoreOutOfRange
	}
	n, ok := s.Note(noteID)
	if !ok {
		return SyncResult{}, ErrNoteNotFound
	}

	rated := ledger.Rate(n, score)
	res := s.replaceNote(ctx, rated, store.NotePatch{Rating: &rated.Rating, RatingCount: &rated.RatingCount})
	return res, nil
}

// UploadNote publishes a new note authored by the session profile.
// Admin-only in the current design.
func (s *Session) UploadNote(ctx context.Context, n models.Note) (SyncResult, error) {
	if s.profile.Role != models.RoleAdmin {
		return SyncResult{}, ErrUploadForbidden
	}

	updated := ledger.UploadNote(s.profile, n)
	s.catalog = append([]models.Note{n}, s.catalog...)
	s.snapshotCatalog(ctx)

	res := SyncResult{}
	if err := s.store.InsertNote(ctx, n); err != nil {
		s.log.Warn(ctx, "note synced locally only", "op", "insertNote", "err", err)
		res = SyncResult{MirrorErr: err}
	}
	res = res.merge(s.applyProfile(ctx, updated, store.ProfilePatch{UploadedNotes: updated.UploadedNotes}))
	return res, nil
}

// DeleteNote removes a note from the catalog and cascades the removal
// into every profile list it appears in. The remote store offers no
// multi-record transaction, so the cascade is driven from here.
func (s *Session) DeleteNote(ctx context.Context, noteID string) (SyncResult, error) {
	if s.profile.Role != models.RoleAdmin {
		return SyncResult{}, ErrUploadForbidden
	}
	if _, ok := s.Note(noteID); !ok {
		return SyncResult{}, ErrNoteNotFound
	}

	kept := s.catalog[:0:0]
	for _, n := range s.catalog {
		if n.ID != noteID {
			kept = append(kept, n)
		}
	}
	s.catalog = kept
	s.snapshotCatalog(ctx)

	res := SyncResult{}
	if err := s.store.RemoveNote(ctx, noteID); err != nil {
		s.log.Warn(ctx, "note removed locally only", "op", "removeNote", "err", err)
		res = SyncResult{MirrorErr: err}
	}

	// Cascade into the session profile. Admin delete is the single
	// sanctioned shrink of the purchased set.
	p := s.profile.Clone()
	p.PurchasedNotes = removeID(p.PurchasedNotes, noteID)
	p.UploadedNotes = removeID(p.UploadedNotes, noteID)
	res = res.merge(s.applyProfile(ctx, p, store.ProfilePatch{
		PurchasedNotes: p.PurchasedNotes,
		UploadedNotes:  p.UploadedNotes,
	}))
	return res, nil
}

// Withdraw settles accumulated earnings. Local-only simulated settlement:
// the returned amount is exact and the zeroing is atomic with respect to
// every other ledger operation in this single-threaded session.
func (s *Session) Withdraw(ctx context.Context) (float64, SyncResult, error) {
	updated, amount, err := ledger.Withdraw(s.profile, s.opts.MinWithdrawal)
	if err != nil {
		return 0, SyncResult{}, err
	}
	res := s.applyProfile(ctx, updated, store.ProfilePatch{
		Balance:   &updated.Balance,
		AdRevenue: &updated.AdRevenue,
	})
	return amount, res, nil
}

// CreditAdRevenue applies one impression's earnings to the session
// profile. A no-op for guests: profile records only ever originate from
// register or login, so an anonymous view earns nothing and writes
// nothing.
func (s *Session) CreditAdRevenue(ctx context.Context, cpm float64) SyncResult {
	if !s.LoggedIn() {
		return SyncResult{}
	}
	updated := ledger.CreditAdImpression(s.profile, cpm)
	return s.applyProfile(ctx, updated, store.ProfilePatch{AdRevenue: &updated.AdRevenue})
}

func removeID(ids []string, id string) []string {
	out := ids[:0:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
