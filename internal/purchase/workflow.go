// Package purchase implements the payment workflow state machine that takes
// a buyer from no access to verified access: initiate, present payment
// instructions, accept a proof-of-payment token, and commit the entitlement
// after a simulated verification phase. True settlement is an out-of-band
// human process; the machine models only the client-side protocol around it.
package purchase

import (
	"errors"
	"time"

	"github.com/notenexus/notenexus/internal/ledger"
	"github.com/notenexus/notenexus/internal/models"
)

// State of one purchase workflow instance. Settled and Cancelled are
// terminal.
type State string

const (
	StateIdle          State = "idle"
	StateMethodChosen  State = "method_chosen"
	StateAwaitingProof State = "awaiting_proof"
	StateVerifying     State = "verifying"
	StateSettled       State = "settled"
	StateCancelled     State = "cancelled"
)

// MinProofTokenLen is the minimum length of a proof-of-payment reference.
// The proof is a bank-assigned reference string, not a secret; validity is
// a syntactic check only, since real verification happens out-of-band.
const MinProofTokenLen = 6

var (
	// ErrNotPurchasable rejects initiating a purchase of a free or
	// already-owned note.
	ErrNotPurchasable = errors.New("note is not purchasable")

	// ErrInvalidProofFormat rejects a proof token that fails the shape
	// check.
	ErrInvalidProofFormat = errors.New("invalid proof token format")

	// ErrInvalidTransition reports a transition attempted from the wrong
	// state.
	ErrInvalidTransition = errors.New("invalid workflow transition")

	// ErrTerminal reports an operation on a settled or cancelled workflow.
	ErrTerminal = errors.New("workflow already finished")
)

// Workflow drives one purchase attempt for one note. The price is captured
// at Initiate and stays immutable for the instance's lifetime, so a
// concurrent catalog price edit cannot change what this buyer is charged.
type Workflow struct {
	state      State
	note       models.Note
	price      float64
	proofToken string
	delay      time.Duration
}

// New returns an Idle workflow. delay is the simulated verification pause
// applied during Settle.
func New(delay time.Duration) *Workflow {
	return &Workflow{state: StateIdle, delay: delay}
}

// State returns the current workflow state.
func (w *Workflow) State() State { return w.state }

// Price returns the price captured at Initiate.
func (w *Workflow) Price() float64 { return w.price }

// NoteID returns the id of the note this workflow was initiated for.
func (w *Workflow) NoteID() string { return w.note.ID }

// Initiate moves Idle to MethodChosen. The note must be non-free and not
// already owned by the acting profile.
func (w *Workflow) Initiate(p models.Profile, n models.Note) error {
	if w.state != StateIdle {
		return ErrInvalidTransition
	}
	if n.IsFree || p.Owns(n.ID) {
		return ErrNotPurchasable
	}
	w.note = n
	w.price = n.Price
	w.state = StateMethodChosen
	return nil
}

// ChooseQR moves MethodChosen to AwaitingProof. Purely a presentation
// transition; QR is currently the only payment presentation.
func (w *Workflow) ChooseQR() error {
	if w.state != StateMethodChosen {
		return ErrInvalidTransition
	}
	w.state = StateAwaitingProof
	return nil
}

// SubmitProof accepts the externally supplied proof-of-payment reference
// and moves AwaitingProof to Verifying.
func (w *Workflow) SubmitProof(token string) error {
	if w.state != StateAwaitingProof {
		return ErrInvalidTransition
	}
	if len(token) < MinProofTokenLen {
		return ErrInvalidProofFormat
	}
	w.proofToken = token
	w.state = StateVerifying
	return nil
}

// Settle waits out the simulated verification delay and commits the
// entitlement on the buyer's profile, returning the updated profile. The
// delay is deliberately not cancellable: once the proof token is in a
// human's hands the in-flight external process cannot be recalled.
//
// An ErrAlreadyOwned result from the ledger is folded into success: the
// end state, ownership, is already satisfied, so re-submitting a proof for
// an owned note always ends Settled with the profile unchanged.
func (w *Workflow) Settle(p models.Profile) (models.Profile, error) {
	if w.state != StateVerifying {
		return models.Profile{}, ErrInvalidTransition
	}
	if w.delay > 0 {
		time.Sleep(w.delay)
	}

	updated, err := ledger.Purchase(p, w.note)
	if err != nil {
		if errors.Is(err, ledger.ErrAlreadyOwned) {
			w.state = StateSettled
			return p, nil
		}
		return models.Profile{}, err
	}
	w.state = StateSettled
	return updated, nil
}

// Cancel aborts the workflow from any non-terminal state, discarding the
// proof token. No partial entitlement is ever granted for a cancelled
// workflow.
func (w *Workflow) Cancel() error {
	switch w.state {
	case StateSettled, StateCancelled:
		return ErrTerminal
	}
	w.proofToken = ""
	w.state = StateCancelled
	return nil
}
