package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/notenexus/notenexus/internal/models"
	"github.com/notenexus/notenexus/internal/upi"
)

var errNotLoggedIn = errors.New("log in first")

// List prints the catalog overview.
func (a *App) List(ctx context.Context) error {
	notes := a.session.Catalog()
	if len(notes) == 0 {
		printlnFn("The catalog is empty.")
		return nil
	}

	p := a.session.Profile()
	for _, n := range notes {
		price := fmt.Sprintf("₹%.2f", n.Price)
		if n.IsFree {
			price = "free"
		}
		marker := " "
		if p.Owns(n.ID) {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s [%s] %-40s %-12s %s  %.1f☆ (%d)",
			marker, n.ID, n.Title, n.Category, price, n.Rating, n.RatingCount))
	}
	printlnFn("(* = owned)")
	return nil
}

// canRead reports whether the session profile may read the note body.
func (a *App) canRead(n models.Note) bool {
	p := a.session.Profile()
	return n.IsFree || p.Owns(n.ID) || a.isAdmin()
}

// Show renders one note: metadata for everyone, the body (plus the
// document link, when stored) only for free or owned notes. Rendering an
// accessible body counts as one monetized content view.
func (a *App) Show(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter note ID", os.Stdout)
	if err != nil {
		return err
	}
	n, ok := a.session.Note(id)
	if !ok {
		return fmt.Errorf("no note with ID %q", id)
	}

	printlnFn(fmt.Sprintf("%s — %s (%s, ₹%.2f, %.1f☆)", n.Title, n.Author, n.Category, n.Price, n.Rating))
	printlnFn(n.Description)

	if !a.canRead(n) {
		printlnFn("You do not own this note. Use 'buy' to purchase it.")
		if a.insight != nil {
			if summary, err := a.insight.Summarize(ctx, n.Title, n.Body); err == nil {
				printlnFn("\nAI summary:\n" + summary)
			}
		}
		return nil
	}

	printlnFn("\n" + n.Body)
	if n.DocumentRef != "" && a.docs != nil {
		url, err := a.docs.PresignedGetURL(ctx, n.DocumentRef)
		if err != nil {
			printlnFn("Document link unavailable:", err.Error())
		} else {
			printlnFn("Document:", url)
		}
	}

	a.accrual.OnContentMounted(ctx)
	return nil
}

// Buy drives the purchase workflow: pick the note, present the QR payment
// payload, collect the proof-of-payment reference, and wait out the
// verification before the entitlement lands.
func (a *App) Buy(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	id, err := getSimpleText(a.reader, "Enter note ID", os.Stdout)
	if err != nil {
		return err
	}

	w, err := a.session.BeginPurchase(id)
	if err != nil {
		return err
	}

	n, _ := a.session.Note(id)
	printlnFn(fmt.Sprintf("Buying %q for ₹%.2f", n.Title, w.Price()))
	printlnFn("Scan this UPI QR payload in your payment app:")
	printlnFn("  " + upi.NotePaymentURI(a.payee, w.Price(), n.Title))
	if err := w.ChooseQR(); err != nil {
		return err
	}

	token, err := getSimpleText(a.reader, "Enter the UPI transaction reference (empty to cancel)", os.Stdout)
	if err != nil {
		return err
	}
	if token == "" {
		if err := a.session.CancelPurchase(w); err != nil {
			return err
		}
		printlnFn("Purchase cancelled.")
		return nil
	}
	if err := w.SubmitProof(token); err != nil {
		_ = a.session.CancelPurchase(w)
		return err
	}

	printlnFn("Verifying payment...")
	res, err := a.session.SettlePurchase(ctx, w)
	if err != nil {
		return err
	}
	printlnFn("Payment verified. The note is yours.")
	if !res.Synced() {
		printlnFn("(saved locally; the remote store will catch up later)")
	}
	return nil
}

// Rate records a 0..5 score for a note.
func (a *App) Rate(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}

	id, err := getSimpleText(a.reader, "Enter note ID", os.Stdout)
	if err != nil {
		return err
	}
	score, err := GetFloat(a.reader, "Your rating (0-5)", os.Stdout)
	if err != nil {
		return err
	}

	if _, err := a.session.RateNote(ctx, id, score); err != nil {
		return err
	}
	n, _ := a.session.Note(id)
	printlnFn(fmt.Sprintf("Thanks! %q is now rated %.1f from %d ratings.", n.Title, n.Rating, n.RatingCount))
	return nil
}

// Questions generates practice questions for a note the user can read.
func (a *App) Questions(ctx context.Context) error {
	if a.insight == nil {
		return errors.New("study helpers are not configured")
	}

	id, err := getSimpleText(a.reader, "Enter note ID", os.Stdout)
	if err != nil {
		return err
	}
	n, ok := a.session.Note(id)
	if !ok {
		return fmt.Errorf("no note with ID %q", id)
	}
	if !a.canRead(n) {
		return errors.New("buy the note first")
	}

	questions, err := a.insight.StudyQuestions(ctx, n.Title, n.Body)
	if err != nil {
		return err
	}
	printlnFn(questions)
	return nil
}

// Profile prints the session profile and its entitlements.
func (a *App) Profile(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	p := a.session.Profile()

	printlnFn(fmt.Sprintf("%s <%s> — %s", p.Name, p.Email, p.Role))
	printlnFn(fmt.Sprintf("Balance: ₹%.2f  Ad revenue: ₹%.2f", p.Balance, p.AdRevenue))
	printlnFn(fmt.Sprintf("Purchased: %d  Uploaded: %d", len(p.PurchasedNotes), len(p.UploadedNotes)))
	for _, id := range p.PurchasedNotes {
		if n, ok := a.session.Note(id); ok {
			printlnFn("  owned: " + n.Title)
		}
	}
	return nil
}
