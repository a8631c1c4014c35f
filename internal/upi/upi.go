// Package upi builds deterministic UPI deep-link payment URIs of the form
//
//	upi://pay?pa=<vpa>&pn=<payee>&am=<amount>&cu=INR&tn=<narration>
//
// presented to the buyer as a QR payload during checkout. The builder is a
// pure function of its inputs so the same purchase always renders the same
// QR code.
package upi

import (
	"fmt"
	"net/url"
	"strconv"
)

// Payee identifies the receiving UPI account.
type Payee struct {
	// VPA is the virtual payment address, e.g. "merchant@upi". Kept
	// verbatim in the URI; the "@" is part of the address format.
	VPA string

	// Name is the display name shown in the payer's UPI app.
	Name string
}

// PaymentURI renders the deep link for one payment. amount is in INR;
// narration is free text shown on the payer's statement.
func PaymentURI(p Payee, amount float64, narration string) string {
	return fmt.Sprintf("upi://pay?pa=%s&pn=%s&am=%s&cu=INR&tn=%s",
		p.VPA,
		url.QueryEscape(p.Name),
		strconv.FormatFloat(amount, 'f', 2, 64),
		url.QueryEscape(narration),
	)
}

// NotePaymentURI renders the deep link for a note purchase, with a
// marketplace-branded narration.
func NotePaymentURI(p Payee, amount float64, noteTitle string) string {
	return PaymentURI(p, amount, "NoteNexus - "+noteTitle)
}
