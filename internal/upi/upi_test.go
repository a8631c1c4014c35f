package upi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaymentURI(t *testing.T) {
	p := Payee{VPA: "merchant@upi", Name: "Note Nexus"}

	got := PaymentURI(p, 1599, "NoteNexus - Advanced React Architecture")
	want := "upi://pay?pa=merchant@upi&pn=Note+Nexus&am=1599.00&cu=INR&tn=NoteNexus+-+Advanced+React+Architecture"
	assert.Equal(t, want, got)
}

func TestPaymentURI_Deterministic(t *testing.T) {
	p := Payee{VPA: "merchant@upi", Name: "Note Nexus"}

	a := NotePaymentURI(p, 950.5, "Organic Chemistry")
	b := NotePaymentURI(p, 950.5, "Organic Chemistry")
	assert.Equal(t, a, b)
	assert.Contains(t, a, "am=950.50")
	assert.Contains(t, a, "tn=NoteNexus+-+Organic+Chemistry")
}
