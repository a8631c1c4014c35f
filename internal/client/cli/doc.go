// Package cli provides the interactive NoteNexus command-line client.
//
// It wires configuration, the local snapshot, the remote record store, and
// an interactive REPL around the session. Typical flow: log in or register,
// browse the catalog, buy a note through the QR payment workflow, and read
// what you own.
//
// Key features:
//   - Login / Register (email verification code) / Logout
//   - List / Show catalog notes, with AI summaries and study questions
//   - Buy through the UPI QR workflow with proof-of-payment entry
//   - Admin: upload and delete notes, ad monetization, earnings withdrawal
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
