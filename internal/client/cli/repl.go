package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	isAdmin() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	Buy(ctx context.Context) error
	Rate(ctx context.Context) error
	Questions(ctx context.Context) error
	Profile(ctx context.Context) error
	Upload(ctx context.Context) error
	Delete(ctx context.Context) error
	Withdraw(ctx context.Context) error
	Ads(ctx context.Context, args []string) error
}

// runREPL starts a simple read-eval-print loop for the NoteNexus CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account (email verification)
//	  - login          authenticate
//	  - list           browse the catalog
//	  - show           read a free note
//	  - questions      generate practice questions for a free note
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - list | l       browse the catalog
//	  - show           read a note (interactive ID prompt)
//	  - buy            purchase a note through the QR workflow
//	  - rate           rate a note 0..5
//	  - questions      generate practice questions for an owned note
//	  - profile        show balances and owned notes
//	  - logout         log out
//
//	Admin only:
//	  - upload         publish a new note
//	  - delete         remove a note from the catalog
//	  - withdraw       settle accumulated earnings
//	  - ads [on|off|cpm <rate>]   monetization controls
//
// Any errors returned by command handlers are printed here and the loop
// continues; a failed command never ends the session.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("nn> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var err error
		switch cmd {
		case "help":
			switch {
			case a.isAdmin():
				printlnFn("Available commands: (l)ist, show, buy, rate, questions, profile, upload, delete, withdraw, ads, logout, exit")
			case a.isLoggedIn():
				printlnFn("Available commands: (l)ist, show, buy, rate, questions, profile, logout, exit")
			default:
				printlnFn("Available commands: register, login, list, show, questions, exit")
			}

		case "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "l", "list":
			err = a.List(ctx)

		case "show":
			err = a.Show(ctx)

		case "buy":
			err = a.Buy(ctx)

		case "rate":
			err = a.Rate(ctx)

		case "questions":
			err = a.Questions(ctx)

		case "profile":
			err = a.Profile(ctx)

		case "upload":
			err = a.Upload(ctx)

		case "delete":
			err = a.Delete(ctx)

		case "withdraw":
			err = a.Withdraw(ctx)

		case "ads":
			err = a.Ads(ctx, parts[1:])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
