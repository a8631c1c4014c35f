package cli

import (
	"context"
	"errors"
	"os"

	"github.com/notenexus/notenexus/internal/common"
	"github.com/notenexus/notenexus/internal/identity"
	"github.com/notenexus/notenexus/internal/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register walks a new user through the email verification flow: collect
// name, email and password, then loop on the mailed code until it is
// confirmed, the attempt cap is hit, or the user gives up with an empty
// line. Typing "resend" requests a fresh code.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter your name", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.resolver.BeginRegistration(ctx, name, email, password); err != nil {
		return err
	}
	printlnFn("A verification code was sent to", email)

	for {
		code, err := getSimpleText(a.reader, "Enter the code (or 'resend', empty to abort)", os.Stdout)
		if err != nil {
			return err
		}
		if code == "" {
			printlnFn("Registration aborted.")
			return nil
		}
		if code == "resend" {
			if err := a.resolver.ResendCode(ctx); err != nil {
				printlnFn("Error:", err.Error())
			} else {
				printlnFn("Code resent.")
			}
			continue
		}

		p, err := a.resolver.ConfirmCode(ctx, code)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidCode) {
				printlnFn("Wrong code, try again.")
				continue
			}
			return err
		}
		return a.openSession(ctx, p)
	}
}

// Login prompts for credentials and authenticates against the resolver.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	p, err := a.resolver.Login(ctx, email, password)
	if err != nil {
		return err
	}
	return a.openSession(ctx, p)
}

// openSession installs the profile and issues the session token.
func (a *App) openSession(ctx context.Context, p models.Profile) error {
	token, err := identity.IssueSessionToken(p.ID, []byte(a.config.JWTSecret), a.config.TokenTTL)
	if err != nil {
		return err
	}
	a.token = token
	a.session.SetProfile(ctx, p)
	printlnFn("Welcome,", p.Name)
	return nil
}

// Logout drops the session profile and its local snapshot.
func (a *App) Logout(ctx context.Context) error {
	a.session.ClearProfile(ctx)
	a.token = ""
	printlnFn("Logged out.")
	return nil
}
