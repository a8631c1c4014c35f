package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/notenexus/notenexus/internal/models"
)

var errAdminOnly = errors.New("admin only")

// Upload publishes a new note. Tags can be typed directly or, when the
// insight client is configured, suggested from the body.
func (a *App) Upload(ctx context.Context) error {
	if !a.isAdmin() {
		return errAdminOnly
	}

	title, err := getSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	description, err := getSimpleText(a.reader, "Description", os.Stdout)
	if err != nil {
		return err
	}
	body, err := GetMultiline(a.reader, "Note body", os.Stdout)
	if err != nil {
		return err
	}
	category, err := getSimpleText(a.reader, "Category (Science, Mathematics, History, Programming, Business, Literature, Other)", os.Stdout)
	if err != nil {
		return err
	}
	price, err := GetFloat(a.reader, "Price in INR (0 = free)", os.Stdout)
	if err != nil {
		return err
	}

	tagsLine, err := getSimpleText(a.reader, "Tags, comma separated (empty = suggest)", os.Stdout)
	if err != nil {
		return err
	}
	var tags []string
	if tagsLine != "" {
		for _, t := range strings.Split(tagsLine, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	} else if a.insight != nil {
		if suggested, err := a.insight.SuggestTags(ctx, title, body); err == nil {
			tags = suggested
			printlnFn("Suggested tags:", strings.Join(tags, ", "))
		}
	}

	author := a.session.Profile().Name
	n, err := models.NewNote(title, description, body, author, price, models.Category(category), tags)
	if err != nil {
		return err
	}

	if a.docs != nil {
		key, url, err := a.docs.PresignedPutURL(ctx)
		if err != nil {
			printlnFn("Document upload unavailable:", err.Error())
		} else {
			n.DocumentRef = key
			printlnFn("Upload the document file with an HTTP PUT to:")
			printlnFn("  " + url)
		}
	}

	res, err := a.session.UploadNote(ctx, n)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Published %q with ID %s.", n.Title, n.ID))
	if !res.Synced() {
		printlnFn("(saved locally; the remote store will catch up later)")
	}
	return nil
}

// Delete removes a note from the catalog and every profile list.
func (a *App) Delete(ctx context.Context) error {
	if !a.isAdmin() {
		return errAdminOnly
	}

	id, err := getSimpleText(a.reader, "Enter note ID to delete", os.Stdout)
	if err != nil {
		return err
	}

	res, err := a.session.DeleteNote(ctx, id)
	if err != nil {
		return err
	}
	printlnFn("Note", id, "deleted.")
	if !res.Synced() {
		printlnFn("(removed locally; the remote store will catch up later)")
	}
	return nil
}

// Withdraw settles accumulated sale and ad earnings.
func (a *App) Withdraw(ctx context.Context) error {
	if !a.isAdmin() {
		return errAdminOnly
	}

	amount, res, err := a.session.Withdraw(ctx)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("₹%.2f withdrawn.", amount))
	if !res.Synced() {
		printlnFn("(recorded locally; the remote store will catch up later)")
	}
	return nil
}

// Ads controls monetization: "ads" shows the current state, "ads on" /
// "ads off" flips the toggle, "ads cpm <rate>" sets the per-thousand
// impression rate.
func (a *App) Ads(ctx context.Context, args []string) error {
	if !a.isAdmin() {
		return errAdminOnly
	}

	if len(args) == 0 {
		cfg := a.session.AdConfig()
		state := "off"
		if cfg.Enabled {
			state = "on"
		}
		printlnFn(fmt.Sprintf("Ads %s, CPM ₹%.2f, %d impressions so far.", state, cfg.CPM, cfg.ImpressionCount))
		return nil
	}

	switch args[0] {
	case "on":
		a.accrual.SetEnabled(ctx, true)
		printlnFn("Ads enabled.")
	case "off":
		a.accrual.SetEnabled(ctx, false)
		printlnFn("Ads disabled.")
	case "cpm":
		if len(args) < 2 {
			return errors.New("usage: ads cpm <rate>")
		}
		rate, err := strconv.ParseFloat(args[1], 64)
		if err != nil || rate < 0 {
			return fmt.Errorf("invalid CPM %q", args[1])
		}
		a.accrual.SetCPM(ctx, rate)
		printlnFn(fmt.Sprintf("CPM set to ₹%.2f.", rate))
	default:
		return fmt.Errorf("unknown ads subcommand %q", args[0])
	}
	return nil
}
