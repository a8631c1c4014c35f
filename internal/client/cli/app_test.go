package cli

import (
	"bufio"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notenexus/notenexus/internal/adspot"
	"github.com/notenexus/notenexus/internal/client/config"
	"github.com/notenexus/notenexus/internal/identity"
	"github.com/notenexus/notenexus/internal/logging"
	"github.com/notenexus/notenexus/internal/models"
	"github.com/notenexus/notenexus/internal/session"
	"github.com/notenexus/notenexus/internal/snapshot"
	"github.com/notenexus/notenexus/internal/store"
	"github.com/notenexus/notenexus/internal/upi"
)

// scriptInput replaces the interactive prompt with canned answers.
func scriptInput(t *testing.T, answers ...string) {
	t.Helper()
	orig := getSimpleText
	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			t.Fatalf("unexpected prompt, only %d answers scripted", len(answers))
		}
		a := answers[i]
		i++
		return a, nil
	}
	t.Cleanup(func() { getSimpleText = orig })
}

func stubPassword(t *testing.T, pw []byte) {
	t.Helper()
	orig := getPassword
	getPassword = func(_ io.Writer) ([]byte, error) { return pw, nil }
	t.Cleanup(func() { getPassword = orig })
}

type noopMailer struct{}

func (noopMailer) SendCode(ctx context.Context, toEmail, toName, code string) error { return nil }

func newTestApp(t *testing.T) *App {
	t.Helper()
	silencePrintln(t)

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.VerifyDelay = 0
	cfg.AdminEmail = "admin@example.com"
	cfg.AdminSecret = "naveed11@"

	log := logging.NewTextLogger(io.Discard)
	snap, err := snapshot.Open(context.Background(), "file:cli_"+strings.ReplaceAll(t.Name(), "/", "_")+"?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = snap.Close() })

	rs := store.NewDisabled()
	sess := session.New(log, rs, snap, session.Options{
		RevenueSharePercent: cfg.RevenueSharePercent,
		MinWithdrawal:       cfg.MinWithdrawal,
		SellerEmail:         cfg.AdminEmail,
		VerifyDelay:         0,
	})
	require.NoError(t, sess.Start(context.Background()))

	creds := identity.StaticCredentials{
		Email:  cfg.AdminEmail,
		Name:   "Admin",
		Secret: []byte(cfg.AdminSecret),
	}

	return &App{
		config:   cfg,
		log:      log,
		snap:     snap,
		session:  sess,
		resolver: identity.NewResolver(log, rs, creds, noopMailer{}),
		accrual:  adspot.New(sess),
		payee:    upi.Payee{VPA: "notenexus@upi", Name: "NoteNexus"},
		reader:   bufio.NewReader(strings.NewReader("")),
	}
}

func TestLogin_Admin(t *testing.T) {
	a := newTestApp(t)
	scriptInput(t, "admin@example.com")
	stubPassword(t, []byte("naveed11@"))

	require.NoError(t, a.Login(context.Background()))

	assert.True(t, a.isLoggedIn())
	assert.True(t, a.isAdmin())
	assert.NotEmpty(t, a.token)
	assert.Contains(t, a.status(), "admin")
}

func TestBuy_FullWorkflow(t *testing.T) {
	a := newTestApp(t)
	a.session.SetProfile(context.Background(), models.Profile{ID: "u1", Name: "Alice", Email: "alice@example.com"})

	scriptInput(t, "1", "UTR123456")
	require.NoError(t, a.Buy(context.Background()))

	assert.True(t, a.session.Profile().Owns("1"))
}

func TestBuy_EmptyProofCancels(t *testing.T) {
	a := newTestApp(t)
	a.session.SetProfile(context.Background(), models.Profile{ID: "u1"})

	scriptInput(t, "1", "")
	require.NoError(t, a.Buy(context.Background()))

	assert.False(t, a.session.Profile().Owns("1"))

	// the cancelled workflow does not block a later attempt
	scriptInput(t, "1", "UTR999999")
	require.NoError(t, a.Buy(context.Background()))
	assert.True(t, a.session.Profile().Owns("1"))
}

func TestBuy_RequiresLogin(t *testing.T) {
	a := newTestApp(t)
	err := a.Buy(context.Background())
	assert.ErrorIs(t, err, errNotLoggedIn)
}

func TestRate_UpdatesCatalog(t *testing.T) {
	a := newTestApp(t)
	a.session.SetProfile(context.Background(), models.Profile{ID: "u1"})

	before, _ := a.session.Note("3")
	scriptInput(t, "3")
	// GetFloat reads the score from the app reader directly
	a.reader = bufio.NewReader(strings.NewReader("5\n"))
	require.NoError(t, a.Rate(context.Background()))

	after, _ := a.session.Note("3")
	assert.Equal(t, before.RatingCount+1, after.RatingCount)
}

func TestAdminCommands_RejectNonAdmin(t *testing.T) {
	a := newTestApp(t)
	a.session.SetProfile(context.Background(), models.Profile{ID: "u1", Role: models.RoleUser})
	ctx := context.Background()

	assert.ErrorIs(t, a.Upload(ctx), errAdminOnly)
	assert.ErrorIs(t, a.Delete(ctx), errAdminOnly)
	assert.ErrorIs(t, a.Withdraw(ctx), errAdminOnly)
	assert.ErrorIs(t, a.Ads(ctx, nil), errAdminOnly)
}

func TestAds_ToggleAndCPM(t *testing.T) {
	a := newTestApp(t)
	a.session.SetProfile(context.Background(), models.Profile{ID: "admin-001", Role: models.RoleAdmin})
	ctx := context.Background()

	require.NoError(t, a.Ads(ctx, []string{"on"}))
	assert.True(t, a.session.AdConfig().Enabled)

	require.NoError(t, a.Ads(ctx, []string{"cpm", "25"}))
	assert.Equal(t, 25.0, a.session.AdConfig().CPM)

	assert.Error(t, a.Ads(ctx, []string{"cpm", "abc"}))
	assert.Error(t, a.Ads(ctx, []string{"bogus"}))

	require.NoError(t, a.Ads(ctx, []string{"off"}))
	assert.False(t, a.session.AdConfig().Enabled)
}

func TestWithdraw_Admin(t *testing.T) {
	a := newTestApp(t)
	a.session.SetProfile(context.Background(), models.Profile{
		ID: "admin-001", Role: models.RoleAdmin, Balance: 450.75, AdRevenue: 120.25,
	})

	require.NoError(t, a.Withdraw(context.Background()))
	p := a.session.Profile()
	assert.Zero(t, p.Balance)
	assert.Zero(t, p.AdRevenue)
}

func TestLogout_ClearsSession(t *testing.T) {
	a := newTestApp(t)
	a.session.SetProfile(context.Background(), models.Profile{ID: "u1", Name: "Alice"})
	a.token = "tok"

	require.NoError(t, a.Logout(context.Background()))
	assert.False(t, a.isLoggedIn())
	assert.Empty(t, a.token)
	assert.Equal(t, "guest", a.status())
}
