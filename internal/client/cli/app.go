package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/notenexus/notenexus/internal/adspot"
	"github.com/notenexus/notenexus/internal/client/config"
	"github.com/notenexus/notenexus/internal/common"
	"github.com/notenexus/notenexus/internal/docstore"
	"github.com/notenexus/notenexus/internal/identity"
	"github.com/notenexus/notenexus/internal/insight"
	"github.com/notenexus/notenexus/internal/logging"
	"github.com/notenexus/notenexus/internal/mailer"
	"github.com/notenexus/notenexus/internal/models"
	"github.com/notenexus/notenexus/internal/session"
	"github.com/notenexus/notenexus/internal/snapshot"
	"github.com/notenexus/notenexus/internal/store"
	"github.com/notenexus/notenexus/internal/upi"
)

// App is the interactive client. It owns the session, the identity
// resolver, and the optional outward collaborators (mail, insight,
// document storage); command handlers live in auth.go, market.go, and
// admin.go.
type App struct {
	config   *config.Config
	log      logging.Logger
	snap     *snapshot.Store
	session  *session.Session
	resolver *identity.Resolver
	accrual  *adspot.Accrual
	mail     *mailer.Client
	insight  *insight.Client // nil when no API key is configured
	docs     *docstore.Store // nil when no bucket is configured
	payee    upi.Payee

	token  string
	reader *bufio.Reader
}

// NewApp wires an App from configuration. The remote record store is
// optional; without a DSN the client runs snapshot-only.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	log := logging.NewTextLogger(os.Stderr)

	snap, err := snapshot.Open(ctx, cfg.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}

	var rs store.RecordStore = store.NewDisabled()
	if cfg.DatabaseDSN != "" {
		db, err := store.OpenPostgres(cfg.DatabaseDSN)
		if err != nil {
			log.Warn(ctx, "remote store unavailable, running locally", "err", err)
		} else if err := store.RunMigrations(ctx, db); err != nil {
			log.Warn(ctx, "remote store migration failed, running locally", "err", err)
			_ = db.Close()
		} else {
			rs = store.NewPostgres(db)
		}
	}

	sess := session.New(log, rs, snap, session.Options{
		RevenueSharePercent: cfg.RevenueSharePercent,
		MinWithdrawal:       cfg.MinWithdrawal,
		SellerEmail:         identity.NormalizeEmail(cfg.AdminEmail),
		VerifyDelay:         cfg.VerifyDelay,
		DefaultCPM:          cfg.AdCPM,
		RemoteConfigured:    cfg.DatabaseDSN != "",
	})
	if err := sess.Start(ctx); err != nil {
		_ = snap.Close()
		return nil, err
	}

	mail := mailer.NewClient(mailer.Config{
		BaseURL:    cfg.MailBaseURL,
		ServiceID:  cfg.MailServiceID,
		TemplateID: cfg.MailTemplateID,
		PublicKey:  cfg.MailPublicKey,
	})

	creds := identity.StaticCredentials{
		Email:  cfg.AdminEmail,
		Name:   cfg.AdminName,
		Secret: []byte(cfg.AdminSecret),
	}

	app := &App{
		config:   cfg,
		log:      log,
		snap:     snap,
		session:  sess,
		resolver: identity.NewResolver(log, rs, creds, mail),
		accrual:  adspot.New(sess),
		mail:     mail,
		payee:    upi.Payee{VPA: cfg.UPIAddress, Name: cfg.UPIPayeeName},
		reader:   bufio.NewReader(os.Stdin),
	}

	if cfg.InsightAPIKey != "" {
		app.insight = insight.NewClient(insight.Config{
			BaseURL: cfg.InsightBaseURL,
			Model:   cfg.InsightModel,
			APIKey:  cfg.InsightAPIKey,
		})
	}
	if cfg.S3Bucket != "" {
		app.docs = docstore.New(docstore.Config{
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3Endpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
	}

	app.resumeSession(ctx)
	return app, nil
}

// resumeSession restores the previous login from the snapshot, if any.
func (a *App) resumeSession(ctx context.Context) {
	p, err := a.snap.LoadProfile(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			a.log.Warn(ctx, "failed to restore session", "err", err)
		}
		return
	}
	a.session.SetProfile(ctx, p)
	printlnFn("Welcome back,", p.Name)
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

func (a *App) isAdmin() bool {
	return a.session.Profile().Role == models.RoleAdmin
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	printlnFn("NoteNexus CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "guest"
	}
	p := a.session.Profile()
	return fmt.Sprintf("%s (%s)", p.Name, p.Role)
}

// Close releases the snapshot and the outbound HTTP clients.
func (a *App) Close() error {
	if a.insight != nil {
		_ = a.insight.Close()
	}
	if a.mail != nil {
		_ = a.mail.Close()
	}
	return a.snap.Close()
}
