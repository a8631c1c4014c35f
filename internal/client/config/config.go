package config

import "time"

// Config holds runtime settings for the NoteNexus CLI.
//
// An empty DatabaseDSN runs the client without a remote record store; the
// local snapshot then carries the catalog as well as the session profile.
type Config struct {
	// DatabaseDSN is the Postgres connection string of the remote record
	// store. Empty disables the remote backend.
	DatabaseDSN string

	// SnapshotPath is the sqlite DSN of the local session snapshot.
	SnapshotPath string

	// Reserved admin identity. AdminSecret is compared, never stored.
	AdminEmail  string
	AdminName   string
	AdminSecret string

	// JWTSecret signs session tokens; TokenTTL bounds their lifetime.
	JWTSecret string
	TokenTTL  time.Duration

	// Verification mail provider (EmailJS-compatible).
	MailBaseURL    string
	MailServiceID  string
	MailTemplateID string
	MailPublicKey  string

	// Study-helper model endpoint.
	InsightBaseURL string
	InsightModel   string
	InsightAPIKey  string

	// Document object storage.
	S3Region    string
	S3Bucket    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string

	// Payment presentation.
	UPIAddress   string
	UPIPayeeName string

	// Marketplace economics.
	RevenueSharePercent float64
	MinWithdrawal       float64
	AdCPM               float64

	// VerifyDelay is the simulated payment verification pause.
	VerifyDelay time.Duration
}

// LoadDefaults populates c with the demo deployment defaults.
func (c *Config) LoadDefaults() {
	c.DatabaseDSN = ""
	c.SnapshotPath = "notenexus.db"

	c.AdminEmail = "naveedmir211@gmail.com"
	c.AdminName = "Naveed Mir"
	c.AdminSecret = "naveed11@"

	c.JWTSecret = "dev-only-secret"
	c.TokenTTL = 24 * time.Hour

	c.InsightModel = "gemini-2.0-flash"

	c.UPIAddress = "notenexus@upi"
	c.UPIPayeeName = "NoteNexus"

	c.RevenueSharePercent = 80
	c.MinWithdrawal = 100
	c.AdCPM = 10

	c.VerifyDelay = 2500 * time.Millisecond
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
