package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/notenexus/notenexus/internal/flagx"
	"github.com/notenexus/notenexus/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify intervals either as strings like
// "2.5s" or as integer nanoseconds. After parsing, values are copied into
// the runtime Config (which uses time.Duration).
type JsonConfig struct {
	DatabaseDSN  string `json:"database_dsn"`
	SnapshotPath string `json:"snapshot_path"`

	AdminEmail  string `json:"admin_email"`
	AdminName   string `json:"admin_name"`
	AdminSecret string `json:"admin_secret"`

	JWTSecret string         `json:"jwt_secret"`
	TokenTTL  timex.Duration `json:"token_ttl"`

	MailBaseURL    string `json:"mail_base_url"`
	MailServiceID  string `json:"mail_service_id"`
	MailTemplateID string `json:"mail_template_id"`
	MailPublicKey  string `json:"mail_public_key"`

	InsightBaseURL string `json:"insight_base_url"`
	InsightModel   string `json:"insight_model"`
	InsightAPIKey  string `json:"insight_api_key"`

	S3Region    string `json:"s3_region"`
	S3Bucket    string `json:"s3_bucket"`
	S3Endpoint  string `json:"s3_endpoint"`
	S3AccessKey string `json:"s3_access_key"`
	S3SecretKey string `json:"s3_secret_key"`

	UPIAddress   string `json:"upi_address"`
	UPIPayeeName string `json:"upi_payee_name"`

	RevenueSharePercent *float64 `json:"revenue_share_percent"`
	MinWithdrawal       *float64 `json:"min_withdrawal"`
	AdCPM               *float64 `json:"ad_cpm"`

	VerifyDelay timex.Duration `json:"verify_delay"`
}

// parseJson overlays Config with values loaded from a JSON file located
// via the -c or -config flags. Missing file path means no JSON overlay.
// String fields overlay only when non-empty, numeric fields only when
// present, so a sparse file keeps the defaults. Panics on read or
// unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setString(&cfg.SnapshotPath, jc.SnapshotPath)
	setString(&cfg.AdminEmail, jc.AdminEmail)
	setString(&cfg.AdminName, jc.AdminName)
	setString(&cfg.AdminSecret, jc.AdminSecret)
	setString(&cfg.JWTSecret, jc.JWTSecret)
	setString(&cfg.MailBaseURL, jc.MailBaseURL)
	setString(&cfg.MailServiceID, jc.MailServiceID)
	setString(&cfg.MailTemplateID, jc.MailTemplateID)
	setString(&cfg.MailPublicKey, jc.MailPublicKey)
	setString(&cfg.InsightBaseURL, jc.InsightBaseURL)
	setString(&cfg.InsightModel, jc.InsightModel)
	setString(&cfg.InsightAPIKey, jc.InsightAPIKey)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.UPIAddress, jc.UPIAddress)
	setString(&cfg.UPIPayeeName, jc.UPIPayeeName)

	if jc.RevenueSharePercent != nil {
		cfg.RevenueSharePercent = *jc.RevenueSharePercent
	}
	if jc.MinWithdrawal != nil {
		cfg.MinWithdrawal = *jc.MinWithdrawal
	}
	if jc.AdCPM != nil {
		cfg.AdCPM = *jc.AdCPM
	}
	if jc.TokenTTL.Duration != 0 {
		cfg.TokenTTL = time.Duration(jc.TokenTTL.Duration)
	}
	if jc.VerifyDelay.Duration != 0 {
		cfg.VerifyDelay = time.Duration(jc.VerifyDelay.Duration)
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
