package models

// AdConfig is the process-wide monetization configuration. It is a
// singleton per session, loaded from the snapshot at startup and persisted
// on every mutation. ImpressionCount is monotonic.
type AdConfig struct {
	Enabled         bool    `json:"enabled"`
	CPM             float64 `json:"cpm"`
	ImpressionCount int64   `json:"impressionCount"`
}
