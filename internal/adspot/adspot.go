// Package adspot implements ad impression accrual: each time monetized
// content is mounted into view, one impression is counted and its CPM
// share is credited to the viewer-facing profile's ad revenue stream.
package adspot

import (
	"context"

	"github.com/notenexus/notenexus/internal/models"
	"github.com/notenexus/notenexus/internal/session"
)

// Sink is the session surface the accrual writes through. *session.Session
// satisfies it.
type Sink interface {
	AdConfig() models.AdConfig
	SetAdConfig(ctx context.Context, cfg models.AdConfig) session.SyncResult
	CreditAdRevenue(ctx context.Context, cpm float64) session.SyncResult
}

// Accrual counts impressions against the current ad configuration.
type Accrual struct {
	sink Sink
}

// New returns an accrual writing through sink.
func New(sink Sink) *Accrual {
	return &Accrual{sink: sink}
}

// Enabled reports whether monetization is currently on.
func (a *Accrual) Enabled() bool { return a.sink.AdConfig().Enabled }

// SetEnabled flips the monetization toggle, keeping CPM and the running
// impression count intact.
func (a *Accrual) SetEnabled(ctx context.Context, on bool) session.SyncResult {
	cfg := a.sink.AdConfig()
	cfg.Enabled = on
	return a.sink.SetAdConfig(ctx, cfg)
}

// SetCPM updates the per-thousand-impressions rate. Takes effect for
// subsequent impressions only; already-credited revenue is never restated.
func (a *Accrual) SetCPM(ctx context.Context, cpm float64) session.SyncResult {
	cfg := a.sink.AdConfig()
	cfg.CPM = cpm
	return a.sink.SetAdConfig(ctx, cfg)
}

// OnContentMounted records one impression if monetization is enabled:
// the impression count grows by one and cpm/1000 lands on the profile's
// ad revenue. While disabled it is a no-op, so the count only ever
// reflects monetized views.
func (a *Accrual) OnContentMounted(ctx context.Context) session.SyncResult {
	cfg := a.sink.AdConfig()
	if !cfg.Enabled {
		return session.SyncResult{}
	}
	cfg.ImpressionCount++
	res := a.sink.SetAdConfig(ctx, cfg)
	return mergeResults(res, a.sink.CreditAdRevenue(ctx, cfg.CPM))
}

func mergeResults(a, b session.SyncResult) session.SyncResult {
	if a.MirrorErr != nil {
		return a
	}
	return b
}
