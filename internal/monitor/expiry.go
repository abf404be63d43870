// expiry.go implements the expiration scanner. Expiry dates are date-only
// values stored at midnight UTC; the day arithmetic below floors toward
// negative infinity so an asset counts as expired from the first moment of
// the day after its expiry date.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/asset-inventory/asset-inventory/internal/db/models"
	"github.com/asset-inventory/asset-inventory/internal/telemetry"
)

// defaultWarningDays is the warning window applied when none is configured.
const defaultWarningDays = 14

// ExpiryScanner walks all license and certificate assets and flags those past
// or approaching their expiry date. Classification is recomputed from scratch
// on every run, so an expired asset is reported again each day until it is
// renewed or decommissioned.
type ExpiryScanner struct {
	store       AssetStore
	users       UserDirectory
	recorder    Recorder
	dispatcher  Dispatcher
	warningDays int

	// now is swappable in tests.
	now func() time.Time
}

func NewExpiryScanner(store AssetStore, users UserDirectory, recorder Recorder, dispatcher Dispatcher, warningDays int) *ExpiryScanner {
	if warningDays <= 0 {
		warningDays = defaultWarningDays
	}
	return &ExpiryScanner{
		store:       store,
		users:       users,
		recorder:    recorder,
		dispatcher:  dispatcher,
		warningDays: warningDays,
		now:         time.Now,
	}
}

// Run performs one full scan. Errors on individual assets are logged and the
// scan continues; only a failure to list assets aborts the run.
func (s *ExpiryScanner) Run(ctx context.Context) error {
	start := s.now()
	defer func() {
		telemetry.ExpiryScanDuration.Observe(time.Since(start).Seconds())
	}()

	assets, err := s.store.ListExpiringAssets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list expirable assets: %w", err)
	}

	now := s.now().UTC()
	var expired, warnings int
	for _, a := range assets {
		days := daysUntil(now, a.ExpiryDate)
		if days > s.warningDays {
			continue
		}

		dateStr := a.ExpiryDate.Format("2006-01-02")
		var action, message, subject string
		if days < 0 {
			action = models.ActionExpired
			message = fmt.Sprintf("Asset %q (Type: %s) has expired on %s.", a.AssetName, a.AssetType, dateStr)
			subject = fmt.Sprintf("Asset %s expired", a.AssetName)
			expired++
		} else {
			action = models.ActionExpiryWarning
			message = fmt.Sprintf("Asset %q (Type: %s) is expiring on %s (in %d days).", a.AssetName, a.AssetType, dateStr, days)
			subject = fmt.Sprintf("Asset %s expiring soon", a.AssetName)
			warnings++
		}

		assetID := a.AssetID
		s.recorder.RecordSystem(action, "asset", &assetID, map[string]interface{}{
			"name":        a.AssetName,
			"type":        a.AssetType,
			"expiry_date": dateStr,
			"message":     message,
		})
		telemetry.ExpiryEventsTotal.WithLabelValues(action).Inc()

		if email := s.responsibleEmail(ctx, a.Responsible); email != "" {
			s.dispatcher.SendEmail(ctx, email, subject, message)
		}
		s.dispatcher.SendBroadcast(ctx, message)
	}

	slog.Info("expiration scan completed",
		"assets_checked", len(assets),
		"expired", expired,
		"warnings", warnings,
		"duration", time.Since(start))
	return nil
}

// responsibleEmail resolves the responsible party's email. Lookup failures
// are logged and treated as no recipient; the broadcast still goes out.
func (s *ExpiryScanner) responsibleEmail(ctx context.Context, responsible *string) string {
	if responsible == nil || *responsible == "" {
		return ""
	}
	email, err := s.users.FindEmailByUsername(ctx, *responsible)
	if err != nil {
		slog.Error("failed to resolve responsible party", "username", *responsible, "error", err)
		return ""
	}
	return email
}

// daysUntil returns the whole number of days from now until expiry, floored
// toward negative infinity: -1 means the expiry date has passed.
func daysUntil(now, expiry time.Time) int {
	return int(math.Floor(expiry.Sub(now).Hours() / 24))
}
