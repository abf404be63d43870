// prober.go implements the device reachability prober. Devices that have
// never been probed (online is NULL) are treated as previously up, so the
// first failed probe of a new device raises a DOWN transition immediately
// while the first successful probe stays quiet.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/asset-inventory/asset-inventory/internal/db/models"
	"github.com/asset-inventory/asset-inventory/internal/telemetry"
)

// probeConcurrency bounds simultaneous ICMP probes so a large inventory does
// not open hundreds of raw sockets at once.
const probeConcurrency = 16

// ReachabilityProber pings every device with an IP address and records
// reachability transitions.
type ReachabilityProber struct {
	store      AssetStore
	users      UserDirectory
	recorder   Recorder
	dispatcher Dispatcher
	pinger     Pinger
}

func NewReachabilityProber(store AssetStore, users UserDirectory, recorder Recorder, dispatcher Dispatcher, pinger Pinger) *ReachabilityProber {
	return &ReachabilityProber{
		store:      store,
		users:      users,
		recorder:   recorder,
		dispatcher: dispatcher,
		pinger:     pinger,
	}
}

// Run performs one probe cycle over all devices. Per-device failures are
// logged and the cycle continues.
func (p *ReachabilityProber) Run(ctx context.Context) error {
	start := time.Now()

	devices, err := p.store.ListProbeTargets(ctx)
	if err != nil {
		return fmt.Errorf("failed to list probe targets: %w", err)
	}

	sem := make(chan struct{}, probeConcurrency)
	var wg sync.WaitGroup
	for _, d := range devices {
		wg.Add(1)
		sem <- struct{}{}
		go func(d *models.DeviceWithAsset) {
			defer wg.Done()
			defer func() { <-sem }()
			p.probeDevice(ctx, d)
		}(d)
	}
	wg.Wait()

	slog.Info("reachability probe cycle completed",
		"devices", len(devices),
		"duration", time.Since(start))
	return nil
}

func (p *ReachabilityProber) probeDevice(ctx context.Context, d *models.DeviceWithAsset) {
	if d.IPAddress == nil || *d.IPAddress == "" {
		return
	}
	ip := *d.IPAddress

	online := p.pinger.Ping(ctx, ip)
	if online {
		telemetry.DeviceProbesTotal.WithLabelValues("up").Inc()
	} else {
		telemetry.DeviceProbesTotal.WithLabelValues("down").Inc()
	}

	// Unknown counts as up, so unreachable new devices alert on first probe.
	wasOnline := d.OnlineState() != models.OnlineDown

	if online || wasOnline {
		if err := p.store.SetDeviceOnline(ctx, d.ID, online); err != nil {
			slog.Error("failed to record probe result", "device_id", d.ID, "ip", ip, "error", err)
			return
		}
	}

	switch {
	case online && !wasOnline:
		p.recordTransition(ctx, d, ip, models.ActionDeviceUp,
			fmt.Sprintf("Device %q (IP %s) is now reachable.", d.AssetName, ip),
			fmt.Sprintf("Device %s is back online", d.AssetName))
		telemetry.DeviceTransitionsTotal.WithLabelValues("up").Inc()
	case !online && wasOnline:
		p.recordTransition(ctx, d, ip, models.ActionDeviceDown,
			fmt.Sprintf("Device %q (IP %s) is not reachable!", d.AssetName, ip),
			fmt.Sprintf("Device %s is DOWN", d.AssetName))
		telemetry.DeviceTransitionsTotal.WithLabelValues("down").Inc()
	}
}

func (p *ReachabilityProber) recordTransition(ctx context.Context, d *models.DeviceWithAsset, ip, action, message, subject string) {
	assetID := d.AssetID
	p.recorder.RecordSystem(action, "asset", &assetID, map[string]interface{}{
		"name":       d.AssetName,
		"ip_address": ip,
		"message":    message,
	})

	if d.Responsible != nil && *d.Responsible != "" {
		email, err := p.users.FindEmailByUsername(ctx, *d.Responsible)
		if err != nil {
			slog.Error("failed to resolve responsible party", "username", *d.Responsible, "error", err)
		} else if email != "" {
			p.dispatcher.SendEmail(ctx, email, subject, message)
		}
	}
	p.dispatcher.SendBroadcast(ctx, message)
}
