// Package monitor implements the two background jobs that watch the
// inventory: the expiration scanner, which walks license and certificate
// expiry dates once a day, and the reachability prober, which pings every
// device with an IP address on a short interval. Both jobs write their
// findings to the audit trail and notify the asset's responsible party by
// email plus the operations chat.
package monitor

import (
	"context"

	"github.com/asset-inventory/asset-inventory/internal/db/models"
)

// AssetStore is the slice of the asset repository the monitoring jobs use.
type AssetStore interface {
	ListExpiringAssets(ctx context.Context) ([]*models.ExpiringAsset, error)
	ListProbeTargets(ctx context.Context) ([]*models.DeviceWithAsset, error)
	SetDeviceOnline(ctx context.Context, deviceID string, online bool) error
}

// UserDirectory resolves a responsible-party username to an email address.
// An empty string means the user is unknown or has no email on file.
type UserDirectory interface {
	FindEmailByUsername(ctx context.Context, username string) (string, error)
}

// Recorder writes monitoring findings to the audit trail.
type Recorder interface {
	RecordSystem(action, entityType string, entityID *string, details map[string]interface{})
}

// Dispatcher delivers notifications for monitoring findings. Both operations
// are best-effort; neither reports failure to the caller.
type Dispatcher interface {
	SendEmail(ctx context.Context, to, subject, body string)
	SendBroadcast(ctx context.Context, body string)
}
