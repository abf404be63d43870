// Package audit records security- and inventory-relevant events (logins,
// asset mutations, expiry detections, device reachability transitions) to the
// audit_log table. Audit records are intentionally separate from application
// logs — application logs are ephemeral debug output consumed by on-call
// engineers, while the audit trail is an immutable record queried through the
// API and subject to retention requirements.
package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/asset-inventory/asset-inventory/internal/db/models"
	"github.com/asset-inventory/asset-inventory/internal/db/repositories"
	"github.com/asset-inventory/asset-inventory/internal/safego"
)

// writeTimeout bounds each audit insert so a stalled database cannot pile up
// background goroutines indefinitely.
const writeTimeout = 5 * time.Second

// Recorder writes audit entries asynchronously. A failed write is logged and
// dropped rather than propagated: audit logging must never fail the operation
// it describes.
type Recorder struct {
	repo *repositories.AuditRepository
	wg   sync.WaitGroup
}

func NewRecorder(repo *repositories.AuditRepository) *Recorder {
	return &Recorder{repo: repo}
}

// Record persists the entry in a background goroutine and returns immediately.
func (r *Recorder) Record(entry *models.AuditLog) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	r.wg.Add(1)
	safego.Go(func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		defer cancel()

		if err := r.repo.CreateAuditLog(ctx, entry); err != nil {
			slog.Error("failed to write audit log entry",
				"action", entry.Action,
				"entity_type", entry.EntityType,
				"error", err)
		}
	})
}

// RecordUser records an action performed by an authenticated user. The
// username is denormalized into the entry so it survives user deletion.
func (r *Recorder) RecordUser(user *models.User, action, entityType string, entityID *string, details map[string]interface{}) {
	entry := &models.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if user != nil {
		userID := user.ID
		username := user.Username
		entry.UserID = &userID
		entry.Username = &username
	}
	r.Record(entry)
}

// RecordSystem records an action with no acting user, such as an expiry
// detection or a reachability transition found by the monitoring jobs.
func (r *Recorder) RecordSystem(action, entityType string, entityID *string, details map[string]interface{}) {
	r.Record(&models.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	})
}

// Drain blocks until all in-flight writes have completed. Called during
// graceful shutdown so pending entries are not lost.
func (r *Recorder) Drain() {
	r.wg.Wait()
}
