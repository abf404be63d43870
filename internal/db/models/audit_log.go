// Package models - audit_log.go defines the AuditLog model for recording who
// changed what, capturing actor, action, affected entity, and a JSONB snapshot.
package models

import "time"

// Audit actions recorded by handlers and the monitoring jobs.
const (
	ActionCreate        = "CREATE"
	ActionUpdate        = "UPDATE"
	ActionDelete        = "DELETE"
	ActionLogin         = "LOGIN"
	ActionExpired       = "EXPIRED"
	ActionExpiryWarning = "EXPIRY_WARNING"
	ActionDeviceUp      = "DEVICE_UP"
	ActionDeviceDown    = "DEVICE_DOWN"
)

// AuditLog represents an audit log entry for tracking user and system actions
type AuditLog struct {
	ID         string
	UserID     *string // Nullable for system actions (monitoring jobs)
	Username   *string // Denormalized so entries survive user deletion
	Action     string  // "CREATE", "UPDATE", "DELETE", "LOGIN", "EXPIRED", ...
	EntityType string  // "asset", "project", "location", "user", "auth"
	EntityID   *string
	// Details is the JSONB payload: identifying fields of the entity, plus
	// "old"/"new" changed-field snapshots on UPDATE entries.
	Details map[string]interface{}
	CreatedAt  time.Time
}
