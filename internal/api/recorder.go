// recorder.go defines the audit sink handlers write to. *audit.Recorder
// satisfies it in production wiring; tests substitute an in-memory capture.
package api

import (
	"github.com/asset-inventory/asset-inventory/internal/audit"
	"github.com/asset-inventory/asset-inventory/internal/db/models"
)

// AuditRecorder receives audit entries from request handlers.
type AuditRecorder interface {
	RecordUser(user *models.User, action, entityType string, entityID *string, details map[string]interface{})
}

// updateDetails merges the identifying fields of an updated entity with the
// changed-field diff of its mutation. When nothing changed, the entry carries
// only the identity.
func updateDetails(identity map[string]interface{}, before, after map[string]interface{}) map[string]interface{} {
	oldVals, newVals := audit.FieldDiff(before, after)
	if oldVals != nil {
		identity["old"] = oldVals
		identity["new"] = newVals
	}
	return identity
}
