// audit_log.go implements read-only endpoints over the audit trail. Admin
// only; audit entries are never modified or deleted through the API.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asset-inventory/asset-inventory/internal/db/models"
	"github.com/asset-inventory/asset-inventory/internal/db/repositories"
)

// AuditHandlers handles audit log endpoints
type AuditHandlers struct {
	auditRepo *repositories.AuditRepository
}

func NewAuditHandlers(auditRepo *repositories.AuditRepository) *AuditHandlers {
	return &AuditHandlers{auditRepo: auditRepo}
}

// AuditLogView is the API representation of an audit log entry
type AuditLogView struct {
	ID         string                 `json:"id"`
	UserID     *string                `json:"user_id"`
	Username   *string                `json:"username"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *string                `json:"entity_id"`
	Details    map[string]interface{} `json:"details"`
	CreatedAt  string                 `json:"created_at"`
}

func auditLogView(e *models.AuditLog) AuditLogView {
	return AuditLogView{
		ID:         e.ID,
		UserID:     e.UserID,
		Username:   e.Username,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Details:    e.Details,
		CreatedAt:  e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// @Summary      List audit logs
// @Description  Returns audit log entries, newest first, with optional filters.
// @Tags         Audit
// @Security     Bearer
// @Produce      json
// @Param        user_id      query  string  false  "Acting user ID"
// @Param        action       query  string  false  "Action (CREATE, UPDATE, DELETE, LOGIN, EXPIRED, EXPIRY_WARNING, DEVICE_UP, DEVICE_DOWN)"
// @Param        entity_type  query  string  false  "Entity type (asset, project, location, user, auth)"
// @Param        entity_id    query  string  false  "Entity ID"
// @Param        start_date   query  string  false  "RFC 3339 lower bound"
// @Param        end_date     query  string  false  "RFC 3339 upper bound"
// @Param        page         query  int     false  "Page number (default 1)"
// @Param        per_page     query  int     false  "Items per page (default 20, max 100)"
// @Success      200  {object}  map[string]interface{}  "audit_logs, pagination"
// @Failure      403  {object}  map[string]interface{}  "Forbidden"
// @Router       /api/audit-logs [get]
// ListAuditLogsHandler returns audit log entries with filters and pagination
// GET /api/audit-logs
func (h *AuditHandlers) ListAuditLogsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := paginationParams(c)

		var filters repositories.AuditFilters
		if v := c.Query("user_id"); v != "" {
			filters.UserID = &v
		}
		if v := c.Query("action"); v != "" {
			filters.Action = &v
		}
		if v := c.Query("entity_type"); v != "" {
			filters.EntityType = &v
		}
		if v := c.Query("entity_id"); v != "" {
			filters.EntityID = &v
		}
		if v := c.Query("start_date"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Invalid start_date: must be RFC 3339",
				})
				return
			}
			filters.StartDate = &t
		}
		if v := c.Query("end_date"); v != "" {
			t, err := time.Parse(time.RFC3339, v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Invalid end_date: must be RFC 3339",
				})
				return
			}
			filters.EndDate = &t
		}

		logs, total, err := h.auditRepo.ListAuditLogs(c.Request.Context(), filters, perPage, (page-1)*perPage)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list audit logs",
			})
			return
		}

		views := make([]AuditLogView, 0, len(logs))
		for _, e := range logs {
			views = append(views, auditLogView(e))
		}

		c.JSON(http.StatusOK, gin.H{
			"audit_logs": views,
			"pagination": gin.H{
				"page":     page,
				"per_page": perPage,
				"total":    total,
			},
		})
	}
}

// @Summary      Get audit log entry
// @Tags         Audit
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Audit log ID"
// @Success      200  {object}  map[string]interface{}  "audit_log"
// @Failure      404  {object}  map[string]interface{}  "Audit log entry not found"
// @Router       /api/audit-logs/{id} [get]
// GetAuditLogHandler returns a single audit log entry
// GET /api/audit-logs/:id
func (h *AuditHandlers) GetAuditLogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logID := c.Param("id")

		entry, err := h.auditRepo.GetAuditLog(c.Request.Context(), logID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get audit log entry",
			})
			return
		}
		if entry == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Audit log entry not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"audit_log": auditLogView(entry),
		})
	}
}
