package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/asset-inventory/asset-inventory/internal/audit"
	"github.com/asset-inventory/asset-inventory/internal/db/models"
	"github.com/asset-inventory/asset-inventory/internal/db/repositories"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ---------------------------------------------------------------------------
// Shared test helpers
// ---------------------------------------------------------------------------

// errDB is a sentinel error for DB failures in tests.
var errDB = &dbError{"database error"}

type dbError struct{ msg string }

func (e *dbError) Error() string { return e.msg }

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// newRecorder builds an audit recorder backed by its own mock database. API
// tests assert handler behavior, not audit writes; the recorder's background
// inserts run against this throwaway connection.
func newRecorder(t *testing.T) *audit.Recorder {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	mock.MatchExpectationsInOrder(false)
	t.Cleanup(func() { db.Close() })
	return audit.NewRecorder(repositories.NewAuditRepository(db))
}

// recordedEntry captures one audit write made by a handler under test.
type recordedEntry struct {
	action     string
	entityType string
	entityID   *string
	details    map[string]interface{}
}

// captureRecorder is an in-memory AuditRecorder for asserting what handlers
// write to the audit trail.
type captureRecorder struct {
	entries []recordedEntry
}

func (r *captureRecorder) RecordUser(user *models.User, action, entityType string, entityID *string, details map[string]interface{}) {
	r.entries = append(r.entries, recordedEntry{
		action:     action,
		entityType: entityType,
		entityID:   entityID,
		details:    details,
	})
}

// asUser wraps handlers with a middleware that injects an authenticated user
// into the gin context, standing in for AuthMiddleware.
func asUser(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := &models.User{
			ID:       "user-1",
			Username: "tester",
			Role:     role,
		}
		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("username", user.Username)
		c.Set("role", user.Role)
		c.Next()
	}
}

func jsonBody(v interface{}) *bytes.Buffer {
	b, _ := json.Marshal(v)
	return bytes.NewBuffer(b)
}

func getJSON(resp *httptest.ResponseRecorder) map[string]interface{} {
	var m map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &m)
	return m
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

// testTime is a fixed timestamp used in sample rows.
var testTime = time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
