package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/asset-inventory/asset-inventory/internal/db/models"
	"github.com/asset-inventory/asset-inventory/internal/db/repositories"
)

// ---------------------------------------------------------------------------
// Test setup helpers
// ---------------------------------------------------------------------------

var projectSQLCols = []string{"id", "name", "description", "created_at", "updated_at"}

func sampleProjectRow() *sqlmock.Rows {
	return sqlmock.NewRows(projectSQLCols).
		AddRow("proj-1", "datacenter-migration", "Lift and shift", testTime, testTime)
}

func emptyProjectRows() *sqlmock.Rows {
	return sqlmock.NewRows(projectSQLCols)
}

func newProjectRouter(t *testing.T) (sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()
	db, mock := newMockDB(t)

	h := NewProjectHandlers(repositories.NewProjectRepository(db), newRecorder(t))

	r := gin.New()
	r.Use(asUser(models.RoleEditor))
	r.GET("/projects", h.ListProjectsHandler())
	r.GET("/projects/:id", h.GetProjectHandler())
	r.POST("/projects", h.CreateProjectHandler())
	r.PUT("/projects/:id", h.UpdateProjectHandler())
	r.DELETE("/projects/:id", h.DeleteProjectHandler())

	return mock, r
}

// ---------------------------------------------------------------------------
// ListProjectsHandler
// ---------------------------------------------------------------------------

func TestListProjectsHandler_Success(t *testing.T) {
	mock, r := newProjectRouter(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM projects").
		WillReturnRows(sampleProjectRow())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/projects", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	resp := getJSON(w)
	if resp["projects"] == nil {
		t.Error("response missing 'projects' key")
	}
	if resp["pagination"] == nil {
		t.Error("response missing 'pagination' key")
	}
}

func TestListProjectsHandler_DBError(t *testing.T) {
	mock, r := newProjectRouter(t)

	mock.ExpectQuery("SELECT COUNT").WillReturnError(errDB)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/projects", nil))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

// ---------------------------------------------------------------------------
// GetProjectHandler
// ---------------------------------------------------------------------------

func TestGetProjectHandler_Success(t *testing.T) {
	mock, r := newProjectRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM projects").WithArgs("proj-1").
		WillReturnRows(sampleProjectRow())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/projects/proj-1", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := getJSON(w)
	project, ok := resp["project"].(map[string]interface{})
	if !ok {
		t.Fatal("response missing 'project'")
	}
	if project["name"] != "datacenter-migration" {
		t.Errorf("name = %v, want datacenter-migration", project["name"])
	}
}

func TestGetProjectHandler_NotFound(t *testing.T) {
	mock, r := newProjectRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM projects").WithArgs("missing").
		WillReturnRows(emptyProjectRows())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/projects/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

// ---------------------------------------------------------------------------
// CreateProjectHandler
// ---------------------------------------------------------------------------

func TestCreateProjectHandler_Success(t *testing.T) {
	mock, r := newProjectRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM projects").WithArgs("new-project").
		WillReturnRows(emptyProjectRows())
	mock.ExpectExec("INSERT INTO projects").
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/projects", jsonBody(map[string]interface{}{
		"name":        "new-project",
		"description": "A fresh start",
	})))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}
}

func TestCreateProjectHandler_DuplicateName(t *testing.T) {
	mock, r := newProjectRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM projects").WithArgs("datacenter-migration").
		WillReturnRows(sampleProjectRow())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/projects", jsonBody(map[string]interface{}{
		"name": "datacenter-migration",
	})))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestCreateProjectHandler_MissingName(t *testing.T) {
	_, r := newProjectRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/projects", jsonBody(map[string]interface{}{
		"description": "nameless",
	})))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

// ---------------------------------------------------------------------------
// UpdateProjectHandler
// ---------------------------------------------------------------------------

func TestUpdateProjectHandler_RenameConflict(t *testing.T) {
	mock, r := newProjectRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM projects").WithArgs("proj-1").
		WillReturnRows(sampleProjectRow())
	mock.ExpectQuery("SELECT (.+) FROM projects").WithArgs("taken").
		WillReturnRows(sqlmock.NewRows(projectSQLCols).
			AddRow("proj-2", "taken", nil, testTime, testTime))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/projects/proj-1", jsonBody(map[string]interface{}{
		"name": "taken",
	})))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestUpdateProjectHandler_Success(t *testing.T) {
	mock, r := newProjectRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM projects").WithArgs("proj-1").
		WillReturnRows(sampleProjectRow())
	mock.ExpectExec("UPDATE projects").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/projects/proj-1", jsonBody(map[string]interface{}{
		"name":        "datacenter-migration",
		"description": "Updated scope",
	})))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

// ---------------------------------------------------------------------------
// DeleteProjectHandler
// ---------------------------------------------------------------------------

func TestDeleteProjectHandler_Success(t *testing.T) {
	mock, r := newProjectRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM projects").WithArgs("proj-1").
		WillReturnRows(sampleProjectRow())
	mock.ExpectExec("DELETE FROM projects").WithArgs("proj-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/projects/proj-1", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestDeleteProjectHandler_NotFound(t *testing.T) {
	mock, r := newProjectRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM projects").WithArgs("missing").
		WillReturnRows(emptyProjectRows())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/projects/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
