package repositories

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/asset-inventory/asset-inventory/internal/db/models"
)

// ---------------------------------------------------------------------------
// Column definitions
// ---------------------------------------------------------------------------

var projectCols = []string{"id", "name", "description", "created_at", "updated_at"}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newProjectRepo(t *testing.T) (*ProjectRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewProjectRepository(db), mock
}

func sampleProjectRow() *sqlmock.Rows {
	return sqlmock.NewRows(projectCols).
		AddRow("proj-1", "Production", "Customer-facing infrastructure", time.Now(), time.Now())
}

// ---------------------------------------------------------------------------
// CreateProject
// ---------------------------------------------------------------------------

func TestCreateProject_Success(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectExec("INSERT INTO projects").
		WillReturnResult(sqlmock.NewResult(1, 1))

	project := &models.Project{Name: "Production"}
	if err := repo.CreateProject(context.Background(), project); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project.ID == "" {
		t.Error("expected generated ID, got empty string")
	}
}

func TestCreateProject_DBError(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectExec("INSERT INTO projects").
		WillReturnError(errDB)

	if err := repo.CreateProject(context.Background(), &models.Project{Name: "x"}); err == nil {
		t.Error("expected error, got nil")
	}
}

// ---------------------------------------------------------------------------
// GetProjectByID / GetProjectByName
// ---------------------------------------------------------------------------

func TestGetProjectByID_Found(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectQuery("SELECT id.*FROM projects.*WHERE id").
		WillReturnRows(sampleProjectRow())

	project, err := repo.GetProjectByID(context.Background(), "proj-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project == nil {
		t.Fatal("expected project, got nil")
	}
	if project.Name != "Production" {
		t.Errorf("Name = %q, want Production", project.Name)
	}
}

func TestGetProjectByID_NotFound(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectQuery("SELECT id.*FROM projects.*WHERE id").
		WillReturnRows(sqlmock.NewRows(projectCols))

	project, err := repo.GetProjectByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project != nil {
		t.Errorf("expected nil, got %v", project)
	}
}

func TestGetProjectByName_Found(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectQuery("SELECT id.*FROM projects.*WHERE name").
		WillReturnRows(sampleProjectRow())

	project, err := repo.GetProjectByName(context.Background(), "Production")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if project == nil {
		t.Fatal("expected project, got nil")
	}
}

// ---------------------------------------------------------------------------
// UpdateProject / DeleteProject / ListProjects
// ---------------------------------------------------------------------------

func TestUpdateProject_Success(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectExec("UPDATE projects").
		WillReturnResult(sqlmock.NewResult(0, 1))

	project := &models.Project{ID: "proj-1", Name: "Staging"}
	if err := repo.UpdateProject(context.Background(), project); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteProject_Success(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectExec("DELETE FROM projects").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteProject(context.Background(), "proj-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListProjects_Success(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM projects").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT id.*FROM projects").
		WillReturnRows(sampleProjectRow())

	projects, total, err := repo.ListProjects(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("total = %d, want 1", total)
	}
	if len(projects) != 1 {
		t.Errorf("len(projects) = %d, want 1", len(projects))
	}
}

func TestListProjects_CountError(t *testing.T) {
	repo, mock := newProjectRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM projects").
		WillReturnError(errDB)

	_, _, err := repo.ListProjects(context.Background(), 10, 0)
	if err == nil {
		t.Error("expected error, got nil")
	}
}
