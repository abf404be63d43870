package repositories

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func newStatsRepo(t *testing.T) (*StatsRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStatsRepository(db), mock
}

func countRow(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"count"}).AddRow(n)
}

// ---------------------------------------------------------------------------
// GetDashboardStats
// ---------------------------------------------------------------------------

func TestGetDashboardStats_Success(t *testing.T) {
	repo, mock := newStatsRepo(t)

	mock.ExpectQuery("SELECT COUNT.*FROM assets").WillReturnRows(countRow(5))
	mock.ExpectQuery("SELECT COUNT.*FROM projects").WillReturnRows(countRow(2))
	mock.ExpectQuery("SELECT COUNT.*FROM locations").WillReturnRows(countRow(3))
	mock.ExpectQuery("SELECT type, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"type", "count"}).
			AddRow("DEVICE", 3).
			AddRow("LICENSE", 2))
	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow(1, 4).
			AddRow(3, 1))
	mock.ExpectQuery("FROM devices").
		WillReturnRows(sqlmock.NewRows([]string{"online", "offline", "unknown"}).
			AddRow(2, 1, 0))
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(countRow(1))

	stats, err := repo.GetDashboardStats(context.Background(), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.TotalAssets != 5 {
		t.Errorf("TotalAssets = %d, want 5", stats.TotalAssets)
	}
	if stats.TotalProjects != 2 {
		t.Errorf("TotalProjects = %d, want 2", stats.TotalProjects)
	}
	if len(stats.ByType) != 2 {
		t.Errorf("len(ByType) = %d, want 2", len(stats.ByType))
	}
	if stats.Devices.Online != 2 || stats.Devices.Offline != 1 {
		t.Errorf("Devices = %+v, want online=2 offline=1", stats.Devices)
	}
	if stats.ExpiringSoon != 1 {
		t.Errorf("ExpiringSoon = %d, want 1", stats.ExpiringSoon)
	}
}

func TestGetDashboardStats_Error(t *testing.T) {
	repo, mock := newStatsRepo(t)
	mock.ExpectQuery("SELECT COUNT.*FROM assets").WillReturnError(errDB)

	_, err := repo.GetDashboardStats(context.Background(), 30)
	if err == nil {
		t.Error("expected error, got nil")
	}
}
