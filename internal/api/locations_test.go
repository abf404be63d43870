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

var locationSQLCols = []string{"id", "name", "address", "created_at", "updated_at"}

func sampleLocationRow() *sqlmock.Rows {
	return sqlmock.NewRows(locationSQLCols).
		AddRow("loc-1", "hq-server-room", "1 Example Street", testTime, testTime)
}

func newLocationRouter(t *testing.T) (sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()
	db, mock := newMockDB(t)

	h := NewLocationHandlers(repositories.NewLocationRepository(db), newRecorder(t))

	r := gin.New()
	r.Use(asUser(models.RoleEditor))
	r.GET("/locations", h.ListLocationsHandler())
	r.GET("/locations/:id", h.GetLocationHandler())
	r.POST("/locations", h.CreateLocationHandler())
	r.PUT("/locations/:id", h.UpdateLocationHandler())
	r.DELETE("/locations/:id", h.DeleteLocationHandler())

	return mock, r
}

func TestListLocationsHandler_Success(t *testing.T) {
	mock, r := newLocationRouter(t)

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM locations").
		WillReturnRows(sampleLocationRow())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/locations", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
	resp := getJSON(w)
	if resp["locations"] == nil {
		t.Error("response missing 'locations' key")
	}
}

func TestGetLocationHandler_NotFound(t *testing.T) {
	mock, r := newLocationRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM locations").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(locationSQLCols))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/locations/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestCreateLocationHandler_Success(t *testing.T) {
	mock, r := newLocationRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM locations").WithArgs("warehouse-2").
		WillReturnRows(sqlmock.NewRows(locationSQLCols))
	mock.ExpectExec("INSERT INTO locations").
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/locations", jsonBody(map[string]interface{}{
		"name":    "warehouse-2",
		"address": "2 Depot Road",
	})))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", w.Code, w.Body.String())
	}
}

func TestCreateLocationHandler_DuplicateName(t *testing.T) {
	mock, r := newLocationRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM locations").WithArgs("hq-server-room").
		WillReturnRows(sampleLocationRow())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/locations", jsonBody(map[string]interface{}{
		"name": "hq-server-room",
	})))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestUpdateLocationHandler_Success(t *testing.T) {
	mock, r := newLocationRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM locations").WithArgs("loc-1").
		WillReturnRows(sampleLocationRow())
	mock.ExpectExec("UPDATE locations").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/locations/loc-1", jsonBody(map[string]interface{}{
		"name":    "hq-server-room",
		"address": "1 Example Street, Floor 2",
	})))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200, body %s", w.Code, w.Body.String())
	}
}

func TestDeleteLocationHandler_Success(t *testing.T) {
	mock, r := newLocationRouter(t)

	mock.ExpectQuery("SELECT (.+) FROM locations").WithArgs("loc-1").
		WillReturnRows(sampleLocationRow())
	mock.ExpectExec("DELETE FROM locations").WithArgs("loc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/locations/loc-1", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
