// location_repository.go implements LocationRepository for the physical location grouping.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/asset-inventory/asset-inventory/internal/db/models"
)

// LocationRepository handles location database operations
type LocationRepository struct {
	db *sql.DB
}

// NewLocationRepository creates a new LocationRepository
func NewLocationRepository(db *sql.DB) *LocationRepository {
	return &LocationRepository{db: db}
}

// CreateLocation creates a new location
func (r *LocationRepository) CreateLocation(ctx context.Context, location *models.Location) error {
	location.ID = uuid.New().String()
	location.CreatedAt = time.Now()
	location.UpdatedAt = time.Now()

	query := `
		INSERT INTO locations (id, name, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.db.ExecContext(ctx, query,
		location.ID,
		location.Name,
		location.Address,
		location.CreatedAt,
		location.UpdatedAt,
	)

	return err
}

// GetLocationByID retrieves a location by ID
func (r *LocationRepository) GetLocationByID(ctx context.Context, locationID string) (*models.Location, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM locations
		WHERE id = $1
	`

	location := &models.Location{}
	err := r.db.QueryRowContext(ctx, query, locationID).Scan(
		&location.ID,
		&location.Name,
		&location.Address,
		&location.CreatedAt,
		&location.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return location, nil
}

// GetLocationByName retrieves a location by its unique name
func (r *LocationRepository) GetLocationByName(ctx context.Context, name string) (*models.Location, error) {
	query := `
		SELECT id, name, address, created_at, updated_at
		FROM locations
		WHERE name = $1
	`

	location := &models.Location{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&location.ID,
		&location.Name,
		&location.Address,
		&location.CreatedAt,
		&location.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return location, nil
}

// UpdateLocation updates a location's information
func (r *LocationRepository) UpdateLocation(ctx context.Context, location *models.Location) error {
	location.UpdatedAt = time.Now()

	query := `
		UPDATE locations
		SET name = $2, address = $3, updated_at = $4
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		location.ID,
		location.Name,
		location.Address,
		location.UpdatedAt,
	)

	return err
}

// DeleteLocation deletes a location (assets keep a NULL location_id)
func (r *LocationRepository) DeleteLocation(ctx context.Context, locationID string) error {
	query := `DELETE FROM locations WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, locationID)
	return err
}

// ListLocations retrieves a paginated list of locations
func (r *LocationRepository) ListLocations(ctx context.Context, limit, offset int) ([]*models.Location, int, error) {
	// Get total count
	var total int
	countQuery := `SELECT COUNT(*) FROM locations`
	err := r.db.QueryRowContext(ctx, countQuery).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, address, created_at, updated_at
		FROM locations
		ORDER BY name ASC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	locations := make([]*models.Location, 0)
	for rows.Next() {
		location := &models.Location{}
		err := rows.Scan(
			&location.ID,
			&location.Name,
			&location.Address,
			&location.CreatedAt,
			&location.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		locations = append(locations, location)
	}

	return locations, total, rows.Err()
}
