// stats_repository.go implements StatsRepository, the read-only aggregate queries
// behind the dashboard endpoint. It uses sqlx struct scanning since these queries
// are wide aggregates rather than entity rows.
package repositories

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// StatsRepository handles dashboard aggregate queries
type StatsRepository struct {
	db *sqlx.DB
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: sqlx.NewDb(db, "postgres")}
}

// TypeCount is an aggregate row of assets per type
type TypeCount struct {
	Type  string `db:"type" json:"type"`
	Count int    `db:"count" json:"count"`
}

// StatusCount is an aggregate row of assets per lifecycle status
type StatusCount struct {
	Status int `db:"status" json:"status"`
	Count  int `db:"count" json:"count"`
}

// DeviceStats summarizes device reachability
type DeviceStats struct {
	Online  int `db:"online" json:"online"`
	Offline int `db:"offline" json:"offline"`
	Unknown int `db:"unknown" json:"unknown"`
}

// DashboardStats is the full dashboard payload
type DashboardStats struct {
	TotalAssets    int           `json:"total_assets"`
	TotalProjects  int           `json:"total_projects"`
	TotalLocations int           `json:"total_locations"`
	ByType         []TypeCount   `json:"by_type"`
	ByStatus       []StatusCount `json:"by_status"`
	Devices        DeviceStats   `json:"devices"`
	ExpiringSoon   int           `json:"expiring_soon"`
}

// GetDashboardStats gathers all dashboard aggregates. expiringDays bounds the
// "expiring soon" count (assets whose expiry date falls within that many days).
func (r *StatsRepository) GetDashboardStats(ctx context.Context, expiringDays int) (*DashboardStats, error) {
	stats := &DashboardStats{}

	err := r.db.GetContext(ctx, &stats.TotalAssets, `SELECT COUNT(*) FROM assets`)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &stats.TotalProjects, `SELECT COUNT(*) FROM projects`)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &stats.TotalLocations, `SELECT COUNT(*) FROM locations`)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &stats.ByType, `
		SELECT type, COUNT(*) AS count
		FROM assets
		GROUP BY type
		ORDER BY type
	`)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &stats.ByStatus, `
		SELECT status, COUNT(*) AS count
		FROM assets
		GROUP BY status
		ORDER BY status
	`)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &stats.Devices, `
		SELECT
			COUNT(*) FILTER (WHERE online IS TRUE)  AS online,
			COUNT(*) FILTER (WHERE online IS FALSE) AS offline,
			COUNT(*) FILTER (WHERE online IS NULL)  AS unknown
		FROM devices
	`)
	if err != nil {
		return nil, err
	}

	err = r.db.GetContext(ctx, &stats.ExpiringSoon, `
		SELECT COUNT(*)
		FROM (
			SELECT asset_id, expiry_date FROM licenses WHERE expiry_date IS NOT NULL
			UNION ALL
			SELECT asset_id, expiry_date FROM certificates WHERE expiry_date IS NOT NULL
		) d
		WHERE d.expiry_date >= CURRENT_DATE
		  AND d.expiry_date < CURRENT_DATE + $1 * INTERVAL '1 day'
	`, expiringDays)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
