// asset_repository.go implements AssetRepository, the data access layer for assets
// and their type-specific detail rows (devices, licenses, certificates). Asset and
// detail writes happen in a single transaction so the pair can never drift apart.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/asset-inventory/asset-inventory/internal/db/models"
)

// AssetRepository handles asset database operations
type AssetRepository struct {
	db *sql.DB
}

// NewAssetRepository creates a new AssetRepository
func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

// AssetFilters contains filters for querying assets
type AssetFilters struct {
	Type       *string
	Status     *int
	ProjectID  *string
	LocationID *string
	Search     *string // Matches asset name, case-insensitive substring
}

// CreateAsset inserts an asset and its detail row in one transaction.
// The detail row matching the asset's type must be set on the AssetDetail.
func (r *AssetRepository) CreateAsset(ctx context.Context, asset *models.AssetDetail) error {
	asset.ID = uuid.New().String()
	asset.CreatedAt = time.Now()
	asset.UpdatedAt = time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO assets (id, name, type, status, project_id, location_id, responsible, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err = tx.ExecContext(ctx, query,
		asset.ID,
		asset.Name,
		asset.Type,
		asset.Status,
		asset.ProjectID,
		asset.LocationID,
		asset.Responsible,
		asset.Description,
		asset.CreatedAt,
		asset.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err := r.insertDetail(ctx, tx, asset); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *AssetRepository) insertDetail(ctx context.Context, tx *sql.Tx, asset *models.AssetDetail) error {
	switch asset.Type {
	case models.TypeDevice:
		if asset.Device == nil {
			return fmt.Errorf("asset type %s requires a device detail", asset.Type)
		}
		asset.Device.ID = uuid.New().String()
		asset.Device.AssetID = asset.ID
		_, err := tx.ExecContext(ctx, `
			INSERT INTO devices (id, asset_id, ip_address, mac_address, hostname, online, last_seen)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`,
			asset.Device.ID,
			asset.Device.AssetID,
			asset.Device.IPAddress,
			asset.Device.MACAddress,
			asset.Device.Hostname,
			asset.Device.Online,
			asset.Device.LastSeen,
		)
		return err

	case models.TypeLicense:
		if asset.License == nil {
			return fmt.Errorf("asset type %s requires a license detail", asset.Type)
		}
		asset.License.ID = uuid.New().String()
		asset.License.AssetID = asset.ID
		_, err := tx.ExecContext(ctx, `
			INSERT INTO licenses (id, asset_id, license_key, vendor, seats, expiry_date)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			asset.License.ID,
			asset.License.AssetID,
			asset.License.LicenseKey,
			asset.License.Vendor,
			asset.License.Seats,
			asset.License.ExpiryDate,
		)
		return err

	case models.TypeCertificate:
		if asset.Certificate == nil {
			return fmt.Errorf("asset type %s requires a certificate detail", asset.Type)
		}
		asset.Certificate.ID = uuid.New().String()
		asset.Certificate.AssetID = asset.ID
		_, err := tx.ExecContext(ctx, `
			INSERT INTO certificates (id, asset_id, common_name, issuer, expiry_date)
			VALUES ($1, $2, $3, $4, $5)
		`,
			asset.Certificate.ID,
			asset.Certificate.AssetID,
			asset.Certificate.CommonName,
			asset.Certificate.Issuer,
			asset.Certificate.ExpiryDate,
		)
		return err
	}

	return fmt.Errorf("unknown asset type: %s", asset.Type)
}

// GetAssetByID retrieves an asset with its detail row and joined group names
func (r *AssetRepository) GetAssetByID(ctx context.Context, assetID string) (*models.AssetDetail, error) {
	query := `
		SELECT a.id, a.name, a.type, a.status, a.project_id, a.location_id, a.responsible, a.description,
		       a.created_at, a.updated_at, p.name, l.name
		FROM assets a
		LEFT JOIN projects p ON a.project_id = p.id
		LEFT JOIN locations l ON a.location_id = l.id
		WHERE a.id = $1
	`

	asset := &models.AssetDetail{}
	err := r.db.QueryRowContext(ctx, query, assetID).Scan(
		&asset.ID,
		&asset.Name,
		&asset.Type,
		&asset.Status,
		&asset.ProjectID,
		&asset.LocationID,
		&asset.Responsible,
		&asset.Description,
		&asset.CreatedAt,
		&asset.UpdatedAt,
		&asset.ProjectName,
		&asset.LocationName,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	if err := r.loadDetail(ctx, asset); err != nil {
		return nil, err
	}

	return asset, nil
}

func (r *AssetRepository) loadDetail(ctx context.Context, asset *models.AssetDetail) error {
	switch asset.Type {
	case models.TypeDevice:
		d := &models.Device{}
		err := r.db.QueryRowContext(ctx, `
			SELECT id, asset_id, ip_address, mac_address, hostname, online, last_seen
			FROM devices WHERE asset_id = $1
		`, asset.ID).Scan(&d.ID, &d.AssetID, &d.IPAddress, &d.MACAddress, &d.Hostname, &d.Online, &d.LastSeen)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		asset.Device = d

	case models.TypeLicense:
		l := &models.License{}
		err := r.db.QueryRowContext(ctx, `
			SELECT id, asset_id, license_key, vendor, seats, expiry_date
			FROM licenses WHERE asset_id = $1
		`, asset.ID).Scan(&l.ID, &l.AssetID, &l.LicenseKey, &l.Vendor, &l.Seats, &l.ExpiryDate)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		asset.License = l

	case models.TypeCertificate:
		c := &models.Certificate{}
		err := r.db.QueryRowContext(ctx, `
			SELECT id, asset_id, common_name, issuer, expiry_date
			FROM certificates WHERE asset_id = $1
		`, asset.ID).Scan(&c.ID, &c.AssetID, &c.CommonName, &c.Issuer, &c.ExpiryDate)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}
		asset.Certificate = c
	}

	return nil
}

// UpdateAsset updates an asset and its detail row in one transaction.
// The asset's type is immutable; the detail row is updated in place.
func (r *AssetRepository) UpdateAsset(ctx context.Context, asset *models.AssetDetail) error {
	asset.UpdatedAt = time.Now()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		UPDATE assets
		SET name = $2, status = $3, project_id = $4, location_id = $5, responsible = $6, description = $7, updated_at = $8
		WHERE id = $1
	`

	_, err = tx.ExecContext(ctx, query,
		asset.ID,
		asset.Name,
		asset.Status,
		asset.ProjectID,
		asset.LocationID,
		asset.Responsible,
		asset.Description,
		asset.UpdatedAt,
	)
	if err != nil {
		return err
	}

	switch asset.Type {
	case models.TypeDevice:
		if asset.Device != nil {
			_, err = tx.ExecContext(ctx, `
				UPDATE devices
				SET ip_address = $2, mac_address = $3, hostname = $4
				WHERE asset_id = $1
			`, asset.ID, asset.Device.IPAddress, asset.Device.MACAddress, asset.Device.Hostname)
		}
	case models.TypeLicense:
		if asset.License != nil {
			_, err = tx.ExecContext(ctx, `
				UPDATE licenses
				SET license_key = $2, vendor = $3, seats = $4, expiry_date = $5
				WHERE asset_id = $1
			`, asset.ID, asset.License.LicenseKey, asset.License.Vendor, asset.License.Seats, asset.License.ExpiryDate)
		}
	case models.TypeCertificate:
		if asset.Certificate != nil {
			_, err = tx.ExecContext(ctx, `
				UPDATE certificates
				SET common_name = $2, issuer = $3, expiry_date = $4
				WHERE asset_id = $1
			`, asset.ID, asset.Certificate.CommonName, asset.Certificate.Issuer, asset.Certificate.ExpiryDate)
		}
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteAsset deletes an asset (cascades to the detail row)
func (r *AssetRepository) DeleteAsset(ctx context.Context, assetID string) error {
	query := `DELETE FROM assets WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, assetID)
	return err
}

// ListAssets retrieves assets with optional filters and pagination.
// Detail rows are not loaded; the list view only needs the asset columns.
func (r *AssetRepository) ListAssets(ctx context.Context, filters AssetFilters, limit, offset int) ([]*models.Asset, int, error) {
	countQuery := `SELECT COUNT(*) FROM assets a WHERE 1=1`
	query := `
		SELECT a.id, a.name, a.type, a.status, a.project_id, a.location_id, a.responsible, a.description,
		       a.created_at, a.updated_at, p.name, l.name
		FROM assets a
		LEFT JOIN projects p ON a.project_id = p.id
		LEFT JOIN locations l ON a.location_id = l.id
		WHERE 1=1
	`

	args := make([]interface{}, 0)
	paramIndex := 1

	if filters.Type != nil {
		countQuery += fmt.Sprintf(` AND a.type = $%d`, paramIndex)
		query += fmt.Sprintf(` AND a.type = $%d`, paramIndex)
		args = append(args, *filters.Type)
		paramIndex++
	}

	if filters.Status != nil {
		countQuery += fmt.Sprintf(` AND a.status = $%d`, paramIndex)
		query += fmt.Sprintf(` AND a.status = $%d`, paramIndex)
		args = append(args, *filters.Status)
		paramIndex++
	}

	if filters.ProjectID != nil {
		countQuery += fmt.Sprintf(` AND a.project_id = $%d`, paramIndex)
		query += fmt.Sprintf(` AND a.project_id = $%d`, paramIndex)
		args = append(args, *filters.ProjectID)
		paramIndex++
	}

	if filters.LocationID != nil {
		countQuery += fmt.Sprintf(` AND a.location_id = $%d`, paramIndex)
		query += fmt.Sprintf(` AND a.location_id = $%d`, paramIndex)
		args = append(args, *filters.LocationID)
		paramIndex++
	}

	if filters.Search != nil {
		countQuery += fmt.Sprintf(` AND a.name ILIKE $%d`, paramIndex)
		query += fmt.Sprintf(` AND a.name ILIKE $%d`, paramIndex)
		args = append(args, "%"+*filters.Search+"%")
		paramIndex++
	}

	// Get total count
	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	// Add ordering and pagination
	query += fmt.Sprintf(` ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d`, paramIndex, paramIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assets := make([]*models.Asset, 0)
	for rows.Next() {
		asset := &models.Asset{}
		err := rows.Scan(
			&asset.ID,
			&asset.Name,
			&asset.Type,
			&asset.Status,
			&asset.ProjectID,
			&asset.LocationID,
			&asset.Responsible,
			&asset.Description,
			&asset.CreatedAt,
			&asset.UpdatedAt,
			&asset.ProjectName,
			&asset.LocationName,
		)
		if err != nil {
			return nil, 0, err
		}
		assets = append(assets, asset)
	}

	return assets, total, rows.Err()
}

// ListExpiringAssets returns all license and certificate assets that carry an
// expiry date. Decommissioned assets are excluded; their expiry no longer matters.
func (r *AssetRepository) ListExpiringAssets(ctx context.Context) ([]*models.ExpiringAsset, error) {
	query := `
		SELECT a.id, a.name, a.type, a.status, a.responsible, d.expiry_date
		FROM assets a
		JOIN (
			SELECT asset_id, expiry_date FROM licenses WHERE expiry_date IS NOT NULL
			UNION ALL
			SELECT asset_id, expiry_date FROM certificates WHERE expiry_date IS NOT NULL
		) d ON d.asset_id = a.id
		WHERE a.status <> $1
		ORDER BY d.expiry_date ASC
	`

	rows, err := r.db.QueryContext(ctx, query, models.StatusDecommissioned)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*models.ExpiringAsset, 0)
	for rows.Next() {
		item := &models.ExpiringAsset{}
		err := rows.Scan(
			&item.AssetID,
			&item.AssetName,
			&item.AssetType,
			&item.Status,
			&item.Responsible,
			&item.ExpiryDate,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// ListProbeTargets returns all device rows with an IP address, paired with
// their asset name and status. Decommissioned devices are not probed.
func (r *AssetRepository) ListProbeTargets(ctx context.Context) ([]*models.DeviceWithAsset, error) {
	query := `
		SELECT d.id, d.asset_id, d.ip_address, d.mac_address, d.hostname, d.online, d.last_seen,
		       a.name, a.status, a.responsible
		FROM devices d
		JOIN assets a ON d.asset_id = a.id
		WHERE d.ip_address IS NOT NULL AND d.ip_address <> '' AND a.status <> $1
	`

	rows, err := r.db.QueryContext(ctx, query, models.StatusDecommissioned)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	devices := make([]*models.DeviceWithAsset, 0)
	for rows.Next() {
		d := &models.DeviceWithAsset{}
		err := rows.Scan(
			&d.ID,
			&d.AssetID,
			&d.IPAddress,
			&d.MACAddress,
			&d.Hostname,
			&d.Online,
			&d.LastSeen,
			&d.AssetName,
			&d.AssetStatus,
			&d.Responsible,
		)
		if err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}

	return devices, rows.Err()
}

// SetDeviceOnline records the result of a reachability probe. last_seen is
// advanced only on successful probes.
func (r *AssetRepository) SetDeviceOnline(ctx context.Context, deviceID string, online bool) error {
	if online {
		query := `UPDATE devices SET online = $2, last_seen = $3 WHERE id = $1`
		_, err := r.db.ExecContext(ctx, query, deviceID, online, time.Now())
		return err
	}
	query := `UPDATE devices SET online = $2 WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, deviceID, online)
	return err
}
