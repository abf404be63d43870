// assets.go implements CRUD endpoints for inventory assets. An asset always
// carries one type-specific detail payload (device, license, or certificate);
// the type is fixed at creation and never changes afterwards.
package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asset-inventory/asset-inventory/internal/db/models"
	"github.com/asset-inventory/asset-inventory/internal/db/repositories"
)

var (
	errDetailMismatch    = errors.New("detail payload does not match asset type")
	errInvalidExpiryDate = errors.New("invalid expiry_date: must be YYYY-MM-DD")
)

// expiryDateLayout is the date-only wire format for license and certificate
// expiry dates.
const expiryDateLayout = "2006-01-02"

// AssetHandlers handles asset endpoints
type AssetHandlers struct {
	assetRepo *repositories.AssetRepository
	recorder  AuditRecorder
}

func NewAssetHandlers(assetRepo *repositories.AssetRepository, recorder AuditRecorder) *AssetHandlers {
	return &AssetHandlers{
		assetRepo: assetRepo,
		recorder:  recorder,
	}
}

// DevicePayload is the device detail of an asset request
type DevicePayload struct {
	IPAddress  *string `json:"ip_address"`
	MACAddress *string `json:"mac_address"`
	Hostname   *string `json:"hostname"`
}

// LicensePayload is the license detail of an asset request
type LicensePayload struct {
	LicenseKey *string `json:"license_key"`
	Vendor     *string `json:"vendor"`
	Seats      *int    `json:"seats"`
	ExpiryDate *string `json:"expiry_date"` // "2006-01-02"
}

// CertificatePayload is the certificate detail of an asset request
type CertificatePayload struct {
	CommonName *string `json:"common_name"`
	Issuer     *string `json:"issuer"`
	ExpiryDate *string `json:"expiry_date"` // "2006-01-02"
}

// CreateAssetRequest represents an asset creation request
type CreateAssetRequest struct {
	Name        string              `json:"name" binding:"required"`
	Type        string              `json:"type" binding:"required"`
	Status      *int                `json:"status"`
	ProjectID   *string             `json:"project_id"`
	LocationID  *string             `json:"location_id"`
	Responsible *string             `json:"responsible"`
	Description *string             `json:"description"`
	Device      *DevicePayload      `json:"device"`
	License     *LicensePayload     `json:"license"`
	Certificate *CertificatePayload `json:"certificate"`
}

// UpdateAssetRequest represents an asset update request. The asset type is
// immutable; omitted fields keep their current values.
type UpdateAssetRequest struct {
	Name        *string             `json:"name"`
	Status      *int                `json:"status"`
	ProjectID   *string             `json:"project_id"`
	LocationID  *string             `json:"location_id"`
	Responsible *string             `json:"responsible"`
	Description *string             `json:"description"`
	Device      *DevicePayload      `json:"device"`
	License     *LicensePayload     `json:"license"`
	Certificate *CertificatePayload `json:"certificate"`
}

// AssetView is the API representation of an asset list row
type AssetView struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Status       int     `json:"status"`
	StatusName   string  `json:"status_name"`
	ProjectID    *string `json:"project_id"`
	ProjectName  *string `json:"project_name,omitempty"`
	LocationID   *string `json:"location_id"`
	LocationName *string `json:"location_name,omitempty"`
	Responsible  *string `json:"responsible"`
	Description  *string `json:"description"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// DeviceView is the API representation of a device detail row
type DeviceView struct {
	IPAddress   *string `json:"ip_address"`
	MACAddress  *string `json:"mac_address"`
	Hostname    *string `json:"hostname"`
	Online      *bool   `json:"online"`
	OnlineState string  `json:"online_state"`
	LastSeen    *string `json:"last_seen"`
}

// LicenseView is the API representation of a license detail row
type LicenseView struct {
	LicenseKey *string `json:"license_key"`
	Vendor     *string `json:"vendor"`
	Seats      *int    `json:"seats"`
	ExpiryDate *string `json:"expiry_date"`
}

// CertificateView is the API representation of a certificate detail row
type CertificateView struct {
	CommonName *string `json:"common_name"`
	Issuer     *string `json:"issuer"`
	ExpiryDate *string `json:"expiry_date"`
}

// AssetDetailView is the API representation of a full asset with its detail
type AssetDetailView struct {
	AssetView
	Device      *DeviceView      `json:"device,omitempty"`
	License     *LicenseView     `json:"license,omitempty"`
	Certificate *CertificateView `json:"certificate,omitempty"`
}

func assetView(a *models.Asset) AssetView {
	return AssetView{
		ID:           a.ID,
		Name:         a.Name,
		Type:         a.Type,
		Status:       a.Status,
		StatusName:   models.StatusName(a.Status),
		ProjectID:    a.ProjectID,
		ProjectName:  a.ProjectName,
		LocationID:   a.LocationID,
		LocationName: a.LocationName,
		Responsible:  a.Responsible,
		Description:  a.Description,
		CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func assetDetailView(a *models.AssetDetail) AssetDetailView {
	view := AssetDetailView{AssetView: assetView(&a.Asset)}

	if a.Device != nil {
		dv := &DeviceView{
			IPAddress:   a.Device.IPAddress,
			MACAddress:  a.Device.MACAddress,
			Hostname:    a.Device.Hostname,
			Online:      a.Device.Online,
			OnlineState: a.Device.OnlineState().String(),
		}
		if a.Device.LastSeen != nil {
			seen := a.Device.LastSeen.UTC().Format(time.RFC3339)
			dv.LastSeen = &seen
		}
		view.Device = dv
	}

	if a.License != nil {
		view.License = &LicenseView{
			LicenseKey: a.License.LicenseKey,
			Vendor:     a.License.Vendor,
			Seats:      a.License.Seats,
			ExpiryDate: formatExpiry(a.License.ExpiryDate),
		}
	}

	if a.Certificate != nil {
		view.Certificate = &CertificateView{
			CommonName: a.Certificate.CommonName,
			Issuer:     a.Certificate.Issuer,
			ExpiryDate: formatExpiry(a.Certificate.ExpiryDate),
		}
	}

	return view
}

func formatExpiry(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(expiryDateLayout)
	return &s
}

// parseExpiry parses a date-only expiry string into midnight UTC.
func parseExpiry(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(expiryDateLayout, *s, time.UTC)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// @Summary      List assets
// @Description  Returns assets with optional type, status, project, location, and search filters.
// @Tags         Assets
// @Security     Bearer
// @Produce      json
// @Param        type        query  string  false  "Asset type (DEVICE, LICENSE, CERTIFICATE)"
// @Param        status      query  int     false  "Lifecycle status code"
// @Param        project_id  query  string  false  "Project ID"
// @Param        location_id query  string  false  "Location ID"
// @Param        search      query  string  false  "Name substring, case-insensitive"
// @Param        page        query  int     false  "Page number (default 1)"
// @Param        per_page    query  int     false  "Items per page (default 20, max 100)"
// @Success      200  {object}  map[string]interface{}  "assets, pagination"
// @Router       /api/assets [get]
// ListAssetsHandler returns assets with filters and pagination
// GET /api/assets
func (h *AssetHandlers) ListAssetsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := paginationParams(c)

		var filters repositories.AssetFilters
		if v := c.Query("type"); v != "" {
			if !models.ValidAssetType(v) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Invalid asset type: " + v,
				})
				return
			}
			filters.Type = &v
		}
		if v := c.Query("status"); v != "" {
			status, err := strconv.Atoi(v)
			if err != nil || !models.ValidStatus(status) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Invalid status: " + v,
				})
				return
			}
			filters.Status = &status
		}
		if v := c.Query("project_id"); v != "" {
			filters.ProjectID = &v
		}
		if v := c.Query("location_id"); v != "" {
			filters.LocationID = &v
		}
		if v := c.Query("search"); v != "" {
			filters.Search = &v
		}

		assets, total, err := h.assetRepo.ListAssets(c.Request.Context(), filters, perPage, (page-1)*perPage)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list assets",
			})
			return
		}

		views := make([]AssetView, 0, len(assets))
		for _, a := range assets {
			views = append(views, assetView(a))
		}

		c.JSON(http.StatusOK, gin.H{
			"assets": views,
			"pagination": gin.H{
				"page":     page,
				"per_page": perPage,
				"total":    total,
			},
		})
	}
}

// @Summary      Get asset
// @Description  Returns a single asset with its type-specific detail.
// @Tags         Assets
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Asset ID"
// @Success      200  {object}  map[string]interface{}  "asset"
// @Failure      404  {object}  map[string]interface{}  "Asset not found"
// @Router       /api/assets/{id} [get]
// GetAssetHandler returns a single asset with its detail row
// GET /api/assets/:id
func (h *AssetHandlers) GetAssetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		assetID := c.Param("id")

		asset, err := h.assetRepo.GetAssetByID(c.Request.Context(), assetID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get asset",
			})
			return
		}
		if asset == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Asset not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"asset": assetDetailView(asset),
		})
	}
}

// @Summary      Create asset
// @Description  Creates an asset with its type-specific detail payload.
// @Tags         Assets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  CreateAssetRequest  true  "Asset"
// @Success      201  {object}  map[string]interface{}  "asset"
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Router       /api/assets [post]
// CreateAssetHandler creates an asset and its detail row
// POST /api/assets
func (h *AssetHandlers) CreateAssetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAssetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}

		if !models.ValidAssetType(req.Type) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid asset type: must be DEVICE, LICENSE, or CERTIFICATE",
			})
			return
		}

		status := models.StatusActive
		if req.Status != nil {
			if !models.ValidStatus(*req.Status) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Invalid status: " + strconv.Itoa(*req.Status),
				})
				return
			}
			status = *req.Status
		}

		asset := &models.AssetDetail{
			Asset: models.Asset{
				Name:        req.Name,
				Type:        req.Type,
				Status:      status,
				ProjectID:   req.ProjectID,
				LocationID:  req.LocationID,
				Responsible: req.Responsible,
				Description: req.Description,
			},
		}

		if err := applyDetail(asset, req.Device, req.License, req.Certificate); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}

		if err := h.assetRepo.CreateAsset(c.Request.Context(), asset); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create asset",
			})
			return
		}

		h.recorder.RecordUser(actor(c), models.ActionCreate, "asset", &asset.ID, map[string]interface{}{
			"name":   asset.Name,
			"type":   asset.Type,
			"status": models.StatusName(asset.Status),
		})

		c.JSON(http.StatusCreated, gin.H{
			"asset": assetDetailView(asset),
		})
	}
}

// @Summary      Update asset
// @Description  Updates an asset and its detail. The asset type cannot change.
// @Tags         Assets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "Asset ID"
// @Param        body  body  UpdateAssetRequest  true  "Fields to update"
// @Success      200  {object}  map[string]interface{}  "asset"
// @Failure      400  {object}  map[string]interface{}  "Invalid request"
// @Failure      404  {object}  map[string]interface{}  "Asset not found"
// @Router       /api/assets/{id} [put]
// UpdateAssetHandler updates an asset and its detail row
// PUT /api/assets/:id
func (h *AssetHandlers) UpdateAssetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		assetID := c.Param("id")

		var req UpdateAssetRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}

		asset, err := h.assetRepo.GetAssetByID(c.Request.Context(), assetID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get asset",
			})
			return
		}
		if asset == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Asset not found",
			})
			return
		}

		before := assetAuditSnapshot(&asset.Asset)

		if req.Name != nil {
			asset.Name = *req.Name
		}
		if req.Status != nil {
			if !models.ValidStatus(*req.Status) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Invalid status: " + strconv.Itoa(*req.Status),
				})
				return
			}
			asset.Status = *req.Status
		}
		if req.ProjectID != nil {
			asset.ProjectID = req.ProjectID
		}
		if req.LocationID != nil {
			asset.LocationID = req.LocationID
		}
		if req.Responsible != nil {
			asset.Responsible = req.Responsible
		}
		if req.Description != nil {
			asset.Description = req.Description
		}

		// Detail payloads for a type other than the asset's own are rejected
		// inside applyDetail.
		if req.Device != nil || req.License != nil || req.Certificate != nil {
			if err := mergeDetail(asset, req.Device, req.License, req.Certificate); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": err.Error(),
				})
				return
			}
		}

		if err := h.assetRepo.UpdateAsset(c.Request.Context(), asset); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update asset",
			})
			return
		}

		h.recorder.RecordUser(actor(c), models.ActionUpdate, "asset", &asset.ID, updateDetails(map[string]interface{}{
			"name": asset.Name,
			"type": asset.Type,
		}, before, assetAuditSnapshot(&asset.Asset)))

		c.JSON(http.StatusOK, gin.H{
			"asset": assetDetailView(asset),
		})
	}
}

// @Summary      Delete asset
// @Description  Deletes an asset and its detail row.
// @Tags         Assets
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Asset ID"
// @Success      200  {object}  map[string]interface{}  "message"
// @Failure      404  {object}  map[string]interface{}  "Asset not found"
// @Router       /api/assets/{id} [delete]
// DeleteAssetHandler deletes an asset
// DELETE /api/assets/:id
func (h *AssetHandlers) DeleteAssetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		assetID := c.Param("id")

		asset, err := h.assetRepo.GetAssetByID(c.Request.Context(), assetID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get asset",
			})
			return
		}
		if asset == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Asset not found",
			})
			return
		}

		if err := h.assetRepo.DeleteAsset(c.Request.Context(), assetID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete asset",
			})
			return
		}

		h.recorder.RecordUser(actor(c), models.ActionDelete, "asset", &assetID, map[string]interface{}{
			"name": asset.Name,
			"type": asset.Type,
		})

		c.JSON(http.StatusOK, gin.H{
			"message": "Asset deleted",
		})
	}
}

// assetAuditSnapshot captures the mutable row fields of an asset so UPDATE
// audit entries can record what changed.
func assetAuditSnapshot(a *models.Asset) map[string]interface{} {
	return map[string]interface{}{
		"name":        a.Name,
		"status":      models.StatusName(a.Status),
		"project_id":  a.ProjectID,
		"location_id": a.LocationID,
		"responsible": a.Responsible,
		"description": a.Description,
	}
}

// applyDetail attaches the detail payload matching the asset's type on
// creation. A missing payload produces an empty detail row; a payload for a
// different type is an error.
func applyDetail(asset *models.AssetDetail, device *DevicePayload, license *LicensePayload, cert *CertificatePayload) error {
	if err := rejectMismatchedDetail(asset.Type, device, license, cert); err != nil {
		return err
	}

	switch asset.Type {
	case models.TypeDevice:
		asset.Device = &models.Device{}
		if device != nil {
			asset.Device.IPAddress = device.IPAddress
			asset.Device.MACAddress = device.MACAddress
			asset.Device.Hostname = device.Hostname
		}
	case models.TypeLicense:
		asset.License = &models.License{}
		if license != nil {
			expiry, err := parseExpiry(license.ExpiryDate)
			if err != nil {
				return errInvalidExpiryDate
			}
			asset.License.LicenseKey = license.LicenseKey
			asset.License.Vendor = license.Vendor
			asset.License.Seats = license.Seats
			asset.License.ExpiryDate = expiry
		}
	case models.TypeCertificate:
		asset.Certificate = &models.Certificate{}
		if cert != nil {
			expiry, err := parseExpiry(cert.ExpiryDate)
			if err != nil {
				return errInvalidExpiryDate
			}
			asset.Certificate.CommonName = cert.CommonName
			asset.Certificate.Issuer = cert.Issuer
			asset.Certificate.ExpiryDate = expiry
		}
	}
	return nil
}

// mergeDetail applies a detail payload to an existing asset on update,
// keeping fields the payload omits.
func mergeDetail(asset *models.AssetDetail, device *DevicePayload, license *LicensePayload, cert *CertificatePayload) error {
	if err := rejectMismatchedDetail(asset.Type, device, license, cert); err != nil {
		return err
	}

	switch asset.Type {
	case models.TypeDevice:
		if device != nil && asset.Device != nil {
			if device.IPAddress != nil {
				asset.Device.IPAddress = device.IPAddress
			}
			if device.MACAddress != nil {
				asset.Device.MACAddress = device.MACAddress
			}
			if device.Hostname != nil {
				asset.Device.Hostname = device.Hostname
			}
		}
	case models.TypeLicense:
		if license != nil && asset.License != nil {
			if license.LicenseKey != nil {
				asset.License.LicenseKey = license.LicenseKey
			}
			if license.Vendor != nil {
				asset.License.Vendor = license.Vendor
			}
			if license.Seats != nil {
				asset.License.Seats = license.Seats
			}
			if license.ExpiryDate != nil {
				expiry, err := parseExpiry(license.ExpiryDate)
				if err != nil {
					return errInvalidExpiryDate
				}
				asset.License.ExpiryDate = expiry
			}
		}
	case models.TypeCertificate:
		if cert != nil && asset.Certificate != nil {
			if cert.CommonName != nil {
				asset.Certificate.CommonName = cert.CommonName
			}
			if cert.Issuer != nil {
				asset.Certificate.Issuer = cert.Issuer
			}
			if cert.ExpiryDate != nil {
				expiry, err := parseExpiry(cert.ExpiryDate)
				if err != nil {
					return errInvalidExpiryDate
				}
				asset.Certificate.ExpiryDate = expiry
			}
		}
	}
	return nil
}

func rejectMismatchedDetail(assetType string, device *DevicePayload, license *LicensePayload, cert *CertificatePayload) error {
	if device != nil && assetType != models.TypeDevice {
		return errDetailMismatch
	}
	if license != nil && assetType != models.TypeLicense {
		return errDetailMismatch
	}
	if cert != nil && assetType != models.TypeCertificate {
		return errDetailMismatch
	}
	return nil
}
