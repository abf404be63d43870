// locations.go implements CRUD endpoints for locations, the physical grouping
// for assets. Location names are unique.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asset-inventory/asset-inventory/internal/db/models"
	"github.com/asset-inventory/asset-inventory/internal/db/repositories"
)

// LocationHandlers handles location endpoints
type LocationHandlers struct {
	locationRepo *repositories.LocationRepository
	recorder     AuditRecorder
}

func NewLocationHandlers(locationRepo *repositories.LocationRepository, recorder AuditRecorder) *LocationHandlers {
	return &LocationHandlers{
		locationRepo: locationRepo,
		recorder:     recorder,
	}
}

// LocationRequest represents a location create or update request
type LocationRequest struct {
	Name    string  `json:"name" binding:"required"`
	Address *string `json:"address"`
}

// LocationView is the API representation of a location
type LocationView struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Address   *string `json:"address"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func locationView(l *models.Location) LocationView {
	return LocationView{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		CreatedAt: l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: l.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// @Summary      List locations
// @Tags         Locations
// @Security     Bearer
// @Produce      json
// @Param        page      query  int  false  "Page number (default 1)"
// @Param        per_page  query  int  false  "Items per page (default 20, max 100)"
// @Success      200  {object}  map[string]interface{}  "locations, pagination"
// @Router       /api/locations [get]
// ListLocationsHandler returns locations with pagination
// GET /api/locations
func (h *LocationHandlers) ListLocationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, perPage := paginationParams(c)

		locations, total, err := h.locationRepo.ListLocations(c.Request.Context(), perPage, (page-1)*perPage)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list locations",
			})
			return
		}

		views := make([]LocationView, 0, len(locations))
		for _, l := range locations {
			views = append(views, locationView(l))
		}

		c.JSON(http.StatusOK, gin.H{
			"locations": views,
			"pagination": gin.H{
				"page":     page,
				"per_page": perPage,
				"total":    total,
			},
		})
	}
}

// @Summary      Get location
// @Tags         Locations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Location ID"
// @Success      200  {object}  map[string]interface{}  "location"
// @Failure      404  {object}  map[string]interface{}  "Location not found"
// @Router       /api/locations/{id} [get]
// GetLocationHandler returns a single location
// GET /api/locations/:id
func (h *LocationHandlers) GetLocationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		locationID := c.Param("id")

		location, err := h.locationRepo.GetLocationByID(c.Request.Context(), locationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get location",
			})
			return
		}
		if location == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Location not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"location": locationView(location),
		})
	}
}

// @Summary      Create location
// @Tags         Locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  LocationRequest  true  "Location"
// @Success      201  {object}  map[string]interface{}  "location"
// @Failure      409  {object}  map[string]interface{}  "Location name already exists"
// @Router       /api/locations [post]
// CreateLocationHandler creates a location
// POST /api/locations
func (h *LocationHandlers) CreateLocationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LocationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}

		existing, err := h.locationRepo.GetLocationByName(c.Request.Context(), req.Name)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check location name",
			})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Location name already exists",
			})
			return
		}

		location := &models.Location{
			Name:    req.Name,
			Address: req.Address,
		}

		if err := h.locationRepo.CreateLocation(c.Request.Context(), location); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create location",
			})
			return
		}

		h.recorder.RecordUser(actor(c), models.ActionCreate, "location", &location.ID, map[string]interface{}{
			"name": location.Name,
		})

		c.JSON(http.StatusCreated, gin.H{
			"location": locationView(location),
		})
	}
}

// @Summary      Update location
// @Tags         Locations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "Location ID"
// @Param        body  body  LocationRequest  true  "Location"
// @Success      200  {object}  map[string]interface{}  "location"
// @Failure      404  {object}  map[string]interface{}  "Location not found"
// @Failure      409  {object}  map[string]interface{}  "Location name already exists"
// @Router       /api/locations/{id} [put]
// UpdateLocationHandler updates a location
// PUT /api/locations/:id
func (h *LocationHandlers) UpdateLocationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		locationID := c.Param("id")

		var req LocationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request: " + err.Error(),
			})
			return
		}

		location, err := h.locationRepo.GetLocationByID(c.Request.Context(), locationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get location",
			})
			return
		}
		if location == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Location not found",
			})
			return
		}

		if req.Name != location.Name {
			existing, err := h.locationRepo.GetLocationByName(c.Request.Context(), req.Name)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Failed to check location name",
				})
				return
			}
			if existing != nil {
				c.JSON(http.StatusConflict, gin.H{
					"error": "Location name already exists",
				})
				return
			}
		}

		before := map[string]interface{}{
			"name":    location.Name,
			"address": location.Address,
		}
		location.Name = req.Name
		location.Address = req.Address

		if err := h.locationRepo.UpdateLocation(c.Request.Context(), location); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update location",
			})
			return
		}

		h.recorder.RecordUser(actor(c), models.ActionUpdate, "location", &location.ID, updateDetails(map[string]interface{}{
			"name": location.Name,
		}, before, map[string]interface{}{
			"name":    location.Name,
			"address": location.Address,
		}))

		c.JSON(http.StatusOK, gin.H{
			"location": locationView(location),
		})
	}
}

// @Summary      Delete location
// @Description  Deletes a location. Assets at the location keep existing with no location.
// @Tags         Locations
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Location ID"
// @Success      200  {object}  map[string]interface{}  "message"
// @Failure      404  {object}  map[string]interface{}  "Location not found"
// @Router       /api/locations/{id} [delete]
// DeleteLocationHandler deletes a location
// DELETE /api/locations/:id
func (h *LocationHandlers) DeleteLocationHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		locationID := c.Param("id")

		location, err := h.locationRepo.GetLocationByID(c.Request.Context(), locationID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to get location",
			})
			return
		}
		if location == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Location not found",
			})
			return
		}

		if err := h.locationRepo.DeleteLocation(c.Request.Context(), locationID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete location",
			})
			return
		}

		h.recorder.RecordUser(actor(c), models.ActionDelete, "location", &locationID, map[string]interface{}{
			"name": location.Name,
		})

		c.JSON(http.StatusOK, gin.H{
			"message": "Location deleted",
		})
	}
}
