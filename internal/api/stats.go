// stats.go implements the dashboard statistics endpoint.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/asset-inventory/asset-inventory/internal/config"
	"github.com/asset-inventory/asset-inventory/internal/db/repositories"
)

// StatsHandlers handles dashboard statistics endpoints
type StatsHandlers struct {
	cfg       *config.Config
	statsRepo *repositories.StatsRepository
}

func NewStatsHandlers(cfg *config.Config, statsRepo *repositories.StatsRepository) *StatsHandlers {
	return &StatsHandlers{
		cfg:       cfg,
		statsRepo: statsRepo,
	}
}

// @Summary      Dashboard statistics
// @Description  Returns asset totals, breakdowns by type and status, device reachability counts, and the number of assets expiring within the warning window.
// @Tags         Stats
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "stats"
// @Router       /api/stats/dashboard [get]
// DashboardHandler returns aggregate inventory statistics
// GET /api/stats/dashboard
func (h *StatsHandlers) DashboardHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := h.statsRepo.GetDashboardStats(c.Request.Context(), h.cfg.Monitoring.ExpiryWarningDays)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to gather statistics",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"stats": stats,
		})
	}
}
