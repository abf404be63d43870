package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asset-inventory/asset-inventory/internal/telemetry"
)

// routeless labels requests that matched no registered route, so scanner
// noise hitting random paths cannot inflate Prometheus label cardinality.
const routeless = "<no-route>"

// MetricsMiddleware counts and times every request. The path label is the
// matched route template (/api/assets/:id, not the concrete URL), keeping the
// per-asset detail endpoints to one series each.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = routeless
		}

		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		telemetry.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		telemetry.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
