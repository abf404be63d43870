// Package telemetry provides application-level observability for the asset inventory.
//
// # Prometheus Metrics Endpoint
//
// All metrics are registered against the default Prometheus registry and are
// automatically available on the side-channel HTTP server started by main.go:
//
//	GET http(s)://<host>:<INV_TELEMETRY_METRICS_PROMETHEUS_PORT>/metrics
//
// Default port: 9090.  The endpoint returns data in the Prometheus text exposition
// format (Content-Type: text/plain; version=0.0.4) and is intended to be scraped by
// a Prometheus server every 15–60 seconds.  It is NOT served by the Gin router.
//
// # Metric Groups
//
//   - HTTP request counters and latency histograms (labelled by route template, not raw URL)
//   - Expiration scan counters (events recorded, scan duration)
//   - Device probe counters (probes run, state transitions)
//   - Notification delivery counters, by channel
//   - Database connection pool gauge (polled every 30 s)
//
// # Label Cardinality
//
// HTTP metrics use c.FullPath() (route template such as /api/assets/:id)
// rather than the raw request URL to prevent unbounded label cardinality from
// user-supplied path segments such as asset IDs.
//
// # Usage
//
// Import the package for side effects so metrics are registered before the HTTP server
// starts listening:
//
//	import _ "github.com/asset-inventory/asset-inventory/internal/telemetry"
//
// Or import it directly and use an exported var:
//
//	telemetry.ExpiryEventsTotal.WithLabelValues("EXPIRED").Inc()
package telemetry

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics — labelled by method, route template, and status code.
//
// HTTPRequestsTotal is a CounterVec with labels {method, path, status}.
// The path label holds the Gin route template (e.g. /api/assets/:id),
// NOT the raw URL, to prevent unbounded cardinality.
//
// Example PromQL queries:
//   - Request rate (req/s, 5 m window):  rate(http_requests_total[5m])
//   - Error rate (%):                    sum(rate(http_requests_total{status=~"5.."}[5m])) / sum(rate(http_requests_total[5m])) * 100
//   - Requests by route:                 sum by (path) (rate(http_requests_total[5m]))
//
// HTTPRequestDuration is a HistogramVec with labels {method, path} and exponential-ish
// buckets from 5 ms to 30 s.  Use histogram_quantile to compute latency percentiles.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed, by method, route template, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request latencies, by method and route template.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)
)

// Expiration scan metrics — recorded by the expiry scanner background job.
//
// ExpiryEventsTotal is a CounterVec with label {kind} ("EXPIRED" or "EXPIRY_WARNING")
// incremented once per asset event recorded during a scan.
//
// ExpiryScanDuration is a Histogram using the default Prometheus buckets.
// Each observation is one complete scan over all expirable assets.
//
// Example PromQL queries:
//   - Events per day:     increase(expiry_events_total[24h])
//   - p95 scan duration:  histogram_quantile(0.95, rate(expiry_scan_duration_seconds_bucket[24h]))
var (
	ExpiryEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expiry_events_total",
			Help: "Total number of expiry events recorded, by kind (EXPIRED or EXPIRY_WARNING).",
		},
		[]string{"kind"},
	)

	ExpiryScanDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "expiry_scan_duration_seconds",
			Help:    "Duration of a single expiration scan over all expirable assets.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Device probe metrics — recorded by the reachability prober background job.
//
// DeviceProbesTotal is a CounterVec with label {result} ("up" or "down") incremented
// once per device probed in each probe cycle.
//
// DeviceTransitionsTotal is a CounterVec with label {direction} ("up" or "down")
// incremented only when a device changes reachability state.  An alert on
// rate(device_transitions_total{direction="down"}[1h]) > 0 catches flapping hosts.
var (
	DeviceProbesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "device_probes_total",
			Help: "Total number of device reachability probes, by result (up or down).",
		},
		[]string{"result"},
	)

	DeviceTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "device_transitions_total",
			Help: "Total number of device reachability state transitions, by direction (up or down).",
		},
		[]string{"direction"},
	)
)

// NotificationsSentTotal is a CounterVec with label {channel} ("email" or "telegram")
// incremented once per notification successfully delivered.  A stalled counter
// combined with assets approaching expiry is a useful alert signal for SMTP or
// Telegram delivery failures.
//
// Example PromQL queries:
//   - Rate of notifications sent:  rate(notifications_sent_total[24h])
var NotificationsSentTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Total number of notifications successfully sent, by channel.",
	},
	[]string{"channel"},
)

// DBOpenConnections is a Gauge that tracks the number of open connections currently
// held by the sql.DB connection pool.  It is sampled every 30 seconds by
// StartDBStatsCollector rather than per-request to avoid the overhead of sql.DB.Stats().
//
// Example PromQL queries:
//   - Pool utilisation (%): db_open_connections / <INV_DATABASE_MAX_CONNECTIONS> * 100
//   - Alert on near-exhaustion: db_open_connections > 20  (for max_connections=25)
var DBOpenConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "db_open_connections",
		Help: "Current number of open database connections in the pool.",
	},
)

// StartDBStatsCollector launches a background goroutine that samples sql.DB connection
// pool statistics every 30 seconds and updates the DBOpenConnections gauge.
// The goroutine exits cleanly when the database becomes unreachable (db.Ping fails),
// which happens automatically when the application shuts down and defers db.Close().
//
// Call this once, immediately after db.Connect() succeeds in main.go:
//
//	telemetry.StartDBStatsCollector(database)
func StartDBStatsCollector(db *sql.DB) {
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := db.Ping(); err != nil {
				slog.Warn("db stats collector: database unreachable, stopping collector", "error", err)
				return
			}
			DBOpenConnections.Set(float64(db.Stats().OpenConnections))
		}
	}()
}
