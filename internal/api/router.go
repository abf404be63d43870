// Package api wires together all HTTP routes for the asset inventory backend.
//
// Route grouping philosophy:
//   - /health and /version are unauthenticated so that load balancers and
//     deploy tooling can probe the service without credentials.
//   - /api/auth/login is unauthenticated but sits behind a strict rate limiter
//     to slow down credential stuffing.
//   - Everything else under /api requires a valid session token. Reads are
//     open to every role; writes require editor or admin; user management and
//     the audit trail require admin.
package api

import (
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/asset-inventory/asset-inventory/internal/audit"
	"github.com/asset-inventory/asset-inventory/internal/config"
	"github.com/asset-inventory/asset-inventory/internal/db/repositories"
	"github.com/asset-inventory/asset-inventory/internal/middleware"
	"github.com/asset-inventory/asset-inventory/internal/monitor"
	"github.com/asset-inventory/asset-inventory/internal/notify"
)

// BackgroundServices holds references to background jobs and resources that must
// be stopped during graceful shutdown. The caller (cmd/server) is responsible for
// calling Shutdown() when the process receives a termination signal.
type BackgroundServices struct {
	scheduler    *monitor.Scheduler
	recorder     *audit.Recorder
	rateLimiters []*middleware.RateLimiter
}

// Shutdown stops all background goroutines. It should be called after the HTTP
// server has been shut down so that in-flight requests are drained first. The
// audit recorder is drained last so entries written by the final requests and
// the final monitoring runs are not lost.
func (bg *BackgroundServices) Shutdown() {
	slog.Info("stopping background services")
	if bg.scheduler != nil {
		bg.scheduler.Stop()
	}
	for _, rl := range bg.rateLimiters {
		rl.Stop()
	}
	if bg.recorder != nil {
		bg.recorder.Drain()
	}
	slog.Info("all background services stopped")
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sql.DB) (*gin.Engine, *BackgroundServices) {
	router := gin.New()

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	assetRepo := repositories.NewAssetRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	locationRepo := repositories.NewLocationRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	statsRepo := repositories.NewStatsRepository(db)

	recorder := audit.NewRecorder(auditRepo)
	dispatcher := notify.NewDispatcher(&cfg.Notifications)

	// Monitoring jobs: daily expiration scan, periodic reachability probe
	var scheduler *monitor.Scheduler
	if cfg.Monitoring.Enabled {
		scanner := monitor.NewExpiryScanner(assetRepo, userRepo, recorder, dispatcher, cfg.Monitoring.ExpiryWarningDays)
		prober := monitor.NewReachabilityProber(assetRepo, userRepo, recorder, dispatcher, monitor.NewICMPPinger(cfg.Monitoring.ProbeTimeout))

		var err error
		scheduler, err = monitor.NewScheduler(&cfg.Monitoring, scanner, prober)
		if err != nil {
			log.Fatalf("Failed to initialize monitoring scheduler: %v", err)
		}
		scheduler.Start()
		log.Printf("Monitoring scheduler started (expiry %q, probe %q)", cfg.Monitoring.ExpirySchedule, cfg.Monitoring.ProbeSchedule)
	} else {
		log.Println("Monitoring disabled")
	}

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware(cfg))
	router.Use(CORSMiddleware(cfg))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// API version
	router.GET("/version", versionHandler())

	// Rate limiters: a strict one for login, a general one for the API
	loginRateLimiter := middleware.NewRateLimiter(middleware.LoginRateLimitConfig())
	generalRateLimiter := middleware.NewRateLimiter(middleware.DefaultRateLimitConfig())

	// Handlers
	authHandlers := NewAuthHandlers(cfg, userRepo, recorder)
	assetHandlers := NewAssetHandlers(assetRepo, recorder)
	projectHandlers := NewProjectHandlers(projectRepo, recorder)
	locationHandlers := NewLocationHandlers(locationRepo, recorder)
	userHandlers := NewUserHandlers(userRepo, recorder)
	auditHandlers := NewAuditHandlers(auditRepo)
	statsHandlers := NewStatsHandlers(cfg, statsRepo)

	api := router.Group("/api")
	{
		// Login is unauthenticated but strictly rate limited
		loginGroup := api.Group("/auth")
		loginGroup.Use(middleware.RateLimitMiddleware(loginRateLimiter))
		{
			loginGroup.POST("/login", authHandlers.LoginHandler())
		}

		// Everything below requires a valid session token
		authenticated := api.Group("")
		authenticated.Use(middleware.RateLimitMiddleware(generalRateLimiter))
		authenticated.Use(middleware.AuthMiddleware(userRepo))
		{
			authenticated.GET("/auth/me", authHandlers.MeHandler())

			// Assets: reads for every role, writes for editor and admin
			authenticated.GET("/assets", assetHandlers.ListAssetsHandler())
			authenticated.GET("/assets/:id", assetHandlers.GetAssetHandler())
			assetWrites := authenticated.Group("/assets")
			assetWrites.Use(middleware.RequireWriter())
			{
				assetWrites.POST("", assetHandlers.CreateAssetHandler())
				assetWrites.PUT("/:id", assetHandlers.UpdateAssetHandler())
				assetWrites.DELETE("/:id", assetHandlers.DeleteAssetHandler())
			}

			authenticated.GET("/projects", projectHandlers.ListProjectsHandler())
			authenticated.GET("/projects/:id", projectHandlers.GetProjectHandler())
			projectWrites := authenticated.Group("/projects")
			projectWrites.Use(middleware.RequireWriter())
			{
				projectWrites.POST("", projectHandlers.CreateProjectHandler())
				projectWrites.PUT("/:id", projectHandlers.UpdateProjectHandler())
				projectWrites.DELETE("/:id", projectHandlers.DeleteProjectHandler())
			}

			authenticated.GET("/locations", locationHandlers.ListLocationsHandler())
			authenticated.GET("/locations/:id", locationHandlers.GetLocationHandler())
			locationWrites := authenticated.Group("/locations")
			locationWrites.Use(middleware.RequireWriter())
			{
				locationWrites.POST("", locationHandlers.CreateLocationHandler())
				locationWrites.PUT("/:id", locationHandlers.UpdateLocationHandler())
				locationWrites.DELETE("/:id", locationHandlers.DeleteLocationHandler())
			}

			// User management (admin only)
			usersGroup := authenticated.Group("/users")
			usersGroup.Use(middleware.RequireAdmin())
			{
				usersGroup.GET("", userHandlers.ListUsersHandler())
				usersGroup.GET("/:id", userHandlers.GetUserHandler())
				usersGroup.POST("", userHandlers.CreateUserHandler())
				usersGroup.PUT("/:id", userHandlers.UpdateUserHandler())
				usersGroup.DELETE("/:id", userHandlers.DeleteUserHandler())
			}

			// Audit trail (admin only, read-only)
			auditGroup := authenticated.Group("/audit-logs")
			auditGroup.Use(middleware.RequireAdmin())
			{
				auditGroup.GET("", auditHandlers.ListAuditLogsHandler())
				auditGroup.GET("/:id", auditHandlers.GetAuditLogHandler())
			}

			authenticated.GET("/stats/dashboard", statsHandlers.DashboardHandler())
		}
	}

	bg := &BackgroundServices{
		scheduler:    scheduler,
		recorder:     recorder,
		rateLimiters: []*middleware.RateLimiter{loginRateLimiter, generalRateLimiter},
	}

	return router, bg
}

// @Summary      Health check
// @Description  Returns the health status of the service, including database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status: healthy, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "status: unhealthy, error: database connection failed"
// @Router       /health [get]
// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check database connection
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      API version
// @Description  Returns the current API version.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "version, api_version"
// @Router       /version [get]
// versionHandler returns the API version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     "0.1.0",
			"api_version": "v1",
		})
	}
}

// LoggerMiddleware provides structured logging
func LoggerMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		// Log the request
		if cfg.Logging.Format == "json" {
			logJSON(c, latency, path, query)
		} else {
			logText(c, latency, path, query)
		}
	}
}

// logJSON logs a request as a JSON-structured slog record.
func logJSON(c *gin.Context, latency time.Duration, path, query string) {
	requestID, _ := c.Get(middleware.RequestIDKey)
	slog.LogAttrs(
		c.Request.Context(),
		slog.LevelInfo,
		"http request",
		slog.String("method", c.Request.Method),
		slog.String("path", path),
		slog.String("query", query),
		slog.Int("status", c.Writer.Status()),
		slog.Int("size", c.Writer.Size()),
		slog.Duration("latency", latency),
		slog.String("ip", c.ClientIP()),
		slog.String("request_id", fmt.Sprintf("%v", requestID)),
		slog.String("user_agent", c.Request.UserAgent()),
	)
}

// logText logs a request as a human-readable slog text record.
func logText(c *gin.Context, latency time.Duration, path, query string) {
	// reuse the same structured output; slog will emit text format when the global
	// handler is a TextHandler (configured in telemetry.SetupLogger).
	logJSON(c, latency, path, query)
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		// Check if origin is allowed
		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
