// Package routes provides HTTP route configuration for the presentation layer.
package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/schemascope/schemascope-go/internal/application/container"
	"github.com/schemascope/schemascope-go/internal/presentation/http/handlers"
	"github.com/schemascope/schemascope-go/internal/presentation/http/middleware"
)

// SetupRoutes configures all HTTP routes and middleware with dependency injection.
func SetupRoutes(container *container.Container) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.CORSMiddleware())

	// Initialize handlers
	authHandlers := handlers.NewAuthHandlers(container.Logger, container.PerfTracker)
	schemaHandlers := handlers.NewSchemaHandlers(container.SchemaService, container.Logger, container.PerfTracker)
	usageHandlers := handlers.NewUsageHandlers(container.SchemaService, container.UsageService, container.Logger, container.PerfTracker)
	scanHandlers := handlers.NewScanHandlers(container.SchemaService, container.ScanService, container.Broadcaster, container.Logger, container.PerfTracker)
	healthHandlers := handlers.NewHealthHandlers(container.ProjectManager, container.Logger, container.PerfTracker)

	// Liveness stays outside project resolution
	r.GET("/health", healthHandlers.GetHealth)

	// API routes with project middleware
	api := r.Group("/api/v1")
	api.Use(middleware.ProjectMiddleware(container.ProjectManager, container.PerfTracker))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandlers.PostLogin)
			auth.POST("/logout", authHandlers.PostLogout)
			auth.GET("/status", authHandlers.GetAuthStatus)
		}

		api.GET("/health", healthHandlers.GetProjectHealth)
		api.GET("/metrics", authHandlers.AuthMiddleware(), healthHandlers.GetMetrics)

		// Schema overview endpoints
		schema := api.Group("/schema")
		schema.Use(authHandlers.AuthMiddleware())
		{
			schema.GET("/elements", schemaHandlers.GetElements)
			schema.GET("/snapshot", schemaHandlers.GetSnapshot)
		}

		// Single-element usage resolution
		usage := api.Group("/usage")
		usage.Use(authHandlers.AuthMiddleware())
		{
			usage.GET("/components/:name", usageHandlers.GetComponentUsage)
			usage.GET("/enums/:name", usageHandlers.GetEnumUsage)
		}

		// Full-schema batch scans. The progress websocket authenticates via
		// token query param since browsers cannot set headers on upgrade.
		scans := api.Group("/scans")
		scans.Use(authHandlers.AuthMiddleware())
		{
			scans.POST("", scanHandlers.PostScan)
			scans.GET("", scanHandlers.GetScans)
			scans.GET("/ws", scanHandlers.GetScanProgress)
			scans.GET("/:id", scanHandlers.GetScan)
		}
	}

	return r
}
