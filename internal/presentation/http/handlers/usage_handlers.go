package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schemascope/schemascope-go/internal/application/services"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/performance"
	"github.com/schemascope/schemascope-go/internal/presentation/http/middleware"
)

// UsageHandlers serves on-demand usage resolution for single elements
type UsageHandlers struct {
	schemaService *services.SchemaService
	usageService  *services.UsageService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewUsageHandlers creates usage handlers with injected dependencies
func NewUsageHandlers(schemaService *services.SchemaService, usageService *services.UsageService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *UsageHandlers {
	return &UsageHandlers{
		schemaService: schemaService,
		usageService:  usageService,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// GetComponentUsage handles GET /api/v1/usage/components/:name
func (h *UsageHandlers) GetComponentUsage(c *gin.Context) {
	projectCtx, exists := middleware.GetProjectContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
		return
	}

	start := time.Now()
	marker := h.perfTracker.StartOperation("get_component_usage_request", projectCtx.ProjectID)
	defer marker.Complete()

	name := c.Param("name")
	marker.AddMetadata("component", name)

	snapshot, err := h.schemaService.Classify(c.Request.Context(), projectCtx)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "schema introspection failed", "detail": err.Error()})
		return
	}

	if snapshot.ComponentByName(name) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown component: " + name})
		return
	}

	result, err := h.usageService.LocateComponent(c.Request.Context(), projectCtx, snapshot, name, parseLocateOptions(c))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	h.logger.Scan().Info("Component usage resolved",
		"projectId", projectCtx.ProjectID, "component", name,
		"usages", len(result.Usages), "duration", time.Since(start))

	c.JSON(http.StatusOK, result)
}

// GetEnumUsage handles GET /api/v1/usage/enums/:name
func (h *UsageHandlers) GetEnumUsage(c *gin.Context) {
	projectCtx, exists := middleware.GetProjectContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
		return
	}

	start := time.Now()
	marker := h.perfTracker.StartOperation("get_enum_usage_request", projectCtx.ProjectID)
	defer marker.Complete()

	name := c.Param("name")
	marker.AddMetadata("enum", name)

	snapshot, err := h.schemaService.Classify(c.Request.Context(), projectCtx)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "schema introspection failed", "detail": err.Error()})
		return
	}

	if snapshot.EnumByName(name) == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown enum: " + name})
		return
	}

	result, err := h.usageService.LocateEnum(c.Request.Context(), projectCtx, snapshot, name, parseLocateOptions(c))
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	h.logger.Scan().Info("Enum usage resolved",
		"projectId", projectCtx.ProjectID, "enum", name,
		"usages", len(result.Usages), "duration", time.Since(start))

	c.JSON(http.StatusOK, result)
}

// parseLocateOptions reads per-request tuning overrides from query params.
// Absent or malformed values fall back to the configured defaults.
func parseLocateOptions(c *gin.Context) services.LocateOptions {
	var opts services.LocateOptions
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		opts.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("maxHops")); err == nil {
		opts.MaxHops = v
	}
	if v, err := strconv.Atoi(c.Query("maxDepth")); err == nil {
		opts.MaxDepth = v
	}
	return opts
}
