package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schemascope/schemascope-go/internal/application/services"
	"github.com/schemascope/schemascope-go/internal/infrastructure/graphql"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/performance"
	"github.com/schemascope/schemascope-go/internal/presentation/http/middleware"
)

// SchemaHandlers serves the classified schema overview
type SchemaHandlers struct {
	schemaService *services.SchemaService
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewSchemaHandlers creates schema handlers with injected dependencies
func NewSchemaHandlers(schemaService *services.SchemaService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SchemaHandlers {
	return &SchemaHandlers{
		schemaService: schemaService,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// GetElements handles GET /api/v1/schema/elements - the flattened overview
// of every component and enum with its back references.
func (h *SchemaHandlers) GetElements(c *gin.Context) {
	projectCtx, exists := middleware.GetProjectContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
		return
	}

	start := time.Now()
	marker := h.perfTracker.StartOperation("get_schema_elements_request", projectCtx.ProjectID)
	defer marker.Complete()

	elements, err := h.schemaService.Elements(c.Request.Context(), projectCtx)
	if err != nil {
		marker.SetError(err)
		h.respondSchemaError(c, projectCtx.ProjectID, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.Schema().Debug("Schema elements served",
		"projectId", projectCtx.ProjectID, "count", len(elements), "duration", time.Since(start))

	c.JSON(http.StatusOK, gin.H{"elements": elements})
}

// GetSnapshot handles GET /api/v1/schema/snapshot - the full classified view.
func (h *SchemaHandlers) GetSnapshot(c *gin.Context) {
	projectCtx, exists := middleware.GetProjectContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
		return
	}

	marker := h.perfTracker.StartOperation("get_schema_snapshot_request", projectCtx.ProjectID)
	defer marker.Complete()

	snapshot, err := h.schemaService.Classify(c.Request.Context(), projectCtx)
	if err != nil {
		marker.SetError(err)
		h.respondSchemaError(c, projectCtx.ProjectID, err)
		return
	}

	marker.SetSuccess(true)
	c.JSON(http.StatusOK, snapshot)
}

// respondSchemaError maps introspection failures to HTTP status codes. A
// schema fetch failure is the backend's fault, not the client's.
func (h *SchemaHandlers) respondSchemaError(c *gin.Context, projectID string, err error) {
	h.logger.Schema().Error("Schema request failed", "projectId", projectID, "error", err.Error())

	var fetchErr *graphql.SchemaFetchError
	if errors.As(err, &fetchErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "schema introspection failed", "detail": err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
