package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/performance"
	"github.com/schemascope/schemascope-go/internal/infrastructure/persistence/scans"
	"github.com/schemascope/schemascope-go/internal/infrastructure/project"
	"github.com/schemascope/schemascope-go/internal/presentation/http/middleware"
)

// HealthHandlers serves liveness and operational status
type HealthHandlers struct {
	projectManager *project.Manager
	perfTracker    *performance.Tracker
	logger         *logging.ChanneledLogger
	startedAt      time.Time
}

// NewHealthHandlers creates health handlers with injected dependencies
func NewHealthHandlers(projectManager *project.Manager, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *HealthHandlers {
	return &HealthHandlers{
		projectManager: projectManager,
		perfTracker:    perfTracker,
		logger:         logger,
		startedAt:      time.Now().UTC(),
	}
}

// GetHealth handles GET /health
func (h *HealthHandlers) GetHealth(c *gin.Context) {
	activeProjects, err := h.projectManager.GetActiveProjectCount()
	if err != nil {
		activeProjects = -1
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"uptime":         time.Since(h.startedAt).String(),
		"activeProjects": activeProjects,
		"dbPools":        scans.GetPoolStats(),
	})
}

// GetProjectHealth handles GET /api/v1/health - one project's audit readiness
func (h *HealthHandlers) GetProjectHealth(c *gin.Context) {
	projectCtx, exists := middleware.GetProjectContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
		return
	}

	dbOK := projectCtx.Database != nil && projectCtx.Database.Conn != nil &&
		projectCtx.Database.Conn.Ping() == nil

	endpointOK := false
	if _, err := projectCtx.GraphQL.TypeFields(c.Request.Context(), "Query"); err == nil {
		endpointOK = true
	}

	status := "ok"
	if !dbOK || !endpointOK {
		status = "degraded"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":            status,
		"projectId":         projectCtx.ProjectID,
		"projectStatus":     projectCtx.Status,
		"endpointReachable": endpointOK,
		"scanStore":         projectCtx.GetDatabaseInfo(),
	})
}

// GetMetrics handles GET /api/v1/metrics - operational performance stats
func (h *HealthHandlers) GetMetrics(c *gin.Context) {
	projectCtx, exists := middleware.GetProjectContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats":            h.perfTracker.GetOverallStats(),
		"activeOperations": h.perfTracker.GetActiveOperations(projectCtx.ProjectID),
		"alerts":           h.perfTracker.GetAlerts(projectCtx.ProjectID),
	})
}
