package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/schemascope/schemascope-go/internal/application/services"
	"github.com/schemascope/schemascope-go/internal/infrastructure/messaging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/performance"
	"github.com/schemascope/schemascope-go/internal/presentation/http/middleware"
)

const defaultScanListLimit = 20

// ScanHandlers serves full-schema batch scans and their history
type ScanHandlers struct {
	schemaService *services.SchemaService
	scanService   *services.ScanService
	broadcaster   *messaging.ScanBroadcaster
	upgrader      websocket.Upgrader
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewScanHandlers creates scan handlers with injected dependencies
func NewScanHandlers(schemaService *services.SchemaService, scanService *services.ScanService, broadcaster *messaging.ScanBroadcaster, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *ScanHandlers {
	return &ScanHandlers{
		schemaService: schemaService,
		scanService:   scanService,
		broadcaster:   broadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// CORS is enforced by middleware on the HTTP layer; the upgrade
			// itself accepts any origin the middleware let through.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// PostScan handles POST /api/v1/scans - starts a background full scan
func (h *ScanHandlers) PostScan(c *gin.Context) {
	projectCtx, exists := middleware.GetProjectContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
		return
	}

	marker := h.perfTracker.StartOperation("post_scan_request", projectCtx.ProjectID)
	defer marker.Complete()

	snapshot, err := h.schemaService.Classify(c.Request.Context(), projectCtx)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "schema introspection failed", "detail": err.Error()})
		return
	}

	// The scan outlives the request; its lifetime is not tied to the
	// request context.
	scanID, err := h.scanService.StartScan(context.Background(), projectCtx, snapshot, parseLocateOptions(c))
	if err != nil {
		marker.SetSuccess(false)
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	marker.SetSuccess(true)
	h.logger.Scan().Info("Full scan started",
		"projectId", projectCtx.ProjectID, "scanId", scanID,
		"components", len(snapshot.Components), "enums", len(snapshot.Enums))

	c.JSON(http.StatusAccepted, gin.H{"scanId": scanID})
}

// GetScans handles GET /api/v1/scans - lists recent scans, newest first
func (h *ScanHandlers) GetScans(c *gin.Context) {
	projectCtx, exists := middleware.GetProjectContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
		return
	}

	limit := defaultScanListLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	scans, err := projectCtx.ScanStore.ListScans(projectCtx.ProjectID, limit)
	if err != nil {
		h.logger.Database().Error("Failed to list scans", "projectId", projectCtx.ProjectID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list scans"})
		return
	}

	activeID, _ := h.scanService.ActiveScan(projectCtx.ProjectID)
	c.JSON(http.StatusOK, gin.H{"scans": scans, "activeScanId": activeID})
}

// GetScan handles GET /api/v1/scans/:id
func (h *ScanHandlers) GetScan(c *gin.Context) {
	projectCtx, exists := middleware.GetProjectContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
		return
	}

	id := c.Param("id")
	scan, err := projectCtx.ScanStore.GetScan(id)
	if err != nil {
		h.logger.Database().Error("Failed to load scan", "projectId", projectCtx.ProjectID, "scanId", id, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load scan"})
		return
	}
	if scan == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown scan: " + id})
		return
	}

	c.JSON(http.StatusOK, scan)
}

// GetScanProgress handles GET /api/v1/scans/progress - a websocket stream of
// progress updates for the project's running scan.
func (h *ScanHandlers) GetScanProgress(c *gin.Context) {
	projectCtx, exists := middleware.GetProjectContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Scan().Warn("Websocket upgrade failed", "projectId", projectCtx.ProjectID, "error", err.Error())
		return
	}
	defer conn.Close()

	updates := h.broadcaster.Subscribe(projectCtx.ProjectID)
	defer h.broadcaster.Unsubscribe(projectCtx.ProjectID, updates)

	h.logger.Scan().Debug("Scan progress subscriber connected", "projectId", projectCtx.ProjectID)

	// Reader goroutine only notices the client going away.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(update); err != nil {
				h.logger.Scan().Debug("Scan progress write failed, dropping subscriber",
					"projectId", projectCtx.ProjectID, "error", err.Error())
				return
			}
			if update.Done {
				return
			}
		case <-clientGone:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
