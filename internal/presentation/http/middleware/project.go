// Package middleware provides HTTP middleware for the presentation layer.
package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/performance"
	"github.com/schemascope/schemascope-go/internal/infrastructure/project"
)

// ProjectMiddleware creates middleware that resolves the request's project
// and attaches a full project context.
func ProjectMiddleware(projectManager *project.Manager, perfTracker *performance.Tracker) gin.HandlerFunc {
	logger := projectManager.GetLogger()

	return func(c *gin.Context) {
		start := time.Now()
		marker := perfTracker.StartOperation("middleware_project_resolution", "unknown")
		defer marker.Complete()

		marker.AddMetadata("path", c.Request.URL.Path)
		marker.AddMetadata("method", c.Request.Method)

		projectCtx, err := projectManager.GetContext(c)
		if err != nil {
			logger.Project().Warn("Project resolution failed",
				"path", c.Request.URL.Path, "error", err)
			marker.SetSuccess(false)
			marker.SetError(err)
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			c.Abort()
			return
		}

		if projectCtx.Config.Endpoint == "" {
			errMsg := fmt.Sprintf("project '%s' has no content API endpoint configured", projectCtx.ProjectID)
			logger.Project().Error(errMsg)
			marker.SetSuccess(false)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": errMsg})
			c.Abort()
			return
		}

		logger.Project().Debug("Project context resolved",
			"projectId", projectCtx.ProjectID,
			"duration", time.Since(start),
			"database", projectCtx.GetDatabaseInfo(),
		)
		marker.ProjectID = projectCtx.ProjectID
		marker.SetSuccess(true)

		c.Set("project", projectCtx)

		c.Next()
	}
}

// GetProjectContext retrieves the project context from gin context.
func GetProjectContext(c *gin.Context) (*project.Context, bool) {
	projectCtx, exists := c.Get("project")
	if !exists {
		return nil, false
	}

	ctx, ok := projectCtx.(*project.Context)
	return ctx, ok
}
