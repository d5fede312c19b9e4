// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/performance"
	"github.com/schemascope/schemascope-go/internal/infrastructure/security"
	"github.com/schemascope/schemascope-go/internal/presentation/http/middleware"
	"github.com/schemascope/schemascope-go/pkg/config"
)

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// LoginRequest represents the structure for login requests
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// PostLogin handles POST /api/v1/auth/login - admin authentication
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	projectCtx, exists := middleware.GetProjectContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
		return
	}

	start := time.Now()
	marker := h.perfTracker.StartOperation("post_login_request", projectCtx.ProjectID)
	defer marker.Complete()

	var loginReq LoginRequest
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		h.logger.Auth().Error("Login request JSON binding failed", "projectId", projectCtx.ProjectID, "error", err.Error())
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if projectCtx.Config.AdminPassword == "" {
		h.logger.Auth().Error("Login attempted against project with no admin password configured", "projectId", projectCtx.ProjectID)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Authentication not configured"})
		return
	}

	if !security.CheckPassword(loginReq.Password, projectCtx.Config.AdminPassword) {
		h.logger.Auth().Warn("Login attempt failed", "projectId", projectCtx.ProjectID, "duration", time.Since(start))
		marker.SetSuccess(false)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := security.GenerateAdminToken(projectCtx.ProjectID, projectCtx.Config.JWTSecret, config.AdminTokenTTL)
	if err != nil {
		h.logger.Auth().Error("Token generation failed", "projectId", projectCtx.ProjectID, "error", err.Error())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation failed"})
		return
	}

	c.SetCookie(
		"admin_auth",
		token,
		int(config.AdminTokenTTL.Seconds()),
		"/",
		"", // domain (empty for current domain)
		false,
		true, // httpOnly
	)

	h.logger.Auth().Info("Login successful", "projectId", projectCtx.ProjectID, "duration", time.Since(start))
	marker.SetSuccess(true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}

// PostLogout handles POST /api/v1/auth/logout - clears the auth cookie
func (h *AuthHandlers) PostLogout(c *gin.Context) {
	projectCtx, exists := middleware.GetProjectContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
		return
	}

	c.SetCookie("admin_auth", "", -1, "/", "", false, true)

	h.logger.Auth().Info("Logout completed", "projectId", projectCtx.ProjectID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetAuthStatus handles GET /api/v1/auth/status - checks current authentication
func (h *AuthHandlers) GetAuthStatus(c *gin.Context) {
	projectCtx, exists := middleware.GetProjectContext(c)
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
		return
	}

	token, method := h.extractToken(c)
	authenticated := false
	var expiresAt any

	if token != "" {
		if claims, err := security.ValidateJWT(token, projectCtx.Config.JWTSecret); err == nil {
			if security.IsAdminClaims(claims, projectCtx.ProjectID) {
				authenticated = true
				expiresAt = claims["exp"]
			}
		}
	}

	response := gin.H{
		"authenticated": authenticated,
	}
	if authenticated {
		response["method"] = method
		response["expiresAt"] = expiresAt
	}

	c.JSON(http.StatusOK, response)
}

// AuthMiddleware guards routes behind a valid admin token
func (h *AuthHandlers) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		projectCtx, exists := middleware.GetProjectContext(c)
		if !exists {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "project context not found"})
			c.Abort()
			return
		}

		token, _ := h.extractToken(c)
		if token != "" {
			if claims, err := security.ValidateJWT(token, projectCtx.Config.JWTSecret); err == nil {
				if security.IsAdminClaims(claims, projectCtx.ProjectID) {
					c.Next()
					return
				}
			}
		}

		h.logger.Auth().Warn("Unauthorized access attempt",
			"projectId", projectCtx.ProjectID, "path", c.Request.URL.Path)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		c.Abort()
	}
}

// extractToken pulls the admin token from the Authorization header, the
// auth cookie, or a token query param in that order. The query param exists
// for websocket clients which cannot set headers.
func (h *AuthHandlers) extractToken(c *gin.Context) (token, method string) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		return authHeader[7:], "bearer"
	}
	if cookie, err := c.Cookie("admin_auth"); err == nil && cookie != "" {
		return cookie, "cookie"
	}
	if query := c.Query("token"); query != "" {
		return query, "query"
	}
	return "", ""
}
