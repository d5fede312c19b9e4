// Package project provides project detection and validation.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
	"github.com/schemascope/schemascope-go/pkg/config"
)

// Detector handles project detection from HTTP requests
type Detector struct {
	registry     *Registry
	multiProject bool
	logger       *logging.ChanneledLogger
}

// NewDetector creates a new project detector
func NewDetector(logger *logging.ChanneledLogger) (*Detector, error) {
	registry, err := LoadRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load project registry: %w", err)
	}

	return &Detector{
		registry:     registry,
		multiProject: config.EnableMultiProject,
		logger:       logger,
	}, nil
}

// DetectProject extracts the project ID from a request and auto-registers if needed
func (d *Detector) DetectProject(c *gin.Context) (string, error) {
	var projectID string

	if d.multiProject {
		projectID = c.GetHeader("X-Project-ID")
		// Fallback for websocket scan-progress connections, which cannot
		// always set custom headers.
		if projectID == "" {
			projectID = c.Query("projectId")
		}

		if projectID == "" {
			return "", fmt.Errorf("missing project ID header in multi-project mode")
		}
	} else {
		projectID = "default"
	}

	if _, exists := d.registry.Projects[projectID]; !exists {
		if projectID == "default" || d.hasConfigDirectory(projectID) {
			if err := RegisterProject(projectID); err != nil {
				return "", fmt.Errorf("failed to auto-register project %s: %w", projectID, err)
			}
			if err := d.RefreshRegistry(); err != nil {
				return "", fmt.Errorf("failed to reload registry after auto-registration: %w", err)
			}
		} else {
			return "", fmt.Errorf("unknown project: %s", projectID)
		}
	}

	return projectID, nil
}

// hasConfigDirectory checks if a project has a config directory
func (d *Detector) hasConfigDirectory(projectID string) bool {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return false
	}

	configDir := filepath.Join(homeDir, config.HomeDirName, "config", projectID)
	_, err = os.Stat(configDir)
	return err == nil
}

// GetProjectStatus returns the current status of a project
func (d *Detector) GetProjectStatus(projectID string) string {
	if info, exists := d.registry.Projects[projectID]; exists {
		return info.Status
	}
	return "unknown"
}

// UpdateProjectStatus updates the cached registry status
func (d *Detector) UpdateProjectStatus(projectID, status, dbType string) {
	if info, exists := d.registry.Projects[projectID]; exists {
		info.Status = status
		if dbType != "" {
			info.DatabaseType = dbType
		}
		d.registry.Projects[projectID] = info
	}
}

// RefreshRegistry reloads the project registry from disk
func (d *Detector) RefreshRegistry() error {
	registry, err := LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to refresh project registry: %w", err)
	}
	d.registry = registry
	return nil
}

// GetRegistry returns the current registry (for external access)
func (d *Detector) GetRegistry() *Registry {
	return d.registry
}
