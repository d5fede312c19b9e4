// Package project manages project-specific configurations and context,
// isolating multi-project logic from the rest of the application.
package project

import (
	"fmt"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/schemascope/schemascope-go/internal/infrastructure/graphql"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/persistence/scans"
	"github.com/schemascope/schemascope-go/pkg/config"
)

// Manager coordinates project detection and context creation
type Manager struct {
	detector       *Detector
	contexts       map[string]*Context
	contextMutexes sync.Map // Per-project mutexes for fine-grained locking
	globalMutex    sync.RWMutex
	logger         *logging.ChanneledLogger
}

// NewManager creates and initializes a new project manager.
func NewManager(logger *logging.ChanneledLogger) (*Manager, error) {
	detector, err := NewDetector(logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize project detector: %w", err)
	}

	return &Manager{
		detector: detector,
		contexts: make(map[string]*Context),
		logger:   logger,
	}, nil
}

// GetContext creates or retrieves a project context for the request
func (m *Manager) GetContext(c *gin.Context) (*Context, error) {
	projectID, err := m.detector.DetectProject(c)
	if err != nil {
		return nil, fmt.Errorf("project detection failed: %w", err)
	}

	m.globalMutex.RLock()
	if ctx, exists := m.contexts[projectID]; exists {
		m.globalMutex.RUnlock()
		if ctx.Database != nil && ctx.Database.Conn != nil {
			return ctx, nil
		}
	} else {
		m.globalMutex.RUnlock()
	}

	mutexAny, _ := m.contextMutexes.LoadOrStore(projectID, &sync.Mutex{})
	projectMutex := mutexAny.(*sync.Mutex)

	projectMutex.Lock()
	defer projectMutex.Unlock()

	m.globalMutex.RLock()
	if ctx, exists := m.contexts[projectID]; exists {
		m.globalMutex.RUnlock()
		if ctx.Database != nil && ctx.Database.Conn != nil {
			return ctx, nil
		}
	} else {
		m.globalMutex.RUnlock()
	}

	return m.createContext(projectID)
}

// NewContextFromID creates a new project context from a project ID string.
func (m *Manager) NewContextFromID(projectID string) (*Context, error) {
	return m.createContext(projectID)
}

// createContext creates a new project context
func (m *Manager) createContext(projectID string) (*Context, error) {
	cfg, err := LoadProjectConfig(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}

	if generated, err := cfg.EnsureSecrets(); err != nil {
		return nil, err
	} else if generated {
		m.logger.Project().Info("Generated missing project secrets", "projectId", projectID)
	}

	token, err := cfg.ResolveAPIToken()
	if err != nil {
		return nil, err
	}

	client := graphql.NewClient(cfg.Endpoint, token, graphql.ClientOptions{
		Timeout:  config.GraphQLRequestTimeout,
		RetryMax: config.GraphQLRetryMax,
	})

	db, err := scans.NewDatabase(scans.DatabaseConfig{
		ProjectID:      projectID,
		SQLitePath:     cfg.ScanDBPath,
		LibsqlDatabase: cfg.LibsqlDatabase,
		LibsqlToken:    cfg.LibsqlToken,
		LibsqlEnabled:  cfg.LibsqlEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create database connection: %w", err)
	}

	store := scans.NewStore(db)
	if err := store.CreateTables(); err != nil {
		return nil, err
	}

	ctx := &Context{
		ProjectID: projectID,
		Config:    cfg,
		GraphQL:   client,
		Database:  db,
		ScanStore: store,
		Status:    m.detector.GetProjectStatus(projectID),
	}

	m.globalMutex.Lock()
	m.contexts[projectID] = ctx
	m.globalMutex.Unlock()

	return ctx, nil
}

// PreActivateAllProjects activates all registered projects during startup
func (m *Manager) PreActivateAllProjects() error {
	registry, err := LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load project registry for pre-activation: %w", err)
	}

	if len(registry.Projects) == 0 {
		return nil
	}

	var failed []string
	for projectID, info := range registry.Projects {
		if info.Status == "active" {
			continue
		}
		if err := m.preActivateSingleProject(projectID); err != nil {
			m.logger.Project().Warn("Project pre-activation failed", "projectId", projectID, "error", err)
			failed = append(failed, projectID)
		}
	}

	if err := m.detector.RefreshRegistry(); err != nil {
		return fmt.Errorf("failed to refresh detector registry: %w", err)
	}

	if len(failed) > 0 {
		return fmt.Errorf("pre-activation failed for projects: %v", failed)
	}
	return nil
}

func (m *Manager) preActivateSingleProject(projectID string) error {
	ctx, err := m.createContext(projectID)
	if err != nil {
		return fmt.Errorf("failed to create context for project %s: %w", projectID, err)
	}

	if err := ctx.Database.Conn.Ping(); err != nil {
		return fmt.Errorf("database connection test failed for project %s: %w", projectID, err)
	}

	dbType := "sqlite3"
	if ctx.Database.UseLibsql {
		dbType = "libsql"
	}
	m.detector.UpdateProjectStatus(projectID, "active", dbType)
	return nil
}

// GetActiveProjectCount returns the number of active projects
func (m *Manager) GetActiveProjectCount() (int, error) {
	registry, err := LoadRegistry()
	if err != nil {
		return 0, fmt.Errorf("failed to load project registry: %w", err)
	}

	active := 0
	for _, info := range registry.Projects {
		if info.Status == "active" {
			active++
		}
	}
	return active, nil
}

// GetDetector returns the detector for external access (needed by startup code)
func (m *Manager) GetDetector() *Detector {
	return m.detector
}

// GetLogger returns the logger for middleware access
func (m *Manager) GetLogger() *logging.ChanneledLogger {
	return m.logger
}

// Close cleans up all project contexts
func (m *Manager) Close() error {
	m.globalMutex.Lock()
	defer m.globalMutex.Unlock()

	for _, ctx := range m.contexts {
		if err := ctx.Close(); err != nil {
			continue
		}
	}

	m.contexts = make(map[string]*Context)
	return nil
}
