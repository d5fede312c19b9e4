// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/schemascope/schemascope-go/internal/application/container"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/performance"
	"github.com/schemascope/schemascope-go/internal/infrastructure/persistence/scans"
	"github.com/schemascope/schemascope-go/internal/infrastructure/project"
	"github.com/schemascope/schemascope-go/internal/presentation/http/server"
	"github.com/schemascope/schemascope-go/pkg/config"
)

// Initialize performs the complete server startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	ctx, cancelBackgroundTasks := context.WithCancel(context.Background())
	defer cancelBackgroundTasks()

	// Step 1: Channeled logging and performance tracking
	logger, err := logging.NewChanneledLogger(nil)
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logger.Close()

	perfTracker := performance.NewTracker(nil)

	logger.Startup().Info("SchemaScope server starting")

	// Step 2: Project system
	logger.Startup().Info("Initializing project manager...")
	projectManager, err := project.NewManager(logger)
	if err != nil {
		return fmt.Errorf("failed to initialize project manager: %w", err)
	}

	// Step 3: Load the registry to discover configured projects
	registry, err := project.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load project registry: %w", err)
	}
	logger.Startup().Info("Project registry loaded", "projects", len(registry.Projects))

	// Step 4: Pre-activate registered projects
	logger.Startup().Info("Starting project pre-activation...")
	if err := projectManager.PreActivateAllProjects(); err != nil {
		// Projects with unreachable endpoints stay inactive; the server
		// still starts so healthy projects remain auditable.
		logger.Startup().Warn("Project pre-activation incomplete", "error", err.Error())
	}

	activeCount, err := projectManager.GetActiveProjectCount()
	if err != nil {
		return fmt.Errorf("failed to count active projects: %w", err)
	}
	logger.Startup().Info("Project pre-activation finished", "active", activeCount)

	// Step 5: Dependency injection container
	appContainer := container.NewContainer(projectManager, logger, perfTracker)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 6: Background maintenance
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				perfTracker.Cleanup()
				scans.CleanupStaleConnections()
			}
		}
	}()

	// Step 7: HTTP server
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"activeProjects", activeCount,
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	cancelBackgroundTasks()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped")
	}

	if err := projectManager.Close(); err != nil {
		logger.Shutdown().Error("Error closing project manager", "error", err.Error())
	} else {
		logger.Shutdown().Info("Project manager closed")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
