// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/schemascope/schemascope-go/internal/application/services"
	"github.com/schemascope/schemascope-go/internal/infrastructure/messaging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/performance"
	"github.com/schemascope/schemascope-go/internal/infrastructure/project"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Engine services (stateless singletons)
	SchemaService *services.SchemaService
	UsageService  *services.UsageService
	ScanService   *services.ScanService

	// Infrastructure
	ProjectManager *project.Manager
	Broadcaster    *messaging.ScanBroadcaster
	Logger         *logging.ChanneledLogger
	PerfTracker    *performance.Tracker
}

// NewContainer creates and wires all singleton services
func NewContainer(projectManager *project.Manager, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *Container {
	broadcaster := messaging.NewScanBroadcaster(logger)
	schemaService := services.NewSchemaService(logger, perfTracker)
	usageService := services.NewUsageService(logger, perfTracker, schemaService)
	scanService := services.NewScanService(logger, perfTracker, usageService, broadcaster)

	return &Container{
		SchemaService: schemaService,
		UsageService:  usageService,
		ScanService:   scanService,

		ProjectManager: projectManager,
		Broadcaster:    broadcaster,
		Logger:         logger,
		PerfTracker:    perfTracker,
	}
}
