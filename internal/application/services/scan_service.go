// Package services provides batch scan orchestration
package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/schemascope/schemascope-go/internal/domain/entities/schema"
	"github.com/schemascope/schemascope-go/internal/domain/entities/usage"
	"github.com/schemascope/schemascope-go/internal/infrastructure/messaging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/performance"
	"github.com/schemascope/schemascope-go/internal/infrastructure/project"
	"github.com/schemascope/schemascope-go/internal/infrastructure/security"
	"github.com/schemascope/schemascope-go/pkg/config"
)

// ScanService drives the usage locator across every component and enum of
// a schema, sequentially, with a pacing delay between elements so the
// backend's rate limits are respected.
type ScanService struct {
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
	usageService *UsageService
	broadcaster  *messaging.ScanBroadcaster

	mu      sync.Mutex
	running map[string]string // projectId -> active scan id
}

// NewScanService creates a new scan service singleton
func NewScanService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, usageService *UsageService, broadcaster *messaging.ScanBroadcaster) *ScanService {
	return &ScanService{
		logger:       logger,
		perfTracker:  perfTracker,
		usageService: usageService,
		broadcaster:  broadcaster,
		running:      make(map[string]string),
	}
}

// ScanAll resolves usage for every component and enum in the snapshot and
// returns a summary per element. The scan is sequential; progress is
// broadcast after each element. A cancelled context yields the partial map
// covering the elements processed so far, flagged as partial.
func (s *ScanService) ScanAll(ctx context.Context, projectCtx *project.Context, snapshot *schema.Snapshot, scanID string, opts LocateOptions) *usage.Scan {
	marker := s.perfTracker.StartOperation("scan:all", projectCtx.ProjectID)
	defer s.perfTracker.CompleteOperation(marker)

	scan := &usage.Scan{
		ID:        scanID,
		ProjectID: projectCtx.ProjectID,
		StartedAt: time.Now().UTC(),
	}

	type element struct {
		name string
		kind schema.Kind
	}
	var elements []element
	for _, c := range snapshot.Components {
		elements = append(elements, element{c.Name, schema.KindComponent})
	}
	for _, e := range snapshot.Enums {
		elements = append(elements, element{e.Name, schema.KindEnum})
	}

	total := len(elements)
	marker.AddMetadata("elements", total)

	for i, el := range elements {
		select {
		case <-ctx.Done():
			scan.Partial = true
			s.logger.Scan().Warn("Scan interrupted, returning partial results",
				"projectId", projectCtx.ProjectID, "scanId", scanID,
				"processed", i, "total", total)
			s.finishScan(projectCtx, scan, total)
			return scan
		default:
		}

		summary := usage.Summary{
			Name:         el.name,
			Kind:         el.kind,
			ModelsUsedIn: []string{},
			ScannedAt:    time.Now().UTC(),
		}

		var result *usage.Result
		var err error
		if el.kind == schema.KindComponent {
			result, err = s.usageService.LocateComponent(ctx, projectCtx, snapshot, el.name, opts)
		} else {
			result, err = s.usageService.LocateEnum(ctx, projectCtx, snapshot, el.name, opts)
		}
		if err != nil {
			summary.Error = err.Error()
		} else {
			summary.UsageCount = len(result.Usages)
			summary.ModelsUsedIn = result.ModelsWithUsage
		}
		scan.Summaries = append(scan.Summaries, summary)

		s.broadcaster.Broadcast(projectCtx.ProjectID, usage.ScanProgress{
			ScanID:      scanID,
			Current:     i + 1,
			Total:       total,
			CurrentName: el.name,
		})

		// Cancellation during the element itself, including the last one,
		// still marks the scan partial.
		if ctx.Err() != nil {
			scan.Partial = true
			s.logger.Scan().Warn("Scan interrupted, returning partial results",
				"projectId", projectCtx.ProjectID, "scanId", scanID,
				"processed", i+1, "total", total)
			s.finishScan(projectCtx, scan, total)
			return scan
		}

		if i < total-1 {
			select {
			case <-ctx.Done():
				// The next loop iteration records the interruption.
			case <-time.After(config.ScanPacingDelay):
			}
		}
	}

	s.finishScan(projectCtx, scan, total)
	return scan
}

// finishScan stamps, persists, and announces the end of a scan.
func (s *ScanService) finishScan(projectCtx *project.Context, scan *usage.Scan, total int) {
	now := time.Now().UTC()
	scan.FinishedAt = &now

	if err := projectCtx.ScanStore.SaveScan(scan); err != nil {
		s.logger.Database().Error("Failed to persist scan",
			"projectId", projectCtx.ProjectID, "scanId", scan.ID, "error", err)
	}

	s.broadcaster.Broadcast(projectCtx.ProjectID, usage.ScanProgress{
		ScanID:  scan.ID,
		Current: len(scan.Summaries),
		Total:   total,
		Done:    true,
	})

	s.logger.Scan().Info("Scan finished",
		"projectId", projectCtx.ProjectID,
		"scanId", scan.ID,
		"elements", len(scan.Summaries),
		"partial", scan.Partial,
		"duration", now.Sub(scan.StartedAt))
}

// StartScan launches a full scan in the background and returns its ID.
// Only one scan may run per project at a time.
func (s *ScanService) StartScan(ctx context.Context, projectCtx *project.Context, snapshot *schema.Snapshot, opts LocateOptions) (string, error) {
	s.mu.Lock()
	if activeID, busy := s.running[projectCtx.ProjectID]; busy {
		s.mu.Unlock()
		return "", fmt.Errorf("scan %s already running for project %s", activeID, projectCtx.ProjectID)
	}
	scanID := security.GenerateULID()
	s.running[projectCtx.ProjectID] = scanID
	s.mu.Unlock()

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.running, projectCtx.ProjectID)
			s.mu.Unlock()
		}()
		s.ScanAll(ctx, projectCtx, snapshot, scanID, opts)
	}()

	return scanID, nil
}

// ActiveScan returns the running scan ID for a project, if any.
func (s *ScanService) ActiveScan(projectID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.running[projectID]
	return id, ok
}
