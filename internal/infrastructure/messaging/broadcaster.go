// Package messaging provides the scan progress broadcaster that fans out
// batch scan updates to connected clients.
package messaging

import (
	"sync"

	"github.com/schemascope/schemascope-go/internal/domain/entities/usage"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
)

// ScanBroadcaster manages project-scoped scan progress subscriptions.
// Slow subscribers never block a running scan: updates are dropped when a
// subscriber's buffer is full.
type ScanBroadcaster struct {
	subscribers map[string][]chan usage.ScanProgress // projectId -> channels
	mu          sync.Mutex
	logger      *logging.ChanneledLogger
}

// NewScanBroadcaster creates a scan progress broadcaster.
func NewScanBroadcaster(logger *logging.ChanneledLogger) *ScanBroadcaster {
	return &ScanBroadcaster{
		subscribers: make(map[string][]chan usage.ScanProgress),
		logger:      logger,
	}
}

// Subscribe registers a new progress subscriber for a project.
func (b *ScanBroadcaster) Subscribe(projectID string) chan usage.ScanProgress {
	ch := make(chan usage.ScanProgress, 16)

	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[projectID] = append(b.subscribers[projectID], ch)
	b.logger.Scan().Debug("Scan progress subscriber registered", "projectId", projectID)
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *ScanBroadcaster) Unsubscribe(projectID string, ch chan usage.ScanProgress) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channels := b.subscribers[projectID]
	remaining := make([]chan usage.ScanProgress, 0, len(channels))
	for _, existing := range channels {
		if existing != ch {
			remaining = append(remaining, existing)
		}
	}

	if len(remaining) == 0 {
		delete(b.subscribers, projectID)
	} else {
		b.subscribers[projectID] = remaining
	}
	close(ch)

	b.logger.Scan().Debug("Scan progress subscriber unregistered", "projectId", projectID)
}

// SubscriberCount returns the subscriber count for a project.
func (b *ScanBroadcaster) SubscriberCount(projectID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers[projectID])
}

// Broadcast sends a progress update to every subscriber of a project.
func (b *ScanBroadcaster) Broadcast(projectID string, progress usage.ScanProgress) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers[projectID] {
		select {
		case ch <- progress:
		default:
			b.logger.Scan().Warn("Scan progress channel full, update dropped",
				"projectId", projectID, "scanId", progress.ScanID)
		}
	}
}
