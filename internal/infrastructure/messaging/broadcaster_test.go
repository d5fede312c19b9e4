package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemascope/schemascope-go/internal/domain/entities/usage"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
)

func newTestBroadcaster(t *testing.T) *ScanBroadcaster {
	t.Helper()
	logger, err := logging.NewChanneledLogger(&logging.LoggerConfig{
		OutputToConsole: false,
		OutputToFile:    false,
	})
	require.NoError(t, err)
	return NewScanBroadcaster(logger)
}

func TestBroadcastReachesSubscriber(t *testing.T) {
	b := newTestBroadcaster(t)

	ch := b.Subscribe("default")
	b.Broadcast("default", usage.ScanProgress{ScanID: "s1", Current: 1, Total: 10, CurrentName: "HeroBlock"})

	progress := <-ch
	assert.Equal(t, "s1", progress.ScanID)
	assert.Equal(t, 1, progress.Current)
	assert.Equal(t, "HeroBlock", progress.CurrentName)
}

func TestBroadcastIsProjectScoped(t *testing.T) {
	b := newTestBroadcaster(t)

	chA := b.Subscribe("project-a")
	chB := b.Subscribe("project-b")

	b.Broadcast("project-a", usage.ScanProgress{ScanID: "s1"})

	assert.Len(t, chA, 1)
	assert.Len(t, chB, 0)
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	b := newTestBroadcaster(t)

	ch := b.Subscribe("default")
	for i := 0; i < 50; i++ {
		b.Broadcast("default", usage.ScanProgress{ScanID: "s1", Current: i})
	}

	// The subscriber buffer caps what is retained; the scan never blocked.
	assert.Equal(t, cap(ch), len(ch))
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	b := newTestBroadcaster(t)

	ch := b.Subscribe("default")
	b.Unsubscribe("default", ch)

	_, open := <-ch
	assert.False(t, open)
	assert.Equal(t, 0, b.SubscriberCount("default"))
}
