package scans

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemascope/schemascope-go/internal/domain/entities/schema"
	"github.com/schemascope/schemascope-go/internal/domain/entities/usage"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := NewDatabase(DatabaseConfig{
		ProjectID:  "test-" + t.Name(),
		SQLitePath: filepath.Join(t.TempDir(), "schemascope.db"),
	})
	require.NoError(t, err)

	store := NewStore(db)
	require.NoError(t, store.CreateTables())
	return store
}

func sampleScan(id string, startedAt time.Time) *usage.Scan {
	finished := startedAt.Add(30 * time.Second)
	return &usage.Scan{
		ID:         id,
		ProjectID:  "default",
		StartedAt:  startedAt,
		FinishedAt: &finished,
		Summaries: []usage.Summary{
			{Name: "HeroBlock", Kind: schema.KindComponent, UsageCount: 3, ModelsUsedIn: []string{"Page"}, ScannedAt: startedAt},
			{Name: "Theme", Kind: schema.KindEnum, UsageCount: 0, ModelsUsedIn: []string{}, ScannedAt: startedAt},
		},
	}
}

func TestSaveAndGetScan(t *testing.T) {
	store := newTestStore(t)
	started := time.Now().UTC().Truncate(time.Millisecond)

	require.NoError(t, store.SaveScan(sampleScan("scan-1", started)))

	got, err := store.GetScan("scan-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "scan-1", got.ID)
	assert.Equal(t, "default", got.ProjectID)
	assert.True(t, got.StartedAt.Equal(started))
	require.NotNil(t, got.FinishedAt)
	assert.False(t, got.Partial)
	require.Len(t, got.Summaries, 2)
	assert.Equal(t, "HeroBlock", got.Summaries[0].Name)
	assert.Equal(t, 3, got.Summaries[0].UsageCount)
}

func TestGetScanMissing(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetScan("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListScansNewestFirst(t *testing.T) {
	store := newTestStore(t)
	base := time.Now().UTC().Truncate(time.Millisecond)

	for i, id := range []string{"scan-a", "scan-b", "scan-c"} {
		require.NoError(t, store.SaveScan(sampleScan(id, base.Add(time.Duration(i)*time.Minute))))
	}

	scans, err := store.ListScans("default", 2)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, "scan-c", scans[0].ID)
	assert.Equal(t, "scan-b", scans[1].ID)
}

func TestSaveScanPartialFlag(t *testing.T) {
	store := newTestStore(t)

	scan := sampleScan("scan-partial", time.Now().UTC())
	scan.Partial = true
	scan.FinishedAt = nil
	require.NoError(t, store.SaveScan(scan))

	got, err := store.GetScan("scan-partial")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Partial)
	assert.Nil(t, got.FinishedAt)
}
