// Package usage defines the result types produced by a usage resolution
// run: individual discovered locations, per-element results, and the
// aggregate output of a full schema scan.
package usage

import (
	"encoding/json"
	"time"

	"github.com/schemascope/schemascope-go/internal/domain/entities/schema"
)

// Location is one discovered occurrence of a component or enum inside a
// content entry. FieldPath is the ordered walk from the model's root field
// down to the matched object, list hops recorded as "[i]" markers.
type Location struct {
	EntryID          string          `json:"entryId"`
	EntryTitle       string          `json:"entryTitle,omitempty"`
	ModelName        string          `json:"modelName"`
	ModelPluralAPIID string          `json:"modelPluralApiId"`
	FieldPath        []string        `json:"fieldPath"`
	Stage            string          `json:"stage,omitempty"`
	Payload          json.RawMessage `json:"payload,omitempty"`
	PreviewFields    map[string]any  `json:"previewFields,omitempty"`
}

// TraceEntry records what happened for one model during a resolution run,
// including models that were skipped or failed. The trace makes partial
// results explainable.
type TraceEntry struct {
	ModelName      string `json:"modelName"`
	RelevantFields int    `json:"relevantFields"`
	EntriesFetched int    `json:"entriesFetched"`
	Matches        int    `json:"matches"`
	Skipped        bool   `json:"skipped,omitempty"`
	Error          string `json:"error,omitempty"`
}

// Result is the outcome of locating a single component or enum across all
// models. A Result with failed trace entries is still valid: usages found
// in the models that did respond are reported.
type Result struct {
	Element         string       `json:"element"`
	Kind            schema.Kind  `json:"kind"`
	Usages          []Location   `json:"usages"`
	ModelsWithUsage []string     `json:"modelsWithUsage"`
	SearchPath      []TraceEntry `json:"searchPath"`
}

// Summary is one row of a full-scan report.
type Summary struct {
	Name         string      `json:"name"`
	Kind         schema.Kind `json:"kind"`
	UsageCount   int         `json:"usageCount"`
	ModelsUsedIn []string    `json:"modelsUsedIn"`
	ScannedAt    time.Time   `json:"scannedAt"`
	Error        string      `json:"error,omitempty"`
}

// ScanProgress is broadcast to subscribers as a batch scan advances.
type ScanProgress struct {
	ScanID      string `json:"scanId"`
	Current     int    `json:"current"`
	Total       int    `json:"total"`
	CurrentName string `json:"currentName,omitempty"`
	Done        bool   `json:"done"`
}

// Scan is a persisted record of one full-schema scan.
type Scan struct {
	ID         string     `json:"id"`
	ProjectID  string     `json:"projectId"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
	Partial    bool       `json:"partial"`
	Summaries  []Summary  `json:"summaries"`
}
