// Package services provides usage resolution orchestration
package services

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/tidwall/gjson"

	"github.com/schemascope/schemascope-go/internal/domain/entities/schema"
	"github.com/schemascope/schemascope-go/internal/domain/entities/usage"
	"github.com/schemascope/schemascope-go/internal/domain/resolution"
	"github.com/schemascope/schemascope-go/internal/infrastructure/graphql"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/performance"
	"github.com/schemascope/schemascope-go/internal/infrastructure/project"
	"github.com/schemascope/schemascope-go/pkg/config"
)

// LocateOptions tune one usage resolution run. Zero values fall back to the
// configured defaults.
type LocateOptions struct {
	Limit    int
	MaxHops  int
	MaxDepth int
}

func (o LocateOptions) withDefaults() LocateOptions {
	if o.Limit <= 0 {
		o.Limit = config.ScanEntryLimit
	}
	if o.MaxHops <= 0 {
		o.MaxHops = config.ContainmentMaxHops
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = config.QueryMaxDepth
	}
	return o
}

// UsageService locates every stored occurrence of a component or enum by
// synthesizing and executing per-model queries and walking the responses.
// Results are best effort: models whose query fails contribute zero usages
// and a trace entry, never an aborted run.
type UsageService struct {
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
	schemaService *SchemaService
}

// NewUsageService creates a new usage service singleton
func NewUsageService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker, schemaService *SchemaService) *UsageService {
	return &UsageService{
		logger:        logger,
		perfTracker:   perfTracker,
		schemaService: schemaService,
	}
}

// LocateComponent resolves every usage of a component type across all models.
func (s *UsageService) LocateComponent(ctx context.Context, projectCtx *project.Context, snapshot *schema.Snapshot, componentName string, opts LocateOptions) (*usage.Result, error) {
	opts = opts.withDefaults()
	marker := s.perfTracker.StartOperation("usage:component", projectCtx.ProjectID)
	defer s.perfTracker.CompleteOperation(marker)
	marker.AddMetadata("component", componentName)

	result := s.locateType(ctx, projectCtx, snapshot, componentName, nil, opts)
	result.Kind = schema.KindComponent
	return result, nil
}

// LocateEnum resolves every usage of an enum: directly on model fields of
// the enum type, and indirectly through every component carrying a field of
// the enum type.
func (s *UsageService) LocateEnum(ctx context.Context, projectCtx *project.Context, snapshot *schema.Snapshot, enumName string, opts LocateOptions) (*usage.Result, error) {
	opts = opts.withDefaults()
	marker := s.perfTracker.StartOperation("usage:enum", projectCtx.ProjectID)
	defer s.perfTracker.CompleteOperation(marker)
	marker.AddMetadata("enum", enumName)

	enum := snapshot.EnumByName(enumName)
	result := &usage.Result{Element: enumName, Kind: schema.KindEnum, ModelsWithUsage: []string{}}
	if enum == nil {
		return result, nil
	}

	values := make(map[string]bool, len(enum.Values))
	for _, v := range enum.Values {
		values[v] = true
	}

	unions := snapshot.UnionTable()
	modelsSeen := make(map[string]bool)

	// Direct pathway: model fields typed as the enum, matched by value.
	for _, model := range snapshot.Models {
		entry := s.locateEnumOnModel(ctx, projectCtx, model, enumName, values, unions, opts, result)
		result.SearchPath = append(result.SearchPath, entry)
	}

	// Indirect pathway: components with an enum-typed field are located via
	// the component pathway, then each discovered instance's field values
	// are checked against the enum value set.
	for _, component := range snapshot.Components {
		var enumFields []string
		for _, f := range component.Fields {
			if f.TypeName == enumName && !schema.IsSystemField(f.Name) {
				enumFields = append(enumFields, f.Name)
			}
		}
		if len(enumFields) == 0 {
			continue
		}

		componentResult := s.locateType(ctx, projectCtx, snapshot, component.Name, enumFields, opts)
		result.SearchPath = append(result.SearchPath, componentResult.SearchPath...)

		for _, loc := range componentResult.Usages {
			payload := gjson.ParseBytes(loc.Payload)
			for _, fieldName := range enumFields {
				if resolution.EnumValueMatches(payload.Get(fieldName), values) {
					enumLoc := loc
					enumLoc.FieldPath = append(append([]string{}, loc.FieldPath...), fieldName)
					result.Usages = append(result.Usages, enumLoc)
				}
			}
		}
	}

	for _, loc := range result.Usages {
		modelsSeen[loc.ModelName] = true
	}
	result.ModelsWithUsage = sortedKeys(modelsSeen)
	return result, nil
}

// locateType runs the component pathway for one target type. extraFields
// are additional leaf fields selected inside each matched target object.
func (s *UsageService) locateType(ctx context.Context, projectCtx *project.Context, snapshot *schema.Snapshot, target string, extraFields []string, opts LocateOptions) *usage.Result {
	result := &usage.Result{Element: target, Kind: schema.KindComponent, ModelsWithUsage: []string{}}

	unions := snapshot.UnionTable()
	containers := resolution.FindContainers(target, snapshot.Components, unions, opts.MaxHops)
	universe := resolution.SearchUniverse(target, containers)
	fieldTable := snapshot.FieldTable()

	modelsSeen := make(map[string]bool)

	for _, model := range snapshot.Models {
		trace := usage.TraceEntry{ModelName: model.Name}

		fields := s.schemaService.DiscoverFields(ctx, projectCtx, model.Name, unions)
		if len(fields) == 0 {
			trace.Skipped = true
			result.SearchPath = append(result.SearchPath, trace)
			continue
		}

		var relevant []schema.Field
		for _, f := range fields {
			if schema.IsSystemField(f.Name) {
				continue
			}
			if fieldReaches(f, universe) {
				relevant = append(relevant, f)
			}
		}
		trace.RelevantFields = len(relevant)
		if len(relevant) == 0 {
			trace.Skipped = true
			result.SearchPath = append(result.SearchPath, trace)
			continue
		}

		query := resolution.BuildUsageQuery(model, relevant, target, fieldTable, unions, resolution.QueryOptions{
			Limit:             opts.Limit,
			MaxDepth:          opts.MaxDepth,
			Containers:        containers,
			TitleField:        pickTitleField(fields),
			IncludeStage:      hasField(fields, "stage"),
			ExtraTargetFields: extraFields,
		})

		entries, err := s.fetchEntries(ctx, projectCtx, model, query)
		if err != nil {
			trace.Error = err.Error()
			result.SearchPath = append(result.SearchPath, trace)
			s.logger.Scan().Warn("Usage query failed, continuing with remaining models",
				"projectId", projectCtx.ProjectID, "model", model.Name, "target", target, "error", err)
			continue
		}
		trace.EntriesFetched = len(entries)

		titleField := pickTitleField(fields)
		for _, entry := range entries {
			matches := resolution.FindMatches(entry, target, nil)
			trace.Matches += len(matches)

			for _, match := range matches {
				loc := usage.Location{
					EntryID:          entry.Get("id").String(),
					EntryTitle:       entry.Get(titleField).String(),
					ModelName:        model.Name,
					ModelPluralAPIID: model.PluralAPIID,
					FieldPath:        match.Path,
					Stage:            entry.Get("stage").String(),
					Payload:          match.Raw,
					PreviewFields:    previewFields(match.Raw),
				}
				result.Usages = append(result.Usages, loc)
				modelsSeen[model.Name] = true
			}
		}

		result.SearchPath = append(result.SearchPath, trace)
	}

	result.ModelsWithUsage = sortedKeys(modelsSeen)
	return result
}

// locateEnumOnModel handles the direct enum pathway for one model.
func (s *UsageService) locateEnumOnModel(ctx context.Context, projectCtx *project.Context, model schema.Model, enumName string, values map[string]bool, unions map[string][]string, opts LocateOptions, result *usage.Result) usage.TraceEntry {
	trace := usage.TraceEntry{ModelName: model.Name}

	fields := s.schemaService.DiscoverFields(ctx, projectCtx, model.Name, unions)
	if len(fields) == 0 {
		trace.Skipped = true
		return trace
	}

	var direct []schema.Field
	for _, f := range fields {
		if f.TypeName == enumName && !schema.IsSystemField(f.Name) {
			direct = append(direct, f)
		}
	}
	trace.RelevantFields = len(direct)
	if len(direct) == 0 {
		trace.Skipped = true
		return trace
	}

	query := resolution.BuildUsageQuery(model, direct, enumName, nil, unions, resolution.QueryOptions{
		Limit:        opts.Limit,
		MaxDepth:     opts.MaxDepth,
		TitleField:   pickTitleField(fields),
		IncludeStage: hasField(fields, "stage"),
		LeafTarget:   true,
	})

	entries, err := s.fetchEntries(ctx, projectCtx, model, query)
	if err != nil {
		trace.Error = err.Error()
		return trace
	}
	trace.EntriesFetched = len(entries)

	titleField := pickTitleField(fields)
	for _, entry := range entries {
		for _, f := range direct {
			value := entry.Get(f.Name)
			if !resolution.EnumValueMatches(value, values) {
				continue
			}
			trace.Matches++
			result.Usages = append(result.Usages, usage.Location{
				EntryID:          entry.Get("id").String(),
				EntryTitle:       entry.Get(titleField).String(),
				ModelName:        model.Name,
				ModelPluralAPIID: model.PluralAPIID,
				FieldPath:        []string{f.Name},
				Stage:            entry.Get("stage").String(),
				Payload:          json.RawMessage(value.Raw),
			})
		}
	}
	return trace
}

// fetchEntries executes a synthesized query and returns the model's entry
// list. A transport failure is a hard error; a GraphQL errors array with no
// data is soft and yields zero entries.
func (s *UsageService) fetchEntries(ctx context.Context, projectCtx *project.Context, model schema.Model, query string) ([]gjson.Result, error) {
	start := time.Now()
	envelope, err := projectCtx.GraphQL.Query(ctx, query, nil)
	if err != nil {
		return nil, &graphql.QueryExecutionError{ModelName: model.Name, Err: err}
	}

	s.logger.GraphQL().Debug("Usage query executed",
		"projectId", projectCtx.ProjectID,
		"model", model.Name,
		"graphqlErrors", len(envelope.Errors),
		"duration", time.Since(start))

	if len(envelope.Data) == 0 || string(envelope.Data) == "null" {
		// A rejected selection (e.g. a field that does not exist on the
		// backend) means zero usages for this query, not a failed scan.
		return nil, nil
	}

	return gjson.ParseBytes(envelope.Data).Get(model.PluralAPIID).Array(), nil
}

func fieldReaches(f schema.Field, universe map[string]bool) bool {
	if universe[f.TypeName] {
		return true
	}
	if f.IsUnion {
		for _, pt := range f.UnionPossibleTypes {
			if universe[pt] {
				return true
			}
		}
	}
	return false
}

// pickTitleField chooses the human-readable entry label selected alongside
// each match.
func pickTitleField(fields []schema.Field) string {
	for _, preferred := range []string{"title", "name", "slug"} {
		for _, f := range fields {
			if f.Name == preferred && f.TypeName == "String" {
				return f.Name
			}
		}
	}
	for _, f := range fields {
		if f.TypeName == "String" && !schema.IsSystemField(f.Name) {
			return f.Name
		}
	}
	return ""
}

func hasField(fields []schema.Field, name string) bool {
	for _, f := range fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// previewFields extracts the scalar members of a matched payload.
func previewFields(raw json.RawMessage) map[string]any {
	preview := make(map[string]any)
	gjson.ParseBytes(raw).ForEach(func(key, value gjson.Result) bool {
		if key.String() == "__typename" {
			return true
		}
		if !value.IsObject() && !value.IsArray() {
			preview[key.String()] = value.Value()
		}
		return true
	})
	if len(preview) == 0 {
		return nil
	}
	return preview
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
