// Package services provides schema classification orchestration
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/schemascope/schemascope-go/internal/domain/entities/schema"
	"github.com/schemascope/schemascope-go/internal/infrastructure/graphql"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/logging"
	"github.com/schemascope/schemascope-go/internal/infrastructure/observability/performance"
	"github.com/schemascope/schemascope-go/internal/infrastructure/project"
)

// SchemaService turns live introspection output into a classified snapshot
type SchemaService struct {
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewSchemaService creates a new schema service singleton
func NewSchemaService(logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *SchemaService {
	return &SchemaService{
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// Classify fetches a fresh introspection and classifies every type. The
// snapshot is recomputed on every call; audit sessions never reuse a stale
// schema.
func (s *SchemaService) Classify(ctx context.Context, projectCtx *project.Context) (*schema.Snapshot, error) {
	start := time.Now()
	marker := s.perfTracker.StartOperation("schema:introspect", projectCtx.ProjectID)
	defer s.perfTracker.CompleteOperation(marker)

	raw, err := projectCtx.GraphQL.IntrospectSchema(ctx)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}
	if len(raw.Types) == 0 {
		err := &graphql.SchemaFetchError{
			Endpoint: projectCtx.GraphQL.Endpoint(),
			Err:      fmt.Errorf("introspection returned no types"),
		}
		marker.SetError(err)
		return nil, err
	}

	snapshot := s.classify(raw, projectCtx.Config)

	s.logger.Schema().Info("Schema classified",
		"projectId", projectCtx.ProjectID,
		"models", len(snapshot.Models),
		"components", len(snapshot.Components),
		"enums", len(snapshot.Enums),
		"unions", len(snapshot.Unions),
		"duration", time.Since(start))

	return snapshot, nil
}

// classify partitions raw introspection types into the snapshot collections.
func (s *SchemaService) classify(raw *graphql.IntrospectionSchema, cfg *project.Config) *schema.Snapshot {
	rootFields := make(map[string]bool)
	unions := make(map[string][]string)

	for _, t := range raw.Types {
		switch t.Kind {
		case "OBJECT":
			if t.Name == raw.QueryType.Name {
				for _, f := range t.Fields {
					rootFields[f.Name] = true
				}
			}
		case "UNION":
			if schema.IsSystemType(t.Name) {
				continue
			}
			var possible []string
			for _, pt := range t.PossibleTypes {
				if named := pt.NamedType(); named != nil && named.Name != nil {
					possible = append(possible, *named.Name)
				}
			}
			unions[t.Name] = possible
		}
	}

	allow := make(map[string]bool, len(cfg.ModelAllow))
	for _, name := range cfg.ModelAllow {
		allow[name] = true
	}
	deny := make(map[string]bool, len(cfg.ModelDeny))
	for _, name := range cfg.ModelDeny {
		deny[name] = true
	}

	snapshot := &schema.Snapshot{}

	for _, t := range raw.Types {
		switch t.Kind {
		case "OBJECT":
			if t.Name == raw.QueryType.Name || schema.IsSystemType(t.Name) {
				continue
			}

			apiID := schema.LowerCamel(t.Name)
			pluralAPIID := schema.Pluralize(apiID)
			fields := buildFields(t.Fields, unions)

			isModel := rootFields[apiID] || rootFields[pluralAPIID]
			if allow[t.Name] {
				isModel = true
			}
			if deny[t.Name] {
				isModel = false
			}

			if isModel {
				snapshot.Models = append(snapshot.Models, schema.Model{
					Name:        t.Name,
					APIID:       apiID,
					PluralAPIID: pluralAPIID,
					Fields:      fields,
				})
			} else {
				snapshot.Components = append(snapshot.Components, schema.Component{
					Name:   t.Name,
					APIID:  apiID,
					Fields: fields,
				})
			}

		case "ENUM":
			if schema.IsSystemEnum(t.Name) {
				continue
			}
			values := make([]string, 0, len(t.EnumValues))
			for _, v := range t.EnumValues {
				values = append(values, v.Name)
			}
			snapshot.Enums = append(snapshot.Enums, schema.Enum{Name: t.Name, Values: values})
		}
	}

	for name, possible := range unions {
		snapshot.Unions = append(snapshot.Unions, schema.Union{Name: name, PossibleTypes: possible})
	}

	return snapshot
}

// DiscoverFields introspects one named type's concrete field list. Failures
// are recovered as an empty list: a model with no discoverable fields is
// skipped by callers, never fatal.
func (s *SchemaService) DiscoverFields(ctx context.Context, projectCtx *project.Context, typeName string, unions map[string][]string) []schema.Field {
	typ, err := projectCtx.GraphQL.TypeFields(ctx, typeName)
	if err != nil {
		s.logger.Schema().Warn("Field discovery failed, treating type as empty",
			"projectId", projectCtx.ProjectID, "type", typeName, "error", err)
		return nil
	}
	if typ == nil {
		s.logger.Schema().Warn("Type not found during field discovery",
			"projectId", projectCtx.ProjectID, "type", typeName)
		return nil
	}
	return buildFields(typ.Fields, unions)
}

// Elements returns the flattened overview rows for a fresh snapshot.
func (s *SchemaService) Elements(ctx context.Context, projectCtx *project.Context) ([]schema.Element, error) {
	snapshot, err := s.Classify(ctx, projectCtx)
	if err != nil {
		return nil, err
	}
	return snapshot.Elements(), nil
}

// buildFields maps introspected fields to classified fields, unwrapping
// NON_NULL and LIST layers to the base type.
func buildFields(raw []graphql.IntrospectionField, unions map[string][]string) []schema.Field {
	fields := make([]schema.Field, 0, len(raw))
	for _, f := range raw {
		named := f.Type.NamedType()
		if named == nil || named.Name == nil {
			continue
		}

		field := schema.Field{
			Name:       f.Name,
			TypeName:   *named.Name,
			IsList:     f.Type.IsList(),
			IsRequired: f.Type.IsRequired(),
		}
		if named.Kind == "UNION" {
			field.IsUnion = true
			field.UnionPossibleTypes = unions[*named.Name]
		}
		fields = append(fields, field)
	}
	return fields
}
