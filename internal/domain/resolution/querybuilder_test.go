package resolution

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schemascope/schemascope-go/internal/domain/entities/schema"
)

func pageModel() schema.Model {
	return schema.Model{
		Name:        "Page",
		APIID:       "page",
		PluralAPIID: "pages",
		Fields: []schema.Field{
			{Name: "title", TypeName: "String"},
			{Name: "hero", TypeName: "HeroBlock"},
		},
	}
}

func TestBuildUsageQueryDirectComponent(t *testing.T) {
	model := pageModel()
	relevant := []schema.Field{{Name: "hero", TypeName: "HeroBlock"}}
	fields := map[string][]schema.Field{
		"HeroBlock": {
			{Name: "heading", TypeName: "String"},
			{Name: "subheading", TypeName: "String"},
		},
	}

	query := BuildUsageQuery(model, relevant, "HeroBlock", fields, nil, QueryOptions{
		Limit:        100,
		MaxDepth:     5,
		TitleField:   "title",
		IncludeStage: true,
	})

	assert.Contains(t, query, "pages(first: 100)")
	assert.Contains(t, query, "id")
	assert.Contains(t, query, "stage")
	assert.Contains(t, query, "title")
	assert.Contains(t, query, "hero {")
	assert.Contains(t, query, "heading")
	assert.Contains(t, query, "subheading")
	assert.GreaterOrEqual(t, strings.Count(query, "__typename"), 2)
}

func TestBuildUsageQueryUnionFragments(t *testing.T) {
	model := schema.Model{Name: "Article", APIID: "article", PluralAPIID: "articles"}
	relevant := []schema.Field{
		{Name: "body", TypeName: "ContentBlock", IsList: true, IsUnion: true, UnionPossibleTypes: []string{"TextBlock", "ImageBlock"}},
	}
	fields := map[string][]schema.Field{
		"TextBlock":  {{Name: "text", TypeName: "String"}},
		"ImageBlock": {{Name: "caption", TypeName: "String"}},
	}

	query := BuildUsageQuery(model, relevant, "TextBlock", fields, nil, QueryOptions{Limit: 50, MaxDepth: 5})

	assert.Contains(t, query, "body {")
	assert.Contains(t, query, "... on TextBlock {")
	assert.Contains(t, query, "text")
	// Non-target possible type carries the discriminator only.
	assert.Contains(t, query, "... on ImageBlock { __typename }")
	assert.NotContains(t, query, "caption")
}

func TestBuildUsageQueryRoutesThroughContainers(t *testing.T) {
	model := schema.Model{
		Name:        "Page",
		APIID:       "page",
		PluralAPIID: "pages",
	}
	relevant := []schema.Field{{Name: "card", TypeName: "Card"}}
	fields := map[string][]schema.Field{
		"Card":  {{Name: "title", TypeName: "String"}, {Name: "badge", TypeName: "Badge"}},
		"Badge": {{Name: "label", TypeName: "String"}},
	}

	query := BuildUsageQuery(model, relevant, "Badge", fields, nil, QueryOptions{
		Limit:      100,
		MaxDepth:   5,
		Containers: map[string]bool{"Card": true},
	})

	assert.Contains(t, query, "card {")
	assert.Contains(t, query, "badge {")
	assert.Contains(t, query, "label")
	// Container scalars are not preview fields; only the target gets those.
	assert.NotContains(t, query, "title\n")
}

func TestBuildUsageQuerySelfRecursiveDepthBound(t *testing.T) {
	model := schema.Model{Name: "Doc", APIID: "doc", PluralAPIID: "docs"}
	relevant := []schema.Field{{Name: "root", TypeName: "A"}}
	fields := map[string][]schema.Field{
		"A": {{Name: "self", TypeName: "A"}, {Name: "name", TypeName: "String"}},
	}

	query := BuildUsageQuery(model, relevant, "A", fields, nil, QueryOptions{Limit: 10, MaxDepth: 5})

	// The per-branch visited set stops the self reference after one level;
	// the blocked descent still emits a discriminator for matching.
	assert.Contains(t, query, "root {")
	assert.Contains(t, query, "self { __typename }")
	assert.LessOrEqual(t, strings.Count(query, "self"), 5)
}

func TestBuildUsageQuerySiblingBranchesDoNotShareVisited(t *testing.T) {
	model := schema.Model{Name: "Page", APIID: "page", PluralAPIID: "pages"}
	relevant := []schema.Field{
		{Name: "left", TypeName: "Card"},
		{Name: "right", TypeName: "Card"},
	}
	fields := map[string][]schema.Field{
		"Card":  {{Name: "badge", TypeName: "Badge"}},
		"Badge": {{Name: "label", TypeName: "String"}},
	}

	query := BuildUsageQuery(model, relevant, "Badge", fields, nil, QueryOptions{
		Limit:      10,
		MaxDepth:   5,
		Containers: map[string]bool{"Card": true},
	})

	assert.Equal(t, 2, strings.Count(query, "badge {"), "both sibling branches must descend")
}

func TestBuildUsageQueryPreviewFieldCap(t *testing.T) {
	model := schema.Model{Name: "Page", APIID: "page", PluralAPIID: "pages"}
	relevant := []schema.Field{{Name: "hero", TypeName: "HeroBlock"}}
	fields := map[string][]schema.Field{
		"HeroBlock": {
			{Name: "f1", TypeName: "String"},
			{Name: "f2", TypeName: "String"},
			{Name: "f3", TypeName: "Int"},
			{Name: "f4", TypeName: "Boolean"},
			{Name: "f5", TypeName: "DateTime"},
			{Name: "f6", TypeName: "String"},
			{Name: "f7", TypeName: "Json"},
		},
	}

	query := BuildUsageQuery(model, relevant, "HeroBlock", fields, nil, QueryOptions{Limit: 10, MaxDepth: 5})

	for _, want := range []string{"f1", "f2", "f3", "f4", "f5"} {
		assert.Contains(t, query, want)
	}
	assert.NotContains(t, query, "f6")
	assert.NotContains(t, query, "f7")
}

func TestBuildUsageQueryLeafTargetEnum(t *testing.T) {
	model := schema.Model{Name: "Button", APIID: "button", PluralAPIID: "buttons"}
	relevant := []schema.Field{{Name: "style", TypeName: "ButtonStyle"}}

	query := BuildUsageQuery(model, relevant, "ButtonStyle", nil, nil, QueryOptions{
		Limit:      100,
		MaxDepth:   5,
		LeafTarget: true,
	})

	require.Contains(t, query, "style")
	assert.NotContains(t, query, "style {")
}

func TestBuildUsageQueryExtraTargetFields(t *testing.T) {
	model := schema.Model{Name: "Page", APIID: "page", PluralAPIID: "pages"}
	relevant := []schema.Field{{Name: "cta", TypeName: "CallToAction"}}
	fields := map[string][]schema.Field{
		"CallToAction": {{Name: "label", TypeName: "String"}, {Name: "style", TypeName: "ButtonStyle"}},
	}

	query := BuildUsageQuery(model, relevant, "CallToAction", fields, nil, QueryOptions{
		Limit:             100,
		MaxDepth:          5,
		ExtraTargetFields: []string{"style"},
	})

	assert.Contains(t, query, "label")
	assert.Contains(t, query, "style")
}

func TestBuildUsageQueryIrrelevantFieldOmitted(t *testing.T) {
	model := schema.Model{Name: "Page", APIID: "page", PluralAPIID: "pages"}
	relevant := []schema.Field{{Name: "footer", TypeName: "Footer"}}
	fields := map[string][]schema.Field{
		"Footer": {{Name: "text", TypeName: "String"}},
	}

	query := BuildUsageQuery(model, relevant, "Badge", fields, nil, QueryOptions{Limit: 10, MaxDepth: 5})

	assert.NotContains(t, query, "footer")
}
