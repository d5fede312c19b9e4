package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Models: []Model{
			{
				Name:        "Article",
				APIID:       "article",
				PluralAPIID: "articles",
				Fields: []Field{
					{Name: "title", TypeName: "String"},
					{Name: "hero", TypeName: "HeroSection"},
					{Name: "body", TypeName: "ContentBlock", IsList: true, IsUnion: true, UnionPossibleTypes: []string{"TextBlock", "ImageBlock"}},
				},
			},
		},
		Components: []Component{
			{Name: "HeroSection", APIID: "heroSection", Fields: []Field{
				{Name: "heading", TypeName: "String"},
				{Name: "cta", TypeName: "CallToAction"},
			}},
			{Name: "TextBlock", APIID: "textBlock", Fields: []Field{
				{Name: "text", TypeName: "String"},
				{Name: "alignment", TypeName: "Alignment"},
			}},
			{Name: "ImageBlock", APIID: "imageBlock", Fields: []Field{
				{Name: "caption", TypeName: "String"},
			}},
			{Name: "CallToAction", APIID: "callToAction", Fields: []Field{
				{Name: "label", TypeName: "String"},
				{Name: "style", TypeName: "ButtonStyle"},
			}},
		},
		Enums: []Enum{
			{Name: "ButtonStyle", Values: []string{"PRIMARY", "SECONDARY"}},
			{Name: "Alignment", Values: []string{"LEFT", "RIGHT"}},
		},
		Unions: []Union{
			{Name: "ContentBlock", PossibleTypes: []string{"TextBlock", "ImageBlock"}},
		},
	}
}

func TestSnapshotLookups(t *testing.T) {
	s := testSnapshot()

	require.NotNil(t, s.ModelByName("Article"))
	assert.Nil(t, s.ModelByName("HeroSection"))

	require.NotNil(t, s.ComponentByName("TextBlock"))
	assert.Nil(t, s.ComponentByName("Article"))
	assert.True(t, s.IsComponent("CallToAction"))
	assert.False(t, s.IsComponent("ButtonStyle"))

	require.NotNil(t, s.EnumByName("ButtonStyle"))
	require.NotNil(t, s.UnionByName("ContentBlock"))
}

func TestSnapshotTables(t *testing.T) {
	s := testSnapshot()

	unions := s.UnionTable()
	assert.Equal(t, []string{"TextBlock", "ImageBlock"}, unions["ContentBlock"])

	fields := s.FieldTable()
	assert.Len(t, fields, 5)
	assert.Len(t, fields["Article"], 3)
	assert.Len(t, fields["CallToAction"], 2)
}

func TestSnapshotElements(t *testing.T) {
	s := testSnapshot()
	elements := s.Elements()
	require.Len(t, elements, 6)

	byName := make(map[string]Element)
	for _, el := range elements {
		byName[el.Name] = el
	}

	hero := byName["HeroSection"]
	assert.Equal(t, KindComponent, hero.Kind)
	assert.Equal(t, []string{"heading", "cta"}, hero.FieldNames)
	assert.Equal(t, []string{"Article"}, hero.UsedIn)

	// Union member: used both via the union field on Article and anywhere
	// it appears directly.
	text := byName["TextBlock"]
	assert.Contains(t, text.UsedIn, "Article")

	cta := byName["CallToAction"]
	assert.Equal(t, []string{"HeroSection"}, cta.UsedIn)

	style := byName["ButtonStyle"]
	assert.Equal(t, KindEnum, style.Kind)
	assert.Equal(t, []string{"PRIMARY", "SECONDARY"}, style.Values)
	assert.Equal(t, []string{"CallToAction"}, style.UsedIn)
}
