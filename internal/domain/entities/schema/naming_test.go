package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPluralize(t *testing.T) {
	cases := map[string]string{
		"article":   "articles",
		"bus":       "buses",
		"category":  "categories",
		"glossary":  "glossaries",
		"page":      "pages",
		"faqEntry":  "faqEntries",
		"":          "",
	}
	for in, want := range cases {
		assert.Equal(t, want, Pluralize(in), "Pluralize(%q)", in)
	}
}

func TestLowerCamel(t *testing.T) {
	assert.Equal(t, "article", LowerCamel("Article"))
	assert.Equal(t, "faqEntry", LowerCamel("FaqEntry"))
	assert.Equal(t, "", LowerCamel(""))
}

func TestIsSystemType(t *testing.T) {
	system := []string{
		"__Type",
		"_Meta",
		"Query",
		"PageInfo",
		"ArticleConnection",
		"ArticleEdge",
		"ArticleWhereInput",
		"ArticleWhereUniqueInput",
		"ArticleCreateInput",
		"ArticleUpdateInput",
		"ArticleUpsertInput",
		"ArticleConnectInput",
		"ArticleOrderByInput",
		"ArticleManyWhereInput",
		"RichText",
		"Asset",
	}
	for _, name := range system {
		assert.True(t, IsSystemType(name), "expected system type: %s", name)
	}

	content := []string{"Article", "HeroSection", "TextBlock", "Testimonial"}
	for _, name := range content {
		assert.False(t, IsSystemType(name), "expected content type: %s", name)
	}
}

func TestIsSystemEnum(t *testing.T) {
	assert.True(t, IsSystemEnum("Stage"))
	assert.True(t, IsSystemEnum("Locale"))
	assert.True(t, IsSystemEnum("SystemDateTimeFieldVariation"))
	assert.True(t, IsSystemEnum("ImageTransformationVariation"))
	assert.True(t, IsSystemEnum("Project_Shared_Tag"))

	assert.False(t, IsSystemEnum("ButtonStyle"))
	assert.False(t, IsSystemEnum("Alignment"))
}

func TestIsSystemField(t *testing.T) {
	assert.True(t, IsSystemField("id"))
	assert.True(t, IsSystemField("createdAt"))
	assert.True(t, IsSystemField("documentInStages"))
	assert.False(t, IsSystemField("title"))
	assert.False(t, IsSystemField("heroSection"))
}

func TestIsScalarLeaf(t *testing.T) {
	for _, name := range []string{"String", "Int", "Float", "Boolean", "ID", "DateTime", "Date", "Json"} {
		assert.True(t, IsScalarLeaf(name), name)
	}
	assert.False(t, IsScalarLeaf("HeroSection"))
	assert.False(t, IsScalarLeaf("RichText"))
}
