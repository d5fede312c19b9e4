package resolution

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestFindMatchesNoMatch(t *testing.T) {
	payload := gjson.Parse(`{"__typename":"Page","hero":{"__typename":"HeroBlock","heading":"hi"}}`)
	matches := FindMatches(payload, "Badge", nil)
	assert.Empty(t, matches)
}

func TestFindMatchesDirectField(t *testing.T) {
	payload := gjson.Parse(`{"__typename":"Page","hero":{"__typename":"HeroBlock","heading":"hi"}}`)
	matches := FindMatches(payload, "HeroBlock", nil)

	require.Len(t, matches, 1)
	assert.Equal(t, []string{"hero"}, matches[0].Path)
	assert.JSONEq(t, `{"__typename":"HeroBlock","heading":"hi"}`, string(matches[0].Raw))
}

func TestFindMatchesListIndexMarker(t *testing.T) {
	payload := gjson.Parse(`{"__typename":"Article","blocks":[
		{"__typename":"ImageBlock"},
		{"__typename":"ImageBlock"},
		{"__typename":"TextBlock","text":"hello"}
	]}`)

	matches := FindMatches(payload, "TextBlock", nil)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"blocks", "[2]"}, matches[0].Path)
}

func TestFindMatchesUnionListMiddleEntry(t *testing.T) {
	payload := gjson.Parse(`{"__typename":"Article","body":[
		{"__typename":"ImageBlock"},
		{"__typename":"TextBlock","text":"x"},
		{"__typename":"ImageBlock"}
	]}`)

	matches := FindMatches(payload, "TextBlock", nil)
	require.Len(t, matches, 1)
	assert.Equal(t, []string{"body", "[1]"}, matches[0].Path)

	assert.Empty(t, FindMatches(payload, "VideoBlock", nil))
}

func TestFindMatchesMultipleOccurrences(t *testing.T) {
	payload := gjson.Parse(`{"__typename":"Page","sections":[
		{"__typename":"Section","card":{"__typename":"Card","badge":{"__typename":"Badge","label":"new"}}},
		{"__typename":"Section","card":{"__typename":"Card","badge":{"__typename":"Badge","label":"hot"}}}
	]}`)

	matches := FindMatches(payload, "Badge", nil)
	require.Len(t, matches, 2)
	assert.Equal(t, []string{"sections", "[0]", "card", "badge"}, matches[0].Path)
	assert.Equal(t, []string{"sections", "[1]", "card", "badge"}, matches[1].Path)
}

func TestFindMatchesNestedMatchInsideMatch(t *testing.T) {
	// A container of its own type: both levels must be reported.
	payload := gjson.Parse(`{"__typename":"Page","a":{"__typename":"A","child":{"__typename":"A"}}}`)

	matches := FindMatches(payload, "A", nil)
	require.Len(t, matches, 2)
	assert.Equal(t, []string{"a"}, matches[0].Path)
	assert.Equal(t, []string{"a", "child"}, matches[1].Path)
}

func TestFindMatchesPathNotAliased(t *testing.T) {
	base := []string{"root"}
	payload := gjson.Parse(`{"x":{"__typename":"T"},"y":{"__typename":"T"}}`)

	matches := FindMatches(payload, "T", base)
	require.Len(t, matches, 2)
	assert.Equal(t, []string{"root"}, base)
	assert.NotEqual(t, matches[0].Path, matches[1].Path)
}

func TestEnumValueMatches(t *testing.T) {
	values := map[string]bool{"PRIMARY": true, "SECONDARY": true}

	assert.True(t, EnumValueMatches(gjson.Parse(`"PRIMARY"`), values))
	assert.False(t, EnumValueMatches(gjson.Parse(`"TERTIARY"`), values))
	assert.True(t, EnumValueMatches(gjson.Parse(`["TERTIARY","SECONDARY"]`), values))
	assert.False(t, EnumValueMatches(gjson.Parse(`["TERTIARY"]`), values))
	assert.False(t, EnumValueMatches(gjson.Parse(`42`), values))
	assert.False(t, EnumValueMatches(gjson.Parse(`null`), values))
}
