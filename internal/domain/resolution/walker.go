package resolution

import (
	"encoding/json"
	"strconv"

	"github.com/tidwall/gjson"
)

// Match is one occurrence of the target type inside a response tree.
type Match struct {
	Path []string
	Raw  json.RawMessage
}

// FindMatches recursively scans a decoded GraphQL response value for
// objects whose __typename equals target. Array hops append an "[i]" index
// marker to the path; object hops append the member name. A single value
// can yield any number of matches, each with its own exact path.
//
// The function is pure: it never mutates the path slice it receives.
func FindMatches(value gjson.Result, target string, path []string) []Match {
	var matches []Match

	switch {
	case value.IsArray():
		for i, elem := range value.Array() {
			elemPath := appendPath(path, indexMarker(i))
			matches = append(matches, FindMatches(elem, target, elemPath)...)
		}

	case value.IsObject():
		if value.Get("__typename").String() == target {
			matches = append(matches, Match{
				Path: appendPath(path),
				Raw:  json.RawMessage(value.Raw),
			})
		}
		value.ForEach(func(key, member gjson.Result) bool {
			if key.String() == "__typename" {
				return true
			}
			if member.IsObject() || member.IsArray() {
				memberPath := appendPath(path, key.String())
				matches = append(matches, FindMatches(member, target, memberPath)...)
			}
			return true
		})
	}

	return matches
}

// EnumValueMatches reports whether a field value holds one of the enum's
// values, covering both single-valued and list-valued enum fields.
func EnumValueMatches(value gjson.Result, values map[string]bool) bool {
	if value.IsArray() {
		for _, elem := range value.Array() {
			if values[elem.String()] {
				return true
			}
		}
		return false
	}
	if value.Type != gjson.String {
		return false
	}
	return values[value.String()]
}

func indexMarker(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

// appendPath copies the path and appends extra segments, so sibling
// branches never alias the same backing array.
func appendPath(path []string, extra ...string) []string {
	out := make([]string, 0, len(path)+len(extra))
	out = append(out, path...)
	out = append(out, extra...)
	return out
}
