package resolution

import (
	"fmt"
	"strings"

	"github.com/schemascope/schemascope-go/internal/domain/entities/schema"
)

// QueryOptions tune one synthesized usage query.
type QueryOptions struct {
	Limit             int             // max entries fetched for the model
	MaxDepth          int             // selection recursion bound
	Containers        map[string]bool // containment set for the target
	TitleField        string          // optional human-readable entry field
	IncludeStage      bool            // select the publishing stage field
	LeafTarget        bool            // target is an enum; target-typed fields are leaves
	ExtraTargetFields []string        // extra leaf fields selected inside target objects
}

const previewFieldLimit = 5

// BuildUsageQuery synthesizes the GraphQL document that fetches, for one
// model, every subtree that could contain the target type. relevant is the
// subset of the model's fields whose types can reach the target; fields
// maps every known object type to its field list; unions maps union names
// to their possible types.
//
// Each top-level relevant field starts its descent with a fresh visited
// set, so a type blocked by cycle detection in one branch can still be
// expanded in a sibling branch. Descent also stops unconditionally at
// opts.MaxDepth.
func BuildUsageQuery(model schema.Model, relevant []schema.Field, target string, fields map[string][]schema.Field, unions map[string][]string, opts QueryOptions) string {
	b := &queryBuilder{
		target:   target,
		fields:   fields,
		unions:   unions,
		universe: SearchUniverse(target, opts.Containers),
		opts:     opts,
	}

	var sb strings.Builder
	sb.WriteString("query {\n")
	fmt.Fprintf(&sb, "  %s(first: %d) {\n", model.PluralAPIID, opts.Limit)
	sb.WriteString("    __typename\n")
	sb.WriteString("    id\n")
	if opts.IncludeStage {
		sb.WriteString("    stage\n")
	}
	if opts.TitleField != "" {
		fmt.Fprintf(&sb, "    %s\n", opts.TitleField)
	}

	for _, f := range relevant {
		sel := b.fieldSelection(f, 1, map[string]bool{})
		if sel == "" {
			continue
		}
		writeIndented(&sb, sel, "    ")
	}

	sb.WriteString("  }\n")
	sb.WriteString("}")
	return sb.String()
}

type queryBuilder struct {
	target   string
	fields   map[string][]schema.Field
	unions   map[string][]string
	universe map[string]bool
	opts     QueryOptions
}

// fieldSelection renders one field and its nested selection, or returns ""
// when the field cannot contribute a match.
func (b *queryBuilder) fieldSelection(f schema.Field, depth int, visited map[string]bool) string {
	if b.opts.LeafTarget && f.TypeName == b.target {
		return f.Name
	}

	if f.IsUnion {
		possible := f.UnionPossibleTypes
		if len(possible) == 0 {
			possible = b.unions[f.TypeName]
		}
		return b.unionSelection(f.Name, possible, depth, visited)
	}

	if !b.universe[f.TypeName] {
		return ""
	}
	sel := b.typeSelection(f.TypeName, depth, visited)
	if sel == "" {
		return ""
	}
	return f.Name + " " + sel
}

// unionSelection emits one inline fragment per possible type. Possible
// types inside the search universe get a full descent; the rest carry only
// the discriminator so the walker can still identify them.
func (b *queryBuilder) unionSelection(fieldName string, possible []string, depth int, visited map[string]bool) string {
	var fragments []string
	for _, pt := range possible {
		if b.universe[pt] {
			if sel := b.typeSelection(pt, depth, visited); sel != "" {
				fragments = append(fragments, fmt.Sprintf("... on %s %s", pt, sel))
				continue
			}
		}
		fragments = append(fragments, fmt.Sprintf("... on %s { __typename }", pt))
	}

	anyDescent := false
	for _, frag := range fragments {
		if !strings.HasSuffix(frag, "{ __typename }") {
			anyDescent = true
			break
		}
	}
	if !anyDescent {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fieldName)
	sb.WriteString(" {\n")
	sb.WriteString("  __typename\n")
	for _, frag := range fragments {
		writeIndented(&sb, frag, "  ")
	}
	sb.WriteString("}")
	return sb.String()
}

// typeSelection renders the braced selection set for one object type, or ""
// when descent is blocked and the type is not the target.
func (b *queryBuilder) typeSelection(typeName string, depth int, visited map[string]bool) string {
	if depth >= b.opts.MaxDepth || visited[typeName] {
		if typeName == b.target {
			return "{ __typename }"
		}
		return ""
	}

	branch := make(map[string]bool, len(visited)+1)
	for k := range visited {
		branch[k] = true
	}
	branch[typeName] = true

	var lines []string
	lines = append(lines, "__typename")

	if typeName == b.target {
		lines = append(lines, b.previewFields(typeName)...)
		lines = append(lines, b.opts.ExtraTargetFields...)
	}

	for _, f := range b.fields[typeName] {
		if sel := b.fieldSelection(f, depth+1, branch); sel != "" {
			lines = append(lines, sel)
		}
	}

	var sb strings.Builder
	sb.WriteString("{\n")
	for _, line := range lines {
		writeIndented(&sb, line, "  ")
	}
	sb.WriteString("}")
	return sb.String()
}

// previewFields picks the first few scalar leaf fields of the target so
// matched payloads carry human-meaningful data. They do not affect match
// correctness.
func (b *queryBuilder) previewFields(typeName string) []string {
	var preview []string
	for _, f := range b.fields[typeName] {
		if !schema.IsScalarLeaf(f.TypeName) {
			continue
		}
		preview = append(preview, f.Name)
		if len(preview) == previewFieldLimit {
			break
		}
	}
	return preview
}

func writeIndented(sb *strings.Builder, block, indent string) {
	for _, line := range strings.Split(block, "\n") {
		sb.WriteString(indent)
		sb.WriteString(line)
		sb.WriteString("\n")
	}
}
