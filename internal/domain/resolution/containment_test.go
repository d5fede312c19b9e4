package resolution

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/schemascope/schemascope-go/internal/domain/entities/schema"
)

func comp(name string, fields ...schema.Field) schema.Component {
	return schema.Component{Name: name, APIID: schema.LowerCamel(name), Fields: fields}
}

func ref(name, typeName string) schema.Field {
	return schema.Field{Name: name, TypeName: typeName}
}

func unionRef(name, unionName string, possible ...string) schema.Field {
	return schema.Field{Name: name, TypeName: unionName, IsUnion: true, UnionPossibleTypes: possible}
}

func TestFindContainersDirect(t *testing.T) {
	components := []schema.Component{
		comp("Card", ref("badge", "Badge")),
		comp("Badge", ref("label", "String")),
		comp("Footer", ref("text", "String")),
	}

	containers := FindContainers("Badge", components, nil, 3)
	assert.Equal(t, map[string]bool{"Card": true}, containers)
}

func TestFindContainersTransitive(t *testing.T) {
	components := []schema.Component{
		comp("Section", ref("card", "Card")),
		comp("Card", ref("badge", "Badge")),
		comp("Badge", ref("label", "String")),
	}

	containers := FindContainers("Badge", components, nil, 3)
	assert.True(t, containers["Card"])
	assert.True(t, containers["Section"])
	assert.False(t, containers["Badge"])
}

func TestFindContainersViaUnion(t *testing.T) {
	unions := map[string][]string{"ContentBlock": {"TextBlock", "ImageBlock"}}
	components := []schema.Component{
		comp("Layout", unionRef("blocks", "ContentBlock", "TextBlock", "ImageBlock")),
		comp("TextBlock", ref("text", "String")),
		comp("ImageBlock", ref("caption", "String")),
	}

	containers := FindContainers("TextBlock", components, unions, 3)
	assert.True(t, containers["Layout"])
	assert.False(t, containers["ImageBlock"])
}

func TestFindContainersMonotonicInMaxHops(t *testing.T) {
	// Chain: C4 -> C3 -> C2 -> C1 -> Target.
	components := []schema.Component{
		comp("C1", ref("t", "Target")),
		comp("C2", ref("c1", "C1")),
		comp("C3", ref("c2", "C2")),
		comp("C4", ref("c3", "C3")),
	}

	var prev map[string]bool
	for hops := 0; hops <= 5; hops++ {
		cur := FindContainers("Target", components, nil, hops)
		for name := range prev {
			assert.True(t, cur[name], "hop %d lost container %s", hops, name)
		}
		prev = cur
	}

	assert.Len(t, FindContainers("Target", components, nil, 0), 1)
	assert.Len(t, FindContainers("Target", components, nil, 1), 2)
	assert.Len(t, FindContainers("Target", components, nil, 3), 4)
	// Fixed point: extra hops add nothing.
	assert.Len(t, FindContainers("Target", components, nil, 10), 4)
}

func TestFindContainersHopBoundOrderIndependent(t *testing.T) {
	// Same chain as above, but listed leaf-first. A single round must not
	// absorb the whole chain just because C2 was visited after C1 landed
	// in the container set.
	forward := []schema.Component{
		comp("C1", ref("t", "Target")),
		comp("C2", ref("c1", "C1")),
		comp("C3", ref("c2", "C2")),
		comp("C4", ref("c3", "C3")),
	}
	reversed := []schema.Component{
		comp("C4", ref("c3", "C3")),
		comp("C3", ref("c2", "C2")),
		comp("C2", ref("c1", "C1")),
		comp("C1", ref("t", "Target")),
	}

	for hops := 0; hops <= 4; hops++ {
		fwd := FindContainers("Target", forward, nil, hops)
		rev := FindContainers("Target", reversed, nil, hops)
		assert.Equal(t, fwd, rev, "hop %d", hops)
		assert.Len(t, fwd, min(hops+1, 4), "hop %d", hops)
	}
}

func TestFindContainersMutualRecursionTerminates(t *testing.T) {
	components := []schema.Component{
		comp("A", ref("b", "B"), ref("t", "Target")),
		comp("B", ref("a", "A")),
	}

	containers := FindContainers("Target", components, nil, 3)
	assert.True(t, containers["A"])
	assert.True(t, containers["B"])
}

func TestSearchUniverseIncludesTarget(t *testing.T) {
	universe := SearchUniverse("Badge", map[string]bool{"Card": true})
	assert.True(t, universe["Badge"])
	assert.True(t, universe["Card"])
	assert.Len(t, universe, 2)
}
