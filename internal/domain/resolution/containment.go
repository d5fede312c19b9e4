// Package resolution holds the pure algorithms of the usage engine:
// transitive containment search, bounded-depth query synthesis, and
// response tree walking. Nothing here performs I/O.
package resolution

import "github.com/schemascope/schemascope-go/internal/domain/entities/schema"

// FindContainers computes the set of component names that can reach the
// target within maxHops hops, either through a field whose type is the
// target or through a union field whose possible types include the target
// or an already-known container.
//
// The result is monotonic non-decreasing in maxHops and stabilizes at the
// fixed point once a round adds nothing. The hop bound keeps mutually
// recursive component graphs (A embeds B embeds A) from expanding forever.
func FindContainers(target string, components []schema.Component, unions map[string][]string, maxHops int) map[string]bool {
	containers := make(map[string]bool)

	reaches := func(f schema.Field, names map[string]bool) bool {
		if names[f.TypeName] {
			return true
		}
		if f.IsUnion {
			possible := f.UnionPossibleTypes
			if len(possible) == 0 {
				possible = unions[f.TypeName]
			}
			for _, pt := range possible {
				if names[pt] {
					return true
				}
			}
		}
		return false
	}

	seed := map[string]bool{target: true}
	for _, c := range components {
		for _, f := range c.Fields {
			if reaches(f, seed) {
				containers[c.Name] = true
				break
			}
		}
	}

	for hop := 0; hop < maxHops; hop++ {
		// Each round evaluates against a snapshot of the set known before
		// the round started, so one hop admits exactly one more level of
		// nesting regardless of component order.
		known := make(map[string]bool, len(containers))
		for name := range containers {
			known[name] = true
		}

		added := false
		for _, c := range components {
			if containers[c.Name] {
				continue
			}
			for _, f := range c.Fields {
				if reaches(f, known) {
					containers[c.Name] = true
					added = true
					break
				}
			}
		}
		if !added {
			break
		}
	}

	return containers
}

// SearchUniverse returns the containment set together with the target
// itself, the full set of type names the synthesizer may descend into.
func SearchUniverse(target string, containers map[string]bool) map[string]bool {
	universe := make(map[string]bool, len(containers)+1)
	for name := range containers {
		universe[name] = true
	}
	universe[target] = true
	return universe
}
