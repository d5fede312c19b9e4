// Package schema defines the classified view of a CMS GraphQL schema:
// models, embedded components, enums and unions, derived from a live
// introspection snapshot. All types here are immutable after construction
// and are recomputed whenever the schema snapshot changes.
package schema

// Kind discriminates the classified schema element categories.
type Kind string

const (
	KindModel     Kind = "model"
	KindComponent Kind = "component"
	KindEnum      Kind = "enum"
)

// Field describes one field of a model or component with all NON_NULL and
// LIST wrappers stripped. UnionPossibleTypes is non-nil iff IsUnion is true.
type Field struct {
	Name               string   `json:"name"`
	TypeName           string   `json:"typeName"`
	IsList             bool     `json:"isList"`
	IsRequired         bool     `json:"isRequired"`
	IsUnion            bool     `json:"isUnion"`
	UnionPossibleTypes []string `json:"unionPossibleTypes,omitempty"`
}

// Model is an OBJECT type reachable from a root query field, i.e. a
// top-level content type the CMS can list directly.
type Model struct {
	Name        string  `json:"name"`
	APIID       string  `json:"apiId"`
	PluralAPIID string  `json:"pluralApiId"`
	Fields      []Field `json:"fields"`
}

// Component is an OBJECT type that never appears as a root query field; it
// only occurs embedded inside models or other components.
type Component struct {
	Name   string  `json:"name"`
	APIID  string  `json:"apiId"`
	Fields []Field `json:"fields"`
}

// Enum is a non-system ENUM type and its value set.
type Enum struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// Union is a polymorphic type; possible types are always model or
// component names.
type Union struct {
	Name          string   `json:"name"`
	PossibleTypes []string `json:"possibleTypes"`
}

// Element is the flattened overview row consumed by the dashboard: one per
// component or enum, with schema-level back-references to everything that
// declares a field of that type.
type Element struct {
	Name       string   `json:"name"`
	Kind       Kind     `json:"kind"`
	FieldNames []string `json:"fieldNames,omitempty"`
	Values     []string `json:"values,omitempty"`
	UsedIn     []string `json:"usedIn"`
}

// Snapshot is one classified schema. It is derived data: rebuilt from a
// fresh introspection at the start of every audit session, never mutated.
type Snapshot struct {
	Models     []Model
	Components []Component
	Enums      []Enum
	Unions     []Union
}

// ModelByName returns the model with the given name, or nil.
func (s *Snapshot) ModelByName(name string) *Model {
	for i := range s.Models {
		if s.Models[i].Name == name {
			return &s.Models[i]
		}
	}
	return nil
}

// ComponentByName returns the component with the given name, or nil.
func (s *Snapshot) ComponentByName(name string) *Component {
	for i := range s.Components {
		if s.Components[i].Name == name {
			return &s.Components[i]
		}
	}
	return nil
}

// EnumByName returns the enum with the given name, or nil.
func (s *Snapshot) EnumByName(name string) *Enum {
	for i := range s.Enums {
		if s.Enums[i].Name == name {
			return &s.Enums[i]
		}
	}
	return nil
}

// UnionByName returns the union with the given name, or nil.
func (s *Snapshot) UnionByName(name string) *Union {
	for i := range s.Unions {
		if s.Unions[i].Name == name {
			return &s.Unions[i]
		}
	}
	return nil
}

// IsComponent reports whether name classifies as a component in this snapshot.
func (s *Snapshot) IsComponent(name string) bool {
	return s.ComponentByName(name) != nil
}

// UnionTable returns union name -> possible type names for quick lookup.
func (s *Snapshot) UnionTable() map[string][]string {
	table := make(map[string][]string, len(s.Unions))
	for _, u := range s.Unions {
		table[u.Name] = u.PossibleTypes
	}
	return table
}

// FieldTable returns type name -> field list for every model and component.
func (s *Snapshot) FieldTable() map[string][]Field {
	table := make(map[string][]Field, len(s.Models)+len(s.Components))
	for _, m := range s.Models {
		table[m.Name] = m.Fields
	}
	for _, c := range s.Components {
		table[c.Name] = c.Fields
	}
	return table
}

// Elements flattens the snapshot into dashboard overview rows for all
// components and enums, computing schema-level usedIn back-references.
func (s *Snapshot) Elements() []Element {
	usedIn := make(map[string][]string)
	note := func(typeName, owner string) {
		for _, existing := range usedIn[typeName] {
			if existing == owner {
				return
			}
		}
		usedIn[typeName] = append(usedIn[typeName], owner)
	}
	scanFields := func(owner string, fields []Field) {
		for _, f := range fields {
			note(f.TypeName, owner)
			for _, pt := range f.UnionPossibleTypes {
				note(pt, owner)
			}
		}
	}
	for _, m := range s.Models {
		scanFields(m.Name, m.Fields)
	}
	for _, c := range s.Components {
		scanFields(c.Name, c.Fields)
	}

	elements := make([]Element, 0, len(s.Components)+len(s.Enums))
	for _, c := range s.Components {
		fieldNames := make([]string, 0, len(c.Fields))
		for _, f := range c.Fields {
			fieldNames = append(fieldNames, f.Name)
		}
		elements = append(elements, Element{
			Name:       c.Name,
			Kind:       KindComponent,
			FieldNames: fieldNames,
			UsedIn:     usedIn[c.Name],
		})
	}
	for _, e := range s.Enums {
		elements = append(elements, Element{
			Name:   e.Name,
			Kind:   KindEnum,
			Values: e.Values,
			UsedIn: usedIn[e.Name],
		})
	}
	return elements
}
