package graphql

// Full introspection document. The TypeRef fragment unwraps seven layers of
// ofType nesting, enough for any NON_NULL/LIST stacking the CMS emits.
const introspectionQuery = `
query IntrospectionQuery {
  __schema {
    queryType { name }
    types {
      ...FullType
    }
  }
}

fragment FullType on __Type {
  kind
  name
  fields(includeDeprecated: true) {
    name
    type {
      ...TypeRef
    }
  }
  enumValues(includeDeprecated: true) {
    name
  }
  possibleTypes {
    ...TypeRef
  }
}

fragment TypeRef on __Type {
  kind
  name
  ofType {
    kind
    name
    ofType {
      kind
      name
      ofType {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}
`

// Scoped discovery query for one named type. Cheaper than re-running the
// full introspection when only one type's fields are needed.
const typeFieldsQuery = `
query TypeFields($name: String!) {
  __type(name: $name) {
    kind
    name
    fields(includeDeprecated: true) {
      name
      type {
        kind
        name
        ofType {
          kind
          name
          ofType {
            kind
            name
            ofType {
              kind
              name
              ofType {
                kind
                name
              }
            }
          }
        }
      }
    }
  }
}
`

// TypeRef mirrors the __Type reference shape. Name is a pointer because
// wrapper kinds (NON_NULL, LIST) carry a null name.
type TypeRef struct {
	Kind   string   `json:"kind"`
	Name   *string  `json:"name"`
	OfType *TypeRef `json:"ofType"`
}

// NamedType unwraps NON_NULL and LIST wrappers to the underlying named type.
func (t *TypeRef) NamedType() *TypeRef {
	if t == nil {
		return nil
	}
	if t.Name != nil {
		return t
	}
	if t.OfType == nil {
		return nil
	}
	return t.OfType.NamedType()
}

// IsList reports whether any wrapper layer is a LIST.
func (t *TypeRef) IsList() bool {
	for cur := t; cur != nil; cur = cur.OfType {
		if cur.Kind == "LIST" {
			return true
		}
	}
	return false
}

// IsRequired reports whether the outermost wrapper is NON_NULL.
func (t *TypeRef) IsRequired() bool {
	return t != nil && t.Kind == "NON_NULL"
}

// IntrospectionField is one field of an introspected type.
type IntrospectionField struct {
	Name string  `json:"name"`
	Type TypeRef `json:"type"`
}

// IntrospectionEnumValue is one value of an introspected enum.
type IntrospectionEnumValue struct {
	Name string `json:"name"`
}

// IntrospectionType is one entry of the __schema types list.
type IntrospectionType struct {
	Kind          string                   `json:"kind"`
	Name          string                   `json:"name"`
	Fields        []IntrospectionField     `json:"fields"`
	EnumValues    []IntrospectionEnumValue `json:"enumValues"`
	PossibleTypes []TypeRef                `json:"possibleTypes"`
}

// IntrospectionSchema is the decoded __schema payload.
type IntrospectionSchema struct {
	QueryType struct {
		Name string `json:"name"`
	} `json:"queryType"`
	Types []IntrospectionType `json:"types"`
}

type introspectionData struct {
	Schema IntrospectionSchema `json:"__schema"`
}

type typeFieldsData struct {
	Type *IntrospectionType `json:"__type"`
}
