package graphql

import "fmt"

// SchemaFetchError means the full introspection round-trip failed. There is
// no schema to work with, so callers treat this as fatal for the session.
type SchemaFetchError struct {
	Endpoint string
	Err      error
}

func (e *SchemaFetchError) Error() string {
	return fmt.Sprintf("schema introspection failed for %s: %v", e.Endpoint, e.Err)
}

func (e *SchemaFetchError) Unwrap() error { return e.Err }

// FieldDiscoveryError means the single-type field discovery query failed
// for one named type. Callers recover by treating the type as having no
// discoverable fields.
type FieldDiscoveryError struct {
	TypeName string
	Err      error
}

func (e *FieldDiscoveryError) Error() string {
	return fmt.Sprintf("field discovery failed for type %s: %v", e.TypeName, e.Err)
}

func (e *FieldDiscoveryError) Unwrap() error { return e.Err }

// QueryExecutionError means a synthesized content query could not be
// executed at the transport level. It scopes to one model; the resolution
// run records it and continues with the remaining models.
type QueryExecutionError struct {
	ModelName string
	Err       error
}

func (e *QueryExecutionError) Error() string {
	return fmt.Sprintf("usage query failed for model %s: %v", e.ModelName, e.Err)
}

func (e *QueryExecutionError) Unwrap() error { return e.Err }

// ResponseError is one entry of a GraphQL response "errors" array. A
// response carrying these is not a transport failure: the engine treats it
// as zero usages for the query that produced it.
type ResponseError struct {
	Message string `json:"message"`
	Path    []any  `json:"path,omitempty"`
}

func (e ResponseError) Error() string { return e.Message }
