package schema

import "strings"

// Scalar leaf type names that may appear in a preview selection.
var scalarLeafTypes = map[string]bool{
	"String":   true,
	"Int":      true,
	"Float":    true,
	"Boolean":  true,
	"ID":       true,
	"DateTime": true,
	"Date":     true,
	"Json":     true,
}

// IsScalarLeaf reports whether typeName is a scalar the engine will select
// directly in a preview without recursing.
func IsScalarLeaf(typeName string) bool {
	return scalarLeafTypes[typeName]
}

var systemTypeNames = map[string]bool{
	"Query":         true,
	"Mutation":      true,
	"Subscription":  true,
	"Node":          true,
	"PageInfo":      true,
	"Aggregate":     true,
	"Asset":         true,
	"User":          true,
	"ScheduledOperation": true,
	"ScheduledRelease":   true,
	"Version":            true,
	"DocumentVersion":    true,
	"RichText":           true,
	"Location":           true,
	"Color":              true,
	"RGBA":               true,
	"BatchPayload":       true,
}

var systemTypeSuffixes = []string{
	"Connection",
	"Edge",
	"WhereInput",
	"WhereUniqueInput",
	"CreateInput",
	"UpdateInput",
	"UpsertInput",
	"ConnectInput",
	"OrderByInput",
	"ManyWhereInput",
}

// IsSystemType reports whether a type name belongs to the CMS platform
// machinery rather than user content modeling.
func IsSystemType(name string) bool {
	if name == "" {
		return true
	}
	if strings.HasPrefix(name, "_") {
		return true
	}
	if systemTypeNames[name] {
		return true
	}
	for _, suffix := range systemTypeSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

var systemEnumNames = map[string]bool{
	"Stage":                     true,
	"Locale":                    true,
	"SystemDateTimeFieldVariation": true,
	"DocumentFileTypes":         true,
	"ImageFit":                  true,
	"ScheduledOperationStatus":  true,
	"ScheduledReleaseStatus":    true,
	"UserKind":                  true,
}

// IsSystemEnum reports whether an enum name is CMS platform machinery.
func IsSystemEnum(name string) bool {
	if systemEnumNames[name] {
		return true
	}
	if strings.HasSuffix(name, "Variation") {
		return true
	}
	if strings.Contains(name, "_Shared_") {
		return true
	}
	return false
}

var systemFieldNames = map[string]bool{
	"id":          true,
	"createdAt":   true,
	"updatedAt":   true,
	"publishedAt": true,
	"createdBy":   true,
	"updatedBy":   true,
	"publishedBy": true,
	"stage":       true,
	"locale":      true,
	"localizations": true,
	"documentInStages": true,
	"history":          true,
	"scheduledIn":      true,
}

// IsSystemField reports whether a field is CMS bookkeeping rather than an
// author-defined content field.
func IsSystemField(name string) bool {
	return systemFieldNames[name]
}

// LowerCamel lowercases the first rune of a type name, producing the apiId
// the CMS exposes as the singular query field.
func LowerCamel(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// Pluralize applies the CMS pluralization heuristic to an apiId: trailing
// "s" gains "es", trailing "y" becomes "ies", everything else gains "s".
// This must track the CMS's own naming convention; when it misfires the
// allow/deny override lists in the project config correct classification.
func Pluralize(apiID string) string {
	if apiID == "" {
		return apiID
	}
	if strings.HasSuffix(apiID, "s") {
		return apiID + "es"
	}
	if strings.HasSuffix(apiID, "y") {
		return apiID[:len(apiID)-1] + "ies"
	}
	return apiID + "s"
}
