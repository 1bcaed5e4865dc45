package ari

import "strings"

// Space distinguishes the two code spaces a name can belong to
// (spec.md §3.2, §4.B).
type Space uint8

const (
	SpaceLiteral Space = iota
	SpaceObject
)

var (
	literalByName = buildLiteralIndex()
	objectByName  = buildObjectIndex()
)

func buildLiteralIndex() map[string]LiteralType {
	m := make(map[string]LiteralType, len(literalNames))
	for code, name := range literalNames {
		if name != "" {
			m[name] = LiteralType(code)
		}
	}
	return m
}

func buildObjectIndex() map[string]ObjectType {
	m := make(map[string]ObjectType, len(objectTypeNames))
	for code, name := range objectTypeNames {
		if name != "" {
			m[name] = ObjectType(code)
		}
	}
	return m
}

// CodeForName resolves a case-insensitive type name in the given space to
// its numeric code. The boolean result is false when the name is unknown
// (spec.md §4.B: "a closed set" for literal types; unknown object-type
// names are likewise rejected by the registry, distinct from unknown
// *object names*, which the catalog — not the registry — resolves).
func CodeForName(space Space, name string) (code int, ok bool) {
	upper := strings.ToUpper(name)
	switch space {
	case SpaceLiteral:
		lt, ok := literalByName[upper]
		return int(lt), ok
	case SpaceObject:
		ot, ok := objectByName[upper]
		return int(ot), ok
	default:
		return 0, false
	}
}

// LiteralTypeForName resolves a literal type name, case-insensitively.
func LiteralTypeForName(name string) (LiteralType, bool) {
	lt, ok := literalByName[strings.ToUpper(name)]
	return lt, ok
}

// ObjectTypeForName resolves an object type name, case-insensitively.
func ObjectTypeForName(name string) (ObjectType, bool) {
	ot, ok := objectByName[strings.ToUpper(name)]
	return ot, ok
}

// NameForCode returns the canonical (upper-case) name for a code in the
// given space, or "" if the code is not assigned.
func NameForCode(space Space, code int) string {
	switch space {
	case SpaceLiteral:
		if code < 0 || code >= len(literalNames) {
			return ""
		}
		return literalNames[code]
	case SpaceObject:
		if code < 0 || code >= len(objectTypeNames) {
			return ""
		}
		return objectTypeNames[code]
	default:
		return ""
	}
}

// IsContainer reports whether the literal type code denotes a container.
func IsContainer(code int) bool {
	return LiteralType(code).IsContainer()
}

// IsPrimitive reports whether the literal type code denotes a scalar
// (non-container) literal.
func IsPrimitive(code int) bool {
	if code < 0 || code >= len(literalNames) || literalNames[code] == "" {
		return false
	}
	return !LiteralType(code).IsContainer()
}

// IsObjectType reports whether code is an assigned object-type code.
func IsObjectType(code int) bool {
	return code >= 0 && code < len(objectTypeNames) && objectTypeNames[code] != ""
}
