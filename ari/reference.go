package ari

import "fmt"

// NameRef is a name that may be known symbolically, numerically, or both
// (spec.md §3.3: namespace and object-name each carry this duality).
type NameRef struct {
	Text    string
	HasText bool
	Enum    int64
	HasEnum bool
}

// SymbolicName returns a NameRef known only by its text form.
func SymbolicName(name string) NameRef { return NameRef{Text: name, HasText: true} }

// NumericName returns a NameRef known only by its numeric enumerator.
func NumericName(enum int64) NameRef { return NameRef{Enum: enum, HasEnum: true} }

// ResolvedName returns a NameRef with both forms populated.
func ResolvedName(name string, enum int64) NameRef {
	return NameRef{Text: name, HasText: true, Enum: enum, HasEnum: true}
}

// IsResolved reports whether both the symbolic and numeric forms are
// present.
func (n NameRef) IsResolved() bool { return n.HasText && n.HasEnum }

func (n NameRef) String() string {
	switch {
	case n.HasText:
		return n.Text
	case n.HasEnum:
		return fmt.Sprintf("!%d", n.Enum)
	default:
		return "<unknown>"
	}
}

// Reference is an ARI's object-reference payload: a namespace, an
// object-type, an object-name, and an ordered parameter list
// (spec.md §3.3).
type Reference struct {
	Namespace NameRef
	ObjType   ObjectType
	Name      NameRef
	Params    []Value

	// HasParams distinguishes an empty-but-present parameter list from
	// one that was never supplied in the source text or wire bytes
	// (spec.md §4.E: "param-array is omitted when empty ... ").
	HasParams bool

	// Issuer and Tag are optional ADM-versioning annotations carried
	// over from the reference implementation (original_source's
	// Identity.issuer/tag) that the distilled spec does not name but
	// does not forbid either; see SPEC_FULL.md §3.
	Issuer []byte
	Tag    []byte
}

// IsResolved reports whether both the namespace and the object-name are
// known in both their symbolic and numeric forms. It does not look at the
// parameters: whether they have been checked against a signature is not
// recorded on the Reference.
func (r Reference) IsResolved() bool {
	return r.Namespace.IsResolved() && r.Name.IsResolved()
}

// Param is one entry of an object's declared parameter signature
// (spec.md §3.4: "an ordered list of (param-name, declared-type,
// optional-default-value)").
type Param struct {
	Name    string
	Type    LiteralType
	Default *Value // nil if the parameter has no default
}

// Signature is the ordered parameter list an ADM declares for an object.
type Signature []Param
