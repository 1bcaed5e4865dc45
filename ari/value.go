package ari

import "fmt"

// Pair is an ordered key/value entry of an AM (array map) value. Key order
// is preserved; keys are AMM values themselves, not bare strings (spec.md
// §3.1: "AM (Array Map) — mapping from AMM value to AMM value").
type Pair struct {
	Key   Value
	Value Value
}

// TimeValue is the shared representation for TP (timepoint) and TD
// (timedelta) literals: whole seconds since the DTN epoch
// (2000-01-01T00:00:00Z) plus an optional fractional part, matching
// spec.md §3.1. Negative records a value before the epoch (TP) or a
// negative duration (TD); Seconds and Nanos are always non-negative
// magnitudes so the zero value reliably means "zero".
type TimeValue struct {
	Negative bool
	Seconds  uint64
	Nanos    uint32 // 0..999_999_999
}

// IsWhole reports whether the value has no fractional part, the
// condition under which the text unparser emits integer seconds
// (spec.md §4.D "Unparser").
func (t TimeValue) IsWhole() bool { return t.Nanos == 0 }

// Label is a short interned identifier carried as either an integer
// enumerator or text (spec.md §3.1).
type Label struct {
	IsInt bool
	Int   int64
	Text  string
}

// Value is the tagged union at the root of the AMM data model: every ARI
// or nested literal is one of these. Rather than a variant-per-subclass
// hierarchy, a single struct carries a kind tag (lit, or isRef for object
// references) and the handful of fields relevant to that kind — the
// representation spec.md §9 asks for, grounded on Neumenon-glyph's
// GValue/StructValue/SumValue tagging.
type Value struct {
	lit   LiteralType
	isRef bool

	boolVal  bool
	intVal   int64  // INT32, VAST
	uintVal  uint64 // BYTE, UINT32, UVAST
	f32Val   float32
	f64Val   float64
	strVal   string // TSTR
	bytesVal []byte // BSTR, CBOR (raw, bit-exact)
	timeVal  TimeValue
	labelVal Label

	items []Value // AC elements, TBL flat row-major elements, EXECSET/RPTSET items
	pairs []Pair  // AM entries
	cols  int     // TBL column count
	ident *Value  // EXECSET/RPTSET identifier

	ref *Reference
}

// Type returns the literal type of a non-reference value, or the zero
// LiteralType if v is an object reference (use IsReference to tell them
// apart).
func (v Value) Type() LiteralType { return v.lit }

// IsReference reports whether v holds an ADM object reference rather than
// a literal.
func (v Value) IsReference() bool { return v.isRef }

// Undefined returns the Undefined value (spec.md §3.1: "the absence of a
// value; distinct from null").
func Undefined() Value { return Value{lit: TypeUndefined} }

// IsUndefined reports whether v is the Undefined value.
func (v Value) IsUndefined() bool { return !v.isRef && v.lit == TypeUndefined }

// NullValue returns the Null value.
func NullValue() Value { return Value{lit: TypeNull} }

// BoolValue returns a Boolean value.
func BoolValue(b bool) Value { return Value{lit: TypeBool, boolVal: b} }

// Bool returns the boolean payload; ok is false if v is not Boolean.
func (v Value) Bool() (b bool, ok bool) {
	return v.boolVal, !v.isRef && v.lit == TypeBool
}

// ByteValue returns a BYTE (8-bit unsigned) value. err is a *TypeError if
// val is out of range.
func ByteValue(val uint64) (Value, error) {
	if !TypeByte.InRangeUint64(val) {
		return Value{}, &TypeError{Message: fmt.Sprintf("BYTE value %d out of range", val)}
	}
	return Value{lit: TypeByte, uintVal: val}, nil
}

// Int32Value returns an INT (32-bit signed) value.
func Int32Value(val int64) (Value, error) {
	if !TypeInt32.InRangeInt64(val) {
		return Value{}, &TypeError{Message: fmt.Sprintf("INT value %d out of range", val)}
	}
	return Value{lit: TypeInt32, intVal: val}, nil
}

// UInt32Value returns a UINT (32-bit unsigned) value.
func UInt32Value(val uint64) (Value, error) {
	if !TypeUInt32.InRangeUint64(val) {
		return Value{}, &TypeError{Message: fmt.Sprintf("UINT value %d out of range", val)}
	}
	return Value{lit: TypeUInt32, uintVal: val}, nil
}

// VASTValue returns a VAST (64-bit signed) value; any int64 is in range.
func VASTValue(val int64) Value { return Value{lit: TypeVAST, intVal: val} }

// UVASTValue returns a UVAST (64-bit unsigned) value; any uint64 is in
// range.
func UVASTValue(val uint64) Value { return Value{lit: TypeUVAST, uintVal: val} }

// Int returns the signed integer payload of a BYTE/INT/UINT/VAST/UVAST
// value. UVAST values above math.MaxInt64 wrap; callers needing the exact
// unsigned magnitude should use Uint instead.
func (v Value) Int() (n int64, ok bool) {
	if v.isRef {
		return 0, false
	}
	switch v.lit {
	case TypeInt32, TypeVAST:
		return v.intVal, true
	case TypeByte, TypeUInt32, TypeUVAST:
		return int64(v.uintVal), true
	default:
		return 0, false
	}
}

// Uint returns the unsigned integer payload of a BYTE/UINT/UVAST value.
func (v Value) Uint() (n uint64, ok bool) {
	if v.isRef {
		return 0, false
	}
	switch v.lit {
	case TypeByte, TypeUInt32, TypeUVAST:
		return v.uintVal, true
	default:
		return 0, false
	}
}

// Real32Value returns a REAL32 (IEEE 754 binary32) value.
func Real32Value(f float32) Value { return Value{lit: TypeReal32, f32Val: f} }

// Real64Value returns a REAL64 (IEEE 754 binary64) value.
func Real64Value(f float64) Value { return Value{lit: TypeReal64, f64Val: f} }

// Float returns the real payload of a REAL32/REAL64 value as a float64.
func (v Value) Float() (f float64, ok bool) {
	if v.isRef {
		return 0, false
	}
	switch v.lit {
	case TypeReal32:
		return float64(v.f32Val), true
	case TypeReal64:
		return v.f64Val, true
	default:
		return 0, false
	}
}

// TextStrValue returns a UTF-8 text string value.
func TextStrValue(s string) Value { return Value{lit: TypeTextStr, strVal: s} }

// ByteStrValue returns an opaque byte string value.
func ByteStrValue(b []byte) Value { return Value{lit: TypeByteStr, bytesVal: b} }

// Text returns the string payload of a TSTR value.
func (v Value) Text() (s string, ok bool) {
	return v.strVal, !v.isRef && v.lit == TypeTextStr
}

// Bytes returns the byte payload of a BSTR or CBOR value.
func (v Value) Bytes() (b []byte, ok bool) {
	if v.isRef {
		return nil, false
	}
	if v.lit == TypeByteStr || v.lit == TypeCBOR {
		return v.bytesVal, true
	}
	return nil, false
}

// TPValue returns a timepoint literal.
func TPValue(t TimeValue) Value { return Value{lit: TypeTP, timeVal: t} }

// TDValue returns a timedelta literal.
func TDValue(t TimeValue) Value { return Value{lit: TypeTD, timeVal: t} }

// Time returns the TimeValue payload of a TP/TD value.
func (v Value) Time() (t TimeValue, ok bool) {
	if v.isRef || (v.lit != TypeTP && v.lit != TypeTD) {
		return TimeValue{}, false
	}
	return v.timeVal, true
}

// LabelValue returns a LABEL literal.
func LabelValue(l Label) Value { return Value{lit: TypeLabel, labelVal: l} }

// LabelOf returns the Label payload of a LABEL value.
func (v Value) LabelOf() (l Label, ok bool) {
	return v.labelVal, !v.isRef && v.lit == TypeLabel
}

// CBORValue returns an embedded CBOR literal, preserving raw exactly as
// given (spec.md §3.1, §4.E "Preserves unknown CBOR tags ... bit-exactly").
func CBORValue(raw []byte) Value { return Value{lit: TypeCBOR, bytesVal: raw} }

// ACValue returns an AC (array container) value.
func ACValue(items []Value) Value { return Value{lit: TypeAC, items: items} }

// Items returns the element list of an AC value, or the flat payload of a
// TBL value, or the item sequence of an EXECSET/RPTSET value.
func (v Value) Items() ([]Value, bool) {
	if v.isRef {
		return nil, false
	}
	switch v.lit {
	case TypeAC, TypeTBL, TypeExecSet, TypeRptSet:
		return v.items, true
	default:
		return nil, false
	}
}

// AMValue returns an AM (array map) value, preserving pairs in source
// order (spec.md §3.1: "key order preserved").
func AMValue(pairs []Pair) Value { return Value{lit: TypeAM, pairs: pairs} }

// Pairs returns the entries of an AM value.
func (v Value) Pairs() ([]Pair, bool) {
	return v.pairs, !v.isRef && v.lit == TypeAM
}

// TBLValue returns a table value: column count plus a flat, row-major
// element sequence. Returns a *TypeError if the element count is not an
// integer multiple of cols (spec.md §4.A, §8 property 6).
func TBLValue(cols int, flat []Value) (Value, error) {
	if cols <= 0 {
		return Value{}, &TypeError{Message: "TBL column count must be positive"}
	}
	if len(flat)%cols != 0 {
		return Value{}, &TypeError{
			Message: fmt.Sprintf("TBL flat length %d is not a multiple of %d columns", len(flat), cols),
		}
	}
	return Value{lit: TypeTBL, cols: cols, items: flat}, nil
}

// Columns returns the declared column count of a TBL value.
func (v Value) Columns() (n int, ok bool) {
	return v.cols, !v.isRef && v.lit == TypeTBL
}

// Rows returns the row count of a TBL value (flat length / columns).
func (v Value) Rows() (n int, ok bool) {
	if v.isRef || v.lit != TypeTBL || v.cols == 0 {
		return 0, false
	}
	return len(v.items) / v.cols, true
}

// ExecSetValue returns an EXECSET literal: an identifier plus an ordered
// sequence of ARIs to execute (spec.md §3.1).
func ExecSetValue(ident Value, items []Value) Value {
	id := ident
	return Value{lit: TypeExecSet, ident: &id, items: items}
}

// RptSetValue returns an RPTSET literal: an identifier plus an ordered
// sequence of report-entry ARIs.
func RptSetValue(ident Value, items []Value) Value {
	id := ident
	return Value{lit: TypeRptSet, ident: &id, items: items}
}

// Identifier returns the identifier of an EXECSET/RPTSET value.
func (v Value) Identifier() (id Value, ok bool) {
	if v.isRef || (v.lit != TypeExecSet && v.lit != TypeRptSet) || v.ident == nil {
		return Value{}, false
	}
	return *v.ident, true
}

// ReferenceValue wraps a Reference as a Value.
func ReferenceValue(ref Reference) Value {
	r := ref
	return Value{isRef: true, ref: &r}
}

// AsReference returns the Reference payload; ok is false if v is a
// literal.
func (v Value) AsReference() (ref *Reference, ok bool) {
	return v.ref, v.isRef
}
