package ari

import "bytes"

// Equal reports whether a and b are structurally and type-aware equal:
// UINT.1 ≠ INT.1 ≠ VAST.1 even though numerically equal, and integer
// equality never coerces across widths (spec.md §4.A).
func Equal(a, b Value) bool {
	if a.isRef != b.isRef {
		return false
	}
	if a.isRef {
		return referenceEqual(a.ref, b.ref)
	}
	if a.lit != b.lit {
		return false
	}
	switch a.lit {
	case TypeUndefined, TypeNull:
		return true
	case TypeBool:
		return a.boolVal == b.boolVal
	case TypeByte, TypeUInt32, TypeUVAST:
		return a.uintVal == b.uintVal
	case TypeInt32, TypeVAST:
		return a.intVal == b.intVal
	case TypeReal32:
		return a.f32Val == b.f32Val
	case TypeReal64:
		return a.f64Val == b.f64Val
	case TypeTextStr:
		return a.strVal == b.strVal
	case TypeByteStr, TypeCBOR:
		return bytes.Equal(a.bytesVal, b.bytesVal)
	case TypeTP, TypeTD:
		return a.timeVal == b.timeVal
	case TypeLabel:
		return a.labelVal == b.labelVal
	case TypeAC:
		return itemsEqual(a.items, b.items)
	case TypeAM:
		return pairsEqual(a.pairs, b.pairs)
	case TypeTBL:
		return a.cols == b.cols && itemsEqual(a.items, b.items)
	case TypeExecSet, TypeRptSet:
		if (a.ident == nil) != (b.ident == nil) {
			return false
		}
		if a.ident != nil && !Equal(*a.ident, *b.ident) {
			return false
		}
		return itemsEqual(a.items, b.items)
	default:
		return false
	}
}

func itemsEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func pairsEqual(a, b []Pair) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i].Key, b[i].Key) || !Equal(a[i].Value, b[i].Value) {
			return false
		}
	}
	return true
}

func referenceEqual(a, b *Reference) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.ObjType != b.ObjType {
		return false
	}
	if a.Namespace != b.Namespace || a.Name != b.Name {
		return false
	}
	if a.HasParams != b.HasParams {
		return false
	}
	if !itemsEqual(a.Params, b.Params) {
		return false
	}
	return bytes.Equal(a.Issuer, b.Issuer) && bytes.Equal(a.Tag, b.Tag)
}
