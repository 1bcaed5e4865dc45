package cbor

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/NASA-AMMOS/anms-ace/ari"
)

// Encode renders v as a complete CBOR-encoded ARI: the ARI outer tag
// wrapping either a reference array or a [literal-type-code, payload]
// array (spec.md §4.E "Wire layout"). Every literal — top-level or
// nested — is wrapped with its type code; ACE does not take up the
// optional bare-primitive shortcut spec.md §4.E allows for nested
// context-typed primitives, trading a few bytes of wire compactness for
// a decoder with a single, uniform code path.
func Encode(v ari.Value) ([]byte, error) {
	item, err := encodeItem(v)
	if err != nil {
		return nil, err
	}
	return encMode.Marshal(cbor.Tag{Number: TagARI, Content: item})
}

func encodeItem(v ari.Value) (any, error) {
	if ref, ok := v.AsReference(); ok {
		return encodeReference(ref)
	}
	switch v.Type() {
	case ari.TypeUndefined:
		return []any{int(ari.TypeUndefined), nil}, nil
	case ari.TypeNull:
		return []any{int(ari.TypeNull), nil}, nil
	case ari.TypeBool:
		b, _ := v.Bool()
		return []any{int(ari.TypeBool), b}, nil
	case ari.TypeByte:
		n, _ := v.Uint()
		return []any{int(ari.TypeByte), n}, nil
	case ari.TypeInt32:
		n, _ := v.Int()
		return []any{int(ari.TypeInt32), n}, nil
	case ari.TypeUInt32:
		n, _ := v.Uint()
		return []any{int(ari.TypeUInt32), n}, nil
	case ari.TypeVAST:
		n, _ := v.Int()
		return []any{int(ari.TypeVAST), n}, nil
	case ari.TypeUVAST:
		n, _ := v.Uint()
		return []any{int(ari.TypeUVAST), n}, nil
	case ari.TypeReal32:
		f, _ := v.Float()
		return []any{int(ari.TypeReal32), float32(f)}, nil
	case ari.TypeReal64:
		f, _ := v.Float()
		return []any{int(ari.TypeReal64), f}, nil
	case ari.TypeTextStr:
		s, _ := v.Text()
		return []any{int(ari.TypeTextStr), s}, nil
	case ari.TypeByteStr:
		b, _ := v.Bytes()
		return []any{int(ari.TypeByteStr), b}, nil
	case ari.TypeCBOR:
		b, _ := v.Bytes()
		return []any{int(ari.TypeCBOR), b}, nil
	case ari.TypeTP:
		t, _ := v.Time()
		return []any{int(ari.TypeTP), encodeTime(t)}, nil
	case ari.TypeTD:
		t, _ := v.Time()
		return []any{int(ari.TypeTD), encodeTime(t)}, nil
	case ari.TypeLabel:
		l, _ := v.LabelOf()
		return []any{int(ari.TypeLabel), encodeLabel(l)}, nil
	case ari.TypeAC:
		items, _ := v.Items()
		payload, err := encodeItems(items)
		if err != nil {
			return nil, err
		}
		return []any{int(ari.TypeAC), payload}, nil
	case ari.TypeAM:
		pairs, _ := v.Pairs()
		payload := make([]any, len(pairs))
		for i, p := range pairs {
			k, err := encodeItem(p.Key)
			if err != nil {
				return nil, err
			}
			val, err := encodeItem(p.Value)
			if err != nil {
				return nil, err
			}
			payload[i] = []any{k, val}
		}
		return []any{int(ari.TypeAM), payload}, nil
	case ari.TypeTBL:
		cols, _ := v.Columns()
		items, _ := v.Items()
		flat, err := encodeItems(items)
		if err != nil {
			return nil, err
		}
		return []any{int(ari.TypeTBL), append([]any{cols}, flat...)}, nil
	case ari.TypeExecSet:
		return encodeIdentSet(ari.TypeExecSet, v)
	case ari.TypeRptSet:
		return encodeIdentSet(ari.TypeRptSet, v)
	default:
		return nil, &ari.TypeError{Message: "encode: unhandled literal type"}
	}
}

func encodeItems(items []ari.Value) ([]any, error) {
	out := make([]any, len(items))
	for i, it := range items {
		enc, err := encodeItem(it)
		if err != nil {
			return nil, err
		}
		out[i] = enc
	}
	return out, nil
}

func encodeIdentSet(lt ari.LiteralType, v ari.Value) (any, error) {
	ident, _ := v.Identifier()
	identEnc, err := encodeItem(ident)
	if err != nil {
		return nil, err
	}
	items, _ := v.Items()
	itemsEnc, err := encodeItems(items)
	if err != nil {
		return nil, err
	}
	return []any{int(lt), append([]any{identEnc}, itemsEnc...)}, nil
}

// encodeReference renders the fixed [namespace, object-type, name,
// params?] layout, then — only when present — the issuer and tag
// annotations as the array's 5th and 6th elements (SPEC_FULL.md §3: the
// optional trailing elements carried over from the reference
// implementation's HAS_ISS/HAS_TAG flags). Since issuer and tag are
// independently optional but the layout is positional, a present tag
// with no issuer still forces a nil placeholder at the issuer slot, and
// either one forces a (possibly nil) params slot ahead of it.
func encodeReference(ref *ari.Reference) (any, error) {
	arr := []any{
		encodeNameRef(ref.Namespace),
		int(ref.ObjType),
		encodeNameRef(ref.Name),
	}

	var params any
	if ref.HasParams {
		p, err := encodeItems(ref.Params)
		if err != nil {
			return nil, err
		}
		params = p
	}

	switch {
	case ref.Tag != nil:
		arr = append(arr, params, ref.Issuer, ref.Tag)
	case ref.Issuer != nil:
		arr = append(arr, params, ref.Issuer)
	case ref.HasParams:
		arr = append(arr, params)
	}
	return arr, nil
}

// encodeNameRef prefers the numeric enumerator when both forms are
// known: the wire form's whole point is compactness, and the CBOR major
// type of the result (integer vs text string) is exactly what
// decodeNameRef uses to tell the two forms apart on the way back in.
func encodeNameRef(n ari.NameRef) any {
	switch {
	case n.HasEnum:
		return n.Enum
	case n.HasText:
		return n.Text
	default:
		return nil
	}
}

func encodeLabel(l ari.Label) any {
	if l.IsInt {
		return l.Int
	}
	return l.Text
}

// encodeTime renders a TimeValue as a plain integer (whole seconds) or,
// when a fractional part is present, a CBOR tag 4 decimal fraction
// [-9, mantissa] where mantissa is the signed total nanosecond count
// (spec.md §3.1, and DESIGN.md's Open Question resolution).
func encodeTime(t ari.TimeValue) any {
	if t.IsWhole() {
		if t.Negative {
			return -int64(t.Seconds)
		}
		return t.Seconds
	}
	total := int64(t.Seconds)*1_000_000_000 + int64(t.Nanos)
	if t.Negative {
		total = -total
	}
	return cbor.Tag{Number: 4, Content: []any{int64(-9), total}}
}
