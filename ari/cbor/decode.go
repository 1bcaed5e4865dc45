package cbor

import (
	"math"

	"github.com/fxamacker/cbor/v2"

	"github.com/NASA-AMMOS/anms-ace/ari"
)

// Decode parses a complete CBOR-encoded ARI back into a Value
// (spec.md §4.E "Decoder"): recognizes the ARI outer tag, strips it, and
// dispatches on the tagged content's shape.
func Decode(data []byte) (ari.Value, error) {
	var tag cbor.Tag
	if err := decMode.Unmarshal(data, &tag); err != nil {
		return ari.Value{}, &ari.DecodeError{Message: "malformed CBOR: " + err.Error(), Cause: err}
	}
	if tag.Number != TagARI {
		return ari.Value{}, &ari.DecodeError{Message: "unrecognized outer CBOR tag (not the ARI tag)"}
	}
	return decodeItem(tag.Content)
}

func decodeItem(x any) (ari.Value, error) {
	arr, ok := x.([]any)
	if !ok {
		return ari.Value{}, &ari.DecodeError{Message: "expected a CBOR array at this position"}
	}
	switch len(arr) {
	case 2:
		return decodeLiteral(arr[0], arr[1])
	case 3, 4, 5, 6:
		return decodeReference(arr)
	default:
		return ari.Value{}, &ari.DecodeError{Message: "CBOR array has an unrecognized element count"}
	}
}

func decodeLiteral(codeAny, payload any) (ari.Value, error) {
	code, err := toInt64(codeAny)
	if err != nil {
		return ari.Value{}, &ari.DecodeError{Message: "invalid literal-type code: " + err.Error()}
	}
	if ari.NameForCode(ari.SpaceLiteral, int(code)) == "" {
		return ari.Value{}, &ari.DecodeError{Message: "unknown literal-type code"}
	}
	lt := ari.LiteralType(code)
	switch lt {
	case ari.TypeUndefined:
		return ari.Undefined(), nil
	case ari.TypeNull:
		return ari.NullValue(), nil
	case ari.TypeBool:
		b, ok := payload.(bool)
		if !ok {
			return ari.Value{}, &ari.DecodeError{Message: "BOOL payload is not a boolean"}
		}
		return ari.BoolValue(b), nil
	case ari.TypeByte:
		n, err := toUint64(payload)
		if err != nil {
			return ari.Value{}, err
		}
		return ari.ByteValue(n)
	case ari.TypeInt32:
		n, err := toInt64(payload)
		if err != nil {
			return ari.Value{}, err
		}
		return ari.Int32Value(n)
	case ari.TypeUInt32:
		n, err := toUint64(payload)
		if err != nil {
			return ari.Value{}, err
		}
		return ari.UInt32Value(n)
	case ari.TypeVAST:
		n, err := toInt64(payload)
		if err != nil {
			return ari.Value{}, err
		}
		return ari.VASTValue(n), nil
	case ari.TypeUVAST:
		n, err := toUint64(payload)
		if err != nil {
			return ari.Value{}, err
		}
		return ari.UVASTValue(n), nil
	case ari.TypeReal32:
		f, ok := toFloat64(payload)
		if !ok {
			return ari.Value{}, &ari.DecodeError{Message: "REAL32 payload is not a number"}
		}
		return ari.Real32Value(float32(f)), nil
	case ari.TypeReal64:
		f, ok := toFloat64(payload)
		if !ok {
			return ari.Value{}, &ari.DecodeError{Message: "REAL64 payload is not a number"}
		}
		return ari.Real64Value(f), nil
	case ari.TypeTextStr:
		s, ok := payload.(string)
		if !ok {
			return ari.Value{}, &ari.DecodeError{Message: "TSTR payload is not a text string"}
		}
		return ari.TextStrValue(s), nil
	case ari.TypeByteStr:
		b, ok := payload.([]byte)
		if !ok {
			return ari.Value{}, &ari.DecodeError{Message: "BSTR payload is not a byte string"}
		}
		return ari.ByteStrValue(b), nil
	case ari.TypeCBOR:
		b, ok := payload.([]byte)
		if !ok {
			return ari.Value{}, &ari.DecodeError{Message: "CBOR-embedded payload is not a byte string"}
		}
		return ari.CBORValue(b), nil
	case ari.TypeTP:
		t, err := decodeTime(payload)
		if err != nil {
			return ari.Value{}, err
		}
		return ari.TPValue(t), nil
	case ari.TypeTD:
		t, err := decodeTime(payload)
		if err != nil {
			return ari.Value{}, err
		}
		return ari.TDValue(t), nil
	case ari.TypeLabel:
		return decodeLabel(payload)
	case ari.TypeAC:
		items, ok := payload.([]any)
		if !ok {
			return ari.Value{}, &ari.DecodeError{Message: "AC payload is not an array"}
		}
		decoded, err := decodeItems(items)
		if err != nil {
			return ari.Value{}, err
		}
		return ari.ACValue(decoded), nil
	case ari.TypeAM:
		items, ok := payload.([]any)
		if !ok {
			return ari.Value{}, &ari.DecodeError{Message: "AM payload is not an array"}
		}
		pairs := make([]ari.Pair, len(items))
		for i, it := range items {
			pairArr, ok := it.([]any)
			if !ok || len(pairArr) != 2 {
				return ari.Value{}, &ari.DecodeError{Message: "AM entry is not a 2-element array"}
			}
			k, err := decodeItem(pairArr[0])
			if err != nil {
				return ari.Value{}, err
			}
			val, err := decodeItem(pairArr[1])
			if err != nil {
				return ari.Value{}, err
			}
			pairs[i] = ari.Pair{Key: k, Value: val}
		}
		return ari.AMValue(pairs), nil
	case ari.TypeTBL:
		items, ok := payload.([]any)
		if !ok || len(items) == 0 {
			return ari.Value{}, &ari.DecodeError{Message: "TBL payload is not a non-empty array"}
		}
		cols, err := toInt64(items[0])
		if err != nil {
			return ari.Value{}, &ari.DecodeError{Message: "TBL column count is not an integer"}
		}
		flat, err := decodeItems(items[1:])
		if err != nil {
			return ari.Value{}, err
		}
		return ari.TBLValue(int(cols), flat)
	case ari.TypeExecSet:
		return decodeIdentSet(payload, true)
	case ari.TypeRptSet:
		return decodeIdentSet(payload, false)
	default:
		return ari.Value{}, &ari.DecodeError{Message: "unhandled literal-type code"}
	}
}

func decodeItems(items []any) ([]ari.Value, error) {
	out := make([]ari.Value, len(items))
	for i, it := range items {
		v, err := decodeItem(it)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func decodeIdentSet(payload any, isExec bool) (ari.Value, error) {
	items, ok := payload.([]any)
	if !ok || len(items) == 0 {
		return ari.Value{}, &ari.DecodeError{Message: "EXECSET/RPTSET payload is not a non-empty array"}
	}
	ident, err := decodeItem(items[0])
	if err != nil {
		return ari.Value{}, err
	}
	rest, err := decodeItems(items[1:])
	if err != nil {
		return ari.Value{}, err
	}
	if isExec {
		return ari.ExecSetValue(ident, rest), nil
	}
	return ari.RptSetValue(ident, rest), nil
}

func decodeLabel(payload any) (ari.Value, error) {
	if s, ok := payload.(string); ok {
		return ari.LabelValue(ari.Label{Text: s}), nil
	}
	n, err := toInt64(payload)
	if err != nil {
		return ari.Value{}, &ari.DecodeError{Message: "LABEL payload is neither a string nor an integer"}
	}
	return ari.LabelValue(ari.Label{IsInt: true, Int: n}), nil
}

func decodeReference(arr []any) (ari.Value, error) {
	ns, err := decodeNameRef(arr[0])
	if err != nil {
		return ari.Value{}, err
	}
	objTypeCode, err := toInt64(arr[1])
	if err != nil {
		return ari.Value{}, &ari.DecodeError{Message: "object-type code is not an integer"}
	}
	if !ari.IsObjectType(int(objTypeCode)) {
		return ari.Value{}, &ari.DecodeError{Message: "unknown object-type code"}
	}
	name, err := decodeNameRef(arr[2])
	if err != nil {
		return ari.Value{}, err
	}
	ref := ari.Reference{Namespace: ns, ObjType: ari.ObjectType(objTypeCode), Name: name}
	if len(arr) >= 4 {
		if paramsArr, ok := arr[3].([]any); ok {
			params, err := decodeItems(paramsArr)
			if err != nil {
				return ari.Value{}, err
			}
			ref.Params = params
			ref.HasParams = true
		} else if arr[3] != nil {
			return ari.Value{}, &ari.DecodeError{Message: "param-array is not a CBOR array"}
		}
	}
	if len(arr) >= 5 {
		issuer, err := decodeByteField(arr[4], "issuer")
		if err != nil {
			return ari.Value{}, err
		}
		ref.Issuer = issuer
	}
	if len(arr) == 6 {
		tag, err := decodeByteField(arr[5], "tag")
		if err != nil {
			return ari.Value{}, err
		}
		ref.Tag = tag
	}
	return ari.ReferenceValue(ref), nil
}

func decodeByteField(x any, field string) ([]byte, error) {
	if x == nil {
		return nil, nil
	}
	b, ok := x.([]byte)
	if !ok {
		return nil, &ari.DecodeError{Message: "reference " + field + " is not a CBOR byte string"}
	}
	return b, nil
}

func decodeNameRef(x any) (ari.NameRef, error) {
	switch v := x.(type) {
	case nil:
		return ari.NameRef{}, nil
	case string:
		return ari.SymbolicName(v), nil
	case int64:
		return ari.NumericName(v), nil
	case uint64:
		return ari.NumericName(int64(v)), nil
	case int:
		return ari.NumericName(int64(v)), nil
	default:
		return ari.NameRef{}, &ari.DecodeError{Message: "namespace/object-name is neither an integer nor a text string"}
	}
}

func decodeTime(payload any) (ari.TimeValue, error) {
	switch p := payload.(type) {
	case int64:
		neg := p < 0
		abs := p
		if neg {
			abs = -p
		}
		return ari.TimeValue{Negative: neg, Seconds: uint64(abs)}, nil
	case uint64:
		return ari.TimeValue{Seconds: p}, nil
	case cbor.Tag:
		if p.Number != 4 {
			return ari.TimeValue{}, &ari.DecodeError{Message: "unsupported tag in TP/TD payload"}
		}
		content, ok := p.Content.([]any)
		if !ok || len(content) != 2 {
			return ari.TimeValue{}, &ari.DecodeError{Message: "malformed decimal-fraction TP/TD payload"}
		}
		exp, err := toInt64(content[0])
		if err != nil {
			return ari.TimeValue{}, &ari.DecodeError{Message: "decimal-fraction exponent is not an integer"}
		}
		if exp != -9 {
			return ari.TimeValue{}, &ari.DecodeError{Message: "unsupported decimal-fraction exponent (expected -9)"}
		}
		mant, err := toInt64(content[1])
		if err != nil {
			return ari.TimeValue{}, &ari.DecodeError{Message: "decimal-fraction mantissa is not an integer"}
		}
		neg := mant < 0
		abs := mant
		if neg {
			abs = -mant
		}
		return ari.TimeValue{Negative: neg, Seconds: uint64(abs) / 1_000_000_000, Nanos: uint32(uint64(abs) % 1_000_000_000)}, nil
	default:
		return ari.TimeValue{}, &ari.DecodeError{Message: "TP/TD payload is neither an integer nor a decimal fraction"}
	}
}

func toInt64(x any) (int64, error) {
	switch v := x.(type) {
	case int64:
		return v, nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, &ari.DecodeError{Message: "integer too large for a signed field"}
		}
		return int64(v), nil
	case int:
		return int64(v), nil
	default:
		return 0, &ari.DecodeError{Message: "expected an integer"}
	}
}

func toUint64(x any) (uint64, error) {
	switch v := x.(type) {
	case uint64:
		return v, nil
	case int64:
		if v < 0 {
			return 0, &ari.DecodeError{Message: "expected a non-negative integer"}
		}
		return uint64(v), nil
	case int:
		if v < 0 {
			return 0, &ari.DecodeError{Message: "expected a non-negative integer"}
		}
		return uint64(v), nil
	default:
		return 0, &ari.DecodeError{Message: "expected an integer"}
	}
}

func toFloat64(x any) (float64, bool) {
	switch v := x.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	default:
		return 0, false
	}
}
