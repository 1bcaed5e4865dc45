package text

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/NASA-AMMOS/anms-ace/ari"
)

// Emit renders v as a complete "ari:/..." text-form ARI, canonically
// (spec.md §4.D "Unparser"): parse(Emit(x)) = x for every well-formed x.
// A reference's Issuer and Tag have no text form and are not emitted.
func Emit(v ari.Value) string {
	return "ari:/" + EmitElement(v)
}

// EmitElement renders v as a bare recursive-grammar element, with no
// leading "ari:" scheme — the form used for parameters, AC/AM/TBL
// elements, and EXECSET/RPTSET entries.
func EmitElement(v ari.Value) string {
	if v.IsUndefined() {
		return "undefined"
	}
	if ref, ok := v.AsReference(); ok {
		return emitReference(ref)
	}
	switch v.Type() {
	case ari.TypeNull:
		return "NULL.null"
	case ari.TypeBool:
		b, _ := v.Bool()
		if b {
			return "BOOL.true"
		}
		return "BOOL.false"
	case ari.TypeByte:
		n, _ := v.Uint()
		return "BYTE." + strconv.FormatUint(n, 10)
	case ari.TypeInt32:
		n, _ := v.Int()
		return "INT." + strconv.FormatInt(n, 10)
	case ari.TypeUInt32:
		n, _ := v.Uint()
		return "UINT." + strconv.FormatUint(n, 10)
	case ari.TypeVAST:
		n, _ := v.Int()
		return "VAST." + strconv.FormatInt(n, 10)
	case ari.TypeUVAST:
		n, _ := v.Uint()
		return "UVAST." + strconv.FormatUint(n, 10)
	case ari.TypeReal32:
		f, _ := v.Float()
		return "REAL32." + canonFloat(f, 32)
	case ari.TypeReal64:
		f, _ := v.Float()
		return "REAL64." + canonFloat(f, 64)
	case ari.TypeTextStr:
		s, _ := v.Text()
		return "TSTR." + escapeString(s)
	case ari.TypeByteStr:
		b, _ := v.Bytes()
		return "BSTR." + encodeBytes(b)
	case ari.TypeTP:
		t, _ := v.Time()
		return "TP." + formatTime(t)
	case ari.TypeTD:
		t, _ := v.Time()
		return "TD." + formatTime(t)
	case ari.TypeLabel:
		l, _ := v.LabelOf()
		return "LABEL." + formatLabel(l)
	case ari.TypeCBOR:
		b, _ := v.Bytes()
		return "CBOR." + encodeBytes(b)
	case ari.TypeAC:
		items, _ := v.Items()
		return "AC(" + joinElements(items) + ")"
	case ari.TypeAM:
		pairs, _ := v.Pairs()
		return "AM(" + joinPairs(pairs) + ")"
	case ari.TypeTBL:
		return emitTBL(v)
	case ari.TypeExecSet:
		return emitExecOrRpt("EXECSET", v)
	case ari.TypeRptSet:
		return emitExecOrRpt("RPTSET", v)
	default:
		return "undefined"
	}
}

func emitReference(ref *ari.Reference) string {
	var b strings.Builder
	b.WriteString(emitNameRef(ref.Namespace))
	b.WriteByte('/')
	b.WriteString(ref.ObjType.String())
	b.WriteByte('.')
	b.WriteString(emitNameRef(ref.Name))
	if ref.HasParams {
		b.WriteByte('(')
		b.WriteString(joinElements(ref.Params))
		b.WriteByte(')')
	}
	return b.String()
}

func emitNameRef(n ari.NameRef) string {
	switch {
	case n.HasText:
		return percentEncode(n.Text)
	case n.HasEnum:
		return "!" + strconv.FormatInt(n.Enum, 10)
	default:
		return "!0"
	}
}

func joinElements(items []ari.Value) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = EmitElement(it)
	}
	return strings.Join(parts, ",")
}

func joinPairs(pairs []ari.Pair) string {
	parts := make([]string, len(pairs))
	for i, pr := range pairs {
		parts[i] = EmitElement(pr.Key) + "=" + EmitElement(pr.Value)
	}
	return strings.Join(parts, ",")
}

func emitTBL(v ari.Value) string {
	cols, _ := v.Columns()
	items, _ := v.Items()
	var b strings.Builder
	fmt.Fprintf(&b, "TBL(c=%d", cols)
	if cols > 0 {
		for row := 0; row < len(items); row += cols {
			b.WriteByte(';')
			b.WriteString(joinElements(items[row : row+cols]))
		}
	}
	b.WriteByte(')')
	return b.String()
}

func emitExecOrRpt(keyword string, v ari.Value) string {
	ident, _ := v.Identifier()
	items, _ := v.Items()
	return keyword + "(" + EmitElement(ident) + ";" + joinElements(items) + ")"
}

func formatTime(t ari.TimeValue) string {
	sign := ""
	if t.Negative {
		sign = "-"
	}
	if t.IsWhole() {
		return sign + strconv.FormatUint(t.Seconds, 10)
	}
	frac := strings.TrimRight(fmt.Sprintf("%09d", t.Nanos), "0")
	if frac == "" {
		frac = "0"
	}
	return sign + strconv.FormatUint(t.Seconds, 10) + "." + frac
}

func formatLabel(l ari.Label) string {
	if l.IsInt {
		return strconv.FormatInt(l.Int, 10)
	}
	return percentEncode(l.Text)
}
