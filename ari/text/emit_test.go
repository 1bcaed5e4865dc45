package text

import (
	"testing"

	"github.com/NASA-AMMOS/anms-ace/ari"
)

func roundTrip(t *testing.T, v ari.Value) ari.Value {
	t.Helper()
	s := Emit(v)
	got, err := ParseText(s)
	if err != nil {
		t.Fatalf("re-parsing %q: %v", s, err)
	}
	return got
}

func TestRoundTripScalars(t *testing.T) {
	u, _ := ari.UInt32Value(5)
	i, _ := ari.Int32Value(-7)
	values := []ari.Value{
		ari.Undefined(),
		ari.NullValue(),
		ari.BoolValue(true),
		ari.BoolValue(false),
		u,
		i,
		ari.VASTValue(-9223372036854775808),
		ari.UVASTValue(18446744073709551615),
		ari.Real64Value(3.14159),
		ari.TextStrValue(`has "quotes" and \backslash`),
		ari.ByteStrValue([]byte{0xde, 0xad, 0xbe, 0xef}),
		ari.TPValue(ari.TimeValue{Seconds: 1685728970}),
		ari.TDValue(ari.TimeValue{Negative: true, Seconds: 5, Nanos: 500000000}),
		ari.LabelValue(ari.Label{IsInt: true, Int: 42}),
		ari.LabelValue(ari.Label{Text: "my_label"}),
	}
	for _, v := range values {
		got := roundTrip(t, v)
		if !ari.Equal(v, got) {
			t.Fatalf("round trip mismatch: emitted %q, got %#v, want %#v", Emit(v), got, v)
		}
	}
}

func TestRoundTripEmptyAC(t *testing.T) {
	v := ari.ACValue(nil)
	if Emit(v) != "ari:/AC()" {
		t.Fatalf("unexpected emission: %q", Emit(v))
	}
	got := roundTrip(t, v)
	if !ari.Equal(v, got) {
		t.Fatalf("round trip mismatch for empty AC")
	}
}

func TestRoundTripAC(t *testing.T) {
	one, _ := ari.UInt32Value(1)
	two, _ := ari.UInt32Value(2)
	v := ari.ACValue([]ari.Value{one, two, ari.TextStrValue("three")})
	got := roundTrip(t, v)
	if !ari.Equal(v, got) {
		t.Fatalf("round trip mismatch for AC: emitted %q", Emit(v))
	}
}

func TestRoundTripAM(t *testing.T) {
	k1 := ari.TextStrValue("a")
	v1, _ := ari.UInt32Value(1)
	k2 := ari.TextStrValue("b")
	v2, _ := ari.UInt32Value(2)
	v := ari.AMValue([]ari.Pair{{Key: k1, Value: v1}, {Key: k2, Value: v2}})
	got := roundTrip(t, v)
	if !ari.Equal(v, got) {
		t.Fatalf("round trip mismatch for AM: emitted %q", Emit(v))
	}
}

func TestRoundTripTBL(t *testing.T) {
	one, _ := ari.UInt32Value(1)
	two, _ := ari.UInt32Value(2)
	three, _ := ari.UInt32Value(3)
	four, _ := ari.UInt32Value(4)
	v, err := ari.TBLValue(2, []ari.Value{one, two, three, four})
	if err != nil {
		t.Fatalf("building TBL: %v", err)
	}
	if Emit(v) != "ari:/TBL(c=2;UINT.1,UINT.2;UINT.3,UINT.4)" {
		t.Fatalf("unexpected emission: %q", Emit(v))
	}
	got := roundTrip(t, v)
	if !ari.Equal(v, got) {
		t.Fatalf("round trip mismatch for TBL")
	}
}

func TestRoundTripExecSet(t *testing.T) {
	ident := ari.LabelValue(ari.Label{IsInt: true, Int: 1})
	one, _ := ari.UInt32Value(1)
	ref := ari.ReferenceValue(ari.Reference{
		Namespace: ari.SymbolicName("ion_admin"),
		ObjType:   ari.ObjCtrl,
		Name:      ari.SymbolicName("reset"),
		Params:    []ari.Value{one},
		HasParams: true,
	})
	v := ari.ExecSetValue(ident, []ari.Value{ref})
	got := roundTrip(t, v)
	if !ari.Equal(v, got) {
		t.Fatalf("round trip mismatch for EXECSET: emitted %q", Emit(v))
	}
}

func TestRoundTripReferenceNoParams(t *testing.T) {
	v := ari.ReferenceValue(ari.Reference{
		Namespace: ari.SymbolicName("ion_admin"),
		ObjType:   ari.ObjEDD,
		Name:      ari.SymbolicName("num_neighbors"),
	})
	if Emit(v) != "ari:/ion_admin/EDD.num_neighbors" {
		t.Fatalf("unexpected emission: %q", Emit(v))
	}
	got := roundTrip(t, v)
	if !ari.Equal(v, got) {
		t.Fatalf("round trip mismatch")
	}
}

func TestRoundTripEnumQualifiedNames(t *testing.T) {
	v := ari.ReferenceValue(ari.Reference{
		Namespace: ari.NumericName(1),
		ObjType:   ari.ObjCtrl,
		Name:      ari.NumericName(5),
	})
	if Emit(v) != "ari:/!1/CTRL.!5" {
		t.Fatalf("unexpected emission: %q", Emit(v))
	}
	got := roundTrip(t, v)
	if !ari.Equal(v, got) {
		t.Fatalf("round trip mismatch for enum-qualified reference")
	}
}
