package text

import (
	"testing"

	"github.com/NASA-AMMOS/anms-ace/ari"
)

func TestParseUndefined(t *testing.T) {
	v, err := ParseText("ari:/undefined")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsUndefined() {
		t.Fatalf("expected Undefined, got %v", v)
	}
}

func TestParseEmptyAC(t *testing.T) {
	v, err := ParseText("ari:/AC()")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, ok := v.Items()
	if !ok {
		t.Fatalf("expected an AC value")
	}
	if len(items) != 0 {
		t.Fatalf("expected an empty AC, got %d items", len(items))
	}
}

func TestParseScalarLiterals(t *testing.T) {
	tests := []struct {
		input string
		check func(ari.Value) bool
	}{
		{"ari:/UINT.5", func(v ari.Value) bool { n, ok := v.Uint(); return ok && n == 5 && v.Type() == ari.TypeUInt32 }},
		{"ari:/INT.-7", func(v ari.Value) bool { n, ok := v.Int(); return ok && n == -7 && v.Type() == ari.TypeInt32 }},
		{"ari:/BOOL.true", func(v ari.Value) bool { b, ok := v.Bool(); return ok && b }},
		{`ari:/TSTR."hello world"`, func(v ari.Value) bool { s, ok := v.Text(); return ok && s == "hello world" }},
		{"ari:/BSTR.h'deadbeef'", func(v ari.Value) bool {
			b, ok := v.Bytes()
			return ok && len(b) == 4 && b[0] == 0xde && b[3] == 0xef
		}},
		{"ari:/TP.1685728970", func(v ari.Value) bool {
			tv, ok := v.Time()
			return ok && tv.Seconds == 1685728970 && tv.IsWhole()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := ParseText(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.check(v) {
				t.Fatalf("value did not satisfy check: %#v", v)
			}
		})
	}
}

func TestParseObjectReference(t *testing.T) {
	input := "ari:/IANA:ion_admin/CTRL.node_contact_add(UVAST.1685728970,UVAST.1685729269,UINT.2,UINT.2,UVAST.25000,UVAST.1)"
	v, err := ParseText(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ref, ok := v.AsReference()
	if !ok {
		t.Fatalf("expected a reference")
	}
	if ref.ObjType != ari.ObjCtrl {
		t.Fatalf("expected CTRL object type, got %v", ref.ObjType)
	}
	if ref.Namespace.Text != "IANA:ion_admin" {
		t.Fatalf("unexpected namespace: %+v", ref.Namespace)
	}
	if ref.Name.Text != "node_contact_add" {
		t.Fatalf("unexpected object name: %+v", ref.Name)
	}
	if !ref.HasParams || len(ref.Params) != 6 {
		t.Fatalf("expected 6 parameters, got %d (hasParams=%v)", len(ref.Params), ref.HasParams)
	}
}

func TestParseTBLBareIntegers(t *testing.T) {
	v, err := ParseText("ari:/TBL(c=2;1,2;3,4)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cols, ok := v.Columns()
	if !ok || cols != 2 {
		t.Fatalf("expected 2 columns, got %d (ok=%v)", cols, ok)
	}
	rows, ok := v.Rows()
	if !ok || rows != 2 {
		t.Fatalf("expected 2 rows, got %d (ok=%v)", rows, ok)
	}
	items, _ := v.Items()
	want := []uint64{1, 2, 3, 4}
	for i, w := range want {
		got, ok := items[i].Uint()
		if !ok || got != w {
			t.Fatalf("item %d: want %d, got %d (ok=%v)", i, w, got, ok)
		}
	}
}

func TestParseUnknownLiteralTypeRejected(t *testing.T) {
	_, err := ParseText("ari:/BOGUS.5")
	if err == nil {
		t.Fatalf("expected an error for an unknown literal type")
	}
}

func TestParseDoesNotRejectUnknownObjectName(t *testing.T) {
	// spec.md §4.D: the parser must not reject unknown object names or
	// namespaces — only the transcoder's resolution step does.
	v, err := ParseText("ari:/some_unknown_namespace/CTRL.some_unknown_ctrl()")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ref, ok := v.AsReference()
	if !ok {
		t.Fatalf("expected a reference")
	}
	if ref.IsResolved() {
		t.Fatalf("a purely symbolic reference should not be resolved")
	}
}

func TestParseIntegerOutOfRangeRejected(t *testing.T) {
	_, err := ParseText("ari:/INT.2147483648")
	if err == nil {
		t.Fatalf("expected a range error for INT overflow")
	}
}
