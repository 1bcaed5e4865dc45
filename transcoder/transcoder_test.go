package transcoder

import (
	"strings"
	"testing"

	"github.com/NASA-AMMOS/anms-ace/adm"
	"github.com/NASA-AMMOS/anms-ace/ari"
)

const sampleADM = `{
	"mdat": [
		{"name": "name", "value": "ion_admin"},
		{"name": "enum", "value": "1"}
	],
	"edd": [
		{"name": "num_neighbors", "description": "neighbor count", "type": "UINT"}
	],
	"ctrl": [
		{
			"name": "reset",
			"enum": 5,
			"description": "reset a node",
			"parmspec": [
				{"type": "UVAST", "name": "node_id"}
			]
		}
	]
}`

func buildCatalog(t *testing.T) *adm.Catalog {
	t.Helper()
	doc, err := adm.LoadDocument(strings.NewReader(sampleADM))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	cat := adm.NewCatalog()
	if err := cat.AddADM(doc); err != nil {
		t.Fatalf("AddADM: %v", err)
	}
	cat.Freeze()
	return cat
}

func TestResolveSymbolicToNumericAndBack(t *testing.T) {
	tc := New(buildCatalog(t))

	v, err := Decode(FormText, []byte("ari:/ion_admin/EDD.num_neighbors"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	resolved, err := tc.Resolve(v, ResolveOptions{MustLookup: true})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	ref, ok := resolved.AsReference()
	if !ok {
		t.Fatalf("expected a reference")
	}
	if !ref.Namespace.IsResolved() || ref.Namespace.Enum != 1 {
		t.Fatalf("unexpected resolved namespace: %+v", ref.Namespace)
	}
	if !ref.Name.IsResolved() || ref.Name.Enum != 0 {
		t.Fatalf("unexpected resolved name: %+v", ref.Name)
	}
}

func TestResolveFillsNumericFromEnum(t *testing.T) {
	tc := New(buildCatalog(t))

	v, err := Decode(FormText, []byte("ari:/!1/CTRL.!5(UVAST.42)"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	resolved, err := tc.Resolve(v, ResolveOptions{MustLookup: true})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	ref, _ := resolved.AsReference()
	if ref.Namespace.Text != "ion_admin" || ref.Name.Text != "reset" {
		t.Fatalf("unexpected resolved reference: %+v", ref)
	}
}

func TestResolveSignatureMismatchRejected(t *testing.T) {
	tc := New(buildCatalog(t))

	v, err := Decode(FormText, []byte("ari:/ion_admin/CTRL.reset(TSTR.\"not-a-number\")"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := tc.Resolve(v, ResolveOptions{MustLookup: true}); err == nil {
		t.Fatalf("expected a type error")
	} else if _, ok := err.(*ari.TypeError); !ok {
		t.Fatalf("expected *ari.TypeError, got %T", err)
	}
}

func TestResolveUnknownWithoutMustLookupPassesThrough(t *testing.T) {
	tc := New(buildCatalog(t))

	v, err := Decode(FormText, []byte("ari:/unknown_ns/CTRL.unknown_obj"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	resolved, err := tc.Resolve(v, ResolveOptions{})
	if err != nil {
		t.Fatalf("expected no error without MustLookup, got: %v", err)
	}
	ref, _ := resolved.AsReference()
	if ref.Namespace.Text != "unknown_ns" {
		t.Fatalf("expected the reference to pass through unresolved, got: %+v", ref)
	}
}

func TestResolveUnknownWithMustLookupErrors(t *testing.T) {
	tc := New(buildCatalog(t))

	v, err := Decode(FormText, []byte("ari:/unknown_ns/CTRL.unknown_obj"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := tc.Resolve(v, ResolveOptions{MustLookup: true}); err == nil {
		t.Fatalf("expected a resolution error")
	}
}

func TestTranscodeTextToCBORAndBack(t *testing.T) {
	tc := New(buildCatalog(t))

	v, err := Decode(FormText, []byte("ari:/ion_admin/CTRL.reset(UVAST.42)"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	resolved, err := tc.Resolve(v, ResolveOptions{MustLookup: true})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	raw, err := Emit(FormCBOR, resolved)
	if err != nil {
		t.Fatalf("emit cbor: %v", err)
	}
	decoded, err := Decode(FormCBOR, raw)
	if err != nil {
		t.Fatalf("decode cbor: %v", err)
	}
	// The CBOR form carries only enumerators; resolving restores the
	// symbolic names.
	back, err := tc.Resolve(decoded, ResolveOptions{MustLookup: true})
	if err != nil {
		t.Fatalf("resolve decoded cbor: %v", err)
	}
	if !ari.Equal(resolved, back) {
		t.Fatalf("round trip mismatch: %#v vs %#v", resolved, back)
	}
}

func TestCBORHexRoundTrip(t *testing.T) {
	v, err := Decode(FormText, []byte("ari:/UINT.7"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	hexOut, err := Emit(FormCBORHex, v)
	if err != nil {
		t.Fatalf("emit cborhex: %v", err)
	}
	if !strings.HasPrefix(string(hexOut), "0x") {
		t.Fatalf("expected cborhex output to start with 0x, got %q", hexOut)
	}
	back, err := Decode(FormCBORHex, hexOut)
	if err != nil {
		t.Fatalf("decode cborhex: %v", err)
	}
	if !ari.Equal(v, back) {
		t.Fatalf("round trip mismatch: %#v vs %#v", v, back)
	}
}
