package adm

import (
	"strings"
	"testing"

	"github.com/NASA-AMMOS/anms-ace/ari"
)

const sampleADM = `{
	"mdat": [
		{"name": "name", "value": "ion_admin"},
		{"name": "enum", "value": "1"}
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
	],
	"edd": [
		{"name": "num_neighbors", "description": "neighbor count", "type": "UINT"}
	]
}`

func loadSample(t *testing.T) *Document {
	t.Helper()
	doc, err := LoadDocument(strings.NewReader(sampleADM))
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	return doc
}

func TestLoadDocumentFields(t *testing.T) {
	doc := loadSample(t)
	if doc.Name != "ion_admin" || doc.Enum != 1 {
		t.Fatalf("unexpected document header: %+v", doc)
	}
	if len(doc.Objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(doc.Objects))
	}
}

func buildSampleCatalog(t *testing.T) *Catalog {
	t.Helper()
	doc := loadSample(t)
	cat := NewCatalog()
	if err := cat.AddADM(doc); err != nil {
		t.Fatalf("AddADM: %v", err)
	}
	cat.Freeze()
	return cat
}

func TestResolveNamespaceBothDirections(t *testing.T) {
	cat := buildSampleCatalog(t)

	resolved, ns, err := cat.ResolveNamespace(ari.SymbolicName("ion_admin"))
	if err != nil {
		t.Fatalf("resolve by name: %v", err)
	}
	if !resolved.IsResolved() || resolved.Enum != 1 {
		t.Fatalf("unexpected resolved namespace: %+v", resolved)
	}

	resolved2, ns2, err := cat.ResolveNamespace(ari.NumericName(1))
	if err != nil {
		t.Fatalf("resolve by enum: %v", err)
	}
	if resolved2.Text != "ion_admin" || ns2 != ns {
		t.Fatalf("unexpected resolved namespace by enum: %+v", resolved2)
	}
}

func TestResolveObjectBothDirections(t *testing.T) {
	cat := buildSampleCatalog(t)
	_, ns, err := cat.ResolveNamespace(ari.SymbolicName("ion_admin"))
	if err != nil {
		t.Fatalf("resolve namespace: %v", err)
	}

	byName, err := cat.ResolveObject(ns, ari.ObjCtrl, ari.SymbolicName("reset"))
	if err != nil {
		t.Fatalf("resolve object by name: %v", err)
	}
	if byName.Name.Enum != 5 {
		t.Fatalf("unexpected enum: %d", byName.Name.Enum)
	}

	byEnum, err := cat.ResolveObject(ns, ari.ObjCtrl, ari.NumericName(5))
	if err != nil {
		t.Fatalf("resolve object by enum: %v", err)
	}
	if byEnum.Name.Text != "reset" {
		t.Fatalf("unexpected name: %s", byEnum.Name.Text)
	}
}

func TestResolveUnknownNamespaceErrors(t *testing.T) {
	cat := buildSampleCatalog(t)
	if _, _, err := cat.ResolveNamespace(ari.SymbolicName("nonexistent")); err == nil {
		t.Fatalf("expected a resolution error")
	} else if _, ok := err.(*ari.ResolutionError); !ok {
		t.Fatalf("expected *ari.ResolutionError, got %T", err)
	}
}

func TestSignatureOfAndCheckArity(t *testing.T) {
	cat := buildSampleCatalog(t)
	ref := ari.Reference{
		Namespace: ari.SymbolicName("ion_admin"),
		ObjType:   ari.ObjCtrl,
		Name:      ari.SymbolicName("reset"),
	}
	sig, err := cat.SignatureOf(ref)
	if err != nil {
		t.Fatalf("SignatureOf: %v", err)
	}
	if len(sig) != 1 || sig[0].Name != "node_id" || sig[0].Type != ari.TypeUVAST {
		t.Fatalf("unexpected signature: %+v", sig)
	}

	nodeID := ari.UVASTValue(42)
	if err := CheckArity(sig, []ari.Value{nodeID}); err != nil {
		t.Fatalf("expected arity to check out: %v", err)
	}
	if err := CheckArity(sig, nil); err == nil {
		t.Fatalf("expected a signature error for missing required parameter")
	}
}

func TestAddADMAfterFreezeRejected(t *testing.T) {
	cat := buildSampleCatalog(t)
	doc := loadSample(t)
	if err := cat.AddADM(doc); err == nil {
		t.Fatalf("expected AddADM to fail after Freeze")
	}
}

func TestAddADMNameCollisionRejected(t *testing.T) {
	cat := NewCatalog()
	if err := cat.AddADM(loadSample(t)); err != nil {
		t.Fatalf("AddADM: %v", err)
	}
	err := cat.AddADM(loadSample(t))
	if err == nil {
		t.Fatalf("expected a collision error re-adding the same namespace name")
	}
	if _, ok := err.(*ari.ResolutionError); !ok {
		t.Fatalf("expected *ari.ResolutionError, got %T", err)
	}
}

func TestAddADMEnumCollisionRejected(t *testing.T) {
	cat := NewCatalog()
	if err := cat.AddADM(loadSample(t)); err != nil {
		t.Fatalf("AddADM: %v", err)
	}
	doc := loadSample(t)
	doc.Name = "other_admin"
	err := cat.AddADM(doc)
	if err == nil {
		t.Fatalf("expected a collision error re-adding the same namespace enumerator")
	}
	if _, ok := err.(*ari.ResolutionError); !ok {
		t.Fatalf("expected *ari.ResolutionError, got %T", err)
	}
}

func TestAddADMObjectCollisionRejected(t *testing.T) {
	doc := loadSample(t)
	dup := *doc.Objects[0]
	doc.Objects = append(doc.Objects, &dup)

	cat := NewCatalog()
	err := cat.AddADM(doc)
	if err == nil {
		t.Fatalf("expected a collision error for two objects sharing a name/enum")
	}
	if _, ok := err.(*ari.ResolutionError); !ok {
		t.Fatalf("expected *ari.ResolutionError, got %T", err)
	}
}

func TestAddADMRejectionLeavesCatalogUnchanged(t *testing.T) {
	cat := NewCatalog()
	if err := cat.AddADM(loadSample(t)); err != nil {
		t.Fatalf("AddADM: %v", err)
	}
	_ = cat.AddADM(loadSample(t))

	if _, _, err := cat.ResolveNamespace(ari.SymbolicName("ion_admin")); err != nil {
		t.Fatalf("expected the first namespace to still resolve: %v", err)
	}
}
