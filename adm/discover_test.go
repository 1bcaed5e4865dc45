package adm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/NASA-AMMOS/anms-ace/ari"
)

const baseADM = `{
	"mdat": [
		{"name": "name", "value": "base_admin"},
		{"name": "enum", "value": "1"}
	],
	"edd": [
		{"name": "uptime", "description": "seconds since boot", "type": "UINT"}
	]
}`

const dependentADM = `{
	"mdat": [
		{"name": "name", "value": "dependent_admin"},
		{"name": "enum", "value": "2"}
	],
	"uses": ["base_admin"],
	"ctrl": [
		{"name": "reset", "description": "reset a node"}
	]
}`

func writeFile(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadAllOrdersByUses(t *testing.T) {
	dir := t.TempDir()
	// Written in dependency-inverted order so LoadAll must defer, not just
	// process files in directory order.
	writeFile(t, dir, "a_dependent.json", dependentADM)
	writeFile(t, dir, "b_base.json", baseADM)

	cat, err := LoadAll([]string{dir}, nil)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	cat.Freeze()

	if _, _, err := cat.ResolveNamespace(ari.SymbolicName("base_admin")); err != nil {
		t.Fatalf("expected base_admin to resolve: %v", err)
	}
	if _, _, err := cat.ResolveNamespace(ari.SymbolicName("dependent_admin")); err != nil {
		t.Fatalf("expected dependent_admin to resolve: %v", err)
	}
}

func TestLoadAllLoadsDespiteUnmetUses(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orphan.json", dependentADM)

	cat, err := LoadAll([]string{dir}, nil)
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	cat.Freeze()

	if _, _, err := cat.ResolveNamespace(ari.SymbolicName("dependent_admin")); err != nil {
		t.Fatalf("expected dependent_admin to load despite its unmet \"uses\" dependency: %v", err)
	}
}
