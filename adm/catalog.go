// Package adm holds the ADM catalog: the name/enumerator tables and
// per-object parameter signatures that the text and binary codecs need to
// resolve a reference and check its arguments (spec.md §3.4, §4.C).
package adm

import (
	"fmt"
	"sync"

	"github.com/NASA-AMMOS/anms-ace/ari"
)

// ObjectDescriptor is one ADM-declared object: its dual name, its
// signature, and (for MDAT/CONST/VAR) an optional literal type.
type ObjectDescriptor struct {
	Name        ari.NameRef
	ObjType     ari.ObjectType
	Description string
	Signature   ari.Signature
	ResultType  ari.LiteralType
	HasResult   bool
}

// ObjectTable indexes a namespace's objects of one ari.ObjectType, by both
// name and enumerator — the two ways a reference's Name field can arrive.
type ObjectTable struct {
	byName map[string]*ObjectDescriptor
	byEnum map[int64]*ObjectDescriptor
}

func newObjectTable() *ObjectTable {
	return &ObjectTable{
		byName: make(map[string]*ObjectDescriptor),
		byEnum: make(map[int64]*ObjectDescriptor),
	}
}

// add installs d, rejecting a name or enumerator already claimed by
// another object of the same type in this table (spec.md §4.C).
func (t *ObjectTable) add(d *ObjectDescriptor) error {
	if d.Name.HasText {
		if _, exists := t.byName[d.Name.Text]; exists {
			return &ari.ResolutionError{Message: fmt.Sprintf(
				"%s object %q collides with an already-loaded object of the same name", d.ObjType, d.Name.Text)}
		}
	}
	if d.Name.HasEnum {
		if _, exists := t.byEnum[d.Name.Enum]; exists {
			return &ari.ResolutionError{Message: fmt.Sprintf(
				"%s object enumerator %d collides with an already-loaded object", d.ObjType, d.Name.Enum)}
		}
	}
	if d.Name.HasText {
		t.byName[d.Name.Text] = d
	}
	if d.Name.HasEnum {
		t.byEnum[d.Name.Enum] = d
	}
	return nil
}

// Namespace is one ADM module: a name, a namespace enumerator, and one
// ObjectTable per ari.ObjectType it declares objects for (spec.md §3.4:
// "MDAT, EDD, CONST, CTRL, OPER, VAR, TBLT, RPTT, MAC").
type Namespace struct {
	Name    ari.NameRef
	Objects map[ari.ObjectType]*ObjectTable
}

func newNamespace(name ari.NameRef) *Namespace {
	return &Namespace{Name: name, Objects: make(map[ari.ObjectType]*ObjectTable)}
}

func (n *Namespace) table(objType ari.ObjectType) *ObjectTable {
	t, ok := n.Objects[objType]
	if !ok {
		t = newObjectTable()
		n.Objects[objType] = t
	}
	return t
}

// Catalog aggregates every loaded ADM's namespace into one name/enumerator
// resolution surface (spec.md §4.C). A Catalog is built up with AddADM,
// then frozen: after Freeze returns, a Catalog is safe to share across
// goroutines without further synchronization, the same "build once, read
// many" lifecycle Neumenon-glyph's Schema follows.
type Catalog struct {
	mu     sync.RWMutex
	byName map[string]*Namespace
	byEnum map[int64]*Namespace
	frozen bool
}

// NewCatalog returns an empty, unfrozen Catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		byName: make(map[string]*Namespace),
		byEnum: make(map[int64]*Namespace),
	}
}

// AddADM merges one parsed ADM document into the catalog. It is an error
// to call AddADM after Freeze, and an error if doc's namespace moniker or
// enumerator, or any of its objects' name/enumerator within their
// ari.ObjectType, collides with one already loaded (spec.md §4.C:
// "install a namespace; reject if the namespace moniker or enumerator
// collides"). A rejected AddADM leaves the catalog unchanged.
func (c *Catalog) AddADM(doc *Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen {
		return fmt.Errorf("adm: catalog is frozen, cannot add %q", doc.Name)
	}
	if _, exists := c.byName[doc.Name]; exists {
		return &ari.ResolutionError{Message: fmt.Sprintf(
			"namespace %q collides with an already-loaded namespace", doc.Name)}
	}
	if _, exists := c.byEnum[doc.Enum]; exists {
		return &ari.ResolutionError{Message: fmt.Sprintf(
			"namespace enumerator %d (%q) collides with an already-loaded namespace", doc.Enum, doc.Name)}
	}

	nameRef := ari.ResolvedName(doc.Name, doc.Enum)
	ns := newNamespace(nameRef)
	for _, obj := range doc.Objects {
		if err := ns.table(obj.ObjType).add(obj); err != nil {
			return err
		}
	}

	c.byName[doc.Name] = ns
	c.byEnum[doc.Enum] = ns
	return nil
}

// Freeze marks the catalog read-only. Subsequent AddADM calls fail.
func (c *Catalog) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// ResolveNamespace fills in whichever of the symbolic/numeric forms of n
// is missing by looking the other one up in the catalog. It returns an
// *ari.ResolutionError if n names neither form, or if the named namespace
// is not loaded.
func (c *Catalog) ResolveNamespace(n ari.NameRef) (ari.NameRef, *Namespace, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ns, ok := c.lookupNamespace(n)
	if !ok {
		return n, nil, &ari.ResolutionError{Message: fmt.Sprintf("unknown namespace %s", n)}
	}
	return ns.Name, ns, nil
}

func (c *Catalog) lookupNamespace(n ari.NameRef) (*Namespace, bool) {
	if n.HasText {
		if ns, ok := c.byName[n.Text]; ok {
			return ns, true
		}
	}
	if n.HasEnum {
		if ns, ok := c.byEnum[n.Enum]; ok {
			return ns, true
		}
	}
	return nil, false
}

// ResolveObject fills in whichever form of name is missing by looking it
// up within the given namespace's table for objType, returning the full
// ObjectDescriptor alongside the resolved NameRef.
func (c *Catalog) ResolveObject(ns *Namespace, objType ari.ObjectType, name ari.NameRef) (*ObjectDescriptor, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	table, ok := ns.Objects[objType]
	if !ok {
		return nil, &ari.ResolutionError{Message: fmt.Sprintf("namespace %s declares no %s objects", ns.Name, objType)}
	}
	if name.HasText {
		if d, ok := table.byName[name.Text]; ok {
			return d, nil
		}
	}
	if name.HasEnum {
		if d, ok := table.byEnum[name.Enum]; ok {
			return d, nil
		}
	}
	return nil, &ari.ResolutionError{Message: fmt.Sprintf("unknown %s object %s in namespace %s", objType, name, ns.Name)}
}

// SignatureOf resolves a full reference's namespace and object name
// against the catalog and returns the object's declared signature.
func (c *Catalog) SignatureOf(ref ari.Reference) (ari.Signature, error) {
	_, ns, err := c.ResolveNamespace(ref.Namespace)
	if err != nil {
		return nil, err
	}
	desc, err := c.ResolveObject(ns, ref.ObjType, ref.Name)
	if err != nil {
		return nil, err
	}
	return desc.Signature, nil
}

// CheckArity validates a reference's supplied parameter count and, where a
// parameter carries a declared literal type, its runtime type against the
// object's declared ari.Signature (spec.md §4.C "signature checking"). A
// count mismatch is an *ari.SignatureError; a type mismatch is an
// *ari.TypeError.
func CheckArity(sig ari.Signature, params []ari.Value) error {
	required := 0
	for _, p := range sig {
		if p.Default == nil {
			required++
		}
	}
	if len(params) < required || len(params) > len(sig) {
		return &ari.SignatureError{Message: fmt.Sprintf(
			"expected between %d and %d parameters, got %d", required, len(sig), len(params))}
	}
	for i, v := range params {
		want := sig[i].Type
		if v.Type() != want {
			return &ari.TypeError{Message: fmt.Sprintf(
				"parameter %q: expected %s, got %s", sig[i].Name, want, v.Type())}
		}
	}
	return nil
}
