// Package transcoder implements the ACE facade that drives the full
// pipeline over an ARI: select a codec, decode to the AST, resolve
// references against an ADM catalog, and emit through a (possibly
// different) codec (spec.md §4.F).
package transcoder

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/NASA-AMMOS/anms-ace/adm"
	"github.com/NASA-AMMOS/anms-ace/ari"
	aricbor "github.com/NASA-AMMOS/anms-ace/ari/cbor"
	aritext "github.com/NASA-AMMOS/anms-ace/ari/text"
)

// Form names one of the three wire representations spec.md §6.1 accepts
// on the CLI surface.
type Form int

const (
	FormText Form = iota
	FormCBORHex
	FormCBOR
)

// ParseForm maps a CLI --inform/--outform argument to a Form.
func ParseForm(s string) (Form, error) {
	switch strings.ToLower(s) {
	case "text":
		return FormText, nil
	case "cborhex":
		return FormCBORHex, nil
	case "cbor":
		return FormCBOR, nil
	default:
		return 0, fmt.Errorf("transcoder: unknown form %q (want text, cborhex, or cbor)", s)
	}
}

// ResolveOptions controls how strictly Resolve treats references the
// catalog cannot fully resolve (spec.md §6.1's --must-nickname and
// --must-lookup flags).
type ResolveOptions struct {
	// MustLookup makes a failed catalog lookup (unknown namespace or
	// object) a hard error. When false, an unresolvable reference is left
	// as-is — still useful for same-form round-tripping.
	MustLookup bool

	// MustNickname requires that every reference the catalog resolves
	// carry a symbolic name afterwards, rejecting output that would fall
	// back to a bare numeric enumerator. A reference left unresolved
	// (MustLookup false) is passed through without this check.
	MustNickname bool
}

// Transcoder drives decode → resolve → emit over one immutable catalog
// (spec.md §4.F). A Transcoder is safe for concurrent use once its
// Catalog has been Frozen, mirroring the core's "single-threaded,
// purely functional hot path" design (spec.md §5).
type Transcoder struct {
	Catalog *adm.Catalog
}

// New returns a Transcoder driven by cat, which must already be frozen.
func New(cat *adm.Catalog) *Transcoder {
	return &Transcoder{Catalog: cat}
}

// Decode parses raw input bytes in the given form into an AST, without
// performing any resolution (spec.md §4.F step 1-2: "select input codec,
// decode to AST").
func Decode(form Form, data []byte) (ari.Value, error) {
	switch form {
	case FormText:
		return aritext.ParseText(strings.TrimSpace(string(data)))
	case FormCBORHex:
		raw, err := decodeHexLine(strings.TrimSpace(string(data)))
		if err != nil {
			return ari.Value{}, &ari.DecodeError{Message: "malformed cborhex input", Cause: err}
		}
		return aricbor.Decode(raw)
	case FormCBOR:
		return aricbor.Decode(data)
	default:
		return ari.Value{}, fmt.Errorf("transcoder: unknown input form %d", form)
	}
}

func decodeHexLine(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	return hex.DecodeString(s)
}

// Emit renders v through the given output form, after resolution has
// already been applied by the caller (spec.md §4.F step 4: "emit via the
// selected output codec").
func Emit(form Form, v ari.Value) ([]byte, error) {
	switch form {
	case FormText:
		return []byte(aritext.Emit(v)), nil
	case FormCBORHex:
		raw, err := aricbor.Encode(v)
		if err != nil {
			return nil, err
		}
		return []byte("0x" + hex.EncodeToString(raw)), nil
	case FormCBOR:
		return aricbor.Encode(v)
	default:
		return nil, fmt.Errorf("transcoder: unknown output form %d", form)
	}
}

// Resolve walks v, resolving every reference's namespace and object name
// against t.Catalog and checking parameter signatures (spec.md §4.F step
// 3). Resolution is advisory when opts.MustLookup is false: an
// unresolvable reference is left as encountered rather than failing the
// whole transcode, matching spec.md §4.F's "advisory when emitting the
// same form consumed" rule — it is the CLI layer (cmd/ace_ari), not this
// package, that decides whether same-form transcodes skip the call
// entirely.
func (t *Transcoder) Resolve(v ari.Value, opts ResolveOptions) (ari.Value, error) {
	if ref, ok := v.AsReference(); ok {
		return t.resolveReference(*ref, opts)
	}

	switch v.Type() {
	case ari.TypeAC:
		items, _ := v.Items()
		resolved, err := t.resolveAll(items, opts)
		if err != nil {
			return ari.Value{}, err
		}
		return ari.ACValue(resolved), nil

	case ari.TypeAM:
		pairs, _ := v.Pairs()
		newPairs := make([]ari.Pair, len(pairs))
		for i, p := range pairs {
			k, err := t.Resolve(p.Key, opts)
			if err != nil {
				return ari.Value{}, err
			}
			val, err := t.Resolve(p.Value, opts)
			if err != nil {
				return ari.Value{}, err
			}
			newPairs[i] = ari.Pair{Key: k, Value: val}
		}
		return ari.AMValue(newPairs), nil

	case ari.TypeTBL:
		cols, _ := v.Columns()
		items, _ := v.Items()
		resolved, err := t.resolveAll(items, opts)
		if err != nil {
			return ari.Value{}, err
		}
		return ari.TBLValue(cols, resolved)

	case ari.TypeExecSet:
		return t.resolveIdentSet(v, opts, true)
	case ari.TypeRptSet:
		return t.resolveIdentSet(v, opts, false)

	default:
		return v, nil
	}
}

func (t *Transcoder) resolveAll(items []ari.Value, opts ResolveOptions) ([]ari.Value, error) {
	out := make([]ari.Value, len(items))
	for i, it := range items {
		resolved, err := t.Resolve(it, opts)
		if err != nil {
			return nil, err
		}
		out[i] = resolved
	}
	return out, nil
}

func (t *Transcoder) resolveIdentSet(v ari.Value, opts ResolveOptions, isExec bool) (ari.Value, error) {
	ident, _ := v.Identifier()
	items, _ := v.Items()

	resolvedIdent, err := t.Resolve(ident, opts)
	if err != nil {
		return ari.Value{}, err
	}
	resolvedItems, err := t.resolveAll(items, opts)
	if err != nil {
		return ari.Value{}, err
	}
	if isExec {
		return ari.ExecSetValue(resolvedIdent, resolvedItems), nil
	}
	return ari.RptSetValue(resolvedIdent, resolvedItems), nil
}

func (t *Transcoder) resolveReference(ref ari.Reference, opts ResolveOptions) (ari.Value, error) {
	resolvedNS, ns, err := t.Catalog.ResolveNamespace(ref.Namespace)
	if err != nil {
		if opts.MustLookup {
			return ari.Value{}, err
		}
		return ari.ReferenceValue(ref), nil
	}

	desc, err := t.Catalog.ResolveObject(ns, ref.ObjType, ref.Name)
	if err != nil {
		if opts.MustLookup {
			return ari.Value{}, err
		}
		ref.Namespace = resolvedNS
		return ari.ReferenceValue(ref), nil
	}

	newRef := ref
	newRef.Namespace = resolvedNS
	newRef.Name = desc.Name

	if ref.HasParams {
		if err := adm.CheckArity(desc.Signature, ref.Params); err != nil {
			return ari.Value{}, err
		}
		resolvedParams, err := t.resolveAll(ref.Params, opts)
		if err != nil {
			return ari.Value{}, err
		}
		newRef.Params = resolvedParams
	}

	if opts.MustNickname && (!newRef.Namespace.HasText || !newRef.Name.HasText) {
		return ari.Value{}, &ari.ResolutionError{Message: fmt.Sprintf(
			"reference %s/%s.%s has no symbolic name but --must-nickname was given",
			newRef.Namespace, newRef.ObjType, newRef.Name)}
	}

	return ari.ReferenceValue(newRef), nil
}
