package adm

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/NASA-AMMOS/anms-ace/ari"
)

// Document is one decoded ADM JSON file, flattened into the descriptors
// Catalog.AddADM consumes. Grounded on original_source/src/ace/adm_json.py's
// Decoder: per-object-type JSON array sections ("ctrl", "edd", "const", ...)
// each holding a list of {name, enum, description, ...} objects.
type Document struct {
	Name string
	Enum int64

	// Uses names other namespaces this document depends on; LoadAll uses
	// it to sequence loading (spec.md §3.4).
	Uses []string

	Objects []*ObjectDescriptor
}

// sectionKeys maps the JSON document's per-section key to the ari.ObjectType
// it declares (mirrors adm_json.py's SECNAMES table, case-folded since the
// original decoder reads keys case-insensitively).
var sectionKeys = map[string]ari.ObjectType{
	"const": ari.ObjConst,
	"ctrl":  ari.ObjCtrl,
	"edd":   ari.ObjEDD,
	"mac":   ari.ObjMac,
	"oper":  ari.ObjOper,
	"rptt":  ari.ObjRptT,
	"tblt":  ari.ObjTblT,
	"var":   ari.ObjVar,
}

type jsonParam struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

type jsonObject struct {
	Name        string      `json:"name"`
	Enum        *int64      `json:"enum"`
	Description string      `json:"description"`
	ParmSpec    []jsonParam `json:"parmspec"`
	Type        string      `json:"type"`
}

type jsonMdat struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// LoadDocument decodes one ADM JSON document from r (spec.md §6.2). Object
// enumerators default to their zero-based position within their section
// when the document omits an explicit "enum" key, matching adm_json.py's
// Decoder._get_section behavior.
func LoadDocument(r io.Reader) (*Document, error) {
	raw := make(map[string]json.RawMessage)
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, &ari.DecodeError{Message: "malformed ADM JSON document", Cause: err}
	}

	doc := &Document{}

	if mdatRaw, ok := raw["mdat"]; ok {
		var mdats []jsonMdat
		if err := json.Unmarshal(mdatRaw, &mdats); err != nil {
			return nil, &ari.DecodeError{Message: "malformed mdat section", Cause: err}
		}
		for _, m := range mdats {
			switch strings.ToLower(m.Name) {
			case "name":
				doc.Name = m.Value
			case "enum":
				var n int64
				if _, err := fmt.Sscanf(m.Value, "%d", &n); err != nil {
					return nil, &ari.DecodeError{Message: "mdat enum value is not an integer", Cause: err}
				}
				doc.Enum = n
			}
		}
	}
	if doc.Name == "" {
		return nil, &ari.ResolutionError{Message: "ADM document is missing its mdat \"name\" entry"}
	}

	if usesRaw, ok := raw["uses"]; ok {
		if err := json.Unmarshal(usesRaw, &doc.Uses); err != nil {
			return nil, &ari.DecodeError{Message: "malformed uses section", Cause: err}
		}
	}

	for key, objType := range sectionKeys {
		sectionRaw, ok := lookupCaseFold(raw, key)
		if !ok {
			continue
		}
		var objs []jsonObject
		if err := json.Unmarshal(sectionRaw, &objs); err != nil {
			return nil, &ari.DecodeError{Message: fmt.Sprintf("malformed %s section", key), Cause: err}
		}
		for i, o := range objs {
			enum := int64(i)
			if o.Enum != nil {
				enum = *o.Enum
			}
			desc := &ObjectDescriptor{
				Name:        ari.ResolvedName(o.Name, enum),
				ObjType:     objType,
				Description: o.Description,
				Signature:   parmSpecToSignature(o.ParmSpec),
			}
			if o.Type != "" {
				lt, ok := ari.LiteralTypeForName(o.Type)
				if !ok {
					return nil, &ari.ResolutionError{Message: fmt.Sprintf(
						"%s object %q declares an unknown result type %q", key, o.Name, o.Type)}
				}
				desc.ResultType = lt
				desc.HasResult = true
			}
			doc.Objects = append(doc.Objects, desc)
		}
	}

	return doc, nil
}

func lookupCaseFold(m map[string]json.RawMessage, key string) (json.RawMessage, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func parmSpecToSignature(params []jsonParam) ari.Signature {
	if len(params) == 0 {
		return nil
	}
	sig := make(ari.Signature, len(params))
	for i, p := range params {
		lt, ok := ari.LiteralTypeForName(p.Type)
		if !ok {
			lt = ari.TypeTextStr
		}
		sig[i] = ari.Param{Name: p.Name, Type: lt}
	}
	return sig
}
