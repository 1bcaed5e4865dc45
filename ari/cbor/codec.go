// Package cbor implements the binary ARI codec: CBOR encoding and
// decoding of the ari.Value/ari.Reference AST (spec.md §4.E).
package cbor

import (
	"github.com/fxamacker/cbor/v2"
)

// TagARI is the CBOR tag identifying an encoded ARI (spec.md §4.E: "the
// outermost item is tagged with a CBOR tag identifying 'ARI'"). The
// draft this is drawn from does not surface a concrete assignment
// through any retrieved source, so this is an internally consistent
// placeholder — see DESIGN.md's Open Question entry.
const TagARI = 44

// encMode is the CBOR encoder configured for Core Deterministic Encoding
// (RFC 8949 §4.2), matching spec.md §4.E's "Encoding determinism"
// requirement. Grounded on bureau-foundation-bureau's lib/codec/cbor.go.
var encMode cbor.EncMode

// decMode is the CBOR decoder. DefaultMapType is left at fxamacker's
// default (map[interface{}]interface{}) rather than bureau's
// map[string]any, because AM keys are arbitrary AMM values, not
// necessarily strings; ACE never asks the decoder to target a bare `any`
// for a full AM payload, since decodeItem walks the array-of-pairs
// encoding explicitly (see encode.go).
var decMode cbor.DecMode

func init() {
	var err error

	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("ari/cbor: encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("ari/cbor: decoder initialization failed: " + err.Error())
	}
}
