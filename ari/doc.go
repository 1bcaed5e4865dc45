// Package ari is the in-memory AMM value / ARI abstract syntax tree.
//
// # Data model
//
// Every ARI is either a literal Value (scalars: BOOL, BYTE/INT/UINT/
// VAST/UVAST, REAL32/REAL64, TSTR/BSTR, TP/TD, LABEL, CBOR; containers:
// AC/AM/TBL; composites: EXECSET/RPTSET) or a Reference to an ADM-defined
// object (namespace, object-type, object-name, parameter list).
//
// # Immutability
//
// Values are immutable once constructed; there is no in-place mutation
// API. A transformation — resolving a reference, say — produces a new
// Value rather than editing one in place (spec.md §3.5).
//
// # Equality
//
// Equal is structural and type-aware: values of different LiteralType
// are never equal even when numerically equal (UINT.1 ≠ INT.1 ≠ VAST.1).
package ari
