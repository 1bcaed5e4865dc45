// Package text implements the URI-encoded ARI text grammar: parsing text
// into an ari.Value/ari.Reference AST, and unparsing an AST back to its
// canonical text form (spec.md §4.D).
//
// Grammar (design level):
//
//	ari:/<namespace>/<OBJTYPE>.<object-name>(<param-list>)
//	ari:/<LITERAL-TYPE>.<literal-text>
//	ari:/undefined
//
// Parsing never rejects an unknown namespace or object name — those are
// resolution failures the transcoder surfaces later — but does reject an
// unknown literal-type or object-type keyword, since both are closed sets
// enforced by the ari registry.
package text
