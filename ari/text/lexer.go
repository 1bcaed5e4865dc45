package text

import (
	"strings"

	"github.com/NASA-AMMOS/anms-ace/ari"
)

// scanner is a byte-offset, line/column-tracking cursor over the input
// text, grounded on Neumenon-glyph's Lexer (token.go) but operating
// directly on the input bytes rather than materializing a full token
// slice up front: the URI-ARI grammar is context-sensitive enough (the
// extent of a literal-type's text depends on the type itself) that a
// generic token stream would need the same per-type dispatch the parser
// already does.
type scanner struct {
	src    string
	pos    int // byte offset
	line   int // 1-based
	col    int // 1-based, resets on '\n'
}

func newScanner(src string) *scanner {
	return &scanner{src: src, pos: 0, line: 1, col: 1}
}

// errExpected builds a *ari.SyntaxError reporting what was expected at
// the scanner's current position.
func errExpected(s *scanner, what string) error {
	return &ari.SyntaxError{Pos: s.position(), Message: "expected " + what}
}

func (s *scanner) position() ari.Position {
	return ari.Position{Line: s.line, Column: s.col, Offset: s.pos}
}

func (s *scanner) eof() bool { return s.pos >= len(s.src) }

func (s *scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.src[s.pos]
}

func (s *scanner) peekAt(n int) byte {
	if s.pos+n >= len(s.src) {
		return 0
	}
	return s.src[s.pos+n]
}

func (s *scanner) advance() byte {
	c := s.src[s.pos]
	s.pos++
	if c == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return c
}

func (s *scanner) skipSpace() {
	for !s.eof() && isSpace(s.peek()) {
		s.advance()
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// isDelim reports whether c terminates a bare word or a literal-text run.
func isDelim(c byte) bool {
	switch c {
	case '/', '.', '(', ')', ',', ';', '=', 0:
		return true
	default:
		return false
	}
}

// readBareWord consumes characters up to (but not including) the next
// delimiter or percent-encoded triplet boundary is left intact for the
// caller to decode. Used for namespace segments, object/type names, and
// scalar literal text.
func (s *scanner) readBareWord() string {
	start := s.pos
	for !s.eof() && !isDelim(s.peek()) && !isSpace(s.peek()) {
		s.advance()
	}
	return s.src[start:s.pos]
}

// readUntilAny consumes up to the next occurrence of any byte in stop
// (not included) or EOF.
func (s *scanner) readUntilAny(stop string) string {
	start := s.pos
	for !s.eof() && !strings.ContainsRune(stop, rune(s.peek())) {
		s.advance()
	}
	return s.src[start:s.pos]
}

func (s *scanner) expect(c byte) bool {
	if s.peek() == c {
		s.advance()
		return true
	}
	return false
}

// readHead consumes a namespace segment, object/literal-type keyword, or
// object name: everything up to the next structural character that
// begins the following grammar production ('/', '.', '(') or that would
// signal a malformed input ending the current production early.
func (s *scanner) readHead() string {
	start := s.pos
	for !s.eof() {
		switch s.peek() {
		case '/', '.', '(', ')', ',', ';', '=':
			return s.src[start:s.pos]
		}
		if isSpace(s.peek()) {
			return s.src[start:s.pos]
		}
		s.advance()
	}
	return s.src[start:s.pos]
}

// readLiteralText consumes the body of a scalar literal (everything after
// the TYPE "." prefix for non-quoted forms): digits, decimal points,
// exponents, colons, and hyphens are all valid content for INT/REAL/TP/TD
// bodies, so only the list/param/row terminators and the AM key/value
// separator '=' stop the scan.
func (s *scanner) readLiteralText() string {
	start := s.pos
	for !s.eof() {
		switch s.peek() {
		case ',', ')', ';', '=':
			return s.src[start:s.pos]
		}
		if isSpace(s.peek()) {
			return s.src[start:s.pos]
		}
		s.advance()
	}
	return s.src[start:s.pos]
}

// readQuoted consumes a double-quoted string body (quotes included in the
// scan, excluded from the returned raw content) honoring backslash
// escapes without interpreting them.
func (s *scanner) readQuoted() (string, error) {
	if s.peek() != '"' {
		return "", errExpected(s, `'"'`)
	}
	s.advance()
	start := s.pos
	for !s.eof() {
		switch s.peek() {
		case '\\':
			s.advance()
			if !s.eof() {
				s.advance()
			}
		case '"':
			raw := s.src[start:s.pos]
			s.advance()
			return raw, nil
		default:
			s.advance()
		}
	}
	return "", errExpected(s, "closing '\"'")
}

// tryConsumeKeyword consumes kw (case-insensitive) if it appears at the
// current position and is immediately followed by a delimiter, space, or
// end of input — so "undefined2" is not mistaken for the keyword
// "undefined".
func (s *scanner) tryConsumeKeyword(kw string) bool {
	if s.pos+len(kw) > len(s.src) {
		return false
	}
	if !strings.EqualFold(s.src[s.pos:s.pos+len(kw)], kw) {
		return false
	}
	var after byte
	if s.pos+len(kw) < len(s.src) {
		after = s.src[s.pos+len(kw)]
	}
	if after != 0 && !isDelim(after) && !isSpace(after) {
		return false
	}
	for i := 0; i < len(kw); i++ {
		s.advance()
	}
	return true
}
