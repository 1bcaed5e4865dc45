package text

import (
	"strconv"
	"strings"
	"time"

	"github.com/NASA-AMMOS/anms-ace/ari"
)

// dtnEpoch is the reference instant for DTN-epoch timepoints: 2000-01-01
// 00:00:00 UTC (spec.md §3.1).
var dtnEpoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// Parser holds the scan position for a single text-form ARI parse.
// Grounded on Neumenon-glyph's Parser (parse.go): a recursive-descent
// layer over a hand-written scanner, reporting errors with a precise
// source position (spec.md §4.D "Parser").
type Parser struct {
	s *scanner
}

// NewParser returns a Parser positioned at the start of src.
func NewParser(src string) *Parser {
	return &Parser{s: newScanner(src)}
}

// ParseText parses a complete "ari:/..." text-form ARI into a Value
// (spec.md §4.D). Unlike ParseElement, it requires the ari: scheme.
func ParseText(src string) (ari.Value, error) {
	trimmed := strings.TrimSpace(src)
	p := NewParser(trimmed)
	if len(trimmed) < 4 || !strings.EqualFold(trimmed[:4], "ari:") {
		return ari.Value{}, &ari.SyntaxError{Pos: p.s.position(), Message: "missing \"ari:\" scheme"}
	}
	for i := 0; i < 4; i++ {
		p.s.advance()
	}
	if !p.s.expect('/') {
		return ari.Value{}, errExpected(p.s, "'/' after \"ari:\"")
	}
	v, err := p.ParseElement()
	if err != nil {
		return ari.Value{}, err
	}
	p.s.skipSpace()
	if !p.s.eof() {
		return ari.Value{}, &ari.SyntaxError{Pos: p.s.position(), Message: "unexpected trailing input"}
	}
	return v, nil
}

// ParseElement parses one recursive-grammar element: a literal, a
// container, an object reference, or "undefined" — with no leading
// "ari:" scheme, the form every nested parameter, AC/AM/TBL element, and
// EXECSET/RPTSET entry uses (spec.md §4.D: "each element is itself a
// textual ARI").
func (p *Parser) ParseElement() (ari.Value, error) {
	s := p.s
	s.skipSpace()
	if s.tryConsumeKeyword("undefined") {
		return ari.Undefined(), nil
	}
	head := s.readHead()
	if head == "" {
		return ari.Value{}, &ari.SyntaxError{Pos: s.position(), Message: "expected a value"}
	}
	// A bare decimal integer not followed by '/', '.', or '(' is a
	// shorthand numeric literal (spec.md §4.D's TBL scenario writes cells
	// as bare "1,2;3,4" rather than fully typed "UVAST.1,UVAST.2;...");
	// see DESIGN.md for this reading of the grammar.
	if isBareTerminator(s.peek()) && isAllDigits(head) {
		return parseBareInteger(head)
	}
	switch s.peek() {
	case '/':
		s.advance()
		return p.parseReference(head)
	case '.':
		s.advance()
		return p.parseLiteralScalar(head)
	case '(':
		return p.parseLiteralContainer(head)
	default:
		return ari.Value{}, &ari.SyntaxError{
			Pos:     s.position(),
			Message: "expected '/', '.', or '(' after \"" + head + "\"",
		}
	}
}

func isBareTerminator(c byte) bool {
	switch c {
	case ',', ';', ')', '=', 0:
		return true
	default:
		return false
	}
}

func isAllDigits(word string) bool {
	body := strings.TrimPrefix(word, "-")
	if body == "" {
		return false
	}
	for _, c := range body {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func parseBareInteger(word string) (ari.Value, error) {
	if strings.HasPrefix(word, "-") {
		n, err := strconv.ParseInt(word, 10, 64)
		if err != nil {
			return ari.Value{}, &ari.LexicalError{Message: "invalid bare integer literal \"" + word + "\""}
		}
		return ari.VASTValue(n), nil
	}
	n, err := strconv.ParseUint(word, 10, 64)
	if err != nil {
		return ari.Value{}, &ari.LexicalError{Message: "invalid bare integer literal \"" + word + "\""}
	}
	return ari.UVASTValue(n), nil
}

func decodeNameRef(word string) (ari.NameRef, error) {
	if strings.HasPrefix(word, "!") {
		n, err := strconv.ParseInt(word[1:], 10, 64)
		if err != nil {
			return ari.NameRef{}, err
		}
		return ari.NumericName(n), nil
	}
	decoded, _ := percentDecode(word)
	return ari.SymbolicName(decoded), nil
}

func (p *Parser) parseReference(nsWord string) (ari.Value, error) {
	s := p.s
	ns, err := decodeNameRef(nsWord)
	if err != nil {
		return ari.Value{}, &ari.LexicalError{Pos: s.position(), Message: "malformed namespace enumerator: " + err.Error()}
	}
	typeWord := s.readHead()
	if !s.expect('.') {
		return ari.Value{}, errExpected(s, "'.' after object-type keyword")
	}
	objType, ok := ari.ObjectTypeForName(typeWord)
	if !ok {
		return ari.Value{}, &ari.SyntaxError{Pos: s.position(), Message: "unknown object-type keyword \"" + typeWord + "\""}
	}
	nameWord := s.readHead()
	if nameWord == "" {
		return ari.Value{}, errExpected(s, "an object name")
	}
	name, err := decodeNameRef(nameWord)
	if err != nil {
		return ari.Value{}, &ari.LexicalError{Pos: s.position(), Message: "malformed object-name enumerator: " + err.Error()}
	}
	ref := ari.Reference{Namespace: ns, ObjType: objType, Name: name}
	if s.peek() == '(' {
		s.advance()
		params, err := p.parseCommaList(')')
		if err != nil {
			return ari.Value{}, err
		}
		ref.Params = params
		ref.HasParams = true
	}
	return ari.ReferenceValue(ref), nil
}

// parseCommaList parses a comma-separated element list up to and
// including the closing byte, which has already been seen as the next
// unconsumed character's production boundary (i.e. the opening delimiter
// was already consumed by the caller).
func (p *Parser) parseCommaList(closer byte) ([]ari.Value, error) {
	s := p.s
	var items []ari.Value
	s.skipSpace()
	if s.peek() == closer {
		s.advance()
		return items, nil
	}
	for {
		v, err := p.ParseElement()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
		s.skipSpace()
		switch s.peek() {
		case ',':
			s.advance()
			s.skipSpace()
			continue
		case closer:
			s.advance()
			return items, nil
		default:
			return nil, errExpected(s, "',' or '"+string(closer)+"'")
		}
	}
}

func (p *Parser) parseLiteralScalar(typeWord string) (ari.Value, error) {
	s := p.s
	lt, ok := ari.LiteralTypeForName(typeWord)
	if !ok {
		return ari.Value{}, &ari.SyntaxError{Pos: s.position(), Message: "unknown literal type \"" + typeWord + "\""}
	}
	pos := s.position()
	switch lt {
	case ari.TypeUndefined:
		s.readLiteralText()
		return ari.Undefined(), nil
	case ari.TypeNull:
		s.readLiteralText()
		return ari.NullValue(), nil
	case ari.TypeBool:
		word := s.readLiteralText()
		switch {
		case strings.EqualFold(word, "true"):
			return ari.BoolValue(true), nil
		case strings.EqualFold(word, "false"):
			return ari.BoolValue(false), nil
		default:
			return ari.Value{}, &ari.LexicalError{Pos: pos, Message: "invalid BOOL literal \"" + word + "\""}
		}
	case ari.TypeByte:
		word := s.readLiteralText()
		n, err := strconv.ParseUint(word, 10, 64)
		if err != nil {
			return ari.Value{}, &ari.LexicalError{Pos: pos, Message: "invalid BYTE literal \"" + word + "\""}
		}
		v, err := ari.ByteValue(n)
		return v, wrapType(pos, err)
	case ari.TypeInt32:
		word := s.readLiteralText()
		n, err := strconv.ParseInt(word, 10, 64)
		if err != nil {
			return ari.Value{}, &ari.LexicalError{Pos: pos, Message: "invalid INT literal \"" + word + "\""}
		}
		v, err := ari.Int32Value(n)
		return v, wrapType(pos, err)
	case ari.TypeUInt32:
		word := s.readLiteralText()
		n, err := strconv.ParseUint(word, 10, 64)
		if err != nil {
			return ari.Value{}, &ari.LexicalError{Pos: pos, Message: "invalid UINT literal \"" + word + "\""}
		}
		v, err := ari.UInt32Value(n)
		return v, wrapType(pos, err)
	case ari.TypeVAST:
		word := s.readLiteralText()
		n, err := strconv.ParseInt(word, 10, 64)
		if err != nil {
			return ari.Value{}, &ari.LexicalError{Pos: pos, Message: "invalid VAST literal \"" + word + "\""}
		}
		return ari.VASTValue(n), nil
	case ari.TypeUVAST:
		word := s.readLiteralText()
		n, err := strconv.ParseUint(word, 10, 64)
		if err != nil {
			return ari.Value{}, &ari.LexicalError{Pos: pos, Message: "invalid UVAST literal \"" + word + "\""}
		}
		return ari.UVASTValue(n), nil
	case ari.TypeReal32:
		word := s.readLiteralText()
		f, err := strconv.ParseFloat(word, 32)
		if err != nil {
			return ari.Value{}, &ari.LexicalError{Pos: pos, Message: "invalid REAL32 literal \"" + word + "\""}
		}
		return ari.Real32Value(float32(f)), nil
	case ari.TypeReal64:
		word := s.readLiteralText()
		f, err := strconv.ParseFloat(word, 64)
		if err != nil {
			return ari.Value{}, &ari.LexicalError{Pos: pos, Message: "invalid REAL64 literal \"" + word + "\""}
		}
		return ari.Real64Value(f), nil
	case ari.TypeTextStr:
		raw, err := s.readQuoted()
		if err != nil {
			return ari.Value{}, err
		}
		unescaped, err := unescapeString(raw)
		if err != nil {
			return ari.Value{}, &ari.LexicalError{Pos: pos, Message: err.Error()}
		}
		return ari.TextStrValue(unescaped), nil
	case ari.TypeByteStr:
		b, err := parseByteStringBody(s)
		if err != nil {
			return ari.Value{}, err
		}
		return ari.ByteStrValue(b), nil
	case ari.TypeTP:
		word := s.readLiteralText()
		tv, err := parseTimeLiteral(word)
		if err != nil {
			return ari.Value{}, &ari.LexicalError{Pos: pos, Message: "invalid TP literal \"" + word + "\": " + err.Error()}
		}
		return ari.TPValue(tv), nil
	case ari.TypeTD:
		word := s.readLiteralText()
		tv, err := parseTimeLiteral(word)
		if err != nil {
			return ari.Value{}, &ari.LexicalError{Pos: pos, Message: "invalid TD literal \"" + word + "\": " + err.Error()}
		}
		return ari.TDValue(tv), nil
	case ari.TypeLabel:
		word := s.readLiteralText()
		if n, err := strconv.ParseInt(word, 10, 64); err == nil {
			return ari.LabelValue(ari.Label{IsInt: true, Int: n}), nil
		}
		decoded, _ := percentDecode(word)
		return ari.LabelValue(ari.Label{Text: decoded}), nil
	case ari.TypeCBOR:
		raw, err := parseByteStringBody(s)
		if err != nil {
			return ari.Value{}, err
		}
		return ari.CBORValue(raw), nil
	default:
		return ari.Value{}, &ari.SyntaxError{Pos: pos, Message: "\"" + typeWord + "\" is a container type and requires '(' not '.'"}
	}
}

func wrapType(pos ari.Position, err error) error {
	if err == nil {
		return nil
	}
	if te, ok := err.(*ari.TypeError); ok {
		te.Pos = pos
		return te
	}
	return err
}

func parseByteStringBody(s *scanner) ([]byte, error) {
	prefix := s.readUntilAny("'")
	if s.peek() != '\'' {
		return nil, errExpected(s, "opening \"'\" of byte-string literal")
	}
	s.advance()
	start := s.pos
	for !s.eof() && s.peek() != '\'' {
		s.advance()
	}
	if s.eof() {
		return nil, errExpected(s, "closing \"'\" of byte-string literal")
	}
	content := s.src[start:s.pos]
	s.advance()
	return decodeBytesLiteral(prefix, content)
}

func isNumericTimeText(s string) bool {
	dots := 0
	for _, c := range s {
		if c == '.' {
			dots++
			if dots > 1 {
				return false
			}
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

func parseTimeLiteral(text string) (ari.TimeValue, error) {
	neg := strings.HasPrefix(text, "-")
	body := strings.TrimPrefix(text, "-")
	if isNumericTimeText(body) {
		parts := strings.SplitN(body, ".", 2)
		secs, err := strconv.ParseUint(parts[0], 10, 64)
		if err != nil {
			return ari.TimeValue{}, err
		}
		var nanos uint64
		if len(parts) == 2 {
			frac := parts[1]
			for len(frac) < 9 {
				frac += "0"
			}
			nanos, err = strconv.ParseUint(frac[:9], 10, 32)
			if err != nil {
				return ari.TimeValue{}, err
			}
		}
		return ari.TimeValue{Negative: neg, Seconds: secs, Nanos: uint32(nanos)}, nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, text)
	if err != nil {
		return ari.TimeValue{}, err
	}
	d := parsed.Sub(dtnEpoch)
	isNeg := d < 0
	if isNeg {
		d = -d
	}
	return ari.TimeValue{Negative: isNeg, Seconds: uint64(d / time.Second), Nanos: uint32(d % time.Second)}, nil
}

func (p *Parser) parseLiteralContainer(typeWord string) (ari.Value, error) {
	s := p.s
	lt, ok := ari.LiteralTypeForName(typeWord)
	if !ok {
		return ari.Value{}, &ari.SyntaxError{Pos: s.position(), Message: "unknown literal type \"" + typeWord + "\""}
	}
	if !s.expect('(') {
		return ari.Value{}, errExpected(s, "'('")
	}
	switch lt {
	case ari.TypeAC:
		items, err := p.parseCommaList(')')
		if err != nil {
			return ari.Value{}, err
		}
		return ari.ACValue(items), nil
	case ari.TypeAM:
		return p.parseAM()
	case ari.TypeTBL:
		return p.parseTBL()
	case ari.TypeExecSet:
		return p.parseExecOrRpt(true)
	case ari.TypeRptSet:
		return p.parseExecOrRpt(false)
	default:
		return ari.Value{}, &ari.SyntaxError{Pos: s.position(), Message: "\"" + typeWord + "\" does not take a parenthesized form"}
	}
}

func (p *Parser) parseAM() (ari.Value, error) {
	s := p.s
	var pairs []ari.Pair
	s.skipSpace()
	if s.peek() == ')' {
		s.advance()
		return ari.AMValue(pairs), nil
	}
	for {
		key, err := p.ParseElement()
		if err != nil {
			return ari.Value{}, err
		}
		s.skipSpace()
		if !s.expect('=') {
			return ari.Value{}, errExpected(s, "'=' in AM entry")
		}
		val, err := p.ParseElement()
		if err != nil {
			return ari.Value{}, err
		}
		pairs = append(pairs, ari.Pair{Key: key, Value: val})
		s.skipSpace()
		switch s.peek() {
		case ',':
			s.advance()
			s.skipSpace()
			continue
		case ')':
			s.advance()
			return ari.AMValue(pairs), nil
		default:
			return ari.Value{}, errExpected(s, "',' or ')'")
		}
	}
}

// parseTBL parses "c=<N>;row1;row2;..." where each row is a comma-
// separated element list, producing a flat row-major Value (spec.md
// §4.D: "column count is mandatory and precedes rows").
func (p *Parser) parseTBL() (ari.Value, error) {
	s := p.s
	s.skipSpace()
	colsWord := s.readHead()
	if colsWord != "c" {
		return ari.Value{}, &ari.SyntaxError{Pos: s.position(), Message: "expected \"c=<N>\" column-count header"}
	}
	if !s.expect('=') {
		return ari.Value{}, errExpected(s, "'=' after \"c\"")
	}
	numWord := s.readLiteralText()
	cols, err := strconv.Atoi(numWord)
	if err != nil || cols <= 0 {
		return ari.Value{}, &ari.SyntaxError{Pos: s.position(), Message: "invalid TBL column count \"" + numWord + "\""}
	}
	var flat []ari.Value
	s.skipSpace()
	if s.peek() == ')' {
		s.advance()
		return ari.TBLValue(cols, flat)
	}
	if !s.expect(';') {
		return ari.Value{}, errExpected(s, "';' after column count")
	}
	for {
		for {
			v, err := p.ParseElement()
			if err != nil {
				return ari.Value{}, err
			}
			flat = append(flat, v)
			s.skipSpace()
			switch s.peek() {
			case ',':
				s.advance()
				s.skipSpace()
				continue
			case ';', ')':
			default:
				return ari.Value{}, errExpected(s, "',', ';', or ')'")
			}
			break
		}
		if s.peek() == ')' {
			s.advance()
			break
		}
		s.advance() // consume ';'
	}
	return ari.TBLValue(cols, flat)
}

// parseExecOrRpt parses "<ident>;item1,item2,...". Text-grammar shape
// not fixed by spec.md (left to "the specific fixture corpus" per §9);
// see DESIGN.md for the layout this picks.
func (p *Parser) parseExecOrRpt(isExec bool) (ari.Value, error) {
	s := p.s
	ident, err := p.ParseElement()
	if err != nil {
		return ari.Value{}, err
	}
	s.skipSpace()
	if !s.expect(';') {
		return ari.Value{}, errExpected(s, "';' after identifier")
	}
	s.skipSpace()
	var items []ari.Value
	if s.peek() != ')' {
		items, err = p.parseCommaList(')')
		if err != nil {
			return ari.Value{}, err
		}
	} else {
		s.advance()
	}
	if isExec {
		return ari.ExecSetValue(ident, items), nil
	}
	return ari.RptSetValue(ident, items), nil
}
