package text

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"
	"strconv"
	"strings"
)

// percentEncode escapes a URI segment (namespace or object/parameter name)
// to the minimum set RFC 3986 requires, leaving the unreserved set
// (ALPHA / DIGIT / "-" / "." / "_" / "~") plus the grammar's own
// structural separators (":" for ORG:module, "!" for enumerator-qualified
// names) untouched, per spec.md §4.D's unparser rule.
func percentEncode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) || c == ':' || c == '!' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteString(strings.ToUpper(hex.EncodeToString([]byte{c})))
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '-' || c == '.' || c == '_' || c == '~':
		return true
	default:
		return false
	}
}

// percentDecode reverses percentEncode, tolerating any %XX triplet
// regardless of what this package itself would have escaped (other ARI
// producers may escape more conservatively).
func percentDecode(s string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			v, err := hex.DecodeString(s[i+1 : i+3])
			if err == nil {
				b.WriteByte(v[0])
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String(), nil
}

// canonFloat formats f in the shortest decimal form that round-trips
// exactly, matching Neumenon-glyph's canon.go scalar formatting.
func canonFloat(f float64, bitSize int) string {
	switch {
	case f != f:
		return "NaN"
	case f > 0 && f*2 == f: // +Inf, avoids importing math for one comparison
		return "Infinity"
	case f < 0 && f*2 == f:
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

// escapeString quotes and escapes a text-string literal for canonical
// emission: backslash, double-quote, newline, tab, and carriage return are
// escaped; everything else (including other control characters and
// non-ASCII UTF-8) passes through verbatim.
func escapeString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// unescapeString reverses escapeString's escape sequences on the raw
// content between the matched quotes (quotes already stripped by the
// caller).
func unescapeString(raw string) (string, error) {
	var b strings.Builder
	i := 0
	for i < len(raw) {
		c := raw[i]
		if c != '\\' {
			b.WriteByte(c)
			i++
			continue
		}
		i++
		if i >= len(raw) {
			return "", &strconvError{"unterminated escape sequence"}
		}
		switch raw[i] {
		case '"':
			b.WriteByte('"')
		case '\\':
			b.WriteByte('\\')
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			return "", &strconvError{"unknown escape sequence \\" + string(raw[i])}
		}
		i++
	}
	return b.String(), nil
}

type strconvError struct{ msg string }

func (e *strconvError) Error() string { return e.msg }

// encodeBytes renders a byte string as lowercase hex wrapped in h'...'
// (spec.md §4.D: "byte strings use a distinct prefix ... support at
// minimum hexadecimal").
func encodeBytes(b []byte) string {
	return "h'" + hex.EncodeToString(b) + "'"
}

// decodeBytesLiteral decodes the content of a BSTR literal given its
// prefix ("h", "b32", or "b64") and the raw text between the quotes.
func decodeBytesLiteral(prefix, content string) ([]byte, error) {
	switch prefix {
	case "h":
		return hex.DecodeString(content)
	case "b32":
		return base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(content)
	case "b64":
		return base64.RawURLEncoding.DecodeString(content)
	default:
		return nil, &strconvError{"unknown byte-string prefix " + prefix}
	}
}
