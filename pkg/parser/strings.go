package parser

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
)

// StringValue returns the decoded value of a JavaScript string literal node.
// ok is false for any other node type, including template strings.
func StringValue(node *sitter.Node, source []byte) (value string, ok bool) {
	if node == nil || node.Type() != "string" {
		return "", false
	}
	raw := GetNodeText(node, source)
	if len(raw) < 2 {
		return "", false
	}
	quote := raw[0]
	if (quote != '"' && quote != '\'') || raw[len(raw)-1] != quote {
		return "", false
	}
	return unescapeJS(raw[1 : len(raw)-1]), true
}

// unescapeJS decodes JavaScript string escape sequences. Malformed escapes
// decode to the escaped character itself, as in non-strict JavaScript.
func unescapeJS(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' || i+1 >= len(s) {
			b.WriteByte(c)
			continue
		}
		i++
		switch e := s[i]; e {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			b.WriteByte(0)
		case '\n':
			// line continuation
		case '\r':
			if i+1 < len(s) && s[i+1] == '\n' {
				i++
			}
		case 'x':
			if r, n := parseHex(s[i+1:], 2); n > 0 {
				b.WriteRune(r)
				i += n
			} else {
				b.WriteByte(e)
			}
		case 'u':
			if i+1 < len(s) && s[i+1] == '{' {
				end := strings.IndexByte(s[i+1:], '}')
				if end > 1 {
					if v, err := strconv.ParseUint(s[i+2:i+1+end], 16, 32); err == nil && utf8.ValidRune(rune(v)) {
						b.WriteRune(rune(v))
						i += end + 1
						continue
					}
				}
				b.WriteByte(e)
			} else if r, n := parseHex(s[i+1:], 4); n > 0 {
				i += n
				// \uD83D\uDE00 is one code point written as a UTF-16 pair.
				if utf16.IsSurrogate(r) && strings.HasPrefix(s[i+1:], `\u`) {
					if lo, m := parseHex(s[i+3:], 4); m > 0 {
						if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
							r = pair
							i += 2 + m
						}
					}
				}
				b.WriteRune(r)
			} else {
				b.WriteByte(e)
			}
		default:
			b.WriteByte(e)
		}
	}
	return b.String()
}

// parseHex reads exactly n hex digits from the start of s.
func parseHex(s string, n int) (rune, int) {
	if len(s) < n {
		return 0, 0
	}
	v, err := strconv.ParseUint(s[:n], 16, 32)
	if err != nil {
		return 0, 0
	}
	return rune(v), n
}
