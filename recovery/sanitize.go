package recovery

import "fmt"

// Sanitize escapes raw control characters and stray backslashes.
//
// Inside string literals every control character is replaced by its JSON
// escape (\n, \t, ... or \u00XX). Outside strings JSON whitespace is kept
// and other control characters become \u00XX. A backslash that does not
// start a valid escape is doubled, inside or outside strings. Valid
// escapes, including \uXXXX, are copied unchanged, so Sanitize is
// idempotent.
func Sanitize(s string) string {
	var sc scanner
	var edits []edit
	for i := 0; i < len(s); i++ {
		c := s[i]
		inString := sc.inString
		switch sc.next(c) {
		case tokBackslash:
			if !validEscape(s[i+1:]) {
				edits = append(edits, edit{at: i, n: 1, text: `\\`})
			}
		case tokOutside:
			if c < 0x20 && !isSpace(c) {
				edits = append(edits, edit{at: i, n: 1, text: unicodeEscape(c)})
			}
		default:
			if inString && c < 0x20 {
				edits = append(edits, edit{at: i, n: 1, text: controlEscape(c)})
			}
		}
	}
	return apply(s, edits)
}

// validEscape reports whether rest (the text after a backslash) starts
// with a JSON escape sequence.
func validEscape(rest string) bool {
	if rest == "" {
		return false
	}
	switch rest[0] {
	case '"', '\\', '/', 'b', 'f', 'n', 'r', 't':
		return true
	case 'u':
		if len(rest) < 5 {
			return false
		}
		for i := 1; i < 5; i++ {
			if !isHex(rest[i]) {
				return false
			}
		}
		return true
	}
	return false
}

func isHex(c byte) bool {
	return c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
}

func controlEscape(c byte) string {
	switch c {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case '\b':
		return `\b`
	case '\f':
		return `\f`
	}
	return unicodeEscape(c)
}

func unicodeEscape(c byte) string {
	return fmt.Sprintf(`\u%04x`, c)
}
