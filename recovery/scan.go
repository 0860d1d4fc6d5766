package recovery

import (
	"sort"
	"strings"
)

// token classifies one byte of JSON-like text.
type token int

const (
	tokOutside   token = iota // structural byte outside any string literal
	tokInside                 // ordinary byte inside a string literal
	tokBackslash              // unescaped backslash, escapes the next byte
	tokEscaped                // byte preceded by an unescaped backslash
	tokQuote                  // unescaped double quote, toggles string state
)

// scanner tracks string and escape state over a single left-to-right pass.
// A backslash escapes the following byte wherever it appears, so a quote
// after a backslash never toggles string state.
type scanner struct {
	inString bool
	escaped  bool
}

func (s *scanner) next(c byte) token {
	switch {
	case s.escaped:
		s.escaped = false
		return tokEscaped
	case c == '\\':
		s.escaped = true
		return tokBackslash
	case c == '"':
		s.inString = !s.inString
		return tokQuote
	case s.inString:
		return tokInside
	default:
		return tokOutside
	}
}

// edit replaces n bytes at offset at with text. n == 0 is an insertion.
type edit struct {
	at   int
	n    int
	text string
}

// apply performs edits on s in one pass. Edits must not overlap;
// insertions at the same offset keep their relative order.
func apply(s string, edits []edit) string {
	if len(edits) == 0 {
		return s
	}
	sort.SliceStable(edits, func(i, j int) bool { return edits[i].at < edits[j].at })
	var b strings.Builder
	b.Grow(len(s) + len(edits))
	pos := 0
	for _, e := range edits {
		b.WriteString(s[pos:e.at])
		b.WriteString(e.text)
		pos = e.at + e.n
	}
	b.WriteString(s[pos:])
	return b.String()
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
