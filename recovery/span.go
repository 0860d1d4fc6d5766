package recovery

import "strings"

// ExtractSpan returns the first balanced object or array literal in s.
//
// The first '{' or '[' fixes the pair being tracked. Depth only changes on
// bytes outside string literals that are not escaped. When the text ends
// before depth returns to zero, the tail from the opener is returned so a
// later stage can complete it. ok is false when s has no opener at all.
func ExtractSpan(s string) (span string, ok bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	open := s[start]
	closer := byte('}')
	if open == '[' {
		closer = ']'
	}

	var sc scanner
	depth := 0
	for i := start; i < len(s); i++ {
		if sc.next(s[i]) != tokOutside {
			continue
		}
		switch s[i] {
		case open:
			depth++
		case closer:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return s[start:], true
}
