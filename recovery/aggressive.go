package recovery

// Aggressive quotes bare object keys and then removes misplaced commas.
func Aggressive(s string) string {
	return CleanCommas(QuoteKeys(s))
}

// QuoteKeys wraps bare identifier keys in double quotes. An identifier is
// a key when it follows '{' or ',' and is followed by ':', ignoring
// whitespace. Text inside string literals is never touched.
func QuoteKeys(s string) string {
	var sc scanner
	var edits []edit
	prev := byte(0) // last non-space byte outside strings
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.next(c) != tokOutside {
			if c == '"' {
				prev = c
			}
			continue
		}
		if isSpace(c) {
			continue
		}
		if (prev == '{' || prev == ',') && isIdentStart(c) {
			end := i + 1
			for end < len(s) && isIdentPart(s[end]) {
				end++
			}
			colon := end
			for colon < len(s) && isSpace(s[colon]) {
				colon++
			}
			if colon < len(s) && s[colon] == ':' {
				edits = append(edits, edit{at: i, text: `"`}, edit{at: end, text: `"`})
			}
			// Identifier bytes are all outside strings; skip them.
			i = end - 1
			prev = s[i]
			continue
		}
		prev = c
	}
	return apply(s, edits)
}

// CleanCommas removes commas outside strings that are duplicated, lead an
// object or array, or trail before its closer.
func CleanCommas(s string) string {
	var sc scanner
	var edits []edit
	prev := byte(0) // last kept non-space byte outside strings
	for i := 0; i < len(s); i++ {
		c := s[i]
		if sc.next(c) != tokOutside {
			prev = c
			continue
		}
		if isSpace(c) {
			continue
		}
		if c == ',' && (prev == ',' || prev == '{' || prev == '[' || closesNext(s[i+1:])) {
			edits = append(edits, edit{at: i, n: 1})
			continue
		}
		prev = c
	}
	return apply(s, edits)
}

// closesNext reports whether the next byte after spaces and commas is a
// closer or the end of text.
func closesNext(rest string) bool {
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case ' ', '\t', '\n', '\r', ',':
			continue
		case '}', ']':
			return true
		default:
			return false
		}
	}
	return true
}

func isIdentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_' || c == '$'
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9' || c == '-'
}
