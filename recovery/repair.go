package recovery

import "strings"

// Repair balances quotes and delimiters in span. It never removes a byte:
// it inserts at most one closing quote and appends the missing closers.
//
// When the number of unescaped quotes is odd, a quote is inserted before
// the first '}', ']', ',' or newline after the last quote, or at the end.
// Then every '{' and '[' outside strings left open is closed, innermost
// first. A closer that does not match the innermost opener is left alone.
// Repair is idempotent.
func Repair(span string) string {
	s := apply(span, quoteEdits(span))
	return apply(s, closerEdits(s))
}

func quoteEdits(s string) []edit {
	var sc scanner
	count, last := 0, -1
	for i := 0; i < len(s); i++ {
		if sc.next(s[i]) == tokQuote {
			count++
			last = i
		}
	}
	if count%2 == 0 {
		return nil
	}
	at := len(s)
	if k := strings.IndexAny(s[last+1:], "}],\n"); k >= 0 {
		at = last + 1 + k
	}
	return []edit{{at: at, text: `"`}}
}

func closerEdits(s string) []edit {
	var sc scanner
	var stack []byte
	for i := 0; i < len(s); i++ {
		if sc.next(s[i]) != tokOutside {
			continue
		}
		switch c := s[i]; c {
		case '{':
			stack = append(stack, '}')
		case '[':
			stack = append(stack, ']')
		case '}', ']':
			if n := len(stack); n > 0 && stack[n-1] == c {
				stack = stack[:n-1]
			}
		}
	}
	if len(stack) == 0 {
		return nil
	}
	closers := make([]byte, len(stack))
	for i := range stack {
		closers[i] = stack[len(stack)-1-i]
	}
	return []edit{{at: len(s), text: string(closers)}}
}
