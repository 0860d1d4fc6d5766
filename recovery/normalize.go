package recovery

import "strings"

const fence = "```"

// StripFences removes an enclosing Markdown code fence. The text must
// start with ``` (optionally followed by a language tag on the same line)
// and end with ```; otherwise it is returned unchanged. Fences are removed
// repeatedly so that StripFences(StripFences(s)) == StripFences(s).
// Content between the fences is never altered beyond trimming.
func StripFences(s string) string {
	for {
		out, ok := stripFence(s)
		if !ok {
			return s
		}
		s = out
	}
}

func stripFence(s string) (string, bool) {
	t := strings.TrimSpace(s)
	if len(t) < 2*len(fence) || !strings.HasPrefix(t, fence) || !strings.HasSuffix(t, fence) {
		return s, false
	}
	body := t[len(fence) : len(t)-len(fence)]
	nl := strings.IndexByte(body, '\n')
	if nl < 0 {
		return s, false
	}
	if !isLanguageTag(strings.TrimSpace(body[:nl])) {
		return s, false
	}
	return strings.TrimSpace(body[nl+1:]), true
}

func isLanguageTag(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '+', c == '.', c == '-':
		default:
			return false
		}
	}
	return true
}
