// Package goldmark renders pipeline output for the terminal: markdown text
// is parsed with goldmark and styled with lipgloss.
package goldmark

import "github.com/fwojciec/forge"

const defaultWidth = 80

// Render parses markdown source and returns ANSI-styled terminal output.
// Paragraphs and list items are word-wrapped to width. Code blocks are
// rendered at full width without reflow.
func Render(source string, width int, theme forge.Theme) string {
	if source == "" {
		return ""
	}
	if width <= 0 {
		width = defaultWidth
	}
	return newRenderer(theme, width).markdown([]byte(source))
}
