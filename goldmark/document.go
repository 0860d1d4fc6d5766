package goldmark

import (
	"fmt"
	"path"
	"strings"

	"github.com/fwojciec/forge"
)

// RenderResult renders a generation result: the project title, the
// explanation as markdown, the file list and any warnings.
func RenderResult(res forge.GenerationResult, width int, theme forge.Theme) string {
	if width <= 0 {
		width = defaultWidth
	}
	r := newRenderer(theme, width)
	doc := res.Document

	title := doc.ProjectTitle
	if title == "" {
		title = "Untitled project"
	}
	r.buf.WriteString(r.accent.Render(title))
	r.buf.WriteByte('\n')
	r.buf.WriteString(r.success.Render(fmt.Sprintf("provider %s, recovery stage %s", res.Provider, res.Stage)))
	r.buf.WriteString("\n\n")

	if doc.Explanation != "" {
		r.buf.WriteString(Render(doc.Explanation, width, theme))
		r.buf.WriteString("\n\n")
	}

	r.buf.WriteString(r.bold.Render(fmt.Sprintf("Files (%d)", len(doc.Files))))
	r.buf.WriteByte('\n')
	for _, f := range doc.Files {
		r.buf.WriteString("  ")
		r.buf.WriteString(r.path.Render(f.Path))
		r.buf.WriteString(" ")
		r.buf.WriteString(r.muted.Render(lineCount(f.Code)))
		r.buf.WriteByte('\n')
	}

	if len(res.Warnings) > 0 {
		r.buf.WriteByte('\n')
		r.buf.WriteString(r.bold.Render("Warnings"))
		r.buf.WriteByte('\n')
		for _, w := range res.Warnings {
			r.item("  ! ", r.warning.Render(w))
		}
	}
	return strings.TrimRight(r.buf.String(), "\n")
}

// RenderFile renders one file as a labelled code block. The label is the
// path followed by the language guessed from its extension.
func RenderFile(f forge.File, theme forge.Theme) string {
	r := newRenderer(theme, defaultWidth)
	label := f.Path
	if lang := language(f.Path); lang != "" {
		label += " (" + lang + ")"
	}
	r.buf.WriteString(r.path.Render(label))
	r.buf.WriteByte('\n')
	r.code("", strings.Split(strings.TrimRight(f.Code, "\n"), "\n"))
	return strings.TrimRight(r.buf.String(), "\n")
}

func lineCount(code string) string {
	n := strings.Count(strings.TrimRight(code, "\n"), "\n") + 1
	if code == "" {
		n = 0
	}
	if n == 1 {
		return "1 line"
	}
	return fmt.Sprintf("%d lines", n)
}

var languages = map[string]string{
	".js":   "javascript",
	".jsx":  "jsx",
	".ts":   "typescript",
	".tsx":  "tsx",
	".css":  "css",
	".html": "html",
	".php":  "php",
	".json": "json",
	".md":   "markdown",
}

func language(p string) string {
	return languages[strings.ToLower(path.Ext(p))]
}
