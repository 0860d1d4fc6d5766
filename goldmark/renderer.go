package goldmark

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/forge"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type styles struct {
	bold      lipgloss.Style
	italic    lipgloss.Style
	underline lipgloss.Style
	accent    lipgloss.Style
	path      lipgloss.Style
	warning   lipgloss.Style
	success   lipgloss.Style
	muted     lipgloss.Style
}

func newStyles(theme forge.Theme) styles {
	return styles{
		bold:      lipgloss.NewStyle().Bold(true),
		italic:    lipgloss.NewStyle().Italic(true),
		underline: lipgloss.NewStyle().Underline(true),
		accent:    lipgloss.NewStyle().Foreground(ansiColor(theme.Accent)).Bold(true),
		path:      lipgloss.NewStyle().Foreground(ansiColor(theme.Path)),
		warning:   lipgloss.NewStyle().Foreground(ansiColor(theme.Warning)),
		success:   lipgloss.NewStyle().Foreground(ansiColor(theme.Success)),
		muted:     lipgloss.NewStyle().Foreground(ansiColor(theme.Muted)).Faint(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}

// renderer writes styled blocks into buf.
type renderer struct {
	styles
	width  int
	source []byte
	buf    bytes.Buffer
}

func newRenderer(theme forge.Theme, width int) *renderer {
	return &renderer{styles: newStyles(theme), width: width}
}

func (r *renderer) markdown(source []byte) string {
	r.source = source
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	r.children(doc)
	return strings.TrimRight(r.buf.String(), "\n")
}

func (r *renderer) children(node ast.Node) {
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.block(c)
		if c.NextSibling() != nil && c.Kind() != ast.KindHTMLBlock {
			r.buf.WriteByte('\n')
		}
	}
}

func (r *renderer) block(node ast.Node) {
	switch n := node.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		r.wrapped(r.inline(n))
	case *ast.Heading:
		r.wrapped(r.accent.Render(r.inline(n)))
	case *ast.FencedCodeBlock:
		r.code(string(n.Language(r.source)), r.lines(n))
	case *ast.CodeBlock:
		r.code("", r.lines(n))
	case *ast.List:
		r.list(n, 0)
	case *ast.ThematicBreak:
		r.buf.WriteString("---\n")
	case *ast.HTMLBlock:
		for _, l := range r.lines(n) {
			r.buf.WriteString(l)
			r.buf.WriteByte('\n')
		}
	default:
		r.children(node)
	}
}

func (r *renderer) wrapped(s string) {
	r.buf.WriteString(lipgloss.NewStyle().Width(r.width).Render(s))
	r.buf.WriteByte('\n')
}

func (r *renderer) lines(n ast.Node) []string {
	segs := n.Lines()
	out := make([]string, segs.Len())
	for i := range out {
		seg := segs.At(i)
		out[i] = strings.TrimRight(string(seg.Value(r.source)), "\n")
	}
	return out
}

// code writes lines behind a gutter, unwrapped, with an optional label.
func (r *renderer) code(label string, lines []string) {
	if label != "" {
		r.buf.WriteString(r.muted.Render(label))
		r.buf.WriteByte('\n')
	}
	gutter := r.muted.Render("│") + " "
	for _, l := range lines {
		r.buf.WriteString(gutter)
		r.buf.WriteString(l)
		r.buf.WriteByte('\n')
	}
}

func (r *renderer) list(node *ast.List, depth int) {
	n := node.Start
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "- "
		if node.IsOrdered() {
			marker = fmt.Sprintf("%d. ", n)
			n++
		}
		prefix := strings.Repeat("  ", depth) + marker

		var content strings.Builder
		flush := func() {
			if content.Len() > 0 {
				r.item(prefix, content.String())
				content.Reset()
				prefix = strings.Repeat(" ", len(prefix))
			}
		}
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			switch in := ic.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				content.WriteString(r.inline(in))
			case *ast.List:
				flush()
				r.list(in, depth+1)
			default:
				flush()
				r.block(ic)
			}
		}
		flush()
	}
}

// item writes one list item, indenting continuation lines under the text.
func (r *renderer) item(prefix, content string) {
	w := max(r.width-len(prefix), 10)
	pad := strings.Repeat(" ", len(prefix))
	for i, line := range strings.Split(lipgloss.NewStyle().Width(w).Render(content), "\n") {
		if i == 0 {
			r.buf.WriteString(prefix)
		} else {
			r.buf.WriteString(pad)
		}
		r.buf.WriteString(line)
		r.buf.WriteByte('\n')
	}
}

func (r *renderer) inline(node ast.Node) string {
	var sb strings.Builder
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		r.span(c, &sb)
	}
	return sb.String()
}

func (r *renderer) span(node ast.Node, sb *strings.Builder) {
	switch n := node.(type) {
	case *ast.Text:
		sb.Write(n.Segment.Value(r.source))
		switch {
		case n.HardLineBreak():
			sb.WriteByte('\n')
		case n.SoftLineBreak():
			sb.WriteByte(' ')
		}
	case *ast.String:
		sb.Write(n.Value)
	case *ast.Emphasis:
		if n.Level == 1 {
			sb.WriteString(r.italic.Render(r.inline(n)))
		} else {
			sb.WriteString(r.bold.Render(r.inline(n)))
		}
	case *ast.CodeSpan:
		sb.WriteString(r.path.Render(r.inline(n)))
	case *ast.Link:
		r.reference(sb, r.inline(n), string(n.Destination))
	case *ast.Image:
		r.reference(sb, r.inline(n), string(n.Destination))
	case *ast.AutoLink:
		sb.WriteString(r.underline.Render(string(n.URL(r.source))))
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			sb.Write(seg.Value(r.source))
		}
	default:
		for c := node.FirstChild(); c != nil; c = c.NextSibling() {
			r.span(c, sb)
		}
	}
}

func (r *renderer) reference(sb *strings.Builder, label, url string) {
	sb.WriteString(r.underline.Render(label))
	sb.WriteByte(' ')
	sb.WriteString(r.muted.Render("(" + url + ")"))
}
