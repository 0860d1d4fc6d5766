package goldmark_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/forge"
	"github.com/fwojciec/forge/goldmark"
	"github.com/stretchr/testify/assert"
)

func TestRenderResult(t *testing.T) {
	t.Parallel()

	res := forge.GenerationResult{
		Document: forge.Document{
			ProjectTitle: "Todo App",
			Explanation:  "A **small** todo app.",
			Files: []forge.File{
				{Path: "/App.js", Code: "line1\nline2\n"},
				{Path: "/index.css", Code: "body{}"},
				{Path: "/empty.txt"},
			},
		},
		Provider: forge.ProviderDeepSeek,
		Stage:    "repair",
		Warnings: []string{"generatedFiles lists /x.js but files has no such entry"},
	}

	t.Run("contains every section", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.RenderResult(res, 80, forge.DefaultTheme()))
		assert.True(t, strings.HasPrefix(out, "Todo App\n"))
		assert.Contains(t, out, "provider deepseek, recovery stage repair")
		assert.Contains(t, out, "A small todo app.")
		assert.Contains(t, out, "Files (3)")
		assert.Contains(t, out, "  /App.js 2 lines")
		assert.Contains(t, out, "  /index.css 1 line")
		assert.Contains(t, out, "  /empty.txt 0 lines")
		assert.Contains(t, out, "Warnings")
		assert.Contains(t, out, "! generatedFiles lists /x.js")
	})

	t.Run("untitled document without warnings", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.RenderResult(forge.GenerationResult{Stage: "extract"}, 0, forge.PlainTheme()))
		assert.True(t, strings.HasPrefix(out, "Untitled project\n"))
		assert.Contains(t, out, "Files (0)")
		assert.NotContains(t, out, "Warnings")
	})
}

func TestRenderFile(t *testing.T) {
	t.Parallel()

	t.Run("labels with language and keeps lines", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.RenderFile(forge.File{Path: "/components/Card.JSX", Code: "a\n  b\n"}, forge.DefaultTheme()))
		assert.Equal(t, "/components/Card.JSX (jsx)\n│ a\n│   b", out)
	})

	t.Run("unknown extension has no language", func(t *testing.T) {
		t.Parallel()
		out := stripANSI(goldmark.RenderFile(forge.File{Path: "/README", Code: "x"}, forge.PlainTheme()))
		assert.Equal(t, "/README\n│ x", out)
	})
}
