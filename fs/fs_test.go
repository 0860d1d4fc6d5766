package fs_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/forge"
	"github.com/fwojciec/forge/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(paths ...string) forge.Document {
	var d forge.Document
	for _, p := range paths {
		d.Files = append(d.Files, forge.File{Path: p, Code: "x"})
	}
	return d
}

func TestChecker(t *testing.T) {
	t.Parallel()

	t.Run("allowed paths produce no findings", func(t *testing.T) {
		t.Parallel()
		got := fs.Checker{}.Check(doc("/App.js", "/components/TodoList.js"), forge.EnvComponentApp)
		assert.Empty(t, got)
	})

	t.Run("matches recursive patterns", func(t *testing.T) {
		t.Parallel()
		got := fs.Checker{}.Check(doc("/App.js", "/src/main.js", "/src/lib/util.js", "/App.jsx"), forge.EnvComponentApp)
		assert.Equal(t, []string{
			"/src/main.js is not allowed in React projects (matches /src/**)",
			"/src/lib/util.js is not allowed in React projects (matches /src/**)",
			"/App.jsx is not allowed in React projects (matches /App.jsx)",
		}, got)
	})

	t.Run("paths without leading slash are normalized", func(t *testing.T) {
		t.Parallel()
		got := fs.Checker{}.Check(doc("src/main.js"), forge.EnvComponentApp)
		assert.Len(t, got, 1)
	})

	t.Run("rules depend on environment", func(t *testing.T) {
		t.Parallel()
		d := doc("/index.php", "/js/app.jsx")
		assert.Equal(t, []string{"/js/app.jsx is not allowed in WordPress projects (matches /**/*.jsx)"},
			fs.Checker{}.Check(d, forge.EnvTemplatedSite))
		assert.Equal(t, []string{"/index.php is not allowed in HTML projects (matches /**/*.php)"},
			fs.Checker{}.Check(d, forge.EnvStaticSite))
	})

	t.Run("escaping paths are reported", func(t *testing.T) {
		t.Parallel()
		got := fs.Checker{}.Check(doc("/../etc/passwd", "/"), forge.EnvStaticSite)
		assert.Equal(t, []string{
			"/../etc/passwd: path escapes output directory",
			"/: path escapes output directory",
		}, got)
	})
}

func TestWriteFiles(t *testing.T) {
	t.Parallel()

	t.Run("writes nested files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		files := []forge.File{
			{Path: "/index.html", Code: "<h1>hi</h1>"},
			{Path: "/components/Button.js", Code: "export default 1;"},
		}
		paths, err := fs.WriteFiles(dir, files)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "index.html"),
			filepath.Join(dir, "components", "Button.js"),
		}, paths)

		got, err := os.ReadFile(filepath.Join(dir, "components", "Button.js"))
		require.NoError(t, err)
		assert.Equal(t, "export default 1;", string(got))
	})

	t.Run("refuses escaping paths before writing anything", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		_, err := fs.WriteFiles(dir, []forge.File{
			{Path: "/ok.txt", Code: "ok"},
			{Path: "/../outside.txt", Code: "bad"},
		})
		require.ErrorIs(t, err, fs.ErrPathEscape)
		_, statErr := os.Stat(filepath.Join(dir, "ok.txt"))
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("overwrites existing files", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("old"), 0o644))
		_, err := fs.WriteFiles(dir, []forge.File{{Path: "a.txt", Code: "new"}})
		require.NoError(t, err)
		got, _ := os.ReadFile(filepath.Join(dir, "a.txt"))
		assert.Equal(t, "new", string(got))
	})
}
