// Package fs checks generated file maps against environment path rules
// and writes them to disk.
package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fwojciec/forge"
)

// ErrPathEscape is returned when a generated path would resolve outside the
// output directory.
var ErrPathEscape = errors.New("path escapes output directory")

// Interface compliance check.
var _ forge.DocumentChecker = Checker{}

// Checker reports generated files whose paths match one of the
// environment's forbidden patterns.
type Checker struct{}

// Check implements forge.DocumentChecker.
func (Checker) Check(doc forge.Document, env forge.Environment) []string {
	spec := env.Spec()
	var findings []string
	for _, f := range doc.Files {
		if _, err := localPath(f.Path); err != nil {
			findings = append(findings, fmt.Sprintf("%s: %s", f.Path, err))
			continue
		}
		for _, pattern := range spec.ForbiddenPaths {
			if !doublestar.ValidatePattern(pattern) {
				continue
			}
			ok, _ := doublestar.Match(pattern, normalize(f.Path))
			if ok {
				findings = append(findings, fmt.Sprintf("%s is not allowed in %s projects (matches %s)", f.Path, spec.Name, pattern))
				break
			}
		}
	}
	return findings
}

// normalize gives every path a single leading slash so that patterns like
// "/src/**" match both "/src/a.js" and "src/a.js".
func normalize(p string) string {
	return "/" + strings.TrimLeft(filepath.ToSlash(p), "/")
}

// localPath converts a generated path to a path relative to the output
// directory.
func localPath(p string) (string, error) {
	rel := filepath.FromSlash(strings.TrimLeft(p, "/"))
	if rel == "" || !filepath.IsLocal(rel) {
		return "", ErrPathEscape
	}
	return rel, nil
}

// WriteFiles writes files under dir, creating directories as needed, and
// returns the written paths in order. No file is written when any path
// would escape dir.
func WriteFiles(dir string, files []forge.File) ([]string, error) {
	paths := make([]string, len(files))
	for i, f := range files {
		rel, err := localPath(f.Path)
		if err != nil {
			return nil, fmt.Errorf("fs: %s: %w", f.Path, err)
		}
		paths[i] = filepath.Join(dir, rel)
	}
	for i, f := range files {
		if err := os.MkdirAll(filepath.Dir(paths[i]), 0o755); err != nil {
			return nil, fmt.Errorf("fs: create directories: %w", err)
		}
		if err := os.WriteFile(paths[i], []byte(f.Code), 0o644); err != nil {
			return nil, fmt.Errorf("fs: write %s: %w", f.Path, err)
		}
	}
	return paths, nil
}
