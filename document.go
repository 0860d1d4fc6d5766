package forge

import "fmt"

// File is one generated source file.
type File struct {
	Path string
	Code string
}

// Document is the structured output of a code generation request. Files
// keeps the order in which the model emitted them.
type Document struct {
	ProjectTitle   string
	Explanation    string
	Files          []File
	GeneratedFiles []string
}

// File returns the file at path.
func (d Document) File(path string) (File, bool) {
	for _, f := range d.Files {
		if f.Path == path {
			return f, true
		}
	}
	return File{}, false
}

// MissingGenerated returns the generatedFiles entries that have no
// corresponding key in Files.
func (d Document) MissingGenerated() []string {
	var missing []string
	for _, p := range d.GeneratedFiles {
		if _, ok := d.File(p); !ok {
			missing = append(missing, p)
		}
	}
	return missing
}

// Warnings describes inconsistencies in the document that do not prevent
// its use.
func (d Document) Warnings() []string {
	var w []string
	for _, p := range d.MissingGenerated() {
		w = append(w, fmt.Sprintf("generatedFiles lists %s but files has no such entry", p))
	}
	return w
}

// MergeFiles overlays files on base. A path present in both keeps its
// position in base and takes the value from files; new paths are appended
// in order.
func MergeFiles(base, files []File) []File {
	out := make([]File, len(base), len(base)+len(files))
	copy(out, base)
	index := make(map[string]int, len(out))
	for i, f := range out {
		index[f.Path] = i
	}
	for _, f := range files {
		if i, ok := index[f.Path]; ok {
			out[i] = f
			continue
		}
		index[f.Path] = len(out)
		out = append(out, f)
	}
	return out
}
