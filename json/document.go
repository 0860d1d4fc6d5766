package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fwojciec/forge"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// documentDTO is the wire form of a Document. Files keeps key order.
type documentDTO struct {
	ProjectTitle   string                                          `json:"projectTitle"`
	Explanation    string                                          `json:"explanation"`
	Files          *orderedmap.OrderedMap[string, json.RawMessage] `json:"files"`
	GeneratedFiles []string                                        `json:"generatedFiles"`
}

type fileDTO struct {
	Code string `json:"code"`
}

var errNotObject = errors.New("document is not a JSON object")

// DecodeDocument parses a document from JSON. A file value may be
// {"code": "..."}, a bare string, or any other value, which is kept as
// indented JSON text.
func DecodeDocument(data []byte) (forge.Document, error) {
	if t := bytes.TrimSpace(data); len(t) == 0 || t[0] != '{' {
		return forge.Document{}, errNotObject
	}
	var dto documentDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return forge.Document{}, err
	}
	doc := forge.Document{
		ProjectTitle:   dto.ProjectTitle,
		Explanation:    dto.Explanation,
		GeneratedFiles: dto.GeneratedFiles,
	}
	if dto.Files == nil {
		return doc, nil
	}
	for pair := dto.Files.Oldest(); pair != nil; pair = pair.Next() {
		code, err := fileCode(pair.Value)
		if err != nil {
			return forge.Document{}, fmt.Errorf("file %s: %w", pair.Key, err)
		}
		doc.Files = append(doc.Files, forge.File{Path: pair.Key, Code: code})
	}
	return doc, nil
}

func fileCode(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		if c, ok := obj["code"]; ok {
			if err := json.Unmarshal(c, &s); err == nil {
				return s, nil
			}
		}
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// filesMap converts files to an ordered {path: {code}} map.
func filesMap(files []forge.File) *orderedmap.OrderedMap[string, fileDTO] {
	m := orderedmap.New[string, fileDTO](len(files))
	for _, f := range files {
		m.Set(f.Path, fileDTO{Code: f.Code})
	}
	return m
}

// EncodeDocument serializes doc in the shape models are asked to produce.
func EncodeDocument(doc forge.Document) ([]byte, error) {
	return json.MarshalIndent(struct {
		ProjectTitle   string                                   `json:"projectTitle"`
		Explanation    string                                   `json:"explanation"`
		Files          *orderedmap.OrderedMap[string, fileDTO] `json:"files"`
		GeneratedFiles []string                                 `json:"generatedFiles"`
	}{
		ProjectTitle:   doc.ProjectTitle,
		Explanation:    doc.Explanation,
		Files:          filesMap(doc.Files),
		GeneratedFiles: nonNil(doc.GeneratedFiles),
	}, "", "  ")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
