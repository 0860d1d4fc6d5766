// Package json implements the JSON wire and storage formats: model
// documents, HTTP bodies and persisted workspaces.
package json

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/forge"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// envelope is the v1 wire format for a persisted workspace.
type envelope struct {
	Version     int                                     `json:"version"`
	ID          string                                  `json:"id"`
	Environment string                                  `json:"environment"`
	UpdatedAt   time.Time                               `json:"updated_at"`
	Messages    []messageDTO                            `json:"messages"`
	Files       *orderedmap.OrderedMap[string, fileDTO] `json:"files"`
}

// MarshalWorkspace serializes a Workspace to JSON in v1 envelope format.
func MarshalWorkspace(ws forge.Workspace) ([]byte, error) {
	env := envelope{
		Version:     1,
		ID:          ws.ID,
		Environment: string(ws.Environment),
		UpdatedAt:   ws.UpdatedAt,
		Messages:    make([]messageDTO, len(ws.Messages)),
		Files:       filesMap(ws.Files),
	}
	for i, msg := range ws.Messages {
		dto, err := marshalMessage(msg)
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		env.Messages[i] = dto
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalWorkspace deserializes a Workspace from JSON in v1 envelope format.
func UnmarshalWorkspace(data []byte) (forge.Workspace, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return forge.Workspace{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return forge.Workspace{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	msgs := make([]forge.Message, len(env.Messages))
	for i, dto := range env.Messages {
		msg, err := unmarshalMessage(dto)
		if err != nil {
			return forge.Workspace{}, fmt.Errorf("message %d: %w", i, err)
		}
		msgs[i] = msg
	}
	ws := forge.Workspace{
		ID:          env.ID,
		Environment: forge.ResolveEnvironment(env.Environment),
		UpdatedAt:   env.UpdatedAt,
		Messages:    msgs,
	}
	if env.Files != nil {
		for pair := env.Files.Oldest(); pair != nil; pair = pair.Next() {
			ws.Files = append(ws.Files, forge.File{Path: pair.Key, Code: pair.Value.Code})
		}
	}
	return ws, nil
}

// Save writes a Workspace to a JSON file, creating parent directories as needed.
func Save(path string, ws forge.Workspace) error {
	data, err := MarshalWorkspace(ws)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Workspace from a JSON file. A missing file is reported as
// forge.ErrNotFound.
func Load(path string) (forge.Workspace, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return forge.Workspace{}, fmt.Errorf("workspace %s: %w", filepath.Base(path), forge.ErrNotFound)
	}
	if err != nil {
		return forge.Workspace{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalWorkspace(data)
}

// Store is a forge.WorkspaceStore keeping one JSON file per workspace in
// a directory.
type Store struct {
	dir string
}

var _ forge.WorkspaceStore = (*Store)(nil)

// NewStore creates a Store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) path(id string) (string, error) {
	if err := forge.ValidateWorkspaceID(id); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, id+".json"), nil
}

// Get implements forge.WorkspaceStore.
func (s *Store) Get(ctx context.Context, id string) (forge.Workspace, error) {
	if err := ctx.Err(); err != nil {
		return forge.Workspace{}, err
	}
	path, err := s.path(id)
	if err != nil {
		return forge.Workspace{}, err
	}
	return Load(path)
}

// Put implements forge.WorkspaceStore.
func (s *Store) Put(ctx context.Context, ws forge.Workspace) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(ws.ID)
	if err != nil {
		return err
	}
	return Save(path, ws)
}
