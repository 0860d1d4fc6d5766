package forge

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

var validWorkspaceID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidateWorkspaceID rejects ids that are not safe to use as a file name
// or storage key.
func ValidateWorkspaceID(id string) error {
	if !validWorkspaceID.MatchString(id) {
		return fmt.Errorf("invalid workspace id %q: %w", id, ErrValidation)
	}
	return nil
}

// Workspace is the persisted state of one generation session.
type Workspace struct {
	ID          string
	Environment Environment
	Messages    []Message
	Files       []File
	UpdatedAt   time.Time
}

// WorkspaceStore reads and writes workspaces by id. Get returns an error
// wrapping ErrNotFound for unknown ids.
type WorkspaceStore interface {
	Get(ctx context.Context, id string) (Workspace, error)
	Put(ctx context.Context, ws Workspace) error
}

// Conversation renders the workspace history as a prompt, one
// "role: text" line per message.
func (w Workspace) Conversation() string {
	var sb strings.Builder
	for _, m := range w.Messages {
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(string(m.Role()))
		sb.WriteString(": ")
		sb.WriteString(m.Content())
	}
	return sb.String()
}

// Apply returns a copy of w with doc accepted: the file map becomes the
// environment scaffold overlaid with the generated files, and the
// explanation is appended as an assistant message.
func (w Workspace) Apply(doc Document, now time.Time) Workspace {
	out := w
	out.Files = MergeFiles(w.Environment.Spec().DefaultFiles, doc.Files)
	out.Messages = append(append([]Message(nil), w.Messages...), AssistantMessage{Text: doc.Explanation})
	out.UpdatedAt = now
	return out
}

// DocumentChecker reports environment rule violations in a document.
type DocumentChecker interface {
	Check(doc Document, env Environment) []string
}
