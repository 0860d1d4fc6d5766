package json

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/forge"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Error codes for failures that are not provider failures.
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeNotFound       = "NOT_FOUND"
)

// maxBodyBytes bounds decoded request bodies.
const maxBodyBytes = 1 << 20

type generationRequestDTO struct {
	Prompt            string `json:"prompt"`
	Environment       string `json:"environment"`
	PreferredProvider string `json:"preferredProvider,omitempty"`
}

// DecodeGenerationRequest reads a generation request body. Malformed JSON
// is reported as forge.ErrValidation; field checks are left to
// forge.GenerationRequest.Validate.
func DecodeGenerationRequest(r io.Reader) (forge.GenerationRequest, error) {
	var dto generationRequestDTO
	if err := decodeBody(r, &dto); err != nil {
		return forge.GenerationRequest{}, err
	}
	return forge.GenerationRequest{
		Prompt:            dto.Prompt,
		Environment:       forge.Environment(dto.Environment),
		PreferredProvider: forge.ProviderID(dto.PreferredProvider),
	}, nil
}

// PromptRequest is the body of enhance and chat requests.
type PromptRequest struct {
	Prompt      string `json:"prompt"`
	Environment string `json:"environment,omitempty"`
}

// DecodePromptRequest reads an enhance or chat request body.
func DecodePromptRequest(r io.Reader) (PromptRequest, error) {
	var req PromptRequest
	err := decodeBody(r, &req)
	return req, err
}

func decodeBody(r io.Reader, v any) error {
	if err := json.NewDecoder(io.LimitReader(r, maxBodyBytes)).Decode(v); err != nil {
		return fmt.Errorf("decode body: %v: %w", err, forge.ErrValidation)
	}
	return nil
}

type generationResponseDTO struct {
	ProjectTitle   string                                  `json:"projectTitle"`
	Explanation    string                                  `json:"explanation"`
	Files          *orderedmap.OrderedMap[string, fileDTO] `json:"files"`
	GeneratedFiles []string                                `json:"generatedFiles"`
	Provider       string                                  `json:"provider"`
	Warnings       []string                                `json:"warnings,omitempty"`
}

// MarshalGeneration serializes a successful generation result.
func MarshalGeneration(res forge.GenerationResult) ([]byte, error) {
	return json.Marshal(generationResponseDTO{
		ProjectTitle:   res.Document.ProjectTitle,
		Explanation:    res.Document.Explanation,
		Files:          filesMap(res.Document.Files),
		GeneratedFiles: nonNil(res.Document.GeneratedFiles),
		Provider:       string(res.Provider),
		Warnings:       res.Warnings,
	})
}

// MarshalEnhance serializes an enhance result.
func MarshalEnhance(res forge.EnhanceResult) ([]byte, error) {
	return json.Marshal(struct {
		EnhancedPrompt string `json:"enhancedPrompt"`
		Provider       string `json:"provider"`
	}{res.Prompt, string(res.Provider)})
}

// MarshalChat serializes a chat result.
func MarshalChat(res forge.ChatResult) ([]byte, error) {
	return json.Marshal(struct {
		Result   string `json:"result"`
		Provider string `json:"provider"`
	}{res.Text, string(res.Provider)})
}

// MarshalStatus serializes provider availability as one boolean per
// provider, in priority order, plus activeProvider (null when none).
func MarshalStatus(st forge.ProviderStatus, order []forge.ProviderID) ([]byte, error) {
	m := orderedmap.New[string, any](len(order) + 1)
	for _, id := range order {
		m.Set(string(id), st.Available[id])
	}
	if st.Active == "" {
		m.Set("activeProvider", nil)
	} else {
		m.Set("activeProvider", string(st.Active))
	}
	return json.Marshal(m)
}

// MarshalWorkspaceView serializes a workspace for API clients.
func MarshalWorkspaceView(ws forge.Workspace) ([]byte, error) {
	msgs := make([]messageDTO, 0, len(ws.Messages))
	for _, m := range ws.Messages {
		dto, err := marshalMessage(m)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, dto)
	}
	return json.Marshal(struct {
		ID          string                                  `json:"id"`
		Environment string                                  `json:"environment"`
		Messages    []messageDTO                            `json:"messages"`
		Files       *orderedmap.OrderedMap[string, fileDTO] `json:"fileData"`
		UpdatedAt   string                                  `json:"updatedAt"`
	}{
		ID:          ws.ID,
		Environment: string(ws.Environment),
		Messages:    msgs,
		Files:       filesMap(ws.Files),
		UpdatedAt:   ws.UpdatedAt.UTC().Format(time.RFC3339),
	})
}

type diagnosticDTO struct {
	Stage string `json:"stage"`
	Error string `json:"error"`
}

type errorDTO struct {
	Error             string          `json:"error"`
	Message           string          `json:"message"`
	Provider          string          `json:"provider,omitempty"`
	StopReason        string          `json:"stopReason,omitempty"`
	RawResponsePrefix string          `json:"rawResponsePrefix,omitempty"`
	Diagnostics       []diagnosticDTO `json:"diagnostics,omitempty"`
}

// ErrorCode returns the wire error code for err.
func ErrorCode(err error) string {
	if errors.Is(err, forge.ErrValidation) {
		return CodeInvalidRequest
	}
	if errors.Is(err, forge.ErrNotFound) {
		return CodeNotFound
	}
	return forge.ErrorKindOf(err).Code()
}

// MarshalError serializes err as an error body. Recovery failures carry
// the bounded raw prefix and per-stage diagnostics.
func MarshalError(err error) ([]byte, error) {
	dto := errorDTO{
		Error:    ErrorCode(err),
		Message:  err.Error(),
		Provider: string(forge.ProviderOf(err)),
	}
	var pe *forge.ProviderError
	if errors.As(err, &pe) {
		dto.Message = pe.Message
	}
	var re *forge.RecoveryError
	if errors.As(err, &re) {
		dto.StopReason = string(re.StopReason)
		dto.RawResponsePrefix = re.RawPrefix
		for _, d := range re.Diagnostics {
			dto.Diagnostics = append(dto.Diagnostics, diagnosticDTO{Stage: d.Stage, Error: d.Err})
		}
	}
	return json.Marshal(dto)
}
