package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fwojciec/forge"
	"github.com/fwojciec/forge/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func TestConvertMessages(t *testing.T) {
	t.Parallel()
	got := gemini.ConvertMessages([]forge.Message{
		forge.UserMessage{Text: "Hello"},
		forge.AssistantMessage{Text: "Let me help."},
	})
	require.Len(t, got, 2)
	assert.Equal(t, "user", got[0].Role)
	require.Len(t, got[0].Parts, 1)
	assert.Equal(t, "Hello", got[0].Parts[0].Text)
	assert.Equal(t, "model", got[1].Role)
	assert.Equal(t, "Let me help.", got[1].Parts[0].Text)
}

func TestConvertResponse(t *testing.T) {
	t.Parallel()

	t.Run("joins text parts and skips thoughts", func(t *testing.T) {
		t.Parallel()
		got := gemini.ConvertResponse(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []*genai.Part{
					{Text: "thinking...", Thought: true},
					{Text: "Hello"},
					{Text: " world"},
				}},
				FinishReason: genai.FinishReasonStop,
			}},
			UsageMetadata: &genai.GenerateContentResponseUsageMetadata{
				PromptTokenCount:     10,
				CandidatesTokenCount: 8,
			},
		})
		assert.Equal(t, forge.ProviderGemini, got.Provider)
		assert.Equal(t, "Hello world", got.Text)
		assert.Equal(t, forge.StopEndTurn, got.StopReason)
		assert.Equal(t, forge.Usage{InputTokens: 10, OutputTokens: 8}, got.Usage)
	})

	t.Run("max tokens is a length stop", func(t *testing.T) {
		t.Parallel()
		got := gemini.ConvertResponse(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content:      &genai.Content{Parts: []*genai.Part{{Text: `{"files": {`}}},
				FinishReason: genai.FinishReasonMaxTokens,
			}},
		})
		assert.Equal(t, forge.StopLength, got.StopReason)
	})

	t.Run("safety stop is an error stop", func(t *testing.T) {
		t.Parallel()
		got := gemini.ConvertResponse(&genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		})
		assert.Equal(t, forge.StopError, got.StopReason)
		assert.Empty(t, got.Text)
	})

	t.Run("no candidates", func(t *testing.T) {
		t.Parallel()
		got := gemini.ConvertResponse(&genai.GenerateContentResponse{})
		assert.Equal(t, forge.StopUnknown, got.StopReason)
	})
}

func TestClient_Unconfigured(t *testing.T) {
	t.Parallel()
	c, err := gemini.New(context.Background(), "")
	require.NoError(t, err)
	assert.False(t, c.Configured())
	assert.Equal(t, forge.ProviderGemini, c.ID())

	_, err = c.Complete(context.Background(), forge.Request{Prompt: "hi"})
	assert.Equal(t, forge.KindUnavailable, forge.ErrorKindOf(err))
}

func TestClient_Complete(t *testing.T) {
	t.Parallel()
	var body map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "gemini-2.0-flash:generateContent"), r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "{\"projectTitle\": \"X\"}"}]}, "finishReason": "STOP"}],
			"usageMetadata": {"promptTokenCount": 12, "candidatesTokenCount": 7}
		}`))
	}))
	defer server.Close()

	c, err := gemini.New(context.Background(), "test-key", gemini.WithBaseURL(server.URL))
	require.NoError(t, err)
	require.True(t, c.Configured())

	got, err := c.Complete(context.Background(), forge.Request{
		Mode:         forge.ModeCodeGen,
		SystemPrompt: "be precise",
		History:      []forge.Message{forge.UserMessage{Text: "example"}, forge.AssistantMessage{Text: "{}"}},
		Prompt:       "make a todo app",
	})
	require.NoError(t, err)

	assert.Equal(t, `{"projectTitle": "X"}`, got.Text)
	assert.Equal(t, forge.StopEndTurn, got.StopReason)
	assert.Equal(t, forge.Usage{InputTokens: 12, OutputTokens: 7}, got.Usage)

	contents := body["contents"].([]interface{})
	require.Len(t, contents, 3)
	last := contents[2].(map[string]interface{})
	assert.Equal(t, "user", last["role"])
	cfg := body["generationConfig"].(map[string]interface{})
	assert.Equal(t, float64(10192), cfg["maxOutputTokens"])
	assert.Equal(t, "application/json", cfg["responseMimeType"])
	assert.NotNil(t, body["systemInstruction"])
}

func TestClient_Complete_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		status int
		body   string
		want   forge.ErrorKind
	}{
		{"quota", http.StatusTooManyRequests, `{"error": {"code": 429, "message": "Resource has been exhausted", "status": "RESOURCE_EXHAUSTED"}}`, forge.KindQuotaExceeded},
		{"bad key", http.StatusForbidden, `{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`, forge.KindUnavailable},
		{"bad request", http.StatusBadRequest, `{"error": {"code": 400, "message": "Invalid JSON payload", "status": "INVALID_ARGUMENT"}}`, forge.KindMalformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c, err := gemini.New(context.Background(), "test-key", gemini.WithBaseURL(server.URL))
			require.NoError(t, err)
			_, err = c.Complete(context.Background(), forge.Request{Prompt: "hi"})

			var pe *forge.ProviderError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.want, pe.Kind)
			assert.Equal(t, forge.ProviderGemini, pe.Provider)
		})
	}
}

func TestClient_Complete_ConnectionRefused(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	c, err := gemini.New(context.Background(), "test-key", gemini.WithBaseURL(server.URL))
	require.NoError(t, err)
	_, err = c.Complete(context.Background(), forge.Request{Prompt: "hi"})

	var pe *forge.ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, forge.KindUnknown, pe.Kind)
	assert.Equal(t, forge.ProviderGemini, pe.Provider)
}
