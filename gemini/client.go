package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/fwojciec/forge"
	"google.golang.org/genai"
)

// Interface compliance check.
var _ forge.Provider = (*Client)(nil)

// Client implements [forge.Provider] for the Google Gemini API.
type Client struct {
	client     *genai.Client
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID. Default is gemini-2.0-flash.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithBaseURL overrides the API endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new Gemini [Client] with the given API key and options.
// An empty key yields a client that reports itself unconfigured.
func New(ctx context.Context, apiKey string, opts ...Option) (*Client, error) {
	c := &Client{model: defaultModel}
	for _, o := range opts {
		o(c)
	}
	if apiKey == "" {
		return c, nil
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: c.httpClient,
	}
	if c.baseURL != "" {
		cfg.HTTPOptions.BaseURL = c.baseURL
	}
	gc, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	c.client = gc
	return c, nil
}

// ID returns forge.ProviderGemini.
func (c *Client) ID() forge.ProviderID { return forge.ProviderGemini }

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool { return c.client != nil }

// Complete sends req as one GenerateContent call.
func (c *Client) Complete(ctx context.Context, req forge.Request) (forge.Completion, error) {
	if c.client == nil {
		return forge.Completion{}, &forge.ProviderError{
			Kind: forge.KindUnavailable, Provider: forge.ProviderGemini, Message: "api key not configured",
		}
	}
	contents := append(ConvertMessages(req.History), genai.NewContentFromText(req.Prompt, genai.RoleUser))
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, buildConfig(req))
	if err != nil {
		return forge.Completion{}, convertError(err)
	}
	return ConvertResponse(resp), nil
}

func buildConfig(req forge.Request) *genai.GenerateContentConfig {
	p := req.Mode.Params()
	temp := float32(p.Temperature)
	topP := float32(p.TopP)
	topK := float32(p.TopK)
	config := &genai.GenerateContentConfig{
		Temperature:      &temp,
		TopP:             &topP,
		TopK:             &topK,
		MaxOutputTokens:  int32(p.MaxTokens),
		ResponseMIMEType: p.MimeType,
	}
	if req.SystemPrompt != "" {
		config.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemPrompt}},
		}
	}
	return config
}

// ConvertMessages converts forge Messages to genai Contents.
// Exported for testing.
func ConvertMessages(msgs []forge.Message) []*genai.Content {
	var result []*genai.Content
	for _, msg := range msgs {
		switch m := msg.(type) {
		case forge.UserMessage:
			result = append(result, genai.NewContentFromText(m.Text, genai.RoleUser))
		case forge.AssistantMessage:
			result = append(result, genai.NewContentFromText(m.Text, genai.RoleModel))
		}
	}
	return result
}

// ConvertResponse extracts the completion from a GenerateContent response.
// Thought parts are skipped. Exported for testing.
func ConvertResponse(resp *genai.GenerateContentResponse) forge.Completion {
	out := forge.Completion{Provider: forge.ProviderGemini, StopReason: forge.StopUnknown}
	if resp == nil {
		return out
	}
	if len(resp.Candidates) > 0 && resp.Candidates[0] != nil {
		cand := resp.Candidates[0]
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if part != nil && !part.Thought {
					out.Text += part.Text
				}
			}
		}
		out.StopReason = mapFinishReason(cand.FinishReason)
	}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = forge.Usage{
			InputTokens:  max(int(u.PromptTokenCount), 0),
			OutputTokens: max(int(u.CandidatesTokenCount), 0),
		}
	}
	return out
}

func mapFinishReason(r genai.FinishReason) forge.StopReason {
	switch r {
	case genai.FinishReasonStop:
		return forge.StopEndTurn
	case genai.FinishReasonMaxTokens:
		return forge.StopLength
	case "":
		return forge.StopUnknown
	default:
		return forge.StopError
	}
}

// convertError maps SDK errors to a classified provider error. API errors
// carry an HTTP status; anything else never reached the API and is a
// transport failure.
func convertError(err error) error {
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &apiErrPtr) && apiErrPtr != nil:
		apiErr = *apiErrPtr
	default:
		return forge.TransportError(forge.ProviderGemini, err)
	}
	kind := forge.KindFromStatus(apiErr.Code)
	if kind == forge.KindUnknown {
		kind = forge.Classify(forge.ProviderGemini, apiErr.Message)
	}
	return &forge.ProviderError{
		Kind:     kind,
		Provider: forge.ProviderGemini,
		Message:  fmt.Sprintf("%d %s: %s", apiErr.Code, apiErr.Status, apiErr.Message),
		Err:      err,
	}
}
