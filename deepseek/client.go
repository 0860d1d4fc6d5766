package deepseek

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/fwojciec/forge"
)

// Interface compliance check.
var _ forge.Provider = (*Client)(nil)

// Client implements [forge.Provider] for DeepSeek.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a [Client].
type Option func(*Client)

// WithModel sets the model ID.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

// WithBaseURL sets the API base URL, up to and including "/v1".
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a DeepSeek [Client]. An empty apiKey yields a client that
// reports itself unconfigured.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		model:      defaultModel,
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ID returns forge.ProviderDeepSeek.
func (c *Client) ID() forge.ProviderID { return forge.ProviderDeepSeek }

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Complete sends one non-streaming chat completion request.
func (c *Client) Complete(ctx context.Context, req forge.Request) (forge.Completion, error) {
	if !c.Configured() {
		return forge.Completion{}, &forge.ProviderError{
			Kind: forge.KindUnavailable, Provider: forge.ProviderDeepSeek, Message: "api key not configured",
		}
	}
	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return forge.Completion{}, &forge.ProviderError{
			Kind: forge.KindUnknown, Provider: forge.ProviderDeepSeek, Message: "marshal request: " + err.Error(), Err: err,
		}
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionsPath, bytes.NewReader(body))
	if err != nil {
		return forge.Completion{}, &forge.ProviderError{
			Kind: forge.KindUnknown, Provider: forge.ProviderDeepSeek, Message: "create request: " + err.Error(), Err: err,
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return forge.Completion{}, forge.TransportError(forge.ProviderDeepSeek, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return forge.Completion{}, parseHTTPError(resp)
	}

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return forge.Completion{}, &forge.ProviderError{
			Kind: forge.KindMalformed, Provider: forge.ProviderDeepSeek,
			Message: "decode response: " + err.Error(), Err: err,
		}
	}
	if len(out.Choices) == 0 {
		return forge.Completion{}, &forge.ProviderError{
			Kind: forge.KindMalformed, Provider: forge.ProviderDeepSeek, Message: "response has no choices",
		}
	}
	choice := out.Choices[0]
	return forge.Completion{
		Provider:   forge.ProviderDeepSeek,
		Text:       choice.Message.Content,
		StopReason: mapFinishReason(choice.FinishReason),
		Usage: forge.Usage{
			InputTokens:  out.Usage.PromptTokens,
			OutputTokens: out.Usage.CompletionTokens,
		},
	}, nil
}

func (c *Client) buildRequest(req forge.Request) apiRequest {
	r := apiRequest{
		Model:       c.model,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
	}
	if req.Mode == forge.ModeCodeGen {
		r.Temperature = codeGenTemperature
		r.MaxTokens = codeGenMaxTokens
	}
	if req.SystemPrompt != "" {
		r.Messages = append(r.Messages, apiMessage{Role: "system", Content: req.SystemPrompt})
	}
	r.Messages = append(r.Messages, convertMessages(req.History)...)
	r.Messages = append(r.Messages, apiMessage{Role: "user", Content: req.Prompt})
	return r
}

// convertMessages converts forge history into chat completion messages.
func convertMessages(msgs []forge.Message) []apiMessage {
	var result []apiMessage
	for _, msg := range msgs {
		switch m := msg.(type) {
		case forge.UserMessage:
			result = append(result, apiMessage{Role: "user", Content: m.Text})
		case forge.AssistantMessage:
			result = append(result, apiMessage{Role: "assistant", Content: m.Text})
		}
	}
	return result
}

func parseHTTPError(resp *http.Response) error {
	kind := forge.KindFromStatus(resp.StatusCode)
	if resp.StatusCode == insufficientBalance {
		kind = forge.KindQuotaExceeded
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	msg := string(body)
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		msg = apiErr.Error.Message
	}
	if kind == forge.KindUnknown {
		kind = forge.Classify(forge.ProviderDeepSeek, msg)
	}
	return &forge.ProviderError{
		Kind: kind, Provider: forge.ProviderDeepSeek,
		Message: fmt.Sprintf("API error %d: %s", resp.StatusCode, msg),
	}
}

func mapFinishReason(raw string) forge.StopReason {
	switch raw {
	case "stop":
		return forge.StopEndTurn
	case "length":
		return forge.StopLength
	case "content_filter", "insufficient_system_resource":
		return forge.StopError
	default:
		return forge.StopUnknown
	}
}
