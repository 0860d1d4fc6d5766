package anthropic

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

// Client implements [forge.Provider] for the Anthropic Messages API.
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

// WithBaseURL sets the API base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a new Anthropic [Client] with the given API key and options.
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

// ID returns forge.ProviderAnthropic.
func (c *Client) ID() forge.ProviderID { return forge.ProviderAnthropic }

// Configured reports whether the client has an API key.
func (c *Client) Configured() bool { return c.apiKey != "" }

// Complete sends req to the Messages API and collects the streamed reply.
func (c *Client) Complete(ctx context.Context, req forge.Request) (forge.Completion, error) {
	if !c.Configured() {
		return forge.Completion{}, &forge.ProviderError{
			Kind: forge.KindUnavailable, Provider: forge.ProviderAnthropic, Message: "api key not configured",
		}
	}
	body, err := json.Marshal(c.buildRequest(req))
	if err != nil {
		return forge.Completion{}, &forge.ProviderError{
			Kind: forge.KindUnknown, Provider: forge.ProviderAnthropic, Message: "marshal request: " + err.Error(), Err: err,
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+messagesPath, bytes.NewReader(body))
	if err != nil {
		return forge.Completion{}, &forge.ProviderError{
			Kind: forge.KindUnknown, Provider: forge.ProviderAnthropic, Message: "create request: " + err.Error(), Err: err,
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", c.apiKey)
	httpReq.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return forge.Completion{}, forge.TransportError(forge.ProviderAnthropic, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return forge.Completion{}, parseHTTPError(resp)
	}
	return collect(resp.Body)
}

func (c *Client) buildRequest(req forge.Request) apiRequest {
	p := req.Mode.Params()
	msgs := convertMessages(req.History)
	msgs = append(msgs, apiMessage{Role: "user", Content: []apiContentBlock{{Type: "text", Text: req.Prompt}}})
	r := apiRequest{
		Model:       c.model,
		MaxTokens:   p.MaxTokens,
		Stream:      true,
		Messages:    msgs,
		Temperature: p.Temperature,
		TopK:        p.TopK,
	}
	if req.SystemPrompt != "" {
		r.System = []apiContentBlock{{Type: "text", Text: req.SystemPrompt}}
	}
	return r
}

func convertMessages(msgs []forge.Message) []apiMessage {
	var result []apiMessage
	for _, msg := range msgs {
		switch m := msg.(type) {
		case forge.UserMessage:
			result = append(result, apiMessage{Role: "user", Content: []apiContentBlock{{Type: "text", Text: m.Text}}})
		case forge.AssistantMessage:
			result = append(result, apiMessage{Role: "assistant", Content: []apiContentBlock{{Type: "text", Text: m.Text}}})
		}
	}
	return result
}

func parseHTTPError(resp *http.Response) error {
	kind := forge.KindFromStatus(resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &forge.ProviderError{
			Kind: kind, Provider: forge.ProviderAnthropic,
			Message: fmt.Sprintf("HTTP %d (failed to read body: %v)", resp.StatusCode, err), Err: err,
		}
	}
	var apiErr apiErrorResponse
	if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Type == "" {
		return &forge.ProviderError{
			Kind: kind, Provider: forge.ProviderAnthropic,
			Message: fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body)),
		}
	}
	if k := kindFromErrorType(apiErr.Error.Type); k != forge.KindUnknown {
		kind = k
	}
	return &forge.ProviderError{
		Kind: kind, Provider: forge.ProviderAnthropic,
		Message: fmt.Sprintf("%s: %s", apiErr.Error.Type, apiErr.Error.Message),
	}
}

// kindFromErrorType maps the API's error.type values.
func kindFromErrorType(t string) forge.ErrorKind {
	switch t {
	case "rate_limit_error":
		return forge.KindQuotaExceeded
	case "authentication_error", "permission_error":
		return forge.KindUnavailable
	case "invalid_request_error", "not_found_error", "request_too_large":
		return forge.KindMalformed
	case "api_error", "overloaded_error", "timeout_error":
		return forge.KindTransient
	default:
		return forge.KindUnknown
	}
}
