// Package deepseek implements [forge.Provider] for the DeepSeek
// OpenAI-compatible chat completions API using raw net/http.
package deepseek

const (
	defaultBaseURL  = "https://api.deepseek.com/v1"
	defaultModel    = "deepseek-coder"
	completionsPath = "/chat/completions"

	maxErrorBodyBytes = 2048

	// insufficientBalance is the status DeepSeek returns when the account
	// is out of credit.
	insufficientBalance = 402
)

// DeepSeek applies its own sampling and output ceiling per mode.
const (
	codeGenTemperature = 0.7
	defaultTemperature = 0.8
	codeGenMaxTokens   = 12000
	defaultMaxTokens   = 4000
)

type apiRequest struct {
	Model       string       `json:"model"`
	Messages    []apiMessage `json:"messages"`
	Temperature float64      `json:"temperature"`
	MaxTokens   int          `json:"max_tokens"`
	Stream      bool         `json:"stream"`
}

type apiMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type apiResponse struct {
	Choices []apiChoice `json:"choices"`
	Usage   apiUsage    `json:"usage"`
}

type apiChoice struct {
	Message      apiMessage `json:"message"`
	FinishReason string     `json:"finish_reason"`
}

type apiUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type apiErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}
