package forge

// Mode selects generation parameters for a provider call. It never changes
// how the pipeline treats the result.
type Mode int

const (
	ModeChat Mode = iota
	ModeCodeGen
	ModePromptEnhance
)

// String returns the mode name used in logs and metrics.
func (m Mode) String() string {
	switch m {
	case ModeChat:
		return "chat"
	case ModeCodeGen:
		return "code_gen"
	case ModePromptEnhance:
		return "prompt_enhance"
	default:
		return "unknown"
	}
}

// Params holds the generation parameters for a mode. Providers apply them
// where their API has an equivalent and may substitute their own output
// ceiling.
type Params struct {
	Temperature float64
	TopP        float64
	TopK        int
	MaxTokens   int
	MimeType    string // expected response mime hint
}

// Params returns the generation parameters for m.
func (m Mode) Params() Params {
	switch m {
	case ModeCodeGen:
		return Params{Temperature: 1, TopP: 0.95, TopK: 40, MaxTokens: 10192, MimeType: "application/json"}
	case ModePromptEnhance:
		return Params{Temperature: 0.7, TopP: 0.8, TopK: 40, MaxTokens: 1000, MimeType: "application/json"}
	default:
		return Params{Temperature: 1, TopP: 0.95, TopK: 40, MaxTokens: 8192, MimeType: "text/plain"}
	}
}
