package forge

import (
	"fmt"
	"strings"
)

var errEmptyPrompt = fmt.Errorf("prompt must not be empty: %w", ErrValidation)

// GenerationRequest is one code generation call. It is constructed once
// per call and never mutated. An empty or unrecognized Environment
// selects EnvComponentApp.
type GenerationRequest struct {
	Prompt            string
	Environment       Environment
	PreferredProvider ProviderID // reordering hint; empty = configured order
}

// Validate checks universal constraints on GenerationRequest. The
// environment is not checked; see ResolveEnvironment.
func (r GenerationRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return errEmptyPrompt
	}
	if r.PreferredProvider != "" {
		if _, err := ParseProviderID(string(r.PreferredProvider)); err != nil {
			return err
		}
	}
	return nil
}

func codeGenRequest(prompt string, env Environment) Request {
	return Request{
		Mode:         ModeCodeGen,
		SystemPrompt: CodeGenSystemPrompt,
		History:      CodeGenExample,
		Prompt:       prompt + "\n\n" + env.Spec().CodeGenRules,
	}
}

func enhanceRequest(prompt string, env Environment) Request {
	spec := env.Spec()
	return Request{
		Mode:         ModePromptEnhance,
		SystemPrompt: ChatSystemPrompt,
		Prompt: strings.Join([]string{
			spec.EnhanceRules,
			"Environment: " + strings.ToUpper(spec.Name),
			"Original prompt: " + prompt,
		}, "\n"),
	}
}

func chatRequest(prompt string) Request {
	return Request{
		Mode:         ModeChat,
		SystemPrompt: ChatSystemPrompt,
		Prompt:       prompt + "\n\n" + ChatGuideline,
	}
}
