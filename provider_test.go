package forge_test

import (
	"testing"

	"github.com/fwojciec/forge"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProviderID(t *testing.T) {
	t.Parallel()

	t.Run("known names are case-insensitive", func(t *testing.T) {
		t.Parallel()
		id, err := forge.ParseProviderID(" Gemini ")
		require.NoError(t, err)
		assert.Equal(t, forge.ProviderGemini, id)

		id, err = forge.ParseProviderID("DEEPSEEK")
		require.NoError(t, err)
		assert.Equal(t, forge.ProviderDeepSeek, id)
	})

	t.Run("unknown name is a validation error", func(t *testing.T) {
		t.Parallel()
		_, err := forge.ParseProviderID("openai")
		assert.ErrorIs(t, err, forge.ErrValidation)
	})
}

func TestGenerationRequest_Validate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		req     forge.GenerationRequest
		wantErr bool
	}{
		{"valid", forge.GenerationRequest{Prompt: "todo app", Environment: forge.EnvComponentApp}, false},
		{"alias environment", forge.GenerationRequest{Prompt: "blog", Environment: "wordpress"}, false},
		{"preferred provider", forge.GenerationRequest{Prompt: "x", Environment: forge.EnvStaticSite, PreferredProvider: forge.ProviderDeepSeek}, false},
		{"empty prompt", forge.GenerationRequest{Prompt: "  ", Environment: forge.EnvComponentApp}, true},
		{"empty environment", forge.GenerationRequest{Prompt: "x"}, false},
		{"unknown environment", forge.GenerationRequest{Prompt: "x", Environment: "rails"}, false},
		{"unknown provider", forge.GenerationRequest{Prompt: "x", Environment: forge.EnvStaticSite, PreferredProvider: "openai"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.req.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, forge.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}
