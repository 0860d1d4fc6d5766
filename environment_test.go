package forge_test

import (
	"testing"

	"github.com/fwojciec/forge"
	"github.com/stretchr/testify/assert"
)

func TestParseEnvironment(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want forge.Environment
		ok   bool
	}{
		{"component-app", forge.EnvComponentApp, true},
		{"Templated-Site", forge.EnvTemplatedSite, true},
		{"static-site", forge.EnvStaticSite, true},
		{"react", forge.EnvComponentApp, true},
		{"WordPress", forge.EnvTemplatedSite, true},
		{"html", forge.EnvStaticSite, true},
		{"", "", false},
		{"rails", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, ok := forge.ParseEnvironment(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveEnvironment_FallsBackToComponentApp(t *testing.T) {
	t.Parallel()
	assert.Equal(t, forge.EnvComponentApp, forge.ResolveEnvironment(""))
	assert.Equal(t, forge.EnvComponentApp, forge.ResolveEnvironment("rails"))
	assert.Equal(t, forge.EnvTemplatedSite, forge.ResolveEnvironment("wordpress"))
}

func TestEnvironment_Spec(t *testing.T) {
	t.Parallel()
	for _, env := range []forge.Environment{forge.EnvComponentApp, forge.EnvTemplatedSite, forge.EnvStaticSite} {
		t.Run(string(env), func(t *testing.T) {
			t.Parallel()
			spec := env.Spec()
			assert.Equal(t, env, spec.ID)
			assert.NotEmpty(t, spec.Name)
			assert.Contains(t, spec.CodeGenRules, `"generatedFiles"`)
			assert.Contains(t, spec.EnhanceRules, "300 words")
			assert.NotEmpty(t, spec.DefaultFiles)
			assert.NotEmpty(t, spec.ForbiddenPaths)
		})
	}
}
