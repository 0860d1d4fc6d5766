package forge_test

import (
	"testing"

	"github.com/fwojciec/forge"
	"github.com/stretchr/testify/assert"
)

func TestDefaultTheme(t *testing.T) {
	t.Parallel()

	theme := forge.DefaultTheme()

	assert.Equal(t, 5, theme.Accent)
	assert.Equal(t, 4, theme.Path)
	assert.Equal(t, 3, theme.Warning)
	assert.Equal(t, 1, theme.Error)
	assert.Equal(t, 2, theme.Success)
	assert.Equal(t, 8, theme.Muted)
}

func TestPlainTheme(t *testing.T) {
	t.Parallel()

	theme := forge.PlainTheme()

	for _, c := range []int{theme.Accent, theme.Path, theme.Warning, theme.Error, theme.Success, theme.Muted} {
		assert.Negative(t, c)
	}
}
