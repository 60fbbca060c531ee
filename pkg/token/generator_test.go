package token_test

import (
	"strings"
	"testing"

	"github.com/quansight/conda-store-operator/pkg/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("default length", func(t *testing.T) {
		tok, err := token.New(0)
		require.NoError(t, err)
		assert.Len(t, tok, token.DefaultLength)
	})

	t.Run("explicit length", func(t *testing.T) {
		tok, err := token.New(64)
		require.NoError(t, err)
		assert.Len(t, tok, 64)
	})

	t.Run("alphanumeric only", func(t *testing.T) {
		tok, err := token.New(256)
		require.NoError(t, err)
		for _, r := range tok {
			ok := (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
			assert.True(t, ok, "unexpected character %q in token", r)
		}
	})

	t.Run("tokens differ", func(t *testing.T) {
		a, err := token.New(32)
		require.NoError(t, err)
		b, err := token.New(32)
		require.NoError(t, err)
		assert.NotEqual(t, a, b)
	})
}

func TestRenderReveal(t *testing.T) {
	raw, err := token.New(32)
	require.NoError(t, err)

	rendered := token.Render(raw)
	assert.NotEqual(t, raw, rendered)

	back, err := token.Reveal(rendered)
	require.NoError(t, err)
	assert.Equal(t, raw, back)
}

func TestRevealInvalid(t *testing.T) {
	_, err := token.Reveal("not&base64!")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "decode"))
}
