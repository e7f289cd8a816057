package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate(t *testing.T) {
	t.Run("passes plain text through untouched", func(t *testing.T) {
		out, err := RenderTemplate("no placeholders here", map[string]any{"unused": 1})
		require.NoError(t, err)
		assert.Equal(t, "no placeholders here", out)
	})

	t.Run("substitutes placeholders", func(t *testing.T) {
		out, err := RenderTemplate("products: {{.products}}", map[string]any{"products": "SPY, AGG"})
		require.NoError(t, err)
		assert.Equal(t, "products: SPY, AGG", out)
	})

	t.Run("default fills missing values", func(t *testing.T) {
		out, err := RenderTemplate(`{{.products | default "SPY"}}`, map[string]any{})
		require.NoError(t, err)
		assert.Equal(t, "SPY", out)

		out, err = RenderTemplate(`{{.products | default "SPY"}}`, map[string]any{"products": "QQQ"})
		require.NoError(t, err)
		assert.Equal(t, "QQQ", out)
	})

	t.Run("case helpers", func(t *testing.T) {
		out, err := RenderTemplate("{{.ticker | upper}} {{.ticker | lower}}", map[string]any{"ticker": "Spy"})
		require.NoError(t, err)
		assert.Equal(t, "SPY spy", out)
	})

	t.Run("malformed template errors", func(t *testing.T) {
		_, err := RenderTemplate("{{.products", nil)
		assert.Error(t, err)
	})
}
