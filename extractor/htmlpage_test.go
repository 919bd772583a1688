package extractor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const problemHTML = `<!DOCTYPE html>
<html>
<head><title>Two Sum - LeetCode</title><style>.x{}</style></head>
<body>
	<script>window.__data = {"secret": true}</script>
	<div data-cy="question-title">1. Two Sum</div>
	<div class="elfjS"><p>Given an array of integers <code>nums</code>.</p></div>
	<div hidden>hidden attr</div>
	<span style="display: none">display none</span>
	<span style="Visibility:Hidden">visibility hidden</span>
	<noscript>enable js</noscript>
	<footer>Copyright</footer>
</body>
</html>`

func TestHTMLPage_ElementText(t *testing.T) {
	t.Parallel()

	page, err := NewHTMLPageString(problemHTML)
	require.NoError(t, err)
	ctx := context.Background()

	text, ok, err := page.ElementText(ctx, `[data-cy="question-title"]`)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1. Two Sum", text)

	_, ok, err = page.ElementText(ctx, `.question-content`)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = page.ElementText(ctx, `[[[`)
	assert.Error(t, err)
}

func TestHTMLPage_WaitElement(t *testing.T) {
	t.Parallel()

	page, err := NewHTMLPageString(problemHTML)
	require.NoError(t, err)

	assert.NoError(t, page.WaitElement(context.Background(), `h1, [data-cy="question-title"]`, time.Second))
	assert.Error(t, page.WaitElement(context.Background(), `h2`, time.Second))
}

func TestHTMLPage_VisibleText(t *testing.T) {
	t.Parallel()

	page, err := NewHTMLPageString(problemHTML)
	require.NoError(t, err)

	text, err := page.VisibleText(context.Background())
	require.NoError(t, err)

	assert.Contains(t, text, "1. Two Sum")
	assert.Contains(t, text, "nums")
	assert.Contains(t, text, "Copyright")
	for _, hidden := range []string{"secret", "hidden attr", "display none", "visibility hidden", "enable js", "LeetCode"} {
		assert.NotContains(t, text, hidden)
	}
}

func TestHTMLPage_DefaultChain(t *testing.T) {
	t.Parallel()

	page, err := NewHTMLPageString(problemHTML)
	require.NoError(t, err)

	got := Default(nil).Extract(context.Background(), page)

	assert.Equal(t, "1. Two Sum", got.Title)
	assert.Equal(t, "Given an array of integers nums.", got.Description)
}
