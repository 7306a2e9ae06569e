package domfallback

import (
	"context"
	"testing"

	"toolgen/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<body>
  <nav><a href="/docs">Documentation</a></nav>
  <form>
    <input type="email" placeholder="Email address">
    <input type="password" placeholder="Password">
    <button aria-label="Submit login">Sign in</button>
  </form>
  <div role="button">Open menu</div>
</body>
</html>`

func detect(t *testing.T, html string) *entity.Detection {
	t.Helper()
	d := New()
	result, err := d.Detect(context.Background(), nil, &entity.PageContext{HTML: html})
	require.NoError(t, err)
	return result
}

func TestDetect_NoPageContext(t *testing.T) {
	d := New()

	_, err := d.Detect(context.Background(), nil, nil)
	assert.Error(t, err)

	_, err = d.Detect(context.Background(), nil, &entity.PageContext{})
	assert.Error(t, err)
}

func TestDetect_ElementTypes(t *testing.T) {
	result := detect(t, samplePage)

	assert.Equal(t, "dom-heuristic", result.Method)
	assert.Equal(t, 0.6, result.Confidence)

	types := map[string]int{}
	for _, el := range result.Elements {
		types[el.Type]++
	}
	assert.Equal(t, 1, types["nav"])
	assert.Equal(t, 1, types["link"])
	assert.Equal(t, 1, types["input"], "email input stays a plain input")
	assert.Equal(t, 1, types["login_form"], "password input marks a login form")
	assert.Equal(t, 2, types["button"], "explicit button plus role=button")
}

func TestDetect_Labels(t *testing.T) {
	result := detect(t, samplePage)

	labels := map[string]string{}
	for _, el := range result.Elements {
		if labels[el.Type] == "" {
			labels[el.Type] = el.Label
		}
	}
	assert.Equal(t, "Password", labels["login_form"], "placeholder is used when no aria-label")
	assert.Equal(t, "Submit login", labels["button"], "aria-label wins over visible text")
	assert.Equal(t, "Documentation", labels["link"], "text content is the fallback label")
}

func TestDetect_EmptyBody(t *testing.T) {
	result := detect(t, "<html><body><p>Nothing interactive</p></body></html>")

	assert.Empty(t, result.Elements)
	assert.Equal(t, 0.6, result.Confidence)
}
