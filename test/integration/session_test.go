package integration

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"toolgen/internal/application/port/output"
	"toolgen/internal/infrastructure/browser/rod"
	"toolgen/internal/infrastructure/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests launch a real headless browser. Run with -short to skip them
// on machines without Chrome.

func servePage(t *testing.T, body string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, body)
	}))
	t.Cleanup(server.Close)
	return server
}

func newSession(t *testing.T) output.SessionPort {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test needs a browser")
	}

	cfg := rod.DefaultConfig()
	cfg.Headless = true
	cfg.NoSandbox = true
	provider := rod.NewProvider(cfg, logger.Nop())

	session, err := provider.Open(context.Background())
	require.NoError(t, err)
	t.Cleanup(session.Close)

	return session
}

func TestSession_Navigate(t *testing.T) {
	server := servePage(t, `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body><h1>Hello World</h1></body>
</html>`)

	session := newSession(t)

	err := session.Navigate(context.Background(), server.URL, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, server.URL+"/", session.CurrentURL())
}

func TestSession_ExtractElements(t *testing.T) {
	server := servePage(t, `<!DOCTYPE html>
<html>
<body>
  <button id="save" class="primary">Save</button>
  <a href="/docs">Docs</a>
  <input type="password" placeholder="Password">
  <p>Not interactive</p>
</body>
</html>`)

	session := newSession(t)
	require.NoError(t, session.Navigate(context.Background(), server.URL, 10*time.Second))

	raw, err := session.ExtractElements(context.Background())
	require.NoError(t, err)
	require.Len(t, raw, 3)

	byTag := map[string]int{}
	for _, r := range raw {
		byTag[r.Tag]++
		assert.Positive(t, r.Width, "rendered elements report a size")
	}
	assert.Equal(t, 1, byTag["button"])
	assert.Equal(t, 1, byTag["a"])
	assert.Equal(t, 1, byTag["input"])
}

func TestSession_ClickAndFill(t *testing.T) {
	server := servePage(t, `<!DOCTYPE html>
<html>
<body>
  <input id="name" type="text">
  <button id="go" onclick="document.title='clicked'">Go</button>
</body>
</html>`)

	session := newSession(t)
	ctx := context.Background()
	require.NoError(t, session.Navigate(ctx, server.URL, 10*time.Second))

	ok, err := session.Exists(ctx, "#go")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = session.Exists(ctx, "#missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, session.Fill(ctx, "#name", "hello"))
	require.NoError(t, session.Click(ctx, "#go"))

	page, err := session.PageContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "clicked", page.Title)
}

func TestSession_Screenshot(t *testing.T) {
	server := servePage(t, `<!DOCTYPE html><html><body><h1>Shot</h1></body></html>`)

	session := newSession(t)
	ctx := context.Background()
	require.NoError(t, session.Navigate(ctx, server.URL, 10*time.Second))

	shot, err := session.Screenshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jpeg", shot.Format)
	assert.NotEmpty(t, shot.Data)
	assert.LessOrEqual(t, shot.Width, 1024)
}
