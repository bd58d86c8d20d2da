package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/pthm/rigor/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T, cfg config.Config) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv, err := buildServer(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.routes())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, ts *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func post(t *testing.T, ts *httptest.Server, path string, form url.Values) (int, string) {
	t.Helper()
	resp, err := http.PostForm(ts.URL+path, form)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestServer_Index(t *testing.T) {
	ts := newTestServer(t, config.Default())

	status, body := get(t, ts, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "<title>Rigor</title>")
	assert.Contains(t, body, `<main class="page"><h1>Rigor</h1>`)
	assert.Contains(t, body, `<a href="/live">Live demo</a>`)
}

func TestServer_Render(t *testing.T) {
	ts := newTestServer(t, config.Default())

	tests := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{"component with props", "/render/GodspeedYou?who=You", http.StatusOK, "<b>Godspeed you, You!</b>"},
		{"escaped props", "/render/GodspeedYou?who=%3Cx%3E", http.StatusOK, "<b>Godspeed you, &lt;x&gt;!</b>"},
		{"weakly typed props", "/render/Counter?start=3", http.StatusOK, `<button class="counter">Clicked 3</button>`},
		{"unknown component", "/render/Nope", http.StatusNotFound, "unknown component"},
		{"missing capability", "/render/Greeter", http.StatusUnprocessableEntity, "capability not provided"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := get(t, ts, tt.path)
			assert.Equal(t, tt.status, status)
			assert.Contains(t, body, tt.body)
		})
	}
}

func TestServer_Live(t *testing.T) {
	ts := newTestServer(t, config.Default())

	status, body := get(t, ts, "/live")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `<div id="live"><button class="counter">Clicked 0</button><p class="greeter">Hello, nobody</p></div>`)

	status, body = post(t, ts, "/live/click", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `<button class="counter">Clicked 0Clicked 1</button>`)

	status, _ = post(t, ts, "/emit/greet", url.Values{"data": {"Ada"}})
	require.Equal(t, http.StatusNoContent, status)

	status, body = post(t, ts, "/live/click", url.Values{"class": {"greeter"}})
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `<p class="greeter">Hello, nobodyHello, Ada</p>`)

	status, _ = post(t, ts, "/live/click", url.Values{"class": {"missing"}})
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestServer_LiveClearOnUpdate(t *testing.T) {
	cfg := config.Default()
	cfg.ClearOnUpdate = true
	ts := newTestServer(t, cfg)

	post(t, ts, "/live/click", nil)
	_, body := post(t, ts, "/live/click", nil)
	assert.Contains(t, body, `<button class="counter">Clicked 2</button>`)
}

func TestServer_Metrics(t *testing.T) {
	ts := newTestServer(t, config.Default())
	get(t, ts, "/render/GodspeedYou?who=x")
	post(t, ts, "/live/click", nil)

	status, body := get(t, ts, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `rigor_renders_total{backend="string"} 1`)
	assert.Contains(t, body, `rigor_events_total{event="click"} 1`)
	assert.Contains(t, body, "rigor_component_setups_total")
	assert.Contains(t, body, "go_goroutines")
}

func TestServer_RedisBridge(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	cfg := config.Default()
	cfg.ClearOnUpdate = true
	cfg.SigningKey = "test-key"
	cfg.Redis.Addr = mr.Addr()
	ts := newTestServer(t, cfg)

	status, _ := post(t, ts, "/emit/greet", url.Values{"data": {"Grace"}})
	require.Equal(t, http.StatusNoContent, status)

	_, body := post(t, ts, "/live/click", url.Values{"class": {"greeter"}})
	assert.Contains(t, body, `<p class="greeter">Hello, Grace</p>`)
}

func TestServer_SealedBridgeNeedsKey(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.Addr = "localhost:0"
	cfg.Redis.Sealed = true

	_, err := buildServer(context.Background(), cfg, zap.NewNop())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "signing_key"))
}
