package main

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntegrationUI(t *testing.T) {
	adminAddr := "127.0.0.1:8890" // Different port
	apiAddr := "127.0.0.1:8889"

	// Missing data file falls back to the demo conversation
	t.Setenv("DATA_SOURCE", filepath.Join(t.TempDir(), "missing.json"))
	t.Setenv("ADMIN_ADDR", adminAddr)
	t.Setenv("API_ADDR", apiAddr)
	t.Setenv("SESSION_DIR", t.TempDir())

	// Start server in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := run(ctx); err != nil {
			if err != context.Canceled {
				t.Errorf("Server error: %v", err)
			}
		}
	}()

	waitForServer(t, "http://"+adminAddr+"/healthz", 20)

	baseURL := "http://" + apiAddr
	client := &http.Client{}

	// 1. Page shows the sidebar and an empty chat area
	resp, err := client.Get(baseURL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	page := string(body)
	require.Contains(t, page, `id="conversationsList"`)
	require.Contains(t, page, `data-conversation-id="conv-fallback"`)
	require.Contains(t, page, "Demo Chat")
	require.Contains(t, page, "Welcome to the demo!")
	require.Contains(t, page, "Select a conversation")

	// 2. Static assets are served, source files are not
	resp, err = client.Get(baseURL + "/static/app.js")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(baseURL + "/static/static.go")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// 3. Selecting renders the thread into the page
	resp, err = client.Post(baseURL+"/api/conversations/conv-fallback/select", "", nil)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = client.Get(baseURL + "/")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	page = string(body)
	require.Contains(t, page, "Welcome to the chat application! 🎉")
	require.Contains(t, page, `class="message-sender">Bot<`)
	require.True(t, strings.Contains(page, "conversation-item active"))

	// 4. Fallback load is counted
	resp, err = client.Get("http://" + adminAddr + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `perepiska_data_loads_total{result="fallback"} 1`)
}
