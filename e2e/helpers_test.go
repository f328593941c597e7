//go:build e2e

package e2e

import (
	"fmt"
	"net"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
)

const testData = `{
  "conversations": [
    {
      "id": "conv-alice",
      "name": "Alice Smith",
      "type": "private",
      "participants": ["user1", "user2"],
      "last_message": "Are you coming?",
      "last_message_time": "2024-03-15T10:00:00Z",
      "messages": [
        {"id": "m1", "user_id": "user2", "username": "Alice Smith", "content": "Are you coming?", "message_type": "text", "timestamp": "2024-03-15T10:00:00Z"}
      ]
    },
    {
      "id": "conv-team",
      "name": "Project Team",
      "type": "group",
      "participants": ["user1", "user2", "user3"],
      "messages": [
        {"id": "m2", "user_id": "user3", "username": "Bob", "content": "Standup notes", "message_type": "pdf", "timestamp": "2024-03-15T09:00:00Z",
         "file_data": {"url": "#", "file_name": "notes.pdf", "file_size": 1536, "mime_type": "application/pdf"}}
      ]
    }
  ]
}`

type TestServer struct {
	APIAddr    string
	AdminAddr  string
	BaseURL    string
	SessionDir string
	Cmd        *exec.Cmd
}

func getFreePort(t *testing.T) int {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	require.NoError(t, err)

	l, err := net.ListenTCP("tcp", addr)
	require.NoError(t, err)
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port
}

// startServer runs the binary against dataSource. An empty dataSource uses the
// bundled test conversations.
func startServer(t *testing.T, dataSource string) *TestServer {
	apiPort := getFreePort(t)
	adminPort := getFreePort(t)
	apiAddr := fmt.Sprintf("localhost:%d", apiPort)
	adminAddr := fmt.Sprintf("localhost:%d", adminPort)
	baseURL := fmt.Sprintf("http://%s", apiAddr)

	sessionDir, err := os.MkdirTemp("", "perepiska-e2e-*")
	require.NoError(t, err)

	if dataSource == "" {
		dataSource = filepath.Join(sessionDir, "conversations.json")
		require.NoError(t, os.WriteFile(dataSource, []byte(testData), 0600))
	}

	cmd := exec.Command(serverBinPath)
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("API_ADDR=%s", apiAddr),
		fmt.Sprintf("ADMIN_ADDR=%s", adminAddr),
		fmt.Sprintf("DATA_SOURCE=%s", dataSource),
		fmt.Sprintf("SESSION_DIR=%s", sessionDir),
	)

	// Redirect output to stdout/stderr for debugging if needed
	// cmd.Stdout = os.Stdout
	// cmd.Stderr = os.Stderr

	err = cmd.Start()
	require.NoError(t, err)

	// Wait for server to be ready
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", apiAddr, 100*time.Millisecond)
		if err == nil {
			_ = conn.Close()
			return true
		}
		return false
	}, 5*time.Second, 200*time.Millisecond, "Server failed to start")

	return &TestServer{
		APIAddr:    apiAddr,
		AdminAddr:  adminAddr,
		BaseURL:    baseURL,
		SessionDir: sessionDir,
		Cmd:        cmd,
	}
}

func (s *TestServer) Stop() {
	if s.Cmd != nil && s.Cmd.Process != nil {
		_ = s.Cmd.Process.Kill()
	}
	if s.SessionDir != "" {
		_ = os.RemoveAll(s.SessionDir)
	}
}

func setupPlaywright(t *testing.T) (*playwright.Playwright, playwright.Browser) {
	pw, err := playwright.Run()
	require.NoError(t, err)

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	require.NoError(t, err)

	return pw, browser
}

func openApp(t *testing.T, browser playwright.Browser, server *TestServer) playwright.Page {
	context, err := browser.NewContext()
	require.NoError(t, err)
	page, err := context.NewPage()
	require.NoError(t, err)

	_, err = page.Goto(server.BaseURL + "/")
	require.NoError(t, err)

	err = page.Locator("#conversationsList").WaitFor(playwright.LocatorWaitForOptions{
		State: playwright.WaitForSelectorStateVisible,
	})
	require.NoError(t, err)
	return page
}

func selectConversation(t *testing.T, page playwright.Page, name string) {
	err := page.Locator(fmt.Sprintf(".conversation-item:has-text(%q)", name)).Click()
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		content, _ := page.Locator(".chat-header h3").InnerText()
		return content == name
	}, 5*time.Second, 200*time.Millisecond)
}
