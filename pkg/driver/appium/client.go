// Package appium provides an HTTP client for the Appium server via the W3C
// WebDriver protocol, reduced to the surface pagescout needs: session
// lifecycle, page source retrieval, and foreground app detection.
package appium

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/devicelab-dev/pagescout/pkg/core"
)

// Client handles HTTP communication with the Appium server.
type Client struct {
	serverURL string
	sessionID string
	client    *http.Client
	platform  string // ios, android
}

// NewClient creates a new Appium client.
func NewClient(serverURL string) *Client {
	return &Client{
		serverURL: strings.TrimSuffix(serverURL, "/"),
		client: &http.Client{
			Timeout: 2 * time.Minute, // page source on deep hierarchies is slow
		},
	}
}

// Connect creates a new session with the given capabilities.
func (c *Client) Connect(capabilities map[string]interface{}) error {
	body := map[string]interface{}{
		"capabilities": map[string]interface{}{
			"alwaysMatch": capabilities,
		},
	}

	resp, err := c.post("/session", body)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	value, ok := resp["value"].(map[string]interface{})
	if !ok {
		return core.ErrNoSession.WithMessage("invalid session response")
	}

	c.sessionID, _ = value["sessionId"].(string)
	if c.sessionID == "" {
		return core.ErrNoSession.WithMessage("no session ID in response")
	}

	// Extract platform from returned capabilities
	if caps, ok := value["capabilities"].(map[string]interface{}); ok {
		if platform, ok := caps["platformName"].(string); ok {
			c.platform = strings.ToLower(platform)
		}
	}

	return nil
}

// Attach reuses an already running session instead of creating one.
// The platform is taken from the page source on first capture when it
// cannot be read from the server.
func (c *Client) Attach(sessionID string) error {
	if sessionID == "" {
		return core.ErrNoSession.WithMessage("empty session ID")
	}
	c.sessionID = sessionID
	return nil
}

// Disconnect closes the session. Attached sessions are left running.
func (c *Client) Disconnect() error {
	if c.sessionID == "" {
		return nil
	}
	_, err := c.delete(c.sessionPath())
	c.sessionID = ""
	return err
}

// SessionID returns the current session ID.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Platform returns the platform (ios/android), if known.
func (c *Client) Platform() string {
	return c.platform
}

// PageSource returns the current page source XML.
func (c *Client) PageSource() (string, error) {
	if c.sessionID == "" {
		return "", core.ErrNoSession
	}
	resp, err := c.get(c.sessionPath() + "/source")
	if err != nil {
		return "", err
	}
	source, _ := resp["value"].(string)
	return source, nil
}

// ActiveBundleID returns the bundle/package ID of the foreground app.
func (c *Client) ActiveBundleID() (string, error) {
	value, err := c.ExecuteMobile("activeAppInfo", nil)
	if err != nil {
		return "", err
	}
	info, ok := value.(map[string]interface{})
	if !ok {
		return "", fmt.Errorf("invalid activeAppInfo response")
	}
	bundleID, _ := info["bundleId"].(string)
	return bundleID, nil
}

// SetSettings updates Appium driver settings.
// For iOS XCUITest, snapshotMaxDepth controls how deep page source goes.
func (c *Client) SetSettings(settings map[string]interface{}) error {
	_, err := c.post(c.sessionPath()+"/appium/settings", map[string]interface{}{
		"settings": settings,
	})
	return err
}

// ExecuteMobile executes a mobile: command.
func (c *Client) ExecuteMobile(command string, args map[string]interface{}) (interface{}, error) {
	script := map[string]interface{}{
		"script": "mobile: " + command,
		"args":   []interface{}{},
	}
	if args != nil {
		script["args"] = []interface{}{args}
	}
	resp, err := c.post(c.sessionPath()+"/execute/sync", script)
	if err != nil {
		return nil, err
	}
	return resp["value"], nil
}

// HTTP Helpers

func (c *Client) sessionPath() string {
	return "/session/" + c.sessionID
}

func (c *Client) get(path string) (map[string]interface{}, error) {
	return c.request("GET", path, nil)
}

func (c *Client) post(path string, body interface{}) (map[string]interface{}, error) {
	return c.request("POST", path, body)
}

func (c *Client) delete(path string) (map[string]interface{}, error) {
	return c.request("DELETE", path, nil)
}

func (c *Client) request(method, path string, body interface{}) (map[string]interface{}, error) {
	url := c.serverURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, core.ErrServerUnreachable.WithCause(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var result map[string]interface{}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	// Check for WebDriver error
	if errValue, ok := result["value"].(map[string]interface{}); ok {
		if errMsg, ok := errValue["message"].(string); ok {
			if errType, ok := errValue["error"].(string); ok {
				return result, fmt.Errorf("%s: %s", errType, errMsg)
			}
		}
	}

	return result, nil
}
