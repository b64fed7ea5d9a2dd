// Package appwrite is a small REST client for the Appwrite platform,
// covering the account and database surfaces this service uses. A Client is
// a configuration bundle, not a connection: building one per request is
// expected and cheap.
package appwrite

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

type authMode int

const (
	modeAnonymous authMode = iota
	modeAPIKey
	modeSession
)

// Auth selects the credential attached to every request a Client issues.
type Auth struct {
	mode   authMode
	secret string
}

// Anonymous carries no credential. Only account creation and other public
// endpoints accept it.
func Anonymous() Auth { return Auth{mode: modeAnonymous} }

// APIKey authenticates with the project's server key, bypassing
// per-document permission checks.
func APIKey(key string) Auth { return Auth{mode: modeAPIKey, secret: key} }

// SessionToken authenticates as the user owning the given session secret;
// the platform enforces that user's permissions on every call.
func SessionToken(secret string) Auth { return Auth{mode: modeSession, secret: secret} }

type Client struct {
	endpoint string
	project  string
	auth     Auth
	httpc    *http.Client
}

// New builds a client handle for one project with the given auth posture.
func New(endpoint, project string, auth Auth) *Client {
	return &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		project:  project,
		auth:     auth,
		httpc:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) call(ctx context.Context, method, path string, body any, result any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Appwrite-Project", c.project)
	switch c.auth.mode {
	case modeAPIKey:
		req.Header.Set("X-Appwrite-Key", c.auth.secret)
	case modeSession:
		req.Header.Set("X-Appwrite-Session", c.auth.secret)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("appwrite %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return decodeError(resp.StatusCode, data)
	}
	if result != nil && len(data) > 0 {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
