// Package adminclient drives the archive admin flow against the HTTP API:
// probe the list, unlock with the password when locked, then read or export
// the captured emails.
package adminclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// API paths.
const (
	CapturePath = "/api/archive"
	AuthPath    = "/api/archive/auth"
	ListPath    = "/api/archive/list"
	LogoutPath  = "/api/archive/logout"
)

// ErrUnauthorized is returned for any 401 from the API.
var ErrUnauthorized = errors.New("unauthorized")

// StatusError is returned for unexpected non-2xx responses.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("archive api: %d %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("archive api: %d", e.StatusCode)
}

// Entry is one captured email as returned by the list endpoint. CreatedAt is kept
// exactly as the server formatted it.
type Entry struct {
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

// Client talks to the archive API. It keeps the session cookie in its own jar.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for baseURL (e.g. "http://localhost:8080").
func NewClient(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return NewClientWithHTTP(baseURL, &http.Client{Jar: jar, Timeout: 15 * time.Second}), nil
}

// NewClientWithHTTP uses hc as is; hc needs a cookie jar for the session to stick.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimSuffix(baseURL, "/"), http: hc}
}

// List fetches every captured email, newest first.
func (c *Client) List(ctx context.Context) ([]Entry, error) {
	var body struct {
		Emails []Entry `json:"emails"`
	}
	if err := c.do(ctx, http.MethodGet, ListPath, nil, &body); err != nil {
		return nil, err
	}
	if body.Emails == nil {
		body.Emails = []Entry{}
	}
	return body.Emails, nil
}

// Authenticate submits the admin password; on success the session cookie is stored.
func (c *Client) Authenticate(ctx context.Context, password string) error {
	return c.do(ctx, http.MethodPost, AuthPath, map[string]string{"password": password}, nil)
}

// Capture submits an email to the public capture endpoint.
func (c *Client) Capture(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, CapturePath, map[string]string{"email": email}, nil)
}

// Logout expires the session cookie.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, LogoutPath, struct{}{}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&e)
		return &StatusError{StatusCode: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
