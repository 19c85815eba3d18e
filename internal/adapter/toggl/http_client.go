package toggl

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

const (
	DefaultBaseURL = "https://api.track.toggl.com"
	apiPrefix      = "/api/v9"
)

// Client implements ports.TogglClient using the Toggl Track API v9.
// Every call is a single attempt; failures are returned, never retried.
type Client struct {
	baseURL   string
	apiToken  string
	workspace int64
	http      *http.Client
	log       *slog.Logger
}

func NewClient(baseURL, apiToken string, workspaceID int64, log *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiToken:  apiToken,
		workspace: workspaceID,
		http:      &http.Client{},
		log:       log,
	}
}

// SetAPIToken swaps the credentials used for subsequent calls.
func (c *Client) SetAPIToken(token string) { c.apiToken = token }

// APIToken returns the token currently in use.
func (c *Client) APIToken() string { return c.apiToken }

// SetWorkspace changes the workspace used to scope ListProjects.
func (c *Client) SetWorkspace(id int64) { c.workspace = id }

// Request performs one authenticated call against path (relative to /api/v9,
// query string allowed). On 200/201 the raw body is returned; it is never nil
// on success, so an empty DELETE response is distinguishable from failure.
func (c *Client) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if c.apiToken == "" {
		return nil, ErrNotLoggedIn
	}
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("toggl: unsupported method %q", method)
	}

	var reader io.Reader
	if body != nil && method != http.MethodGet && method != http.MethodDelete {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("toggl: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, reader)
	if err != nil {
		return nil, fmt.Errorf("toggl: build request: %w", err)
	}
	// Basic auth: token:api_token
	auth := base64.StdEncoding.EncodeToString([]byte(fmt.Sprintf("%s:%s", c.apiToken, "api_token")))
	req.Header.Set("Authorization", "Basic "+auth)
	req.Header.Set("Accept", "application/json")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debug("toggl request", slog.String("method", method), slog.String("path", path))
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		if len(data) > 4096 {
			data = data[:4096]
		}
		return nil, &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	if data == nil {
		data = []byte{}
	}
	return json.RawMessage(data), nil
}

// call runs Request and decodes the body into out when out is non-nil.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	raw, err := c.Request(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("toggl: decode %s %s: %w", method, path, err)
	}
	return nil
}
