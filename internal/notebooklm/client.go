// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notebooklm implements the HTTP client for the notebook
// service. It is the only place that knows the service's wire formats:
// result shapes are normalized here into the typed records the rest of
// the engine consumes.
package notebooklm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pdiddy/notebook-engine/internal/httputil"
	"github.com/pdiddy/notebook-engine/internal/secrets"
	"github.com/pdiddy/notebook-engine/pkg/types"
)

// defaultBaseURL is the notebook service API root. Declared as a var so
// tests can substitute an httptest server.
var defaultBaseURL = "https://notebooklm.google.com/api/v1"

// Client talks to the notebook service over HTTP. It satisfies the
// orchestrator's collaborator interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
	tokens     secrets.Tokens
	userAgent  string
	maxRetries int
}

// NewClient builds a client from configuration and session tokens.
func NewClient(cfg types.ClientConfig, tokens secrets.Tokens) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		tokens:     tokens,
		userAgent:  cfg.UserAgent,
		maxRetries: cfg.MaxRetries,
	}
}

// notebookResponse matches the service's notebook record.
type notebookResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// sourceResponse covers the identifier shapes the service is known to
// return: a top-level sourceId, a bare id, or a nested source object.
// normalize flattens them; nothing outside this package sees the
// variants.
type sourceResponse struct {
	SourceID string `json:"sourceId"`
	ID       string `json:"id"`
	Source   *struct {
		ID string `json:"id"`
	} `json:"source"`
}

func (r sourceResponse) normalize() types.SourceResult {
	switch {
	case r.SourceID != "":
		return types.SourceResult{SourceID: r.SourceID}
	case r.ID != "":
		return types.SourceResult{SourceID: r.ID}
	case r.Source != nil:
		return types.SourceResult{SourceID: r.Source.ID}
	default:
		return types.SourceResult{}
	}
}

// queryResponse covers the answer shapes the service returns.
type queryResponse struct {
	Answer   string `json:"answer"`
	Response string `json:"response"`
}

// CreateNotebook creates a notebook with the given title.
func (c *Client) CreateNotebook(ctx context.Context, title string) (*types.Notebook, error) {
	var nr notebookResponse
	err := c.do(ctx, http.MethodPost, "/notebooks",
		map[string]string{"title": title}, &nr)
	if err != nil {
		return nil, err
	}
	if nr.ID == "" {
		return nil, fmt.Errorf("notebook service returned no notebook id")
	}
	return &types.Notebook{ID: nr.ID, Title: nr.Title, URL: nr.URL}, nil
}

// AddTextSource uploads inline text as a source.
func (c *Client) AddTextSource(ctx context.Context, notebookID, text, title string) (types.SourceResult, error) {
	var sr sourceResponse
	err := c.do(ctx, http.MethodPost, "/notebooks/"+notebookID+"/sources/text",
		map[string]string{"text": text, "title": title}, &sr)
	if err != nil {
		return types.SourceResult{}, err
	}
	return sr.normalize(), nil
}

// AddURLSource registers a remote URL as a source.
func (c *Client) AddURLSource(ctx context.Context, notebookID, url, title string) (types.SourceResult, error) {
	var sr sourceResponse
	err := c.do(ctx, http.MethodPost, "/notebooks/"+notebookID+"/sources/url",
		map[string]string{"url": url, "title": title}, &sr)
	if err != nil {
		return types.SourceResult{}, err
	}
	return sr.normalize(), nil
}

// Query asks the notebook a question and returns the answer text.
func (c *Client) Query(ctx context.Context, notebookID, question string) (string, error) {
	var qr queryResponse
	err := c.do(ctx, http.MethodPost, "/notebooks/"+notebookID+"/query",
		map[string]string{"question": question}, &qr)
	if err != nil {
		return "", err
	}
	if qr.Answer != "" {
		return qr.Answer, nil
	}
	return qr.Response, nil
}

// ListNotebooks returns the caller's notebooks.
func (c *Client) ListNotebooks(ctx context.Context) ([]types.Notebook, error) {
	var lr struct {
		Notebooks []notebookResponse `json:"notebooks"`
	}
	if err := c.do(ctx, http.MethodGet, "/notebooks", nil, &lr); err != nil {
		return nil, err
	}

	notebooks := make([]types.Notebook, 0, len(lr.Notebooks))
	for _, nr := range lr.Notebooks {
		notebooks = append(notebooks, types.Notebook{ID: nr.ID, Title: nr.Title, URL: nr.URL})
	}
	return notebooks, nil
}

// do issues one API request and decodes the JSON response into out.
// Rate-limited requests are retried with backoff.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.tokens.Cookies != "" {
		req.Header.Set("Cookie", c.tokens.Cookies)
	}
	if c.tokens.CSRFToken != "" {
		req.Header.Set("X-CSRF-Token", c.tokens.CSRFToken)
	}
	if c.tokens.SessionID != "" {
		req.Header.Set("X-Session-ID", c.tokens.SessionID)
	}

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, c.maxRetries)
	if err != nil {
		return fmt.Errorf("notebook service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("notebook service returned HTTP %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing notebook service response: %w", err)
	}
	return nil
}
