// Package client talks to the dataset API over HTTP on behalf of an editor
// session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/antonkast-google/ord-editor/internal/apperr"
	"github.com/antonkast-google/ord-editor/internal/codec"
	"github.com/antonkast-google/ord-editor/internal/models"
)

const maxResponseBytes = 50 << 20 // 50 MB

// Client implements the editor's remote calls against the REST API.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sends token as a Bearer credential on every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithTimeout bounds every request made by the client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New returns a Client for the API mounted at baseURL (e.g.
// http://localhost:8080/api).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimSuffix(baseURL, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ReadDataset fetches a stored dataset.
func (c *Client) ReadDataset(ctx context.Context, name string) (*models.Dataset, error) {
	body, err := c.do(ctx, http.MethodGet, "/dataset/proto/read/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, err
	}
	var ds models.Dataset
	if err := codec.Unmarshal(body, &ds); err != nil {
		return nil, err
	}
	return &ds, nil
}

// ReactionByID fetches one reaction by its identifier.
func (c *Client) ReactionByID(ctx context.Context, id string) (*models.Reaction, error) {
	body, err := c.do(ctx, http.MethodGet, "/reaction/id/"+url.PathEscape(id)+"/proto", nil)
	if err != nil {
		return nil, err
	}
	var r models.Reaction
	if err := codec.Unmarshal(body, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Validate asks the server to validate body as typeName.
func (c *Client) Validate(ctx context.Context, typeName string, body []byte) (*models.Diagnostics, error) {
	out, err := c.do(ctx, http.MethodPost, "/dataset/proto/validate/"+url.PathEscape(typeName), body)
	if err != nil {
		return nil, err
	}
	var d models.Diagnostics
	if err := json.Unmarshal(out, &d); err != nil {
		return nil, fmt.Errorf("client: decode diagnostics: %w", err)
	}
	return &d, nil
}

// Render returns the HTML summary of the encoded reaction.
func (c *Client) Render(ctx context.Context, body []byte) (string, error) {
	out, err := c.do(ctx, http.MethodPost, "/render/reaction", body)
	if err != nil {
		return "", err
	}
	var html string
	if err := json.Unmarshal(out, &html); err != nil {
		return "", fmt.Errorf("client: decode render: %w", err)
	}
	return html, nil
}

// WriteDataset stores the encoded dataset under name.
func (c *Client) WriteDataset(ctx context.Context, name string, body []byte) error {
	_, err := c.do(ctx, http.MethodPost, "/dataset/proto/write/"+url.PathEscape(name), body)
	return err
}

// Upload stores data as an asset of dataset under token.
func (c *Client) Upload(ctx context.Context, dataset, token string, data []byte) error {
	_, err := c.do(ctx, http.MethodPost, "/dataset/proto/upload/"+url.PathEscape(dataset)+"/"+url.PathEscape(token), data)
	return err
}

// Download returns the text encoding of the encoded reaction.
func (c *Client) Download(ctx context.Context, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "/reaction/download", body)
}

// CompareDataset reports a mismatch with the stored dataset as an error
// wrapping apperr.ErrConflict.
func (c *Client) CompareDataset(ctx context.Context, name string, body []byte) error {
	_, err := c.do(ctx, http.MethodPost, "/dataset/proto/compare/"+url.PathEscape(name), body)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("client: %s %s: read body: %w", method, path, err)
	}
	if resp.StatusCode >= 300 {
		return nil, statusError(method, path, resp.StatusCode, data)
	}
	return data, nil
}

// statusError maps an error response onto the shared sentinel errors.
func statusError(method, path string, status int, body []byte) error {
	var e struct {
		Error string `json:"error"`
	}
	msg := http.StatusText(status)
	if json.Unmarshal(body, &e) == nil && e.Error != "" {
		msg = e.Error
	}
	var sentinel error
	switch status {
	case http.StatusNotFound:
		sentinel = apperr.ErrNotFound
	case http.StatusConflict:
		sentinel = apperr.ErrConflict
	case http.StatusBadRequest:
		sentinel = apperr.ErrInvalidInput
	default:
		return fmt.Errorf("client: %s %s: HTTP %d: %s", method, path, status, msg)
	}
	return fmt.Errorf("client: %s %s: %w: %s", method, path, sentinel, msg)
}
