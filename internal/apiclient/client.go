// Package apiclient provides HTTP communication with the Plume API.
package apiclient

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/plumehq/plume-go/internal/core/domain"
)

// DefaultTimeout bounds a single API round-trip.
const DefaultTimeout = 30 * time.Second

// userAgent identifies the client to the API.
const userAgent = "plume-cli/1.0"

// TokenSource returns the bearer token to attach to a request, or the
// empty string for an anonymous request. It is consulted at request-build
// time so a login or logout between two requests is always reflected.
type TokenSource func() string

// Client provides HTTP communication with the Plume API.
type Client struct {
	baseURL string
	client  *http.Client

	mu     sync.RWMutex
	tokens TokenSource
}

// Config holds client construction parameters.
type Config struct {
	// BaseURL is the API root (scheme optional, defaults to http).
	BaseURL string

	// Timeout per request; DefaultTimeout when zero.
	Timeout time.Duration

	// TLSConfig overrides the transport TLS settings (custom roots).
	TLSConfig *tls.Config

	// Tokens supplies the bearer token; may be nil for anonymous use
	// and replaced later via SetTokenSource.
	Tokens TokenSource
}

// New creates a new API client.
func New(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	if cfg.TLSConfig != nil {
		httpClient.Transport = &http.Transport{TLSClientConfig: cfg.TLSConfig}
	}

	return &Client{
		baseURL: baseURL,
		client:  httpClient,
		tokens:  cfg.Tokens,
	}
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetTokenSource replaces the token source. The session store owns the
// token; it is wired in here once the store exists.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
}

func (c *Client) currentToken() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tokens == nil {
		return ""
	}
	return c.tokens()
}

// get performs a GET request and decodes the response into target.
// An empty overrideToken means "use the token source".
func (c *Client) get(ctx context.Context, path, overrideToken string, target any) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, overrideToken, nil)
	if err != nil {
		return err
	}
	return c.do(req, target)
}

// post performs a POST request with a JSON body.
func (c *Client) post(ctx context.Context, path string, body, target any) error {
	req, err := c.newRequest(ctx, http.MethodPost, path, "", body)
	if err != nil {
		return err
	}
	return c.do(req, target)
}

// patch performs a PATCH request with a JSON body.
func (c *Client) patch(ctx context.Context, path string, body, target any) error {
	req, err := c.newRequest(ctx, http.MethodPatch, path, "", body)
	if err != nil {
		return err
	}
	return c.do(req, target)
}

// del performs a DELETE request.
func (c *Client) del(ctx context.Context, path string) error {
	req, err := c.newRequest(ctx, http.MethodDelete, path, "", nil)
	if err != nil {
		return err
	}
	return c.do(req, nil)
}

func (c *Client) newRequest(ctx context.Context, method, path, overrideToken string, body any) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	tok := overrideToken
	if tok == "" {
		tok = c.currentToken()
	}
	if tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("X-Request-ID", "req-"+ulid.Make().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do executes the request, maps failures onto the domain error taxonomy,
// and decodes a success body into target (when non-nil).
func (c *Client) do(req *http.Request, target any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return domain.ErrTransport.WithCause(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeError(resp)
	}

	if target != nil {
		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return domain.ErrTransport.WithDetails("malformed response body").WithCause(err)
		}
	}
	return nil
}

// decodeError turns an API error response into a DomainError carrying the
// server-provided message when one is present.
func decodeError(resp *http.Response) error {
	var envelope struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
		switch {
		case envelope.Message != "":
			msg = envelope.Message
		case envelope.Error != "":
			msg = envelope.Error
		}
	}

	base := domain.ErrRemote
	if resp.StatusCode == http.StatusForbidden {
		base = domain.ErrForbidden
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", resp.StatusCode)
	}
	return base.WithDetails(msg)
}

// queryPath appends URL query parameters to a path. Zero-valued params
// are skipped.
func queryPath(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
