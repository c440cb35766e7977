package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single backend request.
const DefaultTimeout = 10 * time.Second

const maxErrorBody = 64 << 10

// ErrorParser turns a non-2xx response into an error. body holds at most
// the first 64 KiB of the response.
type ErrorParser func(resp *http.Response, endpoint string, body []byte) error

// Config configures a Client.
type Config struct {
	// HTTPClient is used as is when set. Otherwise a client with Timeout
	// is created.
	HTTPClient *http.Client
	Timeout    time.Duration

	// BaseURL is prepended verbatim to every request path.
	BaseURL string

	// Service names the remote in errors ("jira", "slack").
	Service string

	// Decorate runs on every outgoing request, typically to attach
	// credentials.
	Decorate func(req *http.Request)

	// ParseError replaces the default {"message"}/{"error"} parser.
	ParseError ErrorParser
}

// Client sends JSON requests to one remote service. Each call makes
// exactly one attempt. A Client is safe for concurrent use.
type Client struct {
	hc       *http.Client
	base     string
	service  string
	decorate func(*http.Request)
	parseErr ErrorParser
}

// NewClient creates a Client from cfg.
func NewClient(cfg Config) *Client {
	c := &Client{
		hc:       cfg.HTTPClient,
		base:     cfg.BaseURL,
		service:  cfg.Service,
		decorate: cfg.Decorate,
		parseErr: cfg.ParseError,
	}
	if c.hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		c.hc = &http.Client{Timeout: timeout}
	}
	if c.parseErr == nil {
		c.parseErr = c.parseDefault
	}
	return c
}

// Get sends a GET to path and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post sends in as JSON to path and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

// Do sends one request. A nil in sends no body; a nil out discards the
// response body. Non-2xx responses are returned through the ErrorParser.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s request: %w", c.service, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", c.service, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.decorate != nil {
		c.decorate(req)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", c.service, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return c.parseErr(resp, path, data)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w: %w", c.service, ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) parseDefault(resp *http.Response, path string, body []byte) error {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	_ = json.Unmarshal(body, &envelope)

	msg := envelope.Message
	if msg == "" {
		msg = envelope.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	return &APIError{
		Service:    c.service,
		StatusCode: resp.StatusCode,
		Endpoint:   path,
		Message:    msg,
		RequestID:  resp.Header.Get("X-Request-Id"),
	}
}
