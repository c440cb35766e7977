package jira

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/randalmurphal/issuegate/auth"
	devhttp "github.com/randalmurphal/issuegate/http"
)

// Client provides access to the Jira REST API.
//
// Each method makes exactly one request. Clients are safe for concurrent use.
type Client struct {
	http       *devhttp.Client
	baseURL    string
	apiVersion APIVersion
	creds      auth.Credentials
}

// ClientOption configures the client.
type ClientOption func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
}

// WithHTTPClient sets a custom HTTP client. Its Timeout takes precedence
// over Config.HTTP.Timeout.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// NewClient creates a new Jira client.
func NewClient(cfg *Config, opts ...ClientOption) (*Client, error) {
	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, validateErr
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	timeout := cfg.HTTP.Timeout
	if timeout == 0 {
		timeout = devhttp.DefaultTimeout
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:           http.ProxyFromEnvironment,
				MaxIdleConns:    cfg.HTTP.MaxIdleConns,
				IdleConnTimeout: cfg.HTTP.IdleConnTimeout,
			},
		}
	}

	version, _ := ParseAPIVersion(string(cfg.APIVersion))

	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.Host, "/"),
		apiVersion: version,
		creds:      cfg.Credentials(),
	}
	c.http = devhttp.NewClient(devhttp.Config{
		HTTPClient: httpClient,
		BaseURL:    c.baseURL,
		Service:    "jira",
		Decorate:   c.creds.Apply,
		ParseError: parseAPIError,
	})

	return c, nil
}

// GetIssue retrieves an issue by key or numeric id. key is escaped as a
// single path segment.
func (c *Client) GetIssue(ctx context.Context, key string) (*Issue, error) {
	var result Issue
	if err := c.http.Get(ctx, c.apiPath("/issue/"+url.PathEscape(key)), &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// CreateIssue creates a new issue.
func (c *Client) CreateIssue(ctx context.Context, createReq *CreateIssueRequest) (*CreateIssueResponse, error) {
	var result CreateIssueResponse
	if err := c.http.Post(ctx, c.apiPath("/issue"), createReq, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// APIVersionInUse returns the API version being used.
func (c *Client) APIVersionInUse() APIVersion {
	return c.apiVersion
}

// BaseURL returns the Jira host without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// apiPath builds the REST path for an endpoint.
func (c *Client) apiPath(endpoint string) string {
	return fmt.Sprintf("/rest/api/%s%s", c.apiVersion, endpoint)
}
