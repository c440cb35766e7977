package jira

import (
	"net/url"
	"time"

	"github.com/randalmurphal/issuegate/auth"
)

// AuthType represents the type of authentication to use.
type AuthType string

// Authentication types supported by the Jira client.
const (
	AuthBasic    AuthType = "basic"     // Server: username + password
	AuthAPIToken AuthType = "api_token" // Cloud: email + API token, sent as Basic
	AuthPAT      AuthType = "pat"       // Server/DC: Personal Access Token
)

// Config holds the configuration for the Jira client.
type Config struct {
	// Host is the base URL of the Jira instance.
	// For Cloud: https://your-domain.atlassian.net
	// For Server: https://jira.your-company.com
	Host string

	// APIVersion selects the REST path segment. Defaults to "latest".
	APIVersion APIVersion

	// Auth contains authentication configuration.
	Auth AuthConfig

	// HTTP contains HTTP client configuration.
	HTTP HTTPConfig
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	// Type is the authentication method to use. Defaults to basic.
	Type AuthType

	// Username is the basic auth user, or the account email for api_token.
	Username string

	// Password is required for basic auth.
	Password string

	// Token is the API token (Cloud) or PAT (Server/DC).
	Token string
}

// HTTPConfig holds HTTP client configuration.
type HTTPConfig struct {
	// Timeout bounds each outbound request.
	Timeout time.Duration

	// MaxIdleConns is the maximum number of idle connections.
	MaxIdleConns int

	// IdleConnTimeout is how long to keep idle connections open.
	IdleConnTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		APIVersion: APIVersionLatest,
		Auth:       AuthConfig{Type: AuthBasic},
		HTTP: HTTPConfig{
			Timeout:         10 * time.Second,
			MaxIdleConns:    10,
			IdleConnTimeout: 90 * time.Second,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Host == "" {
		return ErrConfigHostRequired
	}
	u, err := url.Parse(c.Host)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrConfigHostInvalid
	}

	switch c.Auth.Type {
	case AuthBasic, "":
		if c.Auth.Username == "" || c.Auth.Password == "" {
			return ErrConfigBasicAuth
		}
	case AuthAPIToken:
		if c.Auth.Username == "" || c.Auth.Token == "" {
			return ErrConfigAPITokenAuth
		}
	case AuthPAT:
		if c.Auth.Token == "" {
			return ErrConfigPATAuth
		}
	default:
		return ErrConfigAuthTypeInvalid
	}

	if _, err := ParseAPIVersion(string(c.APIVersion)); err != nil {
		return err
	}

	return nil
}

// Credentials returns the outbound credentials for the configured auth type.
func (c *Config) Credentials() auth.Credentials {
	switch c.Auth.Type {
	case AuthPAT:
		return auth.Bearer{Token: c.Auth.Token}
	case AuthAPIToken:
		return auth.Basic{Username: c.Auth.Username, Password: c.Auth.Token}
	default:
		return auth.Basic{Username: c.Auth.Username, Password: c.Auth.Password}
	}
}
