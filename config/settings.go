package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"time"
)

// Configuration keys.
const (
	KeyBackend          = "backend"
	KeyListenAddr       = "listen_addr"
	KeyTimeout          = "timeout"
	KeyLogLevel         = "log_level"
	KeyLogFormat        = "log_format"
	KeyJiraHost         = "jira_host"
	KeyJiraUser         = "jira_user"
	KeyJiraPass         = "jira_pass"
	KeyJiraToken        = "jira_token"
	KeyJiraAuth         = "jira_auth"
	KeyJiraAPIVersion   = "jira_api_version"
	KeyGitHubToken      = "github_token"
	KeyGitHubOwner      = "github_owner"
	KeyGitHubURL        = "github_url"
	KeyGitLabToken      = "gitlab_token"
	KeyGitLabURL        = "gitlab_url"
	KeyJWTSecret        = "jwt_secret"
	KeyJWTIssuer        = "jwt_issuer"
	KeyAPIKeyHashes     = "api_key_hashes"
	KeyNotifyWebhookURL = "notify_webhook_url"
	KeySlackWebhookURL  = "slack_webhook_url"
	KeySlackChannel     = "slack_channel"
)

// Backend names.
const (
	BackendJira   = "jira"
	BackendGitHub = "github"
	BackendGitLab = "gitlab"
)

// Jira auth schemes accepted by jira_auth.
const (
	JiraAuthBasic    = "basic"
	JiraAuthAPIToken = "api_token"
	JiraAuthPAT      = "pat"
)

// EnvPrefix is the prefix for keys without an explicit binding.
const EnvPrefix = "ISSUEGATE_"

// DefaultTimeout bounds each outbound backend call.
const DefaultTimeout = 10 * time.Second

// Settings errors.
var (
	ErrUnknownBackend   = errors.New("unknown backend")
	ErrJiraHostRequired = errors.New("jira host is required")
	ErrJiraUserRequired = errors.New("jira user is required")
	ErrJiraPassRequired = errors.New("jira password is required")
	ErrJiraToken        = errors.New("jira token is required")
	ErrJiraAuthInvalid  = errors.New("invalid jira auth type")
	ErrGitHubToken      = errors.New("github token is required")
	ErrGitHubOwner      = errors.New("github owner is required")
	ErrGitLabToken      = errors.New("gitlab token is required")
	ErrListenAddr       = errors.New("invalid listen address")
	ErrTimeoutInvalid   = errors.New("timeout must be positive")
	ErrLogLevelInvalid  = errors.New("invalid log level")
	ErrLogFormatInvalid = errors.New("invalid log format")
)

// Defaults returns the built-in value of every key.
func Defaults() map[string]string {
	return map[string]string{
		KeyBackend:          BackendJira,
		KeyListenAddr:       "127.0.0.1:3000",
		KeyTimeout:          DefaultTimeout.String(),
		KeyLogLevel:         "info",
		KeyLogFormat:        "text",
		KeyJiraHost:         "",
		KeyJiraUser:         "",
		KeyJiraPass:         "",
		KeyJiraToken:        "",
		KeyJiraAuth:         JiraAuthBasic,
		KeyJiraAPIVersion:   "latest",
		KeyGitHubToken:      "",
		KeyGitHubOwner:      "",
		KeyGitHubURL:        "",
		KeyGitLabToken:      "",
		KeyGitLabURL:        "",
		KeyJWTSecret:        "",
		KeyJWTIssuer:        "issuegate",
		KeyAPIKeyHashes:     "",
		KeyNotifyWebhookURL: "",
		KeySlackWebhookURL:  "",
		KeySlackChannel:     "",
	}
}

// EnvBindings returns the keys read from conventional, unprefixed
// environment variables.
func EnvBindings() map[string]string {
	return map[string]string{
		KeyJiraHost:    "JIRA_HOST",
		KeyJiraUser:    "JIRA_USER",
		KeyJiraPass:    "JIRA_PASS",
		KeyJiraToken:   "JIRA_TOKEN",
		KeyGitHubToken: "GITHUB_TOKEN",
		KeyGitLabToken: "GITLAB_TOKEN",
	}
}

// NewResolverConfig returns the issuegate resolver setup. An empty
// configFile falls back to ~/.config/issuegate/config.yaml.
func NewResolverConfig(configFile string) ResolverConfig {
	defaults := Defaults()
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	return ResolverConfig{
		EnvPrefix:       EnvPrefix,
		EnvBindings:     EnvBindings(),
		ConfigFile:      configFile,
		GlobalConfigDir: "issuegate",
		Defaults:        defaults,
		ValidKeys:       keys,
	}
}

// JiraSettings configures the Jira backend.
type JiraSettings struct {
	Host       string
	User       string
	Pass       string
	Token      string
	Auth       string
	APIVersion string
}

// GitHubSettings configures the GitHub backend.
type GitHubSettings struct {
	Token string
	Owner string
	URL   string
}

// GitLabSettings configures the GitLab backend.
type GitLabSettings struct {
	Token string
	URL   string
}

// AuthSettings configures inbound request protection.
type AuthSettings struct {
	JWTSecret    string
	JWTIssuer    string
	APIKeyHashes []string
}

// Enabled reports whether any inbound credential is configured.
func (a AuthSettings) Enabled() bool {
	return a.JWTSecret != "" || len(a.APIKeyHashes) > 0
}

// NotifySettings configures creation notifications.
type NotifySettings struct {
	WebhookURL      string
	SlackWebhookURL string
	SlackChannel    string
}

// Settings is the typed process configuration.
type Settings struct {
	Backend    string
	ListenAddr string
	Timeout    time.Duration
	LogLevel   slog.Level
	LogFormat  string

	Jira   JiraSettings
	GitHub GitHubSettings
	GitLab GitLabSettings
	Auth   AuthSettings
	Notify NotifySettings
}

// FromResolved converts resolved values into Settings. It only parses;
// call Validate before use.
func FromResolved(r *Resolved) (Settings, error) {
	s := Settings{
		Backend:    strings.ToLower(strings.TrimSpace(r.Get(KeyBackend))),
		ListenAddr: r.Get(KeyListenAddr),
		LogFormat:  strings.ToLower(r.Get(KeyLogFormat)),
		Jira: JiraSettings{
			Host:       strings.TrimRight(r.Get(KeyJiraHost), "/"),
			User:       r.Get(KeyJiraUser),
			Pass:       r.Get(KeyJiraPass),
			Token:      r.Get(KeyJiraToken),
			Auth:       strings.ToLower(r.Get(KeyJiraAuth)),
			APIVersion: r.Get(KeyJiraAPIVersion),
		},
		GitHub: GitHubSettings{
			Token: r.Get(KeyGitHubToken),
			Owner: r.Get(KeyGitHubOwner),
			URL:   r.Get(KeyGitHubURL),
		},
		GitLab: GitLabSettings{
			Token: r.Get(KeyGitLabToken),
			URL:   r.Get(KeyGitLabURL),
		},
		Auth: AuthSettings{
			JWTSecret:    r.Get(KeyJWTSecret),
			JWTIssuer:    r.Get(KeyJWTIssuer),
			APIKeyHashes: splitList(r.Get(KeyAPIKeyHashes)),
		},
		Notify: NotifySettings{
			WebhookURL:      r.Get(KeyNotifyWebhookURL),
			SlackWebhookURL: r.Get(KeySlackWebhookURL),
			SlackChannel:    r.Get(KeySlackChannel),
		},
	}

	if raw := r.Get(KeyTimeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", KeyTimeout, err)
		}
		s.Timeout = d
	}

	level := r.Get(KeyLogLevel)
	if level == "" {
		level = "info"
	}
	if err := s.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return Settings{}, fmt.Errorf("%w: %q", ErrLogLevelInvalid, level)
	}

	return s, nil
}

// Load resolves configFile, the environment and flags into validated
// Settings.
func Load(configFile string, flags map[string]string) (Settings, error) {
	resolved, err := NewResolver(NewResolverConfig(configFile)).ResolveWithFlags(flags)
	if err != nil {
		return Settings{}, err
	}
	s, err := FromResolved(resolved)
	if err != nil {
		return Settings{}, err
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks that the selected backend has everything it needs.
func (s Settings) Validate() error {
	if _, _, err := net.SplitHostPort(s.ListenAddr); err != nil {
		return fmt.Errorf("%w: %q", ErrListenAddr, s.ListenAddr)
	}
	if s.Timeout <= 0 {
		return ErrTimeoutInvalid
	}
	switch s.LogFormat {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrLogFormatInvalid, s.LogFormat)
	}

	switch s.Backend {
	case BackendJira:
		return s.Jira.validate()
	case BackendGitHub:
		if s.GitHub.Token == "" {
			return ErrGitHubToken
		}
		if s.GitHub.Owner == "" {
			return ErrGitHubOwner
		}
	case BackendGitLab:
		if s.GitLab.Token == "" {
			return ErrGitLabToken
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, s.Backend)
	}
	return nil
}

func (j JiraSettings) validate() error {
	if j.Host == "" {
		return ErrJiraHostRequired
	}
	switch j.Auth {
	case "", JiraAuthBasic:
		if j.User == "" {
			return ErrJiraUserRequired
		}
		if j.Pass == "" {
			return ErrJiraPassRequired
		}
	case JiraAuthAPIToken:
		if j.User == "" {
			return ErrJiraUserRequired
		}
		if j.Token == "" {
			return ErrJiraToken
		}
	case JiraAuthPAT:
		if j.Token == "" {
			return ErrJiraToken
		}
	default:
		return fmt.Errorf("%w: %q", ErrJiraAuthInvalid, j.Auth)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
