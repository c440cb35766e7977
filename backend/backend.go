// Package backend selects the issue tracker that serves the API.
package backend

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/randalmurphal/issuegate/config"
	"github.com/randalmurphal/issuegate/github"
	"github.com/randalmurphal/issuegate/gitlab"
	"github.com/randalmurphal/issuegate/issue"
	"github.com/randalmurphal/issuegate/jira"
)

// Kind names a backend variant.
type Kind string

// Supported backends.
const (
	KindJira   Kind = config.BackendJira
	KindGitHub Kind = config.BackendGitHub
	KindGitLab Kind = config.BackendGitLab
)

// ErrUnknownKind is returned for a backend name outside Kinds.
var ErrUnknownKind = errors.New("unknown backend")

// Kinds lists every supported backend.
func Kinds() []Kind {
	return []Kind{KindJira, KindGitHub, KindGitLab}
}

// ParseKind parses a backend name, ignoring case and surrounding space.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// New builds the issue.Service selected by settings.Backend.
func New(settings config.Settings, logger *slog.Logger) (issue.Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	kind, err := ParseKind(settings.Backend)
	if err != nil {
		return nil, err
	}
	logger = logger.With("backend", string(kind))

	switch kind {
	case KindJira:
		return newJira(settings, logger)
	case KindGitHub:
		svc, err := github.NewService(github.Config{
			Token:   settings.GitHub.Token,
			Owner:   settings.GitHub.Owner,
			BaseURL: settings.GitHub.URL,
			Timeout: settings.Timeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("github backend: %w", err)
		}
		return svc, nil
	default:
		svc, err := gitlab.NewService(gitlab.Config{
			Token:   settings.GitLab.Token,
			BaseURL: settings.GitLab.URL,
			Timeout: settings.Timeout,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("gitlab backend: %w", err)
		}
		return svc, nil
	}
}

func newJira(settings config.Settings, logger *slog.Logger) (issue.Service, error) {
	version, err := jira.ParseAPIVersion(settings.Jira.APIVersion)
	if err != nil {
		return nil, fmt.Errorf("jira backend: %w", err)
	}

	cfg := jira.DefaultConfig()
	cfg.Host = settings.Jira.Host
	cfg.APIVersion = version
	cfg.Auth = jira.AuthConfig{
		Type:     jira.AuthType(settings.Jira.Auth),
		Username: settings.Jira.User,
		Password: settings.Jira.Pass,
		Token:    settings.Jira.Token,
	}
	if settings.Timeout > 0 {
		cfg.HTTP.Timeout = settings.Timeout
	}

	client, err := jira.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("jira backend: %w", err)
	}
	return jira.NewService(client, jira.WithLogger(logger)), nil
}
