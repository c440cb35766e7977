// Package github implements the issue backend for the GitHub Issues API.
//
// A project is a repository under the configured owner and an issue id is
// the repository-scoped issue number.
package github

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"golang.org/x/oauth2"

	devhttp "github.com/randalmurphal/issuegate/http"
	"github.com/randalmurphal/issuegate/issue"
)

// Configuration errors.
var (
	ErrTokenRequired = errors.New("github token is required")
	ErrOwnerRequired = errors.New("github owner is required")
)

// ErrProjectInvalid is returned for repository names containing a slash.
var ErrProjectInvalid = errors.New("project must be a repository name")

// Config holds the configuration for the GitHub backend.
type Config struct {
	// Token is a personal access token or GitHub App token.
	Token string

	// Owner is the user or organization that owns the repositories.
	Owner string

	// BaseURL is the GitHub Enterprise URL. Empty means github.com.
	BaseURL string

	// Timeout bounds each outbound request.
	Timeout time.Duration
}

// Service adapts the GitHub Issues API to issue.Service.
type Service struct {
	client *gh.Client
	owner  string
	logger *slog.Logger
}

var _ issue.Service = (*Service)(nil)

// NewService creates a GitHub-backed issue service.
func NewService(cfg Config, logger *slog.Logger) (*Service, error) {
	if cfg.Token == "" {
		return nil, ErrTokenRequired
	}
	if cfg.Owner == "" {
		return nil, ErrOwnerRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = devhttp.DefaultTimeout
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = timeout

	client := gh.NewClient(tc)
	if cfg.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(cfg.BaseURL, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("github base url: %w", err)
		}
	}

	return newService(client, cfg.Owner, logger), nil
}

func newService(client *gh.Client, owner string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, owner: owner, logger: logger}
}

// CreateIssue opens an issue in the repository. Title, body, labels and
// assignee are sent; owner is echoed.
func (s *Service) CreateIssue(ctx context.Context, projectID string, req issue.CreateIssueRequest) (*issue.Issue, error) {
	if err := validateProject(issue.OpCreate, projectID); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	newIssue := &gh.IssueRequest{
		Title:    gh.String(req.Title),
		Body:     req.Body,
		Assignee: req.Assignee,
	}
	if req.Labels != nil {
		labels := issue.CloneLabels(req.Labels)
		newIssue.Labels = &labels
	}

	created, resp, err := s.client.Issues.Create(ctx, s.owner, projectID, newIssue)
	if err != nil {
		s.logger.Warn("github create failed", "repo", projectID, "error", err)
		return nil, classify(issue.OpCreate, resp, err)
	}

	result := toIssue(projectID, created)
	result.Owner = req.Owner
	return result, nil
}

// GetIssue fetches an issue by number.
func (s *Service) GetIssue(ctx context.Context, projectID, issueID string) (*issue.Issue, error) {
	if err := validateProject(issue.OpGet, projectID); err != nil {
		return nil, err
	}
	if issueID == "" {
		return nil, issue.BadRequest(issue.OpGet, issue.ErrIssueIDRequired)
	}
	number, err := strconv.Atoi(issueID)
	if err != nil || number <= 0 {
		return nil, issue.BadRequest(issue.OpGet, issue.ErrIssueIDInvalid)
	}

	got, resp, err := s.client.Issues.Get(ctx, s.owner, projectID, number)
	if err != nil {
		s.logger.Warn("github get failed", "repo", projectID, "issue", number, "error", err)
		return nil, classify(issue.OpGet, resp, err)
	}

	return toIssue(projectID, got), nil
}

func validateProject(op, projectID string) error {
	if strings.TrimSpace(projectID) == "" {
		return issue.BadRequest(op, issue.ErrProjectRequired)
	}
	if strings.Contains(projectID, "/") {
		return issue.BadRequest(op, ErrProjectInvalid)
	}
	return nil
}

func toIssue(projectID string, gi *gh.Issue) *issue.Issue {
	out := &issue.Issue{
		Name:  issue.FormatName(projectID, strconv.Itoa(gi.GetNumber())),
		Title: gi.GetTitle(),
		Body:  gi.Body,
	}
	if login := gi.GetAssignee().GetLogin(); login != "" {
		out.Assignee = issue.String(login)
	}
	if gi.Labels != nil {
		out.Labels = make([]string, 0, len(gi.Labels))
		for _, l := range gi.Labels {
			out.Labels = append(out.Labels, l.GetName())
		}
	}
	return out
}

// classify maps a go-github error onto the issue error taxonomy.
func classify(op string, resp *gh.Response, err error) error {
	if resp != nil && resp.StatusCode >= http.StatusBadRequest {
		return issue.FromStatus(op, resp.StatusCode, err)
	}
	if devhttp.IsTimeout(err) {
		return issue.Timeout(op, err)
	}
	return issue.Backend(op, err)
}
