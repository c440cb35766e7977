// Package gitlab implements the issue backend for the GitLab Issues API.
//
// A project is a numeric project id or a "namespace/project" path and an
// issue id is the project-scoped IID.
package gitlab

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/xanzy/go-gitlab"

	devhttp "github.com/randalmurphal/issuegate/http"
	"github.com/randalmurphal/issuegate/issue"
)

// ErrTokenRequired is returned when no access token is configured.
var ErrTokenRequired = errors.New("gitlab token is required")

// Config holds the configuration for the GitLab backend.
type Config struct {
	// Token is a personal, project or group access token.
	Token string

	// BaseURL is the GitLab instance URL. Empty means gitlab.com.
	BaseURL string

	// Timeout bounds each outbound request.
	Timeout time.Duration
}

// Service adapts the GitLab Issues API to issue.Service.
type Service struct {
	client *gitlab.Client
	logger *slog.Logger
}

var _ issue.Service = (*Service)(nil)

// NewService creates a GitLab-backed issue service.
func NewService(cfg Config, logger *slog.Logger) (*Service, error) {
	if cfg.Token == "" {
		return nil, ErrTokenRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = devhttp.DefaultTimeout
	}

	opts := []gitlab.ClientOptionFunc{
		gitlab.WithHTTPClient(&http.Client{Timeout: timeout}),
		gitlab.WithoutRetries(),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, gitlab.WithBaseURL(cfg.BaseURL))
	}

	client, err := gitlab.NewClient(cfg.Token, opts...)
	if err != nil {
		return nil, fmt.Errorf("create GitLab client: %w", err)
	}

	return newService(client, logger), nil
}

func newService(client *gitlab.Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger}
}

// CreateIssue opens an issue in the project. Title, description and labels
// are sent. A numeric assignee is sent as an assignee id; owner and assignee
// are echoed.
func (s *Service) CreateIssue(ctx context.Context, projectID string, req issue.CreateIssueRequest) (*issue.Issue, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, issue.BadRequest(issue.OpCreate, issue.ErrProjectRequired)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	opts := &gitlab.CreateIssueOptions{
		Title:       gitlab.Ptr(req.Title),
		Description: req.Body,
	}
	if req.Labels != nil {
		opts.Labels = gitlab.Ptr(gitlab.LabelOptions(issue.CloneLabels(req.Labels)))
	}
	if req.Assignee != nil {
		if id, err := strconv.Atoi(*req.Assignee); err == nil {
			opts.AssigneeIDs = gitlab.Ptr([]int{id})
		}
	}

	created, resp, err := guard(func() (*gitlab.Issue, *gitlab.Response, error) {
		return s.client.Issues.CreateIssue(projectID, opts, gitlab.WithContext(ctx))
	})
	if err != nil {
		s.logger.Warn("gitlab create failed", "project", projectID, "error", err)
		return nil, classify(issue.OpCreate, resp, err)
	}

	result := toIssue(projectID, created)
	result.Owner = req.Owner
	result.Assignee = req.Assignee
	return result, nil
}

// GetIssue fetches an issue by IID.
func (s *Service) GetIssue(ctx context.Context, projectID, issueID string) (*issue.Issue, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, issue.BadRequest(issue.OpGet, issue.ErrProjectRequired)
	}
	if issueID == "" {
		return nil, issue.BadRequest(issue.OpGet, issue.ErrIssueIDRequired)
	}
	iid, err := strconv.Atoi(issueID)
	if err != nil || iid <= 0 {
		return nil, issue.BadRequest(issue.OpGet, issue.ErrIssueIDInvalid)
	}

	got, resp, err := guard(func() (*gitlab.Issue, *gitlab.Response, error) {
		return s.client.Issues.GetIssue(projectID, iid, gitlab.WithContext(ctx))
	})
	if err != nil {
		s.logger.Warn("gitlab get failed", "project", projectID, "iid", iid, "error", err)
		return nil, classify(issue.OpGet, resp, err)
	}

	return toIssue(projectID, got), nil
}

func toIssue(projectID string, gi *gitlab.Issue) *issue.Issue {
	out := &issue.Issue{
		Name:  issue.FormatName(projectID, strconv.Itoa(gi.IID)),
		Title: gi.Title,
	}
	// GitLab reports a missing description as "".
	if gi.Description != "" {
		out.Body = issue.String(gi.Description)
	}
	if gi.Assignee != nil && gi.Assignee.Username != "" {
		out.Assignee = issue.String(gi.Assignee.Username)
	}
	if gi.Labels != nil {
		out.Labels = issue.CloneLabels(gi.Labels)
	}
	return out
}

// guard turns a panic while go-gitlab decodes a response (an issue body
// without "id", for one) into ErrMalformedResponse.
func guard(call func() (*gitlab.Issue, *gitlab.Response, error)) (gi *gitlab.Issue, resp *gitlab.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			gi, resp, err = nil, nil, fmt.Errorf("%w: %v", devhttp.ErrMalformedResponse, r)
		}
	}()
	return call()
}

// classify maps a go-gitlab error onto the issue error taxonomy.
func classify(op string, resp *gitlab.Response, err error) error {
	if resp != nil && resp.Response != nil && resp.StatusCode >= http.StatusBadRequest {
		return issue.FromStatus(op, resp.StatusCode, err)
	}
	if devhttp.IsTimeout(err) {
		return issue.Timeout(op, err)
	}
	return issue.Backend(op, err)
}
