package jira

import (
	"context"
	"log/slog"
	"strings"

	devhttp "github.com/randalmurphal/issuegate/http"
	"github.com/randalmurphal/issuegate/issue"
)

// Service adapts a Jira Client to issue.Service.
type Service struct {
	client    *Client
	issueType string
	logger    *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithIssueType overrides the issue type used on create.
func WithIssueType(name string) ServiceOption {
	return func(s *Service) {
		if name != "" {
			s.issueType = name
		}
	}
}

// WithLogger sets the logger for backend call diagnostics.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService creates a Service backed by client.
func NewService(client *Client, opts ...ServiceOption) *Service {
	s := &Service{
		client:    client,
		issueType: DefaultIssueType,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ issue.Service = (*Service)(nil)

// CreateIssue creates a Task in the project.
//
// Jira needs a description, so req.Body must be set. Only project, type,
// summary and description are sent. Owner, assignee and labels are echoed
// from req into the result without being stored by Jira.
func (s *Service) CreateIssue(ctx context.Context, projectID string, req issue.CreateIssueRequest) (*issue.Issue, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, issue.BadRequest(issue.OpCreate, issue.ErrProjectRequired)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Body == nil {
		return nil, issue.BadRequest(issue.OpCreate, issue.ErrBodyRequired)
	}

	resp, err := s.client.CreateIssue(ctx, s.buildCreateRequest(projectID, req))
	if err != nil {
		s.logger.Warn("jira create failed", "project", projectID, "error", err)
		return nil, classify(issue.OpCreate, err)
	}
	if resp.Key == "" {
		return nil, issue.Backend(issue.OpCreate, ErrMissingKey)
	}

	s.logger.Debug("jira issue created", "project", projectID, "key", resp.Key, "id", resp.ID)

	return &issue.Issue{
		Name:     issue.FormatName(projectID, resp.Key),
		Title:    req.Title,
		Body:     req.Body,
		Owner:    req.Owner,
		Assignee: req.Assignee,
		Labels:   issue.CloneLabels(req.Labels),
	}, nil
}

// GetIssue fetches an issue by key (ABC-1) or numeric id. Any other id is
// passed through and Jira decides whether it exists.
// Owner is never populated because Jira has no such field.
func (s *Service) GetIssue(ctx context.Context, projectID, issueID string) (*issue.Issue, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, issue.BadRequest(issue.OpGet, issue.ErrProjectRequired)
	}
	if issueID == "" {
		return nil, issue.BadRequest(issue.OpGet, issue.ErrIssueIDRequired)
	}

	ji, err := s.client.GetIssue(ctx, issueID)
	if err != nil {
		s.logger.Warn("jira get failed", "project", projectID, "issue", issueID, "error", err)
		return nil, classify(issue.OpGet, err)
	}

	return toIssue(projectID, ji)
}

func (s *Service) buildCreateRequest(projectID string, req issue.CreateIssueRequest) *CreateIssueRequest {
	var description any = *req.Body
	if s.client.APIVersionInUse() == APIVersionV3 {
		description = TextDocument(*req.Body)
	}

	return &CreateIssueRequest{
		Fields: CreateIssueFields{
			Project:     ProjectRef{Key: projectID},
			IssueType:   IssueTypeRef{Name: s.issueType},
			Summary:     req.Title,
			Description: description,
		},
	}
}

// toIssue maps a fetched Jira issue to the canonical resource.
func toIssue(projectID string, ji *Issue) (*issue.Issue, error) {
	if ji.Key == "" {
		return nil, issue.Backend(issue.OpGet, ErrMissingKey)
	}

	body, err := DescriptionText(ji.Fields.Description)
	if err != nil {
		return nil, issue.Backend(issue.OpGet, err)
	}

	var assignee *string
	if ji.Fields.Assignee != nil && ji.Fields.Assignee.Name != "" {
		assignee = issue.String(ji.Fields.Assignee.Name)
	}

	return &issue.Issue{
		Name:     issue.FormatName(projectID, ji.Key),
		Title:    ji.Fields.Summary,
		Body:     body,
		Assignee: assignee,
		Labels:   issue.CloneLabels(ji.Fields.Labels),
	}, nil
}

// classify maps a client error onto the issue error taxonomy.
func classify(op string, err error) error {
	if status := devhttp.StatusOf(err); status != 0 {
		return issue.FromStatus(op, status, err)
	}
	if devhttp.IsTimeout(err) {
		return issue.Timeout(op, err)
	}
	return issue.Backend(op, err)
}
