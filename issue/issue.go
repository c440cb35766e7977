package issue

import (
	"context"
	"strings"
)

// Issue is the canonical issue resource.
//
// Optional values are pointers and serialize as null when absent.
type Issue struct {
	// Name is the resource path "projects/{project}/issues/{key}".
	// It is always derived from the backend-assigned key.
	Name string `json:"name"`

	// Title maps to the backend summary.
	Title string `json:"title"`

	// Body maps to the backend description.
	Body *string `json:"body"`

	// Owner has no backend representation. It is echoed on create and
	// always nil on read.
	Owner *string `json:"owner"`

	// Assignee is the backend's assignee identifier.
	Assignee *string `json:"assignee"`

	// Labels keeps the backend order.
	Labels []string `json:"labels"`
}

// CreateIssueRequest is the caller input for creating an issue.
type CreateIssueRequest struct {
	Title    string   `json:"title"`
	Body     *string  `json:"body"`
	Owner    *string  `json:"owner"`
	Assignee *string  `json:"assignee"`
	Labels   []string `json:"labels"`
}

// Validate checks the fields every backend requires.
// Backends layer their own requirements on top (Jira also needs Body).
func (r CreateIssueRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &Error{Kind: KindBadRequest, Op: OpCreate, Err: ErrTitleRequired}
	}
	return nil
}

// Service is the capability set of an issue tracker backend.
type Service interface {
	// CreateIssue creates an issue in the given project.
	CreateIssue(ctx context.Context, projectID string, req CreateIssueRequest) (*Issue, error)

	// GetIssue fetches a single issue by its backend key or id.
	GetIssue(ctx context.Context, projectID, issueID string) (*Issue, error)
}

// String returns a pointer to s.
func String(s string) *string {
	return &s
}

// StringValue returns the value of p, or "" if p is nil.
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// CloneLabels returns a copy of labels, preserving nil.
func CloneLabels(labels []string) []string {
	if labels == nil {
		return nil
	}
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}
