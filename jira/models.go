package jira

import (
	"fmt"
	"strings"
)

// DefaultIssueType is the issue type used for every created issue.
const DefaultIssueType = "Task"

// APIVersion is the REST path segment ("latest", "2" or "3").
type APIVersion string

// API versions supported by the Jira REST API.
const (
	APIVersionLatest APIVersion = "latest"
	APIVersionV2     APIVersion = "2"
	APIVersionV3     APIVersion = "3"
)

// ParseAPIVersion normalizes s. Empty means latest; a leading "v" is accepted.
func ParseAPIVersion(s string) (APIVersion, error) {
	switch strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "v") {
	case "", "latest":
		return APIVersionLatest, nil
	case "2":
		return APIVersionV2, nil
	case "3":
		return APIVersionV3, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrConfigAPIVersionInvalid, s)
	}
}

// User represents a Jira user.
type User struct {
	Self         string `json:"self,omitempty"`
	Key          string `json:"key,omitempty"`
	Name         string `json:"name,omitempty"` // Server (username)
	EmailAddress string `json:"emailAddress,omitempty"`
	DisplayName  string `json:"displayName,omitempty"`
	AccountID    string `json:"accountId,omitempty"` // Cloud
}

// ProjectRef references a project by key.
type ProjectRef struct {
	Key string `json:"key"`
}

// IssueTypeRef references an issue type by name.
type IssueTypeRef struct {
	Name string `json:"name"`
}

// CreateIssueRequest represents a request to create an issue.
type CreateIssueRequest struct {
	Fields CreateIssueFields `json:"fields"`
}

// CreateIssueFields represents the fields for creating an issue.
type CreateIssueFields struct {
	Project     ProjectRef   `json:"project"`
	IssueType   IssueTypeRef `json:"issuetype"`
	Summary     string       `json:"summary"`
	Description any          `json:"description"` // string, or *ADFDocument on v3
}

// CreateIssueResponse represents the response from creating an issue.
type CreateIssueResponse struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// Issue represents a Jira issue.
type Issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Self   string      `json:"self"`
	Fields IssueFields `json:"fields"`
}

// IssueFields contains the fields of a Jira issue.
type IssueFields struct {
	Project     *ProjectRef   `json:"project,omitempty"`
	IssueType   *IssueTypeRef `json:"issuetype,omitempty"`
	Summary     string        `json:"summary"`
	Description any           `json:"description,omitempty"` // ADF (v3) or string (v2)
	Assignee    *User         `json:"assignee,omitempty"`
	Labels      []string      `json:"labels,omitempty"`
}
