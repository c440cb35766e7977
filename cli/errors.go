package cli

import (
	"errors"
	"strings"

	"github.com/randalmurphal/issuegate/auth"
	"github.com/randalmurphal/issuegate/config"
)

// CLIError wraps an error with user-friendly context and suggestions.
type CLIError struct {
	// Err is the underlying error
	Err error

	// Message is a user-friendly description of what went wrong
	Message string

	// Suggestion is an actionable hint for the user
	Suggestion string
}

func (e *CLIError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Suggestion)
	}

	return sb.String()
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// hints pairs startup errors with the setting that fixes them.
var hints = []struct {
	err        error
	suggestion string
}{
	{config.ErrJiraHostRequired, "Set JIRA_HOST or jira_host in the config file."},
	{config.ErrJiraUserRequired, "Set JIRA_USER or jira_user in the config file."},
	{config.ErrJiraPassRequired, "Set JIRA_PASS or jira_pass in the config file."},
	{config.ErrJiraToken, "Set JIRA_TOKEN or jira_token in the config file."},
	{config.ErrJiraAuthInvalid, "jira_auth must be basic, api_token or pat."},
	{config.ErrGitHubToken, "Set GITHUB_TOKEN or github_token in the config file."},
	{config.ErrGitHubOwner, "Set ISSUEGATE_GITHUB_OWNER or github_owner in the config file."},
	{config.ErrGitLabToken, "Set GITLAB_TOKEN or gitlab_token in the config file."},
	{config.ErrUnknownBackend, "Use --backend jira, github or gitlab."},
	{auth.ErrSecretTooShort, "Set ISSUEGATE_JWT_SECRET to at least 32 bytes."},
}

// explain wraps err with a suggestion when one is known.
func explain(message string, err error) error {
	if err == nil {
		return nil
	}
	for _, h := range hints {
		if errors.Is(err, h.err) {
			return &CLIError{Err: err, Message: message, Suggestion: h.suggestion}
		}
	}
	return &CLIError{Err: err, Message: message}
}
