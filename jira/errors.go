package jira

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"

	devhttp "github.com/randalmurphal/issuegate/http"
)

// Configuration errors.
var (
	ErrConfigHostRequired      = errors.New("jira host is required")
	ErrConfigHostInvalid       = errors.New("jira host must be an http or https URL")
	ErrConfigAuthTypeInvalid   = errors.New("jira auth type must be basic, api_token, or pat")
	ErrConfigBasicAuth         = errors.New("basic auth requires username and password")
	ErrConfigAPITokenAuth      = errors.New("api_token auth requires email and token")
	ErrConfigPATAuth           = errors.New("pat auth requires token")
	ErrConfigAPIVersionInvalid = errors.New("api_version must be latest, 2, or 3")
)

// Issue errors.
var (
	ErrMissingKey = errors.New("jira response has no issue key")
)

// ADF errors.
var (
	ErrADFInvalid     = errors.New("invalid ADF document")
	ErrADFVersionOnly = errors.New("ADF version must be 1")
	ErrADFTypeInvalid = errors.New("ADF root type must be 'doc'")
)

// APIError represents an error response from the Jira API.
type APIError struct {
	StatusCode    int               `json:"-"`
	ErrorMessages []string          `json:"errorMessages,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
	Endpoint      string            `json:"-"`
	RequestID     string            `json:"-"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.ErrorMessages) > 0 {
		return fmt.Sprintf("jira api error (%d): %s", e.StatusCode, e.ErrorMessages[0])
	}
	if len(e.Errors) > 0 {
		fields := make([]string, 0, len(e.Errors))
		for field := range e.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		return fmt.Sprintf("jira api error (%d): %s: %s", e.StatusCode, fields[0], e.Errors[fields[0]])
	}
	if e.RequestID != "" {
		return fmt.Sprintf("jira api error (%d) at %s [%s]", e.StatusCode, e.Endpoint, e.RequestID)
	}
	return fmt.Sprintf("jira api error (%d) at %s", e.StatusCode, e.Endpoint)
}

// Unwrap returns the underlying sentinel error based on status code.
func (e *APIError) Unwrap() error {
	return devhttp.StatusSentinel(e.StatusCode)
}

// Status returns the HTTP status code.
func (e *APIError) Status() int {
	return e.StatusCode
}

// parseAPIError parses an error response from the Jira API.
func parseAPIError(resp *http.Response, endpoint string, body []byte) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Endpoint:   endpoint,
		RequestID:  resp.Header.Get("X-Arequestid"),
	}

	if json.Unmarshal(body, apiErr) != nil ||
		(len(apiErr.ErrorMessages) == 0 && len(apiErr.Errors) == 0) {
		apiErr.ErrorMessages = []string{http.StatusText(resp.StatusCode)}
	}

	return apiErr
}
