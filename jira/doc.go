// Package jira implements the issue backend for the Jira REST API.
//
// Client speaks the wire protocol: one request per call against
// /rest/api/{version}/issue, credentials attached to every request.
// Service adapts a Client to issue.Service, translating between the
// canonical issue resource and Jira's project/issuetype/summary/description
// schema.
//
// # Authentication
//
// The client supports three authentication methods:
//   - Basic Auth (Server): username + password
//   - API Token (Cloud): email + API token, sent as Basic
//   - Personal Access Token (Server/DC): sent as Bearer
//
// # Usage
//
//	cfg := jira.DefaultConfig()
//	cfg.Host = "https://jira.example.com"
//	cfg.Auth = jira.AuthConfig{Type: jira.AuthBasic, Username: "bot", Password: "secret"}
//
//	client, err := jira.NewClient(cfg)
//	if err != nil {
//		return err
//	}
//
//	svc := jira.NewService(client)
//	iss, err := svc.GetIssue(ctx, "PROJ", "PROJ-123")
//
// # Rich Text
//
// With API version 3 Jira exchanges descriptions as Atlassian Document
// Format. Outgoing bodies become one paragraph per blank-line separated
// block; incoming ADF descriptions are flattened to plain text.
//
// # Error Handling
//
// Service returns *issue.Error values. Client errors carry the HTTP status
// and unwrap to the http package sentinels:
//
//	if errors.Is(err, http.ErrNotFound) {
//		// Issue doesn't exist
//	}
package jira
