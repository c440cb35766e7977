// Package issue defines the backend-agnostic issue resource served by issuegate.
//
// The package owns three things:
//   - Issue and CreateIssueRequest, the canonical resource shapes exposed at
//     the API boundary
//   - Service, the capability interface every tracker backend implements
//   - the error taxonomy (Kind, Error) used to classify backend failures
//
// # Backends
//
// A backend translates between the canonical shapes and its own wire schema:
//
//	svc := jira.NewService(client)
//	iss, err := svc.CreateIssue(ctx, "ABC", issue.CreateIssueRequest{
//		Title: "Fix bug",
//		Body:  issue.String("desc"),
//	})
//
// # Error Handling
//
// Backends return *Error values. Use errors.Is with the sentinels, or KindOf:
//
//	if errors.Is(err, issue.ErrNotFound) {
//		// Issue doesn't exist
//	}
//	switch issue.KindOf(err) {
//	case issue.KindUnauthorized:
//		// Backend rejected the credentials
//	}
package issue
