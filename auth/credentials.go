package auth

import "net/http"

// Credentials attach outbound authentication to a request.
// Implementations are immutable and safe for concurrent use.
type Credentials interface {
	Apply(req *http.Request)
}

// Basic is HTTP Basic authentication.
type Basic struct {
	Username string
	Password string
}

// Apply sets the Authorization header.
func (b Basic) Apply(req *http.Request) {
	req.SetBasicAuth(b.Username, b.Password)
}

// String hides the password.
func (b Basic) String() string {
	return "basic(" + b.Username + ")"
}

// Bearer is token authentication, used for Jira personal access tokens.
type Bearer struct {
	Token string
}

// Apply sets the Authorization header.
func (b Bearer) Apply(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+b.Token)
}

// String hides the token.
func (b Bearer) String() string {
	return "bearer(***)"
}
