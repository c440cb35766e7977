package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// JiraNotFoundBody is the error envelope Jira returns for unknown issues.
const JiraNotFoundBody = `{"errorMessages":["Issue does not exist or you do not have permission to see it."],"errors":{}}`

// RecordedRequest is a request received by FakeJira.
type RecordedRequest struct {
	Method        string
	Path          string
	EscapedPath   string
	Authorization string
	ContentType   string
	Body          []byte
}

type fakeResponse struct {
	status int
	body   string
}

// FakeJira is an httptest server that answers canned responses per route.
// Unregistered routes answer 404 with JiraNotFoundBody.
type FakeJira struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]fakeResponse
	requests []RecordedRequest
	user     string
	pass     string
	delay    time.Duration
}

// NewFakeJira starts a FakeJira that is closed when the test ends.
func NewFakeJira(t *testing.T) *FakeJira {
	t.Helper()

	f := &FakeJira{routes: make(map[string]fakeResponse)}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Close)

	return f
}

// Respond registers a raw response for method and path.
func (f *FakeJira) Respond(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = fakeResponse{status: status, body: body}
}

// RespondJSON registers a JSON-encoded response for method and path.
func (f *FakeJira) RespondJSON(method, path string, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		panic("fakejira: marshal response: " + err.Error())
	}
	f.Respond(method, path, status, string(data))
}

// RequireBasicAuth makes every request without these credentials answer 401.
func (f *FakeJira) RequireBasicAuth(user, pass string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.user, f.pass = user, pass
}

// SetDelay holds every response for d, or until the client gives up.
func (f *FakeJira) SetDelay(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

// Requests returns a copy of the requests received so far.
func (f *FakeJira) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]RecordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

// RequestCount returns how many requests were received.
func (f *FakeJira) RequestCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *FakeJira) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, RecordedRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		EscapedPath:   r.URL.EscapedPath(),
		Authorization: r.Header.Get("Authorization"),
		ContentType:   r.Header.Get("Content-Type"),
		Body:          body,
	})
	resp, ok := f.routes[r.Method+" "+r.URL.Path]
	user, pass, delay := f.user, f.pass, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json;charset=UTF-8")

	if user != "" {
		gotUser, gotPass, hasAuth := r.BasicAuth()
		if !hasAuth || gotUser != user || gotPass != pass {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"errorMessages":["You are not authenticated."],"errors":{}}`)
			return
		}
	}

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, JiraNotFoundBody)
		return
	}

	w.WriteHeader(resp.status)
	_, _ = io.WriteString(w, resp.body)
}
