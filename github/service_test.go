package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync/atomic"
	"testing"

	gh "github.com/google/go-github/v57/github"

	"github.com/randalmurphal/issuegate/issue"
)

// newTestService creates a Service pointing to a test server.
func newTestService(t *testing.T, handler http.Handler) *Service {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := gh.NewClient(nil)
	client.BaseURL, _ = client.BaseURL.Parse(server.URL + "/")

	return newService(client, "testowner", nil)
}

func TestNewService(t *testing.T) {
	t.Run("valid inputs", func(t *testing.T) {
		s, err := NewService(Config{Token: "token123", Owner: "octo"}, nil)
		if err != nil {
			t.Fatalf("NewService: %v", err)
		}
		if s.owner != "octo" {
			t.Errorf("owner = %q", s.owner)
		}
	})

	t.Run("enterprise url", func(t *testing.T) {
		s, err := NewService(Config{Token: "t", Owner: "octo", BaseURL: "https://ghe.example.com/"}, nil)
		if err != nil {
			t.Fatalf("NewService: %v", err)
		}
		if got := s.client.BaseURL.String(); got != "https://ghe.example.com/api/v3/" {
			t.Errorf("BaseURL = %q", got)
		}
	})

	t.Run("missing token", func(t *testing.T) {
		if _, err := NewService(Config{Owner: "octo"}, nil); !errors.Is(err, ErrTokenRequired) {
			t.Errorf("err = %v, want ErrTokenRequired", err)
		}
	})

	t.Run("missing owner", func(t *testing.T) {
		if _, err := NewService(Config{Token: "t"}, nil); !errors.Is(err, ErrOwnerRequired) {
			t.Errorf("err = %v, want ErrOwnerRequired", err)
		}
	})
}

func TestCreateIssue(t *testing.T) {
	var got map[string]any
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/repos/testowner/testrepo/issues" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"number": 42,
			"title": "Fix bug",
			"body": "desc",
			"assignee": {"login": "octocat"},
			"labels": [{"name": "p1"}, {"name": "bug"}]
		}`))
	}))

	result, err := s.CreateIssue(context.Background(), "testrepo", issue.CreateIssueRequest{
		Title:    "Fix bug",
		Body:     issue.String("desc"),
		Owner:    issue.String("team-a"),
		Assignee: issue.String("octocat"),
		Labels:   []string{"p1", "bug"},
	})
	if err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}

	want := &issue.Issue{
		Name:     "projects/testrepo/issues/42",
		Title:    "Fix bug",
		Body:     issue.String("desc"),
		Owner:    issue.String("team-a"),
		Assignee: issue.String("octocat"),
		Labels:   []string{"p1", "bug"},
	}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("CreateIssue = %+v, want %+v", result, want)
	}

	if got["title"] != "Fix bug" || got["body"] != "desc" || got["assignee"] != "octocat" {
		t.Errorf("request body = %v", got)
	}
	if labels, _ := got["labels"].([]any); len(labels) != 2 || labels[0] != "p1" {
		t.Errorf("request labels = %v", got["labels"])
	}
}

func TestCreateIssueBodyOptional(t *testing.T) {
	var raw map[string]any
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"number": 1, "title": "t"}`))
	}))

	result, err := s.CreateIssue(context.Background(), "testrepo", issue.CreateIssueRequest{Title: "t"})
	if err != nil {
		t.Fatalf("CreateIssue: %v", err)
	}
	if result.Body != nil || result.Assignee != nil || result.Labels != nil {
		t.Errorf("CreateIssue = %+v, want nil optional fields", result)
	}
	if _, ok := raw["body"]; ok {
		t.Errorf("body should be omitted, got %v", raw)
	}
}

func TestGetIssue(t *testing.T) {
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/testowner/testrepo/issues/7" {
			t.Errorf("path = %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"number": 7,
			"title": "Crash",
			"body": null,
			"assignee": null,
			"labels": [{"name": "zeta"}, {"name": "alpha"}]
		}`))
	}))

	result, err := s.GetIssue(context.Background(), "testrepo", "7")
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}
	if result.Name != "projects/testrepo/issues/7" || result.Title != "Crash" {
		t.Errorf("GetIssue = %+v", result)
	}
	if result.Body != nil || result.Owner != nil || result.Assignee != nil {
		t.Errorf("GetIssue = %+v, want nil body, owner, assignee", result)
	}
	if !reflect.DeepEqual(result.Labels, []string{"zeta", "alpha"}) {
		t.Errorf("Labels = %v", result.Labels)
	}
}

func TestValidationMakesNoCall(t *testing.T) {
	var calls atomic.Int32
	s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	ctx := context.Background()

	cases := []struct {
		name string
		run  func() error
		want error
	}{
		{"create no title", func() error {
			_, err := s.CreateIssue(ctx, "testrepo", issue.CreateIssueRequest{})
			return err
		}, issue.ErrTitleRequired},
		{"create no project", func() error {
			_, err := s.CreateIssue(ctx, "", issue.CreateIssueRequest{Title: "t"})
			return err
		}, issue.ErrProjectRequired},
		{"create nested project", func() error {
			_, err := s.CreateIssue(ctx, "a/b", issue.CreateIssueRequest{Title: "t"})
			return err
		}, ErrProjectInvalid},
		{"get non numeric", func() error {
			_, err := s.GetIssue(ctx, "testrepo", "ABC-1")
			return err
		}, issue.ErrIssueIDInvalid},
		{"get zero", func() error {
			_, err := s.GetIssue(ctx, "testrepo", "0")
			return err
		}, issue.ErrIssueIDInvalid},
		{"get empty", func() error {
			_, err := s.GetIssue(ctx, "testrepo", "")
			return err
		}, issue.ErrIssueIDRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.run()
			if !errors.Is(err, issue.ErrBadRequest) || !errors.Is(err, tc.want) {
				t.Errorf("err = %v, want bad request %v", err, tc.want)
			}
		})
	}
	if calls.Load() != 0 {
		t.Errorf("made %d calls, want 0", calls.Load())
	}
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		status int
		want   issue.Kind
	}{
		{http.StatusUnauthorized, issue.KindUnauthorized},
		{http.StatusForbidden, issue.KindUnauthorized},
		{http.StatusNotFound, issue.KindNotFound},
		{http.StatusGone, issue.KindBackend},
		{http.StatusUnprocessableEntity, issue.KindBackend},
		{http.StatusBadGateway, issue.KindBackend},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			s := newTestService(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"message": "nope"}`))
			}))

			_, err := s.GetIssue(context.Background(), "testrepo", "1")
			if got := issue.KindOf(err); got != tt.want {
				t.Errorf("KindOf = %q, want %q (err %v)", got, tt.want, err)
			}
		})
	}
}
