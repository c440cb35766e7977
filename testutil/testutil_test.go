package testutil

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestContext(t *testing.T) {
	var ctx context.Context
	t.Run("inner", func(t *testing.T) {
		ctx = Context(t)
		if ctx.Err() != nil {
			t.Errorf("ctx.Err() = %v during the test", ctx.Err())
		}
	})

	if !errors.Is(ctx.Err(), context.Canceled) {
		t.Errorf("ctx.Err() = %v after cleanup, want Canceled", ctx.Err())
	}
}

func TestContextWithTimeout(t *testing.T) {
	ctx := ContextWithTimeout(t, 20*time.Millisecond)

	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context did not expire")
	}
	if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		t.Errorf("ctx.Err() = %v, want DeadlineExceeded", ctx.Err())
	}
}

func TestJSONFixture(t *testing.T) {
	type sample struct {
		Key    string   `json:"key"`
		Labels []string `json:"labels"`
	}

	got := JSONFixture[sample](t, "sample.json")
	if got.Key != "ABC-1" {
		t.Errorf("Key = %q, want %q", got.Key, "ABC-1")
	}
	if len(got.Labels) != 2 {
		t.Errorf("Labels = %v", got.Labels)
	}
}

func TestFakeJira(t *testing.T) {
	fake := NewFakeJira(t)
	fake.Respond(http.MethodGet, "/rest/api/latest/issue/ABC-1", http.StatusOK, `{"key":"ABC-1"}`)

	resp, err := http.Get(fake.URL + "/rest/api/latest/issue/ABC-1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	resp, err = http.Get(fake.URL + "/rest/api/latest/issue/ABC-2")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}

	reqs := fake.Requests()
	if len(reqs) != 2 || reqs[1].Path != "/rest/api/latest/issue/ABC-2" {
		t.Errorf("Requests() = %+v", reqs)
	}
}

func TestFakeJiraRequireBasicAuth(t *testing.T) {
	fake := NewFakeJira(t)
	fake.RequireBasicAuth("alice", "s3cret")
	fake.Respond(http.MethodGet, "/x", http.StatusOK, `{}`)

	req, _ := http.NewRequest(http.MethodGet, fake.URL+"/x", nil)
	req.SetBasicAuth("alice", "wrong")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}

	req.SetBasicAuth("alice", "s3cret")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if fake.RequestCount() != 2 {
		t.Errorf("RequestCount() = %d, want 2", fake.RequestCount())
	}
}
