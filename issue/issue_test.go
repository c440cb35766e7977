package issue

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCreateIssueRequestValidate(t *testing.T) {
	if err := (CreateIssueRequest{Title: "Fix bug"}).Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	for _, title := range []string{"", "   "} {
		err := CreateIssueRequest{Title: title}.Validate()
		if !errors.Is(err, ErrBadRequest) || !errors.Is(err, ErrTitleRequired) {
			t.Errorf("Validate(%q) = %v, want bad request", title, err)
		}
	}
}

func TestIssueJSONNulls(t *testing.T) {
	iss := Issue{
		Name:   "projects/ABC/issues/ABC-1",
		Title:  "Fix bug",
		Body:   String("desc"),
		Labels: []string{"p1"},
	}

	data, err := json.Marshal(iss)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"name":"projects/ABC/issues/ABC-1","title":"Fix bug","body":"desc","owner":null,"assignee":null,"labels":["p1"]}`
	if string(data) != want {
		t.Errorf("json = %s\nwant   %s", data, want)
	}
}

func TestCreateIssueRequestDecode(t *testing.T) {
	var req CreateIssueRequest
	body := `{"title":"Fix bug","labels":["b","a"]}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if req.Body != nil {
		t.Errorf("Body = %q, want nil", *req.Body)
	}
	if len(req.Labels) != 2 || req.Labels[0] != "b" || req.Labels[1] != "a" {
		t.Errorf("Labels = %v", req.Labels)
	}
}

func TestCloneLabels(t *testing.T) {
	if CloneLabels(nil) != nil {
		t.Error("CloneLabels(nil) should stay nil")
	}

	src := []string{"x", "y"}
	out := CloneLabels(src)
	out[0] = "changed"
	if src[0] != "x" {
		t.Error("CloneLabels must copy")
	}
}

func TestStringValue(t *testing.T) {
	if StringValue(nil) != "" {
		t.Error("StringValue(nil) should be empty")
	}
	if StringValue(String("a")) != "a" {
		t.Error("StringValue round trip failed")
	}
}
