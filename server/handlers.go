package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/randalmurphal/issuegate/issue"
)

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("project_id")

	var req issue.CreateIssueRequest
	if err := decodeJSON(w, r, s.maxBodyBytes, &req); err != nil {
		s.logger.DebugContext(r.Context(), "rejected request body", "error", err)
		writeError(w, http.StatusBadRequest)
		return
	}

	created, err := s.svc.CreateIssue(r.Context(), projectID, req)
	if err != nil {
		s.writeIssueError(w, r, err)
		return
	}

	w.Header().Set("Location", location(projectID, created.Name))
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	got, err := s.svc.GetIssue(r.Context(), r.PathValue("project_id"), r.PathValue("issue_id"))
	if err != nil {
		s.writeIssueError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, got)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound)
}

func methodNotAllowed(allow string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Allow", allow)
		writeError(w, http.StatusMethodNotAllowed)
	}
}

func (s *Server) writeIssueError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.WarnContext(r.Context(), "backend failure", "status", status, "error", err)
	}
	writeError(w, status)
}

// location builds the Location of a created issue. The project and key are
// path-escaped as single segments.
func location(projectID, name string) string {
	_, key, err := issue.ParseName(name)
	if err != nil {
		key = name[strings.LastIndex(name, "/")+1:]
	}
	return fmt.Sprintf("/projects/%s/issues/%s", url.PathEscape(projectID), url.PathEscape(key))
}

var errTrailingData = errors.New("unexpected data after JSON body")

// decodeJSON decodes a single JSON object, rejecting unknown fields and
// bodies over limit.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailingData
	}
	return nil
}
