package server

import (
	"encoding/json"
	"net/http"

	"github.com/randalmurphal/issuegate/issue"
)

// errorBody is the failure envelope. Messages are generic status texts;
// backend details are never sent to the caller.
type errorBody struct {
	Error string `json:"error"`
}

// statusFor maps an adapter error to a response status.
func statusFor(err error) int {
	switch issue.KindOf(err) {
	case issue.KindBadRequest:
		return http.StatusBadRequest
	case issue.KindUnauthorized:
		return http.StatusUnauthorized
	case issue.KindNotFound:
		return http.StatusNotFound
	case issue.KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int) {
	writeJSON(w, status, errorBody{Error: http.StatusText(status)})
}
