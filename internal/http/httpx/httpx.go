// Package httpx has the small JSON response helpers shared by handlers and
// middleware.
package httpx

import (
	"encoding/json"
	"net/http"
)

// Error kinds surfaced to clients. Anything unexpected collapses to
// KindInternal; the cause is logged server-side, never sent.
const (
	KindUnauthorized = "Unauthorized"
	KindValidation   = "Validation"
	KindNotFound     = "Not found"
	KindInternal     = "Internal"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, kind, message string) {
	WriteJSON(w, status, ErrorBody{Error: kind, Message: message})
}
