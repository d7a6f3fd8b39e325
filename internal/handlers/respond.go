// Package handlers implements the HTTP handlers for the PhotoShare API.
// All responses use a uniform JSON envelope with code, message, and an
// optional data payload.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// envelope is the standard API response wrapper used across handlers.
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// writeJSON writes a success response using the common envelope.
func writeJSON(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, envelope{Code: status, Message: message, Data: data})
}

// writeError writes an error response with the shared envelope structure.
func writeError(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Code: status, Message: message})
}

func write(w http.ResponseWriter, status int, payload envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
