package server

import (
	"encoding/json"
	"net/http"

	svcErr "github.com/sparkmeet/match-engine/internal/errors"
)

// ErrorResponse is the JSON body for every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WriteJSON writes a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// WriteError maps the error through the central mapper and writes the
// resulting status and message.
func WriteError(w http.ResponseWriter, err error) {
	status, msg := svcErr.Map(err)
	WriteJSON(w, status, ErrorResponse{Error: msg})
}
