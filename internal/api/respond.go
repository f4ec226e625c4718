// internal/api/respond.go
package api

import (
	"encoding/json"
	"net/http"

	"recruitment-core/internal/common/errors"
)

// response is the envelope every endpoint answers with.
type response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeData(w http.ResponseWriter, status int, message string, data interface{}) {
	writeJSON(w, status, response{Success: true, Message: message, Data: data})
}

func writeList(w http.ResponseWriter, data interface{}, count int) {
	writeJSON(w, http.StatusOK, response{Success: true, Count: &count, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response{Success: false, Message: message})
}

// writeStandardError maps a pipeline error onto the wire via its code.
func writeStandardError(w http.ResponseWriter, err error) {
	stdErr := errors.AsStandard(err)
	writeError(w, stdErr.HTTPStatus(), stdErr.Message)
}
