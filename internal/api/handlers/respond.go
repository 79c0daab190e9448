// Package handlers provides HTTP handlers for the ingestion API.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

var errEmptyBody = errors.New("request body is empty")

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, map[string]string{"error": message})
}

// readBody reads the whole request body. It writes the error response
// itself and reports whether the handler may continue.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(r.Body)
	if err == nil && len(strings.TrimSpace(string(body))) == 0 {
		err = errEmptyBody
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
		case errors.Is(err, errEmptyBody):
			jsonError(w, err.Error(), http.StatusBadRequest)
		default:
			jsonError(w, "could not read request body", http.StatusBadRequest)
		}
		return nil, false
	}
	return body, true
}
