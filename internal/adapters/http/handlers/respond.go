package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	app "github.com/reybrally/product-composite-service/internal/app/catalog"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// httpError is the uniform error envelope for classified failures.
type httpError struct {
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Status    int       `json:"status"`
	Message   string    `json:"message"`
}

// writeError maps the error taxonomy onto the wire. NOT_FOUND and
// INVALID_INPUT get the envelope; anything unclassified propagates with its
// native message and a plain 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := app.StatusForError(err)
	switch status {
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		writeJSON(w, status, httpError{
			Timestamp: time.Now().UTC(),
			Path:      r.URL.Path,
			Status:    status,
			Message:   err.Error(),
		})
	default:
		http.Error(w, err.Error(), status)
	}
}

func writeBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	writeJSON(w, http.StatusBadRequest, httpError{
		Timestamp: time.Now().UTC(),
		Path:      r.URL.Path,
		Status:    http.StatusBadRequest,
		Message:   message,
	})
}
