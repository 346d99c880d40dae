package handlers

import (
	"net/http"
	"time"
)

var startedAt = time.Now()

// NewHealthHandler returns a simple liveness probe.
func NewHealthHandler(serviceName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"status":     "ok",
			"service":    serviceName,
			"started_at": startedAt.Format(time.RFC3339),
			"uptime_sec": int(time.Since(startedAt).Seconds()),
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
