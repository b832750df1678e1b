package handlers

import (
	"net/http"

	"github.com/karadeck/karadeck/internal/engine"
	"github.com/karadeck/karadeck/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready  bool          `json:"ready"`
	Status engine.Status `json:"status"`
}

// Readyz reports readiness: a view has been produced, even a stale one.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := d.Engine.View()
		ready := v.Snapshot != nil
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: ready, Status: v.Status})
	}
}
