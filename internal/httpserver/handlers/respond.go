package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/karadeck/karadeck/internal/bridge"
	"github.com/karadeck/karadeck/internal/remote"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps internal failures onto HTTP statuses. Remote store
// rejections keep their status; transport failures and everything else
// become 502, the daemon itself is fine.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	var rerr *remote.Error
	switch {
	case errors.As(err, &rerr) && rerr.Status != 0:
		status = rerr.Status
	case errors.Is(err, bridge.ErrNotConnected):
		status = http.StatusServiceUnavailable
	case errors.Is(err, bridge.ErrTimeout):
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}
