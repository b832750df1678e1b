package handlers

import (
	"net/http"

	"github.com/karadeck/karadeck/internal/domain"
	"github.com/karadeck/karadeck/internal/engine"
	"github.com/karadeck/karadeck/internal/httpserver/deps"
)

type stateResponse struct {
	Status      engine.Status                `json:"status"`
	Error       string                       `json:"error,omitempty"`
	Collections []domain.Collection          `json:"collections"`
	Members     map[string][]domain.Bookmark `json:"members"`
	Unassigned  []domain.Bookmark            `json:"unassigned"`
}

// State returns the full rendered view: status, collections in display
// order, per-collection members and the unassigned pool.
func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := d.Engine.View()

		resp := stateResponse{Status: v.Status}
		if v.Err != nil {
			resp.Error = v.Err.Error()
		}
		if v.Snapshot != nil {
			resp.Collections = v.Snapshot.Collections
			resp.Members = v.Snapshot.Members
			resp.Unassigned = v.Snapshot.Unassigned
		} else {
			resp.Collections = []domain.Collection{}
			resp.Members = map[string][]domain.Bookmark{}
			resp.Unassigned = []domain.Bookmark{}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
