package handlers

import (
	"net/http"
	"strings"

	"github.com/karadeck/karadeck/internal/domain"
	"github.com/karadeck/karadeck/internal/httpserver/deps"
	"github.com/karadeck/karadeck/internal/logger"
)

type searchResponse struct {
	Bookmarks []domain.Bookmark `json:"bookmarks"`
}

// Search passes a full-text query through to the remote store. Results
// are not part of the synchronized state and never touch the snapshot.
func Search(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeJSON(w, http.StatusOK, searchResponse{Bookmarks: []domain.Bookmark{}})
			return
		}

		d.Logger.Debug("search request", logger.String("query", query))
		results, err := d.Engine.Search(r.Context(), query)
		if err != nil {
			writeError(w, err)
			return
		}
		if results == nil {
			results = []domain.Bookmark{}
		}
		writeJSON(w, http.StatusOK, searchResponse{Bookmarks: results})
	}
}
