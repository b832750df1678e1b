package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/karadeck/karadeck/internal/domain"
	"github.com/karadeck/karadeck/internal/httpserver/deps"
)

type createBookmarkRequest struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// CreateBookmark saves a new link bookmark into the unassigned pool.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createBookmarkRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.URL = strings.TrimSpace(req.URL)
		if req.URL == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "url is required"})
			return
		}

		created, err := d.Engine.CreateBookmark(r.Context(), req.URL, req.Title)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

type moveBookmarkRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// MoveBookmark relocates a bookmark between scopes optimistically.
func MoveBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveBookmarkRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.From == "" || req.To == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "from and to scopes are required"})
			return
		}

		d.Engine.MoveBookmark(r.Context(), chi.URLParam(r, "id"), req.From, req.To)
		w.WriteHeader(http.StatusAccepted)
	}
}

type patchBookmarkRequest struct {
	Title *string `json:"title"`
	URL   *string `json:"url"`
}

// PatchBookmark applies a partial edit optimistically.
func PatchBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req patchBookmarkRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Title == nil && req.URL == nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "nothing to update"})
			return
		}

		d.Engine.EditBookmark(r.Context(), chi.URLParam(r, "id"),
			domain.BookmarkPatch{Title: req.Title, URL: req.URL})
		w.WriteHeader(http.StatusAccepted)
	}
}

// DeleteBookmark removes a bookmark. The scope query parameter names
// where it currently lives; when omitted the current view is scanned.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		scope := r.URL.Query().Get("scope")
		if scope == "" {
			scope = findScope(d, id)
		}
		if scope == "" {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "bookmark not found"})
			return
		}

		d.Engine.RemoveBookmark(r.Context(), id, scope)
		w.WriteHeader(http.StatusAccepted)
	}
}

func findScope(d deps.Deps, bookmarkID string) domain.ScopeKey {
	v := d.Engine.View()
	if v.Snapshot == nil {
		return ""
	}
	if v.Snapshot.FindBookmark(domain.ScopeUnassigned, bookmarkID) >= 0 {
		return domain.ScopeUnassigned
	}
	for _, c := range v.Snapshot.Collections {
		if v.Snapshot.FindBookmark(c.ID, bookmarkID) >= 0 {
			return c.ID
		}
	}
	return ""
}

// OrderScope overlays and persists a full bookmark order for one scope.
func OrderScope(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orderRequest
		if !decodeBody(w, r, &req) {
			return
		}
		d.Engine.SetScopeOrder(r.Context(), chi.URLParam(r, "scope"), req.IDs)
		w.WriteHeader(http.StatusNoContent)
	}
}
