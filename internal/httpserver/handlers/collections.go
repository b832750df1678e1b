package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/karadeck/karadeck/internal/httpserver/deps"
)

type createCollectionRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// CreateCollection creates a collection on the remote store and places
// it at the front of the display order.
func CreateCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createCollectionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
			return
		}

		created, err := d.Engine.CreateCollection(r.Context(), req.Name, req.Icon)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

type renameCollectionRequest struct {
	Name string `json:"name"`
}

// RenameCollection applies the new name optimistically; the remote
// confirmation runs in the background.
func RenameCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req renameCollectionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
			return
		}

		d.Engine.RenameCollection(r.Context(), chi.URLParam(r, "id"), req.Name)
		w.WriteHeader(http.StatusAccepted)
	}
}

// DeleteCollection removes the collection and re-homes its bookmarks.
func DeleteCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Engine.DeleteCollection(r.Context(), chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusAccepted)
	}
}

type orderRequest struct {
	IDs []string `json:"ids"`
}

// OrderCollections overlays and persists a full collection order.
func OrderCollections(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orderRequest
		if !decodeBody(w, r, &req) {
			return
		}
		d.Engine.SetCollectionOrder(r.Context(), req.IDs)
		w.WriteHeader(http.StatusNoContent)
	}
}

type moveCollectionRequest struct {
	Target string `json:"target"`
}

// MoveCollection relocates one collection to another's position, the
// drag-and-drop primitive.
func MoveCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveCollectionRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if req.Target == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "target is required"})
			return
		}
		d.Engine.ReorderCollections(r.Context(), chi.URLParam(r, "id"), req.Target)
		w.WriteHeader(http.StatusNoContent)
	}
}

// PrioritizeCollection bumps a collection to the front of the view
// without persisting the change.
func PrioritizeCollection(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Engine.PrioritizeCollection(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}
