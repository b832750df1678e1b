package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/karadeck/karadeck/internal/httpserver/deps"
	"github.com/karadeck/karadeck/internal/httpserver/handlers"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	r.Route("/api/bookmarks", func(r chi.Router) {
		r.Post("/", handlers.CreateBookmark(d))
		r.Post("/{id}/move", handlers.MoveBookmark(d))
		r.Patch("/{id}", handlers.PatchBookmark(d))
		r.Delete("/{id}", handlers.DeleteBookmark(d))
	})
	r.Put("/api/scopes/{scope}/order", handlers.OrderScope(d))
}
