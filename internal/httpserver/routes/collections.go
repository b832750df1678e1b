package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/karadeck/karadeck/internal/httpserver/deps"
	"github.com/karadeck/karadeck/internal/httpserver/handlers"
)

func init() { Register(registerCollections) }

func registerCollections(r chi.Router, d deps.Deps) {
	r.Route("/api/collections", func(r chi.Router) {
		r.Post("/", handlers.CreateCollection(d))
		r.Put("/order", handlers.OrderCollections(d))
		r.Patch("/{id}", handlers.RenameCollection(d))
		r.Delete("/{id}", handlers.DeleteCollection(d))
		r.Post("/{id}/move", handlers.MoveCollection(d))
		r.Post("/{id}/prioritize", handlers.PrioritizeCollection(d))
	})
}
