package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/karadeck/karadeck/internal/httpserver/deps"
	"github.com/karadeck/karadeck/internal/httpserver/handlers"
)

func init() { Register(registerTabs) }

func registerTabs(r chi.Router, d deps.Deps) {
	r.Route("/api/tabs", func(r chi.Router) {
		r.Get("/windows", handlers.TabWindows(d))
		r.Get("/stream", handlers.TabStream(d))
		r.Post("/open", handlers.OpenTabs(d))
		r.Post("/save", handlers.SaveWindow(d))
		r.Get("/status", handlers.BridgeStatus(d))
	})
}
