package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/karadeck/karadeck/internal/httpserver/deps"
)

func init() { Register(registerBridge) }

func registerBridge(r chi.Router, d deps.Deps) {
	r.Get("/api/bridge/ws", d.Bridge.ServeWS)
}
