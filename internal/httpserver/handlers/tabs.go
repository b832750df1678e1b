package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/karadeck/karadeck/internal/engine"
	"github.com/karadeck/karadeck/internal/httpserver/deps"
	"github.com/karadeck/karadeck/internal/logger"
)

// TabWindows returns a one-shot listing of the open browser windows.
func TabWindows(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Tabs.Poll(r.Context()))
	}
}

// TabStream pushes window updates over server-sent events for as long as
// the client stays connected. Holding the stream open is what keeps the
// extension poll loop running.
func TabStream(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "streaming unsupported"})
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		updates, release := d.Tabs.Subscribe()
		defer release()

		for {
			select {
			case u := <-updates:
				payload, err := json.Marshal(u)
				if err != nil {
					continue
				}
				if _, err := w.Write([]byte("data: " + string(payload) + "\n\n")); err != nil {
					return
				}
				flusher.Flush()
			case <-r.Context().Done():
				return
			}
		}
	}
}

type openTabsRequest struct {
	URLs []string `json:"urls"`
}

type openTabsResponse struct {
	WindowID int `json:"windowId"`
}

// OpenTabs asks the extension to open a new browser window with the
// given URLs. Typically a whole collection at once.
func OpenTabs(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req openTabsRequest
		if !decodeBody(w, r, &req) {
			return
		}
		if len(req.URLs) == 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "urls are required"})
			return
		}

		id, err := d.Bridge.OpenWindow(r.Context(), req.URLs)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, openTabsResponse{WindowID: id})
	}
}

type saveWindowRequest struct {
	Name string           `json:"name"`
	Tabs []engine.TabLink `json:"tabs"`
}

// SaveWindow captures a browser window as a new collection.
func SaveWindow(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req saveWindowRequest
		if !decodeBody(w, r, &req) {
			return
		}
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "name is required"})
			return
		}
		if len(req.Tabs) == 0 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "tabs are required"})
			return
		}

		created, err := d.Engine.SaveWindow(r.Context(), req.Name, req.Tabs)
		if err != nil {
			d.Logger.Error("save window failed",
				logger.String("name", req.Name), logger.Error(err))
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

type bridgeStatusResponse struct {
	Connected bool   `json:"connected"`
	Version   string `json:"version,omitempty"`
}

// BridgeStatus reports whether the extension is connected, pinging it
// for a fresh version when it is.
func BridgeStatus(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := bridgeStatusResponse{Connected: d.Bridge.Connected()}
		if resp.Connected {
			v, err := d.Bridge.Ping(r.Context())
			if err != nil {
				// Attached but unresponsive counts as down.
				resp.Connected = false
			}
			resp.Version = v
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
