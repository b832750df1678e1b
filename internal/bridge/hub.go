// Package bridge is the websocket link to the browser extension. The
// extension dials the daemon and keeps one long-lived socket open; the
// daemon sends correlated requests (ping, window listing, open window)
// and the extension replies with the matching id.
package bridge

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/karadeck/karadeck/internal/logger"
)

var (
	// ErrNotConnected means no extension socket is currently attached.
	ErrNotConnected = errors.New("bridge: extension not connected")
	// ErrTimeout means the extension did not reply within the deadline.
	ErrTimeout = errors.New("bridge: request timed out")
)

// Hub owns the single active extension connection. A newer connection
// replaces the current one; every request pending on the replaced socket
// fails immediately rather than waiting out its deadline.
type Hub struct {
	log     logger.Logger
	timeout time.Duration

	upgrader websocket.Upgrader

	mu      sync.Mutex
	conn    *websocket.Conn
	writeMu sync.Mutex
	pending map[string]chan reply
	version string
}

func NewHub(timeout time.Duration, allowedOrigins []string, log logger.Logger) *Hub {
	return &Hub{
		log:     log,
		timeout: timeout,
		pending: make(map[string]chan reply),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, a := range allowed {
			if a == "*" || a == origin {
				return true
			}
		}
		// Extension pages carry their extension origin.
		return privileged(origin + "/")
	}
}

// ServeWS upgrades the request and installs the socket as the active
// extension connection, then blocks reading replies until it drops.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("bridge upgrade failed", logger.Error(err))
		return
	}

	h.mu.Lock()
	if h.conn != nil {
		prev := h.conn
		h.failPendingLocked(ErrNotConnected)
		h.mu.Unlock()
		_ = prev.Close()
		h.mu.Lock()
	}
	h.conn = ws
	h.mu.Unlock()

	h.log.Info("extension connected", logger.String("remote", ws.RemoteAddr().String()))
	h.readLoop(ws)
}

func (h *Hub) readLoop(ws *websocket.Conn) {
	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			h.mu.Lock()
			if h.conn == ws {
				h.conn = nil
				h.version = ""
				h.failPendingLocked(ErrNotConnected)
			}
			h.mu.Unlock()
			h.log.Info("extension disconnected", logger.Error(err))
			return
		}

		var rep reply
		if err := json.Unmarshal(raw, &rep); err != nil {
			h.log.Warn("discarding malformed bridge reply", logger.Error(err))
			continue
		}

		h.mu.Lock()
		ch, ok := h.pending[rep.ID]
		if ok {
			delete(h.pending, rep.ID)
		}
		h.mu.Unlock()
		if !ok {
			// Reply for a request that already timed out or was failed
			// on reconnect. Nothing to deliver.
			continue
		}
		ch <- rep
	}
}

// failPendingLocked resolves every pending call with err. Caller holds mu.
func (h *Hub) failPendingLocked(err error) {
	for id, ch := range h.pending {
		delete(h.pending, id)
		ch <- reply{ID: id, OK: false, Error: err.Error()}
	}
}

// Connected reports whether an extension socket is currently attached.
func (h *Hub) Connected() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn != nil
}

// Version is the extension version from the last successful ping, empty
// when unknown.
func (h *Hub) Version() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.version
}

// call sends one request and waits for its correlated reply.
func (h *Hub) call(ctx context.Context, req request) (reply, error) {
	req.ID = ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	ch := make(chan reply, 1)

	h.mu.Lock()
	ws := h.conn
	if ws == nil {
		h.mu.Unlock()
		return reply{}, ErrNotConnected
	}
	h.pending[req.ID] = ch
	h.mu.Unlock()

	payload, err := json.Marshal(req)
	if err != nil {
		h.drop(req.ID)
		return reply{}, err
	}

	h.writeMu.Lock()
	err = ws.WriteMessage(websocket.TextMessage, payload)
	h.writeMu.Unlock()
	if err != nil {
		h.drop(req.ID)
		return reply{}, err
	}

	timer := time.NewTimer(h.timeout)
	defer timer.Stop()
	select {
	case rep := <-ch:
		if !rep.OK {
			if rep.Error == ErrNotConnected.Error() {
				return reply{}, ErrNotConnected
			}
			return reply{}, errors.New("bridge: " + rep.Error)
		}
		return rep, nil
	case <-timer.C:
		h.drop(req.ID)
		return reply{}, ErrTimeout
	case <-ctx.Done():
		h.drop(req.ID)
		return reply{}, ctx.Err()
	}
}

func (h *Hub) drop(id string) {
	h.mu.Lock()
	delete(h.pending, id)
	h.mu.Unlock()
}

// Ping checks the extension is alive and records its reported version.
func (h *Hub) Ping(ctx context.Context) (string, error) {
	rep, err := h.call(ctx, request{Type: typePing})
	if err != nil {
		return "", err
	}
	h.mu.Lock()
	h.version = rep.Version
	h.mu.Unlock()
	return rep.Version, nil
}

// GetWindows lists the open browser windows. Browser-internal tabs are
// filtered out; windows left with no tabs are dropped entirely.
func (h *Hub) GetWindows(ctx context.Context) ([]Window, error) {
	rep, err := h.call(ctx, request{Type: typeGetWindows})
	if err != nil {
		return nil, err
	}
	windows := make([]Window, 0, len(rep.Windows))
	for _, w := range rep.Windows {
		w.Tabs = filterTabs(w.Tabs)
		if len(w.Tabs) == 0 {
			continue
		}
		windows = append(windows, w)
	}
	return windows, nil
}

// OpenWindow asks the extension to open a new browser window with the
// given URLs. Privileged URLs are stripped before sending.
func (h *Hub) OpenWindow(ctx context.Context, urls []string) (int, error) {
	urls = filterURLs(urls)
	if len(urls) == 0 {
		return 0, errors.New("bridge: no openable urls")
	}
	rep, err := h.call(ctx, request{Type: typeOpenWindow, URLs: urls})
	if err != nil {
		return 0, err
	}
	return rep.WindowID, nil
}
