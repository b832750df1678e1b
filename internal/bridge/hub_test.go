package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/karadeck/karadeck/internal/logger"
)

// fakeExtension dials the hub's websocket endpoint and answers requests
// the way the real extension background script does.
type fakeExtension struct {
	t    *testing.T
	conn *websocket.Conn
}

func dialExtension(t *testing.T, url string, answer func(request) reply) *fakeExtension {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(url, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"/bridge", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	ext := &fakeExtension{t: t, conn: conn}
	if answer != nil {
		go ext.serve(answer)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return ext
}

func (f *fakeExtension) serve(answer func(request) reply) {
	for {
		_, raw, err := f.conn.ReadMessage()
		if err != nil {
			return
		}
		var req request
		if err := json.Unmarshal(raw, &req); err != nil {
			continue
		}
		rep := answer(req)
		rep.ID = req.ID
		payload, _ := json.Marshal(rep)
		if err := f.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func newHubServer(t *testing.T, timeout time.Duration) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(timeout, []string{"*"}, logger.Nop())
	mux := http.NewServeMux()
	mux.HandleFunc("/bridge", hub.ServeWS)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return hub, srv
}

func waitConnected(t *testing.T, hub *Hub) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !hub.Connected() {
		if time.Now().After(deadline) {
			t.Fatal("extension never registered as connected")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPingRecordsVersion(t *testing.T) {
	hub, srv := newHubServer(t, time.Second)
	dialExtension(t, srv.URL, func(req request) reply {
		if req.Type != typePing {
			t.Errorf("type = %q, want ping", req.Type)
		}
		return reply{OK: true, Version: "1.4.0"}
	})
	waitConnected(t, hub)

	v, err := hub.Ping(context.Background())
	if err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
	if v != "1.4.0" || hub.Version() != "1.4.0" {
		t.Errorf("version = %q / %q, want 1.4.0", v, hub.Version())
	}
}

func TestGetWindowsFiltersPrivilegedTabs(t *testing.T) {
	hub, srv := newHubServer(t, time.Second)
	dialExtension(t, srv.URL, func(req request) reply {
		return reply{OK: true, Windows: []Window{
			{ID: 1, Focused: true, Tabs: []Tab{
				{ID: 10, URL: "https://go.dev", Title: "Go", FavIconURL: "https://go.dev/favicon.ico", Active: true, Pinned: true},
				{ID: 11, URL: "chrome://settings", Title: "Settings"},
				{ID: 12, URL: "chrome-extension://abc/popup.html"},
				{ID: 13, URL: "about:blank"},
			}},
			{ID: 2, Tabs: []Tab{{ID: 20, URL: "about:config"}}},
		}}
	})
	waitConnected(t, hub)

	windows, err := hub.GetWindows(context.Background())
	if err != nil {
		t.Fatalf("GetWindows() error: %v", err)
	}
	if len(windows) != 1 {
		t.Fatalf("windows = %v, want the all-privileged window dropped", windows)
	}
	if !windows[0].Focused {
		t.Error("focused flag should survive filtering")
	}
	if len(windows[0].Tabs) != 1 || windows[0].Tabs[0].URL != "https://go.dev" {
		t.Fatalf("tabs = %v, want only the regular page", windows[0].Tabs)
	}
	tab := windows[0].Tabs[0]
	if tab.ID != 10 || tab.FavIconURL != "https://go.dev/favicon.ico" || !tab.Active || !tab.Pinned {
		t.Errorf("tab fields dropped in transit: %+v", tab)
	}
}

func TestOpenWindowStripsPrivilegedURLs(t *testing.T) {
	hub, srv := newHubServer(t, time.Second)
	var got []string
	dialExtension(t, srv.URL, func(req request) reply {
		got = req.URLs
		return reply{OK: true, WindowID: 7}
	})
	waitConnected(t, hub)

	id, err := hub.OpenWindow(context.Background(), []string{
		"https://go.dev", "chrome://history", "https://pkg.go.dev",
	})
	if err != nil {
		t.Fatalf("OpenWindow() error: %v", err)
	}
	if id != 7 {
		t.Errorf("window id = %d, want 7", id)
	}
	if len(got) != 2 || got[0] != "https://go.dev" || got[1] != "https://pkg.go.dev" {
		t.Errorf("sent urls = %v", got)
	}
}

func TestOpenWindowAllPrivileged(t *testing.T) {
	hub, srv := newHubServer(t, time.Second)
	dialExtension(t, srv.URL, func(req request) reply {
		t.Error("no request should reach the extension")
		return reply{OK: true}
	})
	waitConnected(t, hub)

	if _, err := hub.OpenWindow(context.Background(), []string{"chrome://flags"}); err == nil {
		t.Fatal("OpenWindow() should fail with nothing openable")
	}
}

func TestCallWithoutConnection(t *testing.T) {
	hub := NewHub(time.Second, []string{"*"}, logger.Nop())
	if _, err := hub.Ping(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Fatalf("Ping() error = %v, want ErrNotConnected", err)
	}
}

func TestCallTimesOut(t *testing.T) {
	hub, srv := newHubServer(t, 50*time.Millisecond)
	dialExtension(t, srv.URL, nil) // connected but never replies
	waitConnected(t, hub)

	if _, err := hub.Ping(context.Background()); !errors.Is(err, ErrTimeout) {
		t.Fatalf("Ping() error = %v, want ErrTimeout", err)
	}
}

func TestExtensionErrorReply(t *testing.T) {
	hub, srv := newHubServer(t, time.Second)
	dialExtension(t, srv.URL, func(req request) reply {
		return reply{OK: false, Error: "popup blocked"}
	})
	waitConnected(t, hub)

	_, err := hub.OpenWindow(context.Background(), []string{"https://go.dev"})
	if err == nil || !strings.Contains(err.Error(), "popup blocked") {
		t.Fatalf("error = %v, want extension message surfaced", err)
	}
}

func TestDisconnectFailsPending(t *testing.T) {
	hub, srv := newHubServer(t, 5*time.Second)
	ext := dialExtension(t, srv.URL, nil)
	waitConnected(t, hub)

	errCh := make(chan error, 1)
	go func() {
		_, err := hub.Ping(context.Background())
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)
	_ = ext.conn.Close()

	select {
	case err := <-errCh:
		if !errors.Is(err, ErrNotConnected) {
			t.Fatalf("error = %v, want ErrNotConnected", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("pending call should fail on disconnect, not wait out its deadline")
	}
}

func TestNewConnectionReplacesOld(t *testing.T) {
	hub, srv := newHubServer(t, time.Second)
	dialExtension(t, srv.URL, nil)
	waitConnected(t, hub)

	dialExtension(t, srv.URL, func(req request) reply {
		return reply{OK: true, Version: "2.0.0"}
	})

	deadline := time.Now().Add(2 * time.Second)
	for {
		if v, err := hub.Ping(context.Background()); err == nil && v == "2.0.0" {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("second connection never became the active one")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
