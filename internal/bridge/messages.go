package bridge

import "strings"

// Tab is one browser tab as reported by the extension.
type Tab struct {
	ID         int    `json:"id"`
	URL        string `json:"url"`
	Title      string `json:"title"`
	FavIconURL string `json:"favIconUrl"`
	Active     bool   `json:"active"`
	Pinned     bool   `json:"pinned"`
}

// Window is one browser window and its tabs.
type Window struct {
	ID      int   `json:"id"`
	Focused bool  `json:"focused"`
	Tabs    []Tab `json:"tabs"`
}

// request is the envelope the daemon sends over the extension socket.
// ID correlates the eventual reply.
type request struct {
	ID   string   `json:"id"`
	Type string   `json:"type"`
	URLs []string `json:"urls,omitempty"`
}

// reply is the envelope the extension sends back.
type reply struct {
	ID       string   `json:"id"`
	OK       bool     `json:"ok"`
	Error    string   `json:"error,omitempty"`
	Version  string   `json:"version,omitempty"`
	Windows  []Window `json:"windows,omitempty"`
	WindowID int      `json:"windowId,omitempty"`
}

const (
	typePing       = "ping"
	typeGetWindows = "getWindows"
	typeOpenWindow = "openWindow"
)

// privilegedSchemes are browser-internal pages the extension cannot open
// and that are useless as bookmarks. Tabs with these URLs are dropped
// from window listings, and open requests never include them.
var privilegedSchemes = []string{"chrome://", "chrome-extension://", "about:"}

func privileged(url string) bool {
	for _, scheme := range privilegedSchemes {
		if strings.HasPrefix(url, scheme) {
			return true
		}
	}
	return false
}

func filterTabs(tabs []Tab) []Tab {
	out := make([]Tab, 0, len(tabs))
	for _, t := range tabs {
		if t.URL == "" || privileged(t.URL) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func filterURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u == "" || privileged(u) {
			continue
		}
		out = append(out, u)
	}
	return out
}
