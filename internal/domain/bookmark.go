package domain

import (
	"encoding/json"
)

// ContentKind tags the polymorphic bookmark payload. The remote store
// discriminates content ad hoc by field presence; here it is an explicit
// variant so display derivation stays exhaustive.
type ContentKind string

const (
	ContentLink    ContentKind = "link"
	ContentText    ContentKind = "text"
	ContentUnknown ContentKind = "unknown"
)

// Content is the tagged bookmark payload: Link{url}, Text{body} or Unknown.
type Content struct {
	Kind ContentKind `json:"type"`

	// URL and Title are set for link content.
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`

	// Text is set for text content.
	Text string `json:"text,omitempty"`
}

// Bookmark is a single entry owned by the remote store. The dashboard
// never originates its identifier; it only relays creation requests and
// adopts the ID the store returns.
type Bookmark struct {
	// ID is globally unique, assigned by the remote store.
	ID string `json:"id"`

	// Title may be absent; display falls back through the content.
	Title string `json:"title,omitempty"`

	Content Content `json:"content"`
}

// contentWire mirrors the remote store's content object. A missing or
// unrecognized "type" maps to ContentUnknown rather than guessing from
// field presence.
type contentWire struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (c *Content) UnmarshalJSON(data []byte) error {
	var w contentWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case string(ContentLink):
		*c = Content{Kind: ContentLink, URL: w.URL, Title: w.Title}
	case string(ContentText):
		*c = Content{Kind: ContentText, Text: w.Text}
	default:
		*c = Content{Kind: ContentUnknown}
	}
	return nil
}

// DisplayTitle derives the string shown on a bookmark card:
// explicit title, then content title, then URL, then a text snippet.
func (b Bookmark) DisplayTitle() string {
	if b.Title != "" {
		return b.Title
	}
	switch b.Content.Kind {
	case ContentLink:
		if b.Content.Title != "" {
			return b.Content.Title
		}
		return b.Content.URL
	case ContentText:
		return Snippet(b.Content.Text, 80)
	default:
		return b.ID
	}
}

// URL returns the link target, empty for non-link content.
func (b Bookmark) URL() string {
	if b.Content.Kind == ContentLink {
		return b.Content.URL
	}
	return ""
}

// Snippet truncates s to at most n bytes on a rune boundary.
func Snippet(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	runes := []rune(s)
	out := ""
	for _, r := range runes {
		if len(out)+len(string(r)) > n {
			break
		}
		out += string(r)
	}
	return out
}

// BookmarkPatch is a partial bookmark update. Nil fields are untouched.
type BookmarkPatch struct {
	Title *string `json:"title,omitempty"`
	URL   *string `json:"url,omitempty"`
}

// Apply mutates b in place with the non-nil fields of the patch.
func (p BookmarkPatch) Apply(b *Bookmark) {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.URL != nil && b.Content.Kind == ContentLink {
		b.Content.URL = *p.URL
	}
}
