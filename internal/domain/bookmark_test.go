package domain

import (
	"encoding/json"
	"testing"
)

func TestContentUnmarshalLink(t *testing.T) {
	var c Content
	data := []byte(`{"type":"link","url":"https://example.com","title":"Example"}`)
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if c.Kind != ContentLink {
		t.Errorf("Kind = %q, want %q", c.Kind, ContentLink)
	}
	if c.URL != "https://example.com" {
		t.Errorf("URL = %q, want https://example.com", c.URL)
	}
}

func TestContentUnmarshalText(t *testing.T) {
	var c Content
	if err := json.Unmarshal([]byte(`{"type":"text","text":"a note"}`), &c); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if c.Kind != ContentText || c.Text != "a note" {
		t.Errorf("got %+v, want text variant with body", c)
	}
}

func TestContentUnmarshalUnknown(t *testing.T) {
	var c Content
	if err := json.Unmarshal([]byte(`{"type":"asset","assetId":"x"}`), &c); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if c.Kind != ContentUnknown {
		t.Errorf("Kind = %q, want %q", c.Kind, ContentUnknown)
	}
}

func TestDisplayTitleFallbacks(t *testing.T) {
	tests := []struct {
		name string
		b    Bookmark
		want string
	}{
		{
			name: "explicit title wins",
			b:    Bookmark{ID: "b1", Title: "Mine", Content: Content{Kind: ContentLink, URL: "https://x", Title: "Theirs"}},
			want: "Mine",
		},
		{
			name: "content title next",
			b:    Bookmark{ID: "b2", Content: Content{Kind: ContentLink, URL: "https://x", Title: "Theirs"}},
			want: "Theirs",
		},
		{
			name: "url last for links",
			b:    Bookmark{ID: "b3", Content: Content{Kind: ContentLink, URL: "https://x"}},
			want: "https://x",
		},
		{
			name: "text snippet",
			b:    Bookmark{ID: "b4", Content: Content{Kind: ContentText, Text: "short note"}},
			want: "short note",
		},
		{
			name: "unknown falls back to id",
			b:    Bookmark{ID: "b5", Content: Content{Kind: ContentUnknown}},
			want: "b5",
		},
	}

	for _, tt := range tests {
		if got := tt.b.DisplayTitle(); got != tt.want {
			t.Errorf("%s: DisplayTitle() = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestSnippetRuneBoundary(t *testing.T) {
	s := Snippet("héllo wörld", 6)
	if len(s) > 6 {
		t.Errorf("Snippet exceeded byte bound: %q (%d bytes)", s, len(s))
	}
	if s != "héllo" {
		t.Errorf("Snippet = %q, want %q", s, "héllo")
	}
}

func TestPatchApply(t *testing.T) {
	title := "renamed"
	url := "https://new"
	b := Bookmark{ID: "b1", Title: "old", Content: Content{Kind: ContentLink, URL: "https://old"}}

	BookmarkPatch{Title: &title, URL: &url}.Apply(&b)

	if b.Title != "renamed" || b.Content.URL != "https://new" {
		t.Errorf("patch not applied: %+v", b)
	}

	// URL patch is a no-op on non-link content.
	txt := Bookmark{ID: "b2", Content: Content{Kind: ContentText, Text: "x"}}
	BookmarkPatch{URL: &url}.Apply(&txt)
	if txt.Content.URL != "" {
		t.Errorf("url patch should not touch text content")
	}
}

func TestSnapshotClone(t *testing.T) {
	s := NewSnapshot()
	s.Collections = []Collection{{ID: "c1", Name: "Work"}}
	s.Members["c1"] = []Bookmark{{ID: "b1"}}
	s.Unassigned = []Bookmark{{ID: "b2"}}

	c := s.Clone()
	c.Members["c1"][0].ID = "mutated"
	c.Collections[0].Name = "mutated"
	c.Unassigned[0].ID = "mutated"

	if s.Members["c1"][0].ID != "b1" || s.Collections[0].Name != "Work" || s.Unassigned[0].ID != "b2" {
		t.Error("Clone() shares memory with the original snapshot")
	}
}
