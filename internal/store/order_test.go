package store

import (
	"testing"

	"github.com/karadeck/karadeck/internal/domain"
)

func bms(ids ...string) []domain.Bookmark {
	out := make([]domain.Bookmark, len(ids))
	for i, id := range ids {
		out[i] = domain.Bookmark{ID: id}
	}
	return out
}

func idsOf(items []domain.Bookmark) []string {
	out := make([]string, len(items))
	for i, b := range items {
		out[i] = b.ID
	}
	return out
}

func assertOrder(t *testing.T, got []domain.Bookmark, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", idsOf(got), want)
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("got %v, want %v", idsOf(got), want)
		}
	}
}

func TestApplyBookmarkOrderStability(t *testing.T) {
	// Saved [b,a], fetched [a,b,c]: saved items first in saved order,
	// unsaved c appended after, in fetched relative order.
	got := ApplyBookmarkOrder([]string{"b", "a"}, bms("a", "b", "c"))
	assertOrder(t, got, "b", "a", "c")
}

func TestApplyBookmarkOrderIdempotent(t *testing.T) {
	saved := []string{"c", "a"}
	once := ApplyBookmarkOrder(saved, bms("a", "b", "c", "d"))
	twice := ApplyBookmarkOrder(saved, once)
	assertOrder(t, twice, idsOf(once)...)
}

func TestApplyBookmarkOrderUnsavedKeepFetchedOrder(t *testing.T) {
	got := ApplyBookmarkOrder([]string{"z"}, bms("x", "y", "z", "w"))
	assertOrder(t, got, "z", "x", "y", "w")
}

func TestApplyBookmarkOrderNoSavedOrder(t *testing.T) {
	items := bms("a", "b")
	got := ApplyBookmarkOrder(nil, items)
	assertOrder(t, got, "a", "b")
}

func TestApplyBookmarkOrderStaleSavedIDs(t *testing.T) {
	// Saved order referencing bookmarks that no longer exist is harmless.
	got := ApplyBookmarkOrder([]string{"gone", "b", "also-gone", "a"}, bms("a", "b"))
	assertOrder(t, got, "b", "a")
}

func TestApplyBookmarkOrderDoesNotMutateInput(t *testing.T) {
	items := bms("a", "b", "c")
	_ = ApplyBookmarkOrder([]string{"c", "b", "a"}, items)
	assertOrder(t, items, "a", "b", "c")
}

func TestApplyCollectionOrder(t *testing.T) {
	items := []domain.Collection{{ID: "c1"}, {ID: "c2"}, {ID: "c3"}}
	got := ApplyCollectionOrder([]string{"c3", "c1"}, items)
	want := []string{"c3", "c1", "c2"}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("got %v at %d, want %v", got[i].ID, i, want[i])
		}
	}
}
