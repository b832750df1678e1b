package store

import (
	"sort"

	"github.com/karadeck/karadeck/internal/domain"
)

// ApplyBookmarkOrder sorts freshly fetched bookmarks by a previously saved
// ordering. Items without a saved position sort after every item that has
// one and keep their fetched relative order among themselves. The overlay
// is idempotent: applying it twice yields the same sequence.
func ApplyBookmarkOrder(saved []string, items []domain.Bookmark) []domain.Bookmark {
	if len(saved) == 0 || len(items) == 0 {
		return items
	}
	pos := positions(saved)
	out := append([]domain.Bookmark(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return rank(pos, out[i].ID, len(saved)) < rank(pos, out[j].ID, len(saved))
	})
	return out
}

// ApplyCollectionOrder is the collection-sequence counterpart of
// ApplyBookmarkOrder.
func ApplyCollectionOrder(saved []string, items []domain.Collection) []domain.Collection {
	if len(saved) == 0 || len(items) == 0 {
		return items
	}
	pos := positions(saved)
	out := append([]domain.Collection(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		return rank(pos, out[i].ID, len(saved)) < rank(pos, out[j].ID, len(saved))
	})
	return out
}

func positions(saved []string) map[string]int {
	pos := make(map[string]int, len(saved))
	for i, id := range saved {
		// First occurrence wins if the saved data carries duplicates.
		if _, ok := pos[id]; !ok {
			pos[id] = i
		}
	}
	return pos
}

// rank maps unsaved ids past the end of the saved range; the stable sort
// keeps their fetched relative order.
func rank(pos map[string]int, id string, n int) int {
	if p, ok := pos[id]; ok {
		return p
	}
	return n
}
