package redis

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/karadeck/karadeck/internal/domain"
	"github.com/karadeck/karadeck/internal/logger"
)

func newTestStore(t *testing.T) (*Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewStore(client, logger.Nop(), 100), mr
}

func TestOrderRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, ok := s.CollectionOrder(ctx); ok {
		t.Error("CollectionOrder() should be absent before any save")
	}

	s.SetCollectionOrder(ctx, []string{"c2", "c1"})
	ids, ok := s.CollectionOrder(ctx)
	if !ok || len(ids) != 2 || ids[0] != "c2" {
		t.Errorf("CollectionOrder() = %v, %v", ids, ok)
	}

	s.SetBookmarkOrder(ctx, "c1", []string{"b3", "b1"})
	ids, ok = s.BookmarkOrder(ctx, "c1")
	if !ok || len(ids) != 2 || ids[0] != "b3" {
		t.Errorf("BookmarkOrder(c1) = %v, %v", ids, ok)
	}

	if _, ok := s.BookmarkOrder(ctx, domain.ScopeUnassigned); ok {
		t.Error("unassigned scope should have no saved order yet")
	}
}

func TestCorruptOrderTreatedAsUnsaved(t *testing.T) {
	s, mr := newTestStore(t)
	ctx := context.Background()

	mr.Set(KeyCollectionOrder, "{not json")

	if _, ok := s.CollectionOrder(ctx); ok {
		t.Error("corrupt order record must read as absent, not fail")
	}
}

func TestOrderReadAfterRedisGone(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Close()

	// Storage faults are swallowed: absent order, no panic, no error.
	if _, ok := s.CollectionOrder(context.Background()); ok {
		t.Error("unreachable redis must read as absent")
	}
	s.SetCollectionOrder(context.Background(), []string{"c1"}) // must not panic
}

func TestSnapshotRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if got := s.Load(ctx); got != nil {
		t.Fatalf("Load() = %+v before any save, want nil", got)
	}

	snap := domain.NewSnapshot()
	snap.Collections = []domain.Collection{{ID: "c1", Name: "Work", Kind: domain.KindManual}}
	snap.Members["c1"] = []domain.Bookmark{{ID: "b1", Content: domain.Content{Kind: domain.ContentLink, URL: "https://x"}}}
	snap.Unassigned = []domain.Bookmark{{ID: "b2"}}

	s.Save(ctx, snap)

	got := s.Load(ctx)
	if got == nil {
		t.Fatal("Load() = nil after save")
	}
	if len(got.Collections) != 1 || got.Collections[0].ID != "c1" {
		t.Errorf("collections = %+v", got.Collections)
	}
	if len(got.Members["c1"]) != 1 || got.Members["c1"][0].ID != "b1" {
		t.Errorf("members = %+v", got.Members)
	}
	if len(got.Unassigned) != 1 || got.Unassigned[0].ID != "b2" {
		t.Errorf("unassigned = %+v", got.Unassigned)
	}
	if got.Members["c1"][0].Content.URL != "https://x" {
		t.Errorf("link content lost in cache round trip")
	}
}

func TestSnapshotSaveTruncatesText(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	long := strings.Repeat("x", 5000)
	snap := domain.NewSnapshot()
	snap.Unassigned = []domain.Bookmark{{
		ID:      "b1",
		Title:   long,
		Content: domain.Content{Kind: domain.ContentText, Text: long},
	}}

	s.Save(ctx, snap)

	got := s.Load(ctx)
	if got == nil {
		t.Fatal("Load() = nil")
	}
	if len(got.Unassigned[0].Title) > 100 || len(got.Unassigned[0].Content.Text) > 100 {
		t.Errorf("cached text not bounded: title=%d text=%d",
			len(got.Unassigned[0].Title), len(got.Unassigned[0].Content.Text))
	}

	// Saving must not mutate the live snapshot.
	if len(snap.Unassigned[0].Title) != 5000 {
		t.Error("Save() mutated the caller's snapshot")
	}
}

func TestCorruptSnapshotIgnored(t *testing.T) {
	s, mr := newTestStore(t)
	mr.Set(KeySnapshot, "][")

	if got := s.Load(context.Background()); got != nil {
		t.Errorf("Load() = %+v for corrupt cache, want nil", got)
	}
}
