// Package store defines the client-owned persistence capabilities the
// engine depends on: user-chosen ordering and the last-known snapshot.
// Both are conveniences, never sources of truth: implementations must
// degrade to "absent" on any fault rather than failing the caller.
package store

import (
	"context"

	"github.com/karadeck/karadeck/internal/domain"
)

// OrderStore persists user-chosen ordering, keyed by collection identity.
// It is independent of remote state: a saved order may reference bookmarks
// that no longer exist, and freshly fetched items may be absent from it.
type OrderStore interface {
	// CollectionOrder returns the saved collection ordering, or ok=false
	// when none was saved (or the saved data was unreadable).
	CollectionOrder(ctx context.Context) (ids []string, ok bool)
	SetCollectionOrder(ctx context.Context, ids []string)

	// BookmarkOrder returns the saved bookmark ordering for a scope key
	// (collection ID or domain.ScopeUnassigned).
	BookmarkOrder(ctx context.Context, scope domain.ScopeKey) (ids []string, ok bool)
	SetBookmarkOrder(ctx context.Context, scope domain.ScopeKey, ids []string)
}

// SnapshotCache persists the last merged view for instant cold-start
// rendering before the network responds.
type SnapshotCache interface {
	// Load returns the cached snapshot, or nil when absent/unreadable.
	Load(ctx context.Context) *domain.Snapshot
	// Save stores a slimmed copy of the snapshot, best-effort.
	Save(ctx context.Context, snap *domain.Snapshot)
}
