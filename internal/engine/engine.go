// Package engine is the state synchronization core: it reconciles the
// authoritative remote store with the locally cached, locally reordered,
// optimistically mutated view the dashboard renders.
//
// All in-memory state is owned by the engine and mutated under one mutex,
// so state transitions never interleave. Remote confirmations run as
// tracked goroutines whose only interaction with state is the failure
// path: surface the error and reload from ground truth.
package engine

import (
	"context"
	"sync"

	"github.com/karadeck/karadeck/internal/domain"
	"github.com/karadeck/karadeck/internal/logger"
	"github.com/karadeck/karadeck/internal/store"
)

// RemoteStore is the narrow request contract the engine needs from the
// remote bookmark service. Implemented by remote.Client.
type RemoteStore interface {
	ListCollections(ctx context.Context) ([]domain.Collection, error)
	ListAllBookmarks(ctx context.Context) ([]domain.Bookmark, error)
	ListCollectionBookmarks(ctx context.Context, collectionID string) ([]domain.Bookmark, error)

	CreateCollection(ctx context.Context, name, icon string) (domain.Collection, error)
	RenameCollection(ctx context.Context, id, name string) error
	DeleteCollection(ctx context.Context, id string) error

	AddBookmarkToCollection(ctx context.Context, collectionID, bookmarkID string) error
	RemoveBookmarkFromCollection(ctx context.Context, collectionID, bookmarkID string) error

	CreateBookmark(ctx context.Context, url, title string) (domain.Bookmark, error)
	UpdateBookmark(ctx context.Context, id string, patch domain.BookmarkPatch) error
	DeleteBookmark(ctx context.Context, id string) error

	Search(ctx context.Context, query string) ([]domain.Bookmark, error)
}

// Status is the engine's load-cycle state. Per cycle:
// Idle → Loading → {Ready, Failed}; Ready → Loading only through an
// explicit reload. Consumers never observe a partial state in between.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// View is a consistent read of the engine's state. Snapshot is a deep
// copy; callers may hold it across engine transitions.
type View struct {
	Status   Status
	Err      error
	Snapshot *domain.Snapshot
}

// Engine coordinates the reconciliation and optimistic mutation layers.
//
// Known race, kept on purpose: two back-to-back mutations do not have
// their remote confirmations ordered, and a failed earlier confirmation
// triggers a reload that can overwrite a later optimistic update. Reloads
// are idempotent reconstructions of ground truth, so last-writer-wins at
// the snapshot swap is acceptable for single-user usage.
type Engine struct {
	remote RemoteStore
	orders store.OrderStore
	cache  store.SnapshotCache
	log    logger.Logger

	mu      sync.Mutex
	status  Status
	snap    *domain.Snapshot
	lastErr error

	confirms sync.WaitGroup
}

func New(remote RemoteStore, orders store.OrderStore, cache store.SnapshotCache, log logger.Logger) *Engine {
	return &Engine{
		remote: remote,
		orders: orders,
		cache:  cache,
		log:    log,
		status: StatusIdle,
	}
}

// Prime renders the cached snapshot immediately, before any network
// round-trip. Returns true when a cached view was available; the caller
// is expected to follow up with a silent background Reload.
func (e *Engine) Prime(ctx context.Context) bool {
	snap := e.cache.Load(ctx)
	if snap == nil {
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.status != StatusIdle {
		// A reload already produced fresher state; the cache lost.
		return false
	}
	e.snap = snap
	e.status = StatusReady
	e.log.Info("primed state from snapshot cache",
		logger.Int("collections", len(snap.Collections)),
		logger.Int("unassigned", len(snap.Unassigned)))
	return true
}

// View returns the current state.
func (e *Engine) View() View {
	e.mu.Lock()
	defer e.mu.Unlock()
	return View{
		Status:   e.status,
		Err:      e.lastErr,
		Snapshot: e.snap.Clone(),
	}
}

// Search passes a query through to the remote store.
func (e *Engine) Search(ctx context.Context, query string) ([]domain.Bookmark, error) {
	return e.remote.Search(ctx, query)
}

// Wait blocks until every in-flight mutation confirmation has settled.
// Used on shutdown and by tests to make failure paths deterministic.
func (e *Engine) Wait() {
	e.confirms.Wait()
}

// confirm runs a mutation's remote confirmation as a tracked task. The
// failure handler runs exactly once per mutation: surface the error, then
// force state back to ground truth.
func (e *Engine) confirm(ctx context.Context, op string, fn func(context.Context) error) {
	ctx = context.WithoutCancel(ctx) // outlives the originating request
	e.confirms.Add(1)
	go func() {
		defer e.confirms.Done()
		err := fn(ctx)
		if err == nil {
			return
		}
		e.log.Warn("mutation confirmation failed, reloading from remote",
			logger.String("op", op), logger.Error(err))
		e.mu.Lock()
		e.lastErr = err
		e.mu.Unlock()
		if rerr := e.Reload(ctx, false); rerr != nil {
			e.log.Error("post-failure reload failed",
				logger.String("op", op), logger.Error(rerr))
		}
	}()
}
