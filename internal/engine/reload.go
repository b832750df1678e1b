package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/karadeck/karadeck/internal/domain"
	"github.com/karadeck/karadeck/internal/logger"
	"github.com/karadeck/karadeck/internal/store"
)

// Reload runs one full reconciliation cycle and swaps the resulting
// snapshot in atomically. When silent is true the visible Loading
// transition is suppressed (background refresh behind an already-rendered
// view); failures surface either way.
//
// On failure the previous snapshot stays rendered: stale-but-consistent
// beats blank. A superseded reload still applies its result when it
// resolves; last writer wins at the swap.
func (e *Engine) Reload(ctx context.Context, silent bool) error {
	if !silent {
		e.mu.Lock()
		e.status = StatusLoading
		e.mu.Unlock()
	}

	snap, err := e.reconcile(ctx)

	e.mu.Lock()
	if err != nil {
		e.status = StatusFailed
		lerr := &LoadError{Err: err}
		e.lastErr = lerr
		e.mu.Unlock()
		e.log.Error("reconciliation failed, keeping previous state",
			logger.Bool("silent", silent), logger.Error(err))
		return lerr
	}
	e.snap = snap
	e.status = StatusReady
	e.lastErr = nil
	// Mutations may write to snap the moment the lock drops, so the
	// cache gets its own copy.
	cached := snap.Clone()
	e.mu.Unlock()

	e.cache.Save(ctx, cached)

	e.log.Info("reconciled state from remote store",
		logger.Bool("silent", silent),
		logger.Int("collections", len(snap.Collections)),
		logger.Int("unassigned", len(snap.Unassigned)))
	return nil
}

// reconcile fetches ground truth and builds one consistent snapshot:
//
//  1. collections, filtered to the manual kind, saved order overlaid
//  2. one fetch wave: all bookmarks plus every collection's members,
//     issued together and raced to completion together (the membership
//     index is never computed from a partial wave)
//  3. membership index + assigned set; unassigned = all minus assigned
//  4. per-scope order overlay
func (e *Engine) reconcile(ctx context.Context) (*domain.Snapshot, error) {
	fetched, err := e.remote.ListCollections(ctx)
	if err != nil {
		return nil, err
	}
	collections := make([]domain.Collection, 0, len(fetched))
	for _, c := range fetched {
		if c.Kind == domain.KindManual {
			collections = append(collections, c)
		}
	}
	if saved, ok := e.orders.CollectionOrder(ctx); ok {
		collections = store.ApplyCollectionOrder(saved, collections)
	}

	var all []domain.Bookmark
	members := make([][]domain.Bookmark, len(collections))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		all, err = e.remote.ListAllBookmarks(gctx)
		return err
	})
	for i, c := range collections {
		i, c := i, c
		g.Go(func() error {
			var err error
			members[i], err = e.remote.ListCollectionBookmarks(gctx, c.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := domain.NewSnapshot()
	snap.Collections = collections

	// The model allows at most one visible collection per bookmark; if the
	// remote store reports a bookmark in several, the first collection in
	// display order keeps it.
	assigned := make(map[string]bool)
	for i, c := range collections {
		items := make([]domain.Bookmark, 0, len(members[i]))
		for _, b := range members[i] {
			if assigned[b.ID] {
				continue
			}
			assigned[b.ID] = true
			items = append(items, b)
		}
		if saved, ok := e.orders.BookmarkOrder(ctx, c.ID); ok {
			items = store.ApplyBookmarkOrder(saved, items)
		}
		snap.Members[c.ID] = items
	}

	unassigned := make([]domain.Bookmark, 0, len(all))
	for _, b := range all {
		if !assigned[b.ID] {
			unassigned = append(unassigned, b)
		}
	}
	if saved, ok := e.orders.BookmarkOrder(ctx, domain.ScopeUnassigned); ok {
		unassigned = store.ApplyBookmarkOrder(saved, unassigned)
	}
	snap.Unassigned = unassigned

	return snap, nil
}
