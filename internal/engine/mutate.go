package engine

import (
	"context"

	"github.com/karadeck/karadeck/internal/domain"
	"github.com/karadeck/karadeck/internal/logger"
	"github.com/karadeck/karadeck/internal/store"
)

// Every mutation below applies its in-memory transition synchronously and
// returns before the remote call completes. The remote result is only
// consulted on failure, which surfaces the error and forces a reload.

// MoveBookmark relocates a bookmark between scopes. Unknown bookmark or
// scope is a no-op. "unassigned" is not remote-tracked, so only real
// collections get add/remove calls; either call failing reloads.
func (e *Engine) MoveBookmark(ctx context.Context, bookmarkID string, from, to domain.ScopeKey) {
	e.mu.Lock()
	if e.snap == nil || from == to {
		e.mu.Unlock()
		return
	}
	idx := e.snap.FindBookmark(from, bookmarkID)
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	if to != domain.ScopeUnassigned {
		if _, ok := e.snap.Members[to]; !ok {
			// Unknown destination; a write here would create a member
			// sequence for a collection the snapshot does not have.
			e.mu.Unlock()
			return
		}
	}

	src := e.snap.Scope(from)
	moved := src[idx]
	e.snap.SetScope(from, append(append([]domain.Bookmark{}, src[:idx]...), src[idx+1:]...))
	e.snap.SetScope(to, append(append([]domain.Bookmark{}, e.snap.Scope(to)...), moved))
	e.mu.Unlock()

	e.confirm(ctx, "move_bookmark", func(ctx context.Context) error {
		if from != domain.ScopeUnassigned {
			if err := e.remote.RemoveBookmarkFromCollection(ctx, from, bookmarkID); err != nil {
				return err
			}
		}
		if to != domain.ScopeUnassigned {
			if err := e.remote.AddBookmarkToCollection(ctx, to, bookmarkID); err != nil {
				return err
			}
		}
		return nil
	})
}

// CreateCollection calls the remote store first and inserts the returned
// collection (server-assigned identifier) at the front of the ordered
// list with an empty member sequence. On failure nothing was added
// locally, so there is nothing to revert.
func (e *Engine) CreateCollection(ctx context.Context, name, icon string) (domain.Collection, error) {
	created, err := e.remote.CreateCollection(ctx, name, icon)
	if err != nil {
		e.mu.Lock()
		e.lastErr = err
		e.mu.Unlock()
		return domain.Collection{}, err
	}

	e.mu.Lock()
	if e.snap == nil {
		e.snap = domain.NewSnapshot()
		e.status = StatusReady
	}
	e.snap.Collections = append([]domain.Collection{created}, e.snap.Collections...)
	e.snap.Members[created.ID] = []domain.Bookmark{}
	e.mu.Unlock()

	e.log.Info("collection created",
		logger.String("id", created.ID), logger.String("name", created.Name))
	return created, nil
}

// RenameCollection updates the display name immediately and confirms in
// the background.
func (e *Engine) RenameCollection(ctx context.Context, id, name string) {
	e.mu.Lock()
	if e.snap == nil {
		e.mu.Unlock()
		return
	}
	for i := range e.snap.Collections {
		if e.snap.Collections[i].ID == id {
			e.snap.Collections[i].Name = name
			break
		}
	}
	e.mu.Unlock()

	e.confirm(ctx, "rename_collection", func(ctx context.Context) error {
		return e.remote.RenameCollection(ctx, id, name)
	})
}

// DeleteCollection removes the collection immediately and re-homes its
// member bookmarks into unassigned. The bookmarks keep their objects but
// lose their collection-scoped order.
func (e *Engine) DeleteCollection(ctx context.Context, id string) {
	e.mu.Lock()
	if e.snap == nil {
		e.mu.Unlock()
		return
	}
	kept := e.snap.Collections[:0:0]
	found := false
	for _, c := range e.snap.Collections {
		if c.ID == id {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		e.mu.Unlock()
		return
	}
	e.snap.Collections = kept
	orphans := e.snap.Members[id]
	delete(e.snap.Members, id)
	if len(orphans) > 0 {
		e.snap.Unassigned = append(e.snap.Unassigned, orphans...)
	}
	e.mu.Unlock()

	e.confirm(ctx, "delete_collection", func(ctx context.Context) error {
		return e.remote.DeleteCollection(ctx, id)
	})
}

// EditBookmark applies a partial update wherever the bookmark currently
// lives, then confirms.
func (e *Engine) EditBookmark(ctx context.Context, id string, patch domain.BookmarkPatch) {
	e.mu.Lock()
	if e.snap == nil {
		e.mu.Unlock()
		return
	}
	for scope, items := range e.snap.Members {
		for i := range items {
			if items[i].ID == id {
				patch.Apply(&e.snap.Members[scope][i])
			}
		}
	}
	for i := range e.snap.Unassigned {
		if e.snap.Unassigned[i].ID == id {
			patch.Apply(&e.snap.Unassigned[i])
		}
	}
	e.mu.Unlock()

	e.confirm(ctx, "edit_bookmark", func(ctx context.Context) error {
		return e.remote.UpdateBookmark(ctx, id, patch)
	})
}

// RemoveBookmark deletes a bookmark from whichever scope it is in.
func (e *Engine) RemoveBookmark(ctx context.Context, id string, from domain.ScopeKey) {
	e.mu.Lock()
	if e.snap == nil {
		e.mu.Unlock()
		return
	}
	idx := e.snap.FindBookmark(from, id)
	if idx < 0 {
		e.mu.Unlock()
		return
	}
	src := e.snap.Scope(from)
	e.snap.SetScope(from, append(append([]domain.Bookmark{}, src[:idx]...), src[idx+1:]...))
	e.mu.Unlock()

	e.confirm(ctx, "remove_bookmark", func(ctx context.Context) error {
		return e.remote.DeleteBookmark(ctx, id)
	})
}

// CreateBookmark saves a new link bookmark. Like collection creation it
// is remote-first: the server assigns the identifier, then the bookmark
// lands at the end of unassigned.
func (e *Engine) CreateBookmark(ctx context.Context, url, title string) (domain.Bookmark, error) {
	created, err := e.remote.CreateBookmark(ctx, url, title)
	if err != nil {
		e.mu.Lock()
		e.lastErr = err
		e.mu.Unlock()
		return domain.Bookmark{}, err
	}

	e.mu.Lock()
	if e.snap != nil {
		e.snap.Unassigned = append(e.snap.Unassigned, created)
	}
	e.mu.Unlock()
	return created, nil
}

// ReorderWithinScope applies a pure local reordering to one scope's
// sequence and persists the resulting order. The remote store has no
// concept of manual ordering, so there is no remote call.
func (e *Engine) ReorderWithinScope(ctx context.Context, scope domain.ScopeKey, reorder func([]domain.Bookmark) []domain.Bookmark) {
	e.mu.Lock()
	if e.snap == nil {
		e.mu.Unlock()
		return
	}
	items := reorder(append([]domain.Bookmark{}, e.snap.Scope(scope)...))
	e.snap.SetScope(scope, items)
	ids := make([]string, len(items))
	for i, b := range items {
		ids[i] = b.ID
	}
	e.mu.Unlock()

	e.orders.SetBookmarkOrder(ctx, scope, ids)
}

// ReorderCollections relocates movedID to targetID's position and
// persists the new collection order. No remote call.
func (e *Engine) ReorderCollections(ctx context.Context, movedID, targetID string) {
	e.mu.Lock()
	if e.snap == nil || movedID == targetID {
		e.mu.Unlock()
		return
	}
	cols := e.snap.Collections
	from, to := -1, -1
	for i, c := range cols {
		switch c.ID {
		case movedID:
			from = i
		case targetID:
			to = i
		}
	}
	if from < 0 || to < 0 {
		e.mu.Unlock()
		return
	}
	moved := cols[from]
	cols = append(cols[:from], cols[from+1:]...)
	cols = append(cols[:to], append([]domain.Collection{moved}, cols[to:]...)...)
	e.snap.Collections = cols

	ids := make([]string, len(cols))
	for i, c := range cols {
		ids[i] = c.ID
	}
	e.mu.Unlock()

	e.orders.SetCollectionOrder(ctx, ids)
}

// SetCollectionOrder overlays a full collection id order onto the
// current sequence and persists it. Unknown ids are ignored; collections
// missing from the order keep their relative position after the ordered
// ones.
func (e *Engine) SetCollectionOrder(ctx context.Context, ids []string) {
	e.mu.Lock()
	if e.snap == nil {
		e.mu.Unlock()
		return
	}
	e.snap.Collections = store.ApplyCollectionOrder(ids, e.snap.Collections)
	out := make([]string, len(e.snap.Collections))
	for i, c := range e.snap.Collections {
		out[i] = c.ID
	}
	e.mu.Unlock()

	e.orders.SetCollectionOrder(ctx, out)
}

// SetScopeOrder overlays a full bookmark id order onto one scope and
// persists it.
func (e *Engine) SetScopeOrder(ctx context.Context, scope domain.ScopeKey, ids []string) {
	e.ReorderWithinScope(ctx, scope, func(items []domain.Bookmark) []domain.Bookmark {
		return store.ApplyBookmarkOrder(ids, items)
	})
}

// PrioritizeCollection moves a collection to the front of the in-memory
// sequence without persisting, so a collection just created from a saved
// browser window is immediately visible. It does not survive the next
// saved-order overlay unless separately persisted.
func (e *Engine) PrioritizeCollection(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.snap == nil {
		return
	}
	cols := e.snap.Collections
	for i, c := range cols {
		if c.ID == id {
			e.snap.Collections = append([]domain.Collection{c}, append(append([]domain.Collection{}, cols[:i]...), cols[i+1:]...)...)
			return
		}
	}
}

// TabLink is one captured browser tab.
type TabLink struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// SaveWindow captures an open browser window as a new collection: create
// the collection, create one bookmark per tab and attach it, then reload
// and prioritize the new collection so it shows up front. Runs
// synchronously; any remote failure aborts and surfaces.
func (e *Engine) SaveWindow(ctx context.Context, name string, tabs []TabLink) (domain.Collection, error) {
	created, err := e.remote.CreateCollection(ctx, name, "💻")
	if err != nil {
		return domain.Collection{}, err
	}

	for _, tab := range tabs {
		title := tab.Title
		if title == "" {
			title = tab.URL
		}
		b, err := e.remote.CreateBookmark(ctx, tab.URL, title)
		if err != nil {
			return domain.Collection{}, err
		}
		if err := e.remote.AddBookmarkToCollection(ctx, created.ID, b.ID); err != nil {
			return domain.Collection{}, err
		}
	}

	if err := e.Reload(ctx, false); err != nil {
		return domain.Collection{}, err
	}
	e.PrioritizeCollection(created.ID)

	e.log.Info("saved browser window as collection",
		logger.String("id", created.ID),
		logger.String("name", name),
		logger.Int("tabs", len(tabs)))
	return created, nil
}
