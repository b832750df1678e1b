// Package redis persists the order records and snapshot cache as JSON
// values. Both are optimizations, not sources of truth, so every fault in
// here is logged and swallowed: reads degrade to "absent", writes to
// no-ops. The engine never blocks or fails on this layer.
package redis

import (
	"context"
	"encoding/json"
	"errors"

	goredis "github.com/redis/go-redis/v9"

	"github.com/karadeck/karadeck/internal/domain"
	"github.com/karadeck/karadeck/internal/logger"
)

// Store implements store.OrderStore and store.SnapshotCache on Redis.
type Store struct {
	client  *goredis.Client
	log     logger.Logger
	maxText int // byte bound on cached bookmark text fields
}

func NewStore(client *goredis.Client, log logger.Logger, maxText int) *Store {
	if maxText <= 0 {
		maxText = 500
	}
	return &Store{client: client, log: log, maxText: maxText}
}

func (s *Store) getIDs(ctx context.Context, key string) ([]string, bool) {
	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.log.Warn("order read failed, treating as unsaved",
				logger.String("key", key), logger.Error(err))
		}
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.log.Warn("corrupt order record, treating as unsaved",
			logger.String("key", key), logger.Error(err))
		return nil, false
	}
	return ids, true
}

func (s *Store) setIDs(ctx context.Context, key string, ids []string) {
	data, err := json.Marshal(ids)
	if err != nil {
		s.log.Warn("order encode failed", logger.String("key", key), logger.Error(err))
		return
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		s.log.Warn("order write failed", logger.String("key", key), logger.Error(err))
	}
}

func (s *Store) CollectionOrder(ctx context.Context) ([]string, bool) {
	return s.getIDs(ctx, KeyCollectionOrder)
}

func (s *Store) SetCollectionOrder(ctx context.Context, ids []string) {
	s.setIDs(ctx, KeyCollectionOrder, ids)
}

func (s *Store) BookmarkOrder(ctx context.Context, scope domain.ScopeKey) ([]string, bool) {
	return s.getIDs(ctx, BookmarkOrderKey(scope))
}

func (s *Store) SetBookmarkOrder(ctx context.Context, scope domain.ScopeKey, ids []string) {
	s.setIDs(ctx, BookmarkOrderKey(scope), ids)
}

// Load returns the cached snapshot, nil when absent or unreadable.
func (s *Store) Load(ctx context.Context) *domain.Snapshot {
	raw, err := s.client.Get(ctx, KeySnapshot).Result()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			s.log.Warn("snapshot cache read failed", logger.Error(err))
		}
		return nil
	}
	var snap domain.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.log.Warn("corrupt snapshot cache, ignoring", logger.Error(err))
		return nil
	}
	if snap.Members == nil {
		snap.Members = make(map[string][]domain.Bookmark)
	}
	return &snap
}

// Save stores a slimmed copy of the snapshot: only display fields, with
// text bounded so the persisted size stays small.
func (s *Store) Save(ctx context.Context, snap *domain.Snapshot) {
	if snap == nil {
		return
	}
	slim := domain.Snapshot{
		Collections: snap.Collections,
		Members:     make(map[string][]domain.Bookmark, len(snap.Members)),
		Unassigned:  s.slimAll(snap.Unassigned),
	}
	for id, items := range snap.Members {
		slim.Members[id] = s.slimAll(items)
	}

	data, err := json.Marshal(&slim)
	if err != nil {
		s.log.Warn("snapshot encode failed", logger.Error(err))
		return
	}
	if err := s.client.Set(ctx, KeySnapshot, data, 0).Err(); err != nil {
		s.log.Warn("snapshot cache write failed", logger.Error(err))
	}
}

func (s *Store) slimAll(items []domain.Bookmark) []domain.Bookmark {
	out := make([]domain.Bookmark, len(items))
	for i, b := range items {
		out[i] = s.slim(b)
	}
	return out
}

func (s *Store) slim(b domain.Bookmark) domain.Bookmark {
	b.Title = domain.Snippet(b.Title, s.maxText)
	b.Content.Title = domain.Snippet(b.Content.Title, s.maxText)
	b.Content.Text = domain.Snippet(b.Content.Text, s.maxText)
	return b
}
