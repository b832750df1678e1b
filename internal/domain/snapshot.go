package domain

// Snapshot is the atomic unit reconciliation produces and the cache
// persists: ordered collections, per-collection bookmark membership, and
// the unassigned remainder.
//
// Partition invariant: every bookmark known to the remote store appears in
// exactly one collection's member sequence or in Unassigned, never both
// and never in two collections.
type Snapshot struct {
	Collections []Collection          `json:"collections"`
	Members     map[string][]Bookmark `json:"members"`
	Unassigned  []Bookmark            `json:"unassigned"`
}

// NewSnapshot returns an empty but non-nil snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{Members: make(map[string][]Bookmark)}
}

// Clone deep-copies the snapshot so consumers can read it without racing
// the engine's next transition.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	out := &Snapshot{
		Collections: append([]Collection(nil), s.Collections...),
		Members:     make(map[string][]Bookmark, len(s.Members)),
		Unassigned:  append([]Bookmark(nil), s.Unassigned...),
	}
	for id, items := range s.Members {
		out.Members[id] = append([]Bookmark(nil), items...)
	}
	return out
}

// Scope returns the bookmark sequence for a scope key.
func (s *Snapshot) Scope(scope ScopeKey) []Bookmark {
	if scope == ScopeUnassigned {
		return s.Unassigned
	}
	return s.Members[scope]
}

// SetScope replaces the bookmark sequence for a scope key.
func (s *Snapshot) SetScope(scope ScopeKey, items []Bookmark) {
	if scope == ScopeUnassigned {
		s.Unassigned = items
		return
	}
	s.Members[scope] = items
}

// FindBookmark locates a bookmark in a scope, returning its index or -1.
func (s *Snapshot) FindBookmark(scope ScopeKey, id string) int {
	for i, b := range s.Scope(scope) {
		if b.ID == id {
			return i
		}
	}
	return -1
}
