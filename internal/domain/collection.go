package domain

// CollectionKind discriminates user-organizable collections from the
// remote store's system/smart ones.
type CollectionKind string

const (
	// KindManual collections are the only ones the dashboard organizes.
	KindManual CollectionKind = "manual"
	// KindSmart collections are query-driven on the remote side and are
	// excluded from reconciliation.
	KindSmart CollectionKind = "smart"
)

// Collection is a user-named, user-ordered group of bookmarks.
type Collection struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is assigned by the remote store and stable across sessions.
	// Renaming or reordering never changes it.
	ID string `json:"id"`

	// ─────────────────────────────
	// Display (mutable)
	// ─────────────────────────────

	// Name is the user-editable display name. Non-empty when committed.
	Name string `json:"name"`

	// Icon is an optional display glyph.
	Icon string `json:"icon,omitempty"`

	// Kind tells manual collections apart from smart ones.
	Kind CollectionKind `json:"kind,omitempty"`
}

// ScopeKey identifies an ordered bookmark sequence: either a collection ID
// or the reserved unassigned pseudo-collection.
type ScopeKey = string

// ScopeUnassigned is the pseudo-collection holding every bookmark that is
// in no manual collection. Collection IDs from the remote store are opaque
// random identifiers, so the literal cannot collide.
const ScopeUnassigned ScopeKey = "unassigned"
