package redis

const (
	// KeyCollectionOrder holds the saved collection display order.
	KeyCollectionOrder = "karadeck:order:collections"
	// KeyPrefixBookmarkOrder is the prefix for per-scope bookmark orders.
	KeyPrefixBookmarkOrder = "karadeck:order:bookmarks:"
	// KeySnapshot holds the cached merged view.
	KeySnapshot = "karadeck:snapshot"
)

// BookmarkOrderKey returns the Redis key for a scope's saved order.
func BookmarkOrderKey(scope string) string {
	return KeyPrefixBookmarkOrder + scope
}
