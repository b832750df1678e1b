package remote

import "github.com/karadeck/karadeck/internal/domain"

// Wire shapes of the Karakeep-compatible REST API (/api/v1).

type listWire struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Icon string `json:"icon"`
	Type string `json:"type"`
}

func (l listWire) toDomain() domain.Collection {
	return domain.Collection{
		ID:   l.ID,
		Name: l.Name,
		Icon: l.Icon,
		Kind: domain.CollectionKind(l.Type),
	}
}

type listsResponse struct {
	Lists []listWire `json:"lists"`
}

type bookmarksPage struct {
	Bookmarks  []domain.Bookmark `json:"bookmarks"`
	NextCursor string            `json:"nextCursor"`
}

type searchResponse struct {
	Bookmarks []domain.Bookmark `json:"bookmarks"`
}

type createListRequest struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	Type string `json:"type"`
}

type updateListRequest struct {
	Name string `json:"name"`
}

type createBookmarkRequest struct {
	Type  string `json:"type"`
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type errorBody struct {
	Message string `json:"message"`
}

// User identifies the authenticated account (GET /users/me).
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
