package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/karadeck/karadeck/internal/domain"
	"github.com/karadeck/karadeck/internal/utils"
)

const basePath = "/api/v1"

// Client issues authenticated requests against a Karakeep-compatible
// bookmark store. Paginated listings are followed transparently until no
// continuation cursor remains.
type Client struct {
	baseURL   string
	apiKey    string
	pageLimit int
	http      *http.Client
}

// Options configures a Client.
type Options struct {
	BaseURL   string        // ex: https://keep.domain.ext (no trailing slash)
	APIKey    string        // bearer token
	PageLimit int           // page size for cursor pagination (default 100)
	Timeout   time.Duration // per-request timeout (default 15s)
}

func NewClient(opts Options) *Client {
	if opts.PageLimit <= 0 {
		opts.PageLimit = 100
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	return &Client{
		baseURL:   opts.BaseURL,
		apiKey:    opts.APIKey,
		pageLimit: opts.PageLimit,
		http:      &http.Client{Timeout: opts.Timeout},
	}
}

// do performs one request. A nil out means the caller expects no body
// (204 is success either way). Every failure comes back as *Error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + basePath + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Message: fmt.Sprintf("encode request: %v", err)}
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Message: err.Error()}
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var eb errorBody
		msg := http.StatusText(resp.StatusCode)
		if err := json.NewDecoder(resp.Body).Decode(&eb); err == nil && eb.Message != "" {
			msg = eb.Message
		}
		return &Error{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Status: resp.StatusCode, Message: fmt.Sprintf("malformed response: %v", err)}
	}
	return nil
}

// pageBookmarks follows the cursor chain for a bookmark listing endpoint,
// concatenating pages in store-provided order.
func (c *Client) pageBookmarks(ctx context.Context, path string, extra url.Values) ([]domain.Bookmark, error) {
	var items []domain.Bookmark
	cursor := ""
	for {
		q := url.Values{}
		for k, vs := range extra {
			q[k] = vs
		}
		q.Set("limit", strconv.Itoa(c.pageLimit))
		if cursor != "" {
			q.Set("cursor", cursor)
		}

		var page bookmarksPage
		if err := c.do(ctx, http.MethodGet, path, q, nil, &page); err != nil {
			return nil, err
		}
		items = append(items, page.Bookmarks...)
		if page.NextCursor == "" {
			return items, nil
		}
		cursor = page.NextCursor
	}
}

// ListCollections returns every collection the store knows, including
// smart ones; filtering to manual kind is the reconciler's job.
func (c *Client) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	var resp listsResponse
	if err := c.do(ctx, http.MethodGet, "/lists", nil, nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Collection, 0, len(resp.Lists))
	for _, l := range resp.Lists {
		out = append(out, l.toDomain())
	}
	return out, nil
}

// ListAllBookmarks returns every non-archived bookmark across all pages.
func (c *Client) ListAllBookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	q := url.Values{}
	q.Set("archived", "false")
	return c.pageBookmarks(ctx, "/bookmarks", q)
}

// ListCollectionBookmarks returns a collection's members across all pages.
func (c *Client) ListCollectionBookmarks(ctx context.Context, collectionID string) ([]domain.Bookmark, error) {
	return c.pageBookmarks(ctx, "/lists/"+collectionID+"/bookmarks", nil)
}

func (c *Client) CreateCollection(ctx context.Context, name, icon string) (domain.Collection, error) {
	var created listWire
	req := createListRequest{Name: name, Icon: icon, Type: string(domain.KindManual)}
	if err := c.do(ctx, http.MethodPost, "/lists", nil, req, &created); err != nil {
		return domain.Collection{}, err
	}
	return created.toDomain(), nil
}

func (c *Client) RenameCollection(ctx context.Context, id, name string) error {
	return c.do(ctx, http.MethodPatch, "/lists/"+id, nil, updateListRequest{Name: name}, nil)
}

func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/lists/"+id, nil, nil, nil)
}

func (c *Client) AddBookmarkToCollection(ctx context.Context, collectionID, bookmarkID string) error {
	return c.do(ctx, http.MethodPut, "/lists/"+collectionID+"/bookmarks/"+bookmarkID, nil, nil, nil)
}

func (c *Client) RemoveBookmarkFromCollection(ctx context.Context, collectionID, bookmarkID string) error {
	return c.do(ctx, http.MethodDelete, "/lists/"+collectionID+"/bookmarks/"+bookmarkID, nil, nil, nil)
}

func (c *Client) CreateBookmark(ctx context.Context, rawURL, title string) (domain.Bookmark, error) {
	var created domain.Bookmark
	req := createBookmarkRequest{Type: string(domain.ContentLink), URL: rawURL, Title: title}
	if err := c.do(ctx, http.MethodPost, "/bookmarks", nil, req, &created); err != nil {
		return domain.Bookmark{}, err
	}
	return created, nil
}

func (c *Client) UpdateBookmark(ctx context.Context, id string, patch domain.BookmarkPatch) error {
	return c.do(ctx, http.MethodPatch, "/bookmarks/"+id, nil, patch, nil)
}

func (c *Client) DeleteBookmark(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/bookmarks/"+id, nil, nil, nil)
}

// Search delegates to the store's search endpoint. Results are not paged.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Bookmark, error) {
	q := url.Values{}
	q.Set("q", query)
	var resp searchResponse
	if err := c.do(ctx, http.MethodGet, "/bookmarks/search", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookmarks, nil
}

// Me verifies credentials against the store (GET /users/me).
func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &u); err != nil {
		return User{}, err
	}
	return u, nil
}
