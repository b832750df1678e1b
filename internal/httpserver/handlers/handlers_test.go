package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/karadeck/karadeck/internal/domain"
	"github.com/karadeck/karadeck/internal/engine"
	"github.com/karadeck/karadeck/internal/httpserver/deps"
	"github.com/karadeck/karadeck/internal/logger"
)

// stubRemote serves a fixed dataset: one collection with one bookmark
// and one unassigned bookmark. Mutations succeed and are ignored.
type stubRemote struct{}

func (stubRemote) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	return []domain.Collection{{ID: "c1", Name: "Work", Kind: domain.KindManual}}, nil
}

func (stubRemote) ListAllBookmarks(ctx context.Context) ([]domain.Bookmark, error) {
	return []domain.Bookmark{
		{ID: "b1", Content: domain.Content{Kind: domain.ContentLink, URL: "https://go.dev"}},
		{ID: "b2", Content: domain.Content{Kind: domain.ContentLink, URL: "https://pkg.go.dev"}},
	}, nil
}

func (stubRemote) ListCollectionBookmarks(ctx context.Context, collectionID string) ([]domain.Bookmark, error) {
	return []domain.Bookmark{
		{ID: "b1", Content: domain.Content{Kind: domain.ContentLink, URL: "https://go.dev"}},
	}, nil
}

func (stubRemote) CreateCollection(ctx context.Context, name, icon string) (domain.Collection, error) {
	return domain.Collection{ID: "new", Name: name, Icon: icon, Kind: domain.KindManual}, nil
}

func (stubRemote) RenameCollection(ctx context.Context, id, name string) error { return nil }
func (stubRemote) DeleteCollection(ctx context.Context, id string) error { return nil }
func (stubRemote) AddBookmarkToCollection(ctx context.Context, collectionID, bookmarkID string) error {
	return nil
}

func (stubRemote) RemoveBookmarkFromCollection(ctx context.Context, collectionID, bookmarkID string) error {
	return nil
}

func (stubRemote) CreateBookmark(ctx context.Context, url, title string) (domain.Bookmark, error) {
	return domain.Bookmark{ID: "nb", Title: title, Content: domain.Content{Kind: domain.ContentLink, URL: url}}, nil
}

func (stubRemote) UpdateBookmark(ctx context.Context, id string, patch domain.BookmarkPatch) error {
	return nil
}
func (stubRemote) DeleteBookmark(ctx context.Context, id string) error { return nil }

func (stubRemote) Search(ctx context.Context, query string) ([]domain.Bookmark, error) {
	return []domain.Bookmark{{ID: "s1", Title: query}}, nil
}

type memOrders struct{}

func (memOrders) CollectionOrder(ctx context.Context) ([]string, bool) { return nil, false }
func (memOrders) SetCollectionOrder(ctx context.Context, ids []string) {}
func (memOrders) BookmarkOrder(ctx context.Context, s domain.ScopeKey) ([]string, bool) {
	return nil, false
}
func (memOrders) SetBookmarkOrder(ctx context.Context, s domain.ScopeKey, ids []string) {}

type memCache struct{}

func (memCache) Load(ctx context.Context) *domain.Snapshot       { return nil }
func (memCache) Save(ctx context.Context, snap *domain.Snapshot) {}

func testDeps(t *testing.T, loaded bool) deps.Deps {
	t.Helper()
	eng := engine.New(stubRemote{}, memOrders{}, memCache{}, logger.Nop())
	if loaded {
		if err := eng.Reload(context.Background(), false); err != nil {
			t.Fatalf("Reload() error: %v", err)
		}
	}
	return deps.Deps{
		Logger:        logger.Nop(),
		Engine:        eng,
		ReloadTrigger: make(chan struct{}, 1),
	}
}

func TestStateHandler(t *testing.T) {
	d := testDeps(t, true)
	rec := httptest.NewRecorder()
	State(d).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != engine.StatusReady {
		t.Errorf("status = %v, want ready", resp.Status)
	}
	if len(resp.Collections) != 1 || len(resp.Members["c1"]) != 1 || len(resp.Unassigned) != 1 {
		t.Errorf("state = %+v", resp)
	}
}

func TestStateHandlerBeforeFirstLoad(t *testing.T) {
	d := testDeps(t, false)
	rec := httptest.NewRecorder()
	State(d).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	var resp stateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != engine.StatusIdle {
		t.Errorf("status = %v, want idle", resp.Status)
	}
	if resp.Collections == nil || resp.Unassigned == nil {
		t.Error("empty state should serialize as empty arrays, not null")
	}
}

func TestCreateCollectionHandler(t *testing.T) {
	d := testDeps(t, true)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/collections", strings.NewReader(`{"name":"Reading"}`))
	CreateCollection(d).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var created domain.Collection
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != "new" || created.Name != "Reading" {
		t.Errorf("created = %+v", created)
	}
}

func TestCreateCollectionRequiresName(t *testing.T) {
	d := testDeps(t, true)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/collections", strings.NewReader(`{"name":"  "}`))
	CreateCollection(d).ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSearchHandler(t *testing.T) {
	d := testDeps(t, true)
	rec := httptest.NewRecorder()
	Search(d).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=golang", nil))

	var resp searchResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Bookmarks) != 1 || resp.Bookmarks[0].Title != "golang" {
		t.Errorf("results = %+v", resp.Bookmarks)
	}

	rec = httptest.NewRecorder()
	Search(d).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/search?q=", nil))
	if !strings.Contains(rec.Body.String(), `"bookmarks":[]`) {
		t.Errorf("empty query body = %s", rec.Body.String())
	}
}

func TestReloadHandlerBackpressure(t *testing.T) {
	d := testDeps(t, true)

	rec := httptest.NewRecorder()
	Reload(d).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reload", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("first reload status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	Reload(d).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reload", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second reload status = %d, want 429", rec.Code)
	}
}

func TestReadyzHandler(t *testing.T) {
	d := testDeps(t, false)
	rec := httptest.NewRecorder()
	Readyz(d).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 before first view", rec.Code)
	}

	d = testDeps(t, true)
	rec = httptest.NewRecorder()
	Readyz(d).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 once a view exists", rec.Code)
	}
}

func TestDeleteBookmarkScansForScope(t *testing.T) {
	d := testDeps(t, true)

	r := chi.NewRouter()
	r.Delete("/api/bookmarks/{id}", DeleteBookmark(d))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/bookmarks/b2", nil))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	d.Engine.Wait()
	if found := d.Engine.View().Snapshot.FindBookmark(domain.ScopeUnassigned, "b2"); found >= 0 {
		t.Error("b2 should be removed from the unassigned scope")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/bookmarks/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for an unknown bookmark", rec.Code)
	}
}

func TestMoveBookmarkHandlerValidation(t *testing.T) {
	d := testDeps(t, true)
	r := chi.NewRouter()
	r.Post("/api/bookmarks/{id}/move", MoveBookmark(d))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookmarks/b2/move", strings.NewReader(`{"to":"c1"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400 without a from scope", rec.Code)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/bookmarks/b2/move",
		strings.NewReader(`{"from":"unassigned","to":"c1"}`)))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	d.Engine.Wait()
	v := d.Engine.View()
	if v.Snapshot.FindBookmark("c1", "b2") < 0 {
		t.Error("b2 should now be in c1")
	}
}
