package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lightbox/api/internal/config"
	"lightbox/api/internal/feed"
)

func newTestServer() (*HTTPServer, *feed.Store) {
	cfg := config.Config{
		CORSOrigin:    "*",
		SeedCount:     3,
		PageSize:      2,
		GrowthMargin:  2,
		CommentCap:    20,
		CommentMaxLen: 280,
		CommentTail:   6,
	}
	store := feed.NewStore(feed.Options{
		SeedCount:     cfg.SeedCount,
		CommentCap:    cfg.CommentCap,
		CommentMaxLen: cfg.CommentMaxLen,
		CommentTail:   cfg.CommentTail,
		GrowthMargin:  cfg.GrowthMargin,
	})
	service := New(cfg, store, nil)
	service.Bootstrap()
	return NewHTTPServer(service, cfg.CORSOrigin, ""), store
}

func doJSON(t *testing.T, server *HTTPServer, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)

	var payload map[string]any
	if rr.Body.Len() > 0 {
		if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to parse response: %v", err)
		}
	}
	return rr, payload
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer()

	rr, payload := doJSON(t, server, http.MethodGet, "/api/health", "")
	if rr.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rr.Code)
	}
	if ok, exists := payload["ok"]; !exists || ok != true {
		t.Errorf("expected ok=true, got %v", ok)
	}
}

func TestReactEndpoint_DislikeOnDefaultItem(t *testing.T) {
	server, _ := newTestServer()

	rr, payload := doJSON(t, server, http.MethodPost, "/api/react", `{"kind":"dislike"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	item := payload["item"].(map[string]any)
	if item["likes"] != float64(0) || item["dislikes"] != float64(1) {
		t.Errorf("expected likes=0 dislikes=1, got %v/%v", item["likes"], item["dislikes"])
	}
	totals := payload["totals"].(map[string]any)
	if totals["dislikes"] != float64(1) {
		t.Errorf("expected totals.dislikes=1, got %v", totals["dislikes"])
	}
}

func TestReactEndpoint_UnknownKindCoercesToLike(t *testing.T) {
	server, _ := newTestServer()

	rr, payload := doJSON(t, server, http.MethodPost, "/api/react", `{"kind":"explode","itemId":"pic-9"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	item := payload["item"].(map[string]any)
	if item["id"] != "pic-9" {
		t.Errorf("expected lazily created item pic-9, got %v", item["id"])
	}
	if item["likes"] != float64(1) || item["dislikes"] != float64(0) {
		t.Errorf("expected likes=1 dislikes=0, got %v/%v", item["likes"], item["dislikes"])
	}
}

func TestReactEndpoint_MalformedBodyStillSucceeds(t *testing.T) {
	server, _ := newTestServer()

	rr, payload := doJSON(t, server, http.MethodPost, "/api/react", `{not json`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	item := payload["item"].(map[string]any)
	if item["likes"] != float64(1) {
		t.Errorf("expected coerced like on default item, got %v", item["likes"])
	}
}

func TestCommentEndpoint_Normalizes(t *testing.T) {
	server, _ := newTestServer()

	rr, payload := doJSON(t, server, http.MethodPost, "/api/comments", `{"text":"  hello   world  ","itemId":"pic-1"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	item := payload["item"].(map[string]any)
	comments := item["comments"].([]any)
	if len(comments) != 1 {
		t.Fatalf("expected 1 comment, got %d", len(comments))
	}
	text := comments[0].(map[string]any)["text"]
	if text != "hello world" {
		t.Errorf("expected normalized text, got %q", text)
	}
}

func TestCommentEndpoint_EmptyTextRejected(t *testing.T) {
	server, _ := newTestServer()

	rr, payload := doJSON(t, server, http.MethodPost, "/api/comments", `{"text":"   \t "}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected status 422, got %d", rr.Code)
	}
	if payload["code"] != "VALIDATION_ERROR" {
		t.Errorf("expected code VALIDATION_ERROR, got %v", payload["code"])
	}
}

func TestFeedEndpoint_NonNumericParamsCoerce(t *testing.T) {
	server, _ := newTestServer()

	rr, payload := doJSON(t, server, http.MethodGet, "/api/feed?cursor=abc&limit=xyz", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	items := payload["items"].([]any)
	if len(items) != 2 { // configured default page size
		t.Errorf("expected 2 items, got %d", len(items))
	}
	if payload["nextCursor"] != float64(2) {
		t.Errorf("expected nextCursor=2, got %v", payload["nextCursor"])
	}
}

func TestFeedEndpoint_PaginationGrowsStore(t *testing.T) {
	server, store := newTestServer()

	rr, payload := doJSON(t, server, http.MethodGet, "/api/feed?cursor=0&limit=2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if items := payload["items"].([]any); len(items) != 2 {
		t.Errorf("expected 2 items on first page, got %d", len(items))
	}
	if payload["nextCursor"] != float64(2) {
		t.Errorf("expected nextCursor=2, got %v", payload["nextCursor"])
	}

	rr, payload = doJSON(t, server, http.MethodGet, "/api/feed?cursor=2&limit=2", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if items := payload["items"].([]any); len(items) != 2 {
		t.Errorf("expected growth to fill second page, got %d items", len(items))
	}
	if payload["nextCursor"] != float64(4) {
		t.Errorf("expected nextCursor=4, got %v", payload["nextCursor"])
	}
	if store.Len() != 6 { // cursor + limit + margin
		t.Errorf("expected store grown to 6, got %d", store.Len())
	}
}

func TestSearchEndpoint_FallbackScan(t *testing.T) {
	server, _ := newTestServer()

	if rr, _ := doJSON(t, server, http.MethodPost, "/api/comments", `{"text":"sunset vibes","itemId":"pic-7"}`); rr.Code != http.StatusOK {
		t.Fatalf("comment setup failed with status %d", rr.Code)
	}

	rr, payload := doJSON(t, server, http.MethodGet, "/api/search?q=sunset", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	results := payload["results"].([]any)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	hit := results[0].(map[string]any)
	if hit["id"] != "pic-7" || hit["snippet"] != "sunset vibes" {
		t.Errorf("unexpected hit %v", hit)
	}
}

func TestOptionsRequest(t *testing.T) {
	server, _ := newTestServer()

	rr, _ := doJSON(t, server, http.MethodOptions, "/api/feed", "")
	if rr.Code != http.StatusNoContent {
		t.Errorf("expected status 204 for OPTIONS, got %d", rr.Code)
	}
}

func TestCORSHeaders(t *testing.T) {
	server, _ := newTestServer()

	rr, _ := doJSON(t, server, http.MethodGet, "/api/health", "")
	if origin := rr.Header().Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("expected CORS origin=*, got %v", origin)
	}
	if cache := rr.Header().Get("Cache-Control"); cache != "no-store" {
		t.Errorf("expected Cache-Control=no-store, got %v", cache)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("expected request id header to be set")
	}
}

func TestUnknownRouteWithoutStaticDir(t *testing.T) {
	server, _ := newTestServer()

	rr, payload := doJSON(t, server, http.MethodGet, "/nope", "")
	if rr.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", rr.Code)
	}
	if payload["code"] != "NOT_FOUND" {
		t.Errorf("expected code NOT_FOUND, got %v", payload["code"])
	}
}
