package mlc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"reprise/internal/services"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := New(server.URL)
	client.backoff = time.Millisecond
	client.pageDelay = time.Millisecond
	return client
}

func TestSearchByTitleBuildsQueryAndParses(t *testing.T) {
	var captured *http.Request
	var body []byte
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		body, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"property_id": "W1", "title": "GOD'S PLAN", "iswc": "T-306.580.434-1"},
			},
			"totalElements": 1,
		})
	}))

	found, err := client.SearchByTitle(context.Background(), "God's Plan", "Drake")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if captured.Method != http.MethodPost || captured.URL.Path != "/search/works" {
		t.Fatalf("unexpected request %s %s", captured.Method, captured.URL.Path)
	}
	query := captured.URL.Query()
	if query.Get("q") != "God's Plan Drake" {
		t.Fatalf("unexpected query %q", query.Get("q"))
	}
	if query.Get("page") != "0" || query.Get("size") != "20" {
		t.Fatalf("unexpected paging %v", query)
	}
	if query.Get("sort") != "title.keyword,asc" {
		t.Fatalf("title search must sort, got %q", query.Get("sort"))
	}
	if string(body) != "{}" {
		t.Fatalf("expected an empty JSON body, got %q", body)
	}
	if len(found) != 1 || found[0].ID != "W1" || found[0].ISWC != "T-306.580.434-1" {
		t.Fatalf("unexpected works %+v", found)
	}
}

func TestSearchByCodeOmitsSort(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r
		_ = json.NewEncoder(w).Encode(map[string]any{"content": []map[string]any{{"id": "W2", "title": "Nonstop"}}})
	}))

	found, err := client.SearchByCode(context.Background(), "USCM51800011")
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	query := captured.URL.Query()
	if query.Get("q") != "USCM51800011" {
		t.Fatalf("unexpected query %q", query.Get("q"))
	}
	if query.Has("sort") {
		t.Fatalf("code search must not sort, got %q", query.Get("sort"))
	}
	if len(found) != 1 || found[0].ID != "W2" {
		t.Fatalf("unexpected works %+v", found)
	}
}

func TestSearchValidatesInput(t *testing.T) {
	client := New("")
	if _, err := client.SearchByTitle(context.Background(), "  ", "Drake"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
	if _, err := client.SearchByCode(context.Background(), ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected a validation error, got %v", err)
	}
}

func TestSearchReportsUpstreamFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	if _, err := client.SearchByTitle(context.Background(), "Solo", ""); !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected an external service error, got %v", err)
	}
}

func TestPublisherWorksPaginatesAndDedupes(t *testing.T) {
	var pagesServed []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/works/publisher/16078262" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)
		if r.URL.Query().Get("size") != "200" {
			t.Errorf("unexpected size %q", r.URL.Query().Get("size"))
		}
		switch page {
		case "0":
			items := make([]map[string]any, 0, publisherPageSize)
			for i := 0; i < publisherPageSize-1; i++ {
				items = append(items, map[string]any{"property_id": fmt.Sprintf("w%d", i), "title": fmt.Sprintf("Work %d", i)})
			}
			// Repeated registration, dropped by the ID dedupe.
			items = append(items, map[string]any{"property_id": "w0", "title": "Work 0"})
			_ = json.NewEncoder(w).Encode(map[string]any{"content": items})
		case "1":
			_ = json.NewEncoder(w).Encode(map[string]any{"content": []map[string]any{
				{"property_id": "extra1", "title": "Extra 1"},
				{"title": "Registration Without ID"},
			}})
		default:
			t.Errorf("unexpected page %q", page)
		}
	}))

	all, err := client.PublisherWorks(context.Background(), "16078262")
	if err != nil {
		t.Fatalf("publisher works failed: %v", err)
	}
	wantCount := publisherPageSize - 1 + 2
	if len(all) != wantCount {
		t.Fatalf("expected %d works after dedupe, got %d", wantCount, len(all))
	}
	if len(pagesServed) != 2 || pagesServed[0] != "0" || pagesServed[1] != "1" {
		t.Fatalf("unexpected pages %v", pagesServed)
	}
}

func TestPublisherWorksRetriesTransientStatus(t *testing.T) {
	var calls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"content": []map[string]any{{"id": "W1", "title": "Solo"}}})
	}))

	all, err := client.PublisherWorks(context.Background(), "123")
	if err != nil {
		t.Fatalf("expected a retried success, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
	if len(all) != 1 || all[0].ID != "W1" {
		t.Fatalf("unexpected works %+v", all)
	}
}

func TestPublisherWorksGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))

	if _, err := client.PublisherWorks(context.Background(), "123"); !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected an external service error, got %v", err)
	}
	if calls != publisherMaxAttempts {
		t.Fatalf("expected %d attempts, got %d", publisherMaxAttempts, calls)
	}
}

func TestPublisherWorksFailsFastOnClientError(t *testing.T) {
	var calls int
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "no such publisher", http.StatusNotFound)
	}))

	if _, err := client.PublisherWorks(context.Background(), "999"); err == nil {
		t.Fatal("expected an error for a missing publisher")
	}
	if calls != 1 {
		t.Fatalf("4xx must not retry, got %d attempts", calls)
	}
}
