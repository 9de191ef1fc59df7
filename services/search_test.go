package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testSearchService(t *testing.T, handler http.HandlerFunc) *SearchService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc := NewSearchService(server.Client(), "test-key", "test-cse")
	svc.baseURL = server.URL
	svc.retry.BaseDelay = time.Millisecond
	svc.retry.RateLimitDelay = time.Millisecond
	return svc
}

func TestOfficialURLPrefersJapaneseNonPortalDomain(t *testing.T) {
	svc := testSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Foo Tower" {
			t.Errorf("unexpected query %q", got)
		}
		w.Write([]byte(`{"items":[
			{"link":"https://suumo.jp/ms/foo"},
			{"link":"https://example.com/foo"},
			{"link":"https://footower.co.jp/"}
		]}`))
	})

	if got := svc.OfficialURL(context.Background(), "Foo Tower"); got != "https://footower.co.jp/" {
		t.Fatalf("unexpected official URL %q", got)
	}
}

func TestOfficialURLFallsBackToFirstResult(t *testing.T) {
	svc := testSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"link":"https://example.com/foo"}]}`))
	})

	if got := svc.OfficialURL(context.Background(), "Foo"); got != "https://example.com/foo" {
		t.Fatalf("unexpected official URL %q", got)
	}
}

func TestOfficialURLRetriesAfterRateLimit(t *testing.T) {
	calls := 0
	svc := testSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"items":[{"link":"https://foo.co.jp/"}]}`))
	})

	if got := svc.OfficialURL(context.Background(), "Foo"); got != "https://foo.co.jp/" {
		t.Fatalf("unexpected official URL %q", got)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestOfficialURLDegradesToEmpty(t *testing.T) {
	svc := testSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if got := svc.OfficialURL(context.Background(), "Foo"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestOfficialURLWithoutCredentials(t *testing.T) {
	svc := NewSearchService(http.DefaultClient, "", "")
	if got := svc.OfficialURL(context.Background(), "Foo"); got != "" {
		t.Fatalf("expected empty result without credentials, got %q", got)
	}
}

func TestOfficialURLEmptyItems(t *testing.T) {
	svc := testSearchService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	})

	if got := svc.OfficialURL(context.Background(), "Foo"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}
