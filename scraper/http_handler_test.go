package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"bukken_watcher/config"
)

func TestCollectLinksResolvesAndDedupes(t *testing.T) {
	html := `<html><body>
		<ul class="bxslider">
			<li><a href="/buy/bm/detail/1001/">A</a></li>
			<li><a href="/buy/bm/detail/1002/">B</a></li>
			<li><a href="/buy/bm/detail/1001/">A again</a></li>
			<li><a href="https://other.example.com/x">C</a></li>
			<li><a>no href</a></li>
		</ul>
	</body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse html: %v", err)
	}
	base, _ := url.Parse("https://house.goo.ne.jp/buy/bm/")

	links := collectLinks(doc, "ul.bxslider li a", base)

	want := []string{
		"https://house.goo.ne.jp/buy/bm/detail/1001/",
		"https://house.goo.ne.jp/buy/bm/detail/1002/",
		"https://other.example.com/x",
	}
	if len(links) != len(want) {
		t.Fatalf("got %d links, want %d: %v", len(links), len(want), links)
	}
	for i, w := range want {
		if links[i] != w {
			t.Errorf("link %d: got %q, want %q", i, links[i], w)
		}
	}
}

func TestHTTPHandlerLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>
			<a class="cassette_header-title" href="/ms/shinchiku/tokyo/nc_1/">One</a>
			<a class="cassette_header-title" href="/ms/shinchiku/tokyo/nc_2/">Two</a>
		</body></html>`))
	}))
	defer srv.Close()

	h := NewHTTPHandler(&config.SiteConfig{
		ID:           "test_site",
		ListingURL:   srv.URL + "/ms/shinchiku/tokyo/",
		LinkSelector: "a.cassette_header-title",
	})

	links, err := h.Links(context.Background())
	if err != nil {
		t.Fatalf("Links failed: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("got %d links, want 2: %v", len(links), links)
	}
	if links[0] != srv.URL+"/ms/shinchiku/tokyo/nc_1/" {
		t.Errorf("unexpected first link: %s", links[0])
	}
}

func TestHTTPHandlerLinksNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	h := NewHTTPHandler(&config.SiteConfig{
		ID:         "test_site",
		ListingURL: srv.URL,
	})

	if _, err := h.Links(context.Background()); err == nil {
		t.Fatal("expected error for non-200 listing page")
	}
}
