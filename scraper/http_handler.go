package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/PuerkitoBio/goquery"

	"bukken_watcher/config"
	"bukken_watcher/httputil"
)

type HTTPHandler struct {
	cfg     *config.SiteConfig
	clients *httputil.Clients
}

func NewHTTPHandler(cfg *config.SiteConfig) *HTTPHandler {
	return &HTTPHandler{
		cfg:     cfg,
		clients: httputil.NewClients(),
	}
}

func (h *HTTPHandler) ID() string {
	return h.cfg.ID
}

func (h *HTTPHandler) Links(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.cfg.ListingURL, nil)
	if err != nil {
		return nil, err
	}
	httputil.SetScrapingHeaders(req)

	resp, err := h.clients.Scraping.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch listing page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("listing page returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse listing page: %w", err)
	}

	base, err := url.Parse(h.cfg.ListingURL)
	if err != nil {
		return nil, err
	}

	return collectLinks(doc, h.cfg.LinkSelector, base), nil
}

// collectLinks resolves each matched href against base and dedupes
// while preserving document order.
func collectLinks(doc *goquery.Document, selector string, base *url.URL) []string {
	var links []string
	seen := make(map[string]bool)

	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			return
		}
		seen[abs] = true
		links = append(links, abs)
	})

	return links
}
