package scraper

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"sync"

	"github.com/playwright-community/playwright-go"

	"bukken_watcher/config"
)

// BrowserHandler drives a headless Chromium through listing pages whose
// link carousels are populated by JavaScript and never appear in the
// static HTML.
type BrowserHandler struct {
	cfg         *config.SiteConfig
	pw          *playwright.Playwright
	browser     playwright.Browser
	mu          sync.Mutex
	initialized bool
}

func NewBrowserHandler(cfg *config.SiteConfig) *BrowserHandler {
	return &BrowserHandler{cfg: cfg}
}

func (h *BrowserHandler) ID() string {
	return h.cfg.ID
}

func (h *BrowserHandler) Links(ctx context.Context) ([]string, error) {
	if err := h.ensureBrowser(); err != nil {
		return nil, err
	}
	defer h.Close()

	page, err := h.browser.NewPage()
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	log.Printf("Navigating to: %s", h.cfg.ListingURL)
	_, err = page.Goto(h.cfg.ListingURL, playwright.PageGotoOptions{
		Timeout:   playwright.Float(60000),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load listing page: %w", err)
	}

	// Give the carousel script time to inject its slides.
	if _, err := page.WaitForSelector(h.cfg.LinkSelector, playwright.PageWaitForSelectorOptions{
		Timeout: playwright.Float(15000),
	}); err != nil {
		return nil, fmt.Errorf("no links matched %q: %w", h.cfg.LinkSelector, err)
	}

	elements, err := page.QuerySelectorAll(h.cfg.LinkSelector)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(h.cfg.ListingURL)
	if err != nil {
		return nil, err
	}

	var links []string
	seen := make(map[string]bool)
	for _, el := range elements {
		href, err := el.GetAttribute("href")
		if err != nil || href == "" {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref).String()
		if seen[abs] {
			continue
		}
		seen[abs] = true
		links = append(links, abs)
	}

	log.Printf("Found %d links on %s", len(links), h.cfg.ListingURL)
	return links, nil
}

func (h *BrowserHandler) ensureBrowser() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.initialized {
		return nil
	}

	var err error
	h.pw, err = playwright.Run()
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	h.browser, err = h.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	})
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	h.initialized = true
	return nil
}

func (h *BrowserHandler) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.browser != nil {
		h.browser.Close()
		h.browser = nil
	}
	if h.pw != nil {
		h.pw.Stop()
		h.pw = nil
	}
	h.initialized = false
}
