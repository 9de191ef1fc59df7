package httputil

import (
	"net/http"
	"time"
)

type Clients struct {
	Scraping *http.Client // for target listing/detail pages
	API      *http.Client // for the search API
}

func NewClients() *Clients {
	return &Clients{
		Scraping: &http.Client{Timeout: 15 * time.Second},
		API:      &http.Client{Timeout: 30 * time.Second},
	}
}

// browser-ish headers keep the target portal from serving the bot page
func SetScrapingHeaders(req *http.Request) {
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en;q=0.8")
}
