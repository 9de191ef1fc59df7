package scraper

import (
	"context"

	"bukken_watcher/config"
)

// Handler discovers detail-page links on a listing site.
type Handler interface {
	ID() string
	Links(ctx context.Context) ([]string, error)
}

func NewHandler(siteCfg *config.SiteConfig) Handler {
	switch siteCfg.Handler {
	case "browser":
		return NewBrowserHandler(siteCfg)
	case "http":
		return NewHTTPHandler(siteCfg)
	default:
		return NewHTTPHandler(siteCfg)
	}
}
