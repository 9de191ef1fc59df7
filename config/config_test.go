package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestSiteConfigUnmarshal(t *testing.T) {
	data := []byte(`
id: goo_shinchiku
name: goo住宅・不動産 新築マンション
handler: browser
listing_url: https://house.goo.ne.jp/buy/bm/
link_selector: ul.bxslider li a
rate_limit_ms: 1500
`)

	var site SiteConfig
	if err := yaml.Unmarshal(data, &site); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if site.ID != "goo_shinchiku" {
		t.Errorf("ID = %q", site.ID)
	}
	if site.Handler != "browser" {
		t.Errorf("Handler = %q", site.Handler)
	}
	if site.ListingURL != "https://house.goo.ne.jp/buy/bm/" {
		t.Errorf("ListingURL = %q", site.ListingURL)
	}
	if site.LinkSelector != "ul.bxslider li a" {
		t.Errorf("LinkSelector = %q", site.LinkSelector)
	}
	if site.RateLimitMS != 1500 {
		t.Errorf("RateLimitMS = %d", site.RateLimitMS)
	}
}

func TestGetEnvIntFallsBack(t *testing.T) {
	t.Setenv("TEST_DELAY_MS", "not a number")
	if got := getEnvInt("TEST_DELAY_MS", 1200); got != 1200 {
		t.Errorf("got %d, want default 1200", got)
	}

	t.Setenv("TEST_DELAY_MS", "900")
	if got := getEnvInt("TEST_DELAY_MS", 1200); got != 900 {
		t.Errorf("got %d, want 900", got)
	}
}
