package models

import "time"

// PropertyRecord is one normalized listing built from a detail page.
// Name is the identity key: records with no derivable name are discarded
// before construction, and the store never holds two rows with the same name.
type PropertyRecord struct {
	Name       string    `json:"name"`
	DetailURL  string    `json:"detail_url"`
	ImageURL   string    `json:"image_url"`
	Address    string    `json:"address"`
	Layout     string    `json:"layout"` // canonical, e.g. "1K・2LDK" or "ワンルーム"
	Area       string    `json:"area"`   // canonical, e.g. "44.83㎡～74.57㎡"
	Access     string    `json:"access"`
	TotalUnits string    `json:"total_units"`
	ScrapedAt  time.Time `json:"scraped_at"`
}
