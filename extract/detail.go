package extract

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bukken_watcher/textutil"
)

// Labels for the fields a detail page carries.
var (
	LabelAddress    = NewLabel("address", "住所", "所在地")
	LabelAccess     = NewLabel("access", "交通")
	LabelLayout     = NewLabel("layout", "間取り", "間取")
	LabelArea       = NewLabel("area", "専有面積")
	LabelTotalUnits = NewLabel("total_units", "総戸数")
)

const imageHostPrefix = "https://img.house.goo.ne.jp/"

var lowResQueryRegexp = regexp.MustCompile(`\?500\b`)

// Details is the normalized field set extracted from one detail page.
type Details struct {
	ImageURL   string
	Address    string
	Access     string
	Layout     string
	Area       string
	TotalUnits string
}

// ParseDetailPage parses detail-page HTML and extracts all fields.
func ParseDetailPage(r io.Reader) (*Details, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return ParseDetailDocument(doc), nil
}

// ParseDetailDocument extracts all fields from a parsed detail page.
// Missing labels yield empty fields, never an error.
func ParseDetailDocument(doc *goquery.Document) *Details {
	// Image first: cell extraction removes link sub-elements as it goes.
	img := imageURL(doc)
	ex := NewExtractor()
	return &Details{
		ImageURL:   img,
		Address:    ex.Extract(doc, LabelAddress),
		Access:     ex.Extract(doc, LabelAccess),
		Layout:     textutil.NormalizeLayout(ex.Extract(doc, LabelLayout)),
		Area:       textutil.NormalizeArea(ex.Extract(doc, LabelArea)),
		TotalUnits: ex.Extract(doc, LabelTotalUnits),
	}
}

// PageTitle returns the document title text.
func PageTitle(doc *goquery.Document) string {
	return doc.Find("title").Text()
}

// imageURL prefers the full-size popup anchor; otherwise it takes the
// first image from the listing image host and rewrites the ?500 thumbnail
// query to the ?700 resolution.
func imageURL(doc *goquery.Document) string {
	if href, ok := doc.Find(`a.image-popup[href^="` + imageHostPrefix + `"]`).First().Attr("href"); ok {
		return href
	}

	var out string
	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, ok := img.Attr("src")
		if !ok || !strings.HasPrefix(src, imageHostPrefix) {
			return true
		}
		out = lowResQueryRegexp.ReplaceAllString(src, "?700")
		return false
	})
	return out
}
