package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"bukken_watcher/textutil"
)

// Strategy tries one structural layout. A false second return means the
// label was not found under this layout and the next strategy should run.
type Strategy interface {
	Name() string
	Extract(doc *goquery.Document, label *Label) (string, bool)
}

// boilerplateMarkers indicate that a full-text capture ran into a heading
// or navigation string instead of a field value.
var boilerplateMarkers = []string{"物件情報", "価格", "新築マンション", "分譲マンション"}

// DefinitionListStrategy reads term/definition pairs: a dt whose text
// matches the label, then its immediately following dd sibling.
type DefinitionListStrategy struct{}

func (DefinitionListStrategy) Name() string { return "dl" }

func (DefinitionListStrategy) Extract(doc *goquery.Document, label *Label) (string, bool) {
	var out string
	found := false
	doc.Find("dt").EachWithBreak(func(_ int, dt *goquery.Selection) bool {
		if !label.matchesTerm(textutil.Sanitize(dt.Text())) {
			return true
		}
		dd := dt.NextFiltered("dd")
		if dd.Length() == 0 {
			return true
		}
		out = cellText(dd)
		found = true
		return false
	})
	return out, found
}

// TableStrategy reads header/data cell pairs: a th whose text matches the
// label, then its following td.
type TableStrategy struct{}

func (TableStrategy) Name() string { return "table" }

func (TableStrategy) Extract(doc *goquery.Document, label *Label) (string, bool) {
	var out string
	found := false
	doc.Find("th").EachWithBreak(func(_ int, th *goquery.Selection) bool {
		if !label.matchesTerm(textutil.Sanitize(th.Text())) {
			return true
		}
		td := th.NextFiltered("td")
		if td.Length() == 0 {
			return true
		}
		out = cellText(td)
		found = true
		return false
	})
	return out, found
}

// BodyTextStrategy is the last resort: scan the page's visible text for
// "<label>: value" up to the line break. Captures that ran into heading or
// navigation boilerplate are rejected.
type BodyTextStrategy struct{}

func (BodyTextStrategy) Name() string { return "body" }

func (BodyTextStrategy) Extract(doc *goquery.Document, label *Label) (string, bool) {
	text := doc.Find("body").Text()
	for _, m := range label.body.FindAllStringSubmatch(text, -1) {
		candidate := textutil.Sanitize(m[1])
		if candidate == "" || containsBoilerplate(candidate) {
			continue
		}
		return candidate, true
	}
	return "", false
}

func containsBoilerplate(s string) bool {
	for _, marker := range boilerplateMarkers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

// cellText extracts a data cell's text with link and inline-decoration
// sub-elements removed first, so anchor text like 地図を見る does not
// contaminate the value.
func cellText(sel *goquery.Selection) string {
	sel.Find("a, .link-s").Remove()
	return textutil.Sanitize(sel.Text())
}
