// Package extract locates labeled values in parsed listing pages. Source
// templates have changed layout over the years (term/definition pairs,
// header/data table cells, plain text), so extraction runs an ordered
// chain of strategies and takes the first hit.
package extract

import (
	"regexp"
	"strings"
)

// Label is a semantic field with the label-text alternatives that mark it
// in a page, e.g. address is labeled either 住所 or 所在地.
type Label struct {
	name     string
	exact    *regexp.Regexp // whole term, optional trailing colon
	contains *regexp.Regexp
	body     *regexp.Regexp // full-text fallback, captures up to line break
}

// NewLabel compiles the matchers for a field. Alternatives are regex
// alternation branches; the first listed is tried first.
func NewLabel(name string, alternatives ...string) *Label {
	alt := strings.Join(alternatives, "|")
	return &Label{
		name:     name,
		exact:    regexp.MustCompile(`^\s*(?:` + alt + `)\s*[：:]?\s*$`),
		contains: regexp.MustCompile(alt),
		body:     regexp.MustCompile(`(?:` + alt + `)[:：]?\s*([^\r\n]+)`),
	}
}

func (l *Label) Name() string { return l.name }

// matchesTerm reports whether a term/header cell marks this label: either
// the trimmed cell is exactly the label (optionally colon-suffixed), or it
// contains the label pattern.
func (l *Label) matchesTerm(text string) bool {
	return l.exact.MatchString(text) || l.contains.MatchString(text)
}
