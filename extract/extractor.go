package extract

import "github.com/PuerkitoBio/goquery"

// Extractor runs a strategy chain in order; the first strategy to locate
// the label wins. A page template that needs different handling is a new
// Strategy appended to the chain, not a change to existing ones.
type Extractor struct {
	strategies []Strategy
}

// NewExtractor returns the default chain: term/definition pairs, then
// header/data table cells, then the full-text fallback.
func NewExtractor() *Extractor {
	return &Extractor{strategies: []Strategy{
		DefinitionListStrategy{},
		TableStrategy{},
		BodyTextStrategy{},
	}}
}

// Extract returns the raw text associated with the label, or "" when no
// strategy finds it. An extraction miss is not an error.
func (e *Extractor) Extract(doc *goquery.Document, label *Label) string {
	for _, s := range e.strategies {
		if value, ok := s.Extract(doc, label); ok {
			return value
		}
	}
	return ""
}
