// Package textutil holds the pure normalization functions for scraped
// free-text fields. Everything here is stateless and safe to call from
// any goroutine.
package textutil

import (
	"regexp"
	"strings"
)

var (
	ctrlRunRegexp    = regexp.MustCompile(`[\t\r\n]+`)
	multiSpaceRegexp = regexp.MustCompile(`\s{2,}`)
)

// invisible space artifacts that show up in scraped cells
var invisibleReplacer = strings.NewReplacer(
	"\u00A0", " ", // no-break space
	"\u200B", "", // zero-width space
	"\uFEFF", "", // zero-width no-break space / BOM
)

// Sanitize collapses tab/CR/LF runs and repeated whitespace to a single
// space, strips no-break and zero-width space artifacts, and trims the
// result. Idempotent.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	s = invisibleReplacer.Replace(s)
	s = ctrlRunRegexp.ReplaceAllString(s, " ")
	s = multiSpaceRegexp.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
