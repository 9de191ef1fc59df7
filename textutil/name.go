package textutil

import (
	"regexp"
	"strings"
)

// PortalBrand appears in every page title on the source portal. A derived
// name still containing it means the title was a navigation or index page,
// not a property page.
const PortalBrand = "goo住宅・不動産"

var (
	titlePrefixRegexp  = regexp.MustCompile(`^【goo住宅・不動産】`)
	titleSuffixRegexps = []*regexp.Regexp{
		regexp.MustCompile(`（価格・間取り）\s*物件情報｜新築マンション・分譲マンション.*$`),
		regexp.MustCompile(`\s*物件情報｜新築マンション・分譲マンション.*$`),
	}
	trailingJunkRegexp = regexp.MustCompile(`[（）\s]+$`)
)

// NameFromTitle derives the canonical property name from a detail-page
// title by stripping the portal prefix and boilerplate suffixes:
//
//	"【goo住宅・不動産】Foo Tower（価格・間取り） 物件情報｜新築マンション・分譲マンション"
//	  → "Foo Tower"
//
// Returns "" when nothing remains after stripping.
func NameFromTitle(title string) string {
	t := strings.TrimSpace(title)
	t = titlePrefixRegexp.ReplaceAllString(t, "")
	for _, re := range titleSuffixRegexps {
		t = re.ReplaceAllString(t, "")
	}
	t = trailingJunkRegexp.ReplaceAllString(t, "")
	return strings.TrimSpace(t)
}
