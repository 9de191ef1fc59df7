package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

// AreaUnit is the only unit symbol ever emitted for floor areas.
const AreaUnit = "㎡"

// rangeDash joins range endpoints: "44.83㎡～74.57㎡".
const rangeDash = "～"

var (
	// unit variants folded to the internal marker "m2" before extraction
	unitFullwidth2 = regexp.MustCompile(`m\s*２`)
	unitSpaced2    = regexp.MustCompile(`m\s*2\b`)
	unitBareM      = regexp.MustCompile(`m\s*$`)

	leadingPunct  = regexp.MustCompile(`^[：:/\-\s]+`)
	approxWords   = regexp.MustCompile(`\s*(超|平均|前後|程度)`)
	parenthetical = regexp.MustCompile(`[（(][^）)]*[)）]`)

	areaRangeRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*m2\s*(?:～|~)\s*(\d+(?:\.\d+)?)\s*m2`)
	areaValueRegexp = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*m2`)
)

// NormalizeArea converts raw floor-area text into the canonical single
// value or min–max range, e.g. "44.830㎡～74.570㎡" → "44.83㎡～74.57㎡".
// Every unit variant (㎡, m², m^2, m２, "m 2", trailing bare m) is accepted;
// the output always uses ㎡. Text with no parseable number yields "".
func NormalizeArea(raw string) string {
	txt := cleanupArea(raw)

	if m := areaRangeRegexp.FindStringSubmatch(txt); m != nil {
		return formatArea(m[1]) + rangeDash + formatArea(m[2])
	}

	matches := areaValueRegexp.FindAllStringSubmatch(txt, -1)
	switch len(matches) {
	case 0:
		return ""
	case 1:
		return formatArea(matches[0][1])
	}

	// No explicit range marker: take the global min and max of all values.
	lo, hi := matches[0][1], matches[0][1]
	loV, _ := strconv.ParseFloat(lo, 64)
	hiV := loV
	for _, m := range matches[1:] {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if v < loV {
			lo, loV = m[1], v
		}
		if v > hiV {
			hi, hiV = m[1], v
		}
	}
	return formatArea(lo) + rangeDash + formatArea(hi)
}

func cleanupArea(raw string) string {
	s := invisibleReplacer.Replace(raw)
	s = strings.ReplaceAll(s, "㎡", "m2")
	s = strings.ReplaceAll(s, "m²", "m2")
	s = strings.ReplaceAll(s, "m^2", "m2")
	s = unitFullwidth2.ReplaceAllString(s, "m2")
	s = unitSpaced2.ReplaceAllString(s, "m2")
	s = unitBareM.ReplaceAllString(s, "m2")
	s = strings.ReplaceAll(FoldDigits(s), ",", "")
	s = leadingPunct.ReplaceAllString(s, "")
	s = approxWords.ReplaceAllString(s, "")
	s = parenthetical.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// formatArea renders a numeric string with up to 2 decimal digits, strips
// trailing zeros and a dangling decimal point, and appends the unit symbol:
// "44.830" → "44.83㎡", "70.0" → "70㎡".
func formatArea(num string) string {
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return num + AreaUnit
	}
	var out string
	if strings.Contains(num, ".") {
		out = strconv.FormatFloat(v, 'f', 2, 64)
	} else {
		out = strconv.FormatFloat(v, 'g', -1, 64)
	}
	if strings.Contains(out, ".") {
		out = strings.TrimRight(out, "0")
		out = strings.TrimSuffix(out, ".")
	}
	return out + AreaUnit
}
