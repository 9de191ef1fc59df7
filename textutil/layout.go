package textutil

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Studio is the literal token used when a listing has no room-count/type
// pairs but carries a studio marker.
const Studio = "ワンルーム"

// layoutSeparator joins canonical layout tokens: "1K・2LDK".
const layoutSeparator = "・"

var layoutPairRegexp = regexp.MustCompile(`(?i)(\d+)\s*(LDK|DK|K|R)`)

// typeRank orders room types: R < K < DK < LDK.
var typeRank = map[string]int{"R": 0, "K": 1, "DK": 2, "LDK": 3}

type layoutPair struct {
	count int
	typ   string
}

// NormalizeLayout converts raw floor-plan text into the canonical token
// list, e.g. "１ＬＤＫ・3LDK・1LDK" → "1LDK・3LDK". Pairs are deduplicated
// (first occurrence wins) and sorted ascending by room count, then by type
// rank. If no pairs are found and the text contains the studio marker, the
// marker itself is returned. Unparseable input yields "".
//
// Note: compound annotations like "2SLDK" do not match the digit+type
// pattern, so the service-room variant is dropped entirely.
func NormalizeLayout(raw string) string {
	txt := foldWidth(raw)

	var pairs []layoutPair
	seen := make(map[string]struct{})
	for _, m := range layoutPairRegexp.FindAllStringSubmatch(txt, -1) {
		typ := strings.ToUpper(m[2])
		key := m[1] + typ
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		count, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pairs = append(pairs, layoutPair{count: count, typ: typ})
	}

	if len(pairs) == 0 {
		if strings.Contains(raw, Studio) {
			return Studio
		}
		return ""
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count < pairs[j].count
		}
		return typeRank[pairs[i].typ] < typeRank[pairs[j].typ]
	})

	tokens := make([]string, len(pairs))
	for i, p := range pairs {
		tokens[i] = strconv.Itoa(p.count) + p.typ
	}
	return strings.Join(tokens, layoutSeparator)
}
