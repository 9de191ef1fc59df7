package textutil

import "strings"

// FoldDigits converts full-width digits, decimal point, comma and minus to
// their half-width forms. Other runes pass through unchanged.
func FoldDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '０' && r <= '９':
			return r - '０' + '0'
		case r == '．':
			return '.'
		case r == '，':
			return ','
		case r == '－':
			return '-'
		}
		return r
	}, s)
}

// foldWidth additionally folds full-width latin letters and the ideographic
// space, so layout tokens like "１ＬＤＫ" compare equal to "1LDK".
func foldWidth(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '０' && r <= '９':
			return r - '０' + '0'
		case r >= 'Ａ' && r <= 'Ｚ':
			return r - 'Ａ' + 'A'
		case r >= 'ａ' && r <= 'ｚ':
			return r - 'ａ' + 'a'
		case r == '　':
			return ' '
		}
		return r
	}, s)
}
