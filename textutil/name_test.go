package textutil

import "testing"

func TestNameFromTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{
			"【goo住宅・不動産】Foo Tower（価格・間取り） 物件情報｜新築マンション・分譲マンション",
			"Foo Tower",
		},
		{
			"【goo住宅・不動産】ザ・パークハウス 東中野プレイス（価格・間取り） 物件情報｜新築マンション・分譲マンション",
			"ザ・パークハウス 東中野プレイス",
		},
		// suffix variant without the price/layout parenthetical
		{
			"【goo住宅・不動産】Bar Residence 物件情報｜新築マンション・分譲マンション",
			"Bar Residence",
		},
		// no boilerplate at all passes through
		{"Plain Title", "Plain Title"},
		{"", ""},
		// trailing parens and whitespace trimmed
		{"【goo住宅・不動産】Baz（）  ", "Baz"},
	}
	for _, c := range cases {
		if got := NameFromTitle(c.in); got != c.want {
			t.Errorf("NameFromTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
