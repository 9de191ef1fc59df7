package textutil

import (
	"strings"
	"testing"
)

func TestSanitize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  東京都新宿区  ", "東京都新宿区"},
		{"JR中央線\t「東中野」駅\r\n徒歩5分", "JR中央線 「東中野」駅 徒歩5分"},
		{"a\u00A0b", "a b"},
		{"a\u200Bb\uFEFFc", "abc"},
		{"a     b", "a b"},
		{"\t\r\n", ""},
	}
	for _, c := range cases {
		if got := Sanitize(c.in); got != c.want {
			t.Errorf("Sanitize(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeIdempotent(t *testing.T) {
	inputs := []string{
		"a\tb\nc",
		"  spaced   out  ",
		"徒歩\u00A05分\u200B",
		"already clean",
	}
	for _, in := range inputs {
		once := Sanitize(in)
		if twice := Sanitize(once); twice != once {
			t.Errorf("Sanitize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestSanitizeNeverLeavesControlRuns(t *testing.T) {
	inputs := []string{"a\t\t\tb", "x\r\ny\r\nz", "p  q   r"}
	for _, in := range inputs {
		got := Sanitize(in)
		if strings.ContainsAny(got, "\t\r\n") {
			t.Errorf("Sanitize(%q) = %q still contains control chars", in, got)
		}
		if strings.Contains(got, "  ") {
			t.Errorf("Sanitize(%q) = %q still contains a space run", in, got)
		}
	}
}
