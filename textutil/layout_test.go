package textutil

import "testing"

func TestNormalizeLayout(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		// full-width folded, duplicate removed
		{"１ＬＤＫ・3LDK・1LDK", "1LDK・3LDK"},
		// sorted ascending by count, then by type rank
		{"3LDK・1K", "1K・3LDK"},
		{"2LDK・2K・2DK", "2K・2DK・2LDK"},
		{"2LDK　1K", "1K・2LDK"},
		// lower case and spaced digits
		{"2 ldk", "2LDK"},
		// studio marker only when no pairs found
		{"ワンルームタイプ", "ワンルーム"},
		{"ワンルーム・1K", "1K"},
		// service-room variants do not match the digit+type pattern
		{"2SLDK", ""},
		{"2LDK+S・3SLDK", "2LDK"},
		{"", ""},
		{"間取り未定", ""},
	}
	for _, c := range cases {
		if got := NormalizeLayout(c.in); got != c.want {
			t.Errorf("NormalizeLayout(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeLayoutNoDuplicatePairs(t *testing.T) {
	got := NormalizeLayout("1K・１Ｋ・1k・1K")
	if got != "1K" {
		t.Fatalf("expected single 1K, got %q", got)
	}
}
