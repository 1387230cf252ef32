package util

import "testing"

func TestNormalizeCode(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"401121145", "401121145"},
		{" hyd-val-200 ", "HYD-VAL-200"},
		{"22216 e1/k", "22216E1/K"},
		{"abc_12.3", "ABC_12.3"},
		{"código#9", "CDIGO9"},
	}
	for _, tc := range cases {
		if got := NormalizeCode(tc.in); got != tc.want {
			t.Fatalf("NormalizeCode(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLooksLikeCode(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"401121145", true},
		{"HYD-VAL-200", true},
		{"A1", false},
		{"Totals", false},
		{"  ", false},
	}
	for _, tc := range cases {
		if got := LooksLikeCode(tc.in); got != tc.want {
			t.Fatalf("LooksLikeCode(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeSpaces(t *testing.T) {
	if got := NormalizeSpaces("  a \t b\n c  "); got != "a b c" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 20); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("Spherical roller bearing", 9); got != "Spherical" {
		t.Fatalf("got %q", got)
	}
}
