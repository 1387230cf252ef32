package util

import (
	"regexp"
	"strings"
)

var reSpaces = regexp.MustCompile(`\s+`)

func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(input, " "))
}

// NormalizeCode canonicalizes a material code: uppercase, no whitespace,
// only characters that appear in ERP material numbering.
func NormalizeCode(input string) string {
	s := strings.ToUpper(strings.TrimSpace(input))
	out := strings.Builder{}
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '/' || r == '.' {
			out.WriteRune(r)
		}
	}
	return out.String()
}

// LooksLikeCode reports whether a cell plausibly holds a material code
// rather than prose: at least three characters, digits present.
func LooksLikeCode(input string) bool {
	s := strings.TrimSpace(input)
	if len(s) < 3 {
		return false
	}
	hasDigit := false
	for _, r := range s {
		if r >= '0' && r <= '9' {
			hasDigit = true
			break
		}
	}
	return hasDigit
}

func Truncate(input string, max int) string {
	r := []rune(input)
	if len(r) <= max {
		return input
	}
	return string(r[:max])
}
