package utils

import (
	"strings"
	"unicode"
)

// NormalizeRole trims and collapses inner whitespace, keeping the caller's casing.
func NormalizeRole(role string) string {
	return strings.Join(strings.Fields(role), " ")
}

// NormalizeDifficulty maps any casing of a difficulty label onto Title case.
func NormalizeDifficulty(difficulty string) string {
	d := strings.ToLower(strings.TrimSpace(difficulty))
	if d == "" {
		return ""
	}
	r := []rune(d)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
