package ui

import (
	"strings"
	"unicode/utf8"
)

// clip fits a handle into limit runes, marking a cut with a single ellipsis rune.
func clip(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	if limit == 1 {
		return "…"
	}
	return string([]rune(s)[:limit-1]) + "…"
}
