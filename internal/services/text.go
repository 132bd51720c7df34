package services

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

// normalizeText folds full-width and half-width forms, composes to NFC,
// trims, and collapses runs of whitespace. Keywords typed on different
// keyboards end up as the same stored text.
func normalizeText(s string) string {
	s = width.Fold.String(s)
	s = norm.NFC.String(s)
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// clip truncates s to max runes. A non-positive max disables clipping.
func clip(s string, max int) string {
	if max > 0 && utf8.RuneCountInString(s) > max {
		return string([]rune(s)[:max])
	}
	return s
}
