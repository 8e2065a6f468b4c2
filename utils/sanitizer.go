package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// StrictPolicy strips every tag from user-supplied text
var StrictPolicy = bluemonday.StrictPolicy()

// SanitizeText removes markup from a free-text field and trims surrounding space.
// The result is plain text: the entities bluemonday escapes are decoded again,
// so "Q&A" is stored as typed. Escaping belongs to whoever renders it.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(StrictPolicy.Sanitize(s)))
}

// SanitizeOptional sanitizes an optional field, mapping blank results to nil
func SanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	clean := SanitizeText(*s)
	if clean == "" {
		return nil
	}
	return &clean
}
