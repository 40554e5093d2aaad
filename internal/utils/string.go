package utils

import "strings"

// SanitizeSlug lowercases a name and maps anything outside [a-z0-9_.-]
// to '-'. Slugs end up in filesystem paths and nginx config filenames.
func SanitizeSlug(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('-')
		}
	}
	return b.String()
}
