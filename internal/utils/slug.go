package utils

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)
	slugEdgeDashes   = regexp.MustCompile(`^-+|-+$`)
)

// GenerateSlug derives a URL-safe slug from a display name: lowercased,
// non-alphanumeric runs collapsed to single dashes, edges trimmed.
// Returns "workspace" for names with no usable characters.
func GenerateSlug(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugInvalidChars.ReplaceAllString(slug, "-")
	slug = slugEdgeDashes.ReplaceAllString(slug, "")
	if len(slug) > 48 {
		slug = strings.Trim(slug[:48], "-")
	}
	if slug == "" {
		return "workspace"
	}
	return slug
}
