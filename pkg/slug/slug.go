package slug

import (
	"regexp"
	"strings"
)

var slugRegexp = regexp.MustCompile(`[^a-z0-9]+`)

// Generate creates a URL-friendly slug from the given name.
//
// Examples:
//   - "Gold Pendant Necklace" → "gold-pendant-necklace"
//   - "Café  Mug!" → "caf-mug"
func Generate(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))

	// Replace any non-alphanumeric characters with hyphens.
	slug = slugRegexp.ReplaceAllString(slug, "-")

	// Trim leading and trailing hyphens.
	slug = strings.Trim(slug, "-")

	// Collapse consecutive hyphens into single hyphens.
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	return slug
}
