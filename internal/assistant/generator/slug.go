package generator

import (
	"regexp"
	"strings"
)

var (
	slugStrip = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugSpace = regexp.MustCompile(`\s+`)
)

// Slugify derives a URL slug from a title. Slugify(Slugify(x)) == Slugify(x).
// Uniqueness against stored records is the caller's concern.
func Slugify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = slugStrip.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	return slugSpace.ReplaceAllString(s, "-")
}
