package ingest

import (
	"strings"

	"github.com/gosimple/slug"
)

// slugify folds a free-form name into an asset-store identifier.
func slugify(value string) string {
	s := slug.Make(value)
	if s == "" {
		return "unknown"
	}
	return s
}

// segmentFolder derives the per-category asset folder from the category
// descriptions, preferring English, keeping the first two words.
func segmentFolder(english, portuguese *string, code string) string {
	base := ""
	if english != nil {
		base = strings.TrimSpace(*english)
	}
	if base == "" && portuguese != nil {
		base = strings.TrimSpace(*portuguese)
	}
	if base == "" {
		base = code
	}
	if base == "" {
		return "unknown"
	}

	fields := strings.Fields(base)
	if len(fields) > 2 {
		fields = fields[:2]
	}
	return slugify(strings.Join(fields, " "))
}
