package permits

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// DescriptionText reduces an upstream permit description to plain text.
// Some municipal feeds embed markup in free-text fields; descriptions flow
// into prompts and API responses, so they are stripped once at the adapter
// boundary.
func DescriptionText(raw string) string {
	if raw == "" {
		return ""
	}
	text := raw
	if strings.ContainsAny(raw, "<>&") {
		text = stripPolicy.Sanitize(raw)
		// Sanitize leaves entities escaped; run the result through an HTML
		// parse to decode them back to plain text.
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(text)); err == nil {
			text = doc.Text()
		}
	}
	return strings.Join(strings.Fields(text), " ")
}
