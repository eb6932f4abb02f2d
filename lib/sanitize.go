package lib

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips all markup from free text such as descriptions and bios.
// The result is plain text, escaping is left to whoever renders it.
func SanitizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
