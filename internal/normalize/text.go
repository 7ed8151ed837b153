package normalize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)

// PlainText converts an HTML or HTML-encoded string to plain text. Entities
// are unescaped first so double-encoded markup is also stripped, then
// whitespace is collapsed.
func PlainText(content string) string {
	unescaped := html.UnescapeString(content)
	stripped := stripPolicy.Sanitize(unescaped)
	plain := html.UnescapeString(stripped)
	return strings.Join(strings.Fields(plain), " ")
}
