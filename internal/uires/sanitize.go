package uires

import "strings"

// htmlEscaper maps every markup-significant character, including the
// backtick, to its entity. User-supplied text always passes through this
// before being embedded in a built resource.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
	"`", "&#96;",
)

// EscapeHTML escapes markup-significant characters in input.
func EscapeHTML(input string) string {
	return htmlEscaper.Replace(input)
}
