package markup

import "strings"

var (
	textEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	)
	attrEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#x27;",
	)
)

// EscapeText escapes s for safe inclusion in element content.
// Quotes are left alone; only &, < and > are replaced.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

// EscapeAttr escapes s for safe inclusion in a double-quoted attribute
// value. Both quote characters are replaced in addition to &, < and >.
func EscapeAttr(s string) string {
	return attrEscaper.Replace(s)
}
