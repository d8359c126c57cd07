package render

import "html"

// HTML is markup that is safe to embed without further escaping. Substitute
// only ever produces HTML by escaping untrusted values; annotation
// attributes marked safe and provider values of this type pass through
// verbatim.
type HTML string

// String returns the markup as a plain string.
func (h HTML) String() string { return string(h) }

// Escape HTML-escapes a value for embedding in markup.
func Escape(s string) string {
	return html.EscapeString(s)
}
