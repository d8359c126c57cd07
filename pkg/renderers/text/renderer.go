// Package text renders resolved views as plain text for logs and CLIs,
// stripping any markup the template produced.
package text

import (
	"context"
	"html"
	"strings"

	"github.com/goliatone/go-metaview/pkg/render"
)

// Name is the registry identifier of the text renderer.
const Name = "text"

// Renderer emits "Title: fragment" lines with markup removed.
type Renderer struct{}

// New constructs the text renderer.
func New() *Renderer {
	return &Renderer{}
}

// Name identifies the renderer inside a registry.
func (r *Renderer) Name() string { return Name }

// ContentType returns the MIME type of rendered output.
func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render flattens the view into plain text. Tags are stripped and entities
// decoded, so escaped template values round-trip to their original form.
func (r *Renderer) Render(_ context.Context, view render.View, options render.Options) ([]byte, error) {
	var b strings.Builder
	b.WriteString(view.Title(options.Locale))

	if body := stripTags(view.Fragment.String()); body != "" {
		b.WriteString(": ")
		b.WriteString(body)
	}
	if view.Display.Description != "" {
		b.WriteString("\n")
		b.WriteString(view.Display.Description)
	}
	if view.Display.WikiPage != "" {
		b.WriteString("\n")
		b.WriteString(view.Display.WikiPage)
	}
	b.WriteString("\n")
	return []byte(b.String()), nil
}

func stripTags(markup string) string {
	var b strings.Builder
	inTag := false
	for _, r := range markup {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(html.UnescapeString(b.String()))
}
