// Package template defines the engine seam HTML renderers use for widget
// chrome, mirroring the github.com/goliatone/go-template engine contract so
// either the bundled pongo2 adapter or a go-template instance can back it.
package template

import "io"

// Engine renders named or inline chrome templates. Implementations must be
// safe for concurrent use once constructed.
type Engine interface {
	// Render executes a named template from the engine's template set.
	Render(name string, data map[string]any, out ...io.Writer) (string, error)
	// RenderString executes inline template content.
	RenderString(content string, data map[string]any, out ...io.Writer) (string, error)
	// RegisterFilter adds a custom filter usable from templates.
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	// GlobalContext seeds values available to every template.
	GlobalContext(data map[string]any) error
}
