package render

import (
	"context"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-metaview/pkg/metadata"
)

// View is the resolved input handed to renderers: the substituted template
// fragment plus the display metadata extracted from the type's Meta
// annotation.
type View struct {
	// TypeName is the registered name of the rendered type.
	TypeName string
	// Display carries the resolved Meta attributes (possibly zero).
	Display metadata.Display
	// Fragment is the substituted template markup.
	Fragment HTML
}

// Title picks the display name for the requested locale: the localized name
// when one is declared and a locale was asked for, the plain name otherwise,
// falling back to the type name.
func (v View) Title(locale string) string {
	if strings.TrimSpace(locale) != "" && v.Display.LocalizedName != "" {
		return v.Display.LocalizedName
	}
	if v.Display.Name != "" {
		return v.Display.Name
	}
	return v.TypeName
}

// Options carries per-call rendering knobs that do not affect resolution or
// substitution.
type Options struct {
	// Locale selects localized display names when available.
	Locale string
	// Theme supplies class tokens and CSS variables to HTML renderers.
	Theme *theme.RendererConfig
}

// Renderer turns a resolved view into output bytes (HTML, plain text, ...).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options Options) ([]byte, error)
}
