package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-metaview/pkg/render"
	rendertemplate "github.com/goliatone/go-metaview/pkg/render/template"
	"github.com/goliatone/go-metaview/pkg/render/template/gotemplate"
)

// Name is the registry identifier of the vanilla renderer.
const Name = "vanilla"

const (
	widgetTemplate   = "widget"
	defaultWikiLabel = "Learn more"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS fs.FS
	engine     rendertemplate.Engine
	wikiLabel  string
}

// WithTemplatesFS supplies an alternate chrome template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads chrome templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithEngine injects a custom template engine implementation.
func WithEngine(engine rendertemplate.Engine) Option {
	return func(cfg *config) {
		if engine != nil {
			cfg.engine = engine
		}
	}
}

// WithWikiLabel overrides the anchor text of the wiki page link.
func WithWikiLabel(label string) Option {
	return func(cfg *config) {
		if label != "" {
			cfg.wikiLabel = label
		}
	}
}

// Renderer wraps substituted fragments in HTML widget chrome: icon, title,
// description and wiki link sourced from the type's Meta annotation.
type Renderer struct {
	engine    rendertemplate.Engine
	wikiLabel string
}

// New constructs the vanilla renderer, defaulting to the embedded template
// bundle and the pongo2-backed engine.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), wikiLabel: defaultWikiLabel}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.engine == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".html.tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: create engine: %w", err)
		}
		cfg.engine = engine
	}

	return &Renderer{engine: cfg.engine, wikiLabel: cfg.wikiLabel}, nil
}

// Name identifies the renderer inside a registry.
func (r *Renderer) Name() string { return Name }

// ContentType returns the MIME type of rendered output.
func (r *Renderer) ContentType() string { return "text/html; charset=utf-8" }

// Render produces the widget markup for the resolved view.
func (r *Renderer) Render(_ context.Context, view render.View, options render.Options) ([]byte, error) {
	if r.engine == nil {
		return nil, fmt.Errorf("vanilla renderer: template engine is nil")
	}

	data := map[string]any{
		"title":       view.Title(options.Locale),
		"description": view.Display.Description,
		"icon":        view.Display.Icon,
		"wiki":        view.Display.WikiPage,
		"wiki_label":  r.wikiLabel,
		"fragment":    view.Fragment.String(),
		"classes":     chromeClasses(options.Theme),
		"theme_style": cssVarsStyle(options.Theme),
	}

	rendered, err := r.engine.Render(widgetTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render chrome: %w", err)
	}
	return []byte(rendered), nil
}
