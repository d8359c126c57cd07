// Package metaview renders arbitrary Go values as display widgets driven by
// declarative metadata. Types declare annotations (a display name,
// description, icon, wiki link, or anything custom); template rules pick the
// best-matching display template per type; placeholder substitution fills
// the template from annotation attributes and instance-level provider data,
// escaping everything not explicitly marked safe.
package metaview

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-metaview/pkg/manifest"
	"github.com/goliatone/go-metaview/pkg/metadata"
	"github.com/goliatone/go-metaview/pkg/orchestrator"
	"github.com/goliatone/go-metaview/pkg/render"
	"github.com/goliatone/go-metaview/pkg/renderers/vanilla"
	"github.com/goliatone/go-metaview/pkg/rules"
)

// Annotation re-exports the metadata annotation type for convenience.
type Annotation = metadata.Annotation

// Meta declares the well-known display annotation.
type Meta = metadata.Meta

// TypeSpec declares a type for registration.
type TypeSpec = metadata.TypeSpec

// Provider supplies instance-level placeholder data.
type Provider = metadata.Provider

// Rule associates a display template with a matching target.
type Rule = rules.Rule

// Options carries per-call rendering knobs.
type Options = render.Options

// Request describes one render call.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module for quick starts.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// RenderHTML builds an orchestrator from the supplied options and renders
// the instance with the vanilla HTML renderer. It is the simplest entry
// point for callers that just want widget markup.
func RenderHTML(ctx context.Context, instance any, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Render(ctx, orchestrator.Request{Instance: instance, Renderer: vanilla.Name})
}

// LoadManifest walks a filesystem of YAML/JSON manifest documents and
// returns the merged declaration set.
func LoadManifest(fsys fs.FS) (*manifest.Document, error) {
	return manifest.LoadFS(fsys)
}

// EmbeddedTemplates exposes the built-in vanilla chrome templates so
// callers can reuse or extend them without importing the renderer package.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}
