// Package orchestrator wires manifests, registries and renderers into a
// single render entry point. It applies sensible defaults (bundled
// renderers, empty-fragment fallback rule) while remaining open to
// dependency injection for advanced callers.
package orchestrator

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-metaview/pkg/manifest"
	"github.com/goliatone/go-metaview/pkg/metadata"
	"github.com/goliatone/go-metaview/pkg/render"
	"github.com/goliatone/go-metaview/pkg/renderers/text"
	"github.com/goliatone/go-metaview/pkg/renderers/vanilla"
	"github.com/goliatone/go-metaview/pkg/rules"
)

const defaultRendererName = vanilla.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithManifestFS supplies a filesystem of manifest documents to load during
// initialisation.
func WithManifestFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.manifestFS = fsys
	}
}

// WithManifest injects an already-loaded manifest document.
func WithManifest(doc *manifest.Document) Option {
	return func(o *Orchestrator) {
		o.manifestDoc = doc
	}
}

// WithTypes injects a pre-built metadata registry, bypassing manifest
// loading entirely.
func WithTypes(reg *metadata.Registry) Option {
	return func(o *Orchestrator) {
		o.types = reg
	}
}

// WithTypeSpecs registers additional type declarations, typically to bind
// Go values and providers to manifest-declared types. Specs matching a
// manifest type by name merge into it; unknown names register new types.
func WithTypeSpecs(specs ...metadata.TypeSpec) Option {
	return func(o *Orchestrator) {
		o.typeSpecs = append(o.typeSpecs, specs...)
	}
}

// WithRules injects a pre-built rule registry.
func WithRules(reg *rules.Registry) Option {
	return func(o *Orchestrator) {
		o.ruleReg = reg
	}
}

// WithRuleList appends template rules after any manifest-declared ones.
func WithRuleList(list ...rules.Rule) Option {
	return func(o *Orchestrator) {
		o.ruleList = append(o.ruleList, list...)
	}
}

// WithRendererRegistry injects a renderer registry.
func WithRendererRegistry(reg *render.Registry) Option {
	return func(o *Orchestrator) {
		o.renderers = reg
	}
}

// WithRenderer registers an extra renderer alongside the bundled ones.
func WithRenderer(renderer render.Renderer) Option {
	return func(o *Orchestrator) {
		o.extraRenderers = append(o.extraRenderers, renderer)
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// Request describes one render call.
type Request struct {
	// Instance is the object to render.
	Instance any
	// Renderer selects a registered renderer; empty uses the default.
	Renderer string
	// Options carries locale and theme knobs through to the renderer.
	Options render.Options
}

// Orchestrator coordinates the pipeline from instance to rendered widget
// markup. Construction is atomic: either every registry builds and
// validates, or every Render call reports the initialisation error. Once
// built, the orchestrator is read-only and safe for concurrent use.
type Orchestrator struct {
	manifestFS      fs.FS
	manifestDoc     *manifest.Document
	typeSpecs       []metadata.TypeSpec
	types           *metadata.Registry
	ruleList        []rules.Rule
	ruleReg         *rules.Registry
	renderers       *render.Registry
	extraRenderers  []render.Renderer
	defaultRenderer string
	initErr         error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with built-in implementations so callers can
// start from a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{defaultRenderer: defaultRendererName}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.initErr = o.initialize()
	return o
}

// Render resolves the template rule for the instance, substitutes its
// placeholders and hands the resulting view to the selected renderer.
func (o *Orchestrator) Render(ctx context.Context, req Request) ([]byte, error) {
	if o.initErr != nil {
		return nil, fmt.Errorf("orchestrator: initialise: %w", o.initErr)
	}
	if req.Instance == nil {
		return nil, fmt.Errorf("orchestrator: instance is required")
	}
	return o.renderDescriptor(ctx, o.types.Describe(req.Instance), req, nil)
}

func (o *Orchestrator) renderDescriptor(ctx context.Context, desc *metadata.TypeDescriptor, req Request, override metadata.Provider) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rule, err := o.ruleReg.Resolve(desc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: resolve template for %q: %w", desc.Name(), err)
	}

	var fragment render.HTML
	if override != nil {
		fragment, err = render.SubstituteWith(rule.Compiled(), desc, override)
	} else {
		fragment, err = render.Substitute(rule.Compiled(), desc, req.Instance)
	}
	if err != nil {
		return nil, fmt.Errorf("orchestrator: substitute template for %q: %w", desc.Name(), err)
	}

	name := strings.TrimSpace(req.Renderer)
	if name == "" {
		name = o.defaultRenderer
	}
	renderer, err := o.renderers.Get(name)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: %w", err)
	}

	view := render.View{
		TypeName: desc.Name(),
		Display:  metadata.DisplayOf(desc),
		Fragment: fragment,
	}
	return renderer.Render(ctx, view, req.Options)
}

// Preview renders a registered type by name without a live instance.
// The data map stands in for provider-supplied values and takes precedence
// over any registered provider binding, which would otherwise be handed a
// nil instance it cannot serve.
func (o *Orchestrator) Preview(ctx context.Context, typeName string, data map[string]any, req Request) ([]byte, error) {
	if o.initErr != nil {
		return nil, fmt.Errorf("orchestrator: initialise: %w", o.initErr)
	}
	desc, ok := o.types.DescriptorByName(typeName)
	if !ok {
		return nil, fmt.Errorf("orchestrator: type %q not registered", typeName)
	}
	override := metadata.ProviderFunc(func(any) (map[string]any, error) {
		return data, nil
	})
	return o.renderDescriptor(ctx, desc, req, override)
}

// Types exposes the metadata registry, useful for CLIs and diagnostics.
func (o *Orchestrator) Types() *metadata.Registry { return o.types }

// Rules exposes the rule registry.
func (o *Orchestrator) Rules() *rules.Registry { return o.ruleReg }

// Renderers exposes the renderer registry.
func (o *Orchestrator) Renderers() *render.Registry { return o.renderers }

// Err reports the initialisation error, if any.
func (o *Orchestrator) Err() error { return o.initErr }

func (o *Orchestrator) initialize() error {
	doc := o.manifestDoc
	if doc == nil && o.manifestFS != nil {
		loaded, err := manifest.LoadFS(o.manifestFS)
		if err != nil {
			return err
		}
		doc = loaded
	}

	if o.types == nil {
		specs, err := manifestSpecs(doc)
		if err != nil {
			return err
		}
		merged := mergeSpecs(specs, o.typeSpecs)

		builder := metadata.NewBuilder()
		for _, spec := range merged {
			builder.Register(spec)
		}
		reg, err := builder.Build()
		if err != nil {
			return err
		}
		o.types = reg
	}

	if o.ruleReg == nil {
		var list []rules.Rule
		if doc != nil {
			list = append(list, doc.Rules()...)
		}
		list = append(list, o.ruleList...)
		if !hasFallback(list) {
			// Empty fragment; renderers still show the Meta display data.
			list = append(list, rules.Rule{Template: ""})
		}
		reg, err := rules.New(list...)
		if err != nil {
			return err
		}
		if err := reg.Validate(o.types); err != nil {
			return err
		}
		o.ruleReg = reg
	}

	if o.renderers == nil {
		o.renderers = render.NewRegistry()
		html, err := vanilla.New()
		if err != nil {
			return err
		}
		if err := o.renderers.Register(html); err != nil {
			return err
		}
		if err := o.renderers.Register(text.New()); err != nil {
			return err
		}
	}
	for _, renderer := range o.extraRenderers {
		if err := o.renderers.Register(renderer); err != nil {
			return err
		}
	}

	if !o.renderers.Has(o.defaultRenderer) {
		return fmt.Errorf("orchestrator: default renderer %q not registered", o.defaultRenderer)
	}
	return nil
}

func manifestSpecs(doc *manifest.Document) ([]metadata.TypeSpec, error) {
	if doc == nil {
		return nil, nil
	}
	return doc.TypeSpecs()
}

// mergeSpecs folds override specs into the manifest-derived ones: matching
// names contribute Go value bindings, providers and extra annotations;
// unknown names append as new registrations. An override carrying only
// ProviderInherited marks an already-merged binding as inherited; clearing
// the flag requires restating the provider.
func mergeSpecs(base []metadata.TypeSpec, overrides []metadata.TypeSpec) []metadata.TypeSpec {
	merged := append([]metadata.TypeSpec(nil), base...)
	index := make(map[string]int, len(merged))
	for i, spec := range merged {
		index[strings.ToLower(spec.Name)] = i
	}

	for _, override := range overrides {
		key := strings.ToLower(override.Name)
		at, ok := index[key]
		if !ok {
			index[key] = len(merged)
			merged = append(merged, override)
			continue
		}
		spec := merged[at]
		if override.Value != nil {
			spec.Value = override.Value
		}
		if override.Provider != nil {
			spec.Provider = override.Provider
			spec.ProviderInherited = override.ProviderInherited
		} else if override.ProviderInherited {
			spec.ProviderInherited = true
		}
		spec.Extends = append(spec.Extends, override.Extends...)
		spec.Annotations = append(spec.Annotations, override.Annotations...)
		merged[at] = spec
	}
	return merged
}

func hasFallback(list []rules.Rule) bool {
	for _, rule := range list {
		if rule.Fallback() {
			return true
		}
	}
	return false
}
