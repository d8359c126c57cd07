// Package manifest loads declarative metadata manifests: YAML or JSON
// documents declaring types, their annotations and the template rules that
// render them. Manifests replace the annotation scan of reflective
// platforms; Go values and providers are bound separately at registry
// construction time.
package manifest

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-metaview/pkg/metadata"
	"github.com/goliatone/go-metaview/pkg/rules"
)

// Document is the merged content of one or more manifest files.
type Document struct {
	Types     map[string]TypeConfig `json:"types" yaml:"types"`
	Templates []RuleConfig          `json:"templates" yaml:"templates"`
}

// TypeConfig declares one type.
type TypeConfig struct {
	Extends     []string           `json:"extends,omitempty" yaml:"extends,omitempty"`
	Annotations []AnnotationConfig `json:"annotations,omitempty" yaml:"annotations,omitempty"`
	// Meta is shorthand for the well-known Meta annotation.
	Meta *MetaConfig `json:"meta,omitempty" yaml:"meta,omitempty"`
}

// AnnotationConfig declares one annotation on a type.
type AnnotationConfig struct {
	Name      string            `json:"name" yaml:"name"`
	Attrs     map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Safe      []string          `json:"safe,omitempty" yaml:"safe,omitempty"`
	Inherited bool              `json:"inherited,omitempty" yaml:"inherited,omitempty"`
}

// MetaConfig declares the display metadata shorthand.
type MetaConfig struct {
	Name          string `json:"name,omitempty" yaml:"name,omitempty"`
	LocalizedName string `json:"localizedName,omitempty" yaml:"localizedName,omitempty"`
	Description   string `json:"description,omitempty" yaml:"description,omitempty"`
	Icon          string `json:"icon,omitempty" yaml:"icon,omitempty"`
	WikiPage      string `json:"wikiPage,omitempty" yaml:"wikiPage,omitempty"`
	Inherited     bool   `json:"inherited,omitempty" yaml:"inherited,omitempty"`
}

// RuleConfig declares one template rule. Registration order follows the
// order of appearance, which doubles as the resolver tie-break rank.
type RuleConfig struct {
	Template      string `json:"template" yaml:"template"`
	OfType        string `json:"ofType,omitempty" yaml:"ofType,omitempty"`
	AnnotatedWith string `json:"annotatedWith,omitempty" yaml:"annotatedWith,omitempty"`
}

// TypeSpecs converts the declared types into registration specs, sorted by
// type name for deterministic registry construction. Go values and
// providers are not expressible in a manifest; bind them via
// metadata.TypeSpec overrides before building the registry.
func (d *Document) TypeSpecs() ([]metadata.TypeSpec, error) {
	names := make([]string, 0, len(d.Types))
	for name := range d.Types {
		names = append(names, name)
	}
	sort.Strings(names)

	specs := make([]metadata.TypeSpec, 0, len(names))
	for _, name := range names {
		cfg := d.Types[name]
		spec := metadata.TypeSpec{
			Name:    name,
			Extends: append([]string(nil), cfg.Extends...),
		}
		if cfg.Meta != nil {
			spec.Annotations = append(spec.Annotations, metadata.Meta{
				Name:          cfg.Meta.Name,
				LocalizedName: cfg.Meta.LocalizedName,
				Description:   cfg.Meta.Description,
				Icon:          cfg.Meta.Icon,
				WikiPage:      cfg.Meta.WikiPage,
				Inherited:     cfg.Meta.Inherited,
			}.Annotation())
		}
		for _, ann := range cfg.Annotations {
			if strings.TrimSpace(ann.Name) == "" {
				return nil, fmt.Errorf("manifest: type %q declares an annotation without a name", name)
			}
			spec.Annotations = append(spec.Annotations, metadata.Annotation{
				Name:      ann.Name,
				Attrs:     sanitizeSafeAttrs(ann),
				Safe:      ann.Safe,
				Inherited: ann.Inherited,
			})
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// sanitizeSafeAttrs scrubs safe-marked attribute values with the inline
// markup policy. Manifest files are external input; a value a file marks
// safe still only embeds inline formatting verbatim.
func sanitizeSafeAttrs(ann AnnotationConfig) map[string]string {
	if len(ann.Safe) == 0 || len(ann.Attrs) == 0 {
		return ann.Attrs
	}
	safe := make(map[string]bool, len(ann.Safe))
	for _, name := range ann.Safe {
		safe[strings.ToLower(name)] = true
	}
	attrs := make(map[string]string, len(ann.Attrs))
	for key, value := range ann.Attrs {
		if safe[strings.ToLower(key)] {
			value = metadata.SanitizeInline(value)
		}
		attrs[key] = value
	}
	return attrs
}

// Rules converts the declared templates into resolver rules, preserving
// declaration order.
func (d *Document) Rules() []rules.Rule {
	out := make([]rules.Rule, 0, len(d.Templates))
	for _, cfg := range d.Templates {
		out = append(out, rules.Rule{
			Template:      cfg.Template,
			OfType:        cfg.OfType,
			AnnotatedWith: cfg.AnnotatedWith,
		})
	}
	return out
}

// Empty reports whether the document declares anything at all.
func (d *Document) Empty() bool {
	return d == nil || (len(d.Types) == 0 && len(d.Templates) == 0)
}
