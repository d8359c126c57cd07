// Package openapi derives metadata manifests from OpenAPI documents. Each
// component schema becomes a registered type: allOf references form the
// supertype chain, schema title and description seed the Meta annotation,
// and x-metaview extensions declare annotations and template rules. This
// lets services reuse their existing API description as the registration
// input instead of maintaining a separate manifest tree.
package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-metaview/pkg/manifest"
)

// Extension is the OpenAPI extension key read from schemas and the document
// root.
const Extension = "x-metaview"

const schemaRefPrefix = "#/components/schemas/"

// extension mirrors the x-metaview payload shape.
type extension struct {
	Meta        *manifest.MetaConfig        `json:"meta,omitempty"`
	Annotations []manifest.AnnotationConfig `json:"annotations,omitempty"`
	Templates   []manifest.RuleConfig       `json:"templates,omitempty"`
}

// LoadFile reads an OpenAPI document from disk and derives a manifest.
func LoadFile(ctx context.Context, path string) (*manifest.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("openapi: read document: %w", err)
	}
	return Load(ctx, data)
}

// Load parses OpenAPI payload bytes (JSON or YAML) and derives a manifest
// document. Template rules register per-type declarations first (sorted by
// schema name), then document-level declarations, so a document-level
// fallback rule keeps the lowest tie-break priority.
func Load(ctx context.Context, data []byte) (*manifest.Document, error) {
	if len(data) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}

	doc := &manifest.Document{Types: make(map[string]manifest.TypeConfig)}
	if spec.Components == nil || len(spec.Components.Schemas) == 0 {
		return doc, appendRootTemplates(doc, spec)
	}

	names := make([]string, 0, len(spec.Components.Schemas))
	for name := range spec.Components.Schemas {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := spec.Components.Schemas[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		cfg, templates, err := typeConfig(name, ref.Value)
		if err != nil {
			return nil, err
		}
		doc.Types[name] = cfg
		doc.Templates = append(doc.Templates, templates...)
	}

	return doc, appendRootTemplates(doc, spec)
}

func typeConfig(name string, schema *openapi3.Schema) (manifest.TypeConfig, []manifest.RuleConfig, error) {
	cfg := manifest.TypeConfig{Extends: parentRefs(schema)}

	ext, err := parseExtension(schema.Extensions)
	if err != nil {
		return cfg, nil, fmt.Errorf("openapi: schema %q: %w", name, err)
	}

	switch {
	case ext != nil && ext.Meta != nil:
		cfg.Meta = ext.Meta
	case schema.Title != "":
		cfg.Meta = &manifest.MetaConfig{
			Name:        schema.Title,
			Description: schema.Description,
		}
	}
	if ext != nil {
		cfg.Annotations = ext.Annotations
	}

	var templates []manifest.RuleConfig
	if ext != nil {
		for _, rule := range ext.Templates {
			// Type-scoped rules default to targeting the declaring schema.
			if rule.OfType == "" && rule.AnnotatedWith == "" {
				rule.OfType = name
			}
			templates = append(templates, rule)
		}
	}
	return cfg, templates, nil
}

func appendRootTemplates(doc *manifest.Document, spec *openapi3.T) error {
	ext, err := parseExtension(spec.Extensions)
	if err != nil {
		return fmt.Errorf("openapi: document root: %w", err)
	}
	if ext != nil {
		doc.Templates = append(doc.Templates, ext.Templates...)
	}
	return nil
}

// parentRefs extracts supertype names from allOf references into
// #/components/schemas, preserving declaration order.
func parentRefs(schema *openapi3.Schema) []string {
	var parents []string
	for _, ref := range schema.AllOf {
		if ref == nil {
			continue
		}
		if name, ok := strings.CutPrefix(ref.Ref, schemaRefPrefix); ok && name != "" {
			parents = append(parents, name)
		}
	}
	return parents
}

// parseExtension decodes the x-metaview payload via a JSON round-trip,
// since kin-openapi surfaces extensions as untyped maps.
func parseExtension(extensions map[string]any) (*extension, error) {
	raw, ok := extensions[Extension]
	if !ok || raw == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", Extension, err)
	}
	var ext extension
	if err := json.Unmarshal(encoded, &ext); err != nil {
		return nil, fmt.Errorf("decode %s: %w", Extension, err)
	}
	return &ext, nil
}
