package rules

import (
	"fmt"

	"github.com/goliatone/go-metaview/pkg/metadata"
	"github.com/goliatone/go-metaview/pkg/render"
)

// Registry holds template rules in registration order and resolves the
// single best match for a type. Like the metadata registry it is immutable
// after construction and safe for concurrent readers.
type Registry struct {
	rules []Rule
}

// New validates and compiles the supplied rules. Registration order is the
// argument order and doubles as the tie-break rank. Construction fails when
// a rule carries both targets, when a template does not parse, or when no
// universal fallback rule is present.
func New(ruleList ...Rule) (*Registry, error) {
	reg := &Registry{rules: make([]Rule, 0, len(ruleList))}
	fallback := false

	for idx, rule := range ruleList {
		if rule.OfType != "" && rule.AnnotatedWith != "" {
			return nil, fmt.Errorf("rules: rule %d sets both ofType %q and annotatedWith %q", idx, rule.OfType, rule.AnnotatedWith)
		}
		compiled, err := render.Parse(rule.Template)
		if err != nil {
			return nil, fmt.Errorf("rules: rule %d: %w", idx, err)
		}
		rule.index = idx
		rule.compiled = compiled
		if rule.Fallback() {
			fallback = true
		}
		reg.rules = append(reg.rules, rule)
	}

	if !fallback {
		return nil, fmt.Errorf("rules: a universal fallback rule is required")
	}
	return reg, nil
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Resolve selects the single rule applying to the described type:
//
//  1. Annotation-targeted rules whose annotation is directly declared on the
//     type beat every type-targeted rule; the earliest registered wins.
//  2. Otherwise the type-targeted rule whose target sits closest on the
//     supertype chain wins, ties again broken by registration order. The
//     universal fallback ranks behind every real chain match.
//
// The result is deterministic for a fixed registry and type.
func (r *Registry) Resolve(desc *metadata.TypeDescriptor) (Rule, error) {
	if desc == nil {
		return Rule{}, fmt.Errorf("rules: type descriptor is required")
	}

	for _, rule := range r.rules {
		if rule.AnnotatedWith == "" {
			continue
		}
		if _, ok := desc.Declared(rule.AnnotatedWith); ok {
			return rule, nil
		}
	}

	fallbackDepth := len(desc.Chain()) + 1
	best := -1
	bestDepth := 0
	for idx, rule := range r.rules {
		if rule.AnnotatedWith != "" {
			continue
		}
		depth := fallbackDepth
		if !rule.Fallback() {
			var ok bool
			depth, ok = desc.Depth(rule.OfType)
			if !ok {
				continue
			}
		}
		switch {
		case best == -1 || depth < bestDepth:
			best, bestDepth = idx, depth
		case depth == bestDepth && rule.index == r.rules[best].index:
			return Rule{}, fmt.Errorf("%w: rules %d and %d for type %q", ErrAmbiguous, best, idx, desc.Name())
		}
	}

	if best == -1 {
		return Rule{}, fmt.Errorf("%w: %q", ErrNoMatch, desc.Name())
	}
	return r.rules[best], nil
}

// Validate checks targeted rules against the metadata registry so that
// unresolvable placeholders surface at startup instead of render time.
// OfType rules are checked against their target type, AnnotatedWith rules
// against every registered type directly bearing the annotation. Types with
// a provider binding are skipped; their data is instance-bound and only
// known at render time.
func (r *Registry) Validate(types *metadata.Registry) error {
	if types == nil {
		return nil
	}
	for idx, rule := range r.rules {
		switch {
		case rule.OfType != "":
			desc, ok := types.DescriptorByName(rule.OfType)
			if !ok {
				continue
			}
			if err := checkPlaceholders(idx, rule, desc); err != nil {
				return err
			}
		case rule.AnnotatedWith != "":
			for _, name := range types.Types() {
				desc, ok := types.DescriptorByName(name)
				if !ok {
					continue
				}
				if _, declared := desc.Declared(rule.AnnotatedWith); !declared {
					continue
				}
				if err := checkPlaceholders(idx, rule, desc); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func checkPlaceholders(idx int, rule Rule, desc *metadata.TypeDescriptor) error {
	if _, bound := desc.ProviderBinding(); bound {
		return nil
	}
	for _, token := range rule.compiled.Placeholders() {
		if !render.Resolvable(token, desc) {
			return fmt.Errorf("rules: rule %d: placeholder {%s} cannot resolve against type %q", idx, token, desc.Name())
		}
	}
	return nil
}
