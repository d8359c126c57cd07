package metadata

import (
	"fmt"
	"reflect"
	"strings"
)

// TypeSpec declares a type and its metadata for registration. It replaces
// the annotation scan of reflective platforms with an explicit description.
type TypeSpec struct {
	// Name identifies the type inside the registry. Required.
	Name string
	// Value optionally binds a Go type; pass an instance or zero value so
	// the registry can resolve descriptors from live objects.
	Value any
	// Extends lists supertype names ordered from closest parent outward.
	Extends []string
	// Annotations are the directly declared annotations, in order.
	Annotations []Annotation
	// Provider optionally supplies instance-level placeholder data.
	Provider Provider
	// ProviderInherited makes the provider binding visible to subtypes.
	ProviderInherited bool
}

// Builder accumulates type declarations and produces an immutable Registry.
// Registration is not thread safe; Build must complete before the registry
// is shared. A failed Build never yields a partially populated registry.
type Builder struct {
	specs []TypeSpec
	errs  []error
}

// NewBuilder returns an empty registry builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Register queues a type declaration. Validation errors are collected and
// reported by Build so call sites can chain registrations.
func (b *Builder) Register(spec TypeSpec) *Builder {
	if strings.TrimSpace(spec.Name) == "" {
		b.errs = append(b.errs, fmt.Errorf("metadata: type name is required"))
		return b
	}
	for _, ann := range spec.Annotations {
		if err := ann.validate(); err != nil {
			b.errs = append(b.errs, fmt.Errorf("metadata: type %q: %w", spec.Name, err))
		}
	}
	b.specs = append(b.specs, spec)
	return b
}

// Build validates the accumulated declarations, resolves supertype chains
// and returns the finished registry. The registry is immutable; concurrent
// readers need no locking.
func (b *Builder) Build() (*Registry, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}

	reg := &Registry{
		byName: make(map[string]*TypeDescriptor, len(b.specs)),
		byType: make(map[reflect.Type]*TypeDescriptor, len(b.specs)),
	}

	for _, spec := range b.specs {
		key := nameKey(spec.Name)
		if _, exists := reg.byName[key]; exists {
			return nil, fmt.Errorf("metadata: type %q registered twice", spec.Name)
		}
		desc := &TypeDescriptor{
			name:        spec.Name,
			provider:    spec.Provider,
			providerInh: spec.ProviderInherited,
		}
		for _, ann := range spec.Annotations {
			desc.annotations = append(desc.annotations, ann.clone())
		}
		if spec.Value != nil {
			desc.goType = derefType(reflect.TypeOf(spec.Value))
			if prior, dup := reg.byType[desc.goType]; dup {
				return nil, fmt.Errorf("metadata: go type %v bound to both %q and %q", desc.goType, prior.name, spec.Name)
			}
			reg.byType[desc.goType] = desc
		}
		reg.byName[key] = desc
		reg.names = append(reg.names, spec.Name)
	}

	parents := make(map[string][]string, len(b.specs))
	for _, spec := range b.specs {
		parents[nameKey(spec.Name)] = spec.Extends
	}

	for _, spec := range b.specs {
		desc := reg.byName[nameKey(spec.Name)]
		chain, err := reg.linearize(spec.Name, spec.Extends, parents, map[string]bool{nameKey(spec.Name): true})
		if err != nil {
			return nil, err
		}
		desc.chain = chain
	}

	return reg, nil
}

// Registry holds the immutable type descriptors. Build it once at startup
// and share it freely; resolution and rendering only ever read from it.
type Registry struct {
	byName map[string]*TypeDescriptor
	byType map[reflect.Type]*TypeDescriptor
	names  []string
}

// DescriptorByName looks a descriptor up by registered type name,
// ignoring case.
func (r *Registry) DescriptorByName(name string) (*TypeDescriptor, bool) {
	desc, ok := r.byName[nameKey(name)]
	return desc, ok
}

// DescriptorOf resolves the descriptor for a live instance via its Go type.
// Pointer indirection is unwrapped before lookup.
func (r *Registry) DescriptorOf(instance any) (*TypeDescriptor, bool) {
	if instance == nil {
		return nil, false
	}
	desc, ok := r.byType[derefType(reflect.TypeOf(instance))]
	return desc, ok
}

// Describe returns the registered descriptor for the instance, or a
// synthesized one for unregistered types. Synthesized descriptors carry no
// annotations; their supertype chain is derived from embedded struct fields
// that are themselves registered, so universal fallback rules and subtype
// templates still apply.
func (r *Registry) Describe(instance any) *TypeDescriptor {
	if desc, ok := r.DescriptorOf(instance); ok {
		return desc
	}
	goType := derefType(reflect.TypeOf(instance))
	desc := &TypeDescriptor{name: goTypeName(goType), goType: goType}
	if goType != nil && goType.Kind() == reflect.Struct {
		seen := map[*TypeDescriptor]bool{}
		desc.chain = r.embeddedChain(goType, nil, seen)
	}
	return desc
}

// Types returns the registered type names in registration order.
func (r *Registry) Types() []string {
	return append([]string(nil), r.names...)
}

// Len reports the number of registered types.
func (r *Registry) Len() int {
	return len(r.names)
}

// linearize flattens the declared parents into a single chain ordered from
// most-derived to most-general. The walk is breadth-first so direct parents
// always sit closer than grandparents; duplicates keep their first (closest)
// position. The chain index is the specificity distance used by resolvers.
func (r *Registry) linearize(owner string, extends []string, parents map[string][]string, visiting map[string]bool) ([]*TypeDescriptor, error) {
	var chain []*TypeDescriptor
	seen := map[string]bool{}
	queue := append([]string(nil), extends...)

	for len(queue) > 0 {
		var next []string
		for _, parent := range queue {
			key := nameKey(parent)
			if visiting[key] {
				return nil, fmt.Errorf("metadata: inheritance cycle through %q", parent)
			}
			if seen[key] {
				continue
			}
			desc, ok := r.byName[key]
			if !ok {
				return nil, fmt.Errorf("metadata: type %q extends unknown type %q", owner, parent)
			}
			seen[key] = true
			chain = append(chain, desc)
			next = append(next, parents[key]...)
		}
		queue = next
	}
	return chain, nil
}

func (r *Registry) embeddedChain(goType reflect.Type, chain []*TypeDescriptor, seen map[*TypeDescriptor]bool) []*TypeDescriptor {
	for i := 0; i < goType.NumField(); i++ {
		field := goType.Field(i)
		if !field.Anonymous {
			continue
		}
		fieldType := derefType(field.Type)
		if desc, ok := r.byType[fieldType]; ok {
			if !seen[desc] {
				seen[desc] = true
				chain = append(chain, desc)
				for _, super := range desc.chain {
					if !seen[super] {
						seen[super] = true
						chain = append(chain, super)
					}
				}
			}
			continue
		}
		if fieldType != nil && fieldType.Kind() == reflect.Struct {
			chain = r.embeddedChain(fieldType, chain, seen)
		}
	}
	return chain
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func equalTypeName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func derefType(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

func goTypeName(t reflect.Type) string {
	if t == nil {
		return ""
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
