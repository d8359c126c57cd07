package metadata

import "reflect"

// TypeDescriptor captures everything the resolver and substitution passes
// need to know about a registered type: its directly declared annotations and
// its linearized supertype chain. Descriptors are built once by Builder.Build
// and are immutable afterwards, so they are safe for concurrent readers.
type TypeDescriptor struct {
	name        string
	goType      reflect.Type
	annotations []Annotation
	chain       []*TypeDescriptor
	provider    Provider
	providerInh bool
}

// Name returns the registered type name.
func (d *TypeDescriptor) Name() string { return d.name }

// GoType returns the Go type bound at registration, or nil when the type was
// declared by name only (manifest-driven registration).
func (d *TypeDescriptor) GoType() reflect.Type { return d.goType }

// Annotations returns the directly declared annotations in declaration order.
func (d *TypeDescriptor) Annotations() []Annotation {
	return append([]Annotation(nil), d.annotations...)
}

// Chain returns the supertype names ordered from most-derived to
// most-general, excluding the type itself.
func (d *TypeDescriptor) Chain() []string {
	out := make([]string, 0, len(d.chain))
	for _, super := range d.chain {
		out = append(out, super.name)
	}
	return out
}

// Declared returns the first directly declared annotation matching ref.
// Inherited annotations are not consulted; AnnotatedWith rule matching is
// defined over direct declarations only.
func (d *TypeDescriptor) Declared(ref string) (Annotation, bool) {
	for _, ann := range d.annotations {
		if ann.Matches(ref) {
			return ann, true
		}
	}
	return Annotation{}, false
}

// Lookup resolves ref against the directly declared annotations first, then
// walks the supertype chain considering only annotations marked Inherited.
func (d *TypeDescriptor) Lookup(ref string) (Annotation, bool) {
	if ann, ok := d.Declared(ref); ok {
		return ann, true
	}
	for _, super := range d.chain {
		for _, ann := range super.annotations {
			if ann.Inherited && ann.Matches(ref) {
				return ann, true
			}
		}
	}
	return Annotation{}, false
}

// Depth returns the number of steps from the exact type to the named
// supertype: 0 for the type itself, 1 for its immediate parent and so on.
// The second result is false when the name is not on the chain.
func (d *TypeDescriptor) Depth(typeName string) (int, bool) {
	if equalTypeName(d.name, typeName) {
		return 0, true
	}
	for idx, super := range d.chain {
		if equalTypeName(super.name, typeName) {
			return idx + 1, true
		}
	}
	return 0, false
}

// ProviderBinding returns the provider serving this type: its own binding
// when present, otherwise the nearest inherited binding on the chain.
func (d *TypeDescriptor) ProviderBinding() (Provider, bool) {
	if d.provider != nil {
		return d.provider, true
	}
	for _, super := range d.chain {
		if super.provider != nil && super.providerInh {
			return super.provider, true
		}
	}
	return nil, false
}
