package metadata

// Provider supplies instance-level placeholder data that static annotations
// cannot express. The string-keyed contract is deliberate: templates address
// provider values by the same token syntax used for annotations.
type Provider interface {
	Data(instance any) (map[string]any, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(instance any) (map[string]any, error)

// Data implements Provider.
func (f ProviderFunc) Data(instance any) (map[string]any, error) {
	return f(instance)
}

// SelfProvider resolves the provider for an instance, preferring the
// descriptor's registered binding and falling back to the instance itself
// when it implements Provider. The second result is false when neither
// source applies.
func SelfProvider(desc *TypeDescriptor, instance any) (Provider, bool) {
	if desc != nil {
		if provider, ok := desc.ProviderBinding(); ok {
			return provider, true
		}
	}
	if provider, ok := instance.(Provider); ok {
		return provider, true
	}
	return nil, false
}
