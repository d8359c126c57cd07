package metadata

import (
	"fmt"
	"sort"
	"strings"
)

// DefaultAttr is the attribute consulted when a placeholder names an
// annotation without an attribute, mirroring the conventional value() call.
const DefaultAttr = "value"

// Annotation is a named bag of string attributes declared on a type. Names
// may be simple ("Icon") or qualified ("acme.Icon"); placeholder references
// match either form case-insensitively.
type Annotation struct {
	// Name identifies the annotation. Qualified names use dots.
	Name string
	// Attrs holds the declared attribute values keyed by attribute name.
	Attrs map[string]string
	// Safe lists attributes whose values are pre-sanitized and must be
	// embedded verbatim, skipping output escaping.
	Safe []string
	// Inherited marks the annotation as visible on subtypes during lookup.
	Inherited bool
}

// Simple returns the last segment of the annotation name.
func (a Annotation) Simple() string {
	if idx := strings.LastIndex(a.Name, "."); idx >= 0 {
		return a.Name[idx+1:]
	}
	return a.Name
}

// Matches reports whether ref names this annotation. The reference may be
// the full qualified name or the simple name; comparison ignores case.
func (a Annotation) Matches(ref string) bool {
	if ref == "" {
		return false
	}
	if strings.EqualFold(a.Name, ref) {
		return true
	}
	return strings.EqualFold(a.Simple(), ref)
}

// Attr returns the named attribute value. An empty attribute name reads the
// conventional default attribute. Lookup ignores case.
func (a Annotation) Attr(name string) (string, bool) {
	if name == "" {
		name = DefaultAttr
	}
	if value, ok := a.Attrs[name]; ok {
		return value, true
	}
	for key, value := range a.Attrs {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return "", false
}

// IsSafe reports whether the named attribute was marked pre-sanitized. An
// empty name checks the default attribute.
func (a Annotation) IsSafe(name string) bool {
	if name == "" {
		name = DefaultAttr
	}
	for _, safe := range a.Safe {
		if strings.EqualFold(safe, name) {
			return true
		}
	}
	return false
}

func (a Annotation) validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return fmt.Errorf("metadata: annotation name is required")
	}
	for _, safe := range a.Safe {
		if _, ok := a.Attr(safe); !ok {
			return fmt.Errorf("metadata: annotation %q marks unknown attribute %q safe", a.Name, safe)
		}
	}
	return nil
}

// clone copies the annotation so registry internals never alias caller maps.
func (a Annotation) clone() Annotation {
	out := Annotation{Name: a.Name, Inherited: a.Inherited}
	if len(a.Attrs) > 0 {
		out.Attrs = make(map[string]string, len(a.Attrs))
		for key, value := range a.Attrs {
			out.Attrs[key] = value
		}
	}
	if len(a.Safe) > 0 {
		out.Safe = append([]string(nil), a.Safe...)
	}
	return out
}

// AttrNames returns the sorted attribute names, useful for diagnostics.
func (a Annotation) AttrNames() []string {
	names := make([]string, 0, len(a.Attrs))
	for name := range a.Attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
