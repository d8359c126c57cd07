package rules

import (
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-metaview/pkg/metadata"
)

func shapeWorld(t *testing.T) *metadata.Registry {
	t.Helper()

	reg, err := metadata.NewBuilder().
		Register(metadata.TypeSpec{Name: "Shape"}).
		Register(metadata.TypeSpec{
			Name:    "Circle",
			Extends: []string{"Shape"},
			Annotations: []metadata.Annotation{
				{Name: "Icon", Attrs: map[string]string{"path": "circle.svg"}},
			},
		}).
		Register(metadata.TypeSpec{Name: "Plain", Extends: []string{"Shape"}}).
		Register(metadata.TypeSpec{Name: "Widget"}).
		Build()
	if err != nil {
		t.Fatalf("build metadata registry: %v", err)
	}
	return reg
}

func TestResolve_SpecificityOrder(t *testing.T) {
	types := shapeWorld(t)
	reg, err := New(
		Rule{Template: "fallback"},
		Rule{Template: "shape", OfType: "Shape"},
		Rule{Template: "icon", AnnotatedWith: "Icon"},
	)
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}

	cases := []struct {
		typeName string
		expect   string
	}{
		// Annotation target beats the closer ofType match despite
		// registering last.
		{"Circle", "icon"},
		{"Plain", "shape"},
		{"Widget", "fallback"},
	}

	for _, tc := range cases {
		desc, _ := types.DescriptorByName(tc.typeName)
		rule, err := reg.Resolve(desc)
		if err != nil {
			t.Fatalf("resolve %s: %v", tc.typeName, err)
		}
		if rule.Template != tc.expect {
			t.Fatalf("resolve %s = %q, want %q", tc.typeName, rule.Template, tc.expect)
		}
	}
}

func TestResolve_ClosestOfTypeWins(t *testing.T) {
	types, err := metadata.NewBuilder().
		Register(metadata.TypeSpec{Name: "A"}).
		Register(metadata.TypeSpec{Name: "B", Extends: []string{"A"}}).
		Register(metadata.TypeSpec{Name: "C", Extends: []string{"B"}}).
		Build()
	if err != nil {
		t.Fatalf("build metadata registry: %v", err)
	}

	reg, err := New(
		Rule{Template: "far", OfType: "A"},
		Rule{Template: "near", OfType: "B"},
		Rule{Template: "fallback"},
	)
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}

	desc, _ := types.DescriptorByName("C")
	rule, err := reg.Resolve(desc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rule.Template != "near" {
		t.Fatalf("closest ancestor should win, got %q", rule.Template)
	}
}

func TestResolve_TiesGoToEarliestRegistered(t *testing.T) {
	types := shapeWorld(t)

	reg, err := New(
		Rule{Template: "first", OfType: "Shape"},
		Rule{Template: "second", OfType: "Shape"},
		Rule{Template: "fallback"},
	)
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}

	desc, _ := types.DescriptorByName("Plain")
	rule, err := reg.Resolve(desc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rule.Template != "first" {
		t.Fatalf("earliest registration should break ties, got %q", rule.Template)
	}

	// Annotation-targeted ties resolve the same way.
	reg, err = New(
		Rule{Template: "anno-first", AnnotatedWith: "Icon"},
		Rule{Template: "anno-second", AnnotatedWith: "Icon"},
		Rule{Template: "fallback"},
	)
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}
	desc, _ = types.DescriptorByName("Circle")
	rule, err = reg.Resolve(desc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rule.Template != "anno-first" {
		t.Fatalf("earliest annotation rule should win, got %q", rule.Template)
	}
}

func TestResolve_AnnotationTargetIgnoresInheritedDeclarations(t *testing.T) {
	types, err := metadata.NewBuilder().
		Register(metadata.TypeSpec{
			Name: "Parent",
			Annotations: []metadata.Annotation{
				{Name: "Icon", Attrs: map[string]string{"path": "p.svg"}, Inherited: true},
			},
		}).
		Register(metadata.TypeSpec{Name: "Child", Extends: []string{"Parent"}}).
		Build()
	if err != nil {
		t.Fatalf("build metadata registry: %v", err)
	}

	reg, err := New(
		Rule{Template: "icon", AnnotatedWith: "Icon"},
		Rule{Template: "fallback"},
	)
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}

	desc, _ := types.DescriptorByName("Child")
	rule, err := reg.Resolve(desc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if rule.Template != "fallback" {
		t.Fatalf("annotatedWith must not match inherited annotations, got %q", rule.Template)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	types := shapeWorld(t)
	reg, err := New(
		Rule{Template: "fallback"},
		Rule{Template: "shape", OfType: "Shape"},
	)
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}

	desc, _ := types.DescriptorByName("Circle")
	first, err := reg.Resolve(desc)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := reg.Resolve(desc)
		if err != nil {
			t.Fatalf("resolve iteration %d: %v", i, err)
		}
		if again.Index() != first.Index() {
			t.Fatalf("resolution flapped: %d then %d", first.Index(), again.Index())
		}
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Rule{Template: "x", OfType: "A", AnnotatedWith: "B"}, Rule{Template: ""}); err == nil {
		t.Fatal("expected error for rule with both targets")
	}
	if _, err := New(Rule{Template: "x", OfType: "A"}); err == nil {
		t.Fatal("expected error for missing fallback")
	}
	if _, err := New(Rule{Template: "{unclosed"}); err == nil {
		t.Fatal("expected error for malformed template")
	}
}

func TestResolve_NoMatchWithoutCandidates(t *testing.T) {
	types := shapeWorld(t)

	// Hand-assemble a registry bypassing the fallback requirement to
	// exercise the error path.
	reg := &Registry{rules: []Rule{{Template: "shape", OfType: "Missing"}}}

	desc, _ := types.DescriptorByName("Widget")
	_, err := reg.Resolve(desc)
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("expected ErrNoMatch, got %v", err)
	}
}

func TestValidate_CatchesUnresolvablePlaceholders(t *testing.T) {
	types := shapeWorld(t)

	reg, err := New(
		Rule{Template: "{Icon.path}", OfType: "Circle"},
		Rule{Template: ""},
	)
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}
	if err := reg.Validate(types); err != nil {
		t.Fatalf("resolvable template flagged: %v", err)
	}

	reg, err = New(
		Rule{Template: "{Missing.attr}", OfType: "Circle"},
		Rule{Template: ""},
	)
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}
	err = reg.Validate(types)
	if err == nil || !strings.Contains(err.Error(), "cannot resolve") {
		t.Fatalf("expected unresolvable placeholder error, got %v", err)
	}

	// Types with a provider binding defer validation to render time.
	bound, err := metadata.NewBuilder().
		Register(metadata.TypeSpec{
			Name: "Circle",
			Provider: metadata.ProviderFunc(func(any) (map[string]any, error) {
				return nil, nil
			}),
		}).
		Build()
	if err != nil {
		t.Fatalf("build metadata registry: %v", err)
	}
	if err := reg.Validate(bound); err != nil {
		t.Fatalf("provider-bound type should skip validation, got %v", err)
	}
}

func TestValidate_ChecksAnnotationTargetedRules(t *testing.T) {
	types := shapeWorld(t)

	reg, err := New(
		Rule{Template: "{Icon.path}", AnnotatedWith: "Icon"},
		Rule{Template: ""},
	)
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}
	if err := reg.Validate(types); err != nil {
		t.Fatalf("resolvable template flagged: %v", err)
	}

	// Circle bears Icon but has no "width" attribute anywhere.
	reg, err = New(
		Rule{Template: "{Icon.width}", AnnotatedWith: "Icon"},
		Rule{Template: ""},
	)
	if err != nil {
		t.Fatalf("build rules: %v", err)
	}
	err = reg.Validate(types)
	if err == nil || !strings.Contains(err.Error(), `"Circle"`) {
		t.Fatalf("expected unresolvable placeholder error naming Circle, got %v", err)
	}

	// Provider-bound bearers are deferred like their ofType counterparts.
	bound, err := metadata.NewBuilder().
		Register(metadata.TypeSpec{
			Name: "Badge",
			Annotations: []metadata.Annotation{
				{Name: "Icon", Attrs: map[string]string{"path": "badge.svg"}},
			},
			Provider: metadata.ProviderFunc(func(any) (map[string]any, error) {
				return nil, nil
			}),
		}).
		Build()
	if err != nil {
		t.Fatalf("build metadata registry: %v", err)
	}
	if err := reg.Validate(bound); err != nil {
		t.Fatalf("provider-bound bearer should skip validation, got %v", err)
	}
}
