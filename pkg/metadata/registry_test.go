package metadata

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type shapeBase struct{}

type circleValue struct {
	shapeBase
	Radius float64
}

func buildShapeRegistry(t *testing.T) *Registry {
	t.Helper()

	reg, err := NewBuilder().
		Register(TypeSpec{
			Name: "Shape",
			Annotations: []Annotation{
				{Name: "Meta", Attrs: map[string]string{"name": "Shape"}, Inherited: true},
				{Name: "Category", Attrs: map[string]string{"value": "geometry"}},
			},
		}).
		Register(TypeSpec{
			Name:    "Circle",
			Value:   circleValue{},
			Extends: []string{"Shape"},
			Annotations: []Annotation{
				{Name: "Icon", Attrs: map[string]string{"path": "circle.svg"}},
			},
		}).
		Build()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}
	return reg
}

func TestRegistry_LookupByNameAndInstance(t *testing.T) {
	reg := buildShapeRegistry(t)

	if _, ok := reg.DescriptorByName("circle"); !ok {
		t.Fatal("name lookup should ignore case")
	}
	if desc, ok := reg.DescriptorOf(&circleValue{}); !ok || desc.Name() != "Circle" {
		t.Fatalf("instance lookup failed, got %v (ok=%v)", desc, ok)
	}
}

func TestDescriptor_ChainAndDepth(t *testing.T) {
	reg := buildShapeRegistry(t)
	desc, _ := reg.DescriptorByName("Circle")

	if diff := cmp.Diff([]string{"Shape"}, desc.Chain()); diff != "" {
		t.Fatalf("chain mismatch (-want +got):\n%s", diff)
	}

	if depth, ok := desc.Depth("Circle"); !ok || depth != 0 {
		t.Fatalf("Depth(Circle) = %d (ok=%v), want 0", depth, ok)
	}
	if depth, ok := desc.Depth("shape"); !ok || depth != 1 {
		t.Fatalf("Depth(shape) = %d (ok=%v), want 1", depth, ok)
	}
	if _, ok := desc.Depth("Widget"); ok {
		t.Fatal("Depth should miss unrelated types")
	}
}

func TestDescriptor_DeclaredVersusInherited(t *testing.T) {
	reg := buildShapeRegistry(t)
	desc, _ := reg.DescriptorByName("Circle")

	if _, ok := desc.Declared("Meta"); ok {
		t.Fatal("Meta is declared on Shape, not Circle")
	}
	if ann, ok := desc.Lookup("Meta"); !ok {
		t.Fatal("inherited Meta should be visible through Lookup")
	} else if name, _ := ann.Attr("name"); name != "Shape" {
		t.Fatalf("inherited Meta name = %q, want Shape", name)
	}

	// Category is not marked inherited, so it stays invisible on Circle.
	if _, ok := desc.Lookup("Category"); ok {
		t.Fatal("non-inherited annotation leaked to subtype")
	}
	if _, ok := desc.Declared("icon"); !ok {
		t.Fatal("direct declaration lookup should ignore case")
	}
}

func TestBuilder_DeepChainIsBreadthFirst(t *testing.T) {
	reg, err := NewBuilder().
		Register(TypeSpec{Name: "A"}).
		Register(TypeSpec{Name: "B", Extends: []string{"A"}}).
		Register(TypeSpec{Name: "Mixin"}).
		Register(TypeSpec{Name: "C", Extends: []string{"B", "Mixin"}}).
		Build()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	desc, _ := reg.DescriptorByName("C")
	if diff := cmp.Diff([]string{"B", "Mixin", "A"}, desc.Chain()); diff != "" {
		t.Fatalf("chain mismatch (-want +got):\n%s", diff)
	}
	if depth, _ := desc.Depth("Mixin"); depth != 2 {
		t.Fatalf("Depth(Mixin) = %d, want 2", depth)
	}
}

func TestBuilder_Errors(t *testing.T) {
	cases := []struct {
		name    string
		specs   []TypeSpec
		wantErr string
	}{
		{
			name:    "duplicate type",
			specs:   []TypeSpec{{Name: "Shape"}, {Name: "shape"}},
			wantErr: "registered twice",
		},
		{
			name:    "unknown parent",
			specs:   []TypeSpec{{Name: "Circle", Extends: []string{"Shape"}}},
			wantErr: "unknown type",
		},
		{
			name: "cycle",
			specs: []TypeSpec{
				{Name: "A", Extends: []string{"B"}},
				{Name: "B", Extends: []string{"A"}},
			},
			wantErr: "cycle",
		},
		{
			name:    "empty name",
			specs:   []TypeSpec{{Name: "  "}},
			wantErr: "name is required",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			builder := NewBuilder()
			for _, spec := range tc.specs {
				builder.Register(spec)
			}
			_, err := builder.Build()
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("Build() error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestRegistry_DescribeSynthesizesFromEmbedding(t *testing.T) {
	reg, err := NewBuilder().
		Register(TypeSpec{
			Name:  "Base",
			Value: shapeBase{},
			Annotations: []Annotation{
				{Name: "Meta", Attrs: map[string]string{"name": "Base"}, Inherited: true},
			},
		}).
		Build()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	desc := reg.Describe(circleValue{})
	if desc.Name() != "circleValue" {
		t.Fatalf("synthesized name = %q", desc.Name())
	}
	if diff := cmp.Diff([]string{"Base"}, desc.Chain()); diff != "" {
		t.Fatalf("embedded chain mismatch (-want +got):\n%s", diff)
	}
	if _, ok := desc.Lookup("Meta"); !ok {
		t.Fatal("inherited Meta should flow through the embedded chain")
	}
}

func TestDescriptor_ProviderBinding(t *testing.T) {
	inherited := ProviderFunc(func(any) (map[string]any, error) {
		return map[string]any{"source": "parent"}, nil
	})
	private := ProviderFunc(func(any) (map[string]any, error) {
		return map[string]any{"source": "private"}, nil
	})

	reg, err := NewBuilder().
		Register(TypeSpec{Name: "Shared", Provider: inherited, ProviderInherited: true}).
		Register(TypeSpec{Name: "Hidden", Provider: private}).
		Register(TypeSpec{Name: "FromShared", Extends: []string{"Shared"}}).
		Register(TypeSpec{Name: "FromHidden", Extends: []string{"Hidden"}}).
		Build()
	if err != nil {
		t.Fatalf("build registry: %v", err)
	}

	desc, _ := reg.DescriptorByName("FromShared")
	provider, ok := desc.ProviderBinding()
	if !ok {
		t.Fatal("inherited provider binding missing")
	}
	data, _ := provider.Data(nil)
	if data["source"] != "parent" {
		t.Fatalf("provider data = %v", data)
	}

	desc, _ = reg.DescriptorByName("FromHidden")
	if _, ok := desc.ProviderBinding(); ok {
		t.Fatal("non-inherited provider leaked to subtype")
	}
}
