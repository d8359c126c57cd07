package manifest

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-metaview/pkg/metadata"
	"github.com/goliatone/go-metaview/pkg/rules"
)

const shapesYAML = `
types:
  Shape:
    meta:
      name: Shape
      inherited: true
  Circle:
    extends: [Shape]
    meta:
      name: Circle
      description: A round shape
    annotations:
      - name: Icon
        attrs:
          path: circle.svg
templates:
  - template: '<img src="{Icon.path}">'
    annotatedWith: Icon
  - template: '{Meta.name}'
    ofType: Shape
  - template: ''
`

func TestLoadFS_YAML(t *testing.T) {
	fsys := fstest.MapFS{
		"shapes.yaml": &fstest.MapFile{Data: []byte(shapesYAML)},
	}

	doc, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(doc.Types) != 2 || len(doc.Templates) != 3 {
		t.Fatalf("document shape: %d types, %d templates", len(doc.Types), len(doc.Templates))
	}

	circle := doc.Types["Circle"]
	if circle.Meta == nil || circle.Meta.Description != "A round shape" {
		t.Fatalf("circle meta = %+v", circle.Meta)
	}
	if len(circle.Annotations) != 1 || circle.Annotations[0].Attrs["path"] != "circle.svg" {
		t.Fatalf("circle annotations = %+v", circle.Annotations)
	}

	want := []rules.Rule{
		{Template: `<img src="{Icon.path}">`, AnnotatedWith: "Icon"},
		{Template: `{Meta.name}`, OfType: "Shape"},
		{Template: ""},
	}
	if diff := cmp.Diff(want, doc.Rules(), cmp.AllowUnexported(rules.Rule{})); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFS_JSON(t *testing.T) {
	fsys := fstest.MapFS{
		"shapes.json": &fstest.MapFile{Data: []byte(`{
			"types": {"Widget": {"meta": {"name": "Widget"}}},
			"templates": [{"template": ""}]
		}`)},
	}

	doc, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := doc.Types["Widget"]; !ok {
		t.Fatalf("widget type missing: %+v", doc.Types)
	}
}

func TestLoadFS_MergesFilesAndRejectsDuplicates(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml":      &fstest.MapFile{Data: []byte("types:\n  Shape: {}\n")},
		"b.yaml":      &fstest.MapFile{Data: []byte("types:\n  Widget: {}\n")},
		"ignored.txt": &fstest.MapFile{Data: []byte("not a manifest")},
	}
	doc, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(doc.Types) != 2 {
		t.Fatalf("merged types = %v", doc.Types)
	}

	fsys["b.yaml"] = &fstest.MapFile{Data: []byte("types:\n  Shape: {}\n")}
	_, err = LoadFS(fsys)
	if err == nil || !strings.Contains(err.Error(), "duplicate type") {
		t.Fatalf("expected duplicate type error, got %v", err)
	}
}

func TestLoadFS_Errors(t *testing.T) {
	_, err := LoadFS(fstest.MapFS{
		"empty.yaml": &fstest.MapFile{Data: []byte("   \n")},
	})
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty-file error, got %v", err)
	}

	_, err = LoadFS(fstest.MapFS{
		"broken.json": &fstest.MapFile{Data: []byte(`{"types": `)},
	})
	if err == nil || !strings.Contains(err.Error(), "parse") {
		t.Fatalf("expected parse error, got %v", err)
	}

	doc, err := LoadFS(nil)
	if err != nil {
		t.Fatalf("nil fs: %v", err)
	}
	if !doc.Empty() {
		t.Fatalf("nil fs should load an empty document: %+v", doc)
	}
}

func TestDocument_TypeSpecs(t *testing.T) {
	fsys := fstest.MapFS{
		"shapes.yaml": &fstest.MapFile{Data: []byte(shapesYAML)},
	}
	doc, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	specs, err := doc.TypeSpecs()
	if err != nil {
		t.Fatalf("specs: %v", err)
	}
	if len(specs) != 2 || specs[0].Name != "Circle" || specs[1].Name != "Shape" {
		t.Fatalf("specs should sort by name: %+v", specs)
	}

	// Meta shorthand expands to a leading Meta annotation.
	circle := specs[0]
	if len(circle.Annotations) != 2 || circle.Annotations[0].Name != metadata.MetaName {
		t.Fatalf("circle annotations = %+v", circle.Annotations)
	}
	if circle.Annotations[1].Name != "Icon" {
		t.Fatalf("declared annotations should follow the shorthand: %+v", circle.Annotations)
	}

	shape := specs[1]
	if len(shape.Annotations) != 1 || !shape.Annotations[0].Inherited {
		t.Fatalf("shape meta should inherit: %+v", shape.Annotations)
	}
}

func TestDocument_TypeSpecsSanitizesSafeAttrs(t *testing.T) {
	doc := &Document{
		Types: map[string]TypeConfig{
			"Badge": {Annotations: []AnnotationConfig{{
				Name: "Label",
				Attrs: map[string]string{
					"value": `<em>done</em><script>alert(1)</script>`,
					"raw":   `<script>kept</script>`,
				},
				Safe: []string{"value"},
			}}},
		},
	}

	specs, err := doc.TypeSpecs()
	if err != nil {
		t.Fatalf("specs: %v", err)
	}
	attrs := specs[0].Annotations[0].Attrs
	if attrs["value"] != "<em>done</em>" {
		t.Fatalf("safe attr not scrubbed: %q", attrs["value"])
	}
	// Unsafe attrs are escaped at render time, not rewritten at load.
	if attrs["raw"] != `<script>kept</script>` {
		t.Fatalf("unsafe attr rewritten: %q", attrs["raw"])
	}
}

func TestDocument_TypeSpecsRejectsUnnamedAnnotation(t *testing.T) {
	doc := &Document{
		Types: map[string]TypeConfig{
			"Broken": {Annotations: []AnnotationConfig{{Attrs: map[string]string{"value": "x"}}}},
		},
	}
	_, err := doc.TypeSpecs()
	if err == nil || !strings.Contains(err.Error(), "without a name") {
		t.Fatalf("expected unnamed annotation error, got %v", err)
	}
}
