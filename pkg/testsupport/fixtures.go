// Package testsupport provides fixture helpers shared by the package test
// suites. Helpers fail the test on error to keep contract tests concise.
package testsupport

import (
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-metaview/pkg/manifest"
	"github.com/goliatone/go-metaview/pkg/metadata"
	"github.com/goliatone/go-metaview/pkg/rules"
)

// MustRegistry builds a metadata registry from specs, failing the test on
// any registration or build error.
func MustRegistry(t *testing.T, specs ...metadata.TypeSpec) *metadata.Registry {
	t.Helper()

	builder := metadata.NewBuilder()
	for _, spec := range specs {
		builder.Register(spec)
	}
	reg, err := builder.Build()
	if err != nil {
		t.Fatalf("build metadata registry: %v", err)
	}
	return reg
}

// MustRules builds a rule registry, failing the test on validation errors.
func MustRules(t *testing.T, list ...rules.Rule) *rules.Registry {
	t.Helper()

	reg, err := rules.New(list...)
	if err != nil {
		t.Fatalf("build rule registry: %v", err)
	}
	return reg
}

// ManifestFromString parses a single inline YAML manifest document.
func ManifestFromString(t *testing.T, content string) *manifest.Document {
	t.Helper()

	fsys := fstest.MapFS{
		"manifest.yaml": &fstest.MapFile{Data: []byte(content)},
	}
	doc, err := manifest.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load manifest: %v", err)
	}
	return doc
}
