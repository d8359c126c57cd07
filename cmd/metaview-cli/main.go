// Command metaview-cli previews widget rendering for manifest-declared
// types. Types and templates come from a manifest directory or an OpenAPI
// document; the type and renderer are picked via flags or interactively.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-metaview/pkg/openapi"
	"github.com/goliatone/go-metaview/pkg/orchestrator"
	"github.com/goliatone/go-metaview/pkg/render"
)

func main() {
	manifestDir := flag.String("manifest", "", "directory of manifest YAML/JSON files")
	openapiDoc := flag.String("openapi", "", "OpenAPI document carrying x-metaview extensions")
	typeName := flag.String("type", "", "registered type to preview (interactive when empty)")
	rendererName := flag.String("renderer", "", "renderer to use (interactive when empty)")
	dataFile := flag.String("data", "", "JSON file of provider data for the preview")
	locale := flag.String("locale", "", "locale for localized display names")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	options, err := sourceOptions(ctx, *manifestDir, *openapiDoc)
	if err != nil {
		log.Fatalf("Failed to load declarations: %v", err)
	}

	gen := orchestrator.New(options...)
	if err := gen.Err(); err != nil {
		log.Fatalf("Failed to initialise: %v", err)
	}

	selectedType, err := pickType(gen, *typeName)
	if err != nil {
		log.Fatalf("Failed to choose type: %v", err)
	}
	selectedRenderer, err := pickRenderer(gen, *rendererName)
	if err != nil {
		log.Fatalf("Failed to choose renderer: %v", err)
	}

	data, err := loadData(*dataFile)
	if err != nil {
		log.Fatalf("Failed to load provider data: %v", err)
	}

	rendered, err := gen.Preview(ctx, selectedType, data, orchestrator.Request{
		Renderer: selectedRenderer,
		Options:  render.Options{Locale: *locale},
	})
	if err != nil {
		log.Fatalf("Failed to render %q: %v", selectedType, err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, rendered, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Widget written to %s\n", *output)
		return
	}
	fmt.Println(string(rendered))
}

func sourceOptions(ctx context.Context, manifestDir, openapiDoc string) ([]orchestrator.Option, error) {
	switch {
	case manifestDir != "" && openapiDoc != "":
		return nil, fmt.Errorf("pass either -manifest or -openapi, not both")
	case manifestDir != "":
		return []orchestrator.Option{orchestrator.WithManifestFS(os.DirFS(manifestDir))}, nil
	case openapiDoc != "":
		doc, err := openapi.LoadFile(ctx, openapiDoc)
		if err != nil {
			return nil, err
		}
		return []orchestrator.Option{orchestrator.WithManifest(doc)}, nil
	default:
		return nil, fmt.Errorf("a -manifest directory or -openapi document is required")
	}
}

func pickType(gen *orchestrator.Orchestrator, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	types := gen.Types().Types()
	if len(types) == 0 {
		return "", fmt.Errorf("no types registered")
	}
	var picked string
	prompt := &survey.Select{
		Message: "Type to preview:",
		Options: types,
	}
	if err := survey.AskOne(prompt, &picked); err != nil {
		return "", err
	}
	return picked, nil
}

func pickRenderer(gen *orchestrator.Orchestrator, name string) (string, error) {
	if name != "" {
		return name, nil
	}
	renderers := gen.Renderers().List()
	var picked string
	prompt := &survey.Select{
		Message: "Renderer:",
		Options: renderers,
	}
	if err := survey.AskOne(prompt, &picked); err != nil {
		return "", err
	}
	return picked, nil
}

func loadData(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return data, nil
}
