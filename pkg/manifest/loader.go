package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks the filesystem and merges every manifest file into a single
// document. Types must be declared exactly once across all files; template
// rules concatenate in lexical file order, then declaration order, so the
// resolver tie-break rank is stable for a fixed manifest tree.
func LoadFS(fsys fs.FS) (*Document, error) {
	doc := &Document{Types: make(map[string]TypeConfig)}
	if fsys == nil {
		return doc, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isManifestFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("manifest: read %s: %w", path, err)
		}

		parsed, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for name, cfg := range parsed.Types {
			trimmed := strings.TrimSpace(name)
			if trimmed == "" {
				return fmt.Errorf("manifest: file %s declares a type with an empty name", path)
			}
			if _, exists := doc.Types[trimmed]; exists {
				return fmt.Errorf("manifest: duplicate type %q (file %s)", trimmed, path)
			}
			doc.Types[trimmed] = cfg
		}
		doc.Templates = append(doc.Templates, parsed.Templates...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func parseDocument(data []byte, source string) (Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("manifest: file %s is empty", source)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("manifest: parse %s: %w", source, err)
	}
	return doc, nil
}

func isManifestFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
