package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks the provided filesystem and merges every JSON/YAML schema
// document it finds, in lexical path order, before compiling the result.
func LoadFS(fsys fs.FS) (*Config, error) {
	doc, err := ReadFS(fsys)
	if err != nil {
		return nil, err
	}
	return Compile(doc)
}

// LoadFile reads a single schema document from disk, or every document of a
// directory.
func LoadFile(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("schema: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return LoadFS(os.DirFS(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", path, err)
	}
	doc, err := Parse(data, path)
	if err != nil {
		return nil, err
	}
	return Compile(doc)
}

// ReadFS merges the schema documents of fsys without compiling them. When
// fsys is nil or holds no schema files, an empty document is returned.
func ReadFS(fsys fs.FS) (Document, error) {
	var merged Document
	if fsys == nil {
		return merged, nil
	}

	var paths []string
	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(path) {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return Document{}, err
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return Document{}, fmt.Errorf("schema: read %s: %w", path, err)
		}
		doc, err := Parse(data, path)
		if err != nil {
			return Document{}, err
		}
		if err := mergeDocument(&merged, doc, path); err != nil {
			return Document{}, err
		}
	}
	return merged, nil
}

// Parse decodes a JSON or YAML schema document. source only labels errors.
func Parse(data []byte, source string) (Document, error) {
	var doc Document
	if len(strings.TrimSpace(string(data))) == 0 {
		return Document{}, fmt.Errorf("schema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = Document{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return Document{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML", source)
}

func mergeDocument(dst *Document, src Document, source string) error {
	dst.Controls = append(dst.Controls, src.Controls...)

	for alias, canonical := range src.Aliases {
		if dst.Aliases == nil {
			dst.Aliases = make(map[string]string)
		}
		if _, exists := dst.Aliases[alias]; exists {
			return fmt.Errorf("schema: duplicate alias %q (file %s)", alias, source)
		}
		dst.Aliases[alias] = canonical
	}

	for field, max := range src.Maxima {
		if dst.Maxima == nil {
			dst.Maxima = make(map[string]float64)
		}
		if _, exists := dst.Maxima[field]; exists {
			return fmt.Errorf("schema: duplicate maximum for %q (file %s)", field, source)
		}
		dst.Maxima[field] = max
	}

	if price := strings.TrimSpace(src.PriceField); price != "" {
		if dst.PriceField != "" && dst.PriceField != price {
			return fmt.Errorf("schema: conflicting priceField %q (file %s)", price, source)
		}
		dst.PriceField = price
	}
	return nil
}

func isSchemaFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
