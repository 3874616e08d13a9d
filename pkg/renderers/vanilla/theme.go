package vanilla

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName names the bundled manifest.
const DefaultThemeName = "formquery"

// DefaultManifest describes the bundled look: one variant per page view.
// Tokens end up as CSS custom properties on the page root.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"accent":       "#c0392b",
			"columns":      "1",
			"gap":          "0.5rem",
			"poster-width": "6rem",
		},
		Assets: theme.Assets{
			Prefix: "/runtime",
			Files: map[string]string{
				"stylesheet": StylesheetName,
				"script":     RuntimeScriptName,
			},
		},
		Variants: map[string]theme.Variant{
			"lista": {
				Tokens: map[string]string{"columns": "1"},
			},
			"cuadricula": {
				Tokens: map[string]string{
					"columns":      "4",
					"poster-width": "100%",
				},
			},
		},
	}
}

// Themes resolves a theme and variant into renderer configuration. It
// satisfies theme.ThemeSelector.
type Themes struct {
	mu        sync.RWMutex
	provider  theme.ThemeProvider
	manifests map[string]*theme.Manifest
	fallback  string
}

var _ theme.ThemeSelector = (*Themes)(nil)

// NewThemes registers the manifests with a go-theme registry. The first
// manifest is the fallback for empty theme names.
func NewThemes(manifests ...*theme.Manifest) (*Themes, error) {
	if len(manifests) == 0 {
		manifests = []*theme.Manifest{DefaultManifest()}
	}
	registry := theme.NewRegistry()
	t := &Themes{
		provider:  registry,
		manifests: make(map[string]*theme.Manifest, len(manifests)),
	}
	for _, m := range manifests {
		if m == nil {
			continue
		}
		if err := registry.Register(m); err != nil {
			return nil, fmt.Errorf("vanilla: register theme %q: %w", m.Name, err)
		}
		t.manifests[m.Name] = m
		if t.fallback == "" {
			t.fallback = m.Name
		}
	}
	return t, nil
}

// Provider exposes the underlying go-theme registry.
func (t *Themes) Provider() theme.ThemeProvider {
	return t.provider
}

// Select picks a manifest and variant. An unknown variant falls back to the
// base tokens; an unknown theme is an error.
func (t *Themes) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if strings.TrimSpace(name) == "" {
		name = t.fallback
	}
	m, ok := t.manifests[name]
	if !ok {
		return nil, fmt.Errorf("vanilla: theme %q not registered", name)
	}
	if _, ok := m.Variants[variant]; !ok {
		variant = ""
	}
	return &theme.Selection{Theme: m.Name, Variant: variant, Manifest: m}, nil
}

// Config merges the base and variant tokens of a selection.
func (t *Themes) Config(sel *theme.Selection) theme.RendererConfig {
	if sel == nil || sel.Manifest == nil {
		return theme.RendererConfig{}
	}
	m := sel.Manifest
	tokens := copyStrings(m.Tokens)
	files := copyStrings(m.Assets.Files)
	prefix := m.Assets.Prefix
	if v, ok := m.Variants[sel.Variant]; ok {
		for k, val := range v.Tokens {
			tokens[k] = val
		}
		for k, val := range v.Assets.Files {
			files[k] = val
		}
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	vars := make(map[string]string, len(tokens))
	for k, val := range tokens {
		vars["--"+k] = val
	}

	return theme.RendererConfig{
		Theme:   sel.Theme,
		Variant: sel.Variant,
		Tokens:  tokens,
		CSSVars: vars,
		AssetURL: func(key string) string {
			file, ok := files[key]
			if !ok {
				return ""
			}
			return strings.TrimRight(prefix, "/") + "/" + file
		},
	}
}

// cssVarsStyle renders CSS variables as an inline style attribute value with
// stable ordering.
func cssVarsStyle(vars map[string]string) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%s: %s;", k, vars[k])
	}
	return b.String()
}

func copyStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
