package schema_test

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formquery/pkg/schema"
)

func TestLoadFS_JSONAndYAMLMerge(t *testing.T) {
	fsys := fstest.MapFS{
		"a_controls.json": &fstest.MapFile{Data: []byte(`{
			"controls": [
				{"id": "view", "kind": "select", "flag": true, "options": [
					{"value": "lista", "selected": true},
					{"value": "cuadricula"}
				]},
				{"id": "price_min", "kind": "number", "min": 0, "max": 50},
				{"id": "price_max", "kind": "number", "min": 0, "max": 50}
			]
		}`)},
		"b_extras.yaml": &fstest.MapFile{Data: []byte(`
maxima:
  price: 50
priceField: price
aliases:
  baratas: price=10
`)},
		"README.md": &fstest.MapFile{Data: []byte("ignored")},
	}

	cfg, err := schema.LoadFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if diff := cmp.Diff([]string{"price"}, cfg.Ranges()); diff != "" {
		t.Fatalf("ranges mismatch (-want +got):\n%s", diff)
	}
	if max, ok := cfg.Maximum("price"); !ok || max != 50 {
		t.Fatalf("expected price maximum 50, got %v (%v)", max, ok)
	}
	if cfg.PriceField() != "price" {
		t.Fatalf("price field mismatch: %q", cfg.PriceField())
	}
	if q, ok := cfg.Canonical("baratas"); !ok || q != "price=10" {
		t.Fatalf("alias not loaded: %q %v", q, ok)
	}
	if a, ok := cfg.Alias("price=10"); !ok || a != "baratas" {
		t.Fatalf("inverse alias not built: %q %v", a, ok)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := schema.Parse([]byte("   "), "empty.yaml"); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := schema.Parse([]byte("controls: [unterminated"), "bad.yaml"); err == nil {
		t.Fatalf("expected error for malformed document")
	}
}

func TestLoadFS_DuplicateAlias(t *testing.T) {
	fsys := fstest.MapFS{
		"a.yaml": &fstest.MapFile{Data: []byte("aliases:\n  x: a=1\n")},
		"b.yaml": &fstest.MapFile{Data: []byte("aliases:\n  x: a=2\n")},
	}
	if _, err := schema.LoadFS(fsys); err == nil {
		t.Fatalf("expected duplicate alias error")
	}
}

func TestLoadFS_Nil(t *testing.T) {
	cfg, err := schema.LoadFS(nil)
	if err != nil {
		t.Fatalf("load nil fs: %v", err)
	}
	if len(cfg.Controls()) != 0 {
		t.Fatalf("expected empty config")
	}
}

func TestDefault(t *testing.T) {
	cfg, err := schema.Default()
	if err != nil {
		t.Fatalf("default schema: %v", err)
	}
	if diff := cmp.Diff([]string{"duracion", "year", "imdb"}, cfg.Ranges()); diff != "" {
		t.Fatalf("ranges mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"lista", "publicacion"}, cfg.DefaultFlags()); diff != "" {
		t.Fatalf("default flags mismatch (-want +got):\n%s", diff)
	}
	if !cfg.IsGroup("genero") {
		t.Fatalf("expected genero group")
	}
	if got := len(cfg.Group("genero")); got != 5 {
		t.Fatalf("expected 5 genero members, got %d", got)
	}
}

func TestCompile_Errors(t *testing.T) {
	one := 1.0
	tests := []struct {
		name string
		doc  schema.Document
	}{
		{
			name: "empty id",
			doc:  schema.Document{Controls: []schema.ControlConfig{{Kind: "text"}}},
		},
		{
			name: "duplicate id",
			doc: schema.Document{Controls: []schema.ControlConfig{
				{ID: "q", Kind: "text"}, {ID: "q", Kind: "text"},
			}},
		},
		{
			name: "unknown kind",
			doc:  schema.Document{Controls: []schema.ControlConfig{{ID: "q", Kind: "radio"}}},
		},
		{
			name: "flag without default",
			doc: schema.Document{Controls: []schema.ControlConfig{
				{ID: "view", Kind: "select", Flag: true, Options: []schema.OptionConfig{{Value: "a"}, {Value: "b"}}},
			}},
		},
		{
			name: "flag with two defaults",
			doc: schema.Document{Controls: []schema.ControlConfig{
				{ID: "view", Kind: "select", Flag: true, Options: []schema.OptionConfig{
					{Value: "a", Selected: true}, {Value: "b", Selected: true},
				}},
			}},
		},
		{
			name: "flag on checkbox",
			doc:  schema.Document{Controls: []schema.ControlConfig{{ID: "x", Kind: "checkbox", Flag: true}}},
		},
		{
			name: "unpaired range",
			doc: schema.Document{Controls: []schema.ControlConfig{
				{ID: "price_min", Kind: "number", Min: &one},
			}},
		},
		{
			name: "non numeric range bound",
			doc: schema.Document{Controls: []schema.ControlConfig{
				{ID: "price_min", Kind: "number"}, {ID: "price_max", Kind: "text"},
			}},
		},
		{
			name: "two aliases for one query",
			doc: schema.Document{Aliases: map[string]string{
				"a": "x=1", "b": "x=1",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := schema.Compile(tt.doc)
			if err == nil {
				t.Fatalf("expected compile error")
			}
			if !errors.Is(err, schema.ErrInvalidSchema) {
				t.Fatalf("expected ErrInvalidSchema, got %v", err)
			}
		})
	}
}
