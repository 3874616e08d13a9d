package listing_test

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formquery/pkg/formquery"
	"github.com/goliatone/go-formquery/pkg/listing"
	"github.com/goliatone/go-formquery/pkg/schema"
)

const catalogYAML = `
items:
  - id: f1
    title: Nosferatu
    url: https://example.test/play/nosferatu/1/
  - id: f2
    title: Metropolis
    url: https://example.test/play/metropolis/2/
  - id: f3
    title: Arrebato
    url: https://example.test/play/arrebato/3/
orders:
  titulo: [f3, f2, f1]
  estreno: [f1, f2]
`

func newTracker(t *testing.T) *listing.Tracker {
	t.Helper()
	cfg, err := schema.Default()
	if err != nil {
		t.Fatalf("default schema: %v", err)
	}
	cat, err := listing.LoadCatalog(fstest.MapFS{"catalog.yaml": {Data: []byte(catalogYAML)}}, "catalog.yaml")
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return listing.NewTracker(cfg, cat)
}

func TestTracker_StartsAtDefaults(t *testing.T) {
	tr := newTracker(t)

	got := tr.Page()
	want := listing.Page{View: "lista", Order: []string{"f1", "f2", "f3"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("initial page mismatch (-want +got):\n%s", diff)
	}
	if changes := tr.Apply(formquery.NewState()); len(changes) != 0 {
		t.Fatalf("defaults must not trigger changes, got %+v", changes)
	}
}

func TestTracker_ViewAndOrderChanges(t *testing.T) {
	tr := newTracker(t)

	state := formquery.NewState()
	state.Values["view"] = "cuadricula"
	state.Values["order"] = "titulo"
	changes := tr.Apply(state)
	want := []listing.Change{
		{Control: "view", From: "lista", To: "cuadricula"},
		{Control: "order", From: "publicacion", To: "titulo"},
	}
	if diff := cmp.Diff(want, changes); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"f3", "f2", "f1"}, tr.Page().Order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	if changes := tr.Apply(state); len(changes) != 0 {
		t.Fatalf("re-applying the same state must be a no-op, got %+v", changes)
	}

	state.Values["order"] = "estreno"
	tr.Apply(state)
	if diff := cmp.Diff([]string{"f3", "f1", "f2"}, tr.Page().Order); diff != "" {
		t.Fatalf("partial order mismatch (-want +got):\n%s", diff)
	}
	var titles []string
	for _, item := range tr.Items() {
		titles = append(titles, item.Title)
	}
	if diff := cmp.Diff([]string{"Arrebato", "Nosferatu", "Metropolis"}, titles); diff != "" {
		t.Fatalf("items mismatch (-want +got):\n%s", diff)
	}
}

func TestTracker_GridViewIsExpandable(t *testing.T) {
	tr := newTracker(t)
	if tr.Page().Expandable {
		t.Fatalf("list view must not expand posters")
	}

	state := formquery.NewState()
	state.Values["view"] = "cuadricula"
	tr.Apply(state)
	if !tr.Page().Expandable {
		t.Fatalf("expected the grid view to expand posters")
	}

	tr.Apply(formquery.NewState())
	if got := tr.Page(); got.View != "lista" || got.Expandable {
		t.Fatalf("leaving the grid must disable expansion, got %+v", got)
	}
}

func TestParseCatalog_Validation(t *testing.T) {
	tests := map[string]string{
		"empty":         "  ",
		"missing id":    `{"items":[{"title":"x"}]}`,
		"duplicate id":  `{"items":[{"id":"a"},{"id":"a"}]}`,
		"unknown order": `{"items":[{"id":"a"}],"orders":{"x":["b"]}}`,
	}
	for name, input := range tests {
		if _, err := listing.ParseCatalog([]byte(input), name); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
