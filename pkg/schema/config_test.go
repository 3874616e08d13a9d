package schema_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formquery/pkg/schema"
)

func TestCompile_FlagVocabulary(t *testing.T) {
	cfg := mustCompile(t, schema.Document{Controls: []schema.ControlConfig{
		{ID: "view", Kind: "select", Flag: true, Options: []schema.OptionConfig{
			{Value: "lista", Selected: true}, {Value: "cuadricula"}, {Value: ""},
		}},
		{ID: "order", Kind: "select", Flag: true, Options: []schema.OptionConfig{
			{Value: "fecha", Selected: true}, {Value: "rating"}, {Value: "cuadricula"},
		}},
		{ID: "provider", Kind: "select", Options: []schema.OptionConfig{
			{Value: "rtve"}, {Value: "efilm"},
		}},
	}})

	if diff := cmp.Diff([]string{"cuadricula", "rating"}, cfg.Flags()); diff != "" {
		t.Fatalf("flags mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"lista", "fecha"}, cfg.DefaultFlags()); diff != "" {
		t.Fatalf("default flags mismatch (-want +got):\n%s", diff)
	}
	if cfg.IsFlag("rtve") {
		t.Fatalf("non-flag select options must not join the vocabulary")
	}
	if owner, ok := cfg.FlagOwner("cuadricula"); !ok || owner != "view" {
		t.Fatalf("expected first declaring select to own token, got %q %v", owner, ok)
	}
	if owner, ok := cfg.FlagOwner("fecha"); !ok || owner != "order" {
		t.Fatalf("expected default token owner, got %q %v", owner, ok)
	}
	if _, ok := cfg.FlagOwner("rtve"); ok {
		t.Fatalf("rtve is not a flag token")
	}
	if diff := cmp.Diff([]string{"provider"}, cfg.OptionOwners("rtve")); diff != "" {
		t.Fatalf("option owners mismatch (-want +got):\n%s", diff)
	}
}

func TestCompile_RangeRegistrySkipsDisabled(t *testing.T) {
	zero, fifty := 0.0, 50.0
	cfg := mustCompile(t, schema.Document{
		Controls: []schema.ControlConfig{
			{ID: "price_min", Kind: "number", Min: &zero, Max: &fifty},
			{ID: "price_max", Kind: "number", Min: &zero, Max: &fifty},
			{ID: "old_min", Kind: "number", Disabled: true},
			{ID: "old_max", Kind: "number", Disabled: true},
		},
		Maxima: map[string]float64{"price": 50},
	})

	if diff := cmp.Diff([]string{"price"}, cfg.Ranges()); diff != "" {
		t.Fatalf("ranges mismatch (-want +got):\n%s", diff)
	}
	if _, ok := cfg.Maximum("old"); ok {
		t.Fatalf("disabled range field must not report a maximum")
	}
	min, max, ok := cfg.NativeSpan("price")
	if !ok || min != 0 || max != 50 {
		t.Fatalf("unexpected native span %v-%v (%v)", min, max, ok)
	}
}

func TestCompile_RejectsMaximaOutsideRegistry(t *testing.T) {
	zero, fifty := 0.0, 50.0
	controls := []schema.ControlConfig{
		{ID: "price_min", Kind: "number", Min: &zero, Max: &fifty},
		{ID: "price_max", Kind: "number", Min: &zero, Max: &fifty},
		{ID: "old_min", Kind: "number", Disabled: true},
		{ID: "old_max", Kind: "number", Disabled: true},
	}

	for _, field := range []string{"old", "missing"} {
		_, err := schema.Compile(schema.Document{
			Controls: controls,
			Maxima:   map[string]float64{"price": 50, field: 10},
		})
		if !errors.Is(err, schema.ErrInvalidSchema) {
			t.Fatalf("expected ErrInvalidSchema for maximum of %q, got %v", field, err)
		}
	}
}

func TestControl_Helpers(t *testing.T) {
	sel := schema.Control{Kind: schema.KindSelect, Options: []schema.OptionConfig{{Value: "a"}, {Value: "b", Selected: true}}}
	if sel.Default() != "b" {
		t.Fatalf("expected selected option as default, got %q", sel.Default())
	}
	if !sel.HasOption("a") || sel.HasOption("z") {
		t.Fatalf("HasOption mismatch")
	}

	num := schema.Control{Kind: schema.KindText, DataType: "number"}
	if !num.Numeric() {
		t.Fatalf("dataType override should make control numeric")
	}

	field, bound, ok := schema.SplitRangeID("year_max")
	if !ok || field != "year" || bound != "max" {
		t.Fatalf("unexpected split %q %q %v", field, bound, ok)
	}
	if _, _, ok := schema.SplitRangeID("_min"); ok {
		t.Fatalf("empty field prefix must not split")
	}
}

func TestConfig_NilSafe(t *testing.T) {
	var cfg *schema.Config
	if cfg.IsFlag("x") || cfg.IsRange("x") || cfg.IsGroup("x") {
		t.Fatalf("nil config should report nothing")
	}
	if _, ok := cfg.Control("x"); ok {
		t.Fatalf("nil config has no controls")
	}
}

func mustCompile(t *testing.T, doc schema.Document) *schema.Config {
	t.Helper()
	cfg, err := schema.Compile(doc)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	return cfg
}
