package formquery_test

import (
	"testing"

	"github.com/goliatone/go-formquery/pkg/schema"
)

func ptr(f float64) *float64 { return &f }

// catalogDoc is a small catalogue page: two flag selects, a plain select,
// a text search, two range fields, a checkbox group and a lone checkbox.
func catalogDoc() schema.Document {
	return schema.Document{
		Controls: []schema.ControlConfig{
			{ID: "view", Kind: "select", Flag: true, Options: []schema.OptionConfig{
				{Value: "lista", Selected: true}, {Value: "cuadricula"},
			}},
			{ID: "order", Kind: "select", Flag: true, Options: []schema.OptionConfig{
				{Value: "fecha", Selected: true}, {Value: "rating"},
			}},
			{ID: "provider", Kind: "select", Options: []schema.OptionConfig{
				{Value: "", Selected: true}, {Value: "rtve"}, {Value: "efilm"},
			}},
			{ID: "q", Kind: "text"},
			{ID: "price_min", Kind: "number", Min: ptr(0), Max: ptr(50), Value: "0"},
			{ID: "price_max", Kind: "number", Min: ptr(0), Max: ptr(50), Value: "50"},
			{ID: "year_min", Kind: "number", Min: ptr(1900), Max: ptr(2020), Value: "1900"},
			{ID: "year_max", Kind: "number", Min: ptr(1900), Max: ptr(2020), Value: "2020"},
			{ID: "g-drama", Name: "genre", Kind: "checkbox", Value: "drama"},
			{ID: "g-comedy", Name: "genre", Kind: "checkbox", Value: "comedy"},
			{ID: "hd", Kind: "checkbox"},
		},
		Maxima:     map[string]float64{"price": 50, "year": 2020},
		PriceField: "price",
		Aliases:    map[string]string{"baratas": "price=10"},
	}
}

func catalogConfig(t *testing.T) *schema.Config {
	t.Helper()
	cfg, err := schema.Compile(catalogDoc())
	if err != nil {
		t.Fatalf("compile catalog schema: %v", err)
	}
	return cfg
}
