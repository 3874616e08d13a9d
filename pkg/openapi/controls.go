package openapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formquery/pkg/schema"
)

// Vendor extensions recognised on query parameters and operations.
const (
	ExtensionRange   = "x-formquery-range"
	ExtensionFlag    = "x-formquery-flag"
	ExtensionPrice   = "x-formquery-price"
	ExtensionAliases = "x-formquery-aliases"
)

// Controls converts the query parameters of op into a schema document:
//
//   - enum with a default and x-formquery-flag: flag select
//   - enum: select with a leading empty option
//   - boolean: checkbox
//   - x-formquery-range on a numeric parameter: "<name>_min"/"<name>_max"
//     pair bounded by minimum/maximum; the maximum becomes the known maximum
//   - array of enum: checkboxes grouped under the parameter name
//   - integer/number: number input
//   - anything else: text input
func Controls(op Operation) (schema.Document, error) {
	doc := schema.Document{
		Maxima:  make(map[string]float64),
		Aliases: make(map[string]string),
	}

	for _, param := range op.QueryParameters() {
		if param.Name == "" {
			return schema.Document{}, fmt.Errorf("openapi: operation %q has a query parameter without a name", op.ID)
		}
		controls, err := controlsFor(param, &doc)
		if err != nil {
			return schema.Document{}, fmt.Errorf("openapi: operation %q: %w", op.ID, err)
		}
		doc.Controls = append(doc.Controls, controls...)
	}

	if raw, ok := op.Extensions[ExtensionAliases]; ok {
		aliases, ok := raw.(map[string]any)
		if !ok {
			return schema.Document{}, fmt.Errorf("openapi: %s on %q must be an object", ExtensionAliases, op.ID)
		}
		for alias, query := range aliases {
			s, ok := query.(string)
			if !ok {
				return schema.Document{}, fmt.Errorf("openapi: alias %q on %q must map to a string", alias, op.ID)
			}
			doc.Aliases[alias] = s
		}
	}
	return doc, nil
}

func controlsFor(param Parameter, doc *schema.Document) ([]schema.ControlConfig, error) {
	s := param.Schema
	label := firstNonEmpty(s.Title, param.Description, param.Name)

	switch {
	case extensionBool(param.Extensions, ExtensionRange) || extensionBool(s.Extensions, ExtensionRange):
		if !s.Numeric() {
			return nil, fmt.Errorf("range parameter %q must be numeric", param.Name)
		}
		if s.Minimum == nil || s.Maximum == nil {
			return nil, fmt.Errorf("range parameter %q requires minimum and maximum", param.Name)
		}
		doc.Maxima[param.Name] = *s.Maximum
		if extensionBool(param.Extensions, ExtensionPrice) {
			doc.PriceField = param.Name
		}
		lo, hi := *s.Minimum, *s.Maximum
		bound := func(suffix, value string) schema.ControlConfig {
			return schema.ControlConfig{
				ID:    param.Name + suffix,
				Kind:  schema.KindNumber,
				Label: label,
				Value: value,
				Min:   &lo,
				Max:   &hi,
			}
		}
		return []schema.ControlConfig{
			bound(schema.MinSuffix, formatFloat(lo)),
			bound(schema.MaxSuffix, formatFloat(hi)),
		}, nil

	case s.Type == "array" && s.Items != nil && len(s.Items.Enum) > 0:
		selected := make(map[string]bool)
		if defaults, ok := s.Default.([]any); ok {
			for _, v := range defaults {
				selected[scalarString(v)] = true
			}
		}
		out := make([]schema.ControlConfig, 0, len(s.Items.Enum))
		for _, v := range s.Items.Enum {
			value := scalarString(v)
			out = append(out, schema.ControlConfig{
				ID:      param.Name + "-" + value,
				Name:    param.Name,
				Kind:    schema.KindCheckbox,
				Label:   value,
				Value:   value,
				Checked: selected[value],
			})
		}
		return out, nil

	case len(s.Enum) > 0:
		def := scalarString(s.Default)
		flag := extensionBool(param.Extensions, ExtensionFlag) && s.Default != nil
		ctrl := schema.ControlConfig{ID: param.Name, Kind: schema.KindSelect, Label: label, Flag: flag}
		if !flag {
			ctrl.Options = append(ctrl.Options, schema.OptionConfig{Value: "", Selected: s.Default == nil})
		}
		for _, v := range s.Enum {
			value := scalarString(v)
			ctrl.Options = append(ctrl.Options, schema.OptionConfig{
				Value:    value,
				Label:    value,
				Selected: s.Default != nil && value == def,
			})
		}
		return []schema.ControlConfig{ctrl}, nil

	case s.Type == "boolean":
		checked, _ := s.Default.(bool)
		return []schema.ControlConfig{{ID: param.Name, Kind: schema.KindCheckbox, Label: label, Checked: checked}}, nil

	case s.Numeric():
		return []schema.ControlConfig{{
			ID:    param.Name,
			Kind:  schema.KindNumber,
			Label: label,
			Value: scalarString(s.Default),
			Min:   s.Minimum,
			Max:   s.Maximum,
		}}, nil
	}

	return []schema.ControlConfig{{ID: param.Name, Kind: schema.KindText, Label: label, Value: scalarString(s.Default)}}, nil
}

// Detect reports whether raw looks like an OpenAPI or Swagger document.
func Detect(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' {
		var payload map[string]any
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			_, openapi := payload["openapi"]
			_, swagger := payload["swagger"]
			return openapi || swagger
		}
	}
	lower := strings.ToLower(string(trimmed))
	return strings.Contains(lower, "openapi:") || strings.Contains(lower, "swagger:")
}

func extensionBool(ext map[string]any, key string) bool {
	v, ok := ext[key]
	if !ok {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, _ := strconv.ParseBool(t)
		return b
	}
	return false
}

func scalarString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return formatFloat(t)
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
