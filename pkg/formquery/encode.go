package formquery

import (
	"sort"
	"strings"

	"github.com/goliatone/go-formquery/internal/metrics"
	"github.com/goliatone/go-formquery/pkg/schema"
)

// Encode renders state as a minimal query string without the leading "?".
// An empty string means the state matches the form defaults.
func Encode(cfg *schema.Config, state State) string {
	metrics.QueriesEncodedTotal.Inc()

	tokens := encodeValues(cfg, state.Values)
	tokens = append(tokens, encodeRanges(cfg, state.Range)...)

	query := strings.Join(tokens, "&")
	if alias, ok := cfg.Alias(query); ok {
		metrics.AliasHitsTotal.WithLabelValues("encode").Inc()
		return alias
	}
	return query
}

// Search is Encode with the leading "?", or "" for an empty query.
func Search(cfg *schema.Config, state State) string {
	query := Encode(cfg, state)
	if query == "" {
		return ""
	}
	return "?" + query
}

func encodeValues(cfg *schema.Config, values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}

	var tokens []string
	for _, key := range orderedKeys(cfg, keys) {
		if token, ok := encodeValue(cfg, key, values[key]); ok {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func encodeValue(cfg *schema.Config, key string, value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		if cfg.IsDefaultFlag(v) {
			return "", false
		}
		if cfg.IsFlag(v) {
			return v, true
		}
		return key + "=" + escapeComponent(v), true
	case bool:
		if !v {
			return "", false
		}
		return key, true
	case []string:
		if len(v) == 0 {
			return "", false
		}
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = escapeComponent(item)
		}
		return key + "=" + strings.Join(items, "+"), true
	default:
		return key + "=" + formatValue(v), true
	}
}

func encodeRanges(cfg *schema.Config, ranges map[string]Range) []string {
	if len(ranges) == 0 {
		return nil
	}

	fields := make([]string, 0, len(ranges))
	for _, field := range cfg.Ranges() {
		if _, ok := ranges[field]; ok {
			fields = append(fields, field)
		}
	}
	var extra []string
	for field := range ranges {
		if !cfg.IsRange(field) {
			extra = append(extra, field)
		}
	}
	sort.Strings(extra)
	fields = append(fields, extra...)

	var tokens []string
	for _, field := range fields {
		if token, ok := encodeRange(cfg, field, ranges[field]); ok {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func encodeRange(cfg *schema.Config, field string, r Range) (string, bool) {
	if lo, hi, ok := cfg.NativeSpan(field); ok && lo == r.Min && hi == r.Max {
		return "", false
	}
	if max, ok := cfg.Maximum(field); ok {
		if field == cfg.PriceField() && r.Min == 0 {
			return field + "=" + formatNumber(r.Max), true
		}
		if r.Max == max {
			return field + "=" + formatNumber(r.Min), true
		}
	}
	return field + "=" + formatNumber(r.Min) + "-" + formatNumber(r.Max), true
}
