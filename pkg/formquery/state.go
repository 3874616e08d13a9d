package formquery

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formquery/pkg/schema"
)

// Range is a pair of numeric bounds with Min <= Max.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewRange builds a Range, swapping the bounds when needed.
func NewRange(a, b float64) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Min: a, Max: b}
}

// State is the flat control mapping plus the collected ranges. Values hold
// string, float64, bool or []string.
type State struct {
	Values map[string]any   `json:"values"`
	Range  map[string]Range `json:"range"`
}

// NewState returns an empty, ready to fill State.
func NewState() State {
	return State{
		Values: make(map[string]any),
		Range:  make(map[string]Range),
	}
}

// Get returns the value stored under key.
func (s State) Get(key string) (any, bool) {
	v, ok := s.Values[key]
	return v, ok
}

// String returns the value of key formatted as the form would display it.
func (s State) String(key string) string {
	v, ok := s.Values[key]
	if !ok {
		return ""
	}
	return formatValue(v)
}

// Empty reports whether the state carries neither values nor ranges.
func (s State) Empty() bool {
	return len(s.Values) == 0 && len(s.Range) == 0
}

// orderedKeys sorts keys by control declaration order; keys unknown to the
// schema follow in lexical order.
func orderedKeys(cfg *schema.Config, keys []string) []string {
	total := len(cfg.Controls())
	pos := func(key string) int {
		if p := cfg.Position(key); p >= 0 {
			return p
		}
		if p := cfg.GroupPosition(key); p >= 0 {
			return p
		}
		return total
	}
	out := append([]string(nil), keys...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := pos(out[i]), pos(out[j])
		if pi != pj {
			return pi < pj
		}
		return out[i] < out[j]
	})
	return out
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t)
	case float32:
		return formatNumber(float64(t))
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case []string:
		return strings.Join(t, ",")
	default:
		return fmt.Sprint(t)
	}
}
