package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrInvalidSchema wraps every validation failure reported by Compile.
var ErrInvalidSchema = errors.New("schema: invalid schema")

// Config is the compiled schema. It is immutable after Compile returns and
// safe for concurrent readers.
type Config struct {
	controls []Control
	index    map[string]int

	groups     map[string][]string
	groupOrder []string

	flags        []string
	defaultFlags []string
	flagSet      map[string]struct{}
	defaultSet   map[string]struct{}
	optionOwners map[string][]string

	ranges     []string
	rangeSet   map[string]struct{}
	maxima     map[string]float64
	priceField string

	aliases   map[string]string
	canonical map[string]string
}

// Compile validates doc and derives the flag vocabulary, the range field
// registry and the inverse alias table.
func Compile(doc Document) (*Config, error) {
	cfg := &Config{
		index:        make(map[string]int, len(doc.Controls)),
		groups:       make(map[string][]string),
		flagSet:      make(map[string]struct{}),
		defaultSet:   make(map[string]struct{}),
		optionOwners: make(map[string][]string),
		rangeSet:     make(map[string]struct{}),
		maxima:       make(map[string]float64),
		aliases:      make(map[string]string),
		canonical:    make(map[string]string),
		priceField:   strings.TrimSpace(doc.PriceField),
	}

	for i, raw := range doc.Controls {
		ctrl := cloneControl(raw)
		if ctrl.ID == "" {
			return nil, fmt.Errorf("%w: control %d has an empty id", ErrInvalidSchema, i)
		}
		if _, exists := cfg.index[ctrl.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate control id %q", ErrInvalidSchema, ctrl.ID)
		}
		switch ctrl.Kind {
		case KindText, KindNumber, KindCheckbox, KindSelect:
		default:
			return nil, fmt.Errorf("%w: control %q has unknown kind %q", ErrInvalidSchema, ctrl.ID, ctrl.Kind)
		}
		if ctrl.Flag && ctrl.Kind != KindSelect {
			return nil, fmt.Errorf("%w: flag control %q must be a select", ErrInvalidSchema, ctrl.ID)
		}
		cfg.index[ctrl.ID] = len(cfg.controls)
		cfg.controls = append(cfg.controls, ctrl)
	}

	for _, ctrl := range cfg.controls {
		if ctrl.Name != "" {
			if _, exists := cfg.groups[ctrl.Name]; !exists {
				cfg.groupOrder = append(cfg.groupOrder, ctrl.Name)
			}
			cfg.groups[ctrl.Name] = append(cfg.groups[ctrl.Name], ctrl.ID)
		}
		if ctrl.Kind == KindSelect {
			if err := cfg.indexSelect(ctrl); err != nil {
				return nil, err
			}
		}
		if field, _, ok := ctrl.RangeBound(); ok && !ctrl.Disabled {
			if _, seen := cfg.rangeSet[field]; !seen {
				cfg.rangeSet[field] = struct{}{}
				cfg.ranges = append(cfg.ranges, field)
			}
		}
	}

	for _, field := range cfg.ranges {
		for _, bound := range []string{"min", "max"} {
			id := RangeID(field, bound)
			ctrl, ok := cfg.Control(id)
			if !ok {
				return nil, fmt.Errorf("%w: range field %q is missing control %q", ErrInvalidSchema, field, id)
			}
			if !ctrl.Numeric() {
				return nil, fmt.Errorf("%w: range control %q must be numeric", ErrInvalidSchema, id)
			}
		}
	}

	for field, max := range doc.Maxima {
		field = strings.TrimSpace(field)
		if !cfg.IsRange(field) {
			return nil, fmt.Errorf("%w: maximum for %q which is not an enabled range field", ErrInvalidSchema, field)
		}
		cfg.maxima[field] = max
	}

	for alias, canonical := range doc.Aliases {
		alias = strings.TrimSpace(alias)
		canonical = strings.TrimSpace(canonical)
		if alias == "" || canonical == "" {
			return nil, fmt.Errorf("%w: aliases require a non-empty alias and query", ErrInvalidSchema)
		}
		if prev, exists := cfg.canonical[canonical]; exists {
			return nil, fmt.Errorf("%w: query %q has two aliases (%q, %q)", ErrInvalidSchema, canonical, prev, alias)
		}
		cfg.aliases[alias] = canonical
		cfg.canonical[canonical] = alias
	}

	return cfg, nil
}

func (c *Config) indexSelect(ctrl Control) error {
	for _, opt := range ctrl.Options {
		owners := c.optionOwners[opt.Value]
		if len(owners) == 0 || owners[len(owners)-1] != ctrl.ID {
			c.optionOwners[opt.Value] = append(owners, ctrl.ID)
		}
	}
	if !ctrl.Flag {
		return nil
	}

	selected := 0
	def := ""
	for _, opt := range ctrl.Options {
		if opt.Selected {
			selected++
			def = opt.Value
		}
	}
	if selected != 1 {
		return fmt.Errorf("%w: flag select %q must have exactly one selected option, got %d", ErrInvalidSchema, ctrl.ID, selected)
	}

	if _, exists := c.defaultSet[def]; !exists {
		c.defaultSet[def] = struct{}{}
		c.defaultFlags = append(c.defaultFlags, def)
	}
	for _, opt := range ctrl.Options {
		if opt.Value == "" || opt.Value == def {
			continue
		}
		if _, exists := c.flagSet[opt.Value]; exists {
			continue
		}
		c.flagSet[opt.Value] = struct{}{}
		c.flags = append(c.flags, opt.Value)
	}
	return nil
}

// Controls returns the controls in declaration order.
func (c *Config) Controls() []Control {
	if c == nil {
		return nil
	}
	return append([]Control(nil), c.controls...)
}

// Control looks up a control by id.
func (c *Config) Control(id string) (Control, bool) {
	if c == nil {
		return Control{}, false
	}
	idx, ok := c.index[id]
	if !ok {
		return Control{}, false
	}
	return c.controls[idx], true
}

// Position returns the declaration index of a control id, or -1.
func (c *Config) Position(id string) int {
	if c == nil {
		return -1
	}
	if idx, ok := c.index[id]; ok {
		return idx
	}
	return -1
}

// Group returns the ids of the controls sharing name, in declaration order.
func (c *Config) Group(name string) []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.groups[name]...)
}

// IsGroup reports whether name is shared by one or more controls.
func (c *Config) IsGroup(name string) bool {
	if c == nil {
		return false
	}
	_, ok := c.groups[name]
	return ok
}

// GroupPosition orders group keys after the first member control.
func (c *Config) GroupPosition(name string) int {
	if c == nil {
		return -1
	}
	ids := c.groups[name]
	if len(ids) == 0 {
		return -1
	}
	return c.index[ids[0]]
}

// Flags returns the non-default flag tokens.
func (c *Config) Flags() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.flags...)
}

// DefaultFlags returns the default token of every flag select.
func (c *Config) DefaultFlags() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.defaultFlags...)
}

// IsFlag reports whether token is a non-default flag token.
func (c *Config) IsFlag(token string) bool {
	if c == nil {
		return false
	}
	_, ok := c.flagSet[token]
	return ok
}

// IsDefaultFlag reports whether token is the default of some flag select.
func (c *Config) IsDefaultFlag(token string) bool {
	if c == nil {
		return false
	}
	_, ok := c.defaultSet[token]
	return ok
}

// OptionOwners returns the ids of the selects declaring an option with
// value, in declaration order.
func (c *Config) OptionOwners(value string) []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.optionOwners[value]...)
}

// FlagOwner resolves the select a flag token belongs to: the first select
// declaring that option.
func (c *Config) FlagOwner(token string) (string, bool) {
	if !c.IsFlag(token) && !c.IsDefaultFlag(token) {
		return "", false
	}
	owners := c.optionOwners[token]
	if len(owners) == 0 {
		return "", false
	}
	return owners[0], true
}

// Ranges returns the range field registry in declaration order.
func (c *Config) Ranges() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.ranges...)
}

// IsRange reports whether field belongs to the range field registry.
func (c *Config) IsRange(field string) bool {
	if c == nil {
		return false
	}
	_, ok := c.rangeSet[field]
	return ok
}

// Maximum returns the known maximum of a registry field.
func (c *Config) Maximum(field string) (float64, bool) {
	if !c.IsRange(field) {
		return 0, false
	}
	max, ok := c.maxima[field]
	return max, ok
}

// PriceField names the range field whose zero minimum collapses to the
// maximum alone.
func (c *Config) PriceField() string {
	if c == nil {
		return ""
	}
	return c.priceField
}

// NativeSpan returns the declared min/max attributes of a range field,
// read from its "_max" control.
func (c *Config) NativeSpan(field string) (min, max float64, ok bool) {
	ctrl, found := c.Control(RangeID(field, "max"))
	if !found || ctrl.Min == nil || ctrl.Max == nil {
		return 0, 0, false
	}
	return *ctrl.Min, *ctrl.Max, true
}

// Canonical resolves an alias to the query it stands for.
func (c *Config) Canonical(alias string) (string, bool) {
	if c == nil {
		return "", false
	}
	q, ok := c.aliases[alias]
	return q, ok
}

// Alias returns the alias registered for a canonical query.
func (c *Config) Alias(query string) (string, bool) {
	if c == nil {
		return "", false
	}
	a, ok := c.canonical[query]
	return a, ok
}

// Aliases returns the alias table sorted by alias.
func (c *Config) Aliases() [][2]string {
	if c == nil {
		return nil
	}
	keys := make([]string, 0, len(c.aliases))
	for alias := range c.aliases {
		keys = append(keys, alias)
	}
	sort.Strings(keys)
	out := make([][2]string, 0, len(keys))
	for _, alias := range keys {
		out = append(out, [2]string{alias, c.aliases[alias]})
	}
	return out
}
