package schema

import "strings"

// Control kinds understood by the codec.
const (
	KindText     = "text"
	KindNumber   = "number"
	KindCheckbox = "checkbox"
	KindSelect   = "select"
)

// Suffixes marking the bounds of a range field.
const (
	MinSuffix = "_min"
	MaxSuffix = "_max"
)

// Document is the on-disk representation of a filter form schema.
type Document struct {
	Controls   []ControlConfig    `json:"controls" yaml:"controls"`
	Aliases    map[string]string  `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Maxima     map[string]float64 `json:"maxima,omitempty" yaml:"maxima,omitempty"`
	PriceField string             `json:"priceField,omitempty" yaml:"priceField,omitempty"`
}

// ControlConfig declares a single form control. Value follows the HTML
// attribute: the initial value for text/number inputs and the submitted
// value for checkboxes.
type ControlConfig struct {
	ID       string         `json:"id" yaml:"id"`
	Name     string         `json:"name,omitempty" yaml:"name,omitempty"`
	Kind     string         `json:"kind" yaml:"kind"`
	DataType string         `json:"dataType,omitempty" yaml:"dataType,omitempty"`
	Label    string         `json:"label,omitempty" yaml:"label,omitempty"`
	Value    string         `json:"value,omitempty" yaml:"value,omitempty"`
	Checked  bool           `json:"checked,omitempty" yaml:"checked,omitempty"`
	Disabled bool           `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Flag     bool           `json:"flag,omitempty" yaml:"flag,omitempty"`
	Min      *float64       `json:"min,omitempty" yaml:"min,omitempty"`
	Max      *float64       `json:"max,omitempty" yaml:"max,omitempty"`
	Options  []OptionConfig `json:"options,omitempty" yaml:"options,omitempty"`
}

// OptionConfig is a single <option> of a select control.
type OptionConfig struct {
	Value    string `json:"value" yaml:"value"`
	Label    string `json:"label,omitempty" yaml:"label,omitempty"`
	Selected bool   `json:"selected,omitempty" yaml:"selected,omitempty"`
}

// Control is the compiled, read-only view of a ControlConfig.
type Control struct {
	ID       string
	Name     string
	Kind     string
	DataType string
	Label    string
	Value    string
	Checked  bool
	Disabled bool
	Flag     bool
	Min      *float64
	Max      *float64
	Options  []OptionConfig
}

// Numeric reports whether the control yields numbers (kind number or a
// dataType override).
func (c Control) Numeric() bool {
	if c.DataType != "" {
		return c.DataType == KindNumber
	}
	return c.Kind == KindNumber
}

// RangeBound splits a "<field>_min" / "<field>_max" id into its field and
// bound ("min" or "max").
func (c Control) RangeBound() (field, bound string, ok bool) {
	return SplitRangeID(c.ID)
}

// Default returns the value the control holds before any user interaction.
// Checkboxes are handled through Checked.
func (c Control) Default() string {
	if c.Kind != KindSelect {
		return c.Value
	}
	for _, opt := range c.Options {
		if opt.Selected {
			return opt.Value
		}
	}
	if len(c.Options) > 0 {
		return c.Options[0].Value
	}
	return ""
}

// HasOption reports whether a select declares an option with value.
func (c Control) HasOption(value string) bool {
	for _, opt := range c.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

// SplitRangeID splits "<field>_min" / "<field>_max" ids.
func SplitRangeID(id string) (field, bound string, ok bool) {
	switch {
	case strings.HasSuffix(id, MinSuffix):
		field, bound = strings.TrimSuffix(id, MinSuffix), "min"
	case strings.HasSuffix(id, MaxSuffix):
		field, bound = strings.TrimSuffix(id, MaxSuffix), "max"
	default:
		return "", "", false
	}
	if field == "" {
		return "", "", false
	}
	return field, bound, true
}

// RangeID builds the id of a range bound control.
func RangeID(field, bound string) string {
	return field + "_" + bound
}

func cloneControl(cfg ControlConfig) Control {
	out := Control{
		ID:       strings.TrimSpace(cfg.ID),
		Name:     strings.TrimSpace(cfg.Name),
		Kind:     strings.ToLower(strings.TrimSpace(cfg.Kind)),
		DataType: strings.ToLower(strings.TrimSpace(cfg.DataType)),
		Label:    cfg.Label,
		Value:    cfg.Value,
		Checked:  cfg.Checked,
		Disabled: cfg.Disabled,
		Flag:     cfg.Flag,
	}
	if out.Kind == "" {
		out.Kind = KindText
	}
	if cfg.Min != nil {
		v := *cfg.Min
		out.Min = &v
	}
	if cfg.Max != nil {
		v := *cfg.Max
		out.Max = &v
	}
	if len(cfg.Options) > 0 {
		out.Options = append([]OptionConfig(nil), cfg.Options...)
	}
	return out
}
