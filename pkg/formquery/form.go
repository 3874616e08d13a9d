package formquery

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formquery/internal/logging"
	"github.com/goliatone/go-formquery/pkg/schema"
)

// ErrUnknownControl is returned when a setter references an id the schema
// does not declare.
var ErrUnknownControl = errors.New("formquery: unknown control")

type control struct {
	value    string
	checked  bool
	disabled bool
}

// Form holds the live state of the controls declared by a schema. A Form
// belongs to a single page or request and is not safe for concurrent
// mutation.
type Form struct {
	cfg      *schema.Config
	controls map[string]*control
}

// NewForm returns a form with every control at its declared default.
func NewForm(cfg *schema.Config) *Form {
	f := &Form{cfg: cfg}
	f.Reset()
	return f
}

// Config returns the schema backing the form.
func (f *Form) Config() *schema.Config {
	return f.cfg
}

// Reset restores every control to its declared default.
func (f *Form) Reset() {
	controls := f.cfg.Controls()
	f.controls = make(map[string]*control, len(controls))
	for _, ctrl := range controls {
		f.controls[ctrl.ID] = &control{
			value:    ctrl.Default(),
			checked:  ctrl.Checked,
			disabled: ctrl.Disabled,
		}
	}
}

// Set assigns the raw value of a text, number or select control.
func (f *Form) Set(id, value string) error {
	st, ok := f.controls[id]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownControl, id)
	}
	st.value = value
	return nil
}

// SetChecked toggles a checkbox.
func (f *Form) SetChecked(id string, checked bool) error {
	st, ok := f.controls[id]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownControl, id)
	}
	st.checked = checked
	return nil
}

// SetDisabled enables or disables a control. Disabled controls are skipped
// by Read.
func (f *Form) SetDisabled(id string, disabled bool) error {
	st, ok := f.controls[id]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownControl, id)
	}
	st.disabled = disabled
	return nil
}

// Raw exposes the stored value and checked state of a control.
func (f *Form) Raw(id string) (value string, checked bool, ok bool) {
	st, ok := f.controls[id]
	if !ok {
		return "", false, false
	}
	return st.value, st.checked, true
}

// Disabled reports whether a control is disabled.
func (f *Form) Disabled(id string) bool {
	st, ok := f.controls[id]
	return ok && st.disabled
}

// Value reads a single control. Unchecked checkboxes yield false; missing
// controls, blank inputs and non-numeric content of numeric controls yield
// nil. A missing control is logged, never fatal.
func (f *Form) Value(id string) any {
	ctrl, ok := f.cfg.Control(id)
	st, found := f.controls[id]
	if !ok || !found {
		logging.Warn("formquery: control #%s not found", id)
		return nil
	}

	if ctrl.Kind == schema.KindCheckbox {
		if !st.checked {
			return false
		}
		if ctrl.Value != "" {
			return ctrl.Value
		}
		return true
	}

	val := strings.TrimSpace(st.value)
	if val == "" {
		return nil
	}
	if ctrl.Numeric() {
		n, ok := parseNumber(val)
		if !ok {
			return nil
		}
		return n
	}
	return val
}

// Read extracts the form state: one entry per enabled control (name groups
// aggregated into ordered lists) plus the ranges of enabled registry fields.
func (f *Form) Read() State {
	state := NewState()
	for _, ctrl := range f.cfg.Controls() {
		if f.Disabled(ctrl.ID) {
			continue
		}
		if _, _, ok := ctrl.RangeBound(); ok {
			continue
		}
		v := f.Value(ctrl.ID)
		if v == nil || v == false {
			continue
		}
		if ctrl.Name != "" {
			list, _ := state.Values[ctrl.Name].([]string)
			state.Values[ctrl.Name] = append(list, groupToken(ctrl, v))
			continue
		}
		state.Values[ctrl.ID] = v
	}

	var fields []string
	for _, field := range f.cfg.Ranges() {
		if !f.Disabled(schema.RangeID(field, "min")) {
			fields = append(fields, field)
		}
	}
	state.Range = f.Ranges(fields...)
	return state
}

// Ranges collects the paired bounds of the given fields. A field with an
// absent bound is omitted.
func (f *Form) Ranges(fields ...string) map[string]Range {
	out := make(map[string]Range, len(fields))
	for _, field := range fields {
		lo, okLo := f.Value(schema.RangeID(field, "min")).(float64)
		hi, okHi := f.Value(schema.RangeID(field, "max")).(float64)
		if !okLo || !okHi {
			continue
		}
		out[field] = NewRange(lo, hi)
	}
	return out
}

// Apply writes a decoded state onto the form. Keys without a matching
// control are ignored; every range bound control takes the decoded bound or
// falls back to its native attribute.
func (f *Form) Apply(state State) {
	for key, v := range state.Values {
		if ctrl, ok := f.cfg.Control(key); ok {
			f.assign(ctrl, v)
			continue
		}
		if f.cfg.IsGroup(key) {
			f.assignGroup(key, v)
			continue
		}
		logging.Debug("formquery: no control for decoded key %q", key)
	}

	for _, ctrl := range f.cfg.Controls() {
		field, bound, ok := ctrl.RangeBound()
		if !ok {
			continue
		}
		st := f.controls[ctrl.ID]
		if r, found := state.Range[field]; found {
			if bound == "min" {
				st.value = formatNumber(r.Min)
			} else {
				st.value = formatNumber(r.Max)
			}
			continue
		}
		st.value = nativeBound(ctrl, bound)
	}
}

func (f *Form) assign(ctrl schema.Control, v any) {
	st := f.controls[ctrl.ID]
	if ctrl.Kind == schema.KindCheckbox {
		if b, ok := v.(bool); ok {
			st.checked = b
			return
		}
		st.checked = ctrl.Value != "" && formatValue(v) == ctrl.Value
		return
	}
	st.value = formatValue(v)
}

func (f *Form) assignGroup(name string, v any) {
	members := make(map[string]struct{})
	switch t := v.(type) {
	case []string:
		for _, item := range t {
			members[item] = struct{}{}
		}
	default:
		members[formatValue(t)] = struct{}{}
	}

	for _, id := range f.cfg.Group(name) {
		ctrl, _ := f.cfg.Control(id)
		_, selected := members[groupToken(ctrl, true)]
		st := f.controls[id]
		if ctrl.Kind == schema.KindCheckbox {
			st.checked = selected
		}
	}
}

// groupToken is the list item a group member contributes: its value
// attribute for checkboxes, its id when it has none.
func groupToken(ctrl schema.Control, v any) string {
	if ctrl.Kind == schema.KindCheckbox {
		if ctrl.Value != "" {
			return ctrl.Value
		}
		return ctrl.ID
	}
	return formatValue(v)
}

func nativeBound(ctrl schema.Control, bound string) string {
	attr := ctrl.Min
	if bound == "max" {
		attr = ctrl.Max
	}
	if attr == nil {
		return ctrl.Default()
	}
	return formatNumber(*attr)
}
