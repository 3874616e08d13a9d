package render

import (
	"github.com/goliatone/go-formquery/pkg/formquery"
	"github.com/goliatone/go-formquery/pkg/listing"
	"github.com/goliatone/go-formquery/pkg/player"
	"github.com/goliatone/go-formquery/pkg/schema"
)

// View is everything a renderer needs to draw the listing page.
type View struct {
	Title    string
	Form     *formquery.Form
	Search   string
	Rejected []formquery.Rejection
	Page     listing.Page
	Items    []listing.Item
	// Streams maps item URLs to their HLS playlist.
	Streams map[string]string
	Player  *player.Player
	// Theme optionally selects a theme variant; the page view is used when
	// empty.
	Theme string
}

// ControlView is the template friendly rendition of one control.
type ControlView struct {
	ID       string       `json:"id"`
	Name     string       `json:"name,omitempty"`
	Kind     string       `json:"kind"`
	Label    string       `json:"label"`
	Value    string       `json:"value"`
	Checked  bool         `json:"checked"`
	Disabled bool         `json:"disabled"`
	Flag     bool         `json:"flag"`
	Min      string       `json:"min,omitempty"`
	Max      string       `json:"max,omitempty"`
	Options  []OptionView `json:"options,omitempty"`
}

// OptionView is one option of a select.
type OptionView struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Controls lists the form controls with their current values, in schema
// order.
func (v View) Controls() []ControlView {
	if v.Form == nil {
		return nil
	}
	cfg := v.Form.Config()
	controls := cfg.Controls()
	out := make([]ControlView, 0, len(controls))
	for _, ctrl := range controls {
		value, checked, _ := v.Form.Raw(ctrl.ID)
		cv := ControlView{
			ID:       ctrl.ID,
			Name:     ctrl.Name,
			Kind:     ctrl.Kind,
			Label:    ctrl.Label,
			Value:    value,
			Checked:  checked,
			Disabled: v.Form.Disabled(ctrl.ID),
			Flag:     ctrl.Flag,
			Min:      formatBound(ctrl.Min),
			Max:      formatBound(ctrl.Max),
		}
		if cv.Label == "" {
			cv.Label = ctrl.ID
		}
		if ctrl.Kind == schema.KindCheckbox && ctrl.Value != "" {
			cv.Value = ctrl.Value
		}
		for _, opt := range ctrl.Options {
			label := opt.Label
			if label == "" {
				label = opt.Value
			}
			cv.Options = append(cv.Options, OptionView{
				Value:    opt.Value,
				Label:    label,
				Selected: opt.Value == value,
			})
		}
		out = append(out, cv)
	}
	return out
}

// State returns the form state, or an empty state without a form.
func (v View) State() formquery.State {
	if v.Form == nil {
		return formquery.NewState()
	}
	return v.Form.Read()
}

func formatBound(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}
