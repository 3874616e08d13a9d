package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-formquery/pkg/formquery"
	"github.com/goliatone/go-formquery/pkg/render"
	"github.com/goliatone/go-formquery/pkg/schema"
)

// Renderer edits a form interactively: every enabled control is prompted
// starting from its current value, then the resulting state is serialized.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, query output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		driver:       newSurveyDriver(),
		outputFormat: OutputFormatQuery,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatJSON:
		return "application/json"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Render prompts the controls of view.Form, mutating the form in place.
func (r *Renderer) Render(ctx context.Context, view render.View) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if view.Form == nil {
		return nil, ErrNoForm
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	form := view.Form
	cfg := form.Config()
	for _, rej := range view.Rejected {
		r.info(ctx, r.theme.ErrorPrefix, fmt.Sprintf("ignored %q (%s)", rej.Token, rej.Reason))
	}

	prompted := make(map[string]bool)
	for _, ctrl := range cfg.Controls() {
		if form.Disabled(ctrl.ID) {
			continue
		}
		if ctrl.Name != "" && ctrl.Kind == schema.KindCheckbox {
			if prompted[ctrl.Name] {
				continue
			}
			prompted[ctrl.Name] = true
			if err := r.promptGroup(ctx, form, ctrl.Name); err != nil {
				return nil, err
			}
			continue
		}
		if err := r.promptControl(ctx, form, ctrl); err != nil {
			return nil, err
		}
	}

	return r.serialize(cfg, form.Read())
}

func (r *Renderer) promptControl(ctx context.Context, form *formquery.Form, ctrl schema.Control) error {
	value, checked, _ := form.Raw(ctrl.ID)
	label := displayLabel(ctrl)

	switch ctrl.Kind {
	case schema.KindSelect:
		return r.promptSelect(ctx, form, ctrl, label, value)
	case schema.KindCheckbox:
		resp, err := r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: checked})
		if err != nil {
			return err
		}
		return form.SetChecked(ctrl.ID, resp)
	}

	input := InputConfig{Message: label, Default: value}
	if ctrl.Numeric() {
		input.Help = boundsHelp(ctrl)
		input.Validator = numberValidator(ctrl)
	}
	for {
		resp, err := r.driver.Input(ctx, input)
		if err != nil {
			return err
		}
		if input.Validator != nil {
			if err := input.Validator(resp); err != nil {
				r.info(ctx, r.theme.ErrorPrefix, fmt.Sprintf("Invalid %s: %v", ctrl.ID, err))
				continue
			}
		}
		return form.Set(ctrl.ID, strings.TrimSpace(resp))
	}
}

func (r *Renderer) promptSelect(ctx context.Context, form *formquery.Form, ctrl schema.Control, label, value string) error {
	options := make([]string, 0, len(ctrl.Options))
	defaultIdx := -1
	for i, opt := range ctrl.Options {
		options = append(options, optionLabel(opt))
		if opt.Value == value {
			defaultIdx = i
		}
	}
	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      options,
			DefaultIndex: defaultIdx,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			r.info(ctx, r.theme.ErrorPrefix, fmt.Sprintf("Invalid %s selection", ctrl.ID))
			continue
		}
		return form.Set(ctrl.ID, ctrl.Options[idx].Value)
	}
}

func (r *Renderer) promptGroup(ctx context.Context, form *formquery.Form, name string) error {
	cfg := form.Config()
	ids := cfg.Group(name)
	options := make([]string, 0, len(ids))
	var defaults []int
	for i, id := range ids {
		ctrl, _ := cfg.Control(id)
		options = append(options, displayLabel(ctrl))
		if _, checked, _ := form.Raw(id); checked {
			defaults = append(defaults, i)
		}
	}

	indices, err := r.driver.MultiSelect(ctx, SelectConfig{
		Message:  name,
		Options:  options,
		Defaults: defaults,
	})
	if err != nil {
		return err
	}
	selected := make(map[int]bool, len(indices))
	for _, idx := range indices {
		selected[idx] = true
	}
	for i, id := range ids {
		if err := form.SetChecked(id, selected[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) serialize(cfg *schema.Config, state formquery.State) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatJSON:
		out, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode json: %w", err)
		}
		return out, nil
	case OutputFormatPrettyText:
		return prettyState(state), nil
	default:
		return []byte(formquery.Search(cfg, state)), nil
	}
}

func (r *Renderer) info(ctx context.Context, prefix, msg string) {
	_ = r.driver.Info(ctx, prefix+msg)
}

func prettyState(state formquery.State) []byte {
	keys := make([]string, 0, len(state.Values))
	for k := range state.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := state.Values[k]
		if list, ok := v.([]string); ok {
			v = strings.Join(list, ", ")
		}
		fmt.Fprintf(&b, "%s: %v\n", k, v)
	}

	fields := make([]string, 0, len(state.Range))
	for f := range state.Range {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		rng := state.Range[f]
		fmt.Fprintf(&b, "%s: %s - %s\n", f, formatFloat(rng.Min), formatFloat(rng.Max))
	}
	return []byte(b.String())
}

func numberValidator(ctrl schema.Control) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("%q is not a number", s)
		}
		if ctrl.Min != nil && f < *ctrl.Min {
			return fmt.Errorf("must be >= %s", formatFloat(*ctrl.Min))
		}
		if ctrl.Max != nil && f > *ctrl.Max {
			return fmt.Errorf("must be <= %s", formatFloat(*ctrl.Max))
		}
		return nil
	}
}

func boundsHelp(ctrl schema.Control) string {
	switch {
	case ctrl.Min != nil && ctrl.Max != nil:
		return fmt.Sprintf("%s to %s", formatFloat(*ctrl.Min), formatFloat(*ctrl.Max))
	case ctrl.Min != nil:
		return ">= " + formatFloat(*ctrl.Min)
	case ctrl.Max != nil:
		return "<= " + formatFloat(*ctrl.Max)
	}
	return ""
}

func displayLabel(ctrl schema.Control) string {
	if ctrl.Label != "" {
		return ctrl.Label
	}
	return ctrl.ID
}

func optionLabel(opt schema.OptionConfig) string {
	switch {
	case opt.Label != "":
		return opt.Label
	case opt.Value == "":
		return "(any)"
	}
	return opt.Value
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
