package render_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formquery/pkg/formquery"
	"github.com/goliatone/go-formquery/pkg/render"
	"github.com/goliatone/go-formquery/pkg/testsupport"
)

type stubRenderer struct {
	name        string
	contentType string
}

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return s.contentType }
func (s stubRenderer) Render(context.Context, render.View) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := render.NewRegistry()
	if err := reg.Register(stubRenderer{name: "html", contentType: "text/html"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.Register(render.JSON{}); err != nil {
		t.Fatalf("register json: %v", err)
	}
	if err := reg.Register(stubRenderer{name: "html"}); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
	if err := reg.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected empty name to fail")
	}

	if diff := cmp.Diff([]string{"html", "json"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !reg.Has("json") || reg.Has("xml") {
		t.Fatalf("unexpected Has results")
	}
	if _, err := reg.Get("xml"); err == nil {
		t.Fatalf("expected missing renderer error")
	}

	r, ok := reg.ForContentType("application/json")
	if !ok || r.Name() != "json" {
		t.Fatalf("expected json renderer for application/json, got %v", r)
	}
	if _, ok := reg.ForContentType("text/csv"); ok {
		t.Fatalf("expected no renderer for text/csv")
	}
}

func TestView_ControlsReflectFormState(t *testing.T) {
	cfg := testsupport.MustDefaultSchema(t)
	form := formquery.NewForm(cfg)
	form.Load("?titulo&provider=rtve&genero=terror")

	controls := render.View{Form: form}.Controls()
	if len(controls) != len(cfg.Controls()) {
		t.Fatalf("expected %d controls, got %d", len(cfg.Controls()), len(controls))
	}

	byID := make(map[string]render.ControlView, len(controls))
	for _, c := range controls {
		byID[c.ID] = c
	}

	order := byID["order"]
	if order.Value != "titulo" || !order.Flag {
		t.Fatalf("unexpected order control %+v", order)
	}
	selected := ""
	for _, opt := range order.Options {
		if opt.Selected {
			selected = opt.Value
		}
	}
	if selected != "titulo" {
		t.Fatalf("expected titulo option selected, got %q", selected)
	}
	if byID["provider"].Value != "rtve" {
		t.Fatalf("unexpected provider %+v", byID["provider"])
	}
	terror := byID["gen-terror"]
	if !terror.Checked || terror.Value != "terror" || terror.Name != "genero" {
		t.Fatalf("unexpected checkbox %+v", terror)
	}
	if byID["gen-drama"].Checked {
		t.Fatalf("gen-drama must stay unchecked")
	}
	if got := byID["year_min"]; got.Min != "1920" || got.Max != "2025" {
		t.Fatalf("unexpected bounds %+v", got)
	}
}

func TestView_WithoutForm(t *testing.T) {
	var v render.View
	if v.Controls() != nil {
		t.Fatalf("expected no controls without a form")
	}
	if !v.State().Empty() {
		t.Fatalf("expected empty state without a form")
	}
}

func TestJSON_Render(t *testing.T) {
	cfg := testsupport.MustDefaultSchema(t)
	form := formquery.NewForm(cfg)
	rejected := form.Load("?cuadricula&=x")
	state := form.Read()

	out, err := render.JSON{}.Render(context.Background(), render.View{
		Form:     form,
		Search:   formquery.Search(cfg, state),
		Rejected: rejected,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	var payload struct {
		Search   string                `json:"search"`
		State    formquery.State       `json:"state"`
		Rejected []formquery.Rejection `json:"rejected"`
		Items    []any                 `json:"items"`
	}
	if err := json.Unmarshal(out, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Search != "?cuadricula" {
		t.Fatalf("unexpected search %q", payload.Search)
	}
	if payload.State.Values["view"] != "cuadricula" {
		t.Fatalf("unexpected state %+v", payload.State.Values)
	}
	want := []formquery.Rejection{{Token: "=x", Reason: formquery.ReasonEmptyKey}}
	if diff := cmp.Diff(want, payload.Rejected); diff != "" {
		t.Fatalf("rejections mismatch (-want +got):\n%s", diff)
	}
	if payload.Items == nil {
		t.Fatalf("items must encode as an empty list")
	}
}
