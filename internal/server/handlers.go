package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/goliatone/go-formquery/internal/logging"
	"github.com/goliatone/go-formquery/pkg/formquery"
	"github.com/goliatone/go-formquery/pkg/listing"
	"github.com/goliatone/go-formquery/pkg/player"
	"github.com/goliatone/go-formquery/pkg/render"
	"github.com/goliatone/go-formquery/pkg/schema"
)

// StateResponse is the body of GET /api/state.
type StateResponse struct {
	Search   string                `json:"search"`
	State    formquery.State       `json:"state"`
	Rejected []formquery.Rejection `json:"rejected"`
}

// QueryResponse is the body of POST /api/query.
type QueryResponse struct {
	Search string `json:"search"`
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg.Schema
	form := formquery.NewForm(cfg)
	rejected := form.Load(r.URL.RawQuery)
	state := form.Read()
	if v, ok := stateValue(r, cfg, PlayParam); ok {
		state.Values[PlayParam] = v
	}
	search := formquery.Search(cfg, state)

	if search != canonicalSearch(r) {
		target := r.URL.Path + search
		logging.Debug("server: redirecting %q to %q", r.URL.RequestURI(), target)
		setRejectedFlash(w, rejected)
		http.Redirect(w, r, target, http.StatusFound)
		return
	}
	if flashed := takeRejectedFlash(w, r); len(rejected) == 0 {
		rejected = flashed
	}

	tracker := listing.NewTracker(cfg, s.cfg.Catalog)
	tracker.Apply(state)
	items := tracker.Items()

	view := render.View{
		Title:    s.cfg.Title,
		Form:     form,
		Search:   search,
		Rejected: rejected,
		Page:     tracker.Page(),
		Items:    items,
		Streams:  s.resolveStreams(r, items),
	}

	if play, ok := state.Values[PlayParam].(string); ok {
		src := play
		if stream, found := view.Streams[play]; found {
			src = stream
		}
		overlay := player.NewOverlay(player.DetectCapabilities(r.UserAgent()))
		view.Player = overlay.Mount(src, false)
	}

	renderer := s.negotiate(r)
	body, err := renderer.Render(r.Context(), view)
	if err != nil {
		logging.Error("server: render %s: %v", renderer.Name(), err)
		writeJSONError(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", renderer.ContentType())
	if _, err := w.Write(body); err != nil {
		logging.Warn("server: write page: %v", err)
	}
}

func (s *Server) state(w http.ResponseWriter, r *http.Request) {
	state, rejected := formquery.Decode(s.cfg.Schema, r.URL.RawQuery)
	if rejected == nil {
		rejected = []formquery.Rejection{}
	}
	writeJSONResponse(w, http.StatusOK, StateResponse{
		Search:   formquery.Search(s.cfg.Schema, state),
		State:    state,
		Rejected: rejected,
	})
}

func (s *Server) query(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSONError(w, "invalid form body", http.StatusBadRequest)
		return
	}

	form := formquery.NewForm(s.cfg.Schema)
	for _, ctrl := range s.cfg.Schema.Controls() {
		if ctrl.Kind == schema.KindCheckbox {
			_ = form.SetChecked(ctrl.ID, r.PostForm.Has(ctrl.ID))
			continue
		}
		if r.PostForm.Has(ctrl.ID) {
			_ = form.Set(ctrl.ID, r.PostForm.Get(ctrl.ID))
		}
	}

	writeJSONResponse(w, http.StatusOK, QueryResponse{
		Search: formquery.Search(s.cfg.Schema, form.Read()),
	})
}

func (s *Server) streams(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Store == nil {
		writeJSONError(w, "stream store not configured", http.StatusServiceUnavailable)
		return
	}
	urls := r.URL.Query()["url"]
	if len(urls) == 0 {
		writeJSONError(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	found, err := s.cfg.Store.ResolveStreams(r.Context(), urls)
	if err != nil {
		logging.Error("server: resolve streams: %v", err)
		writeJSONError(w, "stream lookup failed", http.StatusInternalServerError)
		return
	}
	out := make(map[string]string, len(found))
	for url, stream := range found {
		out[url] = stream.M3U8
	}
	writeJSONResponse(w, http.StatusOK, out)
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "healthy", "version": s.cfg.Version}
	if s.cfg.Store != nil {
		if err := s.cfg.Store.DB().PingContext(r.Context()); err != nil {
			status["status"] = "degraded"
			writeJSONResponse(w, http.StatusServiceUnavailable, status)
			return
		}
	}
	writeJSONResponse(w, http.StatusOK, status)
}

// negotiate picks the JSON renderer for JSON clients and the default one
// otherwise.
func (s *Server) negotiate(r *http.Request) render.Renderer {
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		if renderer, ok := s.cfg.Renderers.ForContentType("application/json"); ok {
			return renderer
		}
	}
	renderer, _ := s.cfg.Renderers.Get(s.cfg.DefaultRenderer)
	return renderer
}

func (s *Server) resolveStreams(r *http.Request, items []listing.Item) map[string]string {
	if s.cfg.Store == nil || len(items) == 0 {
		return nil
	}
	urls := make([]string, 0, len(items))
	for _, item := range items {
		urls = append(urls, item.URL)
	}
	found, err := s.cfg.Store.ResolveStreams(r.Context(), urls)
	if err != nil {
		logging.Warn("server: resolve streams: %v", err)
		return nil
	}
	out := make(map[string]string, len(found))
	for url, stream := range found {
		out[url] = stream.M3U8
	}
	return out
}

// stateValue reads a key the schema has no control for, keeping it in the
// canonical query.
func stateValue(r *http.Request, cfg *schema.Config, key string) (string, bool) {
	if _, ok := cfg.Control(key); ok {
		return "", false
	}
	state, _ := formquery.Decode(cfg, r.URL.RawQuery)
	v, ok := state.Values[key].(string)
	return v, ok && v != ""
}

func canonicalSearch(r *http.Request) string {
	if r.URL.RawQuery == "" {
		return ""
	}
	return "?" + r.URL.RawQuery
}

func writeJSONResponse(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("server: encode JSON response: %v", err)
	}
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	writeJSONResponse(w, status, map[string]string{"error": message})
}
