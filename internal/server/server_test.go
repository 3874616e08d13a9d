package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formquery/internal/server"
	"github.com/goliatone/go-formquery/pkg/datastore"
	"github.com/goliatone/go-formquery/pkg/formquery"
	"github.com/goliatone/go-formquery/pkg/listing"
	"github.com/goliatone/go-formquery/pkg/render"
	"github.com/goliatone/go-formquery/pkg/renderers/vanilla"
	"github.com/goliatone/go-formquery/pkg/testsupport"
)

const catalogYAML = `
items:
  - { id: f1, title: Nosferatu, url: "https://example.test/play/1/" }
  - { id: f2, title: Metropolis, url: "https://example.test/play/2/" }
  - { id: f3, title: Arrebato, url: "https://example.test/play/3/" }
orders:
  titulo: [f3, f2, f1]
`

func newServer(t *testing.T, withStore bool) *httptest.Server {
	t.Helper()

	cat, err := listing.ParseCatalog([]byte(catalogYAML), "catalog.yaml")
	if err != nil {
		t.Fatalf("parse catalog: %v", err)
	}
	html, err := vanilla.New()
	if err != nil {
		t.Fatalf("vanilla: %v", err)
	}
	reg := render.NewRegistry()
	for _, r := range []render.Renderer{html, render.JSON{}} {
		if err := reg.Register(r); err != nil {
			t.Fatalf("register %s: %v", r.Name(), err)
		}
	}

	cfg := server.Config{
		Schema:    testsupport.MustDefaultSchema(t),
		Catalog:   cat,
		Renderers: reg,
		Assets:    vanilla.AssetsFS(),
		Version:   "test",
	}
	if withStore {
		store, err := datastore.Open(context.Background(), ":memory:")
		if err != nil {
			t.Fatalf("open store: %v", err)
		}
		t.Cleanup(func() { _ = store.Close() })
		if err := store.UpsertStream(context.Background(), "https://example.test/play/1/", "https://cdn.test/1.m3u8"); err != nil {
			t.Fatalf("upsert stream: %v", err)
		}
		cfg.Store = store
	}

	srv, err := server.New(cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func noRedirect(t *testing.T) *http.Client {
	t.Helper()
	return &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
}

func get(t *testing.T, client *http.Client, rawURL string, header map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", rawURL, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestPage_RedirectsToCanonicalQuery(t *testing.T) {
	ts := newServer(t, false)
	client := noRedirect(t)

	cases := map[string]string{
		"/?view=cuadricula&order=publicacion": "/?cuadricula",
		"/?lista":                             "/",
		"/?year=1920-2025&genero=drama&&":     "/?genero=drama",
		"/?duracion=0-90":                     "/?cortas",
	}
	for path, want := range cases {
		resp := get(t, client, ts.URL+path, nil)
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("%s: expected 302, got %d", path, resp.StatusCode)
		}
		if got := resp.Header.Get("Location"); got != want {
			t.Fatalf("%s: expected redirect to %q, got %q", path, want, got)
		}
	}
}

func TestPage_ShowsRejectedTokensAfterRedirect(t *testing.T) {
	ts := newServer(t, false)
	client := noRedirect(t)

	resp := get(t, client, ts.URL+"/?genero=drama&a=b=c", nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("expected 302, got %d", resp.StatusCode)
	}
	var flash *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == server.RejectedCookie {
			flash = c
		}
	}
	if flash == nil {
		t.Fatalf("expected the redirect to carry the rejected tokens")
	}

	resp = get(t, client, ts.URL+resp.Header.Get("Location"), map[string]string{
		"Cookie": flash.Name + "=" + flash.Value,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	cleared := false
	for _, c := range resp.Cookies() {
		if c.Name == server.RejectedCookie && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatalf("expected the rejected tokens cookie to be cleared")
	}
	if body := readBody(t, resp); !strings.Contains(body, `data-reason="multiple-equals">a=b=c</li>`) {
		t.Fatalf("expected rejected token on the canonical page\n%s", body)
	}

	resp = get(t, client, ts.URL+"/?genero=drama", nil)
	if body := readBody(t, resp); strings.Contains(body, "formquery-rejected") {
		t.Fatalf("rejected tokens must only be shown once")
	}
}

func TestPage_RendersCanonicalQuery(t *testing.T) {
	ts := newServer(t, true)

	resp := get(t, noRedirect(t), ts.URL+"/?cuadricula&titulo", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := readBody(t, resp)
	for _, want := range []string{
		`class="formquery-page cuadricula"`,
		`class="formquery-items" data-expandable>`,
		`data-id="f1" data-stream="https://cdn.test/1.m3u8"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q", want)
		}
	}
	if strings.Index(body, `data-id="f3"`) > strings.Index(body, `data-id="f1"`) {
		t.Fatalf("expected titulo order to list f3 before f1")
	}
}

func TestPage_JSONNegotiation(t *testing.T) {
	ts := newServer(t, false)

	resp := get(t, noRedirect(t), ts.URL+"/?titulo", map[string]string{"Accept": "application/json"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var payload render.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Search != "?titulo" {
		t.Fatalf("unexpected search %q", payload.Search)
	}
	if diff := cmp.Diff([]string{"f3", "f2", "f1"}, payload.Page.Order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestPage_PlayMountsPlayer(t *testing.T) {
	ts := newServer(t, true)

	play := url.QueryEscape("https://example.test/play/1/")
	resp := get(t, noRedirect(t), ts.URL+"/?play="+play, map[string]string{
		"Accept":     "application/json",
		"User-Agent": "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Safari/604.1",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", resp.StatusCode, resp.Header.Get("Location"))
	}
	var payload render.Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Player == nil {
		t.Fatalf("expected a mounted player")
	}
	if payload.Player.Source != "https://cdn.test/1.m3u8" || !payload.Player.Muted {
		t.Fatalf("unexpected player %+v", payload.Player)
	}
}

func TestPage_PlayUsesScriptEngineOnChromium(t *testing.T) {
	ts := newServer(t, true)

	play := url.QueryEscape("https://example.test/play/1/")
	resp := get(t, noRedirect(t), ts.URL+"/?play="+play, map[string]string{
		"User-Agent": "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	for _, want := range []string{
		`<script src="` + vanilla.DefaultHLSScript + `" defer></script>`,
		`data-engine="hls.js" data-src="https://cdn.test/1.m3u8"`,
		`muted data-unmute-on="mousemove keydown click"`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected body to contain %q\n%s", want, body)
		}
	}
}

func TestAPIState(t *testing.T) {
	ts := newServer(t, false)

	resp := get(t, http.DefaultClient, ts.URL+"/api/state?cuadricula&a=b=c&year=1950", nil)
	var got server.StateResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Search != "?cuadricula&year=1950" {
		t.Fatalf("unexpected search %q", got.Search)
	}
	if got.State.Values["view"] != "cuadricula" {
		t.Fatalf("unexpected values %+v", got.State.Values)
	}
	if diff := cmp.Diff(formquery.Range{Min: 1950, Max: 2025}, got.State.Range["year"]); diff != "" {
		t.Fatalf("range mismatch (-want +got):\n%s", diff)
	}
	want := []formquery.Rejection{{Token: "a=b=c", Reason: formquery.ReasonMultipleEquals}}
	if diff := cmp.Diff(want, got.Rejected); diff != "" {
		t.Fatalf("rejections mismatch (-want +got):\n%s", diff)
	}
}

func TestAPIQuery(t *testing.T) {
	ts := newServer(t, false)

	form := url.Values{
		"view":         {"cuadricula"},
		"provider":     {"rtve"},
		"q":            {"hola mundo"},
		"gen-drama":    {"on"},
		"year_min":     {"1950"},
		"year_max":     {"1960"},
		"duracion_min": {"0"},
	}
	resp, err := http.PostForm(ts.URL+"/api/query", form)
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	var got server.QueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := "?cuadricula&provider=rtve&q=hola%20mundo&genero=drama&year=1950-1960"
	if got.Search != want {
		t.Fatalf("unexpected search\nwant: %s\n got: %s", want, got.Search)
	}
}

func TestAPIStreams(t *testing.T) {
	ts := newServer(t, true)

	u := ts.URL + "/api/streams?url=" + url.QueryEscape("https://example.test/play/1/") +
		"&url=" + url.QueryEscape("https://example.test/play/9/")
	resp := get(t, http.DefaultClient, u, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]string{"https://example.test/play/1/": "https://cdn.test/1.m3u8"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("streams mismatch (-want +got):\n%s", diff)
	}

	if resp := get(t, http.DefaultClient, ts.URL+"/api/streams", nil); resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without url, got %d", resp.StatusCode)
	}
	noStore := newServer(t, false)
	if resp := get(t, http.DefaultClient, noStore.URL+"/api/streams?url=x", nil); resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without store, got %d", resp.StatusCode)
	}
}

func TestHealthMetricsAndAssets(t *testing.T) {
	ts := newServer(t, true)

	for path, wantType := range map[string]string{
		"/healthz":               "application/json",
		"/metrics":               "text/plain",
		"/runtime/formquery.css": "text/css",
		"/runtime/formquery.js":  "text/javascript",
	} {
		resp := get(t, http.DefaultClient, ts.URL+path, nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, wantType) {
			t.Fatalf("%s: unexpected content type %q", path, ct)
		}
	}
}

func TestNew_RequiresDependencies(t *testing.T) {
	if _, err := server.New(server.Config{}); err == nil {
		t.Fatalf("expected error without schema")
	}
	cfg := server.Config{Schema: testsupport.MustDefaultSchema(t), Renderers: render.NewRegistry()}
	if _, err := server.New(cfg); err == nil {
		t.Fatalf("expected error without the default renderer")
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	var b strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		b.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return b.String()
}
