package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-formquery/pkg/render"
	rendertemplate "github.com/goliatone/go-formquery/pkg/render/template"
	gotemplate "github.com/goliatone/go-formquery/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formquery/pkg/schema"
)

const pageTemplate = "page"

// DefaultHLSScript is the hls.js build loaded for clients without native
// HLS playback.
const DefaultHLSScript = "https://cdn.jsdelivr.net/npm/hls.js@1/dist/hls.min.js"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	themes           *Themes
	hlsScript        string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithThemes replaces the bundled theme manifest.
func WithThemes(themes *Themes) Option {
	return func(cfg *config) {
		if themes != nil {
			cfg.themes = themes
		}
	}
}

// WithHLSScript overrides the URL of the hls.js script. An empty url keeps
// the default.
func WithHLSScript(url string) Option {
	return func(cfg *config) {
		if url != "" {
			cfg.hlsScript = url
		}
	}
}

// Renderer draws the listing page as HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	themes    *Themes
	hlsScript string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), hlsScript: DefaultHLSScript}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	themes := cfg.themes
	if themes == nil {
		var err error
		if themes, err = NewThemes(); err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
	}

	return &Renderer{templates: renderer, themes: themes, hlsScript: cfg.hlsScript}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, view render.View) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	data, err := r.context(view)
	if err != nil {
		return nil, err
	}
	result, err := r.templates.RenderTemplate(pageTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) context(view render.View) (map[string]any, error) {
	sel, err := r.themes.Select(view.Theme, view.Page.View)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}
	themeCfg := r.themes.Config(sel)

	controls := view.Controls()
	for i := range controls {
		if controls[i].Kind == schema.KindText {
			controls[i].Value = sanitizeText(controls[i].Value)
		}
	}

	items := make([]map[string]any, 0, len(view.Items))
	for _, item := range view.Items {
		entry := map[string]any{
			"id":     item.ID,
			"title":  sanitizeText(item.Title),
			"url":    sanitizeURL(item.URL),
			"poster": sanitizeURL(item.Poster),
		}
		if stream, ok := view.Streams[item.URL]; ok {
			entry["stream"] = sanitizeURL(stream)
		}
		items = append(items, entry)
	}

	rejected := make([]map[string]string, 0, len(view.Rejected))
	for _, rej := range view.Rejected {
		rejected = append(rejected, map[string]string{
			"token":  sanitizeText(rej.Token),
			"reason": rej.Reason,
		})
	}

	data := map[string]any{
		"title":    sanitizeText(view.Title),
		"search":   view.Search,
		"controls": controls,
		"rejected": rejected,
		"items":    items,
		"page": map[string]any{
			"view":       view.Page.View,
			"order":      view.Page.Order,
			"expandable": view.Page.Expandable,
		},
		"theme": map[string]any{
			"name":    themeCfg.Theme,
			"variant": themeCfg.Variant,
			"style":   cssVarsStyle(themeCfg.CSSVars),
		},
		"stylesheet": assetURL(themeCfg.AssetURL, "stylesheet"),
		"script":     assetURL(themeCfg.AssetURL, "script"),
		"hls":        r.hlsScript,
	}
	if view.Player != nil {
		p := *view.Player
		p.Source = sanitizeURL(p.Source)
		data["player"] = p
		data["unmuteOn"] = strings.Join(p.UnmuteOn, " ")
	}
	return data, nil
}

func assetURL(resolve func(string) string, key string) string {
	if resolve == nil {
		return ""
	}
	return resolve(key)
}
