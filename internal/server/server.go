package server

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/goliatone/go-formquery/pkg/datastore"
	"github.com/goliatone/go-formquery/pkg/listing"
	"github.com/goliatone/go-formquery/pkg/render"
	"github.com/goliatone/go-formquery/pkg/schema"
)

// PlayParam is the query key naming the item URL to open in the player.
const PlayParam = "play"

// Config wires the server dependencies. Schema and Renderers are required.
type Config struct {
	Schema    *schema.Config
	Catalog   listing.Catalog
	Store     *datastore.Store
	Renderers *render.Registry
	// DefaultRenderer answers requests that do not ask for JSON.
	DefaultRenderer string
	Assets          fs.FS
	Title           string
	Version         string
}

// Server holds the routes and their dependencies.
type Server struct {
	cfg    Config
	router *mux.Router
}

// New validates cfg and builds the router.
func New(cfg Config) (*Server, error) {
	if cfg.Schema == nil {
		return nil, errors.New("server: schema is required")
	}
	if cfg.Renderers == nil {
		return nil, errors.New("server: renderer registry is required")
	}
	if cfg.DefaultRenderer == "" {
		cfg.DefaultRenderer = "vanilla"
	}
	if !cfg.Renderers.Has(cfg.DefaultRenderer) {
		return nil, errors.New("server: default renderer " + cfg.DefaultRenderer + " not registered")
	}
	if cfg.Title == "" {
		cfg.Title = "Películas"
	}

	s := &Server{cfg: cfg}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(Logger(DefaultLoggingConfig()), Metrics(DefaultMetricsConfig()))

	r.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.state).Methods(http.MethodGet)
	api.HandleFunc("/query", s.query).Methods(http.MethodPost)
	api.HandleFunc("/streams", s.streams).Methods(http.MethodGet)

	if s.cfg.Assets != nil {
		r.PathPrefix("/runtime/").Handler(
			http.StripPrefix("/runtime/", http.FileServerFS(s.cfg.Assets)),
		).Methods(http.MethodGet)
	}

	r.HandleFunc("/", s.page).Methods(http.MethodGet)
	return r
}
