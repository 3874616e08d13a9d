package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	formquery "github.com/goliatone/go-formquery"
	"github.com/goliatone/go-formquery/internal/logging"
	"github.com/goliatone/go-formquery/internal/server"
	"github.com/goliatone/go-formquery/pkg/datastore"
	"github.com/goliatone/go-formquery/pkg/listing"
	"github.com/goliatone/go-formquery/pkg/render"
	"github.com/goliatone/go-formquery/pkg/renderers/vanilla"
)

var version = "dev"

func main() {
	addr := flag.String("addr", envOr("FORMQUERY_ADDR", ":8080"), "listen address")
	schemaRef := flag.String("schema", os.Getenv("FORMQUERY_SCHEMA"), "schema file, directory, OpenAPI document or URL")
	opID := flag.String("operation", os.Getenv("FORMQUERY_OPERATION"), "OpenAPI operation ID")
	catalogPath := flag.String("catalog", os.Getenv("FORMQUERY_CATALOG"), "listing catalog (JSON or YAML)")
	dbPath := flag.String("db", os.Getenv("FORMQUERY_DB"), "SQLite database with the m3u8 table")
	templatesDir := flag.String("templates", os.Getenv("FORMQUERY_TEMPLATES"), "directory overriding the embedded templates")
	title := flag.String("title", envOr("FORMQUERY_TITLE", "Películas"), "page title")
	hlsScript := flag.String("hls-script", os.Getenv("FORMQUERY_HLS_SCRIPT"), "hls.js URL for clients without native HLS")
	flag.Parse()

	ctx := context.Background()

	cfg, err := formquery.ResolveSchema(ctx, *schemaRef, *opID)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}

	var catalog listing.Catalog
	if *catalogPath != "" {
		catalog, err = listing.LoadCatalog(os.DirFS(filepath.Dir(*catalogPath)), filepath.Base(*catalogPath))
		if err != nil {
			log.Fatalf("Failed to load catalog: %v", err)
		}
	}

	var store *datastore.Store
	if *dbPath != "" {
		store, err = datastore.Open(ctx, *dbPath, datastore.WithOnError(func(err error) {
			logging.Error("datastore: %v", err)
		}))
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer store.Close()
	}

	templates := vanilla.WithTemplatesFS(formquery.EmbeddedTemplates())
	if *templatesDir != "" {
		templates = vanilla.WithTemplatesDir(*templatesDir)
	}
	html, err := vanilla.New(templates, vanilla.WithHLSScript(*hlsScript))
	if err != nil {
		log.Fatalf("Failed to configure renderer: %v", err)
	}
	renderers := render.NewRegistry()
	for _, r := range []render.Renderer{html, render.JSON{}} {
		if err := renderers.Register(r); err != nil {
			log.Fatalf("Failed to register renderer: %v", err)
		}
	}

	srv, err := server.New(server.Config{
		Schema:          cfg,
		Catalog:         catalog,
		Store:           store,
		Renderers:       renderers,
		DefaultRenderer: html.Name(),
		Assets:          formquery.RuntimeAssetsFS(),
		Title:           *title,
		Version:         version,
	})
	if err != nil {
		log.Fatalf("Failed to configure server: %v", err)
	}

	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go handleShutdown(httpServer)

	logging.Info("formquery-server %s listening on %s", version, *addr)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server failed: %v", err)
	}
}

func handleShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logging.Info("received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("shutdown: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
