// Package server assembles all HTTP handlers and starts the server.
package server

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/matthewbaird/appbuilder/internal/fieldtype"
	"github.com/matthewbaird/appbuilder/internal/handler"
	"github.com/matthewbaird/appbuilder/internal/history"
	"github.com/matthewbaird/appbuilder/internal/wire"
)

//go:embed web/index.html
var indexHTML []byte

// Config holds server configuration.
type Config struct {
	Host      string
	Port      int
	SchemaDir string
	Catalog   *fieldtype.Catalog
	Runner    wire.Runner
	Store     history.Store
	Log       logrus.FieldLogger
}

// NewRouter registers every route.
func NewRouter(cfg Config) http.Handler {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = fieldtype.Default
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(handler.Recovery(log))
	r.Use(handler.Logging(log))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// --- Authoring page ---
	r.Get("/", servePage)
	r.Get("/schema", servePage)

	// --- Schema endpoints ---
	sh := handler.NewSchemaHandler(catalog, cfg.SchemaDir, log)
	r.Get("/api/field-types", sh.FieldTypes)
	r.Get("/api/models", sh.Models)
	r.Get("/api/jsonschema/{kind}", sh.JSONSchema)
	r.HandleFunc("/save-schema/", sh.SaveSchema)
	r.HandleFunc("/save-schema", sh.SaveSchema)

	// --- Run ledger ---
	if cfg.Store != nil {
		rh := handler.NewRunsHandler(cfg.Store)
		r.Get("/api/runs", rh.ListRuns)
		r.Get("/api/runs/{id}", rh.GetRun)
	}

	// --- Live generation ---
	if cfg.Runner != nil {
		r.Get("/ws/generate", wire.NewHandler(cfg.Runner, log).ServeHTTP)
	}
	return r
}

func servePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// Run starts the HTTP server and stops it when ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	log.WithFields(logrus.Fields{"addr": addr, "schema_dir": cfg.SchemaDir}).Info("starting server")

	server := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(cfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve %s: %w", addr, err)
	}
	return nil
}
