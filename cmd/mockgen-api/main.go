package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/mmrzaf/mockgen/internal/api"
	"github.com/mmrzaf/mockgen/internal/app"
	"github.com/mmrzaf/mockgen/internal/config"
	"github.com/mmrzaf/mockgen/internal/generators"
	"github.com/mmrzaf/mockgen/internal/infra/repos/fixtures"
	"github.com/mmrzaf/mockgen/internal/infra/repos/schemas"
	"github.com/mmrzaf/mockgen/internal/logging"
	"github.com/mmrzaf/mockgen/internal/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewLogger("error").Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "load_config"})
		os.Exit(1)
	}

	schemasDir := flag.String("schemas-dir", cfg.SchemasDir, "Schemas directory")
	fixturesDB := flag.String("db", cfg.FixturesDB, "Fixture store (SQLite path or postgres:// DSN)")
	bindAddr := flag.String("bind", cfg.BindAddr, "Bind address")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level")
	elementCount := flag.Int("default-elements", cfg.ElementCount, "Default container size")
	maxDepth := flag.Int("max-depth", cfg.MaxDepth, "Nesting limit, 0 for unbounded")
	timeWindow := flag.String("time-window", cfg.TimeWindow, "Relative start of the timestamp window")
	flag.Parse()

	logger := logging.NewLogger(*logLevel).WithComponent("api_main")

	ts, err := generators.NewTimestampGenerator(*timeWindow)
	if err != nil {
		logger.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "time_window"})
		os.Exit(1)
	}
	genRegistry := registry.NewDefaultGeneratorRegistry(ts)

	fixtureRepo, err := fixtures.Open(*fixturesDB)
	if err != nil {
		logger.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "init_fixture_repo"})
		os.Exit(1)
	}
	defer fixtureRepo.Close()
	logger.Infow("startup.fixture_store", map[string]any{"dsn": fixtures.RedactDSN(*fixturesDB)})

	fixtureService := app.NewFixtureService(
		schemas.NewFileRepository(*schemasDir),
		fixtureRepo,
		genRegistry,
		logger,
		app.Options{ElementCount: *elementCount, MaxDepth: *maxDepth},
	)

	handler := api.NewHandler(fixtureService)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/schemas", handler.ListSchemas)
	mux.HandleFunc("GET /api/v1/schemas/{id}", handler.GetSchema)

	mux.HandleFunc("GET /api/v1/generators", handler.ListGenerators)

	mux.HandleFunc("POST /api/v1/fixtures", handler.CreateFixture)
	mux.HandleFunc("POST /api/v1/fixtures/preview", handler.PreviewFixture)
	mux.HandleFunc("GET /api/v1/fixtures", handler.ListFixtures)
	mux.HandleFunc("GET /api/v1/fixtures/{id}", handler.GetFixture)
	mux.HandleFunc("DELETE /api/v1/fixtures/{id}", handler.DeleteFixture)

	logger.Infow("startup.listening", map[string]any{"bind": *bindAddr})
	if err := http.ListenAndServe(*bindAddr, loggingMiddleware(logger.WithComponent("http"), mux)); err != nil {
		logger.Errorw("startup.failed", map[string]any{"error": err.Error(), "stage": "listen"})
		os.Exit(1)
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		fields := map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      sw.status,
			"duration_ms": time.Since(started).Milliseconds(),
			"remote":      r.RemoteAddr,
		}
		if sw.status >= 500 {
			logger.Errorw("request.completed", fields)
			return
		}
		if sw.status >= 400 {
			logger.Warnw("request.completed", fields)
			return
		}
		logger.Infow("request.completed", fields)
	})
}
