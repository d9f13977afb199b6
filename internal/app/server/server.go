package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hris/internal/api"
	"hris/internal/bulkimport"
	"hris/internal/certificate"
	"hris/internal/config"
	"hris/internal/dateutil"
	"hris/internal/db"
	"hris/internal/document"
	"hris/internal/employee"
	"hris/internal/export"
	"hris/internal/history"
	"hris/internal/middleware"
	"hris/internal/sweep"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
}

// New connects, optionally migrates, and assembles the router. Callers own
// the returned pool and close it when done.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect failed: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
	}

	return &App{
		Config: cfg,
		DB:     pool,
		Router: NewRouter(pool, cfg),
	}, nil
}

// NewRouter wires every project-scoped handler under /api/{project}. Tests
// feed it a mock pool and drive the routes through httptest.
func NewRouter(pool db.Pool, cfg config.Config) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Identity(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		pinger, ok := pool.(interface{ Ping(ctx context.Context) error })
		if !ok {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ready"))
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pinger.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	// Cross-project sweep, for schedulers that do not care which project
	// a contract belongs to.
	router.Get("/api/check-expired", func(w http.ResponseWriter, r *http.Request) {
		results, err := sweep.RunAll(r.Context(), pool, dateutil.Today())
		if err != nil {
			employee.WriteError(w, r, err)
			return
		}
		api.Success(w, "expired contracts marked", results)
	})

	router.Route("/api/{project}", func(r chi.Router) {
		employee.NewHandler(pool).RegisterRoutes(r)
		history.NewHandler(pool).RegisterRoutes(r)
		certificate.NewHandler(pool).RegisterRoutes(r)

		storage := document.NewStorage(cfg.UploadDir)
		document.NewHandler(pool, storage, cfg.MaxUploadBytes).RegisterRoutes(r)

		bulkimport.NewHandler(pool, cfg.MaxUploadBytes).RegisterRoutes(r)
		sweep.NewHandler(pool).RegisterRoutes(r)
		export.NewHandler(pool).RegisterRoutes(r)
	})

	return router
}

// Run serves until the listener fails. Used by cmd/server.
func (a *App) Run() error {
	return http.ListenAndServe(a.Config.Addr, a.Router)
}
