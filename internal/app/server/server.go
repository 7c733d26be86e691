package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"

	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/hrdata"
	"github.com/mohazard555/sam-hr1993-sub000/internal/domain/payroll"
	"github.com/mohazard555/sam-hr1993-sub000/internal/platform/config"
	"github.com/mohazard555/sam-hr1993-sub000/internal/platform/db"
	"github.com/mohazard555/sam-hr1993-sub000/internal/platform/jobs"
	"github.com/mohazard555/sam-hr1993-sub000/internal/platform/logging"
	"github.com/mohazard555/sam-hr1993-sub000/internal/platform/metrics"
	"github.com/mohazard555/sam-hr1993-sub000/internal/transport/http/api"
	payrollhandler "github.com/mohazard555/sam-hr1993-sub000/internal/transport/http/handlers/payroll"
	recordshandler "github.com/mohazard555/sam-hr1993-sub000/internal/transport/http/handlers/records"
	"github.com/mohazard555/sam-hr1993-sub000/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Store   hrdata.Store
	Payroll *payroll.Service
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	Router  http.Handler

	cancel context.CancelFunc
}

// New wires the store, services, background jobs and router. Without a
// DATABASE_URL the app keeps everything in memory.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.Environment)
	slog.SetDefault(logger)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	collector := metrics.New()
	payrollService := payroll.NewService(store, collector)
	jobService := jobs.New(payrollService, cfg.AutoArchiveInterval, cfg.JobQueueSize)

	jobCtx, cancel := context.WithCancel(context.Background())
	jobService.Start(jobCtx)

	app := &App{
		Config:  cfg,
		Logger:  logger,
		Store:   store,
		Payroll: payrollService,
		Jobs:    jobService,
		Metrics: collector,
		cancel:  cancel,
	}
	app.Router = app.routes()
	return app, nil
}

func openStore(ctx context.Context, cfg config.Config) (hrdata.Store, error) {
	if !cfg.UsesDatabase() {
		slog.Info("DATABASE_URL not set, using in-memory store")
		return hrdata.NewMemoryStore(), nil
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	return hrdata.NewPGStore(pool), nil
}

func (a *App) routes() http.Handler {
	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.Config.CORSAllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader, "Content-Disposition"},
		MaxAge:           300,
	}))
	router.Use(httplog.RequestLogger(a.Logger, logging.AccessLogOptions(a.Config.LogLevel)))
	router.Use(middleware.RequestID)
	if a.Config.MetricsEnabled {
		router.Use(middleware.Metrics(a.Metrics))
	}
	router.Use(chiMiddleware.CleanPath)
	router.Use(chiMiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(a.Config.Environment == "production"))
	router.Use(middleware.BodyLimit(a.Config.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Payroll.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if a.Config.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		payrollhandler.NewHandler(a.Payroll, a.Jobs).RegisterRoutes(r)
		recordshandler.NewHandler(a.Store).RegisterRoutes(r)
	})

	return router
}

func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.Store != nil {
		a.Store.Close()
	}
}

// Run loads configuration, serves until SIGINT/SIGTERM and shuts down
// gracefully.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("payroll server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	slog.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
