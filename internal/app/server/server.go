package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobcore/internal/domain/audit"
	"jobcore/internal/domain/employers"
	"jobcore/internal/domain/notifications"
	"jobcore/internal/domain/payroll"
	"jobcore/internal/platform/config"
	"jobcore/internal/platform/db"
	"jobcore/internal/platform/email"
	"jobcore/internal/platform/jobs"
	"jobcore/internal/platform/metrics"
	"jobcore/internal/transport/http/api"
	audithandler "jobcore/internal/transport/http/handlers/audit"
	employershandler "jobcore/internal/transport/http/handlers/employers"
	notificationshandler "jobcore/internal/transport/http/handlers/notifications"
	payrollhandler "jobcore/internal/transport/http/handlers/payroll"
	"jobcore/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *pgxpool.Pool
	Router  http.Handler
	Metrics *metrics.Collector
	Jobs    *jobs.Service
}

// New connects the database, applies migrations, wires every service and
// returns the assembled HTTP application. The background job scheduler is
// started under ctx; cancelling it stops the scheduler.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrations: %w", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}

	collector := metrics.New()

	payrollSvc := payroll.NewService(payroll.NewStore(pool))
	payrollSvc.Metrics = collector
	employersSvc := employers.NewService(employers.NewStore(pool))
	notificationsSvc := notifications.New(notifications.NewStore(pool), email.New(cfg))
	notificationsSvc.DefaultFrom = cfg.EmailFrom
	auditSvc := audit.New(pool)

	jobsSvc := jobs.New(pool, cfg, payrollSvc, notificationsSvc)
	jobsSvc.Start(ctx)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Metrics(collector))
	router.Use(chimw.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.GenerationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		payrollhandler.NewHandler(pool, payrollSvc, jobsSvc).RegisterRoutes(r)
		employershandler.NewHandler(pool, employersSvc, notificationsSvc).RegisterRoutes(r)
		notificationshandler.NewHandler(notificationsSvc).RegisterRoutes(r)
		audithandler.NewHandler(auditSvc).RegisterRoutes(r)
	})

	return &App{
		Config:  cfg,
		DB:      pool,
		Router:  router,
		Metrics: collector,
		Jobs:    jobsSvc,
	}, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}
