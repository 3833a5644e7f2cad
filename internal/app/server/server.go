package server

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"leavehub/internal/domain/attendance"
	"leavehub/internal/domain/geo"
	"leavehub/internal/domain/idempotency"
	"leavehub/internal/domain/leave"
	"leavehub/internal/domain/notifications"
	"leavehub/internal/domain/reports"
	"leavehub/internal/platform/config"
	"leavehub/internal/platform/db"
	"leavehub/internal/platform/email"
	"leavehub/internal/platform/jobs"
	"leavehub/internal/platform/metrics"
	"leavehub/internal/transport/http/api"
	attendancehandler "leavehub/internal/transport/http/handlers/attendance"
	leavehandler "leavehub/internal/transport/http/handlers/leave"
	reportshandler "leavehub/internal/transport/http/handlers/reports"
	"leavehub/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	Pool   *pgxpool.Pool
	Router http.Handler

	// Mailer overrides the SMTP mailer when set before New wires services.
	Mailer notifications.Mailer

	cancel context.CancelFunc
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}
	if err := app.init(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

// NewWithMailer is New with an injected mailer, used by tests to capture
// outbound notifications.
func NewWithMailer(ctx context.Context, cfg config.Config, mailer notifications.Mailer) (*App, error) {
	app := &App{Config: cfg, Mailer: mailer}
	if err := app.init(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

func (a *App) init(ctx context.Context) error {
	cfg := a.Config

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return err
	}
	a.Pool = pool

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			pool.Close()
			return err
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool); err != nil {
			pool.Close()
			return err
		}
	}

	leaveStore := leave.NewStore(pool)
	ledger := leave.NewLedger(pool)
	leaveSvc := leave.NewService(leaveStore, ledger, leave.NewValidator(leaveStore))

	attendanceSvc := attendance.NewService(attendance.NewStore(pool), geo.Fence{
		Enabled:      cfg.GeoEnabled,
		Lat:          cfg.GeoOfficeLat,
		Lng:          cfg.GeoOfficeLng,
		RadiusMeters: cfg.GeoRadiusMeters,
	})

	reportSvc := reports.NewService(reports.NewStore(pool))

	guard := idempotency.NewGuard(idempotency.NewPGStore(pool), cfg.IdempotencyTTL)

	jobsCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	jobsSvc := jobs.New(pool, cfg, leaveSvc, guard)
	jobsSvc.Start(jobsCtx)

	mailer := a.Mailer
	if mailer == nil {
		mailer = email.New(cfg)
	}
	leaveSvc.Notify = notifications.NewService(mailer, jobsSvc, cfg.EmailFrom)

	collector := metrics.New()

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Idempotency-Key", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Total-Count", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Metrics(collector))

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
		r.Use(middleware.Auth(cfg.JWTSecret))
		r.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
		r.Use(middleware.Idempotency(guard, collector))

		leavehandler.NewHandler(leaveSvc).RegisterRoutes(r)
		attendancehandler.NewHandler(attendanceSvc).RegisterRoutes(r)
		reportshandler.NewHandler(reportSvc).RegisterRoutes(r)
	})

	a.Router = router
	return nil
}

func (a *App) Close() {
	if a.cancel != nil {
		a.cancel()
	}
	if a.Pool != nil {
		a.Pool.Close()
	}
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	app, err := New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	slog.Info("server listening", "addr", cfg.Addr, "env", cfg.Environment)
	if err := http.ListenAndServe(cfg.Addr, app.Router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
