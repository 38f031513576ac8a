package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/credal-io/credal/internal/api/handlers"
	mw "github.com/credal-io/credal/internal/api/middleware"
	"github.com/credal-io/credal/internal/buildconfig"
	"github.com/credal-io/credal/internal/config"
	"github.com/credal-io/credal/internal/domain"
	"github.com/credal-io/credal/internal/service"
	"github.com/credal-io/credal/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and shared request metrics. The reasoners themselves
// are stateless; db may be nil, which disables the scenario registry and
// leaves only the stateless reasoning endpoints.
type App struct {
	Router       *chi.Mux
	db           *pgxpool.Pool
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	reasonerSvc := service.NewReasonerService(logger)
	reasonerSvc.MaxWorlds = config.MaxWorlds()
	reasonerSvc.MaxPieces = config.MaxPieces()
	reasonerSvc.MassTolerance = config.MassTolerance()

	reasonHandler := handlers.NewReasonHandler(reasonerSvc)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		db:        db,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health and metrics (no versioning)
	r.Get("/health", app.healthHandler())
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		// Stateless reasoning: ds_int, ds_min, sd_min
		r.Post("/reason/{model}", reasonHandler.Reason)

		// Scenario registry, only with a database attached
		if db != nil {
			scenarioStore := store.NewScenarioStore(db)
			scenarioHandler := handlers.NewScenarioHandler(scenarioStore, reasonerSvc)

			r.Route("/scenarios", func(r chi.Router) {
				r.Post("/", scenarioHandler.Create)
				r.Get("/", scenarioHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", scenarioHandler.GetByID)
					r.Delete("/", scenarioHandler.Delete)
					r.Get("/beliefs", scenarioHandler.Beliefs)
				})
			})
		}
	})

	return app
}

// NewRouter returns just the chi.Mux for callers that manage no lifecycle.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func (app *App) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if app.db != nil {
			if err := app.db.Ping(r.Context()); err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"build":      buildconfig.VersionInfo(),
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores satisfy interfaces at compile time.
var _ domain.ScenarioStore = (*store.ScenarioStore)(nil)
