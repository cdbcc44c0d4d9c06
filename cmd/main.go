package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/cors"

	"github.com/okian/beachvis/internal/adapters/http/api"
	"github.com/okian/beachvis/internal/adapters/http/site"
	"github.com/okian/beachvis/internal/adapters/http/swagger"
	"github.com/okian/beachvis/internal/adapters/vis"
	app "github.com/okian/beachvis/internal/app"
	"github.com/okian/beachvis/internal/config"
	"github.com/okian/beachvis/pkg/logger"
	"github.com/okian/beachvis/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 30 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// A missing .env file is fine; the environment may already be set.
	_ = godotenv.Load()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Initialize logging
	if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	handler, _, err := newHandler(ctx, cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build handler", logger.Error(err))
		return
	}

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("environment", cfg.Environment),
			logger.String("vis_transport", cfg.VISTransport),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// newHandler composes the VIS client, the service and the HTTP routes.
func newHandler(ctx context.Context, cfg *config.Config, log logger.Logger) (http.Handler, *app.Service, error) {
	transport, err := vis.NewTransport(cfg.VISTransport, cfg.VISProxyURL, &http.Client{}, cfg.VISUserAgent)
	if err != nil {
		return nil, nil, err
	}
	client := vis.New(cfg.VISBaseURL, transport,
		vis.WithTimeout(cfg.VISTimeout),
		vis.WithRateLimit(cfg.VISRateLimit, cfg.VISRateBurst),
		vis.WithDefaultYear(cfg.DefaultYear),
		vis.WithUserAgent(cfg.VISUserAgent),
		vis.WithLogger(log.Named("vis")),
	)

	svc := app.New(client,
		app.WithLogger(log.Named("service")),
		app.WithDefaultYear(cfg.DefaultYear),
		app.WithTTL(app.ResourceDetail, cfg.DetailTTL),
		app.WithTTL(app.ResourceSchedule, cfg.ScheduleTTL),
		app.WithTTL(app.ResourceMatch, cfg.MatchTTL),
		app.WithTTL(app.ResourceResults, cfg.ResultsTTL),
		app.WithTTL(app.ResourceListing, cfg.ListingTTL),
	)

	r := mux.NewRouter()
	site.Register(ctx, r)
	swagger.Register(ctx, r)

	apiServer := api.NewServer(svc, svc,
		api.WithEnvironment(cfg.Environment),
		api.WithVersion(cfg.Version),
		api.WithLogger(log.Named("api")),
	)
	apiServer.Register(ctx, r)

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Cache", "X-Request-ID", "X-Response-Time", "Retry-After"},
	}).Handler(r)
	return handler, svc, nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval) // Update every 10 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
