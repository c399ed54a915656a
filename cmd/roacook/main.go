// Package main is the entry point for the ROACook resolution server.
// It wires all dependencies together and starts the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/FoodWeb-ROA/ROACook-sub000/internal/catalog"
	"github.com/FoodWeb-ROA/ROACook-sub000/internal/config"
	"github.com/FoodWeb-ROA/ROACook-sub000/internal/importer"
	"github.com/FoodWeb-ROA/ROACook-sub000/internal/observability"
	"github.com/FoodWeb-ROA/ROACook-sub000/internal/resolve"
	"github.com/FoodWeb-ROA/ROACook-sub000/internal/transport"
	"github.com/FoodWeb-ROA/ROACook-sub000/model"
)

// Build-time variables set via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=abc1234"
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Step 1: Parse CLI flags.
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	flag.Parse()

	// Step 2: Load configuration.
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		return 1
	}

	// Step 3: Initialize telemetry (logger, tracer, metrics).
	observability.Version = version
	observability.Commit = commit

	logger, err := observability.NewLogger(cfg.Observability)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	tracingShutdown, err := observability.InitTracing(ctx, cfg.Observability.Tracing, "roacook", version)
	if err != nil {
		logger.Error("tracing initialization failed", zap.Error(err))
		return 1
	}

	metrics := observability.InitMetrics(prometheus.DefaultRegisterer)

	// Step 4: Initialize the catalog store.
	cat, catalogCloser, err := buildCatalogStore(ctx, cfg.Catalog, logger)
	if err != nil {
		logger.Error("catalog store initialization failed", zap.Error(err))
		return 1
	}

	// Step 5: Initialize the idempotency store (optional).
	idemStore, idemCloser, err := buildIdempotencyStore(cfg.Importer.Idempotency, logger)
	if err != nil {
		logger.Error("idempotency store initialization failed", zap.Error(err))
		return 1
	}

	// Step 6: Build the import engine.
	engine := importer.NewEngine(importer.NewMemoryRunStore(), cat, logger, importer.EngineOptions{
		Idempotency:    idemStore,
		IdempotencyTTL: cfg.Importer.Idempotency.Store.DefaultTTL,
		Resolver: resolve.Options{
			DishCancel:        resolve.CancelPolicy(cfg.Resolution.DishCancel),
			PreparationCancel: resolve.CancelPolicy(cfg.Resolution.PreparationCancel),
		},
		Metrics: metrics,
	})

	// Step 7: Build readiness checks.
	readinessChecks := observability.ReadinessChecks{
		UnitsLoaded: func() bool {
			checkCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			units, err := cat.ListUnits(checkCtx)
			return err == nil && len(units) > 0
		},
	}
	if hc, ok := cat.(observability.HealthChecker); ok {
		readinessChecks.CatalogStore = hc
	}
	if hc, ok := idemStore.(observability.HealthChecker); ok {
		readinessChecks.IdempotencyStore = hc
	}

	// Step 8: Build the HTTP router.
	router := transport.NewRouter(transport.Dependencies{
		Config:  cfg,
		Logger:  logger,
		Engine:  engine,
		Catalog: cat,
		Metrics: metrics,
		Ready:   observability.HandleReady(readinessChecks),
	})

	var handler http.Handler = router
	if cfg.Observability.Tracing.Enabled {
		handler = observability.TracingMiddleware(router)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Step 9: Start the HTTP server.
	logger.Info("server started",
		zap.Int("port", cfg.Server.Port),
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("catalog_driver", cfg.Catalog.Driver),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error.
	select {
	case <-ctx.Done():
		logger.Info("shutdown initiated")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		return 1
	}

	// Graceful shutdown sequence.
	shutdownTimeout := cfg.Server.ShutdownTimeout
	if shutdownTimeout == 0 {
		shutdownTimeout = 30 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	// Stop accepting new connections and drain in-flight requests.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	// Close stores.
	if catalogCloser != nil {
		catalogCloser()
	}
	if idemCloser != nil {
		idemCloser()
	}

	// Flush telemetry.
	if err := tracingShutdown(shutdownCtx); err != nil {
		logger.Error("tracing shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
	return 0
}

// buildCatalogStore creates the catalog store based on config.
func buildCatalogStore(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (model.CatalogStore, func(), error) {
	switch cfg.Driver {
	case "memory", "":
		store := catalog.NewMemoryStore()
		if cfg.SeedFile != "" {
			if err := catalog.LoadSeed(store, cfg.SeedFile); err != nil {
				return nil, nil, err
			}
			logger.Info("catalog seed loaded", zap.String("file", cfg.SeedFile))
		} else {
			logger.Warn("memory catalog store has no seed file, starting empty")
		}
		return store, nil, nil
	case "postgres":
		dsn := os.Getenv(cfg.DSNEnv)
		if dsn == "" {
			return nil, nil, fmt.Errorf("catalog store: %s environment variable not set", cfg.DSNEnv)
		}

		poolCfg, err := pgxpool.ParseConfig(dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog store: parse DSN: %w", err)
		}
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
		poolCfg.MaxConnLifetime = cfg.ConnMaxLifetime

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("catalog store: connect: %w", err)
		}

		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("catalog store: ping: %w", err)
		}

		return catalog.NewPgStore(pool), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported catalog driver: %q", cfg.Driver)
	}
}

// buildIdempotencyStore creates the idempotency store based on config.
// Returns a nil store when idempotency is disabled.
func buildIdempotencyStore(cfg config.IdempotencyConfig, logger *zap.Logger) (importer.IdempotencyStore, func(), error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	switch cfg.Store.Driver {
	case "memory", "":
		logger.Info("using in-memory idempotency store")
		return importer.NewMemoryIdempotencyStore(), nil, nil
	case "redis":
		addr := os.Getenv(cfg.Store.AddrEnv)
		if addr == "" {
			return nil, nil, fmt.Errorf("idempotency store: %s environment variable not set", cfg.Store.AddrEnv)
		}
		client := redis.NewClient(&redis.Options{
			Addr: addr,
			DB:   cfg.Store.DB,
		})
		closer := func() {
			if err := client.Close(); err != nil {
				logger.Error("redis close error", zap.Error(err))
			}
		}
		return importer.NewRedisIdempotencyStore(client), closer, nil
	default:
		return nil, nil, fmt.Errorf("unsupported idempotency store driver: %q", cfg.Store.Driver)
	}
}
