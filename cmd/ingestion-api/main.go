// Package main provides the ingestion API service entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/drfirst/go-x12/internal/api"
	"github.com/drfirst/go-x12/internal/api/handlers"
	"github.com/drfirst/go-x12/internal/config"
	"github.com/drfirst/go-x12/internal/domain/interchange"
	"github.com/drfirst/go-x12/internal/engine"
	"github.com/drfirst/go-x12/internal/infrastructure/postgres"
	"github.com/drfirst/go-x12/internal/observability/metrics"
	"github.com/drfirst/go-x12/internal/observability/tracing"
	"github.com/drfirst/go-x12/pkg/circuitbreaker"
	"github.com/drfirst/go-x12/pkg/idempotency"
)

const serviceName = "ingestion-api"

func main() {
	configPath := flag.String("config", "", "path to a config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger, err := cfg.Log.NewLogger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}
	apiKeys, _ := cfg.Server.Keys()
	if len(apiKeys) == 0 {
		logger.Warn("no API keys configured, every /api/v1 request will be rejected")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Tracing.ServiceName = serviceName
	tp, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}

	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("failed to apply schema", zap.Error(err))
	}
	logger.Info("connected to database")

	m := metrics.New(prometheus.DefaultRegisterer)
	breakers := circuitbreaker.NewManager(logger, circuitbreaker.WithStateListener(func(name string, to circuitbreaker.State) {
		m.CircuitBreakerState.WithLabelValues(name).Set(to.Value())
	}))
	dbBreaker, err := breakers.GetOrCreate("postgres", cfg.Breaker.Breaker("postgres"))
	if err != nil {
		logger.Fatal("circuit breaker creation failed", zap.Error(err))
	}

	inbox := idempotency.New(pool, idempotency.DefaultConfig(), logger)
	go inbox.RunCleanup(ctx)

	eng := engine.New(logger, engine.WithMetrics(m), engine.WithTracing())
	repo := interchange.NewRepository(pool, "", logger)

	x12Handler, err := handlers.NewX12Handler(eng, cfg.Cache.Size, logger)
	if err != nil {
		logger.Fatal("handler creation failed", zap.Error(err))
	}

	router := api.NewRouter(api.Deps{
		ServiceName:  serviceName,
		Logger:       logger,
		Metrics:      m,
		APIKeys:      apiKeys,
		CORSOrigins:  corsOrigins(cfg.Server.CORSOrigins),
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		X12:          x12Handler,
		Interchanges: handlers.NewInterchangeHandler(eng, repo, inbox, dbBreaker, logger),
		Ready:        pool.Ping,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("tracer shutdown error", zap.Error(err))
		}
	}()

	logger.Info("starting ingestion API", zap.String("port", cfg.Server.Port))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("server stopped")
}

// corsOrigins treats a lone "*" as allow-all
func corsOrigins(origins []string) []string {
	if len(origins) == 1 && origins[0] == "*" {
		return nil
	}
	return origins
}
