// Package main provides the translation service entry point.
// Consumes inbound interchanges and publishes their view models.
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

	"github.com/drfirst/go-x12/internal/config"
	"github.com/drfirst/go-x12/internal/domain/interchange"
	"github.com/drfirst/go-x12/internal/engine"
	"github.com/drfirst/go-x12/internal/infrastructure/postgres"
	"github.com/drfirst/go-x12/internal/infrastructure/redpanda"
	"github.com/drfirst/go-x12/internal/observability/metrics"
	"github.com/drfirst/go-x12/internal/observability/tracing"
	"github.com/drfirst/go-x12/internal/translation"
	"github.com/drfirst/go-x12/pkg/circuitbreaker"
	"github.com/drfirst/go-x12/pkg/idempotency"
	"github.com/drfirst/go-x12/pkg/workerpool"
)

const serviceName = "translation-service"

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Tracing.ServiceName = serviceName
	tp, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal("tracing init failed", zap.Error(err))
	}
	defer tp.Shutdown(context.Background())

	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("failed to apply schema", zap.Error(err))
	}

	admin, err := redpanda.NewAdmin(cfg.Kafka.Brokers, logger)
	if err != nil {
		logger.Fatal("admin client creation failed", zap.Error(err))
	}
	defer admin.Close()
	if err := admin.EnsureTopics(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
		logger.Fatal("topic provisioning failed", zap.Error(err))
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	breakers := circuitbreaker.NewManager(logger, circuitbreaker.WithStateListener(func(name string, to circuitbreaker.State) {
		m.CircuitBreakerState.WithLabelValues(name).Set(to.Value())
	}))
	dbBreaker, err := breakers.GetOrCreate("postgres", cfg.Breaker.Breaker("postgres"))
	if err != nil {
		logger.Fatal("circuit breaker creation failed", zap.Error(err))
	}

	// dead letters skip the outbox; the producer is only used for the DLQ
	producer, err := redpanda.NewProducer(redpanda.DefaultProducerConfig(cfg.Kafka.Brokers), logger,
		redpanda.WithProducedCounter(m.MessagesProduced))
	if err != nil {
		logger.Fatal("producer creation failed", zap.Error(err))
	}
	defer producer.Close()

	inbox := idempotency.New(pool, idempotency.DefaultConfig(), logger)
	go recoverStale(ctx, inbox, logger)

	svcCfg := translation.DefaultConfig()
	svcCfg.Pool = cfg.Worker.Pool()
	svc, err := translation.New(svcCfg,
		engine.New(logger, engine.WithMetrics(m), engine.WithTracing()),
		interchange.NewRepository(pool, "", logger),
		inbox, dbBreaker, producer, logger,
		workerpool.WithQueueDepthHook(func(depth int) { m.WorkerQueueDepth.Set(float64(depth)) }),
	)
	if err != nil {
		logger.Fatal("translation service creation failed", zap.Error(err))
	}

	handle := svc.Handle
	if cfg.Worker.JobTimeout > 0 {
		handle = func(ctx context.Context, msg *redpanda.ConsumedMessage) error {
			ctx, cancel := context.WithTimeout(ctx, cfg.Worker.JobTimeout)
			defer cancel()
			return svc.Handle(ctx, msg)
		}
	}

	consumer, err := redpanda.NewConsumer(
		redpanda.DefaultConsumerConfig(cfg.Kafka.Brokers, cfg.Kafka.ConsumerGroup, redpanda.TopicInbound),
		handle, logger, redpanda.WithConsumedCounter(m.MessagesConsumed))
	if err != nil {
		logger.Fatal("consumer creation failed", zap.Error(err))
	}

	consumer.Start()
	go serveHealth(ctx, cfg.Server.Port, cfg.Kafka.Brokers, m, breakers, logger)
	go reportLag(ctx, admin, cfg.Kafka.ConsumerGroup, logger)
	logger.Info("translation service started",
		zap.Int("workers", svcCfg.Pool.Workers),
		zap.String("group", cfg.Kafka.ConsumerGroup))

	<-ctx.Done()
	logger.Info("shutting down")
	if err := consumer.Stop(); err != nil {
		logger.Error("consumer stop failed", zap.Error(err))
	}
	stopCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := svc.Stop(stopCtx); err != nil {
		logger.Error("worker pool stop failed", zap.Error(err))
	}
	if err := producer.Flush(stopCtx); err != nil {
		logger.Error("flush failed", zap.Error(err))
	}

	stats := svc.Stats()
	logger.Info("translation service stopped",
		zap.Int64("completed", stats.Completed),
		zap.Int64("failed", stats.Failed),
		zap.Int64("retried", stats.Retried))
}

// reportLag logs how far the consumer group trails the inbound topic
func reportLag(ctx context.Context, admin *redpanda.Admin, group string, logger *zap.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			lag, err := admin.GetConsumerGroupLag(ctx, group)
			if err != nil {
				logger.Warn("lag lookup failed", zap.Error(err))
				continue
			}
			var total int64
			for _, n := range lag[redpanda.TopicInbound] {
				total += n
			}
			logger.Info("consumer lag", zap.String("group", group), zap.Int64("lag", total))
		}
	}
}

// recoverStale releases inbox keys whose worker died mid-translation
func recoverStale(ctx context.Context, inbox *idempotency.Inbox, logger *zap.Logger) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n, err := inbox.RecoverStale(ctx); err != nil {
				logger.Error("inbox recovery failed", zap.Error(err))
			} else if n > 0 {
				logger.Info("recovered stale inbox entries", zap.Int64("count", n))
			}
		}
	}
}

func serveHealth(ctx context.Context, port string, brokers []string, m *metrics.Metrics, breakers *circuitbreaker.Manager, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","service":"` + serviceName + `"}`))
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := redpanda.HealthCheck(r.Context(), brokers); err != nil {
			logger.Warn("broker unreachable", zap.Error(err))
			http.Error(w, "broker unreachable", http.StatusServiceUnavailable)
			return
		}
		for _, b := range breakers.HealthStatus() {
			if !b.Healthy {
				http.Error(w, b.Name+" circuit is "+string(b.State), http.StatusServiceUnavailable)
				return
			}
		}
		_, _ = w.Write([]byte("ready"))
	})
	server := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("health server error", zap.Error(err))
	}
}
