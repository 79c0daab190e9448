// Package main provides the outbox relay service entry point.
// Implements the Transactional Outbox pattern relay.
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
	"github.com/drfirst/go-x12/internal/infrastructure/postgres"
	"github.com/drfirst/go-x12/internal/infrastructure/redpanda"
	"github.com/drfirst/go-x12/internal/observability/metrics"
	"github.com/drfirst/go-x12/internal/observability/tracing"
	"github.com/drfirst/go-x12/pkg/circuitbreaker"
)

const (
	serviceName = "outbox-relay"
	// processed entries are kept this long for auditing
	retention = 7 * 24 * time.Hour
)

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
	logger.Info("connected to database")

	admin, err := redpanda.NewAdmin(cfg.Kafka.Brokers, logger)
	if err != nil {
		logger.Fatal("admin client creation failed", zap.Error(err))
	}
	if err := admin.EnsureTopics(ctx, cfg.Kafka.Partitions, cfg.Kafka.ReplicationFactor); err != nil {
		logger.Fatal("topic provisioning failed", zap.Error(err))
	}
	admin.Close()

	m := metrics.New(prometheus.DefaultRegisterer)
	producer, err := redpanda.NewProducer(redpanda.DefaultProducerConfig(cfg.Kafka.Brokers), logger,
		redpanda.WithProducedCounter(m.MessagesProduced))
	if err != nil {
		logger.Fatal("producer creation failed", zap.Error(err))
	}
	defer producer.Close()
	logger.Info("connected to Redpanda", zap.Strings("brokers", cfg.Kafka.Brokers))

	breaker, err := circuitbreaker.New(cfg.Breaker.Breaker("redpanda"), logger,
		circuitbreaker.WithStateListener(func(name string, to circuitbreaker.State) {
			m.CircuitBreakerState.WithLabelValues(name).Set(to.Value())
		}))
	if err != nil {
		logger.Fatal("circuit breaker creation failed", zap.Error(err))
	}

	outboxCfg := postgres.DefaultOutboxConfig()
	outboxCfg.BatchSize = cfg.Worker.OutboxBatchSize
	outboxCfg.PollInterval = cfg.Worker.OutboxInterval
	outboxCfg.MaxRetries = cfg.Worker.MaxRetries
	outboxCfg.DeadLetterTopic = redpanda.TopicDeadLetter
	relay := postgres.NewRelay(pool, &guardedPublisher{producer: producer, breaker: breaker}, outboxCfg, logger,
		postgres.WithPendingGauge(m.OutboxPending))

	go serveMetrics(ctx, cfg.Server.Port, m, logger)
	go cleanup(ctx, relay, logger)

	if err := relay.Run(ctx); err != nil {
		logger.Error("relay stopped with error", zap.Error(err))
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := producer.Flush(flushCtx); err != nil {
		logger.Error("flush failed", zap.Error(err))
	}
	logger.Info("outbox relay stopped")
}

// guardedPublisher sends outbox entries through a circuit breaker so a
// broker outage fails batches fast instead of waiting on every record
type guardedPublisher struct {
	producer *redpanda.Producer
	breaker  *circuitbreaker.CircuitBreaker
}

func (g *guardedPublisher) Publish(ctx context.Context, topic, key string, value []byte, headers map[string]string) error {
	return g.breaker.Do(ctx, func(ctx context.Context) error {
		return g.producer.Publish(ctx, topic, key, value, headers)
	})
}

func cleanup(ctx context.Context, relay *postgres.Relay, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := relay.CleanupProcessed(ctx, retention)
			if err != nil {
				logger.Error("outbox cleanup failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Info("outbox cleanup completed", zap.Int64("deleted", n))
			}
		}
	}
}

func serveMetrics(ctx context.Context, port string, m *metrics.Metrics, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy","service":"` + serviceName + `"}`))
	})
	server := &http.Server{Addr: ":" + port, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		logger.Error("metrics server error", zap.Error(err))
	}
}
