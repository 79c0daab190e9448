// Package postgres implements the transactional outbox and its relay.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// relayLockID serializes relays across processes
const relayLockID int64 = 0x5831325f6f7574 // "X12_out"

// OutboxEntry is a message written in the same transaction as the domain
// change it announces
type OutboxEntry struct {
	ID            int64
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       json.RawMessage
	Topic         string
	Key           string
	Headers       map[string]string
	CreatedAt     time.Time
	RetryCount    int
	LastError     *string
}

// DeadLetter wraps an entry that exhausted its retries
type DeadLetter struct {
	OriginalTopic string            `json:"original_topic"`
	EventType     string            `json:"event_type"`
	AggregateID   string            `json:"aggregate_id"`
	Payload       json.RawMessage   `json:"payload"`
	Headers       map[string]string `json:"headers,omitempty"`
	RetryCount    int               `json:"retry_count"`
	LastError     string            `json:"last_error"`
	CreatedAt     time.Time         `json:"created_at"`
}

// OutboxConfig holds configuration for the relay
type OutboxConfig struct {
	BatchSize    int
	PollInterval time.Duration
	// MaxRetries is the number of failed publishes before dead-lettering
	MaxRetries int
	// DeadLetterTopic receives entries that exhausted their retries
	DeadLetterTopic string
}

// DefaultOutboxConfig returns the relay defaults
func DefaultOutboxConfig() OutboxConfig {
	return OutboxConfig{
		BatchSize:       100,
		PollInterval:    time.Second,
		MaxRetries:      5,
		DeadLetterTopic: "x12.interchanges.dlq",
	}
}

// Publisher sends one message to the broker
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value []byte, headers map[string]string) error
}

// Querier is satisfied by pgx.Tx and by pools
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// WriteEntry inserts an outbox entry. Call it inside the transaction that
// stores the domain change.
func WriteEntry(ctx context.Context, q Querier, entry *OutboxEntry) error {
	query := `
		INSERT INTO outbox (aggregate_id, aggregate_type, event_type, payload, kafka_topic, kafka_key, headers)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`
	headers := entry.Headers
	if headers == nil {
		headers = map[string]string{}
	}
	err := q.QueryRow(ctx, query,
		entry.AggregateID,
		entry.AggregateType,
		entry.EventType,
		entry.Payload,
		entry.Topic,
		entry.Key,
		headers,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("write outbox entry: %w", err)
	}
	return nil
}

// Relay publishes pending outbox entries
type Relay struct {
	db        DB
	config    OutboxConfig
	publisher Publisher
	logger    *zap.Logger
	tracer    trace.Tracer
	pending   prometheus.Gauge
}

// RelayOption configures a Relay
type RelayOption func(*Relay)

// WithPendingGauge reports the number of pending entries after every batch
func WithPendingGauge(g prometheus.Gauge) RelayOption {
	return func(r *Relay) { r.pending = g }
}

// NewRelay creates an outbox relay
func NewRelay(db DB, publisher Publisher, cfg OutboxConfig, logger *zap.Logger, opts ...RelayOption) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultOutboxConfig()
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = def.PollInterval
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}
	if cfg.DeadLetterTopic == "" {
		cfg.DeadLetterTopic = def.DeadLetterTopic
	}
	r := &Relay{
		db:        db,
		config:    cfg,
		publisher: publisher,
		logger:    logger,
		tracer:    otel.Tracer("outbox"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run polls until ctx is cancelled
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.config.PollInterval)
	defer ticker.Stop()

	r.logger.Info("outbox relay started",
		zap.Int("batch_size", r.config.BatchSize),
		zap.Duration("poll_interval", r.config.PollInterval))

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("outbox relay stopped")
			return nil
		case <-ticker.C:
			if _, err := r.ProcessBatch(ctx); err != nil && ctx.Err() == nil {
				r.logger.Error("outbox batch failed", zap.Error(err))
			}
			if r.pending != nil {
				if stats, err := r.Stats(ctx); err == nil {
					r.pending.Set(float64(stats.Pending))
				}
			}
		}
	}
}

// ProcessBatch publishes one batch inside a transaction holding the relay
// lock. It returns how many entries were published or dead-lettered.
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	ctx, span := r.tracer.Start(ctx, "outbox.process_batch")
	defer span.End()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var acquired bool
	if err := tx.QueryRow(ctx, "SELECT pg_try_advisory_xact_lock($1)", relayLockID).Scan(&acquired); err != nil {
		return 0, fmt.Errorf("acquire relay lock: %w", err)
	}
	if !acquired {
		return 0, nil
	}

	entries, err := r.fetchPending(ctx, tx)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	span.SetAttributes(attribute.Int("outbox.batch_size", len(entries)))

	handled := 0
	for _, entry := range entries {
		ok, err := r.processEntry(ctx, tx, entry)
		if err != nil {
			return handled, err
		}
		if ok {
			handled++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return handled, fmt.Errorf("commit: %w", err)
	}
	return handled, nil
}

func (r *Relay) fetchPending(ctx context.Context, tx pgx.Tx) ([]*OutboxEntry, error) {
	query := `
		SELECT id, aggregate_id, aggregate_type, event_type, payload,
		       kafka_topic, kafka_key, headers, created_at, retry_count, last_error
		FROM outbox
		WHERE processed_at IS NULL
		ORDER BY id ASC
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rows, err := tx.Query(ctx, query, r.config.BatchSize)
	if err != nil {
		return nil, fmt.Errorf("query outbox: %w", err)
	}
	defer rows.Close()

	var entries []*OutboxEntry
	for rows.Next() {
		e := &OutboxEntry{}
		if err := rows.Scan(
			&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.Payload,
			&e.Topic, &e.Key, &e.Headers, &e.CreatedAt, &e.RetryCount, &e.LastError,
		); err != nil {
			return nil, fmt.Errorf("scan outbox entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// processEntry reports whether the entry left the outbox. Only database
// errors are returned; publish failures are recorded on the row.
func (r *Relay) processEntry(ctx context.Context, tx pgx.Tx, entry *OutboxEntry) (bool, error) {
	ctx, span := r.tracer.Start(ctx, "outbox.process_entry",
		trace.WithAttributes(
			attribute.Int64("outbox.entry_id", entry.ID),
			attribute.String("outbox.event_type", entry.EventType),
			attribute.String("outbox.topic", entry.Topic),
		))
	defer span.End()

	pubErr := r.publisher.Publish(ctx, entry.Topic, entry.Key, entry.Payload, entry.Headers)
	if pubErr == nil {
		if _, err := tx.Exec(ctx,
			"UPDATE outbox SET processed_at = NOW(), updated_at = NOW() WHERE id = $1", entry.ID); err != nil {
			return false, fmt.Errorf("mark entry %d processed: %w", entry.ID, err)
		}
		return true, nil
	}

	span.RecordError(pubErr)
	r.logger.Warn("outbox publish failed",
		zap.Int64("id", entry.ID),
		zap.String("topic", entry.Topic),
		zap.Int("retry_count", entry.RetryCount+1),
		zap.Error(pubErr))

	if entry.RetryCount+1 < r.config.MaxRetries {
		if _, err := tx.Exec(ctx,
			"UPDATE outbox SET retry_count = retry_count + 1, last_error = $1, updated_at = NOW() WHERE id = $2",
			pubErr.Error(), entry.ID); err != nil {
			return false, fmt.Errorf("record retry for entry %d: %w", entry.ID, err)
		}
		return false, nil
	}

	return r.deadLetter(ctx, tx, entry, pubErr)
}

func (r *Relay) deadLetter(ctx context.Context, tx pgx.Tx, entry *OutboxEntry, cause error) (bool, error) {
	payload, err := json.Marshal(DeadLetter{
		OriginalTopic: entry.Topic,
		EventType:     entry.EventType,
		AggregateID:   entry.AggregateID,
		Payload:       entry.Payload,
		Headers:       entry.Headers,
		RetryCount:    entry.RetryCount + 1,
		LastError:     cause.Error(),
		CreatedAt:     entry.CreatedAt,
	})
	if err != nil {
		return false, fmt.Errorf("encode dead letter: %w", err)
	}

	if err := r.publisher.Publish(ctx, r.config.DeadLetterTopic, entry.Key, payload, entry.Headers); err != nil {
		r.logger.Error("dead letter publish failed", zap.Int64("id", entry.ID), zap.Error(err))
		if _, err := tx.Exec(ctx,
			"UPDATE outbox SET retry_count = retry_count + 1, last_error = $1, updated_at = NOW() WHERE id = $2",
			cause.Error(), entry.ID); err != nil {
			return false, fmt.Errorf("record retry for entry %d: %w", entry.ID, err)
		}
		return false, nil
	}

	if _, err := tx.Exec(ctx,
		`UPDATE outbox
		 SET processed_at = NOW(), dead_lettered = TRUE, retry_count = retry_count + 1, last_error = $1, updated_at = NOW()
		 WHERE id = $2`,
		cause.Error(), entry.ID); err != nil {
		return false, fmt.Errorf("mark entry %d dead-lettered: %w", entry.ID, err)
	}
	r.logger.Warn("outbox entry dead-lettered",
		zap.Int64("id", entry.ID),
		zap.String("dlq", r.config.DeadLetterTopic))
	return true, nil
}

// CleanupProcessed removes entries processed before the cutoff
func (r *Relay) CleanupProcessed(ctx context.Context, olderThan time.Duration) (int64, error) {
	tag, err := r.db.Exec(ctx,
		"DELETE FROM outbox WHERE processed_at IS NOT NULL AND processed_at < $1",
		time.Now().Add(-olderThan))
	if err != nil {
		return 0, fmt.Errorf("cleanup outbox: %w", err)
	}
	return tag.RowsAffected(), nil
}

// OutboxStats summarizes the outbox
type OutboxStats struct {
	Pending       int64      `json:"pending"`
	Processed24h  int64      `json:"processed_24h"`
	DeadLettered  int64      `json:"dead_lettered"`
	OldestPending *time.Time `json:"oldest_pending,omitempty"`
}

// Stats returns current outbox statistics
func (r *Relay) Stats(ctx context.Context) (*OutboxStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE processed_at IS NULL),
			COUNT(*) FILTER (WHERE processed_at > NOW() - INTERVAL '24 hours' AND NOT dead_lettered),
			COUNT(*) FILTER (WHERE dead_lettered),
			MIN(created_at) FILTER (WHERE processed_at IS NULL)
		FROM outbox
	`
	s := &OutboxStats{}
	if err := r.db.QueryRow(ctx, query).Scan(&s.Pending, &s.Processed24h, &s.DeadLettered, &s.OldestPending); err != nil {
		return nil, fmt.Errorf("outbox stats: %w", err)
	}
	return s, nil
}
