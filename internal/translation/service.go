// Package translation turns inbound interchanges into view models and
// publishes them to the translated topic.
package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/drfirst/go-x12/internal/domain/interchange"
	"github.com/drfirst/go-x12/internal/engine"
	"github.com/drfirst/go-x12/internal/infrastructure/postgres"
	"github.com/drfirst/go-x12/internal/infrastructure/redpanda"
	"github.com/drfirst/go-x12/internal/x12"
	"github.com/drfirst/go-x12/internal/x12/mapper"
	"github.com/drfirst/go-x12/pkg/circuitbreaker"
	"github.com/drfirst/go-x12/pkg/idempotency"
	"github.com/drfirst/go-x12/pkg/workerpool"
)

const (
	handlerName = "translate-interchange"
	// HeaderError carries the failure reason on dead-lettered messages
	HeaderError = "x12-error"
)

// Store loads and saves interchange aggregates
type Store interface {
	Save(ctx context.Context, agg *interchange.Aggregate, extra ...*postgres.OutboxEntry) error
	Load(ctx context.Context, id string) (*interchange.Aggregate, error)
}

// Deduplicator runs a handler at most once per key
type Deduplicator interface {
	Process(ctx context.Context, key, handler string, payload json.RawMessage, fn idempotency.Func) (*idempotency.Result, error)
}

// Outcome is the stored result of translating one interchange
type Outcome struct {
	InterchangeID   string              `json:"interchange_id"`
	Status          interchange.Status  `json:"status"`
	TransactionType x12.TransactionType `json:"transaction_type"`
	Reason          string              `json:"reason,omitempty"`
}

// Config configures the service
type Config struct {
	TranslatedTopic string
	DeadLetterTopic string
	Pool            workerpool.Config
}

// DefaultConfig returns the service defaults
func DefaultConfig() Config {
	return Config{
		TranslatedTopic: redpanda.TopicTranslated,
		DeadLetterTopic: redpanda.TopicDeadLetter,
		Pool:            workerpool.DefaultConfig(),
	}
}

// Service translates inbound interchanges on a worker pool
type Service struct {
	config  Config
	engine  *engine.Engine
	store   Store
	inbox   Deduplicator
	breaker *circuitbreaker.CircuitBreaker
	dlq     postgres.Publisher
	pool    *workerpool.Pool[*redpanda.ConsumedMessage, *Outcome]
	logger  *zap.Logger
	tracer  trace.Tracer
}

// New creates a service and starts its workers. breaker may be nil.
func New(cfg Config, eng *engine.Engine, store Store, inbox Deduplicator, breaker *circuitbreaker.CircuitBreaker,
	dlq postgres.Publisher, logger *zap.Logger, opts ...workerpool.Option) (*Service, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	def := DefaultConfig()
	if cfg.TranslatedTopic == "" {
		cfg.TranslatedTopic = def.TranslatedTopic
	}
	if cfg.DeadLetterTopic == "" {
		cfg.DeadLetterTopic = def.DeadLetterTopic
	}

	s := &Service{
		config:  cfg,
		engine:  eng,
		store:   store,
		inbox:   inbox,
		breaker: breaker,
		dlq:     dlq,
		logger:  logger,
		tracer:  otel.Tracer("translation-service"),
	}
	pool, err := workerpool.New(cfg.Pool, s.translate, append([]workerpool.Option{workerpool.WithLogger(logger)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	s.pool = pool
	return s, nil
}

// Handle is a redpanda.MessageHandler. It blocks until the message is
// translated or dead-lettered. A failed dead-letter publish or a cancelled
// ctx is returned; a ctx that timed out dead-letters the message.
func (s *Service) Handle(ctx context.Context, msg *redpanda.ConsumedMessage) error {
	out, err := s.pool.SubmitWait(ctx, msg)
	if err == nil {
		s.logger.Info("interchange translated",
			zap.String("interchange_id", out.InterchangeID),
			zap.String("status", string(out.Status)),
			zap.String("transaction_type", string(out.TransactionType)))
		return nil
	}
	if errors.Is(err, idempotency.ErrMessageInProgress) {
		s.logger.Info("interchange already in progress", zap.String("key", string(msg.Key)))
		return nil
	}
	if errors.Is(ctx.Err(), context.Canceled) {
		return err
	}
	return s.deadLetter(ctx, msg, err)
}

// Stop drains the worker pool
func (s *Service) Stop(ctx context.Context) error {
	return s.pool.Stop(ctx)
}

// Stats reports worker pool activity
func (s *Service) Stats() workerpool.Stats {
	return s.pool.Stats()
}

func (s *Service) translate(ctx context.Context, msg *redpanda.ConsumedMessage) (*Outcome, error) {
	ctx, span := s.tracer.Start(ctx, "translate_interchange",
		trace.WithAttributes(
			attribute.String("messaging.kafka.topic", msg.Topic),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		))
	defer span.End()

	in, err := decodeInbound(msg)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, workerpool.Permanent(err)
	}
	span.SetAttributes(attribute.String("x12.interchange_id", in.InterchangeID))

	payload, _ := json.Marshal(map[string]string{
		"interchange_id": in.InterchangeID,
		"topic":          msg.Topic,
	})
	res, err := s.inbox.Process(ctx, "translate:"+in.InterchangeID, handlerName, payload,
		func(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
			out, err := s.run(ctx, in, msg)
			if err != nil {
				return nil, err
			}
			return json.Marshal(out)
		})
	if err != nil {
		span.RecordError(err)
		if idempotency.IsTerminal(err) || errors.Is(err, idempotency.ErrPreviouslyFailed) {
			return nil, workerpool.Permanent(err)
		}
		return nil, err
	}

	var out Outcome
	if err := json.Unmarshal(res.Result, &out); err != nil {
		return nil, workerpool.Permanent(fmt.Errorf("decode stored outcome: %w", err))
	}
	return &out, nil
}

// run loads or creates the aggregate, maps the document and saves the result
func (s *Service) run(ctx context.Context, in *interchange.InboundMessage, msg *redpanda.ConsumedMessage) (*Outcome, error) {
	agg, err := s.aggregate(ctx, in, msg)
	if err != nil {
		return nil, err
	}

	switch agg.Status() {
	case interchange.StatusTranslated, interchange.StatusRejected:
		if len(agg.Changes()) > 0 {
			if err := s.save(ctx, agg); err != nil {
				return nil, err
			}
		}
		return outcomeOf(agg), nil
	}

	doc := s.engine.Parse(ctx, agg.Raw())
	if agg.Status() == interchange.StatusReceived {
		if err := agg.MarkParsed(doc, len(x12.Records(doc))); err != nil {
			return nil, idempotency.MarkTerminal(err)
		}
	}

	var extra []*postgres.OutboxEntry
	vm, err := s.engine.View(ctx, doc)
	switch {
	case errors.Is(err, mapper.ErrUnsupportedTransaction):
		if err := agg.Reject(err.Error()); err != nil {
			return nil, idempotency.MarkTerminal(err)
		}
	case err != nil:
		return nil, idempotency.MarkTerminal(fmt.Errorf("map interchange: %w", err))
	default:
		view, err := json.Marshal(vm)
		if err != nil {
			return nil, idempotency.MarkTerminal(fmt.Errorf("encode view: %w", err))
		}
		if err := agg.MarkTranslated(view); err != nil {
			return nil, idempotency.MarkTerminal(err)
		}
		entry, err := interchange.TranslatedEntry(agg, s.config.TranslatedTopic)
		if err != nil {
			return nil, idempotency.MarkTerminal(err)
		}
		extra = append(extra, entry)
	}

	if err := s.save(ctx, agg, extra...); err != nil {
		return nil, err
	}
	return outcomeOf(agg), nil
}

// aggregate loads the stored interchange, or starts one for raw messages
// that never went through the API
func (s *Service) aggregate(ctx context.Context, in *interchange.InboundMessage, msg *redpanda.ConsumedMessage) (*interchange.Aggregate, error) {
	agg, err := s.store.Load(ctx, in.InterchangeID)
	if err == nil {
		return agg, nil
	}
	if !errors.Is(err, interchange.ErrInterchangeNotFound) {
		return nil, err
	}
	if in.Raw == "" {
		return nil, idempotency.MarkTerminal(fmt.Errorf("interchange %s has no stored events and no payload", in.InterchangeID))
	}

	doc := s.engine.Parse(ctx, in.Raw)
	agg = interchange.NewAggregate(in.InterchangeID)
	if err := agg.Receive(in.Raw, "kafka:"+msg.Topic, correlationID(msg), interchange.HeaderOf(doc)); err != nil {
		return nil, idempotency.MarkTerminal(err)
	}
	if doc.Len() == 0 {
		if err := agg.Reject("no segments found"); err != nil {
			return nil, idempotency.MarkTerminal(err)
		}
	}
	return agg, nil
}

func (s *Service) save(ctx context.Context, agg *interchange.Aggregate, extra ...*postgres.OutboxEntry) error {
	if s.breaker == nil {
		return s.store.Save(ctx, agg, extra...)
	}
	return s.breaker.Do(ctx, func(ctx context.Context) error {
		return s.store.Save(ctx, agg, extra...)
	})
}

func (s *Service) deadLetter(ctx context.Context, msg *redpanda.ConsumedMessage, cause error) error {
	headers := make(map[string]string, len(msg.Headers)+1)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[HeaderError] = cause.Error()

	s.logger.Error("translation failed, dead-lettering",
		zap.String("topic", msg.Topic),
		zap.Int32("partition", msg.Partition),
		zap.Int64("offset", msg.Offset),
		zap.Error(cause))

	if err := s.dlq.Publish(context.WithoutCancel(ctx), s.config.DeadLetterTopic, string(msg.Key), msg.Value, headers); err != nil {
		return fmt.Errorf("dead-letter %s/%d/%d: %w", msg.Topic, msg.Partition, msg.Offset, err)
	}
	return nil
}

// decodeInbound accepts the JSON envelope written by the ingestion API or a
// bare X12 payload keyed by interchange id
func decodeInbound(msg *redpanda.ConsumedMessage) (*interchange.InboundMessage, error) {
	body := strings.TrimSpace(string(msg.Value))
	if body == "" {
		return nil, errors.New("empty message")
	}

	in := &interchange.InboundMessage{}
	if strings.HasPrefix(body, "{") {
		if err := json.Unmarshal(msg.Value, in); err != nil {
			return nil, fmt.Errorf("decode inbound message: %w", err)
		}
	} else {
		in.Raw = string(msg.Value)
	}

	if in.InterchangeID == "" {
		in.InterchangeID = msg.Headers[redpanda.HeaderInterchangeID]
	}
	if in.InterchangeID == "" {
		in.InterchangeID = string(msg.Key)
	}
	if in.InterchangeID == "" {
		in.InterchangeID = uuid.New().String()
	}
	return in, nil
}

func correlationID(msg *redpanda.ConsumedMessage) string {
	return fmt.Sprintf("%s/%d/%d", msg.Topic, msg.Partition, msg.Offset)
}

func outcomeOf(agg *interchange.Aggregate) *Outcome {
	s := agg.State()
	return &Outcome{
		InterchangeID:   s.ID,
		Status:          s.Status,
		TransactionType: s.TransactionType,
		Reason:          s.RejectReason,
	}
}
