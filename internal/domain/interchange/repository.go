// Package interchange persists interchange events with their outbox entries.
package interchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/drfirst/go-x12/internal/infrastructure/postgres"
	"github.com/drfirst/go-x12/internal/infrastructure/redpanda"
)

var (
	// ErrInterchangeNotFound is returned when no events exist for an id
	ErrInterchangeNotFound = errors.New("interchange not found")
	// ErrConcurrencyConflict is returned when another writer appended first
	ErrConcurrencyConflict = errors.New("concurrency conflict")
)

const uniqueViolation = "23505"

// Repository stores interchange events and the outbox entries announcing
// them in one transaction
type Repository struct {
	db          postgres.DB
	eventsTopic string
	logger      *zap.Logger
}

// NewRepository creates a new repository
func NewRepository(db postgres.DB, eventsTopic string, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if eventsTopic == "" {
		eventsTopic = redpanda.TopicEvents
	}
	return &Repository{db: db, eventsTopic: eventsTopic, logger: logger}
}

// Save appends the aggregate's uncommitted events. Each event is also
// written to the outbox for the events topic; extra entries ride along in
// the same transaction.
func (r *Repository) Save(ctx context.Context, agg *Aggregate, extra ...*postgres.OutboxEntry) error {
	changes := agg.Changes()
	if len(changes) == 0 {
		return nil
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	expected := agg.Version() - len(changes)
	var current int
	if err := tx.QueryRow(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM interchange_events WHERE aggregate_id = $1",
		agg.ID()).Scan(&current); err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	if current != expected {
		return fmt.Errorf("%w: %s is at version %d, expected %d", ErrConcurrencyConflict, agg.ID(), current, expected)
	}

	for i, event := range changes {
		event.Version = expected + i + 1
		if err := r.insertEvent(ctx, tx, event); err != nil {
			return err
		}
		entry, err := r.eventEntry(agg, event)
		if err != nil {
			return err
		}
		if err := postgres.WriteEntry(ctx, tx, entry); err != nil {
			return err
		}
	}
	for _, entry := range extra {
		if err := postgres.WriteEntry(ctx, tx, entry); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	r.logger.Debug("interchange saved",
		zap.String("interchange_id", agg.ID()),
		zap.Int("version", agg.Version()),
		zap.Int("events", len(changes)))
	agg.ClearChanges()
	return nil
}

func (r *Repository) insertEvent(ctx context.Context, tx pgx.Tx, event *Event) error {
	query := `
		INSERT INTO interchange_events
		(id, aggregate_id, aggregate_type, event_type, event_data, version, created_at, sender_id, control_number, correlation_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := tx.Exec(ctx, query,
		event.ID,
		event.AggregateID,
		event.AggregateType,
		string(event.EventType),
		event.EventData,
		event.Version,
		event.Timestamp,
		event.SenderID,
		event.ControlNumber,
		event.CorrelationID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: version %d of %s already exists", ErrConcurrencyConflict, event.Version, event.AggregateID)
		}
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *Repository) eventEntry(agg *Aggregate, event *Event) (*postgres.OutboxEntry, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return &postgres.OutboxEntry{
		AggregateID:   agg.ID(),
		AggregateType: AggregateType,
		EventType:     string(event.EventType),
		Payload:       payload,
		Topic:         r.eventsTopic,
		Key:           agg.ID(),
		Headers:       messageHeaders(agg),
	}, nil
}

// TranslatedMessage is published once an interchange has a view model
type TranslatedMessage struct {
	InterchangeID   string          `json:"interchange_id"`
	TransactionType string          `json:"transaction_type"`
	Header          Header          `json:"header"`
	View            json.RawMessage `json:"view"`
}

// TranslatedEntry builds the outbox entry publishing a translated
// interchange's view model to topic
func TranslatedEntry(agg *Aggregate, topic string) (*postgres.OutboxEntry, error) {
	if agg.Status() != StatusTranslated {
		return nil, fmt.Errorf("%w: %s is %s", ErrInvalidTransition, agg.ID(), agg.Status())
	}
	payload, err := json.Marshal(TranslatedMessage{
		InterchangeID:   agg.ID(),
		TransactionType: string(agg.TransactionType()),
		Header:          agg.Header(),
		View:            agg.view,
	})
	if err != nil {
		return nil, fmt.Errorf("encode translated message: %w", err)
	}
	return &postgres.OutboxEntry{
		AggregateID:   agg.ID(),
		AggregateType: AggregateType,
		EventType:     string(EventInterchangeTranslated),
		Payload:       payload,
		Topic:         topic,
		Key:           agg.ID(),
		Headers:       messageHeaders(agg),
	}, nil
}

// InboundMessage hands a stored interchange to the translation service
type InboundMessage struct {
	InterchangeID string `json:"interchange_id"`
	Raw           string `json:"raw"`
}

// InboundEntry builds the outbox entry queuing a received interchange for
// translation
func InboundEntry(agg *Aggregate, topic string) (*postgres.OutboxEntry, error) {
	if s := agg.Status(); s != StatusReceived && s != StatusParsed {
		return nil, fmt.Errorf("%w: %s is %s", ErrInvalidTransition, agg.ID(), s)
	}
	payload, err := json.Marshal(InboundMessage{InterchangeID: agg.ID(), Raw: agg.Raw()})
	if err != nil {
		return nil, fmt.Errorf("encode inbound message: %w", err)
	}
	return &postgres.OutboxEntry{
		AggregateID:   agg.ID(),
		AggregateType: AggregateType,
		EventType:     string(EventInterchangeReceived),
		Payload:       payload,
		Topic:         topic,
		Key:           agg.ID(),
		Headers:       messageHeaders(agg),
	}, nil
}

func messageHeaders(agg *Aggregate) map[string]string {
	h := map[string]string{
		redpanda.HeaderInterchangeID: agg.ID(),
		redpanda.HeaderSenderID:      agg.Header().SenderID,
		redpanda.HeaderControlNumber: agg.Header().ControlNumber,
	}
	if t := agg.TransactionType(); t != "" {
		h[redpanda.HeaderTransactionType] = string(t)
	}
	return h
}

// Load rebuilds an aggregate from its events
func (r *Repository) Load(ctx context.Context, id string) (*Aggregate, error) {
	events, err := r.GetEvents(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrInterchangeNotFound, id)
	}

	agg := NewAggregate(id)
	if err := agg.LoadFromHistory(events); err != nil {
		return nil, err
	}
	return agg, nil
}

const eventColumns = `id, aggregate_id, aggregate_type, event_type, event_data, version, created_at,
	sender_id, control_number, correlation_id`

// GetEvents retrieves all events for an aggregate in version order
func (r *Repository) GetEvents(ctx context.Context, aggregateID string) ([]*Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM interchange_events
		WHERE aggregate_id = $1
		ORDER BY version ASC`

	rows, err := r.db.Query(ctx, query, aggregateID)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return scanEvents(rows)
}

// GetEventsByType retrieves the most recent events of one type
func (r *Repository) GetEventsByType(ctx context.Context, eventType EventType, limit int) ([]*Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM interchange_events
		WHERE event_type = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, string(eventType), limit)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	return scanEvents(rows)
}

func scanEvents(rows pgx.Rows) ([]*Event, error) {
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		if err := rows.Scan(
			&e.ID, &e.AggregateID, &e.AggregateType, &e.EventType, &e.EventData,
			&e.Version, &e.Timestamp, &e.SenderID, &e.ControlNumber, &e.CorrelationID,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
