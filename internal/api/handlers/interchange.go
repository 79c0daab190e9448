// Package handlers provides the interchange submission and lookup handlers.
package handlers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/drfirst/go-x12/internal/api/middleware"
	"github.com/drfirst/go-x12/internal/domain/interchange"
	"github.com/drfirst/go-x12/internal/engine"
	"github.com/drfirst/go-x12/internal/infrastructure/postgres"
	"github.com/drfirst/go-x12/internal/infrastructure/redpanda"
	"github.com/drfirst/go-x12/internal/x12"
	"github.com/drfirst/go-x12/pkg/circuitbreaker"
	"github.com/drfirst/go-x12/pkg/idempotency"
)

const ingestHandlerName = "ingest-interchange"

// InterchangeStore persists interchange aggregates
type InterchangeStore interface {
	Save(ctx context.Context, agg *interchange.Aggregate, extra ...*postgres.OutboxEntry) error
	Load(ctx context.Context, id string) (*interchange.Aggregate, error)
	GetEvents(ctx context.Context, id string) ([]*interchange.Event, error)
}

// Deduplicator runs a handler at most once per key
type Deduplicator interface {
	Process(ctx context.Context, key, handler string, payload json.RawMessage, fn idempotency.Func) (*idempotency.Result, error)
}

// InterchangeHandler handles interchange submission and lookup
type InterchangeHandler struct {
	engine  *engine.Engine
	store   InterchangeStore
	inbox   Deduplicator
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

// NewInterchangeHandler creates a new handler. breaker may be nil.
func NewInterchangeHandler(eng *engine.Engine, store InterchangeStore, inbox Deduplicator,
	breaker *circuitbreaker.CircuitBreaker, logger *zap.Logger) *InterchangeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterchangeHandler{
		engine:  eng,
		store:   store,
		inbox:   inbox,
		breaker: breaker,
		logger:  logger,
	}
}

// Routes returns the handler routes
func (h *InterchangeHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Get("/{id}/events", h.GetEvents)
	return r
}

// CreateResponse is the response for a submitted interchange
type CreateResponse struct {
	ID              string              `json:"id"`
	Status          interchange.Status  `json:"status"`
	TransactionType x12.TransactionType `json:"transaction_type"`
	ControlNumber   string              `json:"control_number"`
	SenderID        string              `json:"sender_id"`
	Segments        int                 `json:"segments"`
	ReceivedAt      time.Time           `json:"received_at"`
}

type ingestPayload struct {
	SenderID      string `json:"sender_id"`
	ControlNumber string `json:"control_number"`
	SizeBytes     int    `json:"size_bytes"`
}

// Create handles POST /interchanges. Resubmitting an interchange with the
// same Idempotency-Key, or the same sender and control number, returns the
// original response.
func (h *InterchangeHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("interchange-handler").Start(r.Context(), "create_interchange")
	defer span.End()

	body, ok := readBody(w, r)
	if !ok {
		return
	}
	raw := string(body)
	doc := h.engine.Parse(ctx, raw)
	if doc.Len() == 0 {
		jsonError(w, "no segments found", http.StatusUnprocessableEntity)
		return
	}
	header := interchange.HeaderOf(doc)
	key := idempotencyKey(r, header, body)
	span.SetAttributes(
		attribute.String("x12.control_number", header.ControlNumber),
		attribute.String("x12.transaction_type", string(doc.TransactionType)),
	)

	payload, _ := json.Marshal(ingestPayload{
		SenderID:      header.SenderID,
		ControlNumber: header.ControlNumber,
		SizeBytes:     len(body),
	})

	res, err := h.inbox.Process(ctx, key, ingestHandlerName, payload, func(ctx context.Context, _ json.RawMessage) (json.RawMessage, error) {
		agg := interchange.NewAggregate(uuid.New().String())
		source := "api:" + middleware.GetClientID(ctx)
		if err := agg.Receive(raw, source, middleware.GetRequestID(ctx), header); err != nil {
			return nil, idempotency.MarkTerminal(err)
		}
		if err := agg.MarkParsed(doc, len(x12.Records(doc))); err != nil {
			return nil, idempotency.MarkTerminal(err)
		}
		entry, err := interchange.InboundEntry(agg, redpanda.TopicInbound)
		if err != nil {
			return nil, idempotency.MarkTerminal(err)
		}
		if err := h.save(ctx, agg, entry); err != nil {
			return nil, err
		}
		s := agg.State()
		return json.Marshal(CreateResponse{
			ID:              s.ID,
			Status:          s.Status,
			TransactionType: s.TransactionType,
			ControlNumber:   s.Header.ControlNumber,
			SenderID:        s.Header.SenderID,
			Segments:        s.Segments,
			ReceivedAt:      s.ReceivedAt,
		})
	})
	if err != nil {
		h.writeIngestError(w, r, err)
		return
	}

	code := http.StatusCreated
	if !res.IsNew && !res.WasRecovered {
		code = http.StatusOK
		w.Header().Set("Idempotent-Replayed", "true")
	}
	h.logger.Info("interchange accepted",
		zap.String("control_number", header.ControlNumber),
		zap.String("sender_id", header.SenderID),
		zap.Bool("replayed", code == http.StatusOK),
		zap.String("request_id", middleware.GetRequestID(ctx)))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(res.Result)
}

func (h *InterchangeHandler) save(ctx context.Context, agg *interchange.Aggregate, extra ...*postgres.OutboxEntry) error {
	if h.breaker == nil {
		return h.store.Save(ctx, agg, extra...)
	}
	return h.breaker.Do(ctx, func(ctx context.Context) error {
		return h.store.Save(ctx, agg, extra...)
	})
}

func (h *InterchangeHandler) writeIngestError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, idempotency.ErrMessageInProgress), errors.Is(err, idempotency.ErrDuplicateMessage):
		jsonError(w, "interchange is already being processed", http.StatusConflict)
	case errors.Is(err, idempotency.ErrPreviouslyFailed):
		jsonError(w, "interchange previously failed", http.StatusUnprocessableEntity)
	case errors.Is(err, circuitbreaker.ErrCircuitOpen):
		w.Header().Set("Retry-After", "5")
		jsonError(w, "storage temporarily unavailable", http.StatusServiceUnavailable)
	default:
		h.logger.Error("ingest failed",
			zap.String("request_id", middleware.GetRequestID(r.Context())),
			zap.Error(err))
		jsonError(w, "failed to store interchange", http.StatusInternalServerError)
	}
}

// idempotencyKey prefers the client's key, then the ISA sender and control
// number, then a digest of the body
func idempotencyKey(r *http.Request, h interchange.Header, body []byte) string {
	if k := r.Header.Get("Idempotency-Key"); k != "" {
		return k
	}
	if h.SenderID != "" && h.ControlNumber != "" {
		return idempotency.GenerateKey(h.SenderQualifier, h.SenderID, h.ControlNumber)
	}
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

// Get handles GET /interchanges/{id}
func (h *InterchangeHandler) Get(w http.ResponseWriter, r *http.Request) {
	agg, err := h.store.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeLoadError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, agg.State())
}

// GetEvents handles GET /interchanges/{id}/events
func (h *InterchangeHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	events, err := h.store.GetEvents(r.Context(), id)
	if err != nil {
		h.writeLoadError(w, r, err)
		return
	}
	if len(events) == 0 {
		jsonError(w, "interchange not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, events)
}

func (h *InterchangeHandler) writeLoadError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, interchange.ErrInterchangeNotFound) {
		jsonError(w, "interchange not found", http.StatusNotFound)
		return
	}
	h.logger.Error("load failed",
		zap.String("request_id", middleware.GetRequestID(r.Context())),
		zap.Error(err))
	jsonError(w, "failed to load interchange", http.StatusInternalServerError)
}
