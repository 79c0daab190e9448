// Package engine orchestrates parsing, mapping, building and explanation of
// X12 documents for the services and the CLI.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"

	"github.com/drfirst/go-x12/internal/observability/metrics"
	"github.com/drfirst/go-x12/internal/observability/tracing"
	"github.com/drfirst/go-x12/internal/x12"
	"github.com/drfirst/go-x12/internal/x12/dictionary"
	"github.com/drfirst/go-x12/internal/x12/mapper"
)

// ErrEmptyDocument is returned when an edit produces no segments
var ErrEmptyDocument = errors.New("document has no segments")

// Snapshot is one consistent state of a document: the parsed forest, the
// view model mapped from it and the records extracted from it
type Snapshot struct {
	Doc     *x12.Document
	View    mapper.ViewModel
	Records []x12.Record
	// Err holds a mapping error such as an unsupported transaction type
	Err error
}

// Engine wires the X12 core to logging, tracing and metrics
type Engine struct {
	logger  *zap.Logger
	tracer  trace.Tracer
	metrics *metrics.Metrics
	mapFn   func(*x12.Document) (mapper.ViewModel, error)
	buildFn func(mapper.ViewModel) (string, error)
}

// Option configures an Engine
type Option func(*Engine)

// WithMetrics records parse, build and mapping metrics
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithTracing starts spans from the global tracer provider
func WithTracing() Option {
	return func(e *Engine) { e.tracer = tracing.Tracer("x12-engine") }
}

// New creates an engine
func New(logger *zap.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		logger:  logger,
		tracer:  noop.NewTracerProvider().Tracer("x12-engine"),
		mapFn:   mapper.Map,
		buildFn: mapper.Build,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse parses raw text into a document. Parsing never fails.
func (e *Engine) Parse(ctx context.Context, raw string) *x12.Document {
	_, span := e.tracer.Start(ctx, "x12.parse", trace.WithAttributes(attribute.Int("x12.raw_bytes", len(raw))))
	defer span.End()

	start := time.Now()
	doc := x12.Parse(raw)
	if e.metrics != nil {
		e.metrics.ParseDuration.Observe(time.Since(start).Seconds())
		e.metrics.InterchangesParsed.WithLabelValues(typeLabel(doc.TransactionType)).Inc()
	}
	span.SetAttributes(
		attribute.String("x12.transaction_type", string(doc.TransactionType)),
		attribute.Int("x12.segments", doc.Len()),
	)
	return doc
}

// Analyze explains every segment of the document
func (e *Engine) Analyze(ctx context.Context, doc *x12.Document) []dictionary.Analysis {
	_, span := e.tracer.Start(ctx, "x12.analyze")
	defer span.End()
	return dictionary.DescribeDocument(doc)
}

// View maps the document to its view model
func (e *Engine) View(ctx context.Context, doc *x12.Document) (mapper.ViewModel, error) {
	return e.SafeMap(ctx, doc)
}

// SafeMap maps the document and recovers from mapping panics. A panic is
// logged and the empty view model for the document type is returned so the
// caller can still render something.
func (e *Engine) SafeMap(ctx context.Context, doc *x12.Document) (vm mapper.ViewModel, err error) {
	_, span := e.tracer.Start(ctx, "x12.map", trace.WithAttributes(
		attribute.String("x12.transaction_type", string(doc.TransactionType))))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("mapping panicked",
				zap.String("transaction_type", string(doc.TransactionType)),
				zap.Any("panic", r))
			span.SetStatus(codes.Error, "mapping panicked")
			e.mappingFailed()
			vm, err = mapper.New(doc.TransactionType)
		}
	}()

	vm, err = e.mapFn(doc)
	if err != nil {
		span.RecordError(err)
		e.mappingFailed()
	}
	return vm, err
}

// Build serializes a view model to X12 text
func (e *Engine) Build(ctx context.Context, vm mapper.ViewModel) (string, error) {
	_, span := e.tracer.Start(ctx, "x12.build")
	defer span.End()

	label := "unknown"
	if vm != nil {
		label = typeLabel(vm.TransactionType())
	}
	span.SetAttributes(attribute.String("x12.transaction_type", label))

	raw, err := e.buildFn(vm)
	result := "ok"
	if err != nil {
		result = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if e.metrics != nil {
		e.metrics.Builds.WithLabelValues(label, result).Inc()
	}
	return raw, err
}

// Load parses raw text and derives everything a caller needs to present it
func (e *Engine) Load(ctx context.Context, raw string) Snapshot {
	doc := e.Parse(ctx, raw)
	vm, err := e.SafeMap(ctx, doc)
	return Snapshot{
		Doc:     doc,
		View:    vm,
		Records: x12.Records(doc),
		Err:     err,
	}
}

// ApplyRawEdit replaces the document with edited raw text. On failure the
// previous snapshot is returned unchanged.
func (e *Engine) ApplyRawEdit(ctx context.Context, prev Snapshot, raw string) (Snapshot, error) {
	next, err := e.reload(ctx, raw)
	if err != nil {
		e.logger.Warn("could not parse this edit", zap.Error(err))
		return prev, err
	}
	return next, nil
}

// ApplyViewEdit rebuilds the document from an edited view model and
// re-parses it so the forest, records and view stay consistent. On failure
// the previous snapshot is returned unchanged.
func (e *Engine) ApplyViewEdit(ctx context.Context, prev Snapshot, vm mapper.ViewModel) (Snapshot, error) {
	next, err := e.rebuild(ctx, vm)
	if err != nil {
		e.logger.Warn("could not parse this edit", zap.Error(err))
		return prev, err
	}
	return next, nil
}

// rebuild serializes the view model and reloads the result, turning a
// panic in the build into an error
func (e *Engine) rebuild(ctx context.Context, vm mapper.ViewModel) (snap Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.mappingFailed()
			err = fmt.Errorf("build panicked: %v", r)
		}
	}()

	raw, err := e.Build(ctx, vm)
	if err != nil {
		return Snapshot{}, err
	}
	return e.reload(ctx, raw)
}

// reload runs the full read path without the mapping fallback, turning a
// panic anywhere in it into an error
func (e *Engine) reload(ctx context.Context, raw string) (snap Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.mappingFailed()
			err = fmt.Errorf("edit panicked: %v", r)
		}
	}()

	if strings.TrimSpace(raw) == "" {
		return Snapshot{}, ErrEmptyDocument
	}
	doc := e.Parse(ctx, raw)
	if doc.Len() == 0 {
		return Snapshot{}, ErrEmptyDocument
	}
	vm, mapErr := e.mapFn(doc)
	if mapErr != nil {
		e.mappingFailed()
	}
	return Snapshot{
		Doc:     doc,
		View:    vm,
		Records: x12.Records(doc),
		Err:     mapErr,
	}, nil
}

func (e *Engine) mappingFailed() {
	if e.metrics != nil {
		e.metrics.MappingFailures.Inc()
	}
}

func typeLabel(t x12.TransactionType) string {
	if t == x12.TransactionUnknown {
		return "unknown"
	}
	return string(t)
}
