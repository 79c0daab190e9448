package engine

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/drfirst/go-x12/internal/observability/metrics"
	"github.com/drfirst/go-x12/internal/x12"
	"github.com/drfirst/go-x12/internal/x12/mapper"
)

func fixture(t *testing.T, name string) string {
	t.Helper()
	raw, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return string(raw)
}

func newTestEngine() (*Engine, *metrics.Metrics, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	m := metrics.New(nil)
	return New(zap.New(core), WithMetrics(m)), m, logs
}

func TestLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("Should derive document view and records together", func(t *testing.T) {
		e, m, _ := newTestEngine()
		snap := e.Load(ctx, fixture(t, "270.x12"))

		require.NoError(t, snap.Err)
		assert.Equal(t, x12.TransactionEligibilityInquiry, snap.Doc.TransactionType)
		req, ok := snap.View.(*mapper.EligibilityRequest)
		require.True(t, ok)
		assert.Equal(t, "MBI123", req.SubscriberID)
		require.Len(t, snap.Records, 1)
		assert.Equal(t, x12.RecordSubscriber, snap.Records[0].Type)

		assert.Equal(t, float64(1), testutil.ToFloat64(m.InterchangesParsed.WithLabelValues("270")))
		assert.Equal(t, float64(0), testutil.ToFloat64(m.MappingFailures))
	})

	t.Run("Should keep the document when the type has no view model", func(t *testing.T) {
		e, m, _ := newTestEngine()
		snap := e.Load(ctx, "ST*850*0001~BEG*00*SA*PO1~SE*3*0001~")

		assert.ErrorIs(t, snap.Err, mapper.ErrUnsupportedTransaction)
		assert.Nil(t, snap.View)
		assert.Equal(t, 3, snap.Doc.Len())
		assert.Equal(t, float64(1), testutil.ToFloat64(m.MappingFailures))
	})
}

func TestSafeMap(t *testing.T) {
	t.Run("Should recover a mapping panic with an empty view model", func(t *testing.T) {
		e, m, logs := newTestEngine()
		e.mapFn = func(*x12.Document) (mapper.ViewModel, error) { panic("boom") }

		doc := x12.Parse(fixture(t, "277.x12"))
		vm, err := e.SafeMap(context.Background(), doc)

		require.NoError(t, err)
		assert.Equal(t, &mapper.ClaimStatusResponse{}, vm)
		assert.Equal(t, 1, logs.FilterMessage("mapping panicked").Len())
		assert.Equal(t, float64(1), testutil.ToFloat64(m.MappingFailures))
	})
}

func TestApplyRawEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("Should replace the snapshot with the edited document", func(t *testing.T) {
		e, _, _ := newTestEngine()
		prev := e.Load(ctx, fixture(t, "270.x12"))

		edited := strings.Replace(fixture(t, "270.x12"), "DOE*JOHN", "ROE*JANE", 1)
		next, err := e.ApplyRawEdit(ctx, prev, edited)

		require.NoError(t, err)
		assert.Equal(t, "ROE", next.View.(*mapper.EligibilityRequest).SubscriberLastName)
		assert.Equal(t, "DOE", prev.View.(*mapper.EligibilityRequest).SubscriberLastName)
	})

	t.Run("Should keep the previous snapshot on an empty edit", func(t *testing.T) {
		e, _, logs := newTestEngine()
		prev := e.Load(ctx, fixture(t, "270.x12"))

		next, err := e.ApplyRawEdit(ctx, prev, "  \n ")

		assert.ErrorIs(t, err, ErrEmptyDocument)
		assert.Same(t, prev.Doc, next.Doc)
		assert.Equal(t, 1, logs.FilterMessage("could not parse this edit").Len())
	})

	t.Run("Should keep the previous snapshot when mapping panics", func(t *testing.T) {
		e, _, _ := newTestEngine()
		prev := e.Load(ctx, fixture(t, "270.x12"))
		e.mapFn = func(*x12.Document) (mapper.ViewModel, error) { panic("boom") }

		next, err := e.ApplyRawEdit(ctx, prev, fixture(t, "277.x12"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
		assert.Same(t, prev.Doc, next.Doc)
	})
}

func TestApplyViewEdit(t *testing.T) {
	ctx := context.Background()

	t.Run("Should rebuild and re-parse the edited view model", func(t *testing.T) {
		e, m, _ := newTestEngine()
		prev := e.Load(ctx, fixture(t, "270.x12"))

		vm := *prev.View.(*mapper.EligibilityRequest)
		vm.SubscriberFirstName = "JACK"
		next, err := e.ApplyViewEdit(ctx, prev, &vm)

		require.NoError(t, err)
		assert.Equal(t, "JACK", next.Doc.First("NM1", "IL").Element(4))
		assert.Equal(t, "JACK", next.View.(*mapper.EligibilityRequest).SubscriberFirstName)
		assert.NotEqual(t, prev.Doc.First("ISA").Element(13), next.Doc.First("ISA").Element(13))
		assert.Equal(t, float64(1), testutil.ToFloat64(m.Builds.WithLabelValues("270", "ok")))
	})

	t.Run("Should keep the previous snapshot when the build fails", func(t *testing.T) {
		e, m, logs := newTestEngine()
		prev := e.Load(ctx, fixture(t, "270.x12"))

		vm := *prev.View.(*mapper.EligibilityRequest)
		vm.Envelope.SenderID = ""
		next, err := e.ApplyViewEdit(ctx, prev, &vm)

		var be *mapper.BuildError
		require.True(t, errors.As(err, &be))
		assert.Same(t, prev.Doc, next.Doc)
		assert.Equal(t, 1, logs.FilterMessage("could not parse this edit").Len())
		assert.Equal(t, float64(1), testutil.ToFloat64(m.Builds.WithLabelValues("270", "error")))
	})

	t.Run("Should keep the previous snapshot for a typed nil view model", func(t *testing.T) {
		e, _, _ := newTestEngine()
		prev := e.Load(ctx, fixture(t, "270.x12"))

		var next Snapshot
		var err error
		require.NotPanics(t, func() {
			next, err = e.ApplyViewEdit(ctx, prev, (*mapper.EligibilityRequest)(nil))
		})

		var be *mapper.BuildError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, "ViewModel", be.Field)
		assert.Same(t, prev.Doc, next.Doc)
	})

	t.Run("Should keep the previous snapshot when the build panics", func(t *testing.T) {
		e, m, logs := newTestEngine()
		prev := e.Load(ctx, fixture(t, "270.x12"))
		e.buildFn = func(mapper.ViewModel) (string, error) { panic("boom") }

		next, err := e.ApplyViewEdit(ctx, prev, prev.View)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "build panicked: boom")
		assert.Same(t, prev.Doc, next.Doc)
		assert.Equal(t, 1, logs.FilterMessage("could not parse this edit").Len())
		assert.Equal(t, float64(1), testutil.ToFloat64(m.MappingFailures))
	})
}

func TestAnalyze(t *testing.T) {
	e, _, _ := newTestEngine()
	doc := e.Parse(context.Background(), fixture(t, "270.x12"))

	analyses := e.Analyze(context.Background(), doc)
	require.Len(t, analyses, doc.Len())
	assert.Equal(t, "ISA", analyses[0].Tag)
	assert.Equal(t, doc.Segments[0].ID, analyses[0].SegmentID)
}
