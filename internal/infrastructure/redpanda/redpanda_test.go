package redpanda

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

func TestNewRecord(t *testing.T) {
	t.Run("Should carry the key and headers in key order", func(t *testing.T) {
		r := newRecord(TopicTranslated, "ic-1", []byte("{}"), map[string]string{
			HeaderTransactionType: "270",
			HeaderControlNumber:   "000000001",
			HeaderInterchangeID:   "ic-1",
		})

		assert.Equal(t, TopicTranslated, r.Topic)
		assert.Equal(t, []byte("ic-1"), r.Key)
		require.Len(t, r.Headers, 3)
		assert.Equal(t, HeaderControlNumber, r.Headers[0].Key)
		assert.Equal(t, HeaderInterchangeID, r.Headers[1].Key)
		assert.Equal(t, HeaderTransactionType, r.Headers[2].Key)
	})

	t.Run("Should leave the key nil when empty", func(t *testing.T) {
		r := newRecord(TopicDeadLetter, "", nil, nil)
		assert.Nil(t, r.Key)
		assert.Empty(t, r.Headers)
	})
}

func TestTracePropagation(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	t.Run("Should continue the producer trace on the consumer side", func(t *testing.T) {
		ctx, span := tp.Tracer("test").Start(context.Background(), "produce")
		defer span.End()

		r := newRecord(TopicInbound, "k", nil, map[string]string{HeaderSenderID: "SUBMITTERID"})
		injectTraceHeaders(ctx, r)

		assert.NotEmpty(t, recordCarrier{record: r}.Get("traceparent"))
		got := trace.SpanContextFromContext(extractTraceContext(context.Background(), r))
		assert.Equal(t, span.SpanContext().TraceID(), got.TraceID())
		assert.Equal(t, span.SpanContext().SpanID(), got.SpanID())
		assert.True(t, got.IsRemote())
	})

	t.Run("Should not add headers without an active span", func(t *testing.T) {
		r := newRecord(TopicInbound, "k", nil, nil)
		injectTraceHeaders(context.Background(), r)
		assert.Empty(t, r.Headers)
	})
}

func TestRecordCarrier(t *testing.T) {
	r := &kgo.Record{}
	c := recordCarrier{record: r}

	c.Set("traceparent", "a")
	c.Set("traceparent", "b")
	c.Set(HeaderSenderID, "SUBMITTERID")

	assert.Equal(t, "b", c.Get("traceparent"))
	assert.Equal(t, "", c.Get("missing"))
	assert.Equal(t, []string{"traceparent", HeaderSenderID}, c.Keys())
}

func TestToMessage(t *testing.T) {
	r := newRecord(TopicInbound, "ic-9", []byte("ISA*00~"), map[string]string{HeaderTransactionType: "837"})
	r.Partition = 2
	r.Offset = 41

	msg := toMessage(r)

	assert.Equal(t, TopicInbound, msg.Topic)
	assert.Equal(t, int32(2), msg.Partition)
	assert.Equal(t, int64(41), msg.Offset)
	assert.Equal(t, "ic-9", string(msg.Key))
	assert.Equal(t, "837", msg.Headers[HeaderTransactionType])
}

func TestDefaultTopicConfigs(t *testing.T) {
	t.Run("Should define every pipeline topic", func(t *testing.T) {
		var names []string
		for _, c := range DefaultTopicConfigs(6, 3) {
			names = append(names, c.Name)
			assert.Equal(t, int16(3), c.ReplicationFactor)
		}
		assert.ElementsMatch(t, []string{TopicInbound, TopicTranslated, TopicEvents, TopicDeadLetter}, names)
	})

	t.Run("Should clamp invalid sizes", func(t *testing.T) {
		for _, c := range DefaultTopicConfigs(0, 0) {
			assert.Equal(t, int32(1), c.Partitions)
			assert.Equal(t, int16(1), c.ReplicationFactor)
		}
	})
}
