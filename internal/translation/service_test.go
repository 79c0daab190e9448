package translation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drfirst/go-x12/internal/domain/interchange"
	"github.com/drfirst/go-x12/internal/engine"
	"github.com/drfirst/go-x12/internal/infrastructure/postgres"
	"github.com/drfirst/go-x12/internal/infrastructure/redpanda"
	"github.com/drfirst/go-x12/internal/x12"
	"github.com/drfirst/go-x12/pkg/idempotency"
	"github.com/drfirst/go-x12/pkg/workerpool"
)

type fakeStore struct {
	mu       sync.Mutex
	events   map[string][]*interchange.Event
	entries  []*postgres.OutboxEntry
	saves    int
	failures int
}

func newFakeStore() *fakeStore {
	return &fakeStore{events: map[string][]*interchange.Event{}}
}

func (s *fakeStore) Save(_ context.Context, agg *interchange.Aggregate, extra ...*postgres.OutboxEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.failures > 0 {
		s.failures--
		return errors.New("connection reset by peer")
	}
	s.events[agg.ID()] = append(s.events[agg.ID()], agg.Changes()...)
	s.entries = append(s.entries, extra...)
	agg.ClearChanges()
	return nil
}

func (s *fakeStore) Load(_ context.Context, id string) (*interchange.Aggregate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events[id]) == 0 {
		return nil, fmt.Errorf("%w: %s", interchange.ErrInterchangeNotFound, id)
	}
	agg := interchange.NewAggregate(id)
	if err := agg.LoadFromHistory(s.events[id]); err != nil {
		return nil, err
	}
	return agg, nil
}

func (s *fakeStore) types(id string) []interchange.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []interchange.EventType
	for _, e := range s.events[id] {
		out = append(out, e.EventType)
	}
	return out
}

// fakeInbox remembers finished keys and lets failed ones run again
type fakeInbox struct {
	mu      sync.Mutex
	results map[string]json.RawMessage
}

func (f *fakeInbox) Process(ctx context.Context, key, _ string, payload json.RawMessage, fn idempotency.Func) (*idempotency.Result, error) {
	f.mu.Lock()
	if res, ok := f.results[key]; ok {
		f.mu.Unlock()
		return &idempotency.Result{Result: res}, nil
	}
	f.mu.Unlock()

	res, err := fn(ctx, payload)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.results[key] = res
	f.mu.Unlock()
	return &idempotency.Result{IsNew: true, Result: res}, nil
}

type published struct {
	topic, key string
	value      []byte
	headers    map[string]string
}

type fakePublisher struct {
	mu   sync.Mutex
	sent []published
}

func (p *fakePublisher) Publish(_ context.Context, topic, key string, value []byte, headers map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, published{topic: topic, key: key, value: value, headers: headers})
	return nil
}

type harness struct {
	svc   *Service
	store *fakeStore
	dlq   *fakePublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Pool = workerpool.Config{Workers: 2, QueueSize: 8, MaxRetries: 2, RetryDelay: time.Millisecond}

	h := &harness{store: newFakeStore(), dlq: &fakePublisher{}}
	svc, err := New(cfg, engine.New(zap.NewNop()), h.store, &fakeInbox{results: map[string]json.RawMessage{}}, nil, h.dlq, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = svc.Stop(context.Background()) })
	h.svc = svc
	return h
}

func fixture(t *testing.T) string {
	t.Helper()
	raw, err := os.ReadFile("testdata/270.x12")
	require.NoError(t, err)
	return string(raw)
}

// storeReceived saves an interchange the way the ingestion API does
func storeReceived(t *testing.T, store *fakeStore, id, raw string) {
	t.Helper()
	doc := x12.Parse(raw)
	agg := interchange.NewAggregate(id)
	require.NoError(t, agg.Receive(raw, "api:test", "req-1", interchange.HeaderOf(doc)))
	require.NoError(t, agg.MarkParsed(doc, len(x12.Records(doc))))
	require.NoError(t, store.Save(context.Background(), agg))
}

func inbound(t *testing.T, id string) *redpanda.ConsumedMessage {
	t.Helper()
	value, err := json.Marshal(interchange.InboundMessage{InterchangeID: id})
	require.NoError(t, err)
	return &redpanda.ConsumedMessage{
		Topic:   redpanda.TopicInbound,
		Key:     []byte(id),
		Value:   value,
		Headers: map[string]string{redpanda.HeaderInterchangeID: id},
	}
}

func TestHandle(t *testing.T) {
	ctx := context.Background()

	t.Run("Should translate a stored interchange", func(t *testing.T) {
		h := newHarness(t)
		storeReceived(t, h.store, "ic-1", fixture(t))

		require.NoError(t, h.svc.Handle(ctx, inbound(t, "ic-1")))

		assert.Equal(t, []interchange.EventType{
			interchange.EventInterchangeReceived,
			interchange.EventInterchangeParsed,
			interchange.EventInterchangeTranslated,
		}, h.store.types("ic-1"))

		require.Len(t, h.store.entries, 1)
		entry := h.store.entries[0]
		assert.Equal(t, redpanda.TopicTranslated, entry.Topic)
		assert.Equal(t, "270", entry.Headers[redpanda.HeaderTransactionType])

		var msg interchange.TranslatedMessage
		require.NoError(t, json.Unmarshal(entry.Payload, &msg))
		assert.Equal(t, "ic-1", msg.InterchangeID)
		assert.Equal(t, "SUBMITTERID", msg.Header.SenderID)
		assert.Contains(t, string(msg.View), `"subscriberId":"MBI123"`)
		assert.Empty(t, h.dlq.sent)
	})

	t.Run("Should accept bare X12 keyed by interchange id", func(t *testing.T) {
		h := newHarness(t)
		msg := &redpanda.ConsumedMessage{
			Topic:     redpanda.TopicInbound,
			Partition: 2,
			Offset:    41,
			Key:       []byte("ic-raw"),
			Value:     []byte(fixture(t)),
		}

		require.NoError(t, h.svc.Handle(ctx, msg))

		agg, err := h.store.Load(ctx, "ic-raw")
		require.NoError(t, err)
		state := agg.State()
		assert.Equal(t, interchange.StatusTranslated, state.Status)
		assert.Equal(t, "kafka:"+redpanda.TopicInbound, state.Source)
		assert.Equal(t, redpanda.TopicInbound+"/2/41", state.CorrelationID)
	})

	t.Run("Should reject transaction types without a view model", func(t *testing.T) {
		h := newHarness(t)
		storeReceived(t, h.store, "ic-850", "ST*850*0001~BEG*00*SA*PO1~SE*3*0001~")

		require.NoError(t, h.svc.Handle(ctx, inbound(t, "ic-850")))

		agg, err := h.store.Load(ctx, "ic-850")
		require.NoError(t, err)
		assert.Equal(t, interchange.StatusRejected, agg.Status())
		assert.Contains(t, agg.State().RejectReason, "unsupported transaction type")
		assert.Empty(t, h.store.entries)
		assert.Empty(t, h.dlq.sent)
	})

	t.Run("Should retry transient storage failures", func(t *testing.T) {
		h := newHarness(t)
		storeReceived(t, h.store, "ic-2", fixture(t))
		h.store.failures = 1

		require.NoError(t, h.svc.Handle(ctx, inbound(t, "ic-2")))

		assert.Equal(t, 3, h.store.saves)
		assert.Equal(t, int64(1), h.svc.Stats().Retried)
		assert.Len(t, h.store.types("ic-2"), 3)
	})

	t.Run("Should not translate a redelivered message twice", func(t *testing.T) {
		h := newHarness(t)
		storeReceived(t, h.store, "ic-3", fixture(t))

		require.NoError(t, h.svc.Handle(ctx, inbound(t, "ic-3")))
		require.NoError(t, h.svc.Handle(ctx, inbound(t, "ic-3")))

		assert.Len(t, h.store.types("ic-3"), 3)
		assert.Len(t, h.store.entries, 1)
	})

	t.Run("Should dead-letter undecodable messages without retrying", func(t *testing.T) {
		h := newHarness(t)
		msg := &redpanda.ConsumedMessage{
			Topic:   redpanda.TopicInbound,
			Key:     []byte("bad"),
			Value:   []byte(`{"interchange_id":`),
			Headers: map[string]string{"traceparent": "00-abc"},
		}

		require.NoError(t, h.svc.Handle(ctx, msg))

		require.Len(t, h.dlq.sent, 1)
		sent := h.dlq.sent[0]
		assert.Equal(t, redpanda.TopicDeadLetter, sent.topic)
		assert.Equal(t, "bad", sent.key)
		assert.Equal(t, msg.Value, sent.value)
		assert.Equal(t, "00-abc", sent.headers["traceparent"])
		assert.Contains(t, sent.headers[HeaderError], "decode inbound message")
		assert.Zero(t, h.svc.Stats().Retried)
	})

	t.Run("Should dead-letter unknown interchanges without a payload", func(t *testing.T) {
		h := newHarness(t)

		require.NoError(t, h.svc.Handle(ctx, inbound(t, "ic-missing")))

		require.Len(t, h.dlq.sent, 1)
		assert.Contains(t, h.dlq.sent[0].headers[HeaderError], "no stored events")
		assert.Zero(t, h.svc.Stats().Retried)
	})
}

func TestDecodeInbound(t *testing.T) {
	t.Run("Should fall back from header to key for the id", func(t *testing.T) {
		in, err := decodeInbound(&redpanda.ConsumedMessage{
			Key:     []byte("from-key"),
			Value:   []byte("ISA*00~"),
			Headers: map[string]string{redpanda.HeaderInterchangeID: "from-header"},
		})
		require.NoError(t, err)
		assert.Equal(t, "from-header", in.InterchangeID)
		assert.Equal(t, "ISA*00~", in.Raw)

		in, err = decodeInbound(&redpanda.ConsumedMessage{Key: []byte("from-key"), Value: []byte("ISA*00~")})
		require.NoError(t, err)
		assert.Equal(t, "from-key", in.InterchangeID)
	})

	t.Run("Should generate an id when none is given", func(t *testing.T) {
		in, err := decodeInbound(&redpanda.ConsumedMessage{Value: []byte("ISA*00~")})
		require.NoError(t, err)
		assert.NotEmpty(t, in.InterchangeID)
	})

	t.Run("Should reject empty messages", func(t *testing.T) {
		_, err := decodeInbound(&redpanda.ConsumedMessage{Value: []byte("  ")})
		assert.Error(t, err)
	})
}
