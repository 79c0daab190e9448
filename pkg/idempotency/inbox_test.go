package idempotency

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var inboxColumns = []string{
	"idempotency_key", "handler_name", "status", "payload", "result", "created_at", "updated_at", "expires_at",
}

const handlerName = "translate"

func newTestInbox(t *testing.T) (*Inbox, pgxmock.PgxPoolIface, time.Time) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	now := time.Date(2023, 1, 4, 10, 0, 0, 0, time.UTC)
	inbox := New(mock, DefaultConfig(), zap.NewNop())
	inbox.now = func() time.Time { return now }
	return inbox, mock, now
}

func existing(mock pgxmock.PgxPoolIface, key string, status Status, result json.RawMessage, updated time.Time) {
	var expires *time.Time
	mock.ExpectQuery("SELECT (.+) FROM inbox WHERE idempotency_key").
		WithArgs(key).
		WillReturnRows(mock.NewRows(inboxColumns).
			AddRow(key, handlerName, status, json.RawMessage(`{}`), result, updated, updated, expires))
}

func TestProcess(t *testing.T) {
	ctx := context.Background()
	payload := json.RawMessage(`{"interchange":"000000001"}`)
	key := GenerateKey("ZZ", "SUBMITTERID", "000000001")

	t.Run("Should run the handler once for a new key", func(t *testing.T) {
		inbox, mock, _ := newTestInbox(t)
		out := json.RawMessage(`{"status":"translated"}`)

		mock.ExpectQuery("SELECT (.+) FROM inbox WHERE idempotency_key").
			WithArgs(key).
			WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("INSERT INTO inbox").
			WithArgs(key, handlerName, StatusStarted, payload, pgxmock.AnyArg()).
			WillReturnRows(mock.NewRows([]string{"idempotency_key"}).AddRow(key))
		mock.ExpectExec("UPDATE inbox").
			WithArgs(StatusFinished, out, key).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		calls := 0
		res, err := inbox.Process(ctx, key, handlerName, payload, func(context.Context, json.RawMessage) (json.RawMessage, error) {
			calls++
			return out, nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
		assert.True(t, res.IsNew)
		assert.False(t, res.WasRecovered)
		assert.JSONEq(t, `{"status":"translated"}`, string(res.Result))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should return the stored result for a finished key", func(t *testing.T) {
		inbox, mock, now := newTestInbox(t)
		existing(mock, key, StatusFinished, json.RawMessage(`{"status":"translated"}`), now)

		res, err := inbox.Process(ctx, key, handlerName, payload, func(context.Context, json.RawMessage) (json.RawMessage, error) {
			t.Fatal("handler must not run for a finished key")
			return nil, nil
		})

		require.NoError(t, err)
		assert.False(t, res.IsNew)
		assert.JSONEq(t, `{"status":"translated"}`, string(res.Result))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should report a key another handler is working on", func(t *testing.T) {
		inbox, mock, now := newTestInbox(t)
		existing(mock, key, StatusStarted, nil, now.Add(-time.Minute))

		_, err := inbox.Process(ctx, key, handlerName, payload, nil)

		assert.ErrorIs(t, err, ErrMessageInProgress)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should recover an abandoned key", func(t *testing.T) {
		inbox, mock, now := newTestInbox(t)
		existing(mock, key, StatusStarted, nil, now.Add(-time.Hour))
		mock.ExpectExec("UPDATE inbox").
			WithArgs(StatusRecoverable, json.RawMessage(nil), key).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery("INSERT INTO inbox").
			WithArgs(key, handlerName, StatusStarted, payload, pgxmock.AnyArg()).
			WillReturnRows(mock.NewRows([]string{"idempotency_key"}).AddRow(key))
		mock.ExpectExec("UPDATE inbox").
			WithArgs(StatusFinished, json.RawMessage(`{}`), key).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		res, err := inbox.Process(ctx, key, handlerName, payload, func(context.Context, json.RawMessage) (json.RawMessage, error) {
			return json.RawMessage(`{}`), nil
		})

		require.NoError(t, err)
		assert.False(t, res.IsNew)
		assert.True(t, res.WasRecovered)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should keep a failed key recoverable", func(t *testing.T) {
		inbox, mock, _ := newTestInbox(t)
		mock.ExpectQuery("SELECT (.+) FROM inbox").WithArgs(key).WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("INSERT INTO inbox").
			WithArgs(key, handlerName, StatusStarted, payload, pgxmock.AnyArg()).
			WillReturnRows(mock.NewRows([]string{"idempotency_key"}).AddRow(key))
		mock.ExpectExec("UPDATE inbox").
			WithArgs(StatusRecoverable, json.RawMessage(`{"error":"database unavailable"}`), key).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		boom := errors.New("database unavailable")
		_, err := inbox.Process(ctx, key, handlerName, payload, func(context.Context, json.RawMessage) (json.RawMessage, error) {
			return nil, boom
		})

		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should fail a key permanently on a terminal error", func(t *testing.T) {
		inbox, mock, _ := newTestInbox(t)
		mock.ExpectQuery("SELECT (.+) FROM inbox").WithArgs(key).WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("INSERT INTO inbox").
			WithArgs(key, handlerName, StatusStarted, payload, pgxmock.AnyArg()).
			WillReturnRows(mock.NewRows([]string{"idempotency_key"}).AddRow(key))
		mock.ExpectExec("UPDATE inbox").
			WithArgs(StatusFailed, json.RawMessage(`{"error":"unsupported transaction type: 850"}`), key).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		_, err := inbox.Process(ctx, key, handlerName, payload, func(context.Context, json.RawMessage) (json.RawMessage, error) {
			return nil, MarkTerminal(errors.New("unsupported transaction type: 850"))
		})

		assert.True(t, IsTerminal(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should refuse a key that failed permanently", func(t *testing.T) {
		inbox, mock, now := newTestInbox(t)
		existing(mock, key, StatusFailed, nil, now)

		_, err := inbox.Process(ctx, key, handlerName, payload, nil)

		assert.ErrorIs(t, err, ErrPreviouslyFailed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should detect a concurrent claim", func(t *testing.T) {
		inbox, mock, _ := newTestInbox(t)
		mock.ExpectQuery("SELECT (.+) FROM inbox").WithArgs(key).WillReturnError(pgx.ErrNoRows)
		mock.ExpectQuery("INSERT INTO inbox").
			WithArgs(key, handlerName, StatusStarted, payload, pgxmock.AnyArg()).
			WillReturnError(pgx.ErrNoRows)

		_, err := inbox.Process(ctx, key, handlerName, payload, nil)

		assert.ErrorIs(t, err, ErrDuplicateMessage)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGenerateKey(t *testing.T) {
	t.Run("Should be stable and ignore ISA padding", func(t *testing.T) {
		a := GenerateKey("ZZ", "SUBMITTERID    ", "000000001")
		b := GenerateKey("ZZ", "SUBMITTERID", "000000001")
		assert.Equal(t, a, b)
		assert.Len(t, a, 64)
	})

	t.Run("Should differ per control number and sender", func(t *testing.T) {
		base := GenerateKey("ZZ", "SUBMITTERID", "000000001")
		assert.NotEqual(t, base, GenerateKey("ZZ", "SUBMITTERID", "000000002"))
		assert.NotEqual(t, base, GenerateKey("01", "SUBMITTERID", "000000001"))
	})
}

func TestMaintenance(t *testing.T) {
	ctx := context.Background()

	t.Run("Should delete expired entries", func(t *testing.T) {
		inbox, mock, _ := newTestInbox(t)
		mock.ExpectExec("DELETE FROM inbox WHERE expires_at").
			WithArgs().
			WillReturnResult(pgxmock.NewResult("DELETE", 3))

		n, err := inbox.Cleanup(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should recover entries older than the recovery timeout", func(t *testing.T) {
		inbox, mock, now := newTestInbox(t)
		mock.ExpectExec("UPDATE inbox SET status = 'RECOVERABLE'").
			WithArgs(now.Add(-DefaultConfig().RecoveryTimeout)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 2))

		n, err := inbox.RecoverStale(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should count entries by status", func(t *testing.T) {
		inbox, mock, _ := newTestInbox(t)
		mock.ExpectQuery("SELECT (.+) FROM inbox").
			WithArgs().
			WillReturnRows(mock.NewRows([]string{"total", "started", "finished", "recoverable", "failed"}).
				AddRow(int64(10), int64(1), int64(7), int64(1), int64(1)))

		s, err := inbox.Stats(ctx)
		require.NoError(t, err)
		assert.Equal(t, &Stats{Total: 10, Started: 1, Finished: 7, Recoverable: 1, Failed: 1}, s)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
