package workerpool

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig() Config {
	return Config{Workers: 2, QueueSize: 4, MaxRetries: 2, RetryDelay: time.Millisecond}
}

func TestSubmitWait(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return the job output", func(t *testing.T) {
		p, err := New(fastConfig(), func(_ context.Context, in string) (int, error) {
			return len(in), nil
		})
		require.NoError(t, err)
		defer p.Stop(ctx)

		n, err := p.SubmitWait(ctx, "ISA*00")
		require.NoError(t, err)
		assert.Equal(t, 6, n)
	})

	t.Run("Should retry transient failures", func(t *testing.T) {
		var calls atomic.Int32
		p, err := New(fastConfig(), func(_ context.Context, in string) (string, error) {
			if calls.Add(1) < 3 {
				return "", errors.New("database unavailable")
			}
			return strings.ToUpper(in), nil
		})
		require.NoError(t, err)
		defer p.Stop(ctx)

		reply, err := p.Submit(ctx, "st")
		require.NoError(t, err)
		res := <-reply

		require.NoError(t, res.Err)
		assert.Equal(t, "ST", res.Value)
		assert.Equal(t, 3, res.Attempts)
		assert.Equal(t, int64(2), p.Stats().Retried)
	})

	t.Run("Should give up after the retry budget", func(t *testing.T) {
		p, err := New(fastConfig(), func(context.Context, string) (string, error) {
			return "", errors.New("broker down")
		})
		require.NoError(t, err)
		defer p.Stop(ctx)

		_, err = p.SubmitWait(ctx, "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "after 2 retries")
		assert.Contains(t, err.Error(), "broker down")
	})

	t.Run("Should not retry permanent failures", func(t *testing.T) {
		var calls atomic.Int32
		bad := errors.New("unsupported transaction")
		p, err := New(fastConfig(), func(context.Context, string) (string, error) {
			calls.Add(1)
			return "", Permanent(bad)
		})
		require.NoError(t, err)
		defer p.Stop(ctx)

		_, err = p.SubmitWait(ctx, "x")
		assert.ErrorIs(t, err, bad)
		assert.True(t, IsPermanent(err))
		assert.Equal(t, int32(1), calls.Load())
		assert.Eventually(t, func() bool { return p.Stats().Failed == 1 }, time.Second, time.Millisecond)
	})
}

func TestBackpressure(t *testing.T) {
	ctx := context.Background()

	t.Run("Should reject jobs when the queue is full", func(t *testing.T) {
		started := make(chan struct{})
		release := make(chan struct{})
		var peak atomic.Int64
		var once atomic.Bool
		p, err := New(Config{Workers: 1, QueueSize: 1},
			func(context.Context, int) (int, error) {
				if once.CompareAndSwap(false, true) {
					close(started)
				}
				<-release
				return 0, nil
			},
			WithQueueDepthHook(func(d int) {
				if int64(d) > peak.Load() {
					peak.Store(int64(d))
				}
			}),
		)
		require.NoError(t, err)

		_, err = p.Submit(ctx, 1)
		require.NoError(t, err)
		<-started

		_, err = p.Submit(ctx, 2)
		require.NoError(t, err)
		_, err = p.Submit(ctx, 3)
		assert.ErrorIs(t, err, ErrQueueFull)
		assert.Equal(t, int64(1), p.Stats().QueueDepth)
		assert.False(t, p.IsHealthy())

		close(release)
		require.NoError(t, p.Stop(ctx))
		assert.Equal(t, int64(2), p.Stats().Completed)
		assert.Equal(t, int64(1), peak.Load())
	})

	t.Run("Should refuse jobs after stop", func(t *testing.T) {
		p, err := New(fastConfig(), func(context.Context, int) (int, error) { return 0, nil })
		require.NoError(t, err)
		require.NoError(t, p.Stop(ctx))
		require.NoError(t, p.Stop(ctx))

		_, err = p.Submit(ctx, 1)
		assert.ErrorIs(t, err, ErrPoolClosed)
	})

	t.Run("Should stop waiting when the caller gives up", func(t *testing.T) {
		release := make(chan struct{})
		p, err := New(fastConfig(), func(context.Context, int) (int, error) {
			<-release
			return 0, nil
		})
		require.NoError(t, err)

		waitCtx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()
		_, err = p.SubmitWait(waitCtx, 1)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		close(release)
		require.NoError(t, p.Stop(ctx))
	})
}

func TestNew(t *testing.T) {
	t.Run("Should require a worker function", func(t *testing.T) {
		_, err := New[int, int](Config{}, nil)
		assert.Error(t, err)
	})

	t.Run("Should fill in defaults", func(t *testing.T) {
		p, err := New(Config{}, func(context.Context, int) (int, error) { return 0, nil })
		require.NoError(t, err)
		defer p.Stop(context.Background())

		s := p.Stats()
		assert.Equal(t, DefaultConfig().Workers, s.Workers)
		assert.Equal(t, DefaultConfig().QueueSize, s.QueueCapacity)
		assert.True(t, p.IsHealthy())
	})
}
