// Package workerpool provides a bounded worker pool with retries for
// translating interchanges concurrently.
package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrQueueFull is returned when the job queue has no free slot
	ErrQueueFull = errors.New("job queue is full")
	// ErrPoolClosed is returned for submissions after Stop
	ErrPoolClosed = errors.New("worker pool is closed")
)

// Func processes one job
type Func[In, Out any] func(ctx context.Context, in In) (Out, error)

// Result is the outcome of one job
type Result[Out any] struct {
	Value    Out
	Err      error
	Attempts int
}

// Config holds worker pool configuration
type Config struct {
	// Workers is the number of concurrent workers
	Workers int
	// QueueSize bounds the number of jobs waiting for a worker
	QueueSize int
	// MaxRetries is the number of retries after the first attempt
	MaxRetries int
	// RetryDelay grows linearly with the attempt number
	RetryDelay time.Duration
}

// DefaultConfig returns defaults sized for a single translation service
func DefaultConfig() Config {
	return Config{
		Workers:    8,
		QueueSize:  256,
		MaxRetries: 3,
		RetryDelay: 100 * time.Millisecond,
	}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent
func IsPermanent(err error) bool {
	var pe *permanentError
	return errors.As(err, &pe)
}

type job[In, Out any] struct {
	ctx   context.Context
	in    In
	reply chan Result[Out]
}

// Option configures a Pool
type Option func(*options)

type options struct {
	logger    *zap.Logger
	depthHook func(depth int)
}

// WithLogger sets the pool logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithQueueDepthHook is called with the queue depth whenever it changes
func WithQueueDepthHook(fn func(depth int)) Option {
	return func(o *options) { o.depthHook = fn }
}

// Pool runs jobs on a fixed set of workers
type Pool[In, Out any] struct {
	config Config
	fn     Func[In, Out]
	opts   options

	mu     sync.RWMutex
	closed bool
	jobs   chan job[In, Out]
	wg     sync.WaitGroup

	submitted atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
	retried   atomic.Int64
	active    atomic.Int64
	depth     atomic.Int64
}

// New creates a pool and starts its workers
func New[In, Out any](cfg Config, fn Func[In, Out], opts ...Option) (*Pool[In, Out], error) {
	if fn == nil {
		return nil, fmt.Errorf("worker function is required")
	}
	def := DefaultConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}

	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pool[In, Out]{
		config: cfg,
		fn:     fn,
		opts:   o,
		jobs:   make(chan job[In, Out], cfg.QueueSize),
	}
	for i := 0; i < cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.opts.logger.Info("worker pool started",
		zap.Int("workers", cfg.Workers),
		zap.Int("queue_size", cfg.QueueSize))
	return p, nil
}

// Submit queues a job without blocking. The returned channel receives exactly
// one result.
func (p *Pool[In, Out]) Submit(ctx context.Context, in In) (<-chan Result[Out], error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrPoolClosed
	}

	j := job[In, Out]{ctx: ctx, in: in, reply: make(chan Result[Out], 1)}
	select {
	case p.jobs <- j:
		p.submitted.Add(1)
		p.setDepth(p.depth.Add(1))
		return j.reply, nil
	default:
		return nil, ErrQueueFull
	}
}

// SubmitWait queues a job and waits for its result
func (p *Pool[In, Out]) SubmitWait(ctx context.Context, in In) (Out, error) {
	var zero Out
	reply, err := p.Submit(ctx, in)
	if err != nil {
		return zero, err
	}
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-reply:
		return res.Value, res.Err
	}
}

// Stop refuses new jobs and waits for queued ones to finish or ctx to expire
func (p *Pool[In, Out]) Stop(ctx context.Context) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.jobs)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.opts.logger.Info("worker pool stopped")
		return nil
	case <-ctx.Done():
		p.opts.logger.Warn("worker pool shutdown timed out")
		return ctx.Err()
	}
}

func (p *Pool[In, Out]) worker(id int) {
	defer p.wg.Done()
	for j := range p.jobs {
		p.setDepth(p.depth.Add(-1))
		p.active.Add(1)
		res := p.run(j)
		p.active.Add(-1)

		if res.Err != nil {
			p.failed.Add(1)
			p.opts.logger.Error("job failed",
				zap.Int("worker_id", id),
				zap.Int("attempts", res.Attempts),
				zap.Error(res.Err))
		} else {
			p.completed.Add(1)
		}
		j.reply <- res
	}
}

func (p *Pool[In, Out]) run(j job[In, Out]) Result[Out] {
	ctx := j.ctx
	if ctx == nil {
		ctx = context.Background()
	}

	var lastErr error
	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result[Out]{Err: err, Attempts: attempt}
		}

		out, err := p.fn(ctx, j.in)
		if err == nil {
			return Result[Out]{Value: out, Attempts: attempt + 1}
		}
		lastErr = err
		if IsPermanent(err) {
			return Result[Out]{Err: err, Attempts: attempt + 1}
		}

		if attempt < p.config.MaxRetries {
			p.retried.Add(1)
			p.opts.logger.Debug("retrying job", zap.Int("attempt", attempt+1), zap.Error(err))
			timer := time.NewTimer(p.config.RetryDelay * time.Duration(attempt+1))
			select {
			case <-ctx.Done():
				timer.Stop()
				return Result[Out]{Err: ctx.Err(), Attempts: attempt + 1}
			case <-timer.C:
			}
		}
	}

	return Result[Out]{
		Err:      fmt.Errorf("job failed after %d retries: %w", p.config.MaxRetries, lastErr),
		Attempts: p.config.MaxRetries + 1,
	}
}

func (p *Pool[In, Out]) setDepth(depth int64) {
	if p.opts.depthHook != nil {
		p.opts.depthHook(int(depth))
	}
}

// Stats is a snapshot of pool counters
type Stats struct {
	Submitted     int64
	Completed     int64
	Failed        int64
	Retried       int64
	Active        int64
	QueueDepth    int64
	QueueCapacity int
	Workers       int
}

// Stats returns current pool statistics
func (p *Pool[In, Out]) Stats() Stats {
	return Stats{
		Submitted:     p.submitted.Load(),
		Completed:     p.completed.Load(),
		Failed:        p.failed.Load(),
		Retried:       p.retried.Load(),
		Active:        p.active.Load(),
		QueueDepth:    p.depth.Load(),
		QueueCapacity: p.config.QueueSize,
		Workers:       p.config.Workers,
	}
}

// IsHealthy reports whether the queue is below 90% of its capacity
func (p *Pool[In, Out]) IsHealthy() bool {
	s := p.Stats()
	return float64(s.QueueDepth)/float64(s.QueueCapacity) < 0.9
}
