package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"
)

var ErrPoolClosed = errors.New("worker pool is closed")

// Config configures the pool
type Config struct {
	Workers int // number of workers
}

// DefaultConfig returns the default pool configuration
func DefaultConfig() *Config {
	return &Config{
		Workers: 16,
	}
}

// Statistics tracks task counts
type Statistics struct {
	mu sync.RWMutex

	Submitted int64
	Completed int64
	Failed    int64
}

func (s *Statistics) incSubmitted() {
	s.mu.Lock()
	s.Submitted++
	s.mu.Unlock()
}

func (s *Statistics) incCompleted() {
	s.mu.Lock()
	s.Completed++
	s.mu.Unlock()
}

func (s *Statistics) incFailed() {
	s.mu.Lock()
	s.Failed++
	s.mu.Unlock()
}

func (s *Statistics) Get() Statistics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Statistics{
		Submitted: s.Submitted,
		Completed: s.Completed,
		Failed:    s.Failed,
	}
}

// Pool runs background tasks detached from the request path.
// Task outcomes are observed only through logging and statistics.
type Pool struct {
	pool   *ants.Pool
	stats  *Statistics
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a worker pool
func New(config *Config, logger *zap.Logger) (*Pool, error) {
	if config == nil {
		config = DefaultConfig()
	}

	antsPool, err := ants.NewPool(config.Workers,
		ants.WithPanicHandler(func(err interface{}) {
			logger.Error("worker panic", zap.Any("error", err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ants pool: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		pool:   antsPool,
		stats:  &Statistics{},
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Submit schedules a task for execution
func (p *Pool) Submit(task func()) error {
	select {
	case <-p.ctx.Done():
		return ErrPoolClosed
	default:
	}

	p.stats.incSubmitted()
	err := p.pool.Submit(func() {
		task()
		p.stats.incCompleted()
	})
	if err != nil {
		p.stats.incFailed()
	}
	return err
}

// SubmitWithTimeout schedules a task that receives a context cancelled after
// the given timeout. Used for fire-and-forget work that must not run forever.
func (p *Pool) SubmitWithTimeout(timeout time.Duration, task func(ctx context.Context)) error {
	return p.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		task(ctx)
	})
}

// Running returns the number of running workers
func (p *Pool) Running() int {
	return p.pool.Running()
}

// Stats returns the task statistics
func (p *Pool) Stats() Statistics {
	return p.stats.Get()
}

// Shutdown stops accepting tasks and releases the pool
func (p *Pool) Shutdown() {
	p.cancel()
	p.pool.Release()
}
