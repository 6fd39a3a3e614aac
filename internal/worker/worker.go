// Package worker provides fork-join execution of independent indexed tasks,
// such as per-frame IK solves, with a bounded number of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/okian/stride/pkg/logger"
	"github.com/okian/stride/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Task processes item i. Tasks in one batch must write disjoint outputs.
type Task func(ctx context.Context, i int) error

// Runner executes n tasks and returns the first error.
type Runner interface {
	Run(ctx context.Context, n int, task Task) error
}

// Sequential runs tasks one after another on the calling goroutine.
type Sequential struct{}

// Run implements Runner.
func (Sequential) Run(ctx context.Context, n int, task Task) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := task(ctx, i); err != nil {
			return err
		}
	}
	return nil
}

// Pool runs batches with at most size concurrent tasks.
type Pool struct {
	size   int
	name   string
	logger logger.Logger
}

// NewPool creates a pool. A size below one uses runtime.NumCPU().
func NewPool(size int, opts ...Option) *Pool {
	if size < 1 {
		size = runtime.NumCPU()
	}
	p := &Pool{
		size: size,
		name: "pool",
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logger.Get().Named("worker-pool")
	}

	metrics.UpdateWorkerCount(size)
	return p
}

// Size returns the concurrency limit.
func (p *Pool) Size() int { return p.size }

// Run executes task for every i in [0, n). The first failure cancels the
// context passed to the remaining tasks and is returned. A batch cut short
// by ctx reports ctx's error even when no started task failed.
func (p *Pool) Run(ctx context.Context, n int, task Task) error {
	if n <= 0 {
		return nil
	}
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)
	scheduled := 0
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		scheduled++
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := task(gctx, i); err != nil {
				return fmt.Errorf("task %d: %w", i, err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil && scheduled < n {
		err = fmt.Errorf("%d of %d tasks not run: %w", n-scheduled, n, context.Cause(ctx))
	}
	latency := time.Since(start)
	if err != nil {
		metrics.RecordWorkerError(p.name)
		p.logger.Warn(ctx, "batch failed",
			logger.String("pool", p.name),
			logger.Int("tasks", n),
			logger.Error(err),
		)
		return err
	}

	metrics.RecordWorkerBatch(p.name, n, float64(latency.Microseconds())/1000)
	p.logger.Debug(ctx, "batch done",
		logger.String("pool", p.name),
		logger.Int("tasks", n),
		logger.Duration("took", latency),
	)
	return nil
}
