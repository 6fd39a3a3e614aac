// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/golang/geo/r3"
	repository "github.com/okian/stride/internal/adapters/repository"
	"github.com/okian/stride/internal/domain/blend"
	"github.com/okian/stride/internal/domain/footlock"
	"github.com/okian/stride/internal/domain/transform"
	"github.com/okian/stride/internal/worker"
	"github.com/okian/stride/pkg/logger"
	"github.com/okian/stride/pkg/metrics"
)

// Service stores clips and runs editing operations on them. Every
// operation stores its result as a new clip; stored clips are never
// modified.
type Service struct {
	mu sync.RWMutex

	// Core components
	store repository.Store
	pool  *worker.Pool

	// Configuration
	workerCount   int
	storeSize     int
	frameTime     float64
	facing        r3.Vector
	footlock      footlock.Config
	blendFrames   int
	blendSubsteps int
	decayFraction float64
	mirrorLeft    string
	mirrorRight   string
	forward       transform.ForwardJoints

	// State
	started bool

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		storeSize:     1024,
		frameTime:     1.0 / 30,
		facing:        r3.Vector{Z: 1},
		footlock:      defaultFootLock(),
		blendFrames:   20,
		blendSubsteps: blend.DefaultSubsteps,
		decayFraction: blend.DefaultDecayFraction,
		mirrorLeft:    "Left",
		mirrorRight:   "Right",
		forward: transform.ForwardJoints{
			LeftShoulder:  "LeftShoulder",
			RightShoulder: "RightShoulder",
			LeftHip:       "LeftUpLeg",
			RightHip:      "RightUpLeg",
		},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func defaultFootLock() footlock.Config {
	cfg := footlock.DefaultConfig()
	cfg.LeftFoot = "LeftFoot"
	cfg.RightFoot = "RightFoot"
	return cfg
}

// Start initializes the clip store and worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("app")
	}

	s.logger.Info(ctx, "starting motion service...")

	s.store = repository.NewMemoryStore(ctx, repository.WithCapacity(s.storeSize))
	s.pool = worker.NewPool(s.workerCount, worker.WithName("frames"))

	s.started = true
	s.logger.Info(ctx, "motion service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("storeSize", s.storeSize),
	)

	return nil
}

// Stop shuts down the clip store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping motion service...")

	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "motion service stopped")
}

// deps returns the running store and pool.
func (s *Service) deps() (repository.Store, *worker.Pool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, nil, ErrNotStarted
	}
	return s.store, s.pool, nil
}

// FootLockConfig returns the default foot locking configuration.
func (s *Service) FootLockConfig() footlock.Config {
	return s.footlock
}

// BlendFrames returns the default blend window.
func (s *Service) BlendFrames() int {
	return s.blendFrames
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"storeSize":   s.storeSize,
		"blendFrames": s.blendFrames,
	}

	if s.started {
		clips := s.store.Count(context.Background())
		stats["clips"] = clips
		metrics.UpdateClipsStored(clips)
		metrics.UpdateWorkerCount(s.pool.Size())
	}

	return stats
}

// observe records metrics and a log line for a finished operation.
func (s *Service) observe(ctx context.Context, op string, start time.Time, frames int, err error) {
	elapsed := time.Since(start)
	metrics.RecordOperationDuration(op, float64(elapsed.Microseconds())/1000)
	if err != nil {
		metrics.RecordOperation(op, "error")
		s.logger.Warn(ctx, "operation failed",
			logger.String("operation", op),
			logger.Duration("elapsed", elapsed),
			logger.Error(err),
		)
		return
	}
	metrics.RecordOperation(op, "ok")
	metrics.RecordFramesProcessed(op, frames)
	s.logger.Debug(ctx, "operation finished",
		logger.String("operation", op),
		logger.Int("frames", frames),
		logger.Duration("elapsed", elapsed),
	)
}

func wrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}
