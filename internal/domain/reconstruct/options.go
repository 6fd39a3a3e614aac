package reconstruct

import (
	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/worker"
)

// Default reconstruction configuration constants.
const (
	defaultFrameTime = 1.0 / 30
	offsetEpsilon    = 1e-9
)

// Option applies a configuration option to a reconstruction call.
type Option func(*settings)

type settings struct {
	facing    r3.Vector
	frameTime float64
	runner    worker.Runner
}

func defaults() settings {
	return settings{
		facing:    r3.Vector{Z: 1},
		frameTime: defaultFrameTime,
		runner:    worker.Sequential{},
	}
}

// WithInitialFacing sets the rest-pose facing reference used to resolve
// twist below forks.
func WithInitialFacing(facing r3.Vector) Option {
	return func(s *settings) {
		s.facing = facing
	}
}

// WithFrameTime sets the frame time of the produced clip.
func WithFrameTime(frameTime float64) Option {
	return func(s *settings) {
		if frameTime > 0 {
			s.frameTime = frameTime
		}
	}
}

// WithRunner solves frames through r, for example a worker.Pool.
func WithRunner(r worker.Runner) Option {
	return func(s *settings) {
		if r != nil {
			s.runner = r
		}
	}
}
