package service

import (
	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/footlock"
	"github.com/okian/stride/internal/domain/transform"
	"github.com/okian/stride/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of goroutines solving frames in parallel.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithStoreSize bounds the number of stored clips. Zero means unbounded.
func WithStoreSize(size int) Option {
	return func(s *Service) {
		if size >= 0 {
			s.storeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaultFrameTime sets the frame time used when a request omits it.
func WithDefaultFrameTime(frameTime float64) Option {
	return func(s *Service) {
		if frameTime > 0 {
			s.frameTime = frameTime
		}
	}
}

// WithInitialFacing sets the rest-pose facing used by reconstruction and
// aligned concatenation.
func WithInitialFacing(facing r3.Vector) Option {
	return func(s *Service) {
		if facing.Norm() > 0 {
			s.facing = facing
		}
	}
}

// WithFootLockConfig sets the default foot locking configuration.
func WithFootLockConfig(cfg footlock.Config) Option {
	return func(s *Service) {
		s.footlock = cfg
	}
}

// WithBlendDefaults sets the default blend window and inertial settings.
func WithBlendDefaults(frames, substeps int, decayFraction float64) Option {
	return func(s *Service) {
		if frames >= 0 {
			s.blendFrames = frames
		}
		if substeps > 0 {
			s.blendSubsteps = substeps
		}
		if decayFraction > 0 && decayFraction < 1 {
			s.decayFraction = decayFraction
		}
	}
}

// WithMirrorTokens sets the default left/right name tokens for mirroring.
func WithMirrorTokens(left, right string) Option {
	return func(s *Service) {
		s.mirrorLeft = left
		s.mirrorRight = right
	}
}

// WithForwardJoints sets the joints used to estimate facing.
func WithForwardJoints(joints transform.ForwardJoints) Option {
	return func(s *Service) {
		s.forward = joints
	}
}
