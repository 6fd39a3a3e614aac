package footlock

import (
	"fmt"

	"github.com/okian/stride/internal/worker"
)

// Config controls contact detection, smoothing and the FABRIK solve.
type Config struct {
	// LeftFoot and RightFoot name the foot joints. Each leg chain runs from
	// the foot up to the child of the root.
	LeftFoot  string
	RightFoot string

	// AvgFactor marks a foot in contact when its height is below
	// AvgFactor times its average height over the clip.
	AvgFactor float64
	// MinContactFrames drops contact runs shorter than this.
	MinContactFrames int
	// ContactSigma is the Gaussian sigma, in frames, applied to the lock
	// targets. Zero disables smoothing.
	ContactSigma float64

	// FixBarycenter enables the root correction over double-support runs.
	FixBarycenter bool
	// BarycenterSigma is the Gaussian sigma applied to the root correction.
	BarycenterSigma float64

	MaxIterations int

	// Tolerance is the squared distance at which a leg solve stops.
	Tolerance float64
}

// DefaultConfig returns the solver defaults. Foot names are left empty and
// must be supplied by the caller.
func DefaultConfig() Config {
	return Config{
		AvgFactor:        2,
		MinContactFrames: 5,
		ContactSigma:     3,
		FixBarycenter:    true,
		BarycenterSigma:  5,
		MaxIterations:    20,
		Tolerance:        1e-4,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch {
	case c.LeftFoot == "" || c.RightFoot == "":
		return ErrFootNotSet
	case !(c.AvgFactor > 0):
		return fmt.Errorf("avg factor %v: %w", c.AvgFactor, ErrInvalidConfig)
	case c.MinContactFrames < 1:
		return fmt.Errorf("minimum contact frames %d: %w", c.MinContactFrames, ErrInvalidConfig)
	case c.ContactSigma < 0 || c.BarycenterSigma < 0:
		return fmt.Errorf("negative smoothing sigma: %w", ErrInvalidConfig)
	case c.MaxIterations < 1:
		return fmt.Errorf("max iterations %d: %w", c.MaxIterations, ErrInvalidConfig)
	case !(c.Tolerance > 0):
		return fmt.Errorf("tolerance %v: %w", c.Tolerance, ErrInvalidConfig)
	}
	return nil
}

// Option applies a configuration option to RemoveFootSliding.
type Option func(*settings)

type settings struct {
	runner worker.Runner
}

// WithRunner solves frames through r.
func WithRunner(r worker.Runner) Option {
	return func(s *settings) {
		if r != nil {
			s.runner = r
		}
	}
}
