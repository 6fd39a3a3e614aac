package blend

// Default inertial blending parameters.
const (
	DefaultSubsteps      = 1
	DefaultDecayFraction = 1.0 / 64
)

type settings struct {
	substeps int
	decay    float64
}

// Option configures inertial blending. Other modes ignore options.
type Option func(*settings)

// WithSubsteps integrates the spring n times per frame.
func WithSubsteps(n int) Option {
	return func(s *settings) {
		s.substeps = n
	}
}

// WithDecayFraction sets the fraction of the initial offset left at the end
// of the window.
func WithDecayFraction(f float64) Option {
	return func(s *settings) {
		s.decay = f
	}
}

func newSettings(opts []Option) (settings, error) {
	s := settings{substeps: DefaultSubsteps, decay: DefaultDecayFraction}
	for _, opt := range opts {
		opt(&s)
	}
	if s.substeps < 1 {
		return s, ErrInvalidSubsteps
	}
	if !(s.decay > 0 && s.decay < 1) {
		return s, ErrInvalidDecay
	}
	return s, nil
}
