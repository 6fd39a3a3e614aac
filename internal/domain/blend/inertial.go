package blend

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/fk"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/spatial"
	"gonum.org/v1/gonum/num/quat"
)

// spring is one joint's rotational offset from its target, decaying as a
// critically damped system.
type spring struct {
	x, v r3.Vector
}

// step advances the spring by h with decay rate lambda using the exact
// exponential discretization.
func (s *spring) step(lambda, h float64) {
	e := math.Exp(-lambda * h)
	kx := s.v.Add(s.x.Mul(lambda))
	x := s.x.Add(kx.Mul(h)).Mul(e)
	s.v = kx.Mul(e).Sub(x.Mul(lambda))
	s.x = x
}

// Inertial replaces the first frames of B with a critically damped decay of
// A's final global orientations towards B's global orientation at frame
// frames. The spring starts from the offset between A's last pose and that
// target and from A's last angular velocity. Local rotations are re-derived
// from the blended global orientations. A window of zero frames is a hard
// cut.
func Inertial(a, b *motion.Clip, frames int, opts ...Option) (*motion.Clip, motion.Record, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, motion.Record{}, err
	}
	// The velocity estimate needs two frames of A; a hard cut needs one.
	minA := 2
	if frames == 0 {
		minA = 1
	}
	out, err := stitch(a, b, frames, minA)
	if err != nil {
		return nil, motion.Record{}, err
	}
	extra := map[string]any{"substeps": s.substeps, "decay_fraction": s.decay}
	if frames == 0 {
		return finish(out, ModeInertial, a, b, frames, extra)
	}

	na := a.Frames()
	dt := a.FrameTime
	last := fk.Orientations(a, na-1)
	prev := fk.Orientations(a, na-2)
	target := fk.Orientations(b, frames)

	springs := make([]spring, len(last))
	for j := range last {
		target[j] = spatial.AlignSign(last[j], target[j])
		p := spatial.AlignSign(last[j], prev[j])
		springs[j] = spring{
			x: spatial.ToRotationVector(spatial.Mul(last[j], spatial.Inverse(target[j]))),
			v: spatial.ToRotationVector(spatial.Mul(last[j], spatial.Inverse(p))).Mul(1 / dt),
		}
	}

	lambda := math.Log(1/s.decay) / (float64(frames) * dt)
	h := dt / float64(s.substeps)
	global := make([]quat.Number, len(last))
	for k := 0; k < frames; k++ {
		for j := range springs {
			for i := 0; i < s.substeps; i++ {
				springs[j].step(lambda, h)
			}
			global[j] = spatial.Normalize(spatial.Mul(spatial.FromRotationVector(springs[j].x), target[j]))
		}
		out.Rotations[na+k] = fk.Locals(out.Skeleton, global)
	}
	return finish(out, ModeInertial, a, b, frames, extra)
}
