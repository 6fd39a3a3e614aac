package blend

import (
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/spatial"
	"gonum.org/v1/gonum/num/quat"
)

// Dead extrapolates A's last per-frame local rotation delta into the window
// and nlerps from the extrapolated pose into B, reaching B exactly on the
// last window frame.
func Dead(a, b *motion.Clip, frames int) (*motion.Clip, motion.Record, error) {
	out, err := stitch(a, b, frames, 2)
	if err != nil {
		return nil, motion.Record{}, err
	}
	na := a.Frames()
	q1 := a.Rotations[na-1]
	delta := make([]quat.Number, len(q1))
	ext := make([]quat.Number, len(q1))
	for j := range q1 {
		q0 := spatial.AlignSign(q1[j], a.Rotations[na-2][j])
		delta[j] = spatial.Normalize(spatial.Mul(q1[j], spatial.Inverse(q0)))
		ext[j] = spatial.Normalize(spatial.Mul(delta[j], q1[j]))
	}
	for i := 0; i < frames; i++ {
		alpha := float64(i+1) / float64(frames)
		frame := out.Rotations[na+i]
		for j := range frame {
			frame[j] = spatial.Nlerp(ext[j], frame[j], alpha)
			ext[j] = spatial.Normalize(spatial.Mul(delta[j], ext[j]))
		}
	}
	return finish(out, ModeDead, a, b, frames, nil)
}
