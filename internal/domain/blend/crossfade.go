package blend

import (
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/spatial"
	"gonum.org/v1/gonum/num/quat"
)

// CrossFade slerps every local rotation from A's last frame to B's frame
// frames-1 over the window. The output frame a.Frames()-1 keeps A's rotation
// (alpha 0) and frame a.Frames()+frames-1 holds B's rotation (alpha 1).
// A window of zero frames is a hard cut.
func CrossFade(a, b *motion.Clip, frames int) (*motion.Clip, motion.Record, error) {
	out, err := stitch(a, b, frames, 1)
	if err != nil {
		return nil, motion.Record{}, err
	}
	if frames > 0 {
		na := a.Frames()
		start := append([]quat.Number(nil), out.Rotations[na-1]...)
		end := append([]quat.Number(nil), out.Rotations[na+frames-1]...)
		for f := na - 1; f < na+frames; f++ {
			alpha := float64(f-na+1) / float64(frames)
			for j := range start {
				out.Rotations[f][j] = spatial.Slerp(start[j], end[j], alpha)
			}
		}
	}
	return finish(out, ModeCrossFade, a, b, frames, nil)
}
