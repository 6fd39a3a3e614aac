package transform

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/spatial"
)

// AlignConcat turns b about the vertical axis so that its first root facing
// matches a's last, moves it horizontally so its root starts where a's
// ends, and appends it to a. facing is the root's forward axis in its local
// frame.
func AlignConcat(a, b *motion.Clip, facing r3.Vector) (*motion.Clip, motion.Record, error) {
	if a.Frames() == 0 || b.Frames() == 0 {
		return nil, motion.Record{}, motion.ErrEmptyClip
	}
	end := spatial.Rotate(a.Rotations[a.Frames()-1][0], facing)
	start := spatial.Rotate(b.Rotations[0][0], facing)
	end.Y, start.Y = 0, 0
	turn := spatial.FromTo(start, end)

	aligned := rotateRoot(b, turn)
	shift := a.Root[a.Frames()-1].Sub(aligned.Root[0])
	shift.Y = 0
	for f := range aligned.Root {
		aligned.Root[f] = aligned.Root[f].Add(shift)
	}

	out, err := motion.Concat(a, aligned)
	if err != nil {
		return nil, motion.Record{}, fmt.Errorf("align concat: %w", err)
	}
	out.EnforceSignContinuity()
	return out, motion.NewRecord(motion.OpAlignConcat, map[string]any{
		"a_frames": a.Frames(),
		"b_frames": b.Frames(),
		"yaw":      spatial.ToRotationVector(turn).Y,
	}), nil
}
