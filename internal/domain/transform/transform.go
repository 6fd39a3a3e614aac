// Package transform holds whole-clip edits: scaling, mirroring, grounding,
// root re-centering, temporal down-sampling, rotation about the vertical
// axis, joint removal and facing-aligned concatenation. Every function
// returns a new clip and the record describing the edit; the input clip is
// never modified.
package transform

import (
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/fk"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/spatial"
	"gonum.org/v1/gonum/num/quat"
)

// Scale multiplies root positions and rest offsets by factor. A factor of
// zero or less normalizes the clip so that its rest pose is one unit tall.
func Scale(c *motion.Clip, factor float64) (*motion.Clip, motion.Record, error) {
	if !(factor > 0) {
		rest := fk.RestPositions(c.Skeleton)
		lo, hi := rest[0].Y, rest[0].Y
		for _, p := range rest {
			lo = min(lo, p.Y)
			hi = max(hi, p.Y)
		}
		if hi-lo < spatial.Epsilon {
			return nil, motion.Record{}, ErrDegenerateHeight
		}
		factor = 1 / (hi - lo)
	}
	offsets := c.Skeleton.Offsets()
	for j := range offsets {
		offsets[j] = offsets[j].Mul(factor)
	}
	skel, err := c.Skeleton.WithOffsets(offsets)
	if err != nil {
		return nil, motion.Record{}, err
	}
	out := c.Clone()
	out.Skeleton = skel
	for f := range out.Root {
		out.Root[f] = out.Root[f].Mul(factor)
	}
	return out, motion.NewRecord(motion.OpScale, map[string]any{"factor": factor}), nil
}

// OnGround lifts or lowers the clip so its lowest joint over all frames
// sits at height zero.
func OnGround(c *motion.Clip) (*motion.Clip, motion.Record, error) {
	if c.Frames() == 0 {
		return nil, motion.Record{}, motion.ErrEmptyClip
	}
	positions := fk.Positions(c)
	lowest := positions[0][0].Y
	for _, frame := range positions {
		for _, p := range frame {
			lowest = min(lowest, p.Y)
		}
	}
	out := c.Clone()
	for f := range out.Root {
		out.Root[f].Y -= lowest
	}
	return out, motion.NewRecord(motion.OpOnGround, map[string]any{"shift": -lowest}), nil
}

// CenterRoot moves the clip horizontally so the root starts above the
// origin. The removed offset is returned in the record.
func CenterRoot(c *motion.Clip) (*motion.Clip, motion.Record, error) {
	if c.Frames() == 0 {
		return nil, motion.Record{}, motion.ErrEmptyClip
	}
	offset := r3.Vector{X: c.Root[0].X, Z: c.Root[0].Z}
	out := c.Clone()
	for f := range out.Root {
		out.Root[f] = out.Root[f].Sub(offset)
	}
	return out, motion.NewRecord(motion.OpCenterRoot, map[string]any{
		"offset_x": offset.X,
		"offset_z": offset.Z,
	}), nil
}

// TemporalScale keeps every stride-th frame and stretches the frame time
// accordingly, so the clip duration is preserved up to the dropped tail.
func TemporalScale(c *motion.Clip, stride int) (*motion.Clip, motion.Record, error) {
	if stride < 1 {
		return nil, motion.Record{}, fmt.Errorf("stride %d: %w", stride, ErrInvalidStride)
	}
	out := &motion.Clip{Skeleton: c.Skeleton, FrameTime: c.FrameTime * float64(stride)}
	for f := 0; f < c.Frames(); f += stride {
		out.Rotations = append(out.Rotations, append([]quat.Number(nil), c.Rotations[f]...))
		out.Root = append(out.Root, c.Root[f])
	}
	return out, motion.NewRecord(motion.OpTemporalScale, map[string]any{"stride": stride}), nil
}

// RotateY turns the whole clip by angle radians about the vertical axis
// through the origin.
func RotateY(c *motion.Clip, angle float64) (*motion.Clip, motion.Record, error) {
	out := rotateRoot(c, spatial.Yaw(angle))
	return out, motion.NewRecord(motion.OpRotate, map[string]any{"angle": angle}), nil
}

// rotateRoot applies q to every root rotation and root position of a copy
// of c.
func rotateRoot(c *motion.Clip, q quat.Number) *motion.Clip {
	out := c.Clone()
	for f := range out.Rotations {
		out.Rotations[f][0] = spatial.Normalize(spatial.Mul(q, out.Rotations[f][0]))
		out.Root[f] = spatial.Rotate(q, out.Root[f])
	}
	out.EnforceSignContinuity()
	return out
}
