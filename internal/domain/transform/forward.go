package transform

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/fk"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/spatial"
)

var up = r3.Vector{Y: 1}

// ForwardJoints names the joints used to estimate facing. Shoulders are
// optional; when both are empty only the hips are used.
type ForwardJoints struct {
	LeftShoulder  string
	RightShoulder string
	LeftHip       string
	RightHip      string
}

// ExtractForward estimates the horizontal facing at frame f from the
// left-to-right axes of the shoulders and hips. It returns the yaw
// atan2(z, x) of the forward direction and the direction itself.
func ExtractForward(c *motion.Clip, f int, joints ForwardJoints) (float64, r3.Vector, error) {
	if f < 0 || f >= c.Frames() {
		return 0, r3.Vector{}, fmt.Errorf("frame %d of %d: %w", f, c.Frames(), ErrFrameOutOfRange)
	}
	pairs := [][2]string{{joints.LeftHip, joints.RightHip}}
	if joints.LeftShoulder != "" || joints.RightShoulder != "" {
		pairs = append(pairs, [2]string{joints.LeftShoulder, joints.RightShoulder})
	}
	pos := fk.Frame(c.Skeleton, c.Rotations[f], c.Root[f]).Positions

	var across r3.Vector
	for _, pair := range pairs {
		l, err := c.Skeleton.Index(pair[0])
		if err != nil {
			return 0, r3.Vector{}, err
		}
		r, err := c.Skeleton.Index(pair[1])
		if err != nil {
			return 0, r3.Vector{}, err
		}
		across = across.Add(pos[l].Sub(pos[r]).Normalize())
	}
	forward := across.Normalize().Cross(up)
	if forward.Norm() < spatial.Epsilon {
		return 0, r3.Vector{}, fmt.Errorf("frame %d: %w", f, ErrDegenerateForward)
	}
	forward = forward.Normalize()
	return math.Atan2(forward.Z, forward.X), forward, nil
}

// ExtractPathForward returns the yaw atan2(z, x) of the root's horizontal
// displacement between frames start and end. An end past the clip is
// clamped to the last frame.
func ExtractPathForward(c *motion.Clip, start, end int) (float64, error) {
	if end >= c.Frames() {
		end = c.Frames() - 1
	}
	if start < 0 || start > end {
		return 0, fmt.Errorf("frames [%d, %d] of %d: %w", start, end, c.Frames(), ErrFrameOutOfRange)
	}
	d := c.Root[end].Sub(c.Root[start])
	if math.Hypot(d.X, d.Z) < spatial.Epsilon {
		return 0, fmt.Errorf("root does not move between frames %d and %d: %w", start, end, ErrDegenerateForward)
	}
	return math.Atan2(d.Z, d.X), nil
}
