// Package motion holds animation clips: per-frame local joint rotations and
// root translations over an immutable skeleton.
package motion

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/skeleton"
	"github.com/okian/stride/internal/domain/spatial"
	"gonum.org/v1/gonum/num/quat"
)

// Clip is a finite sequence of poses for one skeleton.
//
// Rotations[f][j] is the rotation of joint j relative to its parent at frame
// f. Root[f] is the world translation of the root joint. Global positions
// and orientations are derived through the fk package and never stored.
type Clip struct {
	Skeleton  *skeleton.Skeleton
	FrameTime float64
	Rotations [][]quat.Number
	Root      []r3.Vector
}

// New builds a clip that takes ownership of the given buffers.
func New(skel *skeleton.Skeleton, frameTime float64, rotations [][]quat.Number, root []r3.Vector) (*Clip, error) {
	c := &Clip{Skeleton: skel, FrameTime: frameTime, Rotations: rotations, Root: root}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// NewRest builds a clip of frames copies of the rest pose, with the root held
// at its rest offset.
func NewRest(skel *skeleton.Skeleton, frames int, frameTime float64) (*Clip, error) {
	if skel == nil {
		return nil, ErrNilSkeleton
	}
	rotations := make([][]quat.Number, frames)
	root := make([]r3.Vector, frames)
	for f := range rotations {
		rotations[f] = make([]quat.Number, skel.Len())
		for j := range rotations[f] {
			rotations[f][j] = spatial.Identity()
		}
		root[f] = skel.Offset(0)
	}
	return New(skel, frameTime, rotations, root)
}

// Frames returns the number of frames.
func (c *Clip) Frames() int { return len(c.Rotations) }

// Joints returns the number of joints.
func (c *Clip) Joints() int { return c.Skeleton.Len() }

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 { return float64(c.Frames()) * c.FrameTime }

// Validate checks buffer shapes against the skeleton.
func (c *Clip) Validate() error {
	if c.Skeleton == nil {
		return ErrNilSkeleton
	}
	if !(c.FrameTime > 0) || math.IsInf(c.FrameTime, 0) {
		return fmt.Errorf("frame time %v: %w", c.FrameTime, ErrInvalidFrameTime)
	}
	if len(c.Root) != len(c.Rotations) {
		return fmt.Errorf("%d rotation frames but %d root positions: %w", len(c.Rotations), len(c.Root), ErrShapeMismatch)
	}
	n := c.Skeleton.Len()
	for f, frame := range c.Rotations {
		if len(frame) != n {
			return fmt.Errorf("frame %d has %d rotations for %d joints: %w", f, len(frame), n, ErrShapeMismatch)
		}
	}
	return nil
}

// Clone returns a deep copy. The skeleton is shared since it is immutable.
func (c *Clip) Clone() *Clip {
	out := &Clip{
		Skeleton:  c.Skeleton,
		FrameTime: c.FrameTime,
		Rotations: make([][]quat.Number, len(c.Rotations)),
		Root:      make([]r3.Vector, len(c.Root)),
	}
	for f, frame := range c.Rotations {
		out.Rotations[f] = append([]quat.Number(nil), frame...)
	}
	copy(out.Root, c.Root)
	return out
}

// Normalize rescales every rotation to unit length in place.
func (c *Clip) Normalize() {
	for _, frame := range c.Rotations {
		for j, q := range frame {
			frame[j] = spatial.Normalize(q)
		}
	}
}

// EnforceSignContinuity flips rotations in place so that every joint's
// quaternion stays in the hemisphere of its previous frame.
func (c *Clip) EnforceSignContinuity() {
	for f := 1; f < len(c.Rotations); f++ {
		prev, cur := c.Rotations[f-1], c.Rotations[f]
		for j := range cur {
			cur[j] = spatial.AlignSign(prev[j], cur[j])
		}
	}
}

// Slice returns a copy of frames [start, end).
func (c *Clip) Slice(start, end int) (*Clip, error) {
	if start < 0 || end > c.Frames() || start >= end {
		return nil, fmt.Errorf("slice [%d, %d) of %d frames: %w", start, end, c.Frames(), ErrFrameOutOfRange)
	}
	out := &Clip{
		Skeleton:  c.Skeleton,
		FrameTime: c.FrameTime,
		Rotations: make([][]quat.Number, 0, end-start),
		Root:      append([]r3.Vector(nil), c.Root[start:end]...),
	}
	for _, frame := range c.Rotations[start:end] {
		out.Rotations = append(out.Rotations, append([]quat.Number(nil), frame...))
	}
	return out, nil
}

// Concat appends b's frames to a copy of a. Root positions are copied as
// is and a's frame time is kept.
func Concat(a, b *Clip) (*Clip, error) {
	if !a.Skeleton.Compatible(b.Skeleton) {
		return nil, ErrSkeletonMismatch
	}
	out := a.Clone()
	for _, frame := range b.Rotations {
		out.Rotations = append(out.Rotations, append([]quat.Number(nil), frame...))
	}
	out.Root = append(out.Root, b.Root...)
	return out, nil
}

// MaxNormDeviation returns the largest | ||q|| - 1 | over the clip.
func (c *Clip) MaxNormDeviation() float64 {
	var worst float64
	for _, frame := range c.Rotations {
		for _, q := range frame {
			worst = math.Max(worst, math.Abs(quat.Abs(q)-1))
		}
	}
	return worst
}

// SignDiscontinuities counts adjacent-frame joint pairs whose quaternion dot
// product is negative.
func (c *Clip) SignDiscontinuities() int {
	var n int
	for f := 1; f < len(c.Rotations); f++ {
		for j := range c.Rotations[f] {
			if spatial.Dot(c.Rotations[f-1][j], c.Rotations[f][j]) < 0 {
				n++
			}
		}
	}
	return n
}
