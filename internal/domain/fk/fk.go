// Package fk evaluates forward kinematics: global joint positions and
// orientations from local rotations, rest offsets and root translation.
package fk

import (
	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/skeleton"
	"github.com/okian/stride/internal/domain/spatial"
	"gonum.org/v1/gonum/num/quat"
)

// Pose holds the world-space state of every joint for one frame.
type Pose struct {
	Positions    []r3.Vector
	Orientations []quat.Number
}

// Frame evaluates a single frame. Joints are visited in index order, which
// is parent-first for a validated skeleton.
func Frame(skel *skeleton.Skeleton, rotations []quat.Number, root r3.Vector) Pose {
	n := skel.Len()
	p := Pose{
		Positions:    make([]r3.Vector, n),
		Orientations: make([]quat.Number, n),
	}
	p.Positions[0] = root
	p.Orientations[0] = rotations[0]
	for j := 1; j < n; j++ {
		parent := skel.Parent(j)
		p.Orientations[j] = spatial.Mul(p.Orientations[parent], rotations[j])
		p.Positions[j] = p.Positions[parent].Add(spatial.Rotate(p.Orientations[parent], skel.Offset(j)))
	}
	return p
}

// Clip evaluates every frame of c.
func Clip(c *motion.Clip) []Pose {
	out := make([]Pose, c.Frames())
	for f := range out {
		out[f] = Frame(c.Skeleton, c.Rotations[f], c.Root[f])
	}
	return out
}

// Positions returns only the global positions of every frame.
func Positions(c *motion.Clip) [][]r3.Vector {
	out := make([][]r3.Vector, c.Frames())
	for f := range out {
		out[f] = Frame(c.Skeleton, c.Rotations[f], c.Root[f]).Positions
	}
	return out
}

// Orientations returns only the global orientations of frame f.
func Orientations(c *motion.Clip, f int) []quat.Number {
	return Frame(c.Skeleton, c.Rotations[f], c.Root[f]).Orientations
}

// RestPositions returns the global joint positions of the rest pose with the
// root placed at its rest offset.
func RestPositions(skel *skeleton.Skeleton) []r3.Vector {
	rot := make([]quat.Number, skel.Len())
	for j := range rot {
		rot[j] = spatial.Identity()
	}
	return Frame(skel, rot, skel.Offset(0)).Positions
}

// Locals converts global orientations back to parent-relative rotations.
// The root's local rotation is its global orientation.
func Locals(skel *skeleton.Skeleton, global []quat.Number) []quat.Number {
	out := make([]quat.Number, len(global))
	out[0] = spatial.Normalize(global[0])
	for j := 1; j < len(global); j++ {
		out[j] = spatial.Normalize(spatial.Mul(spatial.Inverse(global[skel.Parent(j)]), global[j]))
	}
	return out
}
