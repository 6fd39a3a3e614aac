package spatial

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// FromTo returns the shortest-arc rotation taking the direction of from onto
// the direction of to. Zero-length inputs give the identity; opposite
// directions give a half turn about an arbitrary perpendicular axis.
func FromTo(from, to r3.Vector) quat.Number {
	if from.Norm() < Epsilon || to.Norm() < Epsilon {
		return Identity()
	}
	f := from.Normalize()
	t := to.Normalize()
	d := f.Dot(t)
	if d >= 1-parallelEpsilon {
		return Identity()
	}
	if d <= -1+parallelEpsilon {
		axis := f.Ortho()
		return quat.Number{Imag: axis.X, Jmag: axis.Y, Kmag: axis.Z}
	}
	c := f.Cross(t)
	return Normalize(quat.Number{Real: 1 + d, Imag: c.X, Jmag: c.Y, Kmag: c.Z})
}

// ProjectOnPlane removes the component of v along the unit normal n.
func ProjectOnPlane(v, n r3.Vector) r3.Vector {
	return v.Sub(n.Mul(v.Dot(n)))
}

// SignedAngleAbout returns the angle that rotates a onto b about axis, after
// both are projected onto the plane orthogonal to axis. Degenerate
// projections give zero.
func SignedAngleAbout(a, b, axis r3.Vector) float64 {
	n := axis.Normalize()
	if n.Norm() < Epsilon {
		return 0
	}
	pa := ProjectOnPlane(a, n)
	pb := ProjectOnPlane(b, n)
	if pa.Norm() < Epsilon || pb.Norm() < Epsilon {
		return 0
	}
	pa = pa.Normalize()
	pb = pb.Normalize()
	theta := math.Acos(Clamp(pa.Dot(pb), -1, 1))
	if pa.Cross(pb).Dot(n) < 0 {
		theta = -theta
	}
	return theta
}

// AlignPairs returns the rotation that maps from0 exactly onto the direction
// of to0 and then twists about to0 so that from1 lands as close as possible
// to to1.
func AlignPairs(from0, from1, to0, to1 r3.Vector) quat.Number {
	base := FromTo(from0, to0)
	theta := SignedAngleAbout(Rotate(base, from1), to1, to0)
	if theta == 0 {
		return base
	}
	return Normalize(Mul(FromAxisAngle(to0, theta), base))
}

// Yaw returns the rotation of angle radians about +Y.
func Yaw(angle float64) quat.Number {
	return FromAxisAngle(r3.Vector{Y: 1}, angle)
}
