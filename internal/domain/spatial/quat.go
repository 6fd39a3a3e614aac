// Package spatial provides the rotation and vector primitives shared by the
// kinematics packages. Quaternions are gonum quat.Number values in
// (w, x, y, z) = (Real, Imag, Jmag, Kmag) order and vectors are r3.Vector.
package spatial

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

// Numerical thresholds.
const (
	// Epsilon is the magnitude below which a vector or angle is treated as zero.
	Epsilon = 1e-9
	// parallelEpsilon is the distance from ±1 at which two unit vectors count as parallel.
	parallelEpsilon = 1e-12
	// slerpLinearThreshold switches slerp to normalized lerp for nearly equal rotations.
	slerpLinearThreshold = 0.9995
)

// Identity returns the identity rotation.
func Identity() quat.Number {
	return quat.Number{Real: 1}
}

// Normalize returns q scaled to unit length. A zero quaternion becomes the identity.
func Normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n < Epsilon || math.IsNaN(n) {
		return Identity()
	}
	return quat.Scale(1/n, q)
}

// Inverse returns the inverse of a unit quaternion.
func Inverse(q quat.Number) quat.Number {
	return quat.Conj(q)
}

// Mul composes rotations: the result applies b first, then a.
func Mul(a, b quat.Number) quat.Number {
	return quat.Mul(a, b)
}

// Dot returns the four-dimensional dot product of two quaternions.
func Dot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

// Flip negates every component; the rotation it represents is unchanged.
func Flip(q quat.Number) quat.Number {
	return quat.Number{Real: -q.Real, Imag: -q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
}

// AlignSign returns q or -q, whichever lies in the same hemisphere as ref.
func AlignSign(ref, q quat.Number) quat.Number {
	if Dot(ref, q) < 0 {
		return Flip(q)
	}
	return q
}

// Rotate applies q to v.
func Rotate(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	r := quat.Mul(quat.Mul(q, p), quat.Conj(q))
	return r3.Vector{X: r.Imag, Y: r.Jmag, Z: r.Kmag}
}

// FromAxisAngle builds the rotation of angle radians about axis.
// A degenerate axis yields the identity.
func FromAxisAngle(axis r3.Vector, angle float64) quat.Number {
	n := axis.Norm()
	if n < Epsilon {
		return Identity()
	}
	s := math.Sin(angle/2) / n
	return quat.Number{Real: math.Cos(angle / 2), Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

// FromRotationVector converts an axis-angle vector (axis scaled by angle) to a quaternion.
func FromRotationVector(v r3.Vector) quat.Number {
	theta := v.Norm()
	if theta < Epsilon {
		return Normalize(quat.Number{Real: 1, Imag: v.X / 2, Jmag: v.Y / 2, Kmag: v.Z / 2})
	}
	return FromAxisAngle(v, theta)
}

// ToRotationVector converts q to an axis-angle vector with angle in [0, π].
func ToRotationVector(q quat.Number) r3.Vector {
	if q.Real < 0 {
		q = Flip(q)
	}
	v := r3.Vector{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
	s := v.Norm()
	if s < Epsilon {
		return v.Mul(2)
	}
	angle := 2 * math.Atan2(s, q.Real)
	return v.Mul(angle / s)
}

// AngularDistance returns the angle in radians of the rotation between a and b.
func AngularDistance(a, b quat.Number) float64 {
	d := math.Abs(Dot(Normalize(a), Normalize(b)))
	return 2 * math.Acos(Clamp(d, -1, 1))
}

// Slerp interpolates along the shorter great arc from a (t=0) to b (t=1).
func Slerp(a, b quat.Number, t float64) quat.Number {
	a = Normalize(a)
	b = AlignSign(a, Normalize(b))
	d := Dot(a, b)
	if d > slerpLinearThreshold {
		return Nlerp(a, b, t)
	}
	theta := math.Acos(Clamp(d, -1, 1))
	sinTheta := math.Sin(theta)
	wa := math.Sin((1-t)*theta) / sinTheta
	wb := math.Sin(t*theta) / sinTheta
	return Normalize(quat.Add(quat.Scale(wa, a), quat.Scale(wb, b)))
}

// Nlerp linearly blends a and b (sign aligned to a) and renormalizes.
func Nlerp(a, b quat.Number, t float64) quat.Number {
	b = AlignSign(a, b)
	return Normalize(quat.Add(quat.Scale(1-t, a), quat.Scale(t, b)))
}

// IsUnit reports whether q has unit length within tol.
func IsUnit(q quat.Number, tol float64) bool {
	return math.Abs(quat.Abs(q)-1) <= tol
}

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
