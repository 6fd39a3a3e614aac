package spatial_test

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	spatial "github.com/okian/stride/internal/domain/spatial"
	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/num/quat"
)

const tol = 1e-9

func vectorsClose(a, b r3.Vector) bool {
	return a.Sub(b).Norm() < 1e-7
}

func TestRotate(t *testing.T) {
	Convey("Given a quarter turn about +Y", t, func() {
		q := spatial.FromAxisAngle(r3.Vector{Y: 1}, math.Pi/2)

		Convey("Then +X is carried onto -Z", func() {
			So(vectorsClose(spatial.Rotate(q, r3.Vector{X: 1}), r3.Vector{Z: -1}), ShouldBeTrue)
		})

		Convey("And the inverse carries it back", func() {
			v := spatial.Rotate(spatial.Inverse(q), spatial.Rotate(q, r3.Vector{X: 1, Y: 2, Z: 3}))
			So(vectorsClose(v, r3.Vector{X: 1, Y: 2, Z: 3}), ShouldBeTrue)
		})
	})
}

func TestFromTo(t *testing.T) {
	Convey("Given two directions", t, func() {
		Convey("When they are generic", func() {
			from := r3.Vector{X: 1, Y: 0.2, Z: -0.4}
			to := r3.Vector{X: -0.3, Y: 1, Z: 0.5}
			q := spatial.FromTo(from, to)

			Convey("Then the rotation maps one direction onto the other", func() {
				So(vectorsClose(spatial.Rotate(q, from.Normalize()), to.Normalize()), ShouldBeTrue)
				So(spatial.IsUnit(q, tol), ShouldBeTrue)
			})

			Convey("And the rotation axis is orthogonal to both", func() {
				axis := r3.Vector{X: q.Imag, Y: q.Jmag, Z: q.Kmag}
				So(math.Abs(axis.Dot(from)), ShouldBeLessThan, 1e-9)
				So(math.Abs(axis.Dot(to)), ShouldBeLessThan, 1e-9)
			})
		})

		Convey("When they are parallel", func() {
			q := spatial.FromTo(r3.Vector{Y: 1}, r3.Vector{Y: 3})
			So(q, ShouldResemble, spatial.Identity())
		})

		Convey("When they are opposite", func() {
			q := spatial.FromTo(r3.Vector{Y: 1}, r3.Vector{Y: -1})
			So(vectorsClose(spatial.Rotate(q, r3.Vector{Y: 1}), r3.Vector{Y: -1}), ShouldBeTrue)
		})

		Convey("When one is zero", func() {
			So(spatial.FromTo(r3.Vector{}, r3.Vector{X: 1}), ShouldResemble, spatial.Identity())
		})
	})
}

func TestAlignPairs(t *testing.T) {
	Convey("Given a known rotation applied to two vectors", t, func() {
		truth := spatial.Normalize(quat.Number{Real: 0.7, Imag: 0.1, Jmag: -0.5, Kmag: 0.3})
		a := r3.Vector{Y: 1}
		b := r3.Vector{X: 1, Y: 0.1}

		q := spatial.AlignPairs(a, b, spatial.Rotate(truth, a), spatial.Rotate(truth, b))

		Convey("Then the rotation is recovered exactly", func() {
			So(spatial.AngularDistance(q, truth), ShouldBeLessThan, 1e-7)
		})
	})
}

func TestRotationVector(t *testing.T) {
	Convey("Given a rotation vector", t, func() {
		v := r3.Vector{X: 0.3, Y: -1.2, Z: 0.4}

		Convey("Then it survives a round trip through a quaternion", func() {
			So(vectorsClose(spatial.ToRotationVector(spatial.FromRotationVector(v)), v), ShouldBeTrue)
		})

		Convey("And the negated quaternion maps to the same vector", func() {
			q := spatial.Flip(spatial.FromRotationVector(v))
			So(vectorsClose(spatial.ToRotationVector(q), v), ShouldBeTrue)
		})

		Convey("And a tiny vector stays finite", func() {
			small := r3.Vector{X: 1e-12}
			So(spatial.IsUnit(spatial.FromRotationVector(small), tol), ShouldBeTrue)
			So(vectorsClose(spatial.ToRotationVector(spatial.Identity()), r3.Vector{}), ShouldBeTrue)
		})
	})
}

func TestSlerp(t *testing.T) {
	Convey("Given identity and a quarter turn about Y", t, func() {
		a := spatial.Identity()
		b := spatial.Yaw(math.Pi / 2)

		Convey("Then the endpoints are reproduced", func() {
			So(spatial.AngularDistance(spatial.Slerp(a, b, 0), a), ShouldBeLessThan, 1e-7)
			So(spatial.AngularDistance(spatial.Slerp(a, b, 1), b), ShouldBeLessThan, 1e-7)
		})

		Convey("And the midpoint is an eighth turn", func() {
			So(spatial.AngularDistance(spatial.Slerp(a, b, 0.5), a), ShouldAlmostEqual, math.Pi/4, 1e-9)
		})

		Convey("And the shorter arc is taken for a flipped target", func() {
			m := spatial.Slerp(a, spatial.Flip(b), 0.5)
			So(spatial.AngularDistance(m, a), ShouldAlmostEqual, math.Pi/4, 1e-9)
		})
	})
}

func TestSignedAngleAbout(t *testing.T) {
	Convey("Given vectors around the Y axis", t, func() {
		axis := r3.Vector{Y: 1}

		Convey("Then a counter-clockwise turn is positive", func() {
			So(spatial.SignedAngleAbout(r3.Vector{X: 1}, r3.Vector{Z: -1}, axis), ShouldAlmostEqual, math.Pi/2, 1e-9)
		})

		Convey("And a clockwise turn is negative", func() {
			So(spatial.SignedAngleAbout(r3.Vector{X: 1}, r3.Vector{Z: 1}, axis), ShouldAlmostEqual, -math.Pi/2, 1e-9)
		})

		Convey("And a vector along the axis gives zero", func() {
			So(spatial.SignedAngleAbout(r3.Vector{Y: 1}, r3.Vector{Z: 1}, axis), ShouldEqual, 0)
		})
	})
}
