package motion_test

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"
	motion "github.com/okian/stride/internal/domain/motion"
	skeleton "github.com/okian/stride/internal/domain/skeleton"
	spatial "github.com/okian/stride/internal/domain/spatial"
	. "github.com/smartystreets/goconvey/convey"
	"gonum.org/v1/gonum/num/quat"
)

func chain(t *testing.T) *skeleton.Skeleton {
	t.Helper()
	s, err := skeleton.New([]skeleton.Joint{
		{Name: "Root", Parent: -1, Offset: r3.Vector{Y: 1}},
		{Name: "A", Parent: 0, Offset: r3.Vector{Y: 0.5}},
		{Name: "B", Parent: 1, Offset: r3.Vector{Y: 0.5}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestClip(t *testing.T) {
	Convey("Given a rest clip", t, func() {
		skel := chain(t)
		c, err := motion.NewRest(skel, 4, 1.0/30)
		So(err, ShouldBeNil)

		Convey("Then its shape follows the skeleton", func() {
			So(c.Frames(), ShouldEqual, 4)
			So(c.Joints(), ShouldEqual, 3)
			So(c.Duration(), ShouldAlmostEqual, 4.0/30, 1e-12)
			So(c.Root[2], ShouldResemble, r3.Vector{Y: 1})
		})

		Convey("When cloned and modified", func() {
			d := c.Clone()
			d.Rotations[1][1] = spatial.Yaw(1)
			d.Root[1] = r3.Vector{X: 5}

			Convey("Then the original is unchanged", func() {
				So(c.Rotations[1][1], ShouldResemble, spatial.Identity())
				So(c.Root[1], ShouldResemble, r3.Vector{Y: 1})
			})
		})

		Convey("When sign flips are introduced", func() {
			c.Rotations[2][1] = spatial.Flip(spatial.Yaw(0.2))
			c.Rotations[3][1] = spatial.Yaw(0.3)
			So(c.SignDiscontinuities(), ShouldEqual, 2)

			c.EnforceSignContinuity()

			Convey("Then every adjacent pair shares a hemisphere", func() {
				So(c.SignDiscontinuities(), ShouldEqual, 0)
				So(spatial.AngularDistance(c.Rotations[2][1], spatial.Yaw(0.2)), ShouldBeLessThan, 1e-6)
			})
		})

		Convey("When rotations drift from unit length", func() {
			c.Rotations[0][2] = quat.Number{Real: 2}
			So(c.MaxNormDeviation(), ShouldAlmostEqual, 1, 1e-12)

			c.Normalize()
			So(c.MaxNormDeviation(), ShouldBeLessThan, 1e-12)
		})

		Convey("When slicing", func() {
			s, err := c.Slice(1, 3)
			So(err, ShouldBeNil)
			So(s.Frames(), ShouldEqual, 2)

			_, err = c.Slice(3, 9)
			So(errors.Is(err, motion.ErrFrameOutOfRange), ShouldBeTrue)
		})

		Convey("When concatenating with itself", func() {
			out, err := motion.Concat(c, c)
			So(err, ShouldBeNil)
			So(out.Frames(), ShouldEqual, 8)
			So(c.Frames(), ShouldEqual, 4)
		})
	})

	Convey("Given malformed buffers", t, func() {
		skel := chain(t)

		Convey("When the frame time is not positive", func() {
			_, err := motion.New(skel, 0, nil, nil)
			So(errors.Is(err, motion.ErrInvalidFrameTime), ShouldBeTrue)

			_, err = motion.New(skel, math.NaN(), nil, nil)
			So(errors.Is(err, motion.ErrInvalidFrameTime), ShouldBeTrue)
		})

		Convey("When a frame is missing a joint", func() {
			rot := [][]quat.Number{{spatial.Identity(), spatial.Identity()}}
			_, err := motion.New(skel, 0.1, rot, []r3.Vector{{}})
			So(errors.Is(err, motion.ErrShapeMismatch), ShouldBeTrue)
		})

		Convey("When root and rotation frame counts differ", func() {
			_, err := motion.New(skel, 0.1, nil, []r3.Vector{{}})
			So(errors.Is(err, motion.ErrShapeMismatch), ShouldBeTrue)
		})

		Convey("When concatenating different skeletons", func() {
			other, err := skeleton.New([]skeleton.Joint{{Name: "Root", Parent: -1}})
			So(err, ShouldBeNil)
			a, _ := motion.NewRest(skel, 1, 0.1)
			b, _ := motion.NewRest(other, 1, 0.1)
			_, err = motion.Concat(a, b)
			So(errors.Is(err, motion.ErrSkeletonMismatch), ShouldBeTrue)
		})
	})
}

func TestHistory(t *testing.T) {
	Convey("Given an empty history", t, func() {
		var h motion.History

		Convey("When records are appended", func() {
			first := motion.NewRecord(motion.OpReconstruct, nil)
			h2 := h.Append(first, motion.NewRecord(motion.OpFootLock, map[string]any{"left": "LeftFoot"}))

			Convey("Then order is kept and the source history is untouched", func() {
				So(h, ShouldBeEmpty)
				So(h2.Ops(), ShouldResemble, []motion.Op{motion.OpReconstruct, motion.OpFootLock})
				So(h2[1].Name, ShouldEqual, "foot_lock")
				So(first.ID, ShouldNotEqual, h2[1].ID)
			})
		})
	})

	Convey("Every known op has a distinct name", t, func() {
		seen := map[string]bool{}
		for op := motion.OpImport; op <= motion.OpAlignConcat; op++ {
			name := op.String()
			So(name, ShouldNotEqual, "unknown")
			So(seen[name], ShouldBeFalse)
			seen[name] = true
		}
	})
}
