package skeleton_test

import (
	"errors"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/google/go-cmp/cmp"
	skeleton "github.com/okian/stride/internal/domain/skeleton"
	. "github.com/smartystreets/goconvey/convey"
)

func legJoints() []skeleton.Joint {
	return []skeleton.Joint{
		{Name: "Hips", Parent: -1, Offset: r3.Vector{Y: 0.9}},
		{Name: "LeftUpLeg", Parent: 0, Offset: r3.Vector{X: 0.1}},
		{Name: "LeftLeg", Parent: 1, Offset: r3.Vector{Y: -0.45}},
		{Name: "LeftFoot", Parent: 2, Offset: r3.Vector{Y: -0.45}},
		{Name: "RightUpLeg", Parent: 0, Offset: r3.Vector{X: -0.1}},
		{Name: "RightLeg", Parent: 4, Offset: r3.Vector{Y: -0.45}},
		{Name: "RightFoot", Parent: 5, Offset: r3.Vector{Y: -0.45}},
	}
}

func TestNew(t *testing.T) {
	Convey("Given a valid joint table", t, func() {
		s, err := skeleton.New(legJoints())
		So(err, ShouldBeNil)

		Convey("Then children are derived from parent indices", func() {
			So(s.Len(), ShouldEqual, 7)
			So(s.Children(0), ShouldResemble, []int{1, 4})
			So(s.Children(2), ShouldResemble, []int{3})
			So(s.IsEndEffector(3), ShouldBeTrue)
			So(s.IsEndEffector(0), ShouldBeFalse)
		})

		Convey("And names resolve to indices", func() {
			i, err := s.Index("RightLeg")
			So(err, ShouldBeNil)
			So(i, ShouldEqual, 5)

			_, err = s.Index("Tail")
			So(errors.Is(err, skeleton.ErrJointNotFound), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "Tail")
		})

		Convey("And the joint table is returned as a copy", func() {
			joints := s.Joints()
			joints[0].Name = "changed"
			So(s.Joint(0).Name, ShouldEqual, "Hips")
			So(cmp.Diff(legJoints(), s.Joints()), ShouldBeEmpty)
		})

		Convey("And the leg chain runs foot to hip", func() {
			chain, err := s.ChainToRoot(3)
			So(err, ShouldBeNil)
			So(chain, ShouldResemble, []int{3, 2, 1})
		})
	})

	Convey("Given malformed joint tables", t, func() {
		Convey("When empty", func() {
			_, err := skeleton.New(nil)
			So(errors.Is(err, skeleton.ErrEmptySkeleton), ShouldBeTrue)
		})

		Convey("When a name repeats", func() {
			joints := legJoints()
			joints[4].Name = "LeftUpLeg"
			_, err := skeleton.New(joints)
			So(errors.Is(err, skeleton.ErrDuplicateName), ShouldBeTrue)
		})

		Convey("When a parent points forward", func() {
			joints := legJoints()
			joints[2].Parent = 5
			_, err := skeleton.New(joints)
			So(errors.Is(err, skeleton.ErrInvalidParent), ShouldBeTrue)
		})

		Convey("When a parent dangles", func() {
			joints := legJoints()
			joints[2].Parent = -7
			_, err := skeleton.New(joints)
			So(errors.Is(err, skeleton.ErrInvalidParent), ShouldBeTrue)
		})

		Convey("When a second root exists", func() {
			joints := legJoints()
			joints[4].Parent = -1
			_, err := skeleton.New(joints)
			So(errors.Is(err, skeleton.ErrMultipleRoots), ShouldBeTrue)
		})
	})
}

func TestOffsets(t *testing.T) {
	Convey("Given a skeleton", t, func() {
		s, err := skeleton.New(legJoints())
		So(err, ShouldBeNil)

		Convey("Then non-degenerate offsets validate", func() {
			So(s.ValidateOffsets(1e-9), ShouldBeNil)
		})

		Convey("When an offset collapses", func() {
			offsets := s.Offsets()
			offsets[5] = r3.Vector{}
			scaled, err := s.WithOffsets(offsets)
			So(err, ShouldBeNil)

			err = scaled.ValidateOffsets(1e-9)
			So(errors.Is(err, skeleton.ErrDegenerateOffset), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "RightLeg")
		})

		Convey("When the offset count is wrong", func() {
			_, err := s.WithOffsets(make([]r3.Vector, 2))
			So(errors.Is(err, skeleton.ErrOffsetCountMismatch), ShouldBeTrue)
		})
	})
}

func TestSubsetAndPairs(t *testing.T) {
	Convey("Given a skeleton", t, func() {
		s, err := skeleton.New(legJoints())
		So(err, ShouldBeNil)

		Convey("When keeping the left leg only", func() {
			sub, remap, err := s.Subset([]int{0, 1, 2, 3})
			So(err, ShouldBeNil)
			So(sub.Len(), ShouldEqual, 4)
			So(remap[3], ShouldEqual, 3)
			So(sub.Parent(3), ShouldEqual, 2)
		})

		Convey("When keeping a joint without its parent", func() {
			_, _, err := s.Subset([]int{0, 2})
			So(errors.Is(err, skeleton.ErrInvalidParent), ShouldBeTrue)
		})

		Convey("Then side tokens pair left and right joints", func() {
			left, right, err := s.SidePairs("Left", "Right")
			So(err, ShouldBeNil)
			So(left, ShouldResemble, []int{1, 2, 3})
			So(right, ShouldResemble, []int{4, 5, 6})
		})

		Convey("And compatibility compares names and parents", func() {
			other, err := skeleton.New(legJoints())
			So(err, ShouldBeNil)
			So(s.Compatible(other), ShouldBeTrue)

			sub, _, err := s.Subset([]int{0, 1})
			So(err, ShouldBeNil)
			So(s.Compatible(sub), ShouldBeFalse)
		})
	})
}
