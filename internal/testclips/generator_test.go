package testclips_test

import (
	"math"
	"testing"

	"github.com/okian/stride/internal/domain/spatial"
	"github.com/okian/stride/internal/testclips"
	"github.com/smartystreets/goconvey/convey"
)

func TestWalk(t *testing.T) {
	convey.Convey("Given the synthetic biped", t, func() {
		skel, err := testclips.Biped()
		convey.So(err, convey.ShouldBeNil)
		convey.So(skel.Len(), convey.ShouldEqual, 21)

		convey.Convey("Then the rest pose stands on the ground", func() {
			rest := testclips.Rest(skel)
			convey.So(rest[testclips.LeftToe].Y, convey.ShouldAlmostEqual, 0, 1e-12)
			convey.So(rest[testclips.RightToe].Y, convey.ShouldAlmostEqual, 0, 1e-12)
			convey.So(rest[testclips.Head].Y, convey.ShouldAlmostEqual, 1.7, 1e-12)
		})

		convey.Convey("When a walk is generated twice", func() {
			a, err := testclips.Walk(60)
			convey.So(err, convey.ShouldBeNil)
			b, err := testclips.Walk(60)
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it is deterministic", func() {
				for f := range a.Rotations {
					for j := range a.Rotations[f] {
						convey.So(a.Rotations[f][j], convey.ShouldEqual, b.Rotations[f][j])
					}
				}
			})

			convey.Convey("And it is well formed", func() {
				convey.So(a.Validate(), convey.ShouldBeNil)
				convey.So(a.MaxNormDeviation(), convey.ShouldBeLessThan, 1e-9)
				convey.So(a.SignDiscontinuities(), convey.ShouldEqual, 0)
			})

			convey.Convey("And the root walks forward along +Z", func() {
				convey.So(a.Root[59].Z, convey.ShouldAlmostEqual, 1.2*59.0/30, 1e-9)
				convey.So(math.Abs(a.Root[59].X), convey.ShouldBeLessThan, 1e-9)
			})
		})

		convey.Convey("When the walk is turned", func() {
			c, err := testclips.Walk(31, testclips.WithHeading(math.Pi/2))
			convey.So(err, convey.ShouldBeNil)

			convey.Convey("Then it travels along +X", func() {
				convey.So(c.Root[30].X, convey.ShouldAlmostEqual, 1.2, 1e-9)
				convey.So(math.Abs(c.Root[30].Z), convey.ShouldBeLessThan, 1e-9)
			})

			convey.Convey("And the root rotation carries the heading", func() {
				yaw := spatial.Yaw(math.Pi / 2)
				convey.So(spatial.AngularDistance(c.Rotations[0][testclips.Hips], yaw), convey.ShouldBeLessThan, 1e-6)
			})
		})

		convey.Convey("When no frames are requested", func() {
			_, err := testclips.Walk(0)
			convey.So(err, convey.ShouldNotBeNil)
		})
	})
}

func TestPayloads(t *testing.T) {
	convey.Convey("Given generated reconstruct payloads", t, func() {
		payloads, err := testclips.GeneratePayloads(3, 20)
		convey.So(err, convey.ShouldBeNil)
		convey.So(payloads, convey.ShouldHaveLength, 3)

		convey.Convey("Then each carries the hierarchy, a rest frame and every frame", func() {
			for i, p := range payloads {
				convey.So(p.Label, convey.ShouldEqual, []string{"walk-0", "walk-1", "walk-2"}[i])
				convey.So(p.Names, convey.ShouldHaveLength, 21)
				convey.So(p.Parents[0], convey.ShouldEqual, -1)
				convey.So(p.Rest, convey.ShouldHaveLength, 21)
				convey.So(p.Positions, convey.ShouldHaveLength, 21)
				convey.So(p.Positions[0], convey.ShouldResemble, p.Rest)
				convey.So(p.Positions[1], convey.ShouldHaveLength, 21)
				convey.So(p.FrameTime, convey.ShouldAlmostEqual, testclips.DefaultFrameTime, 1e-15)
			}
		})

		convey.Convey("And consecutive clips start in different phases", func() {
			convey.So(payloads[0].Positions[1][testclips.LeftFoot], convey.ShouldNotResemble, payloads[1].Positions[1][testclips.LeftFoot])
		})
	})
}
