package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	repository "github.com/okian/stride/internal/adapters/repository"
	service "github.com/okian/stride/internal/app"
	"github.com/okian/stride/internal/domain/blend"
	"github.com/okian/stride/internal/domain/footlock"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/reconstruct"
	"github.com/okian/stride/internal/domain/spatial"
	"github.com/okian/stride/internal/domain/transform"
	"github.com/okian/stride/internal/testclips"
	. "github.com/smartystreets/goconvey/convey"
)

func mustWalk(frames int) *motion.Clip {
	c, err := testclips.Walk(frames)
	if err != nil {
		panic(err)
	}
	return c
}

// captureOf returns the tracked positions of c behind a leading rest frame.
func captureOf(c *motion.Clip) reconstruct.Capture {
	rest := testclips.Rest(c.Skeleton)
	return reconstruct.Capture{
		Names:     c.Skeleton.Names(),
		Parents:   c.Skeleton.Parents(),
		Rest:      rest,
		Positions: append([][]r3.Vector{rest}, testclips.Positions(c)...),
		FrameTime: c.FrameTime,
	}
}

func opNames(h motion.History) []string {
	out := make([]string, len(h))
	for i, r := range h {
		out[i] = r.Name
	}
	return out
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(2))
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When a clip is imported", func() {
			e, err := svc.AddClip(ctx, "walk", mustWalk(20))

			Convey("Then it is stored with an import record", func() {
				So(err, ShouldBeNil)
				So(e.ID, ShouldNotBeEmpty)
				So(e.Clip.Frames(), ShouldEqual, 20)
				So(opNames(e.History), ShouldResemble, []string{"import"})

				got, err := svc.Clip(ctx, e.ID)
				So(err, ShouldBeNil)
				So(got.Label, ShouldEqual, "walk")
			})

			Convey("And a nil clip is rejected", func() {
				_, err := svc.AddClip(ctx, "none", nil)
				So(errors.Is(err, service.ErrInvalidRequest), ShouldBeTrue)
			})
		})

		Convey("When positions are reconstructed", func() {
			e, err := svc.Reconstruct(ctx, "walk", captureOf(mustWalk(30)), false)
			So(err, ShouldBeNil)

			Convey("Then the rest frame carries identity rotations", func() {
				So(e.Clip.Frames(), ShouldEqual, 31)
				So(e.Clip.Joints(), ShouldEqual, 21)
				So(spatial.AngularDistance(e.Clip.Rotations[0][0], spatial.Identity()), ShouldBeLessThan, 1e-6)
				So(opNames(e.History), ShouldResemble, []string{"reconstruct"})
			})

			Convey("And the frame time falls back to the default", func() {
				c := captureOf(mustWalk(5))
				c.FrameTime = 0
				e, err := svc.Reconstruct(ctx, "walk", c, false)
				So(err, ShouldBeNil)
				So(e.Clip.FrameTime, ShouldAlmostEqual, 1.0/30, 1e-12)
			})

			Convey("And baking the rest pose is recorded", func() {
				baked, err := svc.Reconstruct(ctx, "walk", captureOf(mustWalk(10)), true)
				So(err, ShouldBeNil)
				So(opNames(baked.History), ShouldResemble, []string{"reconstruct", "bake_rest"})

				again, err := svc.Bake(ctx, e.ID)
				So(err, ShouldBeNil)
				So(again.Parent, ShouldEqual, e.ID)
				So(opNames(again.History), ShouldResemble, []string{"reconstruct", "bake_rest"})
			})

			Convey("And feet can be locked", func() {
				locked, report, err := svc.RemoveFootSliding(ctx, e.ID, svc.FootLockConfig())
				So(err, ShouldBeNil)
				So(locked.Parent, ShouldEqual, e.ID)
				So(locked.Clip.Frames(), ShouldEqual, 31)
				So(opNames(locked.History), ShouldResemble, []string{"reconstruct", "barycenter_fix", "foot_lock"})
				So(len(report.LeftRuns)+len(report.RightRuns), ShouldBeGreaterThan, 0)
			})

			Convey("And foot locking needs foot names", func() {
				_, _, err := svc.RemoveFootSliding(ctx, e.ID, footlock.DefaultConfig())
				So(errors.Is(err, footlock.ErrFootNotSet), ShouldBeTrue)
			})

			Convey("And mirroring uses the default tokens", func() {
				m, err := svc.Transform(ctx, e.ID, transform.OpMirror, transform.Params{})
				So(err, ShouldBeNil)
				So(opNames(m.History), ShouldResemble, []string{"reconstruct", "mirror"})
				So(m.Clip.Joints(), ShouldEqual, 21)
			})

			Convey("And the stored parent is left untouched", func() {
				before, err := svc.Clip(ctx, e.ID)
				So(err, ShouldBeNil)
				_, err = svc.Transform(ctx, e.ID, transform.OpScale, transform.Params{Factor: 2})
				So(err, ShouldBeNil)
				after, err := svc.Clip(ctx, e.ID)
				So(err, ShouldBeNil)
				So(after.Clip.Root, ShouldResemble, before.Clip.Root)
			})

			Convey("And the facing follows the walk", func() {
				yaw, fwd, err := svc.Facing(ctx, e.ID, 5)
				So(err, ShouldBeNil)
				So(math.Abs(yaw-math.Pi/2), ShouldBeLessThan, 0.2)
				So(fwd.Z, ShouldBeGreaterThan, 0.9)

				path, err := svc.PathFacing(ctx, e.ID, 1, 30)
				So(err, ShouldBeNil)
				So(path, ShouldAlmostEqual, math.Pi/2, 1e-9)
			})

			Convey("And two clips can be stitched", func() {
				other, err := svc.Reconstruct(ctx, "walk", captureOf(mustWalk(30)), false)
				So(err, ShouldBeNil)

				faded, err := svc.Blend(ctx, e.ID, other.ID, blend.ModeCrossFade, 10)
				So(err, ShouldBeNil)
				So(faded.Clip.Frames(), ShouldEqual, 62)
				So(faded.Parent, ShouldEqual, e.ID)
				last := faded.History[len(faded.History)-1]
				So(last.Name, ShouldEqual, "cross_fade")
				So(last.Params["b"], ShouldEqual, other.ID)

				inertial, err := svc.Blend(ctx, e.ID, other.ID, blend.ModeInertial, svc.BlendFrames())
				So(err, ShouldBeNil)
				So(opNames(inertial.History), ShouldResemble, []string{"reconstruct", "inertial_blend"})

				_, err = svc.Blend(ctx, e.ID, other.ID, blend.ModeDead, 100)
				So(errors.Is(err, blend.ErrClipTooShort), ShouldBeTrue)

				joined, err := svc.Concat(ctx, e.ID, other.ID)
				So(err, ShouldBeNil)
				So(joined.Clip.Frames(), ShouldEqual, 62)
				So(opNames(joined.History), ShouldResemble, []string{"reconstruct", "align_concat"})
			})

			Convey("And a deleted clip is gone", func() {
				So(svc.DeleteClip(ctx, e.ID), ShouldBeNil)
				_, err := svc.Clip(ctx, e.ID)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
				_, err = svc.Bake(ctx, e.ID)
				So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			})
		})

		Convey("When the capture is malformed", func() {
			c := captureOf(mustWalk(5))
			c.Positions[2] = c.Positions[2][:3]

			Convey("Then reconstruction fails and nothing is stored", func() {
				_, err := svc.Reconstruct(ctx, "broken", c, false)
				So(err, ShouldNotBeNil)
				list, err := svc.Clips(ctx)
				So(err, ShouldBeNil)
				So(list, ShouldBeEmpty)
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a started service", t, func() {
		svc := service.New(service.WithWorkerCount(4))
		defer svc.Stop()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When many clips are reconstructed concurrently", func() {
			const n = 8
			var wg sync.WaitGroup
			errs := make(chan error, n)
			for i := range n {
				wg.Add(1)
				go func() {
					defer wg.Done()
					c, err := testclips.Walk(15, testclips.WithPhase(float64(i)*0.3))
					if err != nil {
						errs <- err
						return
					}
					if _, err := svc.Reconstruct(ctx, fmt.Sprintf("walk-%d", i), captureOf(c), false); err != nil {
						errs <- err
					}
				}()
			}
			wg.Wait()
			close(errs)

			Convey("Then all of them are stored", func() {
				for err := range errs {
					So(err, ShouldBeNil)
				}
				list, err := svc.Clips(ctx)
				So(err, ShouldBeNil)
				So(len(list), ShouldEqual, n)
				So(svc.GetStats()["clips"], ShouldEqual, n)
			})
		})
	})
}

func TestServiceErrorHandling(t *testing.T) {
	Convey("Given a service with room for one clip", t, func() {
		svc := service.New(service.WithStoreSize(1))
		defer svc.Stop()
		ctx := context.Background()
		So(svc.Start(ctx), ShouldBeNil)

		e, err := svc.AddClip(ctx, "walk", mustWalk(10))
		So(err, ShouldBeNil)

		Convey("Then derived clips do not fit", func() {
			_, err := svc.Transform(ctx, e.ID, transform.OpMirror, transform.Params{})
			So(errors.Is(err, repository.ErrStoreFull), ShouldBeTrue)
		})

		Convey("Then unknown ids are reported", func() {
			_, err := svc.Blend(ctx, e.ID, "missing", blend.ModeCrossFade, 2)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			_, _, err = svc.Facing(ctx, "missing", 0)
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
		})

		Convey("Then out of range frames are rejected", func() {
			_, _, err := svc.Facing(ctx, e.ID, 50)
			So(err, ShouldNotBeNil)
		})
	})
}
