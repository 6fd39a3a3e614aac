package testclips

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/fk"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/skeleton"
	"github.com/okian/stride/internal/domain/spatial"
)

// Gait constants for the synthetic walk.
const (
	DefaultFrameTime = 1.0 / 30
	stepPeriod       = 1.0 // seconds per full gait cycle
	walkSpeed        = 1.2 // metres per second along +Z
	hipHeight        = 1.0
	thighSwing       = 0.45
	kneeBend         = 0.7
	armDrop          = 1.2
	armSwing         = 0.35
	hipYaw           = 0.08
	bobAmplitude     = 0.02
)

// Joint indices of the biped returned by Biped.
const (
	Hips = iota
	Spine
	Chest
	Neck
	Head
	LeftShoulder
	LeftArm
	LeftForeArm
	LeftHand
	RightShoulder
	RightArm
	RightForeArm
	RightHand
	LeftUpLeg
	LeftLeg
	LeftFoot
	LeftToe
	RightUpLeg
	RightLeg
	RightFoot
	RightToe
)

// Biped returns a 21-joint humanoid standing on y=0 and facing +Z.
func Biped() (*skeleton.Skeleton, error) {
	return skeleton.New([]skeleton.Joint{
		{Name: "Hips", Parent: skeleton.RootParent, Offset: r3.Vector{Y: hipHeight}},
		{Name: "Spine", Parent: Hips, Offset: r3.Vector{Y: 0.2}},
		{Name: "Chest", Parent: Spine, Offset: r3.Vector{Y: 0.2}},
		{Name: "Neck", Parent: Chest, Offset: r3.Vector{Y: 0.2}},
		{Name: "Head", Parent: Neck, Offset: r3.Vector{Y: 0.1}},
		{Name: "LeftShoulder", Parent: Chest, Offset: r3.Vector{X: 0.15, Y: 0.15}},
		{Name: "LeftArm", Parent: LeftShoulder, Offset: r3.Vector{X: 0.1}},
		{Name: "LeftForeArm", Parent: LeftArm, Offset: r3.Vector{X: 0.25}},
		{Name: "LeftHand", Parent: LeftForeArm, Offset: r3.Vector{X: 0.25}},
		{Name: "RightShoulder", Parent: Chest, Offset: r3.Vector{X: -0.15, Y: 0.15}},
		{Name: "RightArm", Parent: RightShoulder, Offset: r3.Vector{X: -0.1}},
		{Name: "RightForeArm", Parent: RightArm, Offset: r3.Vector{X: -0.25}},
		{Name: "RightHand", Parent: RightForeArm, Offset: r3.Vector{X: -0.25}},
		{Name: "LeftUpLeg", Parent: Hips, Offset: r3.Vector{X: 0.1, Y: -0.05}},
		{Name: "LeftLeg", Parent: LeftUpLeg, Offset: r3.Vector{Y: -0.45}},
		{Name: "LeftFoot", Parent: LeftLeg, Offset: r3.Vector{Y: -0.45}},
		{Name: "LeftToe", Parent: LeftFoot, Offset: r3.Vector{Y: -0.05, Z: 0.1}},
		{Name: "RightUpLeg", Parent: Hips, Offset: r3.Vector{X: -0.1, Y: -0.05}},
		{Name: "RightLeg", Parent: RightUpLeg, Offset: r3.Vector{Y: -0.45}},
		{Name: "RightFoot", Parent: RightLeg, Offset: r3.Vector{Y: -0.45}},
		{Name: "RightToe", Parent: RightFoot, Offset: r3.Vector{Y: -0.05, Z: 0.1}},
	})
}

// WalkOption tweaks a generated walk.
type WalkOption func(*walk)

type walk struct {
	frameTime float64
	phase     float64
	speed     float64
	heading   float64
}

// WithFrameTime sets the sampling interval in seconds.
func WithFrameTime(dt float64) WalkOption {
	return func(w *walk) {
		if dt > 0 {
			w.frameTime = dt
		}
	}
}

// WithPhase offsets the gait cycle, in radians.
func WithPhase(phase float64) WalkOption {
	return func(w *walk) { w.phase = phase }
}

// WithSpeed sets the forward speed in metres per second.
func WithSpeed(speed float64) WalkOption {
	return func(w *walk) { w.speed = speed }
}

// WithHeading turns the whole walk about +Y.
func WithHeading(angle float64) WalkOption {
	return func(w *walk) { w.heading = angle }
}

// Walk generates a deterministic walking clip on the Biped skeleton. Frame
// 0 is not the rest pose; use Rest for the reference pose.
func Walk(frames int, opts ...WalkOption) (*motion.Clip, error) {
	if frames < 1 {
		return nil, fmt.Errorf("walk with %d frames: %w", frames, motion.ErrEmptyClip)
	}
	w := walk{frameTime: DefaultFrameTime, speed: walkSpeed}
	for _, opt := range opts {
		opt(&w)
	}
	skel, err := Biped()
	if err != nil {
		return nil, err
	}
	c, err := motion.NewRest(skel, frames, w.frameTime)
	if err != nil {
		return nil, err
	}

	x := r3.Vector{X: 1}
	z := r3.Vector{Z: 1}
	turn := spatial.Yaw(w.heading)
	for f := range frames {
		t := float64(f) * w.frameTime
		ph := w.phase + 2*math.Pi*t/stepPeriod
		r := c.Rotations[f]

		r[Hips] = spatial.Normalize(spatial.Mul(turn, spatial.Yaw(hipYaw*math.Sin(ph))))
		r[Spine] = spatial.FromAxisAngle(z, 0.05*math.Sin(ph))
		r[Chest] = spatial.Yaw(-1.5 * hipYaw * math.Sin(ph))

		r[LeftArm] = spatial.Mul(spatial.FromAxisAngle(x, armSwing*math.Sin(ph)), spatial.FromAxisAngle(z, -armDrop))
		r[RightArm] = spatial.Mul(spatial.FromAxisAngle(x, -armSwing*math.Sin(ph)), spatial.FromAxisAngle(z, armDrop))
		r[LeftForeArm] = spatial.FromAxisAngle(r3.Vector{Y: 1}, 0.3)
		r[RightForeArm] = spatial.FromAxisAngle(r3.Vector{Y: 1}, -0.3)

		r[LeftUpLeg] = spatial.FromAxisAngle(x, -thighSwing*math.Sin(ph))
		r[LeftLeg] = spatial.FromAxisAngle(x, kneeBend*math.Max(0, math.Sin(ph+math.Pi/2)))
		r[RightUpLeg] = spatial.FromAxisAngle(x, thighSwing*math.Sin(ph))
		r[RightLeg] = spatial.FromAxisAngle(x, kneeBend*math.Max(0, -math.Sin(ph+math.Pi/2)))

		travel := spatial.Rotate(turn, r3.Vector{Z: w.speed * t})
		c.Root[f] = r3.Vector{
			X: travel.X,
			Y: hipHeight - bobAmplitude*(1-math.Cos(2*ph)),
			Z: travel.Z,
		}
	}
	c.Normalize()
	c.EnforceSignContinuity()
	return c, nil
}

// Rest returns the rest-pose global positions of the Biped skeleton.
func Rest(skel *skeleton.Skeleton) []r3.Vector {
	return fk.RestPositions(skel)
}

// Positions returns the global joint positions of every frame of c.
func Positions(c *motion.Clip) [][]r3.Vector {
	return fk.Positions(c)
}
