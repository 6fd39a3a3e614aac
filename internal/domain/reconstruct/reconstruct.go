// Package reconstruct derives local joint rotations from tracked global
// joint positions and a rest pose (inverse forward kinematics).
//
// Bones below a joint with a single child leave a twist about the bone axis
// unobservable. It is resolved deterministically: a chain joint directly
// below another chain joint takes the smallest rotation from its
// grandparent's orientation, and a chain joint directly below a fork (or the
// root) is rolled until its facing direction lines up with the root's
// facing direction about the bone axis.
package reconstruct

import (
	"context"
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/fk"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/skeleton"
	"github.com/okian/stride/internal/domain/spatial"
	"gonum.org/v1/gonum/num/quat"
)

// SkeletonFromRest builds a skeleton whose offsets are the rest-pose
// parent-to-child vectors. The root offset is its rest position.
func SkeletonFromRest(names []string, parents []int, rest []r3.Vector) (*skeleton.Skeleton, error) {
	if len(parents) != len(rest) || (names != nil && len(names) != len(rest)) {
		return nil, fmt.Errorf("%d names, %d parents, %d rest positions: %w", len(names), len(parents), len(rest), ErrRestShape)
	}
	joints := make([]skeleton.Joint, len(rest))
	for i := range rest {
		name := fmt.Sprintf("joint_%d", i)
		if names != nil {
			name = names[i]
		}
		offset := rest[i]
		if p := parents[i]; p >= 0 && p < len(rest) {
			offset = rest[i].Sub(rest[p])
		}
		joints[i] = skeleton.Joint{Name: name, Parent: parents[i], Offset: offset}
	}
	return skeleton.New(joints)
}

// Capture is a tracked take: per-frame global joint positions plus the
// hierarchy and rest pose they were recorded against. Positions[0] is
// expected to be the rest pose.
type Capture struct {
	Names     []string
	Parents   []int
	Rest      []r3.Vector
	Positions [][]r3.Vector
	// FrameTime of zero keeps the configured frame time.
	FrameTime float64
}

// FromCapture builds the skeleton from the capture's rest pose and
// reconstructs its positions over it.
func FromCapture(ctx context.Context, c Capture, opts ...Option) (*motion.Clip, motion.Record, error) {
	skel, err := SkeletonFromRest(c.Names, c.Parents, c.Rest)
	if err != nil {
		return nil, motion.Record{}, err
	}
	if c.FrameTime > 0 {
		opts = append(opts, WithFrameTime(c.FrameTime))
	}
	return FromPositions(ctx, skel, c.Positions, opts...)
}

// FromPositions reconstructs a clip over skel from per-frame global joint
// positions. Frame 0 is taken to be the rest pose and gets identity
// rotations; frames 1..N-1 are solved independently through the runner.
func FromPositions(ctx context.Context, skel *skeleton.Skeleton, positions [][]r3.Vector, opts ...Option) (*motion.Clip, motion.Record, error) {
	s := defaults()
	for _, opt := range opts {
		opt(&s)
	}
	if s.facing.Norm() < spatial.Epsilon {
		return nil, motion.Record{}, ErrDegenerateFacing
	}
	if len(positions) == 0 {
		return nil, motion.Record{}, ErrNoFrames
	}
	if err := skel.ValidateOffsets(offsetEpsilon); err != nil {
		return nil, motion.Record{}, err
	}
	for f, frame := range positions {
		if len(frame) != skel.Len() {
			return nil, motion.Record{}, fmt.Errorf("frame %d has %d positions for %d joints: %w", f, len(frame), skel.Len(), ErrPositionShape)
		}
	}

	n := len(positions)
	rotations := make([][]quat.Number, n)
	root := make([]r3.Vector, n)
	rotations[0] = identityFrame(skel.Len())
	root[0] = positions[0][0]

	err := s.runner.Run(ctx, n-1, func(_ context.Context, i int) error {
		f := i + 1
		global := solveFrame(skel, positions[f], s.facing)
		rotations[f] = fk.Locals(skel, global)
		root[f] = positions[f][0]
		return nil
	})
	if err != nil {
		return nil, motion.Record{}, fmt.Errorf("reconstruct frames: %w", err)
	}

	clip, err := motion.New(skel, s.frameTime, rotations, root)
	if err != nil {
		return nil, motion.Record{}, err
	}
	clip.EnforceSignContinuity()

	rec := motion.NewRecord(motion.OpReconstruct, map[string]any{
		"frames":     n,
		"joints":     skel.Len(),
		"frame_time": s.frameTime,
		"facing":     []float64{s.facing.X, s.facing.Y, s.facing.Z},
	})
	return clip, rec, nil
}

// BakeFirstFrameAsRest re-expresses c so that its first frame becomes the
// rest pose: offsets are taken from the frame-0 global positions and every
// frame is reconstructed against them.
func BakeFirstFrameAsRest(ctx context.Context, c *motion.Clip, opts ...Option) (*motion.Clip, motion.Record, error) {
	positions := fk.Positions(c)
	if len(positions) == 0 {
		return nil, motion.Record{}, ErrNoFrames
	}
	skel, err := SkeletonFromRest(c.Skeleton.Names(), c.Skeleton.Parents(), positions[0])
	if err != nil {
		return nil, motion.Record{}, err
	}
	opts = append([]Option{WithFrameTime(c.FrameTime)}, opts...)
	out, _, err := FromPositions(ctx, skel, positions, opts...)
	if err != nil {
		return nil, motion.Record{}, err
	}
	return out, motion.NewRecord(motion.OpBakeRest, map[string]any{"frames": out.Frames()}), nil
}

func identityFrame(n int) []quat.Number {
	out := make([]quat.Number, n)
	for j := range out {
		out[j] = spatial.Identity()
	}
	return out
}

// solveFrame returns the global orientation of every joint for one frame.
func solveFrame(skel *skeleton.Skeleton, pos []r3.Vector, facing r3.Vector) []quat.Number {
	n := skel.Len()
	ori := identityFrame(n)
	rootFacing := facing

	for j := 1; j < n; j++ {
		p := skel.Parent(j)
		siblings := skel.Children(p)

		if len(siblings) == 1 {
			restVec := skel.Offset(j)
			actual := pos[j].Sub(pos[p])
			pp := skel.Parent(p)

			if pp != skeleton.RootParent && len(skel.Children(pp)) == 1 {
				ppOri := ori[pp]
				change := spatial.FromTo(spatial.Rotate(ppOri, restVec), actual)
				ori[p] = spatial.Normalize(spatial.Mul(change, ppOri))
			} else {
				po := spatial.FromTo(restVec, actual)
				theta := spatial.SignedAngleAbout(spatial.Rotate(po, facing), rootFacing, actual)
				ori[p] = spatial.Normalize(spatial.Mul(spatial.FromAxisAngle(actual, theta), po))
			}
		} else {
			c0, c1 := siblings[0], siblings[1]
			ori[p] = spatial.AlignPairs(
				skel.Offset(c0), skel.Offset(c1),
				pos[c0].Sub(pos[p]), pos[c1].Sub(pos[p]),
			)
		}
		if p == 0 {
			rootFacing = spatial.Rotate(ori[0], facing)
		}

		if skel.IsEndEffector(j) {
			ori[j] = ori[p]
		}
	}
	return ori
}
