package transform

import (
	"fmt"
	"strings"

	"github.com/okian/stride/internal/domain/motion"
)

// Op identifies a single-clip transform.
type Op int

// Single-clip transforms.
const (
	OpScale Op = iota
	OpMirror
	OpOnGround
	OpCenterRoot
	OpTemporalScale
	OpRotateY
	OpRemoveJoints
)

// String returns the wire name of the transform.
func (o Op) String() string {
	switch o {
	case OpScale:
		return "scale"
	case OpMirror:
		return "mirror"
	case OpOnGround:
		return "on_ground"
	case OpCenterRoot:
		return "center_root"
	case OpTemporalScale:
		return "temporal_scale"
	case OpRotateY:
		return "rotate_y"
	case OpRemoveJoints:
		return "remove_joints"
	}
	return fmt.Sprintf("op(%d)", int(o))
}

// ParseOp resolves a wire name.
func ParseOp(s string) (Op, error) {
	for o := OpScale; o <= OpRemoveJoints; o++ {
		if strings.EqualFold(strings.TrimSpace(s), o.String()) {
			return o, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownOp)
}

// Params carries the arguments of every transform; each op reads only its
// own fields.
type Params struct {
	Factor     float64
	Angle      float64
	Stride     int
	JointSet   JointSet
	LeftToken  string
	RightToken string
}

// Apply runs op on c.
func Apply(c *motion.Clip, op Op, p Params) (*motion.Clip, motion.Record, error) {
	switch op {
	case OpScale:
		return Scale(c, p.Factor)
	case OpMirror:
		return Mirror(c, p.LeftToken, p.RightToken)
	case OpOnGround:
		return OnGround(c)
	case OpCenterRoot:
		return CenterRoot(c)
	case OpTemporalScale:
		return TemporalScale(c, p.Stride)
	case OpRotateY:
		return RotateY(c, p.Angle)
	case OpRemoveJoints:
		return RemoveJoints(c, p.JointSet)
	}
	return nil, motion.Record{}, fmt.Errorf("%v: %w", op, ErrUnknownOp)
}
