package motion

import (
	"time"

	"github.com/google/uuid"
)

// Op identifies an editing operation applied to a clip.
type Op int

// Known operations.
const (
	OpUnknown Op = iota
	OpImport
	OpReconstruct
	OpBakeRest
	OpBarycenterFix
	OpFootLock
	OpCrossFade
	OpInertialBlend
	OpDeadBlend
	OpScale
	OpMirror
	OpOnGround
	OpCenterRoot
	OpTemporalScale
	OpRotate
	OpRemoveJoints
	OpAlignConcat
)

// String returns the wire name of the operation.
func (o Op) String() string {
	switch o {
	case OpImport:
		return "import"
	case OpReconstruct:
		return "reconstruct"
	case OpBakeRest:
		return "bake_rest"
	case OpBarycenterFix:
		return "barycenter_fix"
	case OpFootLock:
		return "foot_lock"
	case OpCrossFade:
		return "cross_fade"
	case OpInertialBlend:
		return "inertial_blend"
	case OpDeadBlend:
		return "dead_blend"
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
	case OpRotate:
		return "rotate"
	case OpRemoveJoints:
		return "remove_joints"
	case OpAlignConcat:
		return "align_concat"
	case OpUnknown:
		return "unknown"
	}
	return "unknown"
}

// Record describes one applied operation. Records are returned next to the
// clip they produced instead of being attached to it.
type Record struct {
	ID     string         `json:"id"`
	Op     Op             `json:"-"`
	Name   string         `json:"op"`
	Params map[string]any `json:"params,omitempty"`
	At     time.Time      `json:"at"`
}

// NewRecord stamps a record for op with a fresh id.
func NewRecord(op Op, params map[string]any) Record {
	return Record{
		ID:     uuid.NewString(),
		Op:     op,
		Name:   op.String(),
		Params: params,
		At:     time.Now().UTC(),
	}
}

// History is an ordered list of records, oldest first.
type History []Record

// Append returns a new history with recs appended; h is not modified.
func (h History) Append(recs ...Record) History {
	out := make(History, 0, len(h)+len(recs))
	out = append(out, h...)
	return append(out, recs...)
}

// Ops returns the operations in order.
func (h History) Ops() []Op {
	out := make([]Op, len(h))
	for i, r := range h {
		out[i] = r.Op
	}
	return out
}
