package api

import (
	"fmt"
	"time"

	"github.com/golang/geo/r3"
	repository "github.com/okian/stride/internal/adapters/repository"
	"github.com/okian/stride/internal/domain/footlock"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/reconstruct"
	"github.com/okian/stride/internal/domain/skeleton"
	"gonum.org/v1/gonum/num/quat"
)

// Wire shapes. Vectors are [x, y, z] and rotations are [w, x, y, z].

type jointJSON struct {
	Name   string     `json:"name"`
	Parent int        `json:"parent"`
	Offset [3]float64 `json:"offset"`
}

type clipJSON struct {
	Joints    []jointJSON    `json:"joints"`
	FrameTime float64        `json:"frame_time"`
	Rotations [][][4]float64 `json:"rotations"`
	Root      [][3]float64   `json:"root"`
}

type createClipRequest struct {
	Label string    `json:"label"`
	Clip  *clipJSON `json:"clip"`
}

type reconstructRequest struct {
	Label     string         `json:"label"`
	Names     []string       `json:"names"`
	Parents   []int          `json:"parents"`
	Rest      [][3]float64   `json:"rest"`
	Positions [][][3]float64 `json:"positions"`
	FrameTime float64        `json:"frame_time"`
	BakeRest  bool           `json:"bake_rest"`
}

// footLockRequest overrides the service defaults field by field.
type footLockRequest struct {
	LeftFoot         *string  `json:"left_foot"`
	RightFoot        *string  `json:"right_foot"`
	AvgFactor        *float64 `json:"avg_factor"`
	MinContactFrames *int     `json:"min_contact_frames"`
	ContactSigma     *float64 `json:"contact_sigma"`
	FixBarycenter    *bool    `json:"fix_barycenter"`
	BarycenterSigma  *float64 `json:"barycenter_sigma"`
	MaxIterations    *int     `json:"max_iterations"`
	Tolerance        *float64 `json:"tolerance"`
}

type transformRequest struct {
	Op         string  `json:"op"`
	Factor     float64 `json:"factor"`
	Angle      float64 `json:"angle"`
	Stride     int     `json:"stride"`
	JointSet   string  `json:"joint_set"`
	LeftToken  string  `json:"left_token"`
	RightToken string  `json:"right_token"`
}

type blendRequest struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Mode   string `json:"mode"`
	Frames *int   `json:"frames"`
}

type concatRequest struct {
	A string `json:"a"`
	B string `json:"b"`
}

type entryResponse struct {
	repository.Summary
	History []motion.Record `json:"history"`
	Clip    *clipJSON       `json:"clip,omitempty"`
}

type listResponse struct {
	Clips []repository.Summary `json:"clips"`
	Count int                  `json:"count"`
}

type footLockResponse struct {
	Clip   entryResponse   `json:"clip"`
	Report footlock.Report `json:"report"`
}

type facingResponse struct {
	Frame   int         `json:"frame"`
	Yaw     float64     `json:"yaw"`
	Forward *[3]float64 `json:"forward,omitempty"`
	To      *int        `json:"to,omitempty"`
}

type healthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

func vec(v r3.Vector) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

func fromVec(a [3]float64) r3.Vector { return r3.Vector{X: a[0], Y: a[1], Z: a[2]} }

func fromVecs(as [][3]float64) []r3.Vector {
	out := make([]r3.Vector, len(as))
	for i, a := range as {
		out[i] = fromVec(a)
	}
	return out
}

func encodeClip(c *motion.Clip) *clipJSON {
	out := &clipJSON{
		Joints:    make([]jointJSON, c.Joints()),
		FrameTime: c.FrameTime,
		Rotations: make([][][4]float64, c.Frames()),
		Root:      make([][3]float64, c.Frames()),
	}
	for i, j := range c.Skeleton.Joints() {
		out.Joints[i] = jointJSON{Name: j.Name, Parent: j.Parent, Offset: vec(j.Offset)}
	}
	for f, frame := range c.Rotations {
		out.Rotations[f] = make([][4]float64, len(frame))
		for j, q := range frame {
			out.Rotations[f][j] = [4]float64{q.Real, q.Imag, q.Jmag, q.Kmag}
		}
		out.Root[f] = vec(c.Root[f])
	}
	return out
}

func (c *clipJSON) decode() (*motion.Clip, error) {
	joints := make([]skeleton.Joint, len(c.Joints))
	for i, j := range c.Joints {
		joints[i] = skeleton.Joint{Name: j.Name, Parent: j.Parent, Offset: fromVec(j.Offset)}
	}
	skel, err := skeleton.New(joints)
	if err != nil {
		return nil, err
	}
	rotations := make([][]quat.Number, len(c.Rotations))
	for f, frame := range c.Rotations {
		rotations[f] = make([]quat.Number, len(frame))
		for j, q := range frame {
			rotations[f][j] = quat.Number{Real: q[0], Imag: q[1], Jmag: q[2], Kmag: q[3]}
		}
	}
	clip, err := motion.New(skel, c.FrameTime, rotations, fromVecs(c.Root))
	if err != nil {
		return nil, fmt.Errorf("decode clip: %w", err)
	}
	return clip, nil
}

func (r reconstructRequest) capture() reconstruct.Capture {
	out := reconstruct.Capture{
		Names:     r.Names,
		Parents:   r.Parents,
		Rest:      fromVecs(r.Rest),
		Positions: make([][]r3.Vector, len(r.Positions)),
		FrameTime: r.FrameTime,
	}
	for f, frame := range r.Positions {
		out.Positions[f] = fromVecs(frame)
	}
	return out
}

func (r footLockRequest) apply(cfg footlock.Config) footlock.Config {
	if r.LeftFoot != nil {
		cfg.LeftFoot = *r.LeftFoot
	}
	if r.RightFoot != nil {
		cfg.RightFoot = *r.RightFoot
	}
	if r.AvgFactor != nil {
		cfg.AvgFactor = *r.AvgFactor
	}
	if r.MinContactFrames != nil {
		cfg.MinContactFrames = *r.MinContactFrames
	}
	if r.ContactSigma != nil {
		cfg.ContactSigma = *r.ContactSigma
	}
	if r.FixBarycenter != nil {
		cfg.FixBarycenter = *r.FixBarycenter
	}
	if r.BarycenterSigma != nil {
		cfg.BarycenterSigma = *r.BarycenterSigma
	}
	if r.MaxIterations != nil {
		cfg.MaxIterations = *r.MaxIterations
	}
	if r.Tolerance != nil {
		cfg.Tolerance = *r.Tolerance
	}
	return cfg
}

func newEntryResponse(e repository.Entry, withClip bool) entryResponse {
	out := entryResponse{Summary: repository.Summarize(e), History: e.History}
	if out.History == nil {
		out.History = motion.History{}
	}
	if withClip {
		out.Clip = encodeClip(e.Clip)
	}
	return out
}
