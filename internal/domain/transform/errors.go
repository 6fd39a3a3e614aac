package transform

import "errors"

// Sentinel errors for clip transforms.
var (
	ErrInvalidStride     = errors.New("temporal stride must be at least 1")
	ErrDegenerateHeight  = errors.New("rest pose has no height to normalize")
	ErrRootRemoved       = errors.New("joint removal would remove the root")
	ErrUnknownJointSet   = errors.New("unknown joint set")
	ErrUnknownOp         = errors.New("unknown transform")
	ErrDegenerateForward = errors.New("forward direction is degenerate")
	ErrFrameOutOfRange   = errors.New("frame out of range")
)
