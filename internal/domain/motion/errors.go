package motion

import "errors"

// Sentinel errors for clip construction and combination.
var (
	ErrNilSkeleton      = errors.New("clip has no skeleton")
	ErrInvalidFrameTime = errors.New("frame time must be positive")
	ErrShapeMismatch    = errors.New("rotation and position buffers do not match the skeleton")
	ErrSkeletonMismatch = errors.New("clips use incompatible skeletons")
	ErrFrameOutOfRange  = errors.New("frame index out of range")
	ErrEmptyClip        = errors.New("clip has no frames")
)
