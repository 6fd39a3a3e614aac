package skeleton

import "errors"

// Sentinel errors for hierarchy validation and lookups.
var (
	ErrEmptySkeleton       = errors.New("skeleton has no joints")
	ErrDuplicateName       = errors.New("duplicate joint name")
	ErrInvalidParent       = errors.New("invalid parent reference")
	ErrMultipleRoots       = errors.New("skeleton must have exactly one root at index 0")
	ErrJointNotFound       = errors.New("joint not found")
	ErrDegenerateOffset    = errors.New("zero-length rest offset")
	ErrJointOutOfRange     = errors.New("joint index out of range")
	ErrOffsetCountMismatch = errors.New("offset count does not match joint count")
)
