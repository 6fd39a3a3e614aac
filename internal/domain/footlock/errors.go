package footlock

import "errors"

// Sentinel errors for foot locking.
var (
	ErrInvalidConfig = errors.New("invalid foot lock configuration")
	ErrFootNotSet    = errors.New("foot joint name not configured")
	ErrChainOverlap  = errors.New("left and right leg chains share joints")
	ErrChainTooShort = errors.New("leg chain needs at least two joints below the root")
	ErrTooFewFrames  = errors.New("clip has too few frames for foot locking")
)
