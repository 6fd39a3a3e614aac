package reconstruct

import "errors"

// Sentinel errors for reconstruction input validation.
var (
	ErrNoFrames         = errors.New("no position frames to reconstruct")
	ErrPositionShape    = errors.New("position frame does not match joint count")
	ErrRestShape        = errors.New("rest pose does not match hierarchy")
	ErrDegenerateFacing = errors.New("initial facing direction has zero length")
)
