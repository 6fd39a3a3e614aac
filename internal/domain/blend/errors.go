package blend

import "errors"

// Sentinel errors for clip blending.
var (
	ErrClipTooShort    = errors.New("clip too short for blend window")
	ErrInvalidWindow   = errors.New("blend window must not be negative")
	ErrUnknownMode     = errors.New("unknown blend mode")
	ErrInvalidSubsteps = errors.New("substeps must be positive")
	ErrInvalidDecay    = errors.New("decay fraction must lie in (0, 1)")
)
