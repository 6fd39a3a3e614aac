package blend

import (
	"fmt"
	"strings"

	"github.com/okian/stride/internal/domain/motion"
)

// Mode selects how two clips are stitched together.
type Mode int

// Supported blend modes.
const (
	ModeCrossFade Mode = iota
	ModeInertial
	ModeDead
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeCrossFade:
		return "cross_fade"
	case ModeInertial:
		return "inertial"
	case ModeDead:
		return "dead"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Op returns the operation recorded for the mode.
func (m Mode) Op() motion.Op {
	switch m {
	case ModeCrossFade:
		return motion.OpCrossFade
	case ModeInertial:
		return motion.OpInertialBlend
	case ModeDead:
		return motion.OpDeadBlend
	}
	return motion.OpUnknown
}

// ParseMode resolves a wire name. An empty name selects inertial blending.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "inertial":
		return ModeInertial, nil
	case "cross_fade", "crossfade":
		return ModeCrossFade, nil
	case "dead":
		return ModeDead, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownMode)
}
