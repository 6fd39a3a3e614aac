// Package blend stitches two clips of the same skeleton into one. Clip B is
// appended after clip A with its root translated so that its first root
// position matches A's last, and the first frames of B are replaced by a
// transition chosen by Mode.
package blend

import (
	"fmt"

	"github.com/okian/stride/internal/domain/motion"
)

// Blend stitches a and b over a window of frames using mode. The inputs are
// not modified. The result has a.Frames()+b.Frames() frames and a's frame
// time.
func Blend(a, b *motion.Clip, mode Mode, frames int, opts ...Option) (*motion.Clip, motion.Record, error) {
	switch mode {
	case ModeCrossFade:
		return CrossFade(a, b, frames)
	case ModeInertial:
		return Inertial(a, b, frames, opts...)
	case ModeDead:
		return Dead(a, b, frames)
	}
	return nil, motion.Record{}, fmt.Errorf("%v: %w", mode, ErrUnknownMode)
}

// stitch validates the pair and returns a followed by a root-aligned copy
// of b.
func stitch(a, b *motion.Clip, frames, minA int) (*motion.Clip, error) {
	if frames < 0 {
		return nil, fmt.Errorf("%d frames: %w", frames, ErrInvalidWindow)
	}
	if a.Frames() < minA {
		return nil, fmt.Errorf("clip a has %d frames, needs %d: %w", a.Frames(), minA, ErrClipTooShort)
	}
	if b.Frames() <= frames {
		return nil, fmt.Errorf("clip a has %d frames, clip b has %d frames, window is %d: %w",
			a.Frames(), b.Frames(), frames, ErrClipTooShort)
	}
	shifted := b.Clone()
	offset := b.Root[0].Sub(a.Root[a.Frames()-1])
	for f := range shifted.Root {
		shifted.Root[f] = shifted.Root[f].Sub(offset)
	}
	out, err := motion.Concat(a, shifted)
	if err != nil {
		return nil, fmt.Errorf("stitch: %w", err)
	}
	return out, nil
}

func finish(out *motion.Clip, mode Mode, a, b *motion.Clip, frames int, extra map[string]any) (*motion.Clip, motion.Record, error) {
	out.Normalize()
	out.EnforceSignContinuity()
	params := map[string]any{
		"mode":     mode.String(),
		"frames":   frames,
		"a_frames": a.Frames(),
		"b_frames": b.Frames(),
	}
	for k, v := range extra {
		params[k] = v
	}
	return out, motion.NewRecord(mode.Op(), params), nil
}
