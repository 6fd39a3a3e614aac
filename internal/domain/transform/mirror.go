package transform

import (
	"fmt"

	"github.com/okian/stride/internal/domain/motion"
	"gonum.org/v1/gonum/num/quat"
)

// Mirror reflects the clip across the YZ plane and swaps left and right
// joints. Sides are paired by name: every joint containing leftToken is
// matched with the joint named by replacing it with rightToken. Rest
// offsets are reflected with the pairs so asymmetric skeletons mirror
// exactly.
func Mirror(c *motion.Clip, leftToken, rightToken string) (*motion.Clip, motion.Record, error) {
	left, right, err := c.Skeleton.SidePairs(leftToken, rightToken)
	if err != nil {
		return nil, motion.Record{}, fmt.Errorf("mirror: %w", err)
	}
	swap := make([]int, c.Joints())
	for j := range swap {
		swap[j] = j
	}
	for i := range left {
		swap[left[i]] = right[i]
		swap[right[i]] = left[i]
	}

	offsets := c.Skeleton.Offsets()
	for j := range offsets {
		o := c.Skeleton.Offset(swap[j])
		o.X = -o.X
		offsets[j] = o
	}
	skel, err := c.Skeleton.WithOffsets(offsets)
	if err != nil {
		return nil, motion.Record{}, err
	}

	out := c.Clone()
	out.Skeleton = skel
	for f, frame := range c.Rotations {
		for j := range frame {
			out.Rotations[f][j] = reflect(frame[swap[j]])
		}
		out.Root[f].X = -out.Root[f].X
	}
	out.EnforceSignContinuity()
	return out, motion.NewRecord(motion.OpMirror, map[string]any{
		"left_token":  leftToken,
		"right_token": rightToken,
		"pairs":       len(left),
	}), nil
}

// reflect conjugates q by the reflection x -> -x.
func reflect(q quat.Number) quat.Number {
	return quat.Number{Real: q.Real, Imag: q.Imag, Jmag: -q.Jmag, Kmag: -q.Kmag}
}
