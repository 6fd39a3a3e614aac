package transform

import (
	"fmt"
	"strings"

	"github.com/okian/stride/internal/domain/motion"
	"gonum.org/v1/gonum/num/quat"
)

// JointSet selects a preset of joints to strip from a skeleton.
type JointSet int

// Joint set presets.
const (
	JointSetFull JointSet = iota
	JointSetNoHands
	JointSetNoToes
)

// String returns the wire name of the set.
func (s JointSet) String() string {
	switch s {
	case JointSetFull:
		return "full"
	case JointSetNoHands:
		return "no_hands"
	case JointSetNoToes:
		return "no_toes"
	}
	return fmt.Sprintf("joint_set(%d)", int(s))
}

// Keywords returns the lower-case name fragments removed by the set.
func (s JointSet) Keywords() ([]string, error) {
	switch s {
	case JointSetFull:
		return nil, nil
	case JointSetNoHands:
		return []string{"hand", "thumb", "index", "middle", "ring", "pinky"}, nil
	case JointSetNoToes:
		return []string{"toe"}, nil
	}
	return nil, fmt.Errorf("%v: %w", s, ErrUnknownJointSet)
}

// ParseJointSet resolves a wire name. An empty name selects the full set.
func ParseJointSet(s string) (JointSet, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "full":
		return JointSetFull, nil
	case "no_hands":
		return JointSetNoHands, nil
	case "no_toes":
		return JointSetNoToes, nil
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownJointSet)
}

// RemoveJoints strips the joints of set together with their descendants.
func RemoveJoints(c *motion.Clip, set JointSet) (*motion.Clip, motion.Record, error) {
	keywords, err := set.Keywords()
	if err != nil {
		return nil, motion.Record{}, err
	}
	out, removed, err := RemoveMatching(c, keywords)
	if err != nil {
		return nil, motion.Record{}, err
	}
	return out, motion.NewRecord(motion.OpRemoveJoints, map[string]any{
		"joint_set": set.String(),
		"removed":   removed,
	}), nil
}

// RemoveMatching strips every joint whose lower-cased name contains one of
// keywords, together with its descendants, and returns the removed names.
func RemoveMatching(c *motion.Clip, keywords []string) (*motion.Clip, []string, error) {
	n := c.Joints()
	drop := make([]bool, n)
	var removed []string
	keep := make([]int, 0, n)
	for j, name := range c.Skeleton.Names() {
		lower := strings.ToLower(name)
		for _, k := range keywords {
			if strings.Contains(lower, k) {
				drop[j] = true
				break
			}
		}
		if p := c.Skeleton.Parent(j); p >= 0 && drop[p] {
			drop[j] = true
		}
		if drop[j] {
			removed = append(removed, name)
			continue
		}
		keep = append(keep, j)
	}
	if drop[0] {
		return nil, nil, ErrRootRemoved
	}
	if len(removed) == 0 {
		return c.Clone(), nil, nil
	}

	skel, _, err := c.Skeleton.Subset(keep)
	if err != nil {
		return nil, nil, fmt.Errorf("remove joints: %w", err)
	}
	out := &motion.Clip{
		Skeleton:  skel,
		FrameTime: c.FrameTime,
		Rotations: make([][]quat.Number, c.Frames()),
		Root:      append(c.Root[:0:0], c.Root...),
	}
	for f, frame := range c.Rotations {
		out.Rotations[f] = make([]quat.Number, len(keep))
		for i, j := range keep {
			out.Rotations[f][i] = frame[j]
		}
	}
	return out, removed, nil
}
