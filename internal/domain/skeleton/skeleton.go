// Package skeleton models a joint hierarchy as a flat arena of joints with
// integer parent indices. Children lists are derived once at construction and
// a Skeleton is immutable afterwards, so it can be shared between clips.
package skeleton

import (
	"fmt"
	"strings"

	"github.com/golang/geo/r3"
)

// RootParent is the parent index of the root joint.
const RootParent = -1

// Joint is a single node of the hierarchy.
type Joint struct {
	Name   string
	Parent int
	// Offset is the rest-pose position relative to the parent. For the root
	// it is the rest-pose world position.
	Offset r3.Vector
}

// Skeleton is a validated, immutable joint hierarchy.
type Skeleton struct {
	joints   []Joint
	children [][]int
	index    map[string]int
}

// New validates joints and builds a Skeleton. Joint 0 must be the only root
// and every other joint must reference a parent with a smaller index, which
// rules out cycles and dangling references.
func New(joints []Joint) (*Skeleton, error) {
	if len(joints) == 0 {
		return nil, ErrEmptySkeleton
	}
	s := &Skeleton{
		joints:   make([]Joint, len(joints)),
		children: make([][]int, len(joints)),
		index:    make(map[string]int, len(joints)),
	}
	copy(s.joints, joints)

	for i, j := range joints {
		if _, dup := s.index[j.Name]; dup {
			return nil, fmt.Errorf("joint %q: %w", j.Name, ErrDuplicateName)
		}
		s.index[j.Name] = i

		switch {
		case i == 0 && j.Parent != RootParent:
			return nil, fmt.Errorf("joint %q: %w", j.Name, ErrMultipleRoots)
		case i > 0 && j.Parent == RootParent:
			return nil, fmt.Errorf("joint %q: %w", j.Name, ErrMultipleRoots)
		case i > 0 && (j.Parent < 0 || j.Parent >= i):
			return nil, fmt.Errorf("joint %q references parent %d: %w", j.Name, j.Parent, ErrInvalidParent)
		}
		if i > 0 {
			s.children[j.Parent] = append(s.children[j.Parent], i)
		}
	}
	return s, nil
}

// Len returns the number of joints.
func (s *Skeleton) Len() int { return len(s.joints) }

// Joint returns joint i.
func (s *Skeleton) Joint(i int) Joint { return s.joints[i] }

// Joints returns a copy of the joint table.
func (s *Skeleton) Joints() []Joint {
	out := make([]Joint, len(s.joints))
	copy(out, s.joints)
	return out
}

// Parent returns the parent index of joint i.
func (s *Skeleton) Parent(i int) int { return s.joints[i].Parent }

// Parents returns all parent indices in joint order.
func (s *Skeleton) Parents() []int {
	out := make([]int, len(s.joints))
	for i, j := range s.joints {
		out[i] = j.Parent
	}
	return out
}

// Offset returns the rest offset of joint i.
func (s *Skeleton) Offset(i int) r3.Vector { return s.joints[i].Offset }

// Offsets returns all rest offsets in joint order.
func (s *Skeleton) Offsets() []r3.Vector {
	out := make([]r3.Vector, len(s.joints))
	for i, j := range s.joints {
		out[i] = j.Offset
	}
	return out
}

// Names returns the joint names in joint order.
func (s *Skeleton) Names() []string {
	out := make([]string, len(s.joints))
	for i, j := range s.joints {
		out[i] = j.Name
	}
	return out
}

// Children returns the direct children of joint i. The slice is shared and
// must not be modified.
func (s *Skeleton) Children(i int) []int { return s.children[i] }

// IsEndEffector reports whether joint i has no children.
func (s *Skeleton) IsEndEffector(i int) bool { return len(s.children[i]) == 0 }

// Index resolves a joint name.
func (s *Skeleton) Index(name string) (int, error) {
	i, ok := s.index[name]
	if !ok {
		return 0, fmt.Errorf("joint %q: %w", name, ErrJointNotFound)
	}
	return i, nil
}

// ChainToRoot returns the joints from j up to, but excluding, the root,
// ordered distal to proximal.
func (s *Skeleton) ChainToRoot(j int) ([]int, error) {
	if j < 0 || j >= len(s.joints) {
		return nil, fmt.Errorf("joint %d: %w", j, ErrJointOutOfRange)
	}
	var chain []int
	for cur := j; s.joints[cur].Parent != RootParent; cur = s.joints[cur].Parent {
		chain = append(chain, cur)
	}
	return chain, nil
}

// ValidateOffsets rejects non-root joints whose rest offset has zero length.
func (s *Skeleton) ValidateOffsets(eps float64) error {
	for i := 1; i < len(s.joints); i++ {
		if s.joints[i].Offset.Norm() <= eps {
			return fmt.Errorf("joint %q: %w", s.joints[i].Name, ErrDegenerateOffset)
		}
	}
	return nil
}

// WithOffsets returns a copy of the skeleton with replaced rest offsets.
func (s *Skeleton) WithOffsets(offsets []r3.Vector) (*Skeleton, error) {
	if len(offsets) != len(s.joints) {
		return nil, fmt.Errorf("got %d offsets for %d joints: %w", len(offsets), len(s.joints), ErrOffsetCountMismatch)
	}
	joints := s.Joints()
	for i := range joints {
		joints[i].Offset = offsets[i]
	}
	return New(joints)
}

// Subset returns the skeleton restricted to keep (ascending joint indices)
// along with the old-to-new index mapping. Every kept joint's parent must
// also be kept.
func (s *Skeleton) Subset(keep []int) (*Skeleton, map[int]int, error) {
	remap := make(map[int]int, len(keep))
	joints := make([]Joint, 0, len(keep))
	for n, old := range keep {
		if old < 0 || old >= len(s.joints) {
			return nil, nil, fmt.Errorf("joint %d: %w", old, ErrJointOutOfRange)
		}
		j := s.joints[old]
		if j.Parent != RootParent {
			p, ok := remap[j.Parent]
			if !ok {
				return nil, nil, fmt.Errorf("joint %q keeps removed parent: %w", j.Name, ErrInvalidParent)
			}
			j.Parent = p
		}
		remap[old] = n
		joints = append(joints, j)
	}
	sub, err := New(joints)
	if err != nil {
		return nil, nil, err
	}
	return sub, remap, nil
}

// Compatible reports whether o has the same joint names and parents as s.
func (s *Skeleton) Compatible(o *Skeleton) bool {
	if o == nil || len(o.joints) != len(s.joints) {
		return false
	}
	for i := range s.joints {
		if s.joints[i].Name != o.joints[i].Name || s.joints[i].Parent != o.joints[i].Parent {
			return false
		}
	}
	return true
}

// SidePairs pairs every joint whose name contains leftToken with the joint
// whose name is the same after replacing leftToken by rightToken.
func (s *Skeleton) SidePairs(leftToken, rightToken string) (left, right []int, err error) {
	if leftToken == "" || rightToken == "" {
		return nil, nil, fmt.Errorf("empty side token: %w", ErrJointNotFound)
	}
	for i, j := range s.joints {
		if !strings.Contains(j.Name, leftToken) {
			continue
		}
		mirrored := strings.Replace(j.Name, leftToken, rightToken, 1)
		r, err := s.Index(mirrored)
		if err != nil {
			return nil, nil, err
		}
		left = append(left, i)
		right = append(right, r)
	}
	return left, right, nil
}
