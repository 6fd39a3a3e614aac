// Package footlock removes foot sliding. It detects ground contact per
// foot, locks each contact run to a fixed ground position, and re-solves
// both leg chains every frame with FABRIK before converting the solved
// positions back into local rotations.
package footlock

import (
	"context"
	"fmt"

	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/filter"
	"github.com/okian/stride/internal/domain/fk"
	"github.com/okian/stride/internal/domain/motion"
	"github.com/okian/stride/internal/domain/skeleton"
	"github.com/okian/stride/internal/worker"
	"gonum.org/v1/gonum/num/quat"
)

// Report summarizes a foot locking pass.
type Report struct {
	LeftRuns       []Run `json:"left_runs"`
	RightRuns      []Run `json:"right_runs"`
	BarycenterRuns []Run `json:"barycenter_runs"`

	// Iterations holds the FABRIK iteration count per frame, left leg then
	// right leg.
	Iterations  [][2]int `json:"-"`
	Unconverged int      `json:"unconverged"`
	MaxIter     int      `json:"max_iterations"`
}

type leg struct {
	foot    int
	chain   []int // base first
	parent  int
	lengths []float64
	targets []r3.Vector
}

// RemoveFootSliding returns a copy of c with feet locked during contact.
// The input clip is not modified. Records are returned in the order the
// operations were applied.
func RemoveFootSliding(ctx context.Context, c *motion.Clip, cfg Config, opts ...Option) (*motion.Clip, []motion.Record, Report, error) {
	s := settings{runner: worker.Sequential{}}
	for _, opt := range opts {
		opt(&s)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, Report{}, err
	}
	if c.Frames() < 2 {
		return nil, nil, Report{}, fmt.Errorf("%d frames: %w", c.Frames(), ErrTooFewFrames)
	}

	left, err := newLeg(c.Skeleton, cfg.LeftFoot)
	if err != nil {
		return nil, nil, Report{}, err
	}
	right, err := newLeg(c.Skeleton, cfg.RightFoot)
	if err != nil {
		return nil, nil, Report{}, err
	}
	if overlaps(left.chain, right.chain) {
		return nil, nil, Report{}, ErrChainOverlap
	}

	var (
		report  Report
		records []motion.Record
		out     = c
	)
	if cfg.FixBarycenter {
		out, report.BarycenterRuns = FixBarycenter(c, left.foot, right.foot, cfg.AvgFactor, cfg.BarycenterSigma)
		records = append(records, motion.NewRecord(motion.OpBarycenterFix, map[string]any{
			"runs":  len(report.BarycenterRuns),
			"sigma": cfg.BarycenterSigma,
		}))
	} else {
		out = c.Clone()
	}

	// Contact runs and smoothed targets must be complete before any frame
	// is solved.
	positions := fk.Positions(out)
	legs := []*leg{left, right}
	for _, l := range legs {
		runs := l.prepare(positions, cfg)
		if l == left {
			report.LeftRuns = runs
		} else {
			report.RightRuns = runs
		}
	}

	report.Iterations = make([][2]int, out.Frames())
	converged := make([][2]bool, out.Frames())
	err = s.runner.Run(ctx, out.Frames(), func(_ context.Context, f int) error {
		pose := fk.Frame(out.Skeleton, out.Rotations[f], out.Root[f])
		for k, l := range legs {
			pts := make([]r3.Vector, len(l.chain))
			locals := make([]quat.Number, len(l.chain))
			for i, j := range l.chain {
				pts[i] = pose.Positions[j]
				locals[i] = out.Rotations[f][j]
			}
			sol := Solve(pts, l.lengths, l.targets[f], cfg.MaxIterations, cfg.Tolerance)
			updated := ChainRotations(pose.Orientations[l.parent], locals, pts, sol.Positions)
			for i, j := range l.chain {
				out.Rotations[f][j] = updated[i]
			}
			report.Iterations[f][k] = sol.Iterations
			converged[f][k] = sol.Converged
		}
		return nil
	})
	if err != nil {
		return nil, nil, Report{}, fmt.Errorf("solve legs: %w", err)
	}

	for f := range converged {
		for k := range converged[f] {
			if !converged[f][k] {
				report.Unconverged++
			}
			report.MaxIter = max(report.MaxIter, report.Iterations[f][k])
		}
	}

	out.Normalize()
	out.EnforceSignContinuity()

	records = append(records, motion.NewRecord(motion.OpFootLock, map[string]any{
		"left_foot":          cfg.LeftFoot,
		"right_foot":         cfg.RightFoot,
		"avg_factor":         cfg.AvgFactor,
		"min_contact_frames": cfg.MinContactFrames,
		"contact_sigma":      cfg.ContactSigma,
		"left_runs":          len(report.LeftRuns),
		"right_runs":         len(report.RightRuns),
	}))
	return out, records, report, nil
}

func newLeg(skel *skeleton.Skeleton, foot string) (*leg, error) {
	idx, err := skel.Index(foot)
	if err != nil {
		return nil, err
	}
	chain, err := skel.ChainToRoot(idx)
	if err != nil {
		return nil, err
	}
	if len(chain) < 2 {
		return nil, fmt.Errorf("foot %q: %w", foot, ErrChainTooShort)
	}
	for i, k := 0, len(chain)-1; i < k; i, k = i+1, k-1 {
		chain[i], chain[k] = chain[k], chain[i]
	}
	return &leg{foot: idx, chain: chain, parent: skel.Parent(chain[0])}, nil
}

// prepare computes bone lengths from frame 0 and the smoothed lock targets.
func (l *leg) prepare(positions [][]r3.Vector, cfg Config) []Run {
	l.lengths = make([]float64, len(l.chain))
	for i := 1; i < len(l.chain); i++ {
		l.lengths[i] = positions[0][l.chain[i]].Distance(positions[0][l.chain[i-1]])
	}

	foot := make([]r3.Vector, len(positions))
	heights := make([]float64, len(positions))
	for f, pos := range positions {
		foot[f] = pos[l.foot]
		heights[f] = pos[l.foot].Y
	}
	runs := ContactRuns(DetectContacts(heights, cfg.AvgFactor), cfg.MinContactFrames)
	l.targets = filter.GaussianVectors(LockTargets(foot, runs), cfg.ContactSigma)
	return runs
}

func overlaps(a, b []int) bool {
	seen := make(map[int]struct{}, len(a))
	for _, j := range a {
		seen[j] = struct{}{}
	}
	for _, j := range b {
		if _, ok := seen[j]; ok {
			return true
		}
	}
	return false
}
