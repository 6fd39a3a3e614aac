package footlock

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/stat"
)

// Run is a half-open frame interval [Start, End) of continuous contact.
type Run struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of frames in the run.
func (r Run) Len() int { return r.End - r.Start }

// Mid returns the run's midpoint frame.
func (r Run) Mid() int { return (r.Start + r.End) / 2 }

// Contains reports whether frame f lies in the run.
func (r Run) Contains(f int) bool { return f >= r.Start && f < r.End }

// DetectContacts marks frames whose height is below avgFactor times the
// mean height of the sequence.
func DetectContacts(heights []float64, avgFactor float64) []bool {
	out := make([]bool, len(heights))
	if len(heights) == 0 {
		return out
	}
	threshold := stat.Mean(heights, nil) * avgFactor
	for f, h := range heights {
		out[f] = h < threshold
	}
	return out
}

// ContactRuns returns the maximal runs of true values that last at least
// minFrames frames.
func ContactRuns(contact []bool, minFrames int) []Run {
	var runs []Run
	start := -1
	for f := 0; f <= len(contact); f++ {
		in := f < len(contact) && contact[f]
		switch {
		case in && start < 0:
			start = f
		case !in && start >= 0:
			if f-start >= minFrames {
				runs = append(runs, Run{Start: start, End: f})
			}
			start = -1
		}
	}
	return runs
}

// LockTargets returns the per-frame foot target: inside a run, the foot
// position at the run's midpoint dropped to the ground plane; elsewhere the
// unmodified foot position.
func LockTargets(foot []r3.Vector, runs []Run) []r3.Vector {
	out := make([]r3.Vector, len(foot))
	copy(out, foot)
	for _, r := range runs {
		lock := foot[r.Mid()]
		lock.Y = 0
		for f := r.Start; f < r.End; f++ {
			out[f] = lock
		}
	}
	return out
}
