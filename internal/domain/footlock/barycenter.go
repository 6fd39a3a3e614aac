package footlock

import (
	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/filter"
	"github.com/okian/stride/internal/domain/fk"
	"github.com/okian/stride/internal/domain/motion"
)

// FixBarycenter shifts the root of a copy of c so that, within every run
// where both feet are in contact, the midpoint between the feet stays where
// it was at the start of the run. The per-frame correction is smoothed with
// sigma before it is applied.
func FixBarycenter(c *motion.Clip, left, right int, avgFactor, sigma float64) (*motion.Clip, []Run) {
	positions := fk.Positions(c)
	lh := make([]float64, len(positions))
	rh := make([]float64, len(positions))
	for f, pos := range positions {
		lh[f] = pos[left].Y
		rh[f] = pos[right].Y
	}
	lc := DetectContacts(lh, avgFactor)
	rc := DetectContacts(rh, avgFactor)
	both := make([]bool, len(positions))
	for f := range both {
		both[f] = lc[f] && rc[f]
	}
	runs := ContactRuns(both, 1)

	midpoint := func(f int) r3.Vector {
		return positions[f][left].Add(positions[f][right]).Mul(0.5)
	}
	correction := make([]r3.Vector, len(positions))
	for _, r := range runs {
		fixed := midpoint(r.Start)
		for f := r.Start; f < r.End; f++ {
			correction[f] = fixed.Sub(midpoint(f))
		}
	}
	correction = filter.GaussianVectors(correction, sigma)

	out := c.Clone()
	for f := range out.Root {
		out.Root[f] = out.Root[f].Add(correction[f])
	}
	return out, runs
}
