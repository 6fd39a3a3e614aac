package footlock

import (
	"github.com/golang/geo/r3"
	"github.com/okian/stride/internal/domain/spatial"
	"gonum.org/v1/gonum/num/quat"
)

// Solution is the outcome of one FABRIK solve.
type Solution struct {
	Positions  []r3.Vector
	Iterations int
	Converged  bool
}

// Solve runs FABRIK on a chain ordered from its fixed base (pts[0]) to its
// end effector. lengths[i] is the bone length between joints i-1 and i;
// lengths[0] is ignored. The solve stops once the squared distance between
// the end effector and target drops below tol or after maxIter passes.
// Unreachable targets fully extend the chain towards the target.
func Solve(pts []r3.Vector, lengths []float64, target r3.Vector, maxIter int, tol float64) Solution {
	out := append([]r3.Vector(nil), pts...)
	n := len(out)
	if n < 2 {
		return Solution{Positions: out}
	}
	end := n - 1
	if out[end].Sub(target).Norm2() < tol {
		return Solution{Positions: out, Converged: true}
	}

	base := out[0]
	var reach float64
	for i := 1; i < n; i++ {
		reach += lengths[i]
	}
	if base.Distance(target) >= reach {
		dir := direction(target.Sub(base), pts[end].Sub(pts[0]))
		for i := 1; i < n; i++ {
			out[i] = out[i-1].Add(dir.Mul(lengths[i]))
		}
		return Solution{Positions: out, Iterations: 1, Converged: out[end].Sub(target).Norm2() < tol}
	}

	sol := Solution{Positions: out}
	for it := 1; it <= maxIter; it++ {
		sol.Iterations = it

		out[end] = target
		for i := end - 1; i >= 0; i-- {
			d := direction(out[i].Sub(out[i+1]), pts[i].Sub(pts[i+1]))
			out[i] = out[i+1].Add(d.Mul(lengths[i+1]))
		}

		out[0] = base
		for i := 1; i < n; i++ {
			d := direction(out[i].Sub(out[i-1]), pts[i].Sub(pts[i-1]))
			out[i] = out[i-1].Add(d.Mul(lengths[i]))
		}

		if out[end].Sub(target).Norm2() < tol {
			sol.Converged = true
			break
		}
	}
	return sol
}

// direction normalizes v, falling back to the normalized fallback when v
// has collapsed to a point.
func direction(v, fallback r3.Vector) r3.Vector {
	if v.Norm() < spatial.Epsilon {
		return fallback.Normalize()
	}
	return v.Normalize()
}

// ChainRotations converts a solved chain back to local rotations.
// parentGlobal is the global orientation of the chain base's parent, locals
// the current local rotations of the chain joints, and initial/solved the
// joint positions before and after the solve, all ordered base first.
// Each joint except the last is rotated by the shortest arc between its old
// and new bone direction, expressed relative to its already updated parent.
// The last joint keeps its local rotation.
func ChainRotations(parentGlobal quat.Number, locals []quat.Number, initial, solved []r3.Vector) []quat.Number {
	out := append([]quat.Number(nil), locals...)
	after := parentGlobal
	before := parentGlobal
	for i := 0; i+1 < len(locals); i++ {
		q := spatial.FromTo(initial[i+1].Sub(initial[i]), solved[i+1].Sub(solved[i]))
		local := spatial.Normalize(spatial.Mul(spatial.Mul(spatial.Inverse(after), q), spatial.Mul(before, locals[i])))
		out[i] = local
		after = spatial.Mul(after, local)
		before = spatial.Mul(before, locals[i])
	}
	return out
}
