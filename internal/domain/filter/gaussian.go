// Package filter smooths per-frame signals over time.
package filter

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// truncate is the kernel half-width in standard deviations.
const truncate = 4.0

// Kernel returns normalized Gaussian weights for the given sigma, covering
// ±round(4σ) samples. A non-positive sigma yields the unit kernel.
func Kernel(sigma float64) []float64 {
	if !(sigma > 0) {
		return []float64{1}
	}
	radius := int(truncate*sigma + 0.5)
	normal := distuv.Normal{Mu: 0, Sigma: sigma}
	w := make([]float64, 2*radius+1)
	for i := range w {
		w[i] = normal.Prob(float64(i - radius))
	}
	floats.Scale(1/floats.Sum(w), w)
	return w
}

// Gaussian1D convolves values with a Gaussian kernel, repeating the edge
// samples beyond both ends.
func Gaussian1D(values []float64, sigma float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	w := Kernel(sigma)
	radius := len(w) / 2
	last := len(values) - 1
	for i := range values {
		var acc float64
		for k, wk := range w {
			idx := clampIndex(i+k-radius, last)
			acc += wk * values[idx]
		}
		out[i] = acc
	}
	return out
}

// GaussianVectors smooths each component of a vector sequence independently.
func GaussianVectors(values []r3.Vector, sigma float64) []r3.Vector {
	xs := make([]float64, len(values))
	ys := make([]float64, len(values))
	zs := make([]float64, len(values))
	for i, v := range values {
		xs[i], ys[i], zs[i] = v.X, v.Y, v.Z
	}
	xs = Gaussian1D(xs, sigma)
	ys = Gaussian1D(ys, sigma)
	zs = Gaussian1D(zs, sigma)
	out := make([]r3.Vector, len(values))
	for i := range out {
		out[i] = r3.Vector{X: xs[i], Y: ys[i], Z: zs[i]}
	}
	return out
}

func clampIndex(i, last int) int {
	return max(0, min(last, i))
}
