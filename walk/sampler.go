package walk

import (
	"math"
	"math/rand"

	"github.com/grailbio/base/log"
)

// sampleIndex draws an index proportional to weights. Non-positive and
// non-finite weights are treated as zero. If every weight is zero (or the
// total is non-finite), this falls back to a uniform draw and logs
// ErrNumericDegenerate at debug level rather than failing the traversal.
func sampleIndex(rng *rand.Rand, weights []float64) (int, bool) {
	n := len(weights)
	if n == 0 {
		return -1, false
	}
	var total float64
	for _, w := range weights {
		if w > 0 && !math.IsNaN(w) && !math.IsInf(w, 0) {
			total += w
		}
	}
	if total <= 0 || math.IsNaN(total) || math.IsInf(total, 0) {
		if log.At(log.Debug) {
			log.Debug.Printf("%v: falling back to uniform sampling over %d candidates", ErrNumericDegenerate, n)
		}
		return rng.Intn(n), false
	}
	r := rng.Float64() * total
	var cumulative float64
	for i, w := range weights {
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			continue
		}
		cumulative += w
		if r < cumulative {
			return i, true
		}
	}
	return n - 1, true
}

func uniformWeights(n int) []float64 {
	out := make([]float64, n)
	p := 1 / float64(n)
	for i := range out {
		out[i] = p
	}
	return out
}

func maxOf(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		if x > m {
			m = x
		}
	}
	return m
}
