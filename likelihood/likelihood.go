// Package likelihood scores a proposed walk extension under a Gaussian
// model of per-contig coverage versus multiplicity: how much more (or less)
// plausible the walk becomes, per unit length, if a candidate tail is
// accepted.
package likelihood

import (
	"math"

	"github.com/grailbio/isomergen/coverage"
	"github.com/grailbio/isomergen/graph"
	"gonum.org/v1/gonum/stat/distuv"
)

// Model scores extensions of a walk against a graph and its coverage
// statistics.
type Model struct {
	g   *graph.Graph
	cov *coverage.Model
}

// New returns a Model backed by g and cov.
func New(g *graph.Graph, cov *coverage.Model) *Model {
	return &Model{g: g, cov: cov}
}

func normalLogProb(x, mu, sigma float64) float64 {
	return distuv.Normal{Mu: mu, Sigma: sigma}.LogProb(x)
}

// CumulativeLogRatio returns, for each prefix length i in 1..len(e), the
// length-normalized cumulative log-likelihood ratio of extending p by
// e[0:i]. Index i-1 of the result holds L[i] in spec terms.
//
// mu/sigma are p's current coverage mean/stddev (coverage.Model.Mean(p,
// nil)); muSC/sigmaSC are p's single-copy estimate
// (coverage.Model.MeanSingleCopy(p)). Both are computed once by the caller
// since they are shared across many candidate extensions of the same walk.
func (m *Model) CumulativeLogRatio(p, e graph.Path, mu, sigma, muSC, sigmaSC float64) ([]float64, error) {
	if len(e) == 0 {
		return nil, nil
	}
	counts := m.cov.MultiplicityCounts(p)
	extended := p.Clone()

	results := make([]float64, len(e))
	var cumulative float64
	var cumulativeLen int

	for i, o := range e {
		s := o.Segment
		c := counts[s]

		cs, err := m.g.Coverage(s)
		if err != nil {
			return nil, err
		}
		segLen, err := m.g.Length(s)
		if err != nil {
			return nil, err
		}

		oldLL := normalLogProb(cs, float64(c)*mu, sigma)
		if c > 0 {
			oldLL += normalLogProb(cs/float64(c), muSC, sigmaSC)
		}

		extended = append(extended, o)
		counts[s] = c + 1
		newCount := c + 1

		muP2, sigmaP2, err := m.cov.Mean(extended, nil)
		if err != nil {
			return nil, err
		}

		newLL := normalLogProb(cs, float64(newCount)*muP2, sigmaP2)
		if newCount > 0 {
			newLL += normalLogProb(cs/float64(newCount), muSC, sigmaSC)
		}

		deltaLogL := (newLL - oldLL) * float64(segLen)
		cumulative += deltaLogL
		cumulativeLen += segLen
		results[i] = cumulative / float64(cumulativeLen)

		mu, sigma = muP2, sigmaP2
	}
	return results, nil
}

// IsDegenerate reports whether v is non-finite (NaN or +/-Inf), the signal
// callers use to trigger the NumericDegenerate recovery path (spec §7):
// fall back to uniform weighting and keep going.
func IsDegenerate(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// Softmax exponentiates logWeights with max-shifting for numerical
// stability (spec §9's extended-precision note) and normalizes to a
// probability distribution. If every weight is non-finite or the shifted
// sum is zero, Softmax returns a uniform distribution and ok=false so the
// caller can log the NumericDegenerate recovery.
func Softmax(logWeights []float64) (weights []float64, ok bool) {
	n := len(logWeights)
	if n == 0 {
		return nil, true
	}
	max := math.Inf(-1)
	for _, lw := range logWeights {
		if !IsDegenerate(lw) && lw > max {
			max = lw
		}
	}
	out := make([]float64, n)
	if math.IsInf(max, -1) {
		return uniform(n), false
	}
	var sum float64
	for i, lw := range logWeights {
		if IsDegenerate(lw) {
			out[i] = 0
			continue
		}
		out[i] = math.Exp(lw - max)
		sum += out[i]
	}
	if sum == 0 || IsDegenerate(sum) {
		return uniform(n), false
	}
	for i := range out {
		out[i] /= sum
	}
	return out, true
}

func uniform(n int) []float64 {
	out := make([]float64, n)
	p := 1 / float64(n)
	for i := range out {
		out[i] = p
	}
	return out
}
