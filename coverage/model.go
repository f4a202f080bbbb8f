// Package coverage computes weighted coverage statistics over a candidate
// walk: per-segment multiplicity counts, a length-weighted coverage mean
// (with optional exclusion), and the "single copy" estimate the likelihood
// model normalizes against.
package coverage

import (
	"math"

	"github.com/grailbio/isomergen/graph"
)

// Model computes coverage statistics against a fixed graph.
type Model struct {
	g *graph.Graph
}

// New returns a Model backed by g.
func New(g *graph.Graph) *Model {
	return &Model{g: g}
}

// MultiplicityCounts counts how many times each segment occurs in p,
// ignoring strand.
func (m *Model) MultiplicityCounts(p graph.Path) map[graph.SegmentID]int {
	counts := make(map[graph.SegmentID]int, len(p))
	for _, o := range p {
		counts[o.Segment]++
	}
	return counts
}

// Mean returns the length-weighted average of cov(seg)/count_in_p(seg) and
// its population standard deviation over p's segments. If exclude is
// non-empty, its per-segment multiplicities are subtracted from p's before
// averaging; an exclusion that exceeds p's own multiplicity for any segment
// returns ErrCoverageExclusionInvalid.
func (m *Model) Mean(p graph.Path, exclude graph.Path) (mean, stddev float64, err error) {
	if len(p) == 0 {
		return 0, 0, graph.ErrEmptyPath
	}
	counts := m.MultiplicityCounts(p)
	if len(exclude) > 0 {
		for seg, n := range m.MultiplicityCounts(exclude) {
			counts[seg] -= n
			if counts[seg] < 0 {
				return 0, 0, graph.ErrCoverageExclusionInvalid
			}
		}
	}
	return m.weightedCoverage(counts)
}

// MeanSingleCopy returns the length-weighted coverage average (and its
// population standard deviation) restricted to the segments that achieve
// the minimum multiplicity in p: an estimate of what a single copy's
// coverage looks like under this walk.
func (m *Model) MeanSingleCopy(p graph.Path) (mean, stddev float64, err error) {
	if len(p) == 0 {
		return 0, 0, graph.ErrEmptyPath
	}
	counts := m.MultiplicityCounts(p)
	minCount := math.MaxInt32
	for _, n := range counts {
		if n > 0 && n < minCount {
			minCount = n
		}
	}
	restricted := make(map[graph.SegmentID]int, len(counts))
	for seg, n := range counts {
		if n == minCount {
			restricted[seg] = n
		}
	}
	return m.weightedCoverage(restricted)
}

// weightedCoverage averages cov(seg)/count over segments with count>0,
// weighted by len(seg)*count. Zero-length segments carry zero weight.
func (m *Model) weightedCoverage(counts map[graph.SegmentID]int) (mean, stddev float64, err error) {
	var totalWeight float64
	var weightedSum float64
	type entry struct {
		value, weight float64
	}
	entries := make([]entry, 0, len(counts))

	for seg, n := range counts {
		if n <= 0 {
			continue
		}
		length, lerr := m.g.Length(seg)
		if lerr != nil {
			return 0, 0, lerr
		}
		cov, cerr := m.g.Coverage(seg)
		if cerr != nil {
			return 0, 0, cerr
		}
		weight := float64(length) * float64(n)
		value := cov / float64(n)
		entries = append(entries, entry{value: value, weight: weight})
		totalWeight += weight
		weightedSum += weight * value
	}

	if totalWeight == 0 {
		return 0, 0, nil
	}
	mean = weightedSum / totalWeight

	var variance float64
	for _, e := range entries {
		d := e.value - mean
		variance += e.weight * d * d
	}
	variance /= totalWeight
	return mean, math.Sqrt(variance), nil
}
