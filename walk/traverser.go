// Package walk implements the stochastic extension engine: given a seed
// read path, it repeatedly proposes extensions from the sub-path indices
// and the graph, scores them against the coverage/likelihood model, and
// accepts or contracts them until the walk rolls to a canonical stop, hits
// a dead end, or exhausts its candidates. One Run call produces one walk.
package walk

import (
	"math"
	"math/rand"

	"github.com/grailbio/base/log"
	"github.com/grailbio/isomergen/coverage"
	"github.com/grailbio/isomergen/graph"
	"github.com/grailbio/isomergen/likelihood"
	"github.com/grailbio/isomergen/readindex"
)

// Opts carries the Traverser's tuning scalars (spec §4.5, §6).
type Opts struct {
	DifferF  float64
	DecayF   float64
	DecayT   float64
	CovInert float64

	// ForceCircular is not read by the extension algorithm itself; it is
	// carried here because it is logically a per-traversal input, and the
	// driver (generator package) validates against it after Run returns.
	// HeteroChromosome is also validated by the driver, and in addition
	// gates the weighting branches in graph-extend and subpath selection
	// below.
	ForceCircular    bool
	HeteroChromosome bool
}

// Traverser runs one stochastic walk over a graph, guided by a read-path
// index and a coverage/likelihood model.
type Traverser struct {
	g    *graph.Graph
	idx  *readindex.ReadPathIndex
	cov  *coverage.Model
	lk   *likelihood.Model
	rng  *rand.Rand
	opts Opts
}

// New returns a Traverser. rng is consumed exclusively by this Traverser;
// callers that want reproducible multi-worker runs must give each worker
// its own *rand.Rand derived from a shared seed.
func New(g *graph.Graph, idx *readindex.ReadPathIndex, cov *coverage.Model, lk *likelihood.Model, rng *rand.Rand, opts Opts) *Traverser {
	return &Traverser{g: g, idx: idx, cov: cov, lk: lk, rng: rng, opts: opts}
}

// stepResult is the outcome of one extension-loop iteration: either a new
// walk state to continue from, or a terminal walk to return.
type stepResult struct {
	newP        graph.Path
	newReversed bool
	terminal    bool
}

// Run produces one walk: a seed read path extended until it rolls to a
// canonical stop, dead-ends on both strands, or a contraction rejects every
// prefix of the last proposed tail.
func (t *Traverser) Run() (graph.Path, error) {
	p, err := t.seed()
	if err != nil {
		return nil, err
	}
	reversed := false

	for {
		rolled := graph.RollPath(p)
		if !rolled.Equal(p) {
			internal, err := t.g.GetPathInternalLength(p)
			if err != nil {
				return nil, err
			}
			if internal >= t.idx.LocalMaxAlignmentLen {
				return rolled, nil
			}
		}

		candidates, err := t.collectSuffixCandidates(p)
		if err != nil {
			return nil, err
		}

		var tail graph.Path
		if len(candidates) == 0 {
			middleRefs := t.idx.LookupMiddleSubstring(p)
			if len(middleRefs) > 0 {
				chosen, err := t.sampleMiddleJump(p, middleRefs)
				if err != nil {
					return nil, err
				}
				p = t.idx.OrientedPath(chosen)
				continue
			}

			res, ext, hasExt, err := t.graphExtend(p, reversed)
			if err != nil {
				return nil, err
			}
			if !hasExt {
				if res.terminal {
					return res.newP, nil
				}
				p, reversed = res.newP, res.newReversed
				continue
			}
			tail = ext
		} else {
			tail, err = t.chooseFromSubpathCandidates(p, candidates)
			if err != nil {
				return nil, err
			}
		}

		res, err := t.multiplicityCheck(p, tail, reversed)
		if err != nil {
			return nil, err
		}
		if res.terminal {
			return res.newP, nil
		}
		p, reversed = res.newP, res.newReversed
	}
}

// seed chooses a read path weighted by 1/counter[read] (flattening depth
// bias), then reverses it with probability 1/2.
func (t *Traverser) seed() (graph.Path, error) {
	n := t.idx.NumReads()
	if n == 0 {
		return nil, graph.ErrEmptyPath
	}
	weights := make([]float64, n)
	for i := 0; i < n; i++ {
		weights[i] = 1 / float64(t.idx.Counter[i])
	}
	i, _ := sampleIndex(t.rng, weights)
	p := t.idx.ReadPaths[i].Clone()
	if t.rng.Float64() < 0.5 {
		p = graph.ReversePath(p)
	}
	return p, nil
}

type suffixCandidate struct {
	ref     readindex.ReadRef
	overlap int
}

// collectSuffixCandidates grows the trailing overlap window of p one
// segment at a time and records every read that starts with it, stopping
// once the window's internal extent reaches local_max_alignment_len.
func (t *Traverser) collectSuffixCandidates(p graph.Path) ([]suffixCandidate, error) {
	var out []suffixCandidate
	for k := 1; k <= len(p); k++ {
		overlap := p[len(p)-k:]
		extent, err := t.g.OverlapExtent(overlap)
		if err != nil {
			return nil, err
		}
		if extent >= t.idx.LocalMaxAlignmentLen {
			break
		}
		for _, ref := range t.idx.LookupStartingSuffix(overlap) {
			out = append(out, suffixCandidate{ref: ref, overlap: k})
		}
	}
	return out, nil
}

// sampleMiddleJump picks a replacement read when p is only ever observed
// as an interior substring of longer reads.
func (t *Traverser) sampleMiddleJump(p graph.Path, refs []readindex.ReadRef) (readindex.ReadRef, error) {
	curMean, _, err := t.cov.Mean(p, nil)
	if err != nil {
		return readindex.ReadRef{}, err
	}

	weights := make([]float64, len(refs))
	for i, ref := range refs {
		w := math.Pow(float64(t.idx.CounterFor(ref)), t.opts.DifferF)
		if t.opts.CovInert > 0 {
			candMean, _, err := t.cov.Mean(t.idx.OrientedPath(ref), p)
			if err != nil {
				return readindex.ReadRef{}, err
			}
			w *= inertiaFactor(candMean, curMean, t.opts.CovInert)
		}
		weights[i] = w
	}
	i, _ := sampleIndex(t.rng, weights)
	return refs[i], nil
}

// graphExtend implements step 4: propose a single-segment extension from
// p's last oriented segment's neighbors, or resolve a dead end.
func (t *Traverser) graphExtend(p graph.Path, reversed bool) (res stepResult, ext graph.Path, hasExt bool, err error) {
	last := p[len(p)-1]
	neighbors, err := t.g.Neighbors(last)
	if err != nil {
		return stepResult{}, nil, false, err
	}

	if len(neighbors) == 0 {
		if !reversed {
			return stepResult{newP: graph.ReversePath(p), newReversed: true}, nil, false, nil
		}
		return stepResult{newP: p, terminal: true}, nil, false, nil
	}

	if len(neighbors) == 1 {
		return stepResult{}, graph.Path{neighbors[0]}, true, nil
	}

	weights, err := t.weighNeighbors(p, neighbors)
	if err != nil {
		return stepResult{}, nil, false, err
	}
	i, _ := sampleIndex(t.rng, weights)
	return stepResult{}, graph.Path{neighbors[i]}, true, nil
}

func (t *Traverser) weighNeighbors(p graph.Path, neighbors []graph.OrientedSegment) ([]float64, error) {
	switch {
	case !t.opts.HeteroChromosome:
		mu, sigma, err := t.cov.Mean(p, nil)
		if err != nil {
			return nil, err
		}
		muSC, sigmaSC, err := t.cov.MeanSingleCopy(p)
		if err != nil {
			return nil, err
		}
		logWeights := make([]float64, len(neighbors))
		for i, n := range neighbors {
			ratios, err := t.lk.CumulativeLogRatio(p, graph.Path{n}, mu, sigma, muSC, sigmaSC)
			if err != nil {
				return nil, err
			}
			logWeights[i] = ratios[0]
		}
		weights, _ := likelihood.Softmax(logWeights)
		return weights, nil

	case t.opts.CovInert > 0:
		curMean, _, err := t.cov.Mean(p, nil)
		if err != nil {
			return nil, err
		}
		weights := make([]float64, len(neighbors))
		for i, n := range neighbors {
			nc, err := t.g.Coverage(n.Segment)
			if err != nil {
				return nil, err
			}
			weights[i] = inertiaFactor(nc, curMean, t.opts.CovInert)
		}
		return weights, nil

	default:
		return uniformWeights(len(neighbors)), nil
	}
}

// chooseFromSubpathCandidates implements step 5: weight candidates
// flattened across overlap lengths, cap the pool by cumulative raw read
// count, and pick one tail to propose.
func (t *Traverser) chooseFromSubpathCandidates(p graph.Path, candidates []suffixCandidate) (graph.Path, error) {
	type entry struct {
		ref     readindex.ReadRef
		overlap int
		weight  float64
	}
	var pool []entry
	var cumulativeRaw float64
	for _, c := range candidates {
		if cumulativeRaw >= t.opts.DecayT {
			break
		}
		count := t.idx.CounterFor(c.ref)
		base := math.Pow(float64(count), t.opts.DifferF) * math.Pow(t.opts.DecayF, float64(c.overlap))
		pool = append(pool, entry{ref: c.ref, overlap: c.overlap, weight: base})
		cumulativeRaw += float64(count)
	}
	if len(pool) == 0 {
		first := candidates[0]
		pool = append(pool, entry{ref: first.ref, overlap: first.overlap, weight: 1})
	}

	baseWeights := make([]float64, len(pool))
	for i, e := range pool {
		baseWeights[i] = e.weight
	}

	switch {
	case !t.opts.HeteroChromosome:
		mu, sigma, err := t.cov.Mean(p, nil)
		if err != nil {
			return nil, err
		}
		muSC, sigmaSC, err := t.cov.MeanSingleCopy(p)
		if err != nil {
			return nil, err
		}

		drawn := make(map[int]int, 10)
		for i := 0; i < 10; i++ {
			idx, _ := sampleIndex(t.rng, baseWeights)
			drawn[idx]++
		}
		finalIdx := make([]int, 0, len(drawn))
		finalWeights := make([]float64, 0, len(drawn))
		for idx, n := range drawn {
			tail := t.tailFor(pool[idx].ref, pool[idx].overlap)
			w := float64(n)
			if len(tail) > 0 {
				ratios, err := t.lk.CumulativeLogRatio(p, tail, mu, sigma, muSC, sigmaSC)
				if err != nil {
					return nil, err
				}
				w *= maxOf(ratios)
			}
			finalIdx = append(finalIdx, idx)
			finalWeights = append(finalWeights, w)
		}
		chosen, _ := sampleIndex(t.rng, finalWeights)
		pc := pool[finalIdx[chosen]]
		return t.tailFor(pc.ref, pc.overlap), nil

	case t.opts.CovInert > 0:
		curMean, _, err := t.cov.Mean(p, nil)
		if err != nil {
			return nil, err
		}
		weights := make([]float64, len(pool))
		for i, e := range pool {
			candMean, _, err := t.cov.Mean(t.tailFor(e.ref, e.overlap), nil)
			if err != nil {
				return nil, err
			}
			weights[i] = e.weight * inertiaFactor(candMean, curMean, t.opts.CovInert)
		}
		chosen, _ := sampleIndex(t.rng, weights)
		return t.tailFor(pool[chosen].ref, pool[chosen].overlap), nil

	default:
		chosen, _ := sampleIndex(t.rng, baseWeights)
		return t.tailFor(pool[chosen].ref, pool[chosen].overlap), nil
	}
}

func (t *Traverser) tailFor(ref readindex.ReadRef, overlap int) graph.Path {
	full := t.idx.OrientedPath(ref)
	if overlap >= len(full) {
		return nil
	}
	return full[overlap:]
}

// multiplicityCheck implements step 6: accept the longest prefix of e whose
// contraction draw passes, or reverse/terminate if none does. If any segment
// of e is new to p, the whole of e is accepted outright, skipping the §4.4
// calculation.
func (t *Traverser) multiplicityCheck(p, e graph.Path, reversed bool) (stepResult, error) {
	counts := t.cov.MultiplicityCounts(p)
	for _, o := range e {
		if counts[o.Segment] == 0 {
			return stepResult{newP: append(p.Clone(), e...), newReversed: reversed}, nil
		}
	}

	mu, sigma, err := t.cov.Mean(p, nil)
	if err != nil {
		return stepResult{}, err
	}
	muSC, sigmaSC, err := t.cov.MeanSingleCopy(p)
	if err != nil {
		return stepResult{}, err
	}
	L, err := t.lk.CumulativeLogRatio(p, e, mu, sigma, muSC, sigmaSC)
	if err != nil {
		return stepResult{}, err
	}

	for i := len(e); i >= 1; i-- {
		li := L[i-1]
		var liNext float64
		if i < len(e) {
			liNext = L[i]
		}
		draw := (li - liNext) / (1 - liNext)
		if likelihood.IsDegenerate(li) || likelihood.IsDegenerate(liNext) || likelihood.IsDegenerate(draw) {
			if log.At(log.Debug) {
				log.Debug.Printf("%v: accepting prefix of length %d without a contraction draw", ErrNumericDegenerate, i)
			}
			return stepResult{newP: append(p.Clone(), e[:i]...), newReversed: reversed}, nil
		}
		if draw > t.rng.Float64() {
			return stepResult{newP: append(p.Clone(), e[:i]...), newReversed: reversed}, nil
		}
	}

	if !reversed {
		return stepResult{newP: graph.ReversePath(p), newReversed: true}, nil
	}
	return stepResult{newP: p, terminal: true}, nil
}

// inertiaFactor is the coverage-inertia reweighting used by the
// middle-subpath jump, graph-extend and subpath selection: candidates whose coverage is close
// to the walk's current mean are favored, scaled by covInert.
func inertiaFactor(candidateCov, walkMean, covInert float64) float64 {
	if walkMean == 0 {
		return 1
	}
	return math.Pow(math.Exp(-math.Abs(math.Log(candidateCov/walkMean))), covInert)
}
