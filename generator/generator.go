// Package generator drives the end-to-end search (spec §4, §5): ingest
// alignments against a graph, build the coverage and likelihood models, run
// many independent stochastic walks in parallel, validate and deduplicate
// each one, and report the distinct components found along with how many
// times each was independently produced.
package generator

import (
	"sync"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/isomergen/align"
	"github.com/grailbio/isomergen/coverage"
	"github.com/grailbio/isomergen/graph"
	"github.com/grailbio/isomergen/likelihood"
	"github.com/grailbio/isomergen/readindex"
	"github.com/grailbio/isomergen/walk"
)

// maxAttemptsPerWorker bounds how many consecutive invalid walks one worker
// will discard before giving up and reporting ErrBudgetExhausted.
const maxAttemptsPerWorker = 1000

// Result is the outcome of one generation run.
type Result struct {
	// Components holds each unique, standardized, validated walk, in
	// first-discovery order.
	Components []graph.Path
	// ComponentsCounts maps a component's canonical key (Path.Key()) to how
	// many independently produced walks standardized to it.
	ComponentsCounts map[string]int
	// ContigCoverages is the per-segment coverage reported for downstream
	// use: either the graph's own field, or an estimate from read-path
	// depth, per Opts.UseAlignmentCov. The coverage and likelihood models
	// that score walks during the run read the graph's own coverage in both
	// modes; the read-depth estimate is not used for scoring.
	ContigCoverages map[graph.SegmentID]float64
	// ReadPaths and Counter mirror the ingested, deduplicated read index.
	ReadPaths            []graph.Path
	Counter              []int
	LocalMaxAlignmentLen int
	// AlignmentLengths is every ingested record's AlignedLength, in
	// ingestion order (spec.md §6's "align_len_at_path_sorted" dump target;
	// sorting, if wanted, is the caller's concern at dump time).
	AlignmentLengths []int
}

// Generator owns the ingested read index and the coverage/likelihood models
// built from it, and drives the worker pool that samples walks.
type Generator struct {
	g    *graph.Graph
	idx  *readindex.ReadPathIndex
	cov  *coverage.Model
	lk   *likelihood.Model
	opts Opts
}

// New ingests records against g and returns a Generator ready to run.
func New(g *graph.Graph, records []align.AlignmentRecord, opts Opts) (*Generator, error) {
	idx := readindex.New(g, true)
	if err := idx.Ingest(records); err != nil {
		return nil, err
	}
	cov := coverage.New(g)
	lk := likelihood.New(g, cov)
	return &Generator{g: g, idx: idx, cov: cov, lk: lk, opts: opts}, nil
}

// Generate runs opts.NumProcesses workers producing walks until
// opts.NumSearch valid walks have been collected (across all workers,
// counting duplicates) or every worker exhausts its per-attempt budget.
// seed makes a run reproducible: the same seed and opts over the same
// ingested index always explores walks in the same per-worker order.
func (gen *Generator) Generate(seed int64) (*Result, error) {
	var (
		mu         sync.Mutex
		components []graph.Path
		counts     = make(map[string]int)
		countValid int
		budgetHit  bool
		done       = make(chan struct{})
		closeDone  sync.Once
	)

	err := traverse.Each(gen.opts.NumProcesses, func(workerIdx int) error {
		rng := rngFor(seed, workerIdx)
		wopts := walk.Opts{
			DifferF:          gen.opts.DifferF,
			DecayF:           gen.opts.DecayF,
			DecayT:           gen.opts.DecayT,
			CovInert:         gen.opts.CovInert,
			ForceCircular:    gen.opts.ForceCircular,
			HeteroChromosome: gen.opts.HeteroChromosome,
		}
		t := walk.New(gen.g, gen.idx, gen.cov, gen.lk, rng, wopts)

		invalidStreak := 0
		for {
			select {
			case <-done:
				return nil
			default:
			}

			mu.Lock()
			reached := countValid >= gen.opts.NumSearch
			mu.Unlock()
			if reached {
				closeDone.Do(func() { close(done) })
				return nil
			}

			raw, err := t.Run()
			if err != nil {
				return err
			}

			valid, err := gen.validate(raw)
			if err != nil {
				return err
			}
			if len(valid) == 0 {
				invalidStreak++
				if invalidStreak >= maxAttemptsPerWorker {
					mu.Lock()
					budgetHit = true
					mu.Unlock()
					if log.At(log.Debug) {
						log.Debug.Printf("%v: worker %d giving up after %d consecutive invalid walks", ErrBudgetExhausted, workerIdx, invalidStreak)
					}
					return nil
				}
				continue
			}
			invalidStreak = 0

			mu.Lock()
			for _, canon := range valid {
				key := canon.Key()
				if counts[key] == 0 {
					components = append(components, canon)
				}
				counts[key]++
				countValid++
			}
			reached = countValid >= gen.opts.NumSearch
			mu.Unlock()
			if reached {
				closeDone.Do(func() { close(done) })
			}
		}
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Components:           components,
		ComponentsCounts:     counts,
		ContigCoverages:      gen.contigCoverages(),
		ReadPaths:            gen.idx.ReadPaths,
		Counter:              gen.idx.Counter,
		LocalMaxAlignmentLen: gen.idx.LocalMaxAlignmentLen,
		AlignmentLengths:     gen.idx.AlignmentLengths,
	}
	if budgetHit && countValid < gen.opts.NumSearch {
		return res, ErrBudgetExhausted
	}
	return res, nil
}

// validate implements the per-walk acceptance pipeline: circularity gating,
// standardization, full-coverage gating for single-genome mode, and
// hetero-unit decomposition. It returns zero paths when raw is rejected.
func (gen *Generator) validate(raw graph.Path) ([]graph.Path, error) {
	rolled := graph.RollPath(raw)
	circular, err := gen.g.IsCircularPath(rolled)
	if err != nil {
		return nil, err
	}
	if gen.opts.ForceCircular && !circular {
		return nil, nil
	}

	canon := standardize(rolled, circular)

	if !gen.opts.HeteroChromosome {
		if !gen.g.IsFullyCoveredBy(canon) {
			return nil, nil
		}
		return []graph.Path{canon}, nil
	}

	blocks, decomposed, err := decomposeHeteroUnits(gen.g, canon, len(gen.g.Segments()), gen.idx.LocalMaxAlignmentLen)
	if err != nil {
		return nil, err
	}
	if !decomposed {
		return []graph.Path{canon}, nil
	}

	out := make([]graph.Path, 0, len(blocks))
	for _, b := range blocks {
		bc, err := gen.g.IsCircularPath(b)
		if err != nil {
			return nil, err
		}
		out = append(out, standardize(b, bc))
	}
	return out, nil
}

func standardize(p graph.Path, circular bool) graph.Path {
	if circular {
		return graph.StandardizeCircular(p)
	}
	return graph.StandardizePath(p)
}

// contigCoverages picks the per-segment coverage source named by
// Opts.UseAlignmentCov.
func (gen *Generator) contigCoverages() map[graph.SegmentID]float64 {
	segs := gen.g.Segments()
	out := make(map[graph.SegmentID]float64, len(segs))
	if !gen.opts.UseAlignmentCov {
		for _, s := range segs {
			c, err := gen.g.Coverage(s)
			if err != nil {
				continue
			}
			out[s] = c
		}
		return out
	}

	depth := make(map[graph.SegmentID]int, len(segs))
	for i, p := range gen.idx.ReadPaths {
		count := gen.idx.Counter[i]
		seen := make(map[graph.SegmentID]bool, len(p))
		for _, o := range p {
			if seen[o.Segment] {
				continue
			}
			seen[o.Segment] = true
			depth[o.Segment] += count
		}
	}
	for _, s := range segs {
		out[s] = float64(depth[s])
	}
	return out
}
