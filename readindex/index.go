// Package readindex ingests raw alignment paths and builds the two
// sub-path indices the Traverser walks against: StartingSuffix, keyed by a
// walk's trailing overlap, and MiddleSubstring, keyed by an interior
// substring, for the middle-subpath jump fallback.
package readindex

import (
	"github.com/grailbio/isomergen/align"
	"github.com/grailbio/isomergen/graph"
)

// ReadRef names one unique read path plus the orientation (relative to its
// stored canonical form) an index entry was built from.
type ReadRef struct {
	ReadIndex int
	Strand    graph.Strand
}

// ReadPathIndex is the ingested, deduplicated view of a read-alignment set.
type ReadPathIndex struct {
	g             *graph.Graph
	filterByGraph bool

	// ReadPaths holds each unique canonicalized read path, insertion order.
	ReadPaths []graph.Path
	// Counter[i] is the number of raw records that canonicalized to
	// ReadPaths[i].
	Counter []int

	StartingSuffix  map[string][]ReadRef
	MiddleSubstring map[string][]ReadRef

	// LocalMaxAlignmentLen is the largest AlignedLength seen across kept
	// records: how far the reads can speak for a walk.
	LocalMaxAlignmentLen int

	// AlignmentLengths accumulates every kept record's AlignedLength, in
	// ingestion order. Exposed for diagnostics/persistence (spec.md §6's
	// "align_len_at_path_sorted" dump); not used by the index itself.
	AlignmentLengths []int

	keyToIndex map[string]int
}

// New builds an empty index over g. When filterByGraph is set, Ingest
// discards any record whose canonical path the graph does not contain.
func New(g *graph.Graph, filterByGraph bool) *ReadPathIndex {
	return &ReadPathIndex{
		g:               g,
		filterByGraph:   filterByGraph,
		StartingSuffix:  make(map[string][]ReadRef),
		MiddleSubstring: make(map[string][]ReadRef),
		keyToIndex:      make(map[string]int),
	}
}

// Ingest folds records into the index. Ingesting an alignment set in one
// call or split across several calls yields the same ReadPaths/Counter/
// sub-path maps, modulo set order. Ingesting a record again leaves
// ReadPaths and the sub-path maps unchanged but adds to its Counter entry;
// AlignmentLengths likewise keeps growing, since it is a record of
// everything seen rather than a deduplicated view.
func (idx *ReadPathIndex) Ingest(records []align.AlignmentRecord) error {
	for _, rec := range records {
		p := rec.Path()
		if len(p) == 0 {
			return graph.ErrEmptyPath
		}
		canon := graph.StandardizePath(p)

		if idx.filterByGraph {
			ok, err := idx.g.ContainPath(canon)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
		}

		key := canon.Key()
		i, ok := idx.keyToIndex[key]
		if !ok {
			i = len(idx.ReadPaths)
			idx.ReadPaths = append(idx.ReadPaths, canon)
			idx.Counter = append(idx.Counter, 0)
			idx.keyToIndex[key] = i
			idx.indexPath(i, canon)
		}
		idx.Counter[i]++

		al := rec.AlignedLength()
		idx.AlignmentLengths = append(idx.AlignmentLengths, al)
		if al > idx.LocalMaxAlignmentLen {
			idx.LocalMaxAlignmentLen = al
		}
	}
	return nil
}

// indexPath registers every proper prefix and every strictly-interior substring of
// both orientations of a newly seen unique read path.
func (idx *ReadPathIndex) indexPath(i int, canon graph.Path) {
	idx.indexOriented(i, canon, graph.Forward)
	idx.indexOriented(i, graph.ReversePath(canon), graph.Reverse)
}

func (idx *ReadPathIndex) indexOriented(i int, p graph.Path, strand graph.Strand) {
	ref := ReadRef{ReadIndex: i, Strand: strand}
	n := len(p)

	for k := 1; k < n; k++ {
		key := p[:k].Key()
		idx.StartingSuffix[key] = append(idx.StartingSuffix[key], ref)
	}

	for k := 1; k <= n-2; k++ {
		for j := 1; j <= n-k-1; j++ {
			key := p[j : j+k].Key()
			idx.MiddleSubstring[key] = append(idx.MiddleSubstring[key], ref)
		}
	}
}

// LookupStartingSuffix returns every ReadRef whose read path begins with
// suffix (the caller passes the trailing overlap of the walk it is
// extending).
func (idx *ReadPathIndex) LookupStartingSuffix(suffix graph.Path) []ReadRef {
	return idx.StartingSuffix[suffix.Key()]
}

// LookupMiddleSubstring returns every ReadRef whose read path contains sub
// as a strictly-interior substring.
func (idx *ReadPathIndex) LookupMiddleSubstring(sub graph.Path) []ReadRef {
	return idx.MiddleSubstring[sub.Key()]
}

// OrientedPath returns the full read path in the orientation ref names.
func (idx *ReadPathIndex) OrientedPath(ref ReadRef) graph.Path {
	p := idx.ReadPaths[ref.ReadIndex]
	if ref.Strand == graph.Forward {
		return p
	}
	return graph.ReversePath(p)
}

// CounterFor returns how many raw records canonicalized to ref's read path.
func (idx *ReadPathIndex) CounterFor(ref ReadRef) int {
	return idx.Counter[ref.ReadIndex]
}

// NumReads returns the number of unique canonicalized read paths.
func (idx *ReadPathIndex) NumReads() int { return len(idx.ReadPaths) }
