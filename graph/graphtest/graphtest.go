// Package graphtest supplies an in-memory graph.GraphProvider for tests. It
// is never imported by generation code, only by package _test.go files
// across the module (mirrors markduplicates/testutils.go's role for that
// package).
package graphtest

import "github.com/grailbio/isomergen/graph"

// MemGraph is a small, fully in-memory GraphProvider backed by plain maps.
// Adjacency must be supplied symmetric by the caller: if AddEdge(a, b) is
// called, stepping off a reaches b, but the reverse direction is not implied
// automatically, since bidirected adjacency conventions are graph-specific.
// Build fixtures by calling AddEdge for every direction the scenario needs.
type MemGraph struct {
	order    []graph.SegmentID
	lengths  map[graph.SegmentID]int
	coverage map[graph.SegmentID]float64
	edges    map[graph.OrientedSegment][]graph.OrientedSegment
}

// New returns an empty MemGraph.
func New() *MemGraph {
	return &MemGraph{
		lengths:  make(map[graph.SegmentID]int),
		coverage: make(map[graph.SegmentID]float64),
		edges:    make(map[graph.OrientedSegment][]graph.OrientedSegment),
	}
}

// AddSegment registers a segment with its length and coverage.
func (m *MemGraph) AddSegment(seg graph.SegmentID, length int, coverage float64) *MemGraph {
	if _, ok := m.lengths[seg]; !ok {
		m.order = append(m.order, seg)
	}
	m.lengths[seg] = length
	m.coverage[seg] = coverage
	return m
}

// AddEdge records that stepping off "from" reaches "to". Edges are directed
// in MemGraph's bookkeeping; call it once per direction a real bidirected
// edge implies.
func (m *MemGraph) AddEdge(from, to graph.OrientedSegment) *MemGraph {
	m.edges[from] = append(m.edges[from], to)
	return m
}

func (m *MemGraph) Segments() []graph.SegmentID {
	out := make([]graph.SegmentID, len(m.order))
	copy(out, m.order)
	return out
}

func (m *MemGraph) Length(seg graph.SegmentID) (int, error) {
	l, ok := m.lengths[seg]
	if !ok {
		return 0, graph.ErrUnknownSegment
	}
	return l, nil
}

func (m *MemGraph) Coverage(seg graph.SegmentID) (float64, error) {
	c, ok := m.coverage[seg]
	if !ok {
		return 0, graph.ErrUnknownSegment
	}
	return c, nil
}

func (m *MemGraph) Neighbors(o graph.OrientedSegment) ([]graph.OrientedSegment, error) {
	if _, ok := m.lengths[o.Segment]; !ok {
		return nil, graph.ErrUnknownSegment
	}
	return m.edges[o], nil
}
