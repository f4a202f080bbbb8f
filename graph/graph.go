package graph

import "sort"

// Graph is the BidirectedGraph adapter: a thin, read-only facade over an
// external GraphProvider plus the path algebra the rest of isomergen needs.
// All operations are pure with respect to Graph's own state; the only
// mutable state lives in the wrapped GraphProvider, which Graph never
// mutates.
type Graph struct {
	provider GraphProvider
}

// New wraps a GraphProvider in a Graph adapter.
func New(provider GraphProvider) *Graph {
	return &Graph{provider: provider}
}

// Segments returns every segment known to the graph.
func (g *Graph) Segments() []SegmentID { return g.provider.Segments() }

// Length returns a segment's length.
func (g *Graph) Length(seg SegmentID) (int, error) {
	l, err := g.provider.Length(seg)
	if err != nil {
		return 0, unknownSegment(seg)
	}
	return l, nil
}

// Coverage returns a segment's observed coverage.
func (g *Graph) Coverage(seg SegmentID) (float64, error) {
	c, err := g.provider.Coverage(seg)
	if err != nil {
		return 0, unknownSegment(seg)
	}
	return c, nil
}

// Neighbors returns the oriented segments reachable off o's exit end, sorted
// for deterministic iteration and tie-breaking.
func (g *Graph) Neighbors(o OrientedSegment) ([]OrientedSegment, error) {
	ns, err := g.provider.Neighbors(o)
	if err != nil {
		return nil, unknownSegment(o.Segment)
	}
	out := make([]OrientedSegment, len(ns))
	copy(out, ns)
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out, nil
}

func (g *Graph) hasNeighbor(o, want OrientedSegment) (bool, error) {
	ns, err := g.provider.Neighbors(o)
	if err != nil {
		return false, unknownSegment(o.Segment)
	}
	for _, n := range ns {
		if n == want {
			return true, nil
		}
	}
	return false, nil
}

// ReversePath reverses order and flips every strand.
func ReversePath(p Path) Path {
	out := make(Path, len(p))
	for i, o := range p {
		out[len(p)-1-i] = o.Rev()
	}
	return out
}

// StandardizePath standardizes a linear (open) path: between p and
// ReversePath(p), it returns whichever compares lexicographically smaller.
// Used to canonicalize raw alignment paths at ingestion; idempotent.
func StandardizePath(p Path) Path {
	r := ReversePath(p)
	if r.Less(p) {
		return r
	}
	return p.Clone()
}

// RollPath detects whether p is an exact repetition of a shorter cyclic
// unit and, if so, returns that unit (the smallest period dividing len(p)).
// If p has no such internal repeat, RollPath returns p unchanged.
func RollPath(p Path) Path {
	n := len(p)
	if n <= 1 {
		return p.Clone()
	}
	for d := 1; d < n; d++ {
		if n%d != 0 {
			continue
		}
		periodic := true
		for i := d; i < n; i++ {
			if p[i] != p[i%d] {
				periodic = false
				break
			}
		}
		if periodic {
			return p[:d].Clone()
		}
	}
	return p.Clone()
}

// rotations returns every rotation of p (p has n rotations for a circular
// path of length n).
func rotations(p Path) []Path {
	n := len(p)
	out := make([]Path, 0, n)
	for i := 0; i < n; i++ {
		rot := make(Path, n)
		copy(rot, p[i:])
		copy(rot[n-i:], p[:i])
		out = append(out, rot)
	}
	return out
}

// StandardizeCircular standardizes a circular path: among all rotations of p
// and all rotations of ReversePath(p), it returns the lexicographically
// smallest. Idempotent, and
// StandardizeCircular(ReversePath(p)) == StandardizeCircular(p).
func StandardizeCircular(p Path) Path {
	best := p.Clone()
	for _, base := range []Path{p, ReversePath(p)} {
		for _, rot := range rotations(base) {
			if rot.Less(best) {
				best = rot
			}
		}
	}
	return best
}

// IsCircularPath reports whether stepping off the last oriented segment of p
// leads back to its first oriented segment, closing the walk into a cycle.
func (g *Graph) IsCircularPath(p Path) (bool, error) {
	if len(p) == 0 {
		return false, ErrEmptyPath
	}
	return g.hasNeighbor(p[len(p)-1], p[0])
}

// ContainPath reports whether every consecutive transition in p is a real
// edge in the graph.
func (g *Graph) ContainPath(p Path) (bool, error) {
	for i := 0; i+1 < len(p); i++ {
		ok, err := g.hasNeighbor(p[i], p[i+1])
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// IsFullyCoveredBy reports whether every graph segment appears at least once
// in p, regardless of orientation.
func (g *Graph) IsFullyCoveredBy(p Path) bool {
	seen := make(map[SegmentID]struct{}, len(p))
	for _, o := range p {
		seen[o.Segment] = struct{}{}
	}
	for _, seg := range g.provider.Segments() {
		if _, ok := seen[seg]; !ok {
			return false
		}
	}
	return true
}

// GetPathLength sums the lengths of every segment occurrence in p.
func (g *Graph) GetPathLength(p Path) (int, error) {
	total := 0
	for _, o := range p {
		l, err := g.Length(o.Segment)
		if err != nil {
			return 0, err
		}
		total += l
	}
	return total, nil
}

// GetPathInternalLength sums segment lengths in p excluding the two
// terminal-segment extents (the first and last occurrence).
func (g *Graph) GetPathInternalLength(p Path) (int, error) {
	if len(p) < 2 {
		return 0, nil
	}
	total, err := g.GetPathLength(p[1 : len(p)-1])
	if err != nil {
		return 0, err
	}
	return total, nil
}

// OverlapExtent computes the internal length of an overlap window as it
// grows during suffix-candidate collection (spec.md §4.5 step 2): the
// window's trailing edge is still open (no confirmed next segment yet), so
// only its leading segment is excluded, as if a zero-length sentinel were
// appended as the new terminal segment.
func (g *Graph) OverlapExtent(overlap Path) (int, error) {
	if len(overlap) == 0 {
		return 0, nil
	}
	total, err := g.GetPathLength(overlap)
	if err != nil {
		return 0, err
	}
	first, err := g.Length(overlap[0].Segment)
	if err != nil {
		return 0, err
	}
	return total - first, nil
}

// ReprPath renders p for logging, matching the teacher's repr_path role.
func (g *Graph) ReprPath(p Path) string { return p.String() }
