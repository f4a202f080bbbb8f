// Package graph provides a read-only capability surface over an external
// assembly graph: segment length and coverage lookups, oriented adjacency,
// and the path algebra (reversal, rolling, standardization, containment)
// that the rest of isomergen builds on.
package graph

import "strings"

// SegmentID identifies a contig/segment in the assembly graph. Segments are
// immutable for the lifetime of one generation run.
type SegmentID string

// Strand is the orientation a segment is traversed in.
type Strand bool

const (
	Forward Strand = true
	Reverse Strand = false
)

func (s Strand) flip() Strand { return !s }

func (s Strand) String() string {
	if s == Forward {
		return "+"
	}
	return "-"
}

// OrientedSegment is a segment paired with the strand it is entered on.
type OrientedSegment struct {
	Segment SegmentID
	Strand  Strand
}

// Rev returns the oriented segment with its strand flipped.
func (o OrientedSegment) Rev() OrientedSegment {
	return OrientedSegment{Segment: o.Segment, Strand: o.Strand.flip()}
}

func (o OrientedSegment) String() string {
	return o.Strand.String() + string(o.Segment)
}

// Less gives OrientedSegment a total order, used for standardization and for
// deterministic tie-breaking wherever the spec calls for "lexicographically
// smallest".
func (o OrientedSegment) Less(other OrientedSegment) bool {
	if o.Segment != other.Segment {
		return o.Segment < other.Segment
	}
	return !o.Strand && other.Strand
}

// Path is an ordered sequence of oriented segments. Two representations
// coexist logically (linear and circular); which one applies depends on the
// caller, not on the type.
type Path []OrientedSegment

// Clone returns an independent copy of p.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Equal reports whether p and q hold the same oriented segments in the same
// order.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Less is a lexicographic comparison over oriented segments, used to pick a
// canonical representative among equivalent rotations/reflections of a path.
func (p Path) Less(q Path) bool {
	n := len(p)
	if len(q) < n {
		n = len(q)
	}
	for i := 0; i < n; i++ {
		if p[i] != q[i] {
			return p[i].Less(q[i])
		}
	}
	return len(p) < len(q)
}

// String renders a path the way the teacher's repr_path does: a compact,
// human-readable, order-preserving dump for trace-level logging.
func (p Path) String() string {
	var b strings.Builder
	for i, o := range p {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(o.String())
	}
	return b.String()
}

// Key returns a value suitable for use as a map key (Path itself, being a
// slice, cannot be one).
func (p Path) Key() string {
	var b strings.Builder
	for _, o := range p {
		b.WriteString(o.String())
		b.WriteByte('\x00')
	}
	return b.String()
}
