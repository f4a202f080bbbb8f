package graph

// GraphProvider is the external collaborator that owns assembly-graph
// parsing and depth estimation. isomergen never constructs one itself in
// production code; it only wraps whatever the caller supplies.
//
// Implementations must be safe for concurrent read access: multiple
// Traverser workers query the same GraphProvider concurrently.
type GraphProvider interface {
	// Segments returns every segment in the graph, in a stable order.
	Segments() []SegmentID

	// Length returns the segment's length. Unknown segments return
	// ErrUnknownSegment.
	Length(seg SegmentID) (int, error)

	// Coverage returns the segment's observed coverage. Unknown segments
	// return ErrUnknownSegment.
	Coverage(seg SegmentID) (float64, error)

	// Neighbors returns the oriented segments reachable by walking off the
	// given end. Order is unspecified; callers that need determinism sort
	// the result themselves (Graph.Neighbors does this).
	Neighbors(o OrientedSegment) ([]OrientedSegment, error)
}
