package graph

import "github.com/grailbio/base/errors"

// Sentinel errors for the graph package and its callers. Each wraps through
// errors.E so context (which segment, which path) survives while errors.Is
// still matches the sentinel.
var (
	// ErrUnknownSegment: a path referenced a segment the GraphProvider does
	// not know about. Fatal — indicates a programmer or upstream-data error.
	ErrUnknownSegment = errors.New("graph: unknown segment")

	// ErrEmptyPath: an operation that requires a non-empty path (coverage
	// statistics, the circularity test, ingestion of a record) was called on
	// one. Fatal.
	ErrEmptyPath = errors.New("graph: empty path")

	// ErrCoverageExclusionInvalid: CoverageModel.Mean was asked to exclude a
	// path that is not a sub-multiset of the path it is computing a mean
	// over. Fatal.
	ErrCoverageExclusionInvalid = errors.New("graph: invalid coverage exclusion")
)

// unknownSegment wraps ErrUnknownSegment with the offending segment.
func unknownSegment(seg SegmentID) error {
	return errors.E(ErrUnknownSegment, string(seg))
}
