// Package align defines the external alignment-record surface ReadPathIndex
// consumes: a parsed path through the assembly graph plus the alignment
// metrics needed to bound how far those reads can speak for a walk.
//
// Parsing GAF/SPA-TSV files and their path-string grammar is out of scope
// (spec.md's "path_str grammar" open question); callers supply records that
// already carry a parsed graph.Path.
package align

import "github.com/grailbio/isomergen/graph"

// AlignmentRecord is one read-to-graph alignment.
type AlignmentRecord interface {
	// ReadID names the originating read.
	ReadID() string

	// Path is the parsed oriented-segment path the read aligned along.
	Path() graph.Path

	// AlignedLength is the alignment's length in graph coordinates
	// (p_align_len in the GAF convention): how much of the path the
	// alignment actually covers, as opposed to the read's full length.
	AlignedLength() int
}

// Record is a plain in-memory AlignmentRecord, usable directly by tests and
// by callers that already hold parsed paths.
type Record struct {
	ID       string
	P        graph.Path
	AlignLen int
}

func (r Record) ReadID() string     { return r.ID }
func (r Record) Path() graph.Path   { return r.P }
func (r Record) AlignedLength() int { return r.AlignLen }

var _ AlignmentRecord = Record{}
