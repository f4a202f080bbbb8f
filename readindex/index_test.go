package readindex_test

import (
	"testing"

	"github.com/grailbio/isomergen/align"
	"github.com/grailbio/isomergen/graph"
	"github.com/grailbio/isomergen/graph/graphtest"
	"github.com/grailbio/isomergen/readindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fwd(id string) graph.OrientedSegment {
	return graph.OrientedSegment{Segment: graph.SegmentID(id), Strand: graph.Forward}
}

func buildGraph() *graph.Graph {
	mg := graphtest.New().
		AddSegment("A", 10, 4.0).
		AddSegment("B", 10, 4.0).
		AddSegment("C", 10, 4.0).
		AddSegment("D", 10, 4.0).
		AddSegment("E", 10, 4.0)
	for _, pair := range [][2]string{{"A", "B"}, {"B", "C"}, {"C", "D"}, {"D", "E"}} {
		mg.AddEdge(fwd(pair[0]), fwd(pair[1]))
		mg.AddEdge(graph.OrientedSegment{Segment: graph.SegmentID(pair[1]), Strand: graph.Reverse},
			graph.OrientedSegment{Segment: graph.SegmentID(pair[0]), Strand: graph.Reverse})
	}
	return graph.New(mg)
}

func countEntries(m map[string][]readindex.ReadRef) int {
	n := 0
	for _, v := range m {
		n += len(v)
	}
	return n
}

func TestIndexCoverageInvariant(t *testing.T) {
	g := buildGraph()
	idx := readindex.New(g, true)

	p := graph.Path{fwd("A"), fwd("B"), fwd("C"), fwd("D"), fwd("E")}
	L := len(p)
	rec := align.Record{ID: "r1", P: p, AlignLen: 50}

	require.NoError(t, idx.Ingest([]align.AlignmentRecord{rec}))

	wantSuffix := 2 * (L - 1)
	gotSuffix := countEntries(idx.StartingSuffix)
	assert.Equal(t, wantSuffix, gotSuffix)

	wantMiddle := 0
	for k := 1; k <= L-2; k++ {
		wantMiddle += L - k - 1
	}
	wantMiddle *= 2
	gotMiddle := countEntries(idx.MiddleSubstring)
	assert.Equal(t, wantMiddle, gotMiddle)
}

func TestIngestIsIdempotentOnReReingest(t *testing.T) {
	g := buildGraph()
	p := graph.Path{fwd("A"), fwd("B"), fwd("C")}
	rec := align.Record{ID: "r1", P: p, AlignLen: 30}

	idxA := readindex.New(g, true)
	require.NoError(t, idxA.Ingest([]align.AlignmentRecord{rec, rec}))

	idxB := readindex.New(g, true)
	require.NoError(t, idxB.Ingest([]align.AlignmentRecord{rec}))
	require.NoError(t, idxB.Ingest([]align.AlignmentRecord{rec}))

	assert.Equal(t, countEntries(idxA.StartingSuffix), countEntries(idxB.StartingSuffix))
	assert.Equal(t, idxA.Counter, idxB.Counter)
}

func TestIngestFiltersPathsNotInGraph(t *testing.T) {
	g := buildGraph()
	idx := readindex.New(g, true)

	bad := graph.Path{fwd("A"), fwd("E")} // not an edge
	require.NoError(t, idx.Ingest([]align.AlignmentRecord{align.Record{ID: "bad", P: bad, AlignLen: 20}}))
	assert.Equal(t, 0, idx.NumReads())
}

func TestContainAfterIndex(t *testing.T) {
	g := buildGraph()
	idx := readindex.New(g, true)
	p := graph.Path{fwd("A"), fwd("B"), fwd("C")}
	require.NoError(t, idx.Ingest([]align.AlignmentRecord{align.Record{ID: "r1", P: p, AlignLen: 30}}))

	for _, rp := range idx.ReadPaths {
		ok, err := g.ContainPath(rp)
		require.NoError(t, err)
		assert.True(t, ok)
	}
}
