package walk_test

import (
	"math/rand"
	"testing"

	"github.com/grailbio/isomergen/align"
	"github.com/grailbio/isomergen/coverage"
	"github.com/grailbio/isomergen/graph"
	"github.com/grailbio/isomergen/graph/graphtest"
	"github.com/grailbio/isomergen/likelihood"
	"github.com/grailbio/isomergen/readindex"
	"github.com/grailbio/isomergen/walk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fwd(id string) graph.OrientedSegment {
	return graph.OrientedSegment{Segment: graph.SegmentID(id), Strand: graph.Forward}
}
func rev(id string) graph.OrientedSegment {
	return graph.OrientedSegment{Segment: graph.SegmentID(id), Strand: graph.Reverse}
}

// loopGraph builds the S1 fixture: a two-segment self-closing loop A->B->A.
func loopGraph() *graph.Graph {
	mg := graphtest.New().
		AddSegment("A", 100, 30.0).
		AddSegment("B", 100, 30.0)
	mg.AddEdge(fwd("A"), fwd("B"))
	mg.AddEdge(fwd("B"), fwd("A"))
	mg.AddEdge(rev("A"), rev("B"))
	mg.AddEdge(rev("B"), rev("A"))
	return graph.New(mg)
}

func newTraverser(t *testing.T, g *graph.Graph, idx *readindex.ReadPathIndex, opts walk.Opts, seed int64) *walk.Traverser {
	t.Helper()
	cov := coverage.New(g)
	lk := likelihood.New(g, cov)
	return walk.New(g, idx, cov, lk, rand.New(rand.NewSource(seed)), opts)
}

func TestRunClosesTheLoop(t *testing.T) {
	g := loopGraph()
	idx := readindex.New(g, true)
	p := graph.Path{fwd("A"), fwd("B")}
	for i := 0; i < 10; i++ {
		require.NoError(t, idx.Ingest([]align.AlignmentRecord{align.Record{ID: "r", P: p, AlignLen: 200}}))
	}

	opts := walk.Opts{DifferF: 1, DecayF: 20, DecayT: 1000, CovInert: 1, ForceCircular: true, HeteroChromosome: true}

	for seed := int64(0); seed < 20; seed++ {
		tr := newTraverser(t, g, idx, opts, seed)
		walkPath, err := tr.Run()
		require.NoError(t, err)
		assert.True(t, graph.StandardizeCircular(walkPath).Equal(graph.StandardizeCircular(p)),
			"seed %d produced %v", seed, walkPath)
	}
}

func TestRunTerminatesOnDeadEnd(t *testing.T) {
	mg := graphtest.New().
		AddSegment("A", 10, 10.0).
		AddSegment("B", 10, 10.0).
		AddSegment("C", 10, 10.0)
	mg.AddEdge(fwd("A"), fwd("B"))
	mg.AddEdge(rev("B"), rev("A"))
	mg.AddEdge(fwd("B"), fwd("C"))
	mg.AddEdge(rev("C"), rev("B"))
	g := graph.New(mg)

	idx := readindex.New(g, true)
	require.NoError(t, idx.Ingest([]align.AlignmentRecord{align.Record{ID: "r", P: graph.Path{fwd("A"), fwd("B"), fwd("C")}, AlignLen: 30}}))

	opts := walk.Opts{DifferF: 1, DecayF: 20, DecayT: 1000, CovInert: 1, ForceCircular: true, HeteroChromosome: true}
	tr := newTraverser(t, g, idx, opts, 1)

	walkPath, err := tr.Run()
	require.NoError(t, err)
	assert.NotEmpty(t, walkPath)

	circular, err := g.IsCircularPath(walkPath)
	require.NoError(t, err)
	assert.False(t, circular)
}

