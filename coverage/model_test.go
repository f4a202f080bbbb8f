package coverage_test

import (
	"testing"

	"github.com/grailbio/isomergen/coverage"
	"github.com/grailbio/isomergen/graph"
	"github.com/grailbio/isomergen/graph/graphtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fwd(id string) graph.OrientedSegment {
	return graph.OrientedSegment{Segment: graph.SegmentID(id), Strand: graph.Forward}
}

func TestMeanWeightedBySegmentLength(t *testing.T) {
	mg := graphtest.New().
		AddSegment("A", 10, 20.0).
		AddSegment("B", 30, 60.0)
	g := graph.New(mg)
	m := coverage.New(g)

	mean, _, err := m.Mean(graph.Path{fwd("A"), fwd("B")}, nil)
	require.NoError(t, err)
	// weight A=10*1=10, weight B=30*1=30; mean = (10*20 + 30*60)/(10+30) = (200+1800)/40 = 50
	assert.InDelta(t, 50.0, mean, 1e-9)
}

func TestMeanWithExclusion(t *testing.T) {
	mg := graphtest.New().
		AddSegment("A", 10, 10.0)
	g := graph.New(mg)
	m := coverage.New(g)

	p := graph.Path{fwd("A"), fwd("A")}
	exclude := graph.Path{fwd("A")}

	mean, _, err := m.Mean(p, exclude)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, mean, 1e-9) // one A left, cov/count = 10/1
}

func TestMeanExclusionInvalid(t *testing.T) {
	mg := graphtest.New().AddSegment("A", 10, 10.0)
	g := graph.New(mg)
	m := coverage.New(g)

	p := graph.Path{fwd("A")}
	exclude := graph.Path{fwd("A"), fwd("A")}

	_, _, err := m.Mean(p, exclude)
	assert.ErrorIs(t, err, graph.ErrCoverageExclusionInvalid)
}

func TestMeanEmptyPath(t *testing.T) {
	mg := graphtest.New().AddSegment("A", 10, 10.0)
	g := graph.New(mg)
	m := coverage.New(g)

	_, _, err := m.Mean(nil, nil)
	assert.ErrorIs(t, err, graph.ErrEmptyPath)
}

func TestMeanSingleCopyRestrictsToMinimumMultiplicity(t *testing.T) {
	mg := graphtest.New().
		AddSegment("A", 10, 10.0).
		AddSegment("B", 10, 40.0)
	g := graph.New(mg)
	m := coverage.New(g)

	// A appears twice (repeat unit), B once: single-copy estimate should use
	// only B, the minimum-multiplicity segment.
	p := graph.Path{fwd("A"), fwd("B"), fwd("A")}
	mean, _, err := m.MeanSingleCopy(p)
	require.NoError(t, err)
	assert.InDelta(t, 40.0, mean, 1e-9)
}
