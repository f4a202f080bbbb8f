package generator

import (
	"testing"

	"github.com/grailbio/isomergen/graph"
	"github.com/grailbio/isomergen/graph/graphtest"
)

func fwdSeg(id string) graph.OrientedSegment {
	return graph.OrientedSegment{Segment: graph.SegmentID(id), Strand: graph.Forward}
}

func twoSegmentGraph() *graph.Graph {
	mg := graphtest.New().
		AddSegment("A", 10, 30.0).
		AddSegment("B", 10, 30.0)
	mg.AddEdge(fwdSeg("A"), fwdSeg("B"))
	mg.AddEdge(fwdSeg("B"), fwdSeg("A"))
	mg.AddEdge(fwdSeg("B").Rev(), fwdSeg("A").Rev())
	mg.AddEdge(fwdSeg("A").Rev(), fwdSeg("B").Rev())
	return graph.New(mg)
}

// TestDecomposeHeteroUnitsCollapsesDoubleRepeat covers S3: a walk that is
// really two identical copies of a unit decomposes to a single copy.
func TestDecomposeHeteroUnitsCollapsesDoubleRepeat(t *testing.T) {
	g := twoSegmentGraph()
	walk := graph.Path{fwdSeg("A"), fwdSeg("B"), fwdSeg("A"), fwdSeg("B")}

	// Unit sequence length is 20; a local_max_alignment_len of 20 supports
	// (20-2)/20 = 0 copies, clamped to 1, so each unit is emitted alone.
	blocks, decomposed, err := decomposeHeteroUnits(g, walk, 2, 20)
	if err != nil {
		t.Fatal(err)
	}
	if !decomposed {
		t.Fatalf("want a decomposition for a 2x-repeated unit, got none")
	}
	if len(blocks) != 2 {
		t.Fatalf("want one single-copy block per unit for a clean 2x repeat with a small local_max_alignment_len, got %d", len(blocks))
	}
	want := graph.Path{fwdSeg("A"), fwdSeg("B")}
	for i, b := range blocks {
		if !b.Equal(want) {
			t.Fatalf("block %d: want %v, got %v", i, want, b)
		}
	}
}

func TestDecomposeHeteroUnitsSkipsShortWalks(t *testing.T) {
	g := twoSegmentGraph()
	walk := graph.Path{fwdSeg("A"), fwdSeg("B")}

	_, decomposed, err := decomposeHeteroUnits(g, walk, 2, 50)
	if err != nil {
		t.Fatal(err)
	}
	if decomposed {
		t.Fatalf("want no decomposition below the 2x|V| length floor")
	}
}

func TestDecomposeHeteroUnitsSkipsCoprimeComposition(t *testing.T) {
	g := twoSegmentGraph()
	// A appears twice, B once: gcd(2,1)==1, nothing to split.
	walk := graph.Path{fwdSeg("A"), fwdSeg("B"), fwdSeg("A")}

	_, decomposed, err := decomposeHeteroUnits(g, walk, 1, 50)
	if err != nil {
		t.Fatal(err)
	}
	if decomposed {
		t.Fatalf("want no decomposition when per-segment counts are coprime")
	}
}
