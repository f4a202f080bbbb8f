package generator

import "github.com/grailbio/isomergen/graph"

// decomposeHeteroUnits implements spec §4.6 step 4: if a canonical walk is
// built from g>1 repeated compositional units, split it into emitted walks
// each long enough in sequence terms to be supported by the evidence bound
// (local_max_alignment_len), rather than emitting the whole repeated walk
// as one inflated component.
//
// It returns (blocks, true, nil) when a decomposition was found; the
// original walk must then not be emitted, only the returned blocks, whose
// concatenation (in original rotated order) reconstructs it (spec
// invariant 9). It returns (nil, false, nil) when the walk does not
// qualify or no equal-composition split exists, in which case the caller
// emits walk unchanged.
func decomposeHeteroUnits(g *graph.Graph, walk graph.Path, numVertices, localMaxAlignmentLen int) ([]graph.Path, bool, error) {
	n := len(walk)
	if n < 2*numVertices {
		return nil, false, nil
	}

	counts := make(map[graph.SegmentID]int, n)
	for _, o := range walk {
		counts[o.Segment]++
	}
	unitGCD := 0
	for _, c := range counts {
		unitGCD = gcdInt(unitGCD, c)
	}
	if unitGCD <= 1 || n%unitGCD != 0 {
		return nil, false, nil
	}
	blockLen := n / unitGCD

	offset, ok := findEqualCompositionRotation(walk, unitGCD, blockLen)
	if !ok {
		return nil, false, nil
	}

	rotated := rotate(walk, offset)
	units := make([]graph.Path, unitGCD)
	for i := 0; i < unitGCD; i++ {
		units[i] = rotated[i*blockLen : (i+1)*blockLen]
	}

	unitSeqLen, err := g.GetPathLength(units[0])
	if err != nil {
		return nil, false, err
	}
	if unitSeqLen == 0 {
		return nil, false, nil
	}

	unitCopyNum := (localMaxAlignmentLen - 2) / unitSeqLen
	if unitCopyNum > unitGCD {
		unitCopyNum = unitGCD
	}
	if unitCopyNum < 1 {
		unitCopyNum = 1
	}

	numEmitted := unitGCD / unitCopyNum
	remainder := unitGCD - numEmitted*unitCopyNum

	blocks := make([]graph.Path, 0, numEmitted)
	idx := 0
	for i := 0; i < numEmitted; i++ {
		count := unitCopyNum
		if i == numEmitted-1 {
			count += remainder
		}
		var combined graph.Path
		for j := 0; j < count; j++ {
			combined = append(combined, units[idx]...)
			idx++
		}
		blocks = append(blocks, combined)
	}
	return blocks, true, nil
}

func rotate(p graph.Path, offset int) graph.Path {
	n := len(p)
	out := make(graph.Path, n)
	copy(out, p[offset:])
	copy(out[n-offset:], p[:offset])
	return out
}

// findEqualCompositionRotation looks for a rotation offset under which
// splitting walk into numBlocks consecutive blocks of blockLen each yields
// identical per-segment composition in every block.
func findEqualCompositionRotation(walk graph.Path, numBlocks, blockLen int) (int, bool) {
	n := len(walk)
	for offset := 0; offset < n; offset++ {
		rotated := rotate(walk, offset)
		var ref map[graph.SegmentID]int
		ok := true
		for i := 0; i < numBlocks; i++ {
			block := rotated[i*blockLen : (i+1)*blockLen]
			counts := make(map[graph.SegmentID]int, blockLen)
			for _, o := range block {
				counts[o.Segment]++
			}
			if i == 0 {
				ref = counts
				continue
			}
			if !sameComposition(ref, counts) {
				ok = false
				break
			}
		}
		if ok {
			return offset, true
		}
	}
	return 0, false
}

func sameComposition(a, b map[graph.SegmentID]int) bool {
	if len(a) != len(b) {
		return false
	}
	for seg, n := range a {
		if b[seg] != n {
			return false
		}
	}
	return true
}

func gcdInt(a, b int) int {
	if a == 0 {
		return b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
