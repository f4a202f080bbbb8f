package generator

import (
	"encoding/json"
	"io"
	"os"
	"sort"

	"github.com/golang/snappy"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/isomergen/graph"
)

// ErrMalformedComponentRecord: a dumped component record's path entries
// could not be parsed back into oriented segments.
var ErrMalformedComponentRecord = errors.New("generator: malformed component record")

// componentRecord is the on-disk shape of one emitted component: enough to
// reconstruct both the path and how many walks produced it without
// re-running the search.
type componentRecord struct {
	Path  []string `json:"path"`
	Count int      `json:"count"`
}

// DumpComponents writes res.Components and their counts to path as
// snappy-compressed, newline-delimited JSON, one record per component.
func DumpComponents(res *Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := snappy.NewBufferedWriter(f)
	enc := json.NewEncoder(w)
	for _, p := range res.Components {
		rec := componentRecord{Path: pathStrings(p), Count: res.ComponentsCounts[p.Key()]}
		if err := enc.Encode(rec); err != nil {
			w.Close()
			f.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadComponents reads back a file written by DumpComponents.
func LoadComponents(path string) ([]graph.Path, map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	r := snappy.NewReader(f)
	dec := json.NewDecoder(r)

	var components []graph.Path
	counts := make(map[string]int)
	for {
		var rec componentRecord
		err := dec.Decode(&rec)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}
		p, err := parsePath(rec.Path)
		if err != nil {
			return nil, nil, err
		}
		components = append(components, p)
		counts[p.Key()] = rec.Count
	}
	return components, counts, nil
}

// DumpAlignmentLengths writes res.AlignmentLengths to path, sorted
// ascending, as snappy-compressed JSON (spec.md §6's
// "align_len_at_path_sorted" dump).
func DumpAlignmentLengths(res *Result, path string) error {
	sorted := make([]int, len(res.AlignmentLengths))
	copy(sorted, res.AlignmentLengths)
	sort.Ints(sorted)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := snappy.NewBufferedWriter(f)
	if err := json.NewEncoder(w).Encode(sorted); err != nil {
		w.Close()
		f.Close()
		return err
	}
	if err := w.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadAlignmentLengths reads back a file written by DumpAlignmentLengths.
func LoadAlignmentLengths(path string) ([]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lengths []int
	if err := json.NewDecoder(snappy.NewReader(f)).Decode(&lengths); err != nil {
		return nil, err
	}
	return lengths, nil
}

func pathStrings(p graph.Path) []string {
	out := make([]string, len(p))
	for i, o := range p {
		out[i] = o.String()
	}
	return out
}

func parsePath(raw []string) (graph.Path, error) {
	out := make(graph.Path, len(raw))
	for i, s := range raw {
		o, err := parseOrientedSegment(s)
		if err != nil {
			return nil, err
		}
		out[i] = o
	}
	return out, nil
}

func parseOrientedSegment(s string) (graph.OrientedSegment, error) {
	if len(s) < 2 {
		return graph.OrientedSegment{}, errors.E(ErrMalformedComponentRecord, s)
	}
	strand := graph.Forward
	if s[0] == '-' {
		strand = graph.Reverse
	}
	return graph.OrientedSegment{Segment: graph.SegmentID(s[1:]), Strand: strand}, nil
}
