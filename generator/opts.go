package generator

// Opts carries every tunable of a generation run (spec §6).
type Opts struct {
	// NumSearch is the target number of valid walks to collect before the
	// driver stops. Duplicates count toward it; the number of unique
	// components can be smaller.
	NumSearch int
	// NumProcesses is the number of parallel worker goroutines.
	NumProcesses int

	ForceCircular    bool
	HeteroChromosome bool

	// DifferF is the read-count exponent in subpath/seed weighting.
	DifferF float64
	// DecayF is the per-overlap-contig multiplicative bonus.
	DecayF float64
	// DecayT is the cumulative-read-count cutoff for subpath candidate
	// collection.
	DecayT float64
	// CovInert is the coverage-inertia exponent.
	CovInert float64

	// UseAlignmentCov selects whether contig_coverages comes from the
	// graph's own coverage field (false) or is estimated from read-path
	// depth (true, via Generator.contigCoverages).
	UseAlignmentCov bool
}

// DefaultOpts mirrors spec §6's configuration table.
var DefaultOpts = Opts{
	NumSearch:        1000,
	NumProcesses:     1,
	ForceCircular:    true,
	HeteroChromosome: true,
	DifferF:          1,
	DecayF:           20,
	DecayT:           1000,
	CovInert:         1,
	UseAlignmentCov:  false,
}
