package feature

import (
	"fmt"
	"sort"
)

// AlignedVector has exactly one entry per schema column, in schema order.
type AlignedVector []float64

// ScaledVector is an AlignedVector after the frozen scaling transform.
type ScaledVector []float64

// AlignmentReport describes what Align corrected.
type AlignmentReport struct {
	// Dropped lists encoded columns absent from the schema, sorted.
	Dropped []string
	// Filled counts schema columns the record did not provide.
	Filled int
}

// Clean reports whether no encoded column was dropped.
func (r AlignmentReport) Clean() bool { return len(r.Dropped) == 0 }

// Aligner projects encoded records onto a ColumnSchema.
type Aligner struct {
	strict bool
}

// AlignerOption configures an Aligner.
type AlignerOption func(*Aligner)

// WithStrict makes Align fail with ErrUnknownColumns instead of dropping
// columns the schema does not know.
func WithStrict(strict bool) AlignerOption {
	return func(a *Aligner) { a.strict = strict }
}

func NewAligner(opts ...AlignerOption) *Aligner {
	a := &Aligner{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Strict reports whether unknown columns are rejected.
func (a *Aligner) Strict() bool { return a.strict }

// Align copies each schema column from rec, zero-filling the ones rec lacks
// and discarding the ones the schema lacks. An empty rec yields an all-zero
// vector of full width.
func (a *Aligner) Align(rec EncodedRecord, schema ColumnSchema) (AlignedVector, AlignmentReport, error) {
	if schema.Len() == 0 {
		return nil, AlignmentReport{}, ErrEmptySchema
	}

	vec := make(AlignedVector, schema.Len())
	var report AlignmentReport
	matched := 0
	for i, name := range schema.names {
		if v, ok := rec[name]; ok {
			vec[i] = v
			matched++
		} else {
			report.Filled++
		}
	}

	if matched < len(rec) {
		for name := range rec {
			if _, ok := schema.index[name]; !ok {
				report.Dropped = append(report.Dropped, name)
			}
		}
		sort.Strings(report.Dropped)
	}

	if a.strict && !report.Clean() {
		return nil, report, fmt.Errorf("%w: %v", ErrUnknownColumns, report.Dropped)
	}
	return vec, report, nil
}
