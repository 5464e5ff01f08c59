package iterator

import (
	"fmt"
	"math"

	"github.com/caio/go-tdigest/v4"
)

// FanoutSummary describes how many live edges hang off each start vertex
// row of a neighbor expansion.
type FanoutSummary struct {
	Rows  uint64
	Edges uint64
	Min   float64
	Max   float64
	Mean  float64
	P50   float64
	P90   float64
	P99   float64
}

// fanoutAccumulator holds the running state of a FanoutSummary.
type fanoutAccumulator struct {
	count uint64
	sum   float64
	min   float64
	max   float64
	td    *tdigest.TDigest
}

func newFanoutAccumulator() (*fanoutAccumulator, error) {
	td, err := tdigest.New()
	if err != nil {
		return nil, fmt.Errorf("tdigest.New failed: %w", err)
	}
	return &fanoutAccumulator{min: math.Inf(1), max: math.Inf(-1), td: td}, nil
}

func (a *fanoutAccumulator) add(n float64) error {
	a.count++
	a.sum += n
	a.min = math.Min(a.min, n)
	a.max = math.Max(a.max, n)
	if err := a.td.AddWeighted(n, 1); err != nil {
		return fmt.Errorf("tdigest AddWeighted failed: %w", err)
	}
	return nil
}

func (a *fanoutAccumulator) summary() FanoutSummary {
	if a.count == 0 {
		return FanoutSummary{}
	}
	return FanoutSummary{
		Rows:  a.count,
		Edges: uint64(a.sum),
		Min:   a.min,
		Max:   a.max,
		Mean:  a.sum / float64(a.count),
		P50:   a.td.Quantile(0.5),
		P90:   a.td.Quantile(0.9),
		P99:   a.td.Quantile(0.99),
	}
}

// Fanout summarizes the live edges per start vertex row. Rows whose edges
// are all erased or empty count as zero. The cursor is rewound afterwards.
func (it *GetNeighborsIter) Fanout() (FanoutSummary, error) {
	acc, err := newFanoutAccumulator()
	if err != nil {
		return FanoutSummary{}, err
	}
	defer it.Reset(0)

	type rowKey struct{ ds, row int }
	counts := make(map[rowKey]int)
	if !it.noEdge {
		for it.Reset(0); it.positioned(); it.step() {
			counts[rowKey{it.cur.ds, it.cur.row}]++
		}
	}
	for d := range it.dsIndices {
		for r := range it.dsIndices[d].ds.Rows {
			if err := acc.add(float64(counts[rowKey{d, r}])); err != nil {
				return FanoutSummary{}, err
			}
		}
	}
	return acc.summary(), nil
}
