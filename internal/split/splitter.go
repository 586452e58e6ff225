// Package split partitions sample indices into train, validation and test
// sets aligned to calendar months, with a leakage-removal pass that drops
// training samples whose windows overlap validation windows.
package split

import (
	"errors"
	"fmt"
	"sort"

	"github.com/gridsense-data/aqbench/internal/temporal"
)

// DefaultTestMonths are the quarterly held-out months of the air-quality
// benchmark.
var DefaultTestMonths = []int{3, 6, 9, 12}

// ErrBadValLen reports a non-positive validation length.
var ErrBadValLen = errors.New("val length must be positive")

// Partition holds the three sample-index sets. In out-of-sample mode they
// are pairwise disjoint after leakage removal; in in-sample mode Train spans
// the whole index by design.
type Partition struct {
	Train []int
	Val   []int
	Test  []int
}

// Options configures MonthAware.
type Options struct {
	// ValLen is the validation size: a fraction of the non-test sample
	// count when < 1.0, an absolute count otherwise. It is divided evenly
	// across the test-month blocks.
	ValLen float64

	// InSample keeps every sample in Train (to measure in-sample fit) and
	// takes validation from the months immediately preceding each test
	// month.
	InSample bool

	// Window shifts each validation window further left, keeping a
	// forecasting horizon between validation and the test block it guards.
	Window int
}

// MonthAware splits the samples of idx by calendar-month membership of their
// target windows. Test samples are those whose horizon falls in a test
// month.
func MonthAware(idx *temporal.SampleIndex, testMonths []int, opts Options) (*Partition, error) {
	if opts.ValLen <= 0 {
		return nil, fmt.Errorf("val_len=%v: %w", opts.ValLen, ErrBadValLen)
	}
	if len(testMonths) == 0 {
		testMonths = DefaultTestMonths
	}

	nontest, test := idx.DisjointMonths(testMonths, temporal.Horizon)

	if opts.InSample {
		train := make([]int, idx.Len())
		for i := range train {
			train[i] = i
		}
		valMonths := make([]int, len(testMonths))
		for i, m := range testMonths {
			p := m - 1
			if p == 0 {
				p = 12
			}
			valMonths[i] = p
		}
		_, val := idx.DisjointMonths(valMonths, temporal.Horizon)
		return &Partition{Train: train, Val: val, Test: test}, nil
	}

	valLen := int(opts.ValLen)
	if opts.ValLen < 1.0 {
		valLen = int(opts.ValLen * float64(len(nontest)))
	}
	perBlock := valLen / len(testMonths)

	boundaries := monthChangeBoundaries(idx, test)
	if len(boundaries) < len(testMonths) && len(test) > 0 {
		// The series starts inside a test block: its first sample is an
		// implicit boundary.
		boundaries = append([]int{test[0]}, boundaries...)
	}

	n := idx.Len()
	valSet := make(map[int]bool)
	for _, b := range boundaries {
		for t := b - perBlock; t < b; t++ {
			v := ((t-opts.Window)%n + n) % n
			valSet[v] = true
		}
	}
	val := make([]int, 0, len(valSet))
	for v := range valSet {
		val = append(val, v)
	}
	sort.Ints(val)

	_, leaks := idx.OverlappingIndices(nontest, val, temporal.Horizon)
	var train []int
	for k, i := range nontest {
		if !leaks[k] {
			train = append(train, i)
		}
	}

	return &Partition{Train: train, Val: val, Test: test}, nil
}

// monthChangeBoundaries finds the first sample of every test block after the
// first, by explicit month-change points of the target timestamps. This is
// the primary boundary detector; BoundariesByGap is the fallback when no
// time index is available.
func monthChangeBoundaries(idx *temporal.SampleIndex, test []int) []int {
	var bounds []int
	for k := 1; k < len(test); k++ {
		prev := idx.TimeOf(test[k-1], temporal.Horizon)
		cur := idx.TimeOf(test[k], temporal.Horizon)
		if cur.Month() != prev.Month() || cur.Year() != prev.Year() {
			bounds = append(bounds, test[k])
		}
	}
	return bounds
}

// BoundariesByGap detects block boundaries from the index gaps alone: a test
// sample whose distance to its predecessor exceeds the minimum gap starts a
// new block. This conflates "largest index gap" with "month boundary" and
// holds only when test months are evenly spaced; prefer month-change
// detection whenever timestamps are available.
func BoundariesByGap(test []int) []int {
	if len(test) < 2 {
		return nil
	}
	minGap := test[1] - test[0]
	for k := 2; k < len(test); k++ {
		if g := test[k] - test[k-1]; g < minGap {
			minGap = g
		}
	}
	var bounds []int
	for k := 1; k < len(test); k++ {
		if test[k]-test[k-1] > minGap {
			bounds = append(bounds, test[k])
		}
	}
	return bounds
}
