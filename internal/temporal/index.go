// Package temporal maps windowed samples onto the raw time axis. A sample i
// covers the input steps [i, i+window) followed by the target (horizon)
// steps [i+window, i+window+horizon). The splitter consumes this package to
// decide month membership and to detect window-level overlap between index
// sets.
package temporal

import (
	"errors"
	"fmt"
	"time"
)

// SynchMode selects which part of a sample's span drives a computation.
type SynchMode int

const (
	// Window uses the sample's input window.
	Window SynchMode = iota
	// Horizon uses the sample's target window. Month membership under
	// Horizon is decided by the first target step; overlap under Horizon
	// considers the full input+target span, so leakage through either side
	// of a sample is caught.
	Horizon
)

var (
	// ErrBadWindow reports non-positive window or horizon lengths.
	ErrBadWindow = errors.New("window and horizon must be positive")
	// ErrIndexTooShort reports a time index shorter than one sample span.
	ErrIndexTooShort = errors.New("time index shorter than window + horizon")
)

// SampleIndex enumerates the windowed samples over a fixed-frequency time
// index.
type SampleIndex struct {
	index   []time.Time
	window  int
	horizon int
}

// NewSampleIndex validates the span lengths against the index.
func NewSampleIndex(index []time.Time, window, horizon int) (*SampleIndex, error) {
	if window <= 0 || horizon <= 0 {
		return nil, fmt.Errorf("window=%d horizon=%d: %w", window, horizon, ErrBadWindow)
	}
	if len(index) < window+horizon {
		return nil, fmt.Errorf("index has %d steps, span needs %d: %w",
			len(index), window+horizon, ErrIndexTooShort)
	}
	return &SampleIndex{index: index, window: window, horizon: horizon}, nil
}

// Len returns the number of samples.
func (s *SampleIndex) Len() int { return len(s.index) - s.window - s.horizon + 1 }

// Steps returns the number of raw time steps.
func (s *SampleIndex) Steps() int { return len(s.index) }

// Span returns a sample's total step count (window + horizon).
func (s *SampleIndex) Span() int { return s.window + s.horizon }

// MonthOf returns the calendar month (1-12) that sample i belongs to under
// the given synchronization mode.
func (s *SampleIndex) MonthOf(i int, mode SynchMode) int {
	step := i
	if mode == Horizon {
		step = i + s.window
	}
	return int(s.index[step].Month())
}

// TimeOf returns the timestamp that decides sample i's month membership.
func (s *SampleIndex) TimeOf(i int, mode SynchMode) time.Time {
	step := i
	if mode == Horizon {
		step = i + s.window
	}
	return s.index[step]
}

// DisjointMonths partitions the sample indices by calendar-month membership:
// samples whose deciding step falls in one of the given months go to member,
// everything else to rest. Both slices are sorted ascending.
func (s *SampleIndex) DisjointMonths(months []int, mode SynchMode) (rest, member []int) {
	in := make(map[int]bool, len(months))
	for _, m := range months {
		in[m] = true
	}
	for i := 0; i < s.Len(); i++ {
		if in[s.MonthOf(i, mode)] {
			member = append(member, i)
		} else {
			rest = append(rest, i)
		}
	}
	return rest, member
}

// OverlappingIndices returns the members of a whose span shares at least one
// raw time step with the span of some member of b, together with a parallel
// boolean mask over a. Under Horizon mode the full input+target span of each
// sample is compared; under Window mode only the input steps count.
// Duplicate indices in either set are tolerated.
func (s *SampleIndex) OverlappingIndices(a, b []int, mode SynchMode) (overlap []int, isOverlap []bool) {
	covered := make([]bool, s.Steps())
	for _, i := range b {
		lo, hi := s.spanOf(i, mode)
		for t := lo; t < hi; t++ {
			covered[t] = true
		}
	}

	isOverlap = make([]bool, len(a))
	seen := make(map[int]bool)
	for k, i := range a {
		lo, hi := s.spanOf(i, mode)
		for t := lo; t < hi; t++ {
			if covered[t] {
				isOverlap[k] = true
				if !seen[i] {
					seen[i] = true
					overlap = append(overlap, i)
				}
				break
			}
		}
	}
	return overlap, isOverlap
}

func (s *SampleIndex) spanOf(i int, mode SynchMode) (lo, hi int) {
	if mode == Window {
		return i, i + s.window
	}
	return i, i + s.window + s.horizon
}
