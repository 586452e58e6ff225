package temporal

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func hourly(start time.Time, n int) []time.Time {
	idx := make([]time.Time, n)
	for i := range idx {
		idx[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return idx
}

// monthlyIndex builds perMonth hourly steps at the start of each of the
// first nMonths of 2021.
func monthlyIndex(nMonths, perMonth int) []time.Time {
	var idx []time.Time
	for m := 1; m <= nMonths; m++ {
		start := time.Date(2021, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		idx = append(idx, hourly(start, perMonth)...)
	}
	return idx
}

func TestNewSampleIndexValidation(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name            string
		steps           int
		window, horizon int
		wantErr         error
	}{
		{"valid", 48, 24, 12, nil},
		{"zero window", 48, 0, 12, ErrBadWindow},
		{"zero horizon", 48, 24, 0, ErrBadWindow},
		{"too short", 10, 8, 8, ErrIndexTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSampleIndex(hourly(start, tt.steps), tt.window, tt.horizon)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("NewSampleIndex() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewSampleIndex() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLen(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	idx, err := NewSampleIndex(hourly(start, 100), 24, 24)
	if err != nil {
		t.Fatal(err)
	}
	if got := idx.Len(); got != 53 {
		t.Errorf("Len() = %d, want 53", got)
	}
}

func TestMonthOfSynchModes(t *testing.T) {
	// 10 steps in January followed by 10 in February; window 4, horizon 2.
	index := append(hourly(time.Date(2021, 1, 31, 14, 0, 0, 0, time.UTC), 10),
		hourly(time.Date(2021, 2, 1, 0, 0, 0, 0, time.UTC), 10)...)
	idx, err := NewSampleIndex(index, 4, 2)
	if err != nil {
		t.Fatal(err)
	}

	// Sample 8: input covers steps 8-11, so the horizon starts at step 12
	// (February) while the input starts in January.
	if got := idx.MonthOf(8, Window); got != 1 {
		t.Errorf("MonthOf(8, Window) = %d, want 1", got)
	}
	if got := idx.MonthOf(8, Horizon); got != 2 {
		t.Errorf("MonthOf(8, Horizon) = %d, want 2", got)
	}
}

// Twelve synthetic months with quarterly test months: exactly the four test
// months appear on the test side, the other eight on the non-test side.
func TestDisjointMonths(t *testing.T) {
	idx, err := NewSampleIndex(monthlyIndex(12, 10), 1, 1)
	if err != nil {
		t.Fatal(err)
	}

	testMonths := []int{3, 6, 9, 12}
	nontest, test := idx.DisjointMonths(testMonths, Horizon)

	if len(nontest)+len(test) != idx.Len() {
		t.Fatalf("partition sizes %d+%d != %d samples", len(nontest), len(test), idx.Len())
	}

	seen := func(samples []int) map[int]bool {
		months := make(map[int]bool)
		for _, i := range samples {
			months[idx.MonthOf(i, Horizon)] = true
		}
		return months
	}

	testSeen := seen(test)
	if diff := cmp.Diff(map[int]bool{3: true, 6: true, 9: true, 12: true}, testSeen); diff != "" {
		t.Errorf("test months mismatch (-want +got):\n%s", diff)
	}

	nontestSeen := seen(nontest)
	for _, m := range testMonths {
		if nontestSeen[m] {
			t.Errorf("test month %d leaked into the non-test side", m)
		}
	}
	if len(nontestSeen) != 8 {
		t.Errorf("non-test side covers %d months, want 8", len(nontestSeen))
	}
}

func TestOverlappingIndices(t *testing.T) {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	idx, err := NewSampleIndex(hourly(start, 40), 2, 1) // span of 3 steps
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		a, b []int
		mode SynchMode
		want []int
	}{
		{"disjoint spans", []int{0}, []int{5}, Horizon, nil},
		{"touching spans overlap", []int{3}, []int{5}, Horizon, []int{3}},
		{"window mode ignores horizon", []int{3}, []int{5}, Window, nil},
		{"duplicates tolerated", []int{3, 3, 9}, []int{5, 5}, Horizon, []int{3}},
		{"empty b", []int{1, 2}, nil, Horizon, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, isOverlap := idx.OverlappingIndices(tt.a, tt.b, tt.mode)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("overlap mismatch (-want +got):\n%s", diff)
			}
			if len(isOverlap) != len(tt.a) {
				t.Fatalf("mask length %d, want %d", len(isOverlap), len(tt.a))
			}
			for k, i := range tt.a {
				inWant := false
				for _, w := range tt.want {
					if w == i {
						inWant = true
					}
				}
				if isOverlap[k] != inWant {
					t.Errorf("isOverlap[%d] (sample %d) = %v, want %v", k, i, isOverlap[k], inWant)
				}
			}
		})
	}
}
