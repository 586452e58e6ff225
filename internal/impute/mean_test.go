package impute

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/gridsense-data/aqbench/internal/frame"
)

func TestComputeMeanWeekdayHour(t *testing.T) {
	// Three consecutive Mondays at midnight (2021-01-04 is a Monday); the
	// third is missing and should be filled with the mean of the first two.
	index := []time.Time{
		time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 1, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2021, 1, 18, 0, 0, 0, 0, time.UTC),
	}
	data := mat.NewDense(3, 1, []float64{10, 20, math.NaN()})
	f, err := frame.New(index, []string{"a"}, data)
	if err != nil {
		t.Fatal(err)
	}

	fill := ComputeMean(f)
	if got := fill.At(2, 0); got != 15 {
		t.Errorf("weekday-hour mean = %v, want 15", got)
	}
}

func TestComputeMeanHourFallback(t *testing.T) {
	// The missing cell is a Tuesday 05:00 with no other Tuesday 05:00 in the
	// frame; the only 05:00 reading is on a Wednesday, so the hour-of-day
	// mean applies.
	index := []time.Time{
		time.Date(2021, 1, 6, 5, 0, 0, 0, time.UTC),  // Wednesday 05:00
		time.Date(2021, 1, 12, 5, 0, 0, 0, time.UTC), // Tuesday 05:00
	}
	data := mat.NewDense(2, 1, []float64{6, math.NaN()})
	f, err := frame.New(index, []string{"a"}, data)
	if err != nil {
		t.Fatal(err)
	}

	fill := ComputeMean(f)
	if got := fill.At(1, 0); got != 6 {
		t.Errorf("hour-of-day fallback = %v, want 6", got)
	}
}

func TestComputeMeanOverallFallback(t *testing.T) {
	index := []time.Time{
		time.Date(2021, 1, 6, 5, 0, 0, 0, time.UTC),
		time.Date(2021, 1, 7, 9, 0, 0, 0, time.UTC),
		time.Date(2021, 1, 8, 13, 0, 0, 0, time.UTC),
	}
	data := mat.NewDense(3, 2, []float64{
		2, math.NaN(),
		4, math.NaN(),
		math.NaN(), math.NaN(),
	})
	f, err := frame.New(index, []string{"a", "b"}, data)
	if err != nil {
		t.Fatal(err)
	}

	fill := ComputeMean(f)
	// Sensor a at 13:00 has no 13:00 readings at all: overall mean of {2,4}.
	if got := fill.At(2, 0); got != 3 {
		t.Errorf("overall fallback = %v, want 3", got)
	}
	// Sensor b never reports: fill value defaults to zero.
	for i := 0; i < 3; i++ {
		if got := fill.At(i, 1); got != 0 {
			t.Errorf("empty sensor fill[%d] = %v, want 0", i, got)
		}
	}
}
