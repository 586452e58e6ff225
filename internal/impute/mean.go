// Package impute computes fill values for missing sensor readings.
package impute

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/gridsense-data/aqbench/internal/frame"
)

type bucket struct {
	sum   float64
	count int
}

func (b *bucket) add(v float64) { b.sum += v; b.count++ }

func (b bucket) mean() (float64, bool) {
	if b.count == 0 {
		return 0, false
	}
	return b.sum / float64(b.count), true
}

// ComputeMean returns a matrix of per-cell fill values: the mean of a
// sensor's observed readings sharing the cell's weekday and hour. Cells whose
// weekday-hour group is empty fall back to the hour-of-day mean, then to the
// sensor's overall mean, then to zero.
func ComputeMean(f *frame.Frame) *mat.Dense {
	rows, cols := f.Rows(), f.Cols()

	// weekday(7) x hour(24) per sensor, plus hour-only and overall fallbacks.
	weekHour := make([]bucket, cols*7*24)
	hourOnly := make([]bucket, cols*24)
	overall := make([]bucket, cols)

	for i := 0; i < rows; i++ {
		wd := int(f.Index[i].Weekday())
		h := f.Index[i].Hour()
		for j := 0; j < cols; j++ {
			v := f.At(i, j)
			if math.IsNaN(v) {
				continue
			}
			weekHour[(j*7+wd)*24+h].add(v)
			hourOnly[j*24+h].add(v)
			overall[j].add(v)
		}
	}

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		wd := int(f.Index[i].Weekday())
		h := f.Index[i].Hour()
		for j := 0; j < cols; j++ {
			if m, ok := weekHour[(j*7+wd)*24+h].mean(); ok {
				out.Set(i, j, m)
				continue
			}
			if m, ok := hourOnly[j*24+h].mean(); ok {
				out.Set(i, j, m)
				continue
			}
			if m, ok := overall[j].mean(); ok {
				out.Set(i, j, m)
			}
		}
	}
	return out
}
