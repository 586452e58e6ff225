// Package frame holds the time-indexed observation table that the mask and
// split machinery operates on. Rows are timestamps at a fixed frequency,
// columns are sensors, and missing readings are stored as NaN.
package frame

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrIndexNotIncreasing reports a time index that is not strictly increasing.
	ErrIndexNotIncreasing = errors.New("time index must be strictly increasing")
	// ErrShapeMismatch reports a data matrix whose shape disagrees with the index.
	ErrShapeMismatch = errors.New("data shape does not match index and sensor count")
	// ErrFreqMismatch reports an index step that is not on the declared frequency grid.
	ErrFreqMismatch = errors.New("time index step off the frequency grid")
)

// Frame is a time-indexed observation table. Data is rows×cols with
// rows == len(Index) and cols == len(Sensors); NaN marks a missing reading.
type Frame struct {
	Index   []time.Time
	Sensors []string
	Data    *mat.Dense
}

// New validates the index and shape and returns a Frame.
func New(index []time.Time, sensors []string, data *mat.Dense) (*Frame, error) {
	for i := 1; i < len(index); i++ {
		if !index[i].After(index[i-1]) {
			return nil, fmt.Errorf("index[%d] (%s) not after index[%d] (%s): %w",
				i, index[i], i-1, index[i-1], ErrIndexNotIncreasing)
		}
	}
	r, c := data.Dims()
	if r != len(index) || c != len(sensors) {
		return nil, fmt.Errorf("data is %dx%d, index has %d rows and %d sensors: %w",
			r, c, len(index), len(sensors), ErrShapeMismatch)
	}
	return &Frame{Index: index, Sensors: sensors, Data: data}, nil
}

// Rows returns the number of timestamps.
func (f *Frame) Rows() int { return len(f.Index) }

// Cols returns the number of sensors.
func (f *Frame) Cols() int { return len(f.Sensors) }

// At returns the value at (row, col). NaN means missing.
func (f *Frame) At(i, j int) float64 { return f.Data.At(i, j) }

// Observed reports whether the cell holds a real reading.
func (f *Frame) Observed(i, j int) bool { return !math.IsNaN(f.Data.At(i, j)) }

// Month returns the calendar month (1-12) of row i.
func (f *Frame) Month(i int) int { return int(f.Index[i].Month()) }

// Fill replaces every NaN cell with the corresponding cell of values.
// values must have the same shape as the frame.
func (f *Frame) Fill(values *mat.Dense) error {
	r, c := values.Dims()
	if r != f.Rows() || c != f.Cols() {
		return fmt.Errorf("fill values are %dx%d, frame is %dx%d: %w",
			r, c, f.Rows(), f.Cols(), ErrShapeMismatch)
	}
	for i := 0; i < f.Rows(); i++ {
		for j := 0; j < f.Cols(); j++ {
			if math.IsNaN(f.Data.At(i, j)) {
				f.Data.Set(i, j, values.At(i, j))
			}
		}
	}
	return nil
}

// CheckFreq verifies that every index step is a whole multiple of freq, so
// the frame sits on a fixed-frequency grid with (possibly) whole missing
// steps. freq must be positive.
func (f *Frame) CheckFreq(freq time.Duration) error {
	if freq <= 0 {
		return fmt.Errorf("freq %s must be positive: %w", freq, ErrFreqMismatch)
	}
	for i := 1; i < len(f.Index); i++ {
		step := f.Index[i].Sub(f.Index[i-1])
		if step%freq != 0 {
			return fmt.Errorf("step of %s between index[%d] and index[%d] is not a multiple of %s: %w",
				step, i-1, i, freq, ErrFreqMismatch)
		}
	}
	return nil
}

// MonthKey identifies a calendar month within a specific year.
type MonthKey struct {
	Year  int
	Month time.Month
}

// Months returns the distinct (year, month) pairs present in the index,
// in chronological order.
func (f *Frame) Months() []MonthKey {
	var keys []MonthKey
	for _, ts := range f.Index {
		k := MonthKey{Year: ts.Year(), Month: ts.Month()}
		if len(keys) == 0 || keys[len(keys)-1] != k {
			keys = append(keys, k)
		}
	}
	return keys
}

// MonthRows returns the row positions whose timestamp falls in the given
// (year, month).
func (f *Frame) MonthRows(k MonthKey) []int {
	var rows []int
	for i, ts := range f.Index {
		if ts.Year() == k.Year && ts.Month() == k.Month {
			rows = append(rows, i)
		}
	}
	return rows
}
