// Package testutil provides shared test utilities and fixtures.
//
// This package centralises synthetic frame construction and small assert
// helpers used across the mask, split and dataset tests.
package testutil

import (
	"math"
	"testing"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/gridsense-data/aqbench/internal/frame"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// HourlyIndex returns n hourly timestamps starting at start.
func HourlyIndex(start time.Time, n int) []time.Time {
	idx := make([]time.Time, n)
	for i := range idx {
		idx[i] = start.Add(time.Duration(i) * time.Hour)
	}
	return idx
}

// SensorCodes returns synthetic sensor identifiers s000, s001, ...
func SensorCodes(n int) []string {
	codes := make([]string, n)
	for i := range codes {
		codes[i] = "s" + string(rune('0'+i/100%10)) + string(rune('0'+i/10%10)) + string(rune('0'+i%10))
	}
	return codes
}

// AllObservedFrame builds a rows×cols hourly frame with no missing values.
// Cell (i, j) holds i*cols+j so tests can recognise positions.
func AllObservedFrame(t *testing.T, start time.Time, rows, cols int) *frame.Frame {
	t.Helper()
	data := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			data.Set(i, j, float64(i*cols+j))
		}
	}
	f, err := frame.New(HourlyIndex(start, rows), SensorCodes(cols), data)
	AssertNoError(t, err)
	return f
}

// WithMissing marks the given (row, col) cells of f as missing.
func WithMissing(f *frame.Frame, cells ...[2]int) *frame.Frame {
	for _, c := range cells {
		f.Data.Set(c[0], c[1], math.NaN())
	}
	return f
}
