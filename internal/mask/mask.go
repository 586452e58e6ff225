// Package mask builds the observation, evaluation and training masks that
// define the benchmark's evaluation protocol. A mask is a binary matrix with
// the same shape as the observation frame: rows are timestamps, columns are
// sensors.
package mask

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch reports masks (or a mask and a frame) of different shapes.
	ErrShapeMismatch = errors.New("mask shape mismatch")
	// ErrSensorOutOfRange reports a sensor index outside the column range.
	ErrSensorOutOfRange = errors.New("sensor index out of range")
)

// Mask is a rows×cols binary matrix. Entries are always 0 or 1.
type Mask struct {
	rows, cols int
	data       []uint8
}

// New returns an all-zero mask of the given shape.
func New(rows, cols int) *Mask {
	return &Mask{rows: rows, cols: cols, data: make([]uint8, rows*cols)}
}

// Dims returns the mask shape.
func (m *Mask) Dims() (rows, cols int) { return m.rows, m.cols }

// At returns the entry at (i, j).
func (m *Mask) At(i, j int) uint8 { return m.data[i*m.cols+j] }

// Set writes a binary entry at (i, j). Any non-zero v is stored as 1.
func (m *Mask) Set(i, j int, v uint8) {
	if v != 0 {
		v = 1
	}
	m.data[i*m.cols+j] = v
}

// SetColumn writes the same binary value into every row of column j.
func (m *Mask) SetColumn(j int, v uint8) {
	for i := 0; i < m.rows; i++ {
		m.Set(i, j, v)
	}
}

// Clone returns a deep copy.
func (m *Mask) Clone() *Mask {
	c := New(m.rows, m.cols)
	copy(c.data, m.data)
	return c
}

// Equal reports whether two masks have identical shape and entries.
func (m *Mask) Equal(o *Mask) bool {
	if m.rows != o.rows || m.cols != o.cols {
		return false
	}
	for i := range m.data {
		if m.data[i] != o.data[i] {
			return false
		}
	}
	return true
}

// Sum returns the number of set entries.
func (m *Mask) Sum() int {
	n := 0
	for _, v := range m.data {
		n += int(v)
	}
	return n
}

// AndNot returns m & ^o, the canonical training-mask combination.
func (m *Mask) AndNot(o *Mask) (*Mask, error) {
	if m.rows != o.rows || m.cols != o.cols {
		return nil, fmt.Errorf("left is %dx%d, right is %dx%d: %w",
			m.rows, m.cols, o.rows, o.cols, ErrShapeMismatch)
	}
	out := New(m.rows, m.cols)
	for i := range m.data {
		out.data[i] = m.data[i] &^ o.data[i]
	}
	return out, nil
}
