// Package export writes prepared benchmark artifacts (masks, splits,
// adjacency) to disk in plain CSV and JSON.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/gridsense-data/aqbench/internal/fsutil"
	"github.com/gridsense-data/aqbench/internal/mask"
	"github.com/gridsense-data/aqbench/internal/similarity"
	"github.com/gridsense-data/aqbench/internal/split"
)

// Writer writes artifacts under Dir through the FS abstraction.
type Writer struct {
	FS  fsutil.FileSystem
	Dir string
}

// NewWriter ensures the output directory exists.
func NewWriter(fs fsutil.FileSystem, dir string) (*Writer, error) {
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{FS: fs, Dir: dir}, nil
}

// MaskCSV writes a mask as CSV with the sensor codes as header row.
func (w *Writer) MaskCSV(name string, sensors []string, m *mask.Mask) error {
	rows, cols := m.Dims()
	if len(sensors) != cols {
		return fmt.Errorf("mask has %d columns, got %d sensor codes: %w",
			cols, len(sensors), mask.ErrShapeMismatch)
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.Write(sensors); err != nil {
		return err
	}
	rec := make([]string, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rec[j] = strconv.Itoa(int(m.At(i, j)))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return w.write(name, buf.Bytes())
}

// SplitsJSON writes the index partition as JSON.
func (w *Writer) SplitsJSON(name string, p *split.Partition) error {
	data, err := json.MarshalIndent(struct {
		Train []int `json:"train"`
		Val   []int `json:"val"`
		Test  []int `json:"test"`
	}{p.Train, p.Val, p.Test}, "", "  ")
	if err != nil {
		return err
	}
	return w.write(name, append(data, '\n'))
}

// AdjacencyCSV writes the adjacency in the representation it was built with:
// COO triples (row,col,weight) when sparse, a dense matrix otherwise.
func (w *Writer) AdjacencyCSV(name string, adj *similarity.Adjacency) error {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	if adj.Sparse {
		if err := cw.Write([]string{"row", "col", "weight"}); err != nil {
			return err
		}
		for _, e := range adj.COO() {
			rec := []string{
				strconv.Itoa(e.Row),
				strconv.Itoa(e.Col),
				strconv.FormatFloat(e.Weight, 'g', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	} else {
		d := adj.Dense()
		rec := make([]string, adj.N)
		for i := 0; i < adj.N; i++ {
			for j := 0; j < adj.N; j++ {
				rec[j] = strconv.FormatFloat(d.At(i, j), 'g', -1, 64)
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return w.write(name, buf.Bytes())
}

func (w *Writer) write(name string, data []byte) error {
	path := filepath.Join(w.Dir, name)
	if err := w.FS.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
