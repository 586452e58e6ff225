// Package airquality assembles the benchmark dataset: it loads a variant
// from the store, derives the observation/evaluation/training masks, the
// station distance matrix and the month-aware splits that downstream
// imputation and super-resolution experiments consume.
package airquality

import (
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/gridsense-data/aqbench/internal/frame"
	"github.com/gridsense-data/aqbench/internal/geo"
	"github.com/gridsense-data/aqbench/internal/impute"
	"github.com/gridsense-data/aqbench/internal/mask"
	"github.com/gridsense-data/aqbench/internal/similarity"
	"github.com/gridsense-data/aqbench/internal/split"
	"github.com/gridsense-data/aqbench/internal/store"
	"github.com/gridsense-data/aqbench/internal/temporal"
)

// Seed is the fixed pseudo-random seed for any randomized collaborator of
// this dataset. The core mask and split construction is deterministic and
// never draws from it.
const Seed = 3210

// Loader supplies the raw readings, station metadata and, when available,
// a pre-packaged evaluation mask. *store.Store satisfies it.
type Loader interface {
	LoadRaw(small bool) (*frame.Frame, []store.Station, *mask.Mask, error)
}

// Options configures dataset assembly.
type Options struct {
	// Small selects the reduced 36-station variant.
	Small bool
	// ImputeNaNs replaces missing readings with weekday-by-hour mean fill
	// values after the masks are computed.
	ImputeNaNs bool
	// MaskedSensors simulates fully held-out sensors: every observed value
	// of these columns becomes an evaluation target.
	MaskedSensors []int
	// InferFrom selects the evaluation-mask inference policy used when the
	// variant ships no precomputed mask. Empty means "next".
	InferFrom mask.InferFrom
	// Anchors overrides the anchor-sensor policy. Nil keeps the benchmark
	// default of every 5th column.
	Anchors mask.AnchorPolicy
	// TestMonths overrides the held-out calendar months used by the
	// splitter and TestIntervalMask. Empty keeps the quarterly default.
	TestMonths []int
	// Freq, when positive, is the expected grid frequency of the time
	// index; loading fails if any index step is off that grid.
	Freq time.Duration
}

// Dataset is one assembled benchmark variant. Masks and the distance matrix
// are fixed at construction; accessors return the same instances, which
// callers must treat as read-only.
type Dataset struct {
	frame      *frame.Frame
	stations   []store.Station
	masks      *mask.Builder
	dist       *mat.Dense
	testMonths []int
}

// New loads the variant through l and assembles the dataset. Masks are
// computed from the raw frame before any imputation touches it.
func New(l Loader, opts Options) (*Dataset, error) {
	f, stations, pre, err := l.LoadRaw(opts.Small)
	if err != nil {
		return nil, fmt.Errorf("failed to load raw data: %w", err)
	}
	if opts.Freq > 0 {
		if err := f.CheckFreq(opts.Freq); err != nil {
			return nil, fmt.Errorf("failed to validate index frequency: %w", err)
		}
	}

	masks, err := mask.Build(f, mask.Options{
		Precomputed:   pre,
		InferFrom:     opts.InferFrom,
		Anchors:       opts.Anchors,
		MaskedSensors: opts.MaskedSensors,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build masks: %w", err)
	}

	if opts.ImputeNaNs {
		if err := f.Fill(impute.ComputeMean(f)); err != nil {
			return nil, fmt.Errorf("failed to impute missing values: %w", err)
		}
	}

	coords := make([]geo.Coord, len(stations))
	for i, st := range stations {
		coords[i] = geo.Coord{Latitude: st.Latitude, Longitude: st.Longitude}
	}

	testMonths := opts.TestMonths
	if len(testMonths) == 0 {
		testMonths = split.DefaultTestMonths
	}

	return &Dataset{
		frame:      f,
		stations:   stations,
		masks:      masks,
		dist:       geo.Distance(coords, true),
		testMonths: testMonths,
	}, nil
}

// Frame returns the observation frame (imputed if requested at construction).
func (d *Dataset) Frame() *frame.Frame { return d.frame }

// Stations returns the station metadata in column order.
func (d *Dataset) Stations() []store.Station { return d.stations }

// Mask returns the observation mask.
func (d *Dataset) Mask() *mask.Mask { return d.masks.Observation() }

// EvalMask returns the evaluation mask.
func (d *Dataset) EvalMask() *mask.Mask { return d.masks.Evaluation() }

// TrainingMask returns ObservationMask & ^EvaluationMask, recomputed on
// every call.
func (d *Dataset) TrainingMask() *mask.Mask { return d.masks.Training() }

// Dist returns the pairwise great-circle distance matrix in kilometres.
func (d *Dataset) Dist() *mat.Dense { return d.dist }

// TestMonths returns the held-out calendar months.
func (d *Dataset) TestMonths() []int { return d.testMonths }

// GetSimilarity converts the distance matrix into an adjacency structure.
func (d *Dataset) GetSimilarity(opts similarity.Options) *similarity.Adjacency {
	return similarity.Build(d.dist, opts)
}

// SampleIndex enumerates windowed samples over the frame's time index.
func (d *Dataset) SampleIndex(window, horizon int) (*temporal.SampleIndex, error) {
	return temporal.NewSampleIndex(d.frame.Index, window, horizon)
}

// Splitter partitions idx's samples into train/validation/test by
// calendar-month membership of their target windows.
func (d *Dataset) Splitter(idx *temporal.SampleIndex, opts split.Options) (*split.Partition, error) {
	return split.MonthAware(idx, d.testMonths, opts)
}

// TestIntervalMask flags the timestamps whose month is a test month.
func (d *Dataset) TestIntervalMask() []bool {
	in := make(map[int]bool, len(d.testMonths))
	for _, m := range d.testMonths {
		in[m] = true
	}
	out := make([]bool, d.frame.Rows())
	for i := range out {
		out[i] = in[d.frame.Month(i)]
	}
	return out
}
