package mask

import (
	"fmt"

	"github.com/gridsense-data/aqbench/internal/frame"
)

// Builder owns the observation and evaluation masks for one dataset. Both
// are fixed at construction; the training mask is recomputed on every access
// so the TrainingMask == ObservationMask & ^EvaluationMask identity can
// never drift.
type Builder struct {
	obs  *Mask
	eval *Mask
}

// Options configures evaluation-mask construction.
type Options struct {
	// Precomputed is a pre-packaged evaluation mask used verbatim as the
	// baseline (the 36-station benchmark variant ships one). Nil means the
	// baseline is inferred from the frame.
	Precomputed *Mask

	// InferFrom selects the inference policy when Precomputed is nil.
	// Empty defaults to InferNext.
	InferFrom InferFrom

	// Anchors selects the never-withheld sensor columns. Nil defaults to
	// DefaultAnchors (every 5th column).
	Anchors AnchorPolicy

	// MaskedSensors lists columns simulated as fully held-out: every
	// observed value of these sensors becomes an evaluation target.
	MaskedSensors []int
}

// Observation returns the observation mask of f: 1 where a reading exists.
func Observation(f *frame.Frame) *Mask {
	m := New(f.Rows(), f.Cols())
	for i := 0; i < f.Rows(); i++ {
		for j := 0; j < f.Cols(); j++ {
			if f.Observed(i, j) {
				m.Set(i, j, 1)
			}
		}
	}
	return m
}

// Build computes the observation and evaluation masks for f.
//
// The evaluation mask is assembled in three stages: the baseline (supplied
// or inferred), the super-resolution anchor override, and the full-sensor
// masking for MaskedSensors. The override always runs and replaces the
// baseline wholesale: anchors are 0 and every other column is 1 at all
// timestamps.
func Build(f *frame.Frame, opts Options) (*Builder, error) {
	obs := Observation(f)

	var eval *Mask
	if opts.Precomputed != nil {
		pr, pc := opts.Precomputed.Dims()
		if pr != f.Rows() || pc != f.Cols() {
			return nil, fmt.Errorf("precomputed eval mask is %dx%d, frame is %dx%d: %w",
				pr, pc, f.Rows(), f.Cols(), ErrShapeMismatch)
		}
		eval = opts.Precomputed.Clone()
	} else {
		from := opts.InferFrom
		if from == "" {
			from = InferNext
		}
		var err error
		eval, err = Infer(f, from)
		if err != nil {
			return nil, err
		}
	}

	policy := opts.Anchors
	if policy == nil {
		policy = DefaultAnchors
	}
	eval = anchorOverride(f.Rows(), f.Cols(), policy)

	for _, s := range opts.MaskedSensors {
		if s < 0 || s >= f.Cols() {
			return nil, fmt.Errorf("masked sensor %d with %d columns: %w",
				s, f.Cols(), ErrSensorOutOfRange)
		}
		for i := 0; i < f.Rows(); i++ {
			eval.Set(i, s, obs.At(i, s))
		}
	}

	return &Builder{obs: obs, eval: eval}, nil
}

// anchorOverride builds the fixed leave-out pattern across sensors: all-ones
// with the anchor columns zeroed.
func anchorOverride(rows, cols int, policy AnchorPolicy) *Mask {
	m := New(rows, cols)
	for j := 0; j < cols; j++ {
		m.SetColumn(j, 1)
	}
	for _, j := range policy.Anchors(cols) {
		m.SetColumn(j, 0)
	}
	return m
}

// Observation returns the observation mask. Callers must not modify it.
func (b *Builder) Observation() *Mask { return b.obs }

// Evaluation returns the evaluation mask. Callers must not modify it.
func (b *Builder) Evaluation() *Mask { return b.eval }

// Training returns ObservationMask & ^EvaluationMask, recomputed on each call.
func (b *Builder) Training() *Mask {
	t, err := b.obs.AndNot(b.eval)
	if err != nil {
		// Both masks are built from the same frame; a mismatch here is a bug.
		panic(err)
	}
	return t
}
