package mask

import (
	"errors"
	"fmt"
	"time"

	"github.com/gridsense-data/aqbench/internal/frame"
)

// InferFrom selects which adjacent calendar month donates its missing
// pattern when no precomputed evaluation mask is available.
type InferFrom string

const (
	// InferNext transplants the following month's missing pattern.
	InferNext InferFrom = "next"
	// InferPrevious transplants the preceding month's missing pattern.
	InferPrevious InferFrom = "previous"
)

// ErrUnknownInferPolicy reports an unrecognized InferFrom value.
var ErrUnknownInferPolicy = errors.New("unknown mask inference policy")

type alignKey struct {
	day, hour, minute int
}

func keyOf(ts time.Time) alignKey {
	return alignKey{day: ts.Day(), hour: ts.Hour(), minute: ts.Minute()}
}

// Infer derives an evaluation mask from the frame's own missing pattern: a
// cell becomes an evaluation target when it is observed in its month but the
// day-and-time-aligned cell of the adjacent month is missing. This fakes a
// realistic sensor outage whose ground truth is actually known. Rows with no
// aligned counterpart (months of different lengths) are skipped. The month
// sequence wraps, so the last month borrows from the first under InferNext.
func Infer(f *frame.Frame, from InferFrom) (*Mask, error) {
	var offset int
	switch from {
	case InferNext:
		offset = 1
	case InferPrevious:
		offset = -1
	default:
		return nil, fmt.Errorf("%q: %w", from, ErrUnknownInferPolicy)
	}

	months := f.Months()
	eval := New(f.Rows(), f.Cols())
	if len(months) == 0 {
		return eval, nil
	}

	for i := range months {
		j := ((i+offset)%len(months) + len(months)) % len(months)
		srcRows := f.MonthRows(months[i])
		donorRows := f.MonthRows(months[j])

		donor := make(map[alignKey]int, len(donorRows))
		for _, r := range donorRows {
			donor[keyOf(f.Index[r])] = r
		}

		for _, r := range srcRows {
			d, ok := donor[keyOf(f.Index[r])]
			if !ok {
				continue
			}
			for c := 0; c < f.Cols(); c++ {
				if f.Observed(r, c) && !f.Observed(d, c) {
					eval.Set(r, c, 1)
				}
			}
		}
	}
	return eval, nil
}
