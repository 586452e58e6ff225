// Package similarity derives a sensor-to-sensor adjacency structure from a
// geographic distance matrix via a thresholded Gaussian kernel.
package similarity

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// ReferenceBlock is the side of the distance sub-block whose standard
// deviation sets the kernel bandwidth. 36 is the smallest supported network
// size, so the bandwidth stays comparable across dataset variants with
// different station counts.
const ReferenceBlock = 36

// Options configures adjacency construction.
type Options struct {
	// Thr zeroes kernel weights below this value. Zero means the default 0.1.
	Thr float64
	// IncludeSelf keeps the diagonal; otherwise it is zeroed.
	IncludeSelf bool
	// ForceSymmetric replaces the result with max(adj, adjᵀ) elementwise.
	ForceSymmetric bool
	// Sparse requests a coordinate-list representation in the result.
	Sparse bool
}

// DefaultThr is the default similarity threshold.
const DefaultThr = 0.1

// Entry is one non-zero adjacency cell in coordinate-list form.
type Entry struct {
	Row, Col int
	Weight   float64
}

// Adjacency is the tagged result of Build: always carries the dense matrix,
// and additionally the COO triples when sparse output was requested.
type Adjacency struct {
	N      int
	Sparse bool
	dense  *mat.Dense
	coo    []Entry
}

// Dense returns the dense n×n adjacency matrix.
func (a *Adjacency) Dense() *mat.Dense { return a.dense }

// COO returns the non-zero entries in row-major order. Only populated when
// the adjacency was built with Options.Sparse.
func (a *Adjacency) COO() []Entry { return a.coo }

// Build converts the distance matrix into an adjacency structure. It is a
// pure function of its inputs with no error paths: the kernel bandwidth
// theta is the population standard deviation of the leading
// ReferenceBlock×ReferenceBlock sub-block (clamped to the matrix size), and
// adj[i,j] = exp(-(d[i,j]/theta)²) wherever that weight reaches the
// threshold. A degenerate theta of zero yields weight 1 at zero distance
// and 0 elsewhere.
func Build(d *mat.Dense, opts Options) *Adjacency {
	n, _ := d.Dims()
	thr := opts.Thr
	if thr == 0 {
		thr = DefaultThr
	}

	theta := blockStdDev(d, min(ReferenceBlock, n))

	adj := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			w := kernel(d.At(i, j), theta)
			if w >= thr {
				adj.Set(i, j, w)
			}
		}
	}

	if !opts.IncludeSelf {
		for i := 0; i < n; i++ {
			adj.Set(i, i, 0)
		}
	}
	if opts.ForceSymmetric {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				m := math.Max(adj.At(i, j), adj.At(j, i))
				adj.Set(i, j, m)
				adj.Set(j, i, m)
			}
		}
	}

	out := &Adjacency{N: n, Sparse: opts.Sparse, dense: adj}
	if opts.Sparse {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if w := adj.At(i, j); w != 0 {
					out.coo = append(out.coo, Entry{Row: i, Col: j, Weight: w})
				}
			}
		}
	}
	return out
}

func kernel(d, theta float64) float64 {
	if theta == 0 {
		if d == 0 {
			return 1
		}
		return 0
	}
	x := d / theta
	return math.Exp(-x * x)
}

// blockStdDev is the population standard deviation of the leading r×r block.
func blockStdDev(d *mat.Dense, r int) float64 {
	if r == 0 {
		return 0
	}
	vals := make([]float64, 0, r*r)
	for i := 0; i < r; i++ {
		for j := 0; j < r; j++ {
			vals = append(vals, d.At(i, j))
		}
	}
	return stat.PopStdDev(vals, nil)
}
