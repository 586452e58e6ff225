package mask

// AnchorPolicy selects the anchor sensors: columns whose readings are never
// withheld, used as the reference signal for super-resolution. Everything
// that is not an anchor becomes an evaluation target at every timestamp.
type AnchorPolicy interface {
	// Anchors returns the anchor column indices for a network of cols sensors.
	Anchors(cols int) []int
}

// EveryNth anchors every n-th sensor column starting at 0 (columns 0, n, 2n, ...).
type EveryNth struct {
	N int
}

// Anchors implements AnchorPolicy. A stride below 1 selects no anchors.
func (p EveryNth) Anchors(cols int) []int {
	if p.N < 1 {
		return nil
	}
	var idx []int
	for j := 0; j < cols; j += p.N {
		idx = append(idx, j)
	}
	return idx
}

// DefaultAnchors is the fixed domain choice for the air-quality benchmark:
// one anchor in every group of five sensors.
var DefaultAnchors AnchorPolicy = EveryNth{N: 5}
