// Package geo computes great-circle distances between sensor stations.
package geo

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// EarthRadiusKm is the mean Earth radius in kilometres.
const EarthRadiusKm = 6371.0088

// Coord is a station position. Units are degrees unless already converted.
type Coord struct {
	Latitude  float64
	Longitude float64
}

// Distance returns the symmetric pairwise great-circle distance matrix in
// kilometres, using the haversine formula. When toRad is true the input
// coordinates are treated as degrees and converted first.
func Distance(coords []Coord, toRad bool) *mat.Dense {
	n := len(coords)
	pts := make([]Coord, n)
	for i, c := range coords {
		if toRad {
			c.Latitude *= math.Pi / 180
			c.Longitude *= math.Pi / 180
		}
		pts[i] = c
	}

	d := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			km := haversine(pts[i], pts[j])
			d.Set(i, j, km)
			d.Set(j, i, km)
		}
	}
	return d
}

// haversine expects radian coordinates.
func haversine(a, b Coord) float64 {
	dLat := b.Latitude - a.Latitude
	dLon := b.Longitude - a.Longitude
	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	h := sinLat*sinLat + math.Cos(a.Latitude)*math.Cos(b.Latitude)*sinLon*sinLon
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}
