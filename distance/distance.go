// Package distance provides the distance metrics used by octree
// nearest-neighbor queries.
//
// A metric maps a coordinate delta (dx, dy, dz) to a non-negative scalar.
// Metrics must be pure and monotone in the magnitude of each component;
// monotonicity is what makes the search's cube lower bounds admissible,
// so pruning never discards a subtree that could hold a closer point.
package distance

import (
	"fmt"
	"math"
)

// Func maps a coordinate delta to a non-negative distance. Only relative
// ordering of results matters to the index, so metrics are free to skip
// normalization (see SquaredEuclidean).
type Func func(dx, dy, dz float64) float64

// SquaredEuclidean is the squared L2 distance. It orders points
// identically to Euclidean while skipping the square root, and is the
// default metric.
func SquaredEuclidean(dx, dy, dz float64) float64 {
	return dx*dx + dy*dy + dz*dz
}

// Euclidean is the L2 distance.
func Euclidean(dx, dy, dz float64) float64 {
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Manhattan is the L1 distance.
func Manhattan(dx, dy, dz float64) float64 {
	return math.Abs(dx) + math.Abs(dy) + math.Abs(dz)
}

// Chebyshev is the L∞ distance.
func Chebyshev(dx, dy, dz float64) float64 {
	return math.Max(math.Abs(dx), math.Max(math.Abs(dy), math.Abs(dz)))
}

// Metric identifies a built-in distance function.
type Metric int

const (
	MetricSquaredEuclidean Metric = iota
	MetricEuclidean
	MetricManhattan
	MetricChebyshev
)

func (m Metric) String() string {
	switch m {
	case MetricSquaredEuclidean:
		return "SquaredEuclidean"
	case MetricEuclidean:
		return "Euclidean"
	case MetricManhattan:
		return "Manhattan"
	case MetricChebyshev:
		return "Chebyshev"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Provider returns the distance function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricSquaredEuclidean:
		return SquaredEuclidean, nil
	case MetricEuclidean:
		return Euclidean, nil
	case MetricManhattan:
		return Manhattan, nil
	case MetricChebyshev:
		return Chebyshev, nil
	default:
		return nil, fmt.Errorf("unsupported metric: %v", m)
	}
}
