package octree

import (
	"fmt"
	"math"
)

// Point3D is an immutable 3-component coordinate. Equality is
// component-wise, so Point3D values are usable as map keys.
type Point3D struct {
	X, Y, Z float64
}

// Pt is a shorthand constructor for Point3D.
func Pt(x, y, z float64) Point3D {
	return Point3D{X: x, Y: y, Z: z}
}

// IsValid reports whether all components are finite. Points with NaN or
// infinite components are rejected by all mutating operations.
func (p Point3D) IsValid() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) &&
		!math.IsNaN(p.Y) && !math.IsInf(p.Y, 0) &&
		!math.IsNaN(p.Z) && !math.IsInf(p.Z, 0)
}

// Sub returns the component-wise difference p - q.
func (p Point3D) Sub(q Point3D) Point3D {
	return Point3D{X: p.X - q.X, Y: p.Y - q.Y, Z: p.Z - q.Z}
}

// Compare orders points lexicographically by X, then Y, then Z. It returns
// -1 if p sorts before q, +1 if after, and 0 if the points are equal.
// Nearest-neighbor queries use this ordering to break distance ties.
func (p Point3D) Compare(q Point3D) int {
	switch {
	case p.X < q.X:
		return -1
	case p.X > q.X:
		return 1
	case p.Y < q.Y:
		return -1
	case p.Y > q.Y:
		return 1
	case p.Z < q.Z:
		return -1
	case p.Z > q.Z:
		return 1
	default:
		return 0
	}
}

// String returns a string representation of the point.
func (p Point3D) String() string {
	return fmt.Sprintf("(%g, %g, %g)", p.X, p.Y, p.Z)
}
