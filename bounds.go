package octree

import (
	"fmt"
	"math"

	"github.com/hupe1980/octree/distance"
)

// Bounds describes the axis-aligned cube an index covers: one inclusive
// [Min, Max] range per axis.
type Bounds struct {
	XMin, XMax float64
	YMin, YMax float64
	ZMin, ZMax float64
}

// defaultBounds covers the full finite float64 range on all axes.
func defaultBounds() Bounds {
	return Bounds{
		XMin: -math.MaxFloat64, XMax: math.MaxFloat64,
		YMin: -math.MaxFloat64, YMax: math.MaxFloat64,
		ZMin: -math.MaxFloat64, ZMax: math.MaxFloat64,
	}
}

// validate checks min <= max per axis and that all limits are finite or
// at most the float64 extremes.
func (b Bounds) validate() error {
	for _, r := range [3][2]float64{{b.XMin, b.XMax}, {b.YMin, b.YMax}, {b.ZMin, b.ZMax}} {
		if math.IsNaN(r[0]) || math.IsNaN(r[1]) || r[0] > r[1] {
			return fmt.Errorf("%w: [%g, %g]", ErrInvalidBounds, r[0], r[1])
		}
	}
	return nil
}

// Contains reports whether p lies within the bounds, inclusive on all
// sides.
func (b Bounds) Contains(p Point3D) bool {
	return p.X >= b.XMin && p.X <= b.XMax &&
		p.Y >= b.YMin && p.Y <= b.YMax &&
		p.Z >= b.ZMin && p.Z <= b.ZMax
}

// midpoint returns the center of the cube. The halved-sum form avoids
// overflow for the default full-range bounds.
func (b Bounds) midpoint() (mx, my, mz float64) {
	return b.XMin/2 + b.XMax/2, b.YMin/2 + b.YMax/2, b.ZMin/2 + b.ZMax/2
}

// octant returns the child index for p: bit 0 set if p.X is in the upper
// x-half, bit 1 for y, bit 2 for z. A component exactly at the midpoint
// belongs to the upper half; every traversal shares this function, so
// boundary points are placed and found consistently.
func (b Bounds) octant(p Point3D) int {
	mx, my, mz := b.midpoint()
	i := 0
	if p.X >= mx {
		i |= 1
	}
	if p.Y >= my {
		i |= 2
	}
	if p.Z >= mz {
		i |= 4
	}
	return i
}

// child returns the bounds of octant i. The eight children exactly tile
// the parent cube.
func (b Bounds) child(i int) Bounds {
	mx, my, mz := b.midpoint()
	c := b
	if i&1 == 0 {
		c.XMax = mx
	} else {
		c.XMin = mx
	}
	if i&2 == 0 {
		c.YMax = my
	} else {
		c.YMin = my
	}
	if i&4 == 0 {
		c.ZMax = mz
	} else {
		c.ZMin = mz
	}
	return c
}

// minDistance returns the smallest possible distance from q to any point
// inside the cube under dist: zero if q lies inside, otherwise the
// distance of the per-axis offsets to the nearest face, edge, or corner.
// The bound is valid for any metric that is monotone in the magnitude of
// each delta component, which all metrics in the distance package are.
func (b Bounds) minDistance(q Point3D, dist distance.Func) float64 {
	var dx, dy, dz float64
	if q.X < b.XMin {
		dx = b.XMin - q.X
	} else if q.X > b.XMax {
		dx = q.X - b.XMax
	}
	if q.Y < b.YMin {
		dy = b.YMin - q.Y
	} else if q.Y > b.YMax {
		dy = q.Y - b.YMax
	}
	if q.Z < b.ZMin {
		dz = b.ZMin - q.Z
	} else if q.Z > b.ZMax {
		dz = q.Z - b.ZMax
	}
	if dx == 0 && dy == 0 && dz == 0 {
		return 0
	}
	return dist(dx, dy, dz)
}

// String returns a string representation of the bounds.
func (b Bounds) String() string {
	return fmt.Sprintf("x[%g, %g] y[%g, %g] z[%g, %g]",
		b.XMin, b.XMax, b.YMin, b.YMax, b.ZMin, b.ZMax)
}
