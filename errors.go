package octree

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidBounds is returned by constructors when min > max on any
	// axis, or a bound is NaN.
	ErrInvalidBounds = errors.New("invalid bounds")

	// ErrOutOfBounds is returned by Put when the coordinate lies outside
	// the index bounds.
	ErrOutOfBounds = errors.New("point out of bounds")

	// ErrInvalidPoint is returned when a coordinate has NaN or infinite
	// components.
	ErrInvalidPoint = errors.New("point has non-finite components")

	// ErrInvalidN is returned when the requested result count of a
	// nearest-neighbor query is not positive.
	ErrInvalidN = errors.New("n must be positive")
)

// BoundsError reports an out-of-bounds insertion attempt.
//
// It unwraps to ErrOutOfBounds.
type BoundsError struct {
	Point  Point3D
	Bounds Bounds
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("point %s out of bounds %s", e.Point, e.Bounds)
}

func (e *BoundsError) Unwrap() error { return ErrOutOfBounds }
