package octree

import "github.com/hupe1980/octree/distance"

type options struct {
	bounds Bounds
	dist   distance.Func
	logger *Logger
}

// Option configures index construction.
type Option[V any] func(*options)

// WithBounds sets identical [min, max] bounds on all three axes.
func WithBounds[V any](min, max float64) Option[V] {
	return func(o *options) {
		o.bounds = Bounds{
			XMin: min, XMax: max,
			YMin: min, YMax: max,
			ZMin: min, ZMax: max,
		}
	}
}

// WithBoundsXYZ sets independent per-axis bounds.
func WithBoundsXYZ[V any](xMin, xMax, yMin, yMax, zMin, zMax float64) Option[V] {
	return func(o *options) {
		o.bounds = Bounds{
			XMin: xMin, XMax: xMax,
			YMin: yMin, YMax: yMax,
			ZMin: zMin, ZMax: zMax,
		}
	}
}

// WithDistanceFunc sets the metric used by all nearest-neighbor queries.
// fn must be pure and monotone in the magnitude of each delta component;
// the metrics in the distance package all qualify. Passing nil keeps the
// default (squared Euclidean).
func WithDistanceFunc[V any](fn distance.Func) Option[V] {
	return func(o *options) {
		if fn != nil {
			o.dist = fn
		}
	}
}

// WithMetric selects one of the built-in metrics from the distance
// package. Unknown metrics fall back to the default.
func WithMetric[V any](m distance.Metric) Option[V] {
	return func(o *options) {
		if fn, err := distance.Provider(m); err == nil {
			o.dist = fn
		}
	}
}

// WithLogger configures structured logging for mutating operations.
// Pass nil to disable logging.
func WithLogger[V any](logger *Logger) Option[V] {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func applyOptions[V any](optFns []Option[V]) options {
	o := options{
		bounds: defaultBounds(),
		dist:   distance.SquaredEuclidean,
		logger: NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
