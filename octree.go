package octree

import (
	"reflect"

	"github.com/hupe1980/octree/distance"
)

// Octree is a map from Point3D keys to values of type V, organized as a
// lazily subdivided octant tree over a bounded cube.
//
// An Octree performs no internal synchronization: writes require external
// serialization, and reads may run concurrently only while no writer is
// active. See the package documentation.
type Octree[V any] struct {
	root   node[V]
	bounds Bounds
	size   int
	dist   distance.Func
	logger *Logger
}

// New creates an empty index. Without options the bounds cover the full
// finite float64 range on all axes and the metric is squared Euclidean
// distance.
func New[V any](optFns ...Option[V]) (*Octree[V], error) {
	opts := applyOptions(optFns)

	if err := opts.bounds.validate(); err != nil {
		return nil, err
	}

	t := &Octree[V]{
		bounds: opts.bounds,
		dist:   opts.dist,
		logger: opts.logger,
	}
	t.root.bounds = opts.bounds

	return t, nil
}

// FromMap creates an index with default bounds (unless overridden by
// options) and bulk-loads every pair from m via repeated insertion.
func FromMap[V any](m map[Point3D]V, optFns ...Option[V]) (*Octree[V], error) {
	t, err := New[V](optFns...)
	if err != nil {
		return nil, err
	}
	if err := t.PutAll(m); err != nil {
		return nil, err
	}
	return t, nil
}

// Bounds returns the cube this index covers.
func (t *Octree[V]) Bounds() Bounds { return t.bounds }

// Len returns the number of stored entries.
func (t *Octree[V]) Len() int { return t.size }

// IsEmpty reports whether the index holds no entries.
func (t *Octree[V]) IsEmpty() bool { return t.size == 0 }

// Clear removes all entries, resetting the index to its initial state.
func (t *Octree[V]) Clear() {
	t.root = node[V]{bounds: t.bounds}
	t.size = 0
}

// Put inserts v at p, or replaces the stored value if p is already
// present. It returns the previous value and whether a replacement
// happened; a replacement leaves Len unchanged.
//
// Put fails with a *BoundsError (wrapping ErrOutOfBounds) for points
// outside the index bounds and with ErrInvalidPoint for NaN or infinite
// components.
func (t *Octree[V]) Put(p Point3D, v V) (prev V, replaced bool, err error) {
	if !p.IsValid() {
		return prev, false, ErrInvalidPoint
	}
	if !t.bounds.Contains(p) {
		return prev, false, &BoundsError{Point: p, Bounds: t.bounds}
	}

	prev, replaced = t.root.put(p, v)
	if !replaced {
		t.size++
	}
	t.logger.LogPut(p, replaced)

	return prev, replaced, nil
}

// PutAll inserts every pair from m, behaving as repeated Put. On the
// first failed insertion it stops and returns that error; prior
// insertions remain.
func (t *Octree[V]) PutAll(m map[Point3D]V) error {
	for p, v := range m {
		if _, _, err := t.Put(p, v); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the value stored at p. Points outside the bounds or with
// non-finite components are simply not present.
func (t *Octree[V]) Get(p Point3D) (V, bool) {
	var zero V
	if t.size == 0 || !p.IsValid() || !t.bounds.Contains(p) {
		return zero, false
	}
	if n := t.root.find(p); n != nil {
		return n.value, true
	}
	return zero, false
}

// ContainsKey reports whether an entry is stored at p.
func (t *Octree[V]) ContainsKey(p Point3D) bool {
	if t.size == 0 || !p.IsValid() || !t.bounds.Contains(p) {
		return false
	}
	return t.root.find(p) != nil
}

// ContainsValue reports whether any entry holds a value deeply equal to
// v. It scans every entry (O(n)) and is intended for diagnostics and
// tests, not hot paths.
func (t *Octree[V]) ContainsValue(v V) bool {
	found := false
	t.walk(func(n *node[V]) bool {
		if valuesEqual(n.value, v) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Remove deletes the entry at p, reporting the removed value. Emptied
// subtrees collapse back toward the root.
func (t *Octree[V]) Remove(p Point3D) (V, bool) {
	var zero V
	if t.size == 0 || !p.IsValid() || !t.bounds.Contains(p) {
		return zero, false
	}

	v, ok := t.root.remove(p)
	if ok {
		t.size--
		t.logger.LogRemove(p)
	}

	return v, ok
}

// walk visits every leaf in depth-first octant order. fn returning false
// stops the walk.
func (t *Octree[V]) walk(fn func(*node[V]) bool) {
	stack := []*node[V]{&t.root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch n.kind {
		case nodeLeaf:
			if !fn(n) {
				return
			}
		case nodeBranch, nodeBucket:
			for i := 7; i >= 0; i-- {
				stack = append(stack, &n.children[i])
			}
		}
	}
}

// removeLeaf empties a specific leaf without collapsing its ancestors.
// Used by iterator removal, where restructuring would invalidate the
// cursor's traversal stack. A later Remove or Clear tidies the branches.
func (t *Octree[V]) removeLeaf(n *node[V]) {
	p := n.key
	n.toEmpty()
	t.size--
	t.logger.LogRemove(p)
}

// valuesEqual is the value-equality used by ContainsValue and the entry
// view. reflect.DeepEqual covers comparable and composite payloads alike.
func valuesEqual[V any](a, b V) bool {
	return reflect.DeepEqual(a, b)
}
