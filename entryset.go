package octree

import "iter"

// Entry is a live reference to one stored (coordinate, value) pair.
// Mutating it through SetValue is immediately visible to every holder of
// the index. Entries must not outlive the index that produced them, and
// an entry whose pair has since been removed is stale.
type Entry[V any] struct {
	n *node[V]
}

// Key returns the entry's coordinate.
func (e Entry[V]) Key() Point3D { return e.n.key }

// Value returns the entry's current value.
func (e Entry[V]) Value() V { return e.n.value }

// SetValue replaces the entry's value in place and returns the previous
// value.
func (e Entry[V]) SetValue(v V) V {
	prev := e.n.value
	e.n.value = v
	return prev
}

// EntrySet is a live, mutation-capable view of an index's contents. It
// holds no data of its own: its size tracks the index, removals through
// it remove from the index, and Clear empties the index.
//
// The view deliberately has no insertion method. A bare pair carries no
// bounds context, so insertion must go through the index's own Put.
type EntrySet[V any] struct {
	tree *Octree[V]
}

// EntrySet returns the live entry view of the index.
func (t *Octree[V]) EntrySet() *EntrySet[V] {
	return &EntrySet[V]{tree: t}
}

// Len returns the index size at time of call.
func (s *EntrySet[V]) Len() int { return s.tree.size }

// IsEmpty reports whether the backing index is empty.
func (s *EntrySet[V]) IsEmpty() bool { return s.tree.size == 0 }

// Contains reports whether the index holds exactly the pair (p, v):
// the coordinate must be present and its stored value deeply equal to v.
func (s *EntrySet[V]) Contains(p Point3D, v V) bool {
	stored, ok := s.tree.Get(p)
	return ok && valuesEqual(stored, v)
}

// Remove deletes the pair (p, v) from the index if present with an equal
// value, reporting whether a removal occurred.
func (s *EntrySet[V]) Remove(p Point3D, v V) bool {
	if !s.Contains(p, v) {
		return false
	}
	_, ok := s.tree.Remove(p)
	return ok
}

// Clear removes every entry from the backing index.
func (s *EntrySet[V]) Clear() { s.tree.Clear() }

// All returns a read-only range-over-func iterator over every pair in
// tree traversal order. The index must not be mutated during iteration;
// use Iterator for iteration with removal.
func (s *EntrySet[V]) All() iter.Seq2[Point3D, V] {
	return func(yield func(Point3D, V) bool) {
		s.tree.walk(func(n *node[V]) bool {
			return yield(n.key, n.value)
		})
	}
}

// Iterator returns a cursor over the view supporting in-place removal.
//
// Usage:
//
//	it := tree.EntrySet().Iterator()
//	for it.Next() {
//	    e := it.Entry()
//	    if stale(e.Value()) {
//	        it.Remove()
//	    }
//	}
func (s *EntrySet[V]) Iterator() *Iterator[V] {
	it := &Iterator[V]{tree: s.tree}
	it.stack = append(it.stack, &s.tree.root)
	return it
}

// Iterator is an explicit cursor over an index's entries in depth-first
// octant order. Each advance may be followed by at most one Remove of
// the just-returned entry; any other Remove call is a programming error
// and panics.
type Iterator[V any] struct {
	tree      *Octree[V]
	stack     []*node[V]
	cur       *node[V]
	canRemove bool
}

// Next advances to the next entry, reporting false once the view is
// exhausted.
func (it *Iterator[V]) Next() bool {
	it.canRemove = false
	it.cur = nil
	for len(it.stack) > 0 {
		n := it.stack[len(it.stack)-1]
		it.stack = it.stack[:len(it.stack)-1]
		switch n.kind {
		case nodeLeaf:
			it.cur = n
			it.canRemove = true
			return true
		case nodeBranch, nodeBucket:
			for i := 7; i >= 0; i-- {
				it.stack = append(it.stack, &n.children[i])
			}
		}
	}
	return false
}

// Entry returns the entry at the cursor. It panics if the cursor has not
// been advanced, is exhausted, or the entry was removed.
func (it *Iterator[V]) Entry() Entry[V] {
	if it.cur == nil {
		panic("octree: Iterator.Entry without a current entry")
	}
	return Entry[V]{n: it.cur}
}

// Remove deletes the entry most recently returned by Next from the
// backing index. It panics if called before the first advance, twice per
// advance, or after exhaustion.
//
// Removal through the cursor empties the leaf without restructuring the
// tree, so the traversal stays valid; branch collapse is deferred to
// later Remove or Clear calls on the index.
func (it *Iterator[V]) Remove() {
	if !it.canRemove {
		panic("octree: Iterator.Remove without a removable entry")
	}
	it.canRemove = false
	it.tree.removeLeaf(it.cur)
	it.cur = nil
}
