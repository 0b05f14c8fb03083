package octree

import (
	"github.com/hupe1980/octree/internal/queue"
)

// NearestKey returns the stored coordinate closest to q under the
// configured metric. ok is false for an empty index or an invalid query.
func (t *Octree[V]) NearestKey(q Point3D) (key Point3D, ok bool) {
	e, ok := t.NearestEntry(q)
	if !ok {
		return Point3D{}, false
	}
	return e.Key(), true
}

// NearestEntry returns the entry whose coordinate is closest to q. The
// entry is a live reference into the index. ok is false for an empty
// index or an invalid query.
func (t *Octree[V]) NearestEntry(q Point3D) (e Entry[V], ok bool) {
	if t.size == 0 || !q.IsValid() {
		return Entry[V]{}, false
	}
	entries, _ := t.NearestEntries(q, 1)
	return entries[0], true
}

// NearestKeys returns up to n stored coordinates in ascending distance
// from q. If n exceeds the index size the full contents are returned
// sorted, so the result length is min(n, Len).
func (t *Octree[V]) NearestKeys(q Point3D, n int) ([]Point3D, error) {
	entries, err := t.NearestEntries(q, n)
	if err != nil {
		return nil, err
	}
	keys := make([]Point3D, len(entries))
	for i, e := range entries {
		keys[i] = e.Key()
	}
	return keys, nil
}

// NearestEntries returns up to n entries in ascending distance from q.
// Equal distances are broken by lexicographic coordinate order (X, then
// Y, then Z; lower wins), deterministically across runs.
//
// The search is exact branch-and-bound: children are visited in
// ascending order of the minimum possible distance from q to their cube,
// and a subtree is skipped once that lower bound exceeds the distance of
// the worst candidate held. A subtree that could contain a closer point
// is never pruned.
func (t *Octree[V]) NearestEntries(q Point3D, n int) ([]Entry[V], error) {
	if n <= 0 {
		return nil, ErrInvalidN
	}
	if !q.IsValid() {
		return nil, ErrInvalidPoint
	}
	if t.size == 0 {
		return []Entry[V]{}, nil
	}

	cand := queue.NewBounded(n, func(a, b *node[V]) int {
		return a.key.Compare(b.key)
	})
	t.searchNode(&t.root, q, cand)

	items := cand.Ascending()
	entries := make([]Entry[V], len(items))
	for i, it := range items {
		entries[i] = Entry[V]{n: it.Value}
	}
	t.logger.LogNearest(q, n, len(entries))

	return entries, nil
}

// searchNode descends the subtree rooted at n, tightening the candidate
// set.
func (t *Octree[V]) searchNode(n *node[V], q Point3D, cand *queue.Bounded[*node[V]]) {
	switch n.kind {
	case nodeEmpty:
		return
	case nodeLeaf:
		cand.Push(n, t.dist(n.key.X-q.X, n.key.Y-q.Y, n.key.Z-q.Z))
	default:
		// Visit children closest-cube-first so the cutoff tightens
		// early; the octant containing q has lower bound zero and
		// sorts first by construction.
		var order [8]int
		var lower [8]float64
		for i := range n.children {
			order[i] = i
			lower[i] = n.children[i].bounds.minDistance(q, t.dist)
		}
		for i := 1; i < 8; i++ {
			for j := i; j > 0 && lower[order[j]] < lower[order[j-1]]; j-- {
				order[j], order[j-1] = order[j-1], order[j]
			}
		}

		for _, i := range order {
			// Bounds are ascending, so the first unreachable child
			// ends the visit. Equal-to-cutoff subtrees are still
			// searched: they may hold a candidate that wins the
			// coordinate tie-break.
			if cand.Full() && lower[i] > cand.Cutoff() {
				break
			}
			t.searchNode(&n.children[i], q, cand)
		}
	}
}
