// Package queue provides the bounded candidate heap used by
// nearest-neighbor search.
package queue

import "container/heap"

// Item is a search candidate with its distance to the query.
type Item[T any] struct {
	Value    T
	Distance float64
}

// Bounded keeps the limit best (smallest-distance) items seen so far. The
// worst retained item sits on top of the heap, so the search cutoff is
// available in O(1) and a full queue rejects or evicts in O(log n).
//
// Distance ties are broken by tie, a three-way comparison on values; the
// value ordering lower wins. This makes results deterministic regardless
// of push order.
type Bounded[T any] struct {
	limit int
	tie   func(a, b T) int
	items maxHeap[T]
}

// NewBounded creates a bounded candidate queue. limit must be positive.
// tie breaks equal distances; it must induce a total order on values.
func NewBounded[T any](limit int, tie func(a, b T) int) *Bounded[T] {
	return &Bounded[T]{
		limit: limit,
		tie:   tie,
		items: maxHeap[T]{tie: tie},
	}
}

// Len returns the number of retained candidates.
func (q *Bounded[T]) Len() int { return len(q.items.entries) }

// Full reports whether the queue holds limit candidates.
func (q *Bounded[T]) Full() bool { return len(q.items.entries) >= q.limit }

// Cutoff returns the distance of the worst retained candidate. It is only
// meaningful when the queue is Full; a subtree whose lower bound exceeds
// it cannot contribute a result.
func (q *Bounded[T]) Cutoff() float64 {
	return q.items.entries[0].Distance
}

// Push offers a candidate. When the queue is full, the candidate replaces
// the current worst entry only if it beats it (smaller distance, or equal
// distance and smaller tie order).
func (q *Bounded[T]) Push(v T, dist float64) {
	it := Item[T]{Value: v, Distance: dist}
	if !q.Full() {
		heap.Push(&q.items, it)
		return
	}
	worst := q.items.entries[0]
	if dist > worst.Distance {
		return
	}
	if dist == worst.Distance && q.tie(v, worst.Value) >= 0 {
		return
	}
	q.items.entries[0] = it
	heap.Fix(&q.items, 0)
}

// Ascending drains the queue and returns all retained candidates in
// ascending distance order (ties in tie order). The queue is empty
// afterwards.
func (q *Bounded[T]) Ascending() []Item[T] {
	out := make([]Item[T], len(q.items.entries))
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&q.items).(Item[T])
	}
	return out
}

// maxHeap orders the worst candidate first.
type maxHeap[T any] struct {
	entries []Item[T]
	tie     func(a, b T) int
}

var _ heap.Interface = (*maxHeap[int])(nil)

func (h *maxHeap[T]) Len() int { return len(h.entries) }

func (h *maxHeap[T]) Less(i, j int) bool {
	a, b := h.entries[i], h.entries[j]
	if a.Distance != b.Distance {
		return a.Distance > b.Distance
	}
	return h.tie(a.Value, b.Value) > 0
}

func (h *maxHeap[T]) Swap(i, j int) {
	h.entries[i], h.entries[j] = h.entries[j], h.entries[i]
}

func (h *maxHeap[T]) Push(x any) {
	h.entries = append(h.entries, x.(Item[T]))
}

func (h *maxHeap[T]) Pop() any {
	old := h.entries
	n := len(old)
	it := old[n-1]
	h.entries = old[:n-1]
	return it
}
