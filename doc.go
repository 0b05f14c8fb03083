// Package octree provides a bounded three-dimensional spatial index: a map
// from 3D coordinates to arbitrary payloads with exact nearest-neighbor
// queries under a pluggable distance metric.
//
// The index recursively partitions its cube into octants, splitting lazily
// on insertion and collapsing on removal. Nearest-neighbor search is
// branch-and-bound over the node tree: subtrees whose cubes cannot contain
// a closer point than the current candidate set are skipped entirely, which
// gives sub-linear average-case search for well-distributed data while
// guaranteeing exact results.
//
// # Quick Start
//
//	tree, err := octree.New[string](octree.WithBounds[string](0, 255))
//	if err != nil {
//	    panic(err)
//	}
//
//	_, _, _ = tree.Put(octree.Pt(12, 34, 56), "teal-ish")
//	_, _, _ = tree.Put(octree.Pt(200, 30, 30), "red-ish")
//
//	if e, ok := tree.NearestEntry(octree.Pt(210, 40, 40)); ok {
//	    fmt.Println(e.Key(), e.Value()) // (200, 30, 30) red-ish
//	}
//
// # Concurrency
//
// The index performs no internal synchronization. Writes must be serialized
// by the caller; read-only operations (Get, ContainsKey, nearest queries,
// iteration) may run concurrently with each other as long as no writer is
// active. The intended usage is a write phase followed by a read phase, as
// in the mosaic subpackage's tile loader.
package octree
