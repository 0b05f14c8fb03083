package octree

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomPoint(r *rand.Rand) Point3D {
	return Pt(r.Float64()*2000-1000, r.Float64()*2000-1000, r.Float64()*2000-1000)
}

func TestNew(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		tree, err := New[string]()
		require.NoError(t, err)

		// The default bounds admit the full finite range.
		_, _, err = tree.Put(Pt(math.MaxFloat64, -math.MaxFloat64, 0), "corner")
		require.NoError(t, err)
		assert.Equal(t, 1, tree.Len())
	})

	t.Run("CubeBounds", func(t *testing.T) {
		_, err := New[string](WithBounds[string](1, -1))
		require.ErrorIs(t, err, ErrInvalidBounds)

		tree, err := New[string](WithBounds[string](0, 1))
		require.NoError(t, err)

		_, _, err = tree.Put(Pt(1, 0, 1), "ok")
		require.NoError(t, err)

		_, _, err = tree.Put(Pt(1, 1.1, 0), "outside")
		require.ErrorIs(t, err, ErrOutOfBounds)
	})

	t.Run("PerAxisBounds", func(t *testing.T) {
		_, err := New[string](WithBoundsXYZ[string](0, 0, 1, 5, 1, -1))
		require.ErrorIs(t, err, ErrInvalidBounds)

		tree, err := New[string](WithBoundsXYZ[string](0, 1, 2, 3, 4, 5))
		require.NoError(t, err)

		_, _, err = tree.Put(Pt(0, 3, 4), "ok")
		require.NoError(t, err)

		_, _, err = tree.Put(Pt(1, 1, 1), "outside")
		var be *BoundsError
		require.ErrorAs(t, err, &be)
		assert.Equal(t, Pt(1, 1, 1), be.Point)
	})

	t.Run("NaNBounds", func(t *testing.T) {
		_, err := New[string](WithBounds[string](math.NaN(), 1))
		require.ErrorIs(t, err, ErrInvalidBounds)
	})
}

func TestFromMap(t *testing.T) {
	m := map[Point3D]string{
		Pt(0, 0, 0): "1",
		Pt(1, 0, 0): "2",
		Pt(0, 1, 0): "3",
		Pt(0, 0, 1): "4",
	}

	tree, err := FromMap(m)
	require.NoError(t, err)
	require.Equal(t, 4, tree.Len())

	for p, want := range m {
		got, ok := tree.Get(p)
		require.True(t, ok, p.String())
		assert.Equal(t, want, got)
	}
}

func TestPutGetContainsRemove(t *testing.T) {
	t.Run("EmptyTree", func(t *testing.T) {
		tree, err := New[*Point3D]()
		require.NoError(t, err)

		assert.False(t, tree.ContainsKey(Pt(0, 0, 0)))
		_, ok := tree.Remove(Pt(0, 0, 0))
		assert.False(t, ok)
		_, ok = tree.Get(Pt(0, 0, 0))
		assert.False(t, ok)
	})

	t.Run("AbsentKeyInNonEmptyTree", func(t *testing.T) {
		tree, err := New[string]()
		require.NoError(t, err)

		_, _, err = tree.Put(Pt(1, 1, 1), "a")
		require.NoError(t, err)

		assert.False(t, tree.ContainsKey(Pt(0, 0, 0)))
		_, ok := tree.Remove(Pt(0, 0, 0))
		assert.False(t, ok)
		_, ok = tree.Get(Pt(0, 0, 0))
		assert.False(t, ok)
	})

	t.Run("RandomRoundTrip", func(t *testing.T) {
		const numEntries = 5000
		r := rand.New(rand.NewSource(1))

		points := make(map[Point3D]int, numEntries)
		for len(points) < numEntries {
			points[randomPoint(r)] = len(points)
		}

		tree, err := New[int]()
		require.NoError(t, err)

		count := 0
		for p, v := range points {
			_, replaced, err := tree.Put(p, v)
			require.NoError(t, err)
			require.False(t, replaced)
			count++
			require.Equal(t, count, tree.Len())
		}

		for p, v := range points {
			require.True(t, tree.ContainsKey(p))
			got, ok := tree.Get(p)
			require.True(t, ok)
			require.Equal(t, v, got)
		}

		for p := range points {
			_, ok := tree.Remove(p)
			require.True(t, ok)
			count--
			require.Equal(t, count, tree.Len())
		}
		assert.True(t, tree.IsEmpty())
	})

	t.Run("ReplaceReturnsPrevious", func(t *testing.T) {
		tree, err := New[string](WithBounds[string](0, 10))
		require.NoError(t, err)

		_, replaced, err := tree.Put(Pt(3, 4, 5), "old")
		require.NoError(t, err)
		assert.False(t, replaced)

		prev, replaced, err := tree.Put(Pt(3, 4, 5), "new")
		require.NoError(t, err)
		assert.True(t, replaced)
		assert.Equal(t, "old", prev)
		assert.Equal(t, 1, tree.Len())

		got, ok := tree.Get(Pt(3, 4, 5))
		require.True(t, ok)
		assert.Equal(t, "new", got)
	})

	t.Run("LeafToBranch", func(t *testing.T) {
		tree, err := New[string](WithBounds[string](0, 10))
		require.NoError(t, err)

		_, _, err = tree.Put(Pt(1, 1, 1), "A")
		require.NoError(t, err)
		_, _, err = tree.Put(Pt(5, 5, 5), "B")
		require.NoError(t, err)

		a, ok := tree.Get(Pt(1, 1, 1))
		require.True(t, ok)
		assert.Equal(t, "A", a)
		b, ok := tree.Get(Pt(5, 5, 5))
		require.True(t, ok)
		assert.Equal(t, "B", b)
	})

	t.Run("ClosePointsCascadeSplits", func(t *testing.T) {
		tree, err := New[int](WithBounds[int](0, 1024))
		require.NoError(t, err)

		// Both in the same octant for many levels.
		_, _, err = tree.Put(Pt(1, 1, 1), 1)
		require.NoError(t, err)
		_, _, err = tree.Put(Pt(1, 1, 1.0000001), 2)
		require.NoError(t, err)

		v1, ok := tree.Get(Pt(1, 1, 1))
		require.True(t, ok)
		assert.Equal(t, 1, v1)
		v2, ok := tree.Get(Pt(1, 1, 1.0000001))
		require.True(t, ok)
		assert.Equal(t, 2, v2)
	})

	t.Run("AdjacentFloatCoordinates", func(t *testing.T) {
		// In a cube spanning two adjacent floats the midpoint rounds
		// onto the lower limit, so subdivision cannot separate keys one
		// ulp apart. They must still store, query, and remove like any
		// others.
		next := math.Nextafter(1, 2)

		tree, err := New[int](WithBounds[int](1, next))
		require.NoError(t, err)
		_, _, err = tree.Put(Pt(1, 1, 1), 1)
		require.NoError(t, err)
		_, _, err = tree.Put(Pt(next, next, next), 2)
		require.NoError(t, err)
		assert.Equal(t, 2, tree.Len())

		v, ok := tree.Get(Pt(1, 1, 1))
		require.True(t, ok)
		assert.Equal(t, 1, v)
		v, ok = tree.Get(Pt(next, next, next))
		require.True(t, ok)
		assert.Equal(t, 2, v)

		v, ok = tree.Remove(Pt(1, 1, 1))
		require.True(t, ok)
		assert.Equal(t, 1, v)
		v, ok = tree.Get(Pt(next, next, next))
		require.True(t, ok)
		assert.Equal(t, 2, v)
		assert.Equal(t, 1, tree.Len())
	})

	t.Run("UnsubdividableCubeFull", func(t *testing.T) {
		// A cube spanning two adjacent floats per axis holds exactly
		// eight distinct points, the worst case for unseparable keys.
		next := math.Nextafter(1, 2)
		xs := [2]float64{1, next}

		tree, err := New[int](WithBounds[int](1, next))
		require.NoError(t, err)

		var corners []Point3D
		for _, x := range xs {
			for _, y := range xs {
				for _, z := range xs {
					corners = append(corners, Pt(x, y, z))
				}
			}
		}
		for i, p := range corners {
			_, _, err := tree.Put(p, i)
			require.NoError(t, err)
		}
		assert.Equal(t, 8, tree.Len())

		for i, p := range corners {
			v, ok := tree.Get(p)
			require.True(t, ok, "corner %v", p)
			assert.Equal(t, i, v)
		}

		prev, replaced, err := tree.Put(Pt(next, next, next), 99)
		require.NoError(t, err)
		assert.True(t, replaced)
		assert.Equal(t, 7, prev)
		assert.Equal(t, 8, tree.Len())

		keys, err := tree.NearestKeys(Pt(1, 1, 1), 8)
		require.NoError(t, err)
		assert.Equal(t, []Point3D{
			Pt(1, 1, 1),
			Pt(1, 1, next), Pt(1, next, 1), Pt(next, 1, 1),
			Pt(1, next, next), Pt(next, 1, next), Pt(next, next, 1),
			Pt(next, next, next),
		}, keys)

		for _, p := range corners[:7] {
			_, ok := tree.Remove(p)
			require.True(t, ok)
		}
		assert.Equal(t, 1, tree.Len())
		v, ok := tree.Get(Pt(next, next, next))
		require.True(t, ok)
		assert.Equal(t, 99, v)
	})

	t.Run("MidpointBoundary", func(t *testing.T) {
		// A key at the exact center of a split node must stay
		// reachable through the shared octant function.
		tree, err := New[struct{}](WithBounds[struct{}](-1, 1))
		require.NoError(t, err)

		_, _, err = tree.Put(Pt(-1, -1, -1), struct{}{})
		require.NoError(t, err)
		_, _, err = tree.Put(Pt(1, 1, 1), struct{}{})
		require.NoError(t, err)
		assert.False(t, tree.ContainsKey(Pt(0, 0, 0)))
		_, ok := tree.Remove(Pt(0, 0, 0))
		assert.False(t, ok)

		tree.Clear()
		_, _, err = tree.Put(Pt(0, 0, 0), struct{}{})
		require.NoError(t, err)
		_, _, err = tree.Put(Pt(1, 1, 1), struct{}{})
		require.NoError(t, err)
		assert.True(t, tree.ContainsKey(Pt(0, 0, 0)))
	})

	t.Run("RemoveTwice", func(t *testing.T) {
		tree, err := New[int](WithBounds[int](0, 10))
		require.NoError(t, err)

		_, _, err = tree.Put(Pt(2, 2, 2), 7)
		require.NoError(t, err)

		v, ok := tree.Remove(Pt(2, 2, 2))
		require.True(t, ok)
		assert.Equal(t, 7, v)
		assert.Equal(t, 0, tree.Len())

		_, ok = tree.Remove(Pt(2, 2, 2))
		assert.False(t, ok)
		assert.Equal(t, 0, tree.Len())
	})

	t.Run("InvalidPoints", func(t *testing.T) {
		tree, err := New[int]()
		require.NoError(t, err)

		_, _, err = tree.Put(Pt(math.NaN(), 0, 0), 1)
		require.ErrorIs(t, err, ErrInvalidPoint)
		_, _, err = tree.Put(Pt(0, math.Inf(1), 0), 1)
		require.ErrorIs(t, err, ErrInvalidPoint)

		assert.False(t, tree.ContainsKey(Pt(math.NaN(), 0, 0)))
		_, ok := tree.Get(Pt(math.NaN(), 0, 0))
		assert.False(t, ok)
		_, ok = tree.Remove(Pt(math.NaN(), 0, 0))
		assert.False(t, ok)
	})

	t.Run("NilableValues", func(t *testing.T) {
		tree, err := New[*int]()
		require.NoError(t, err)

		_, _, err = tree.Put(Pt(0, 0, 0), nil)
		require.NoError(t, err)

		v, ok := tree.Get(Pt(0, 0, 0))
		require.True(t, ok)
		assert.Nil(t, v)
		assert.True(t, tree.ContainsKey(Pt(0, 0, 0)))
	})
}

func TestContainsValue(t *testing.T) {
	tree, err := New[[]int](WithBounds[[]int](0, 100))
	require.NoError(t, err)

	_, _, err = tree.Put(Pt(1, 2, 3), []int{1, 2})
	require.NoError(t, err)
	_, _, err = tree.Put(Pt(4, 5, 6), []int{3})
	require.NoError(t, err)

	assert.True(t, tree.ContainsValue([]int{1, 2}))
	assert.True(t, tree.ContainsValue([]int{3}))
	assert.False(t, tree.ContainsValue([]int{1}))
	assert.False(t, tree.ContainsValue(nil))
}

func TestSizeAndClear(t *testing.T) {
	r := rand.New(rand.NewSource(2))

	tree, err := New[int]()
	require.NoError(t, err)
	assert.True(t, tree.IsEmpty())
	assert.Equal(t, 0, tree.Len())

	count := 0
	for i := 0; i < 2000; i++ {
		_, replaced, err := tree.Put(randomPoint(r), i)
		require.NoError(t, err)
		if !replaced {
			count++
		}
		require.Equal(t, count, tree.Len())
	}
	assert.False(t, tree.IsEmpty())

	tree.Clear()
	assert.True(t, tree.IsEmpty())
	assert.Equal(t, 0, tree.Len())

	// The tree is fully usable after Clear.
	_, _, err = tree.Put(Pt(0, 0, 0), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, tree.Len())
}

func TestPutAll(t *testing.T) {
	r := rand.New(rand.NewSource(3))

	m := make(map[Point3D]Point3D, 1000)
	for len(m) < 1000 {
		p := randomPoint(r)
		m[p] = p
	}

	tree, err := New[Point3D]()
	require.NoError(t, err)
	require.NoError(t, tree.PutAll(m))
	require.Equal(t, len(m), tree.Len())

	for p := range m {
		got, ok := tree.Get(p)
		require.True(t, ok)
		assert.Equal(t, p, got)
	}

	t.Run("OutOfBounds", func(t *testing.T) {
		tree, err := New[int](WithBounds[int](0, 1))
		require.NoError(t, err)

		err = tree.PutAll(map[Point3D]int{Pt(5, 5, 5): 1})
		require.ErrorIs(t, err, ErrOutOfBounds)
	})
}

func TestPointCompare(t *testing.T) {
	assert.Equal(t, 0, Pt(1, 2, 3).Compare(Pt(1, 2, 3)))
	assert.Equal(t, -1, Pt(0, 9, 9).Compare(Pt(1, 0, 0)))
	assert.Equal(t, 1, Pt(1, 1, 0).Compare(Pt(1, 0, 9)))
	assert.Equal(t, -1, Pt(1, 1, 0).Compare(Pt(1, 1, 1)))
}
