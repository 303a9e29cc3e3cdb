package segtree

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func naive(values []float64, l, r int) MinMax {
	mm := MinMax{Min: math.Inf(1), Max: math.Inf(-1)}
	for i := l; i <= r; i++ {
		mm.Min = math.Min(mm.Min, values[i])
		mm.Max = math.Max(mm.Max, values[i])
	}
	return mm
}

func TestMinMaxMatchesLinearScan(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		values := rapid.SliceOfN(rapid.Float64Range(-1e6, 1e6), 1, 300).Draw(t, "values")
		tree := New(values)
		l := rapid.IntRange(0, len(values)-1).Draw(t, "l")
		r := rapid.IntRange(l, len(values)-1).Draw(t, "r")

		got, ok := tree.MinMax(l, r)
		if !ok {
			t.Fatalf("range [%d,%d] reported empty", l, r)
		}
		if want := naive(values, l, r); got != want {
			t.Fatalf("MinMax(%d,%d) = %v, want %v", l, r, got, want)
		}
	})
}

func TestSingleValue(t *testing.T) {
	tree := New([]float64{3})
	mm, ok := tree.MinMax(0, 0)
	assert.True(t, ok)
	assert.Equal(t, MinMax{Min: 3, Max: 3}, mm)
}

func TestEmptyTree(t *testing.T) {
	tree := New(nil)
	assert.Equal(t, 0, tree.Len())
	_, ok := tree.MinMax(0, 0)
	assert.False(t, ok)
}

func TestOutOfRangeQueries(t *testing.T) {
	tree := New([]float64{1, 5, -2, 8})

	_, ok := tree.MinMax(3, 1)
	assert.False(t, ok)
	_, ok = tree.MinMax(4, 6)
	assert.False(t, ok)

	// Partially outside ranges are clipped by the tree itself.
	mm, ok := tree.MinMax(2, 10)
	assert.True(t, ok)
	assert.Equal(t, MinMax{Min: -2, Max: 8}, mm)
}
