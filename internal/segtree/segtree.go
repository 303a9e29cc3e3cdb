// Package segtree implements a static segment tree answering min/max
// queries over index ranges of a fixed sample array.
package segtree

import "math"

// MinMax is a (min, max) pair.
type MinMax struct {
	Min float64
	Max float64
}

// neutral leaves a combine unchanged.
var neutral = MinMax{Min: math.Inf(1), Max: math.Inf(-1)}

func combine(a, b MinMax) MinMax {
	return MinMax{Min: math.Min(a.Min, b.Min), Max: math.Max(a.Max, b.Max)}
}

// Tree is built once and never mutated. Node 1 is the root and the
// children of node n are 2n and 2n+1.
type Tree struct {
	size int
	tree []MinMax
}

// New builds a tree over values in O(n).
func New(values []float64) *Tree {
	t := &Tree{size: len(values), tree: make([]MinMax, 4*len(values))}
	if t.size > 0 {
		t.build(values, 1, 0, t.size-1)
	}
	return t
}

// Len returns the number of indexed samples.
func (t *Tree) Len() int {
	return t.size
}

func (t *Tree) build(values []float64, n, left, right int) {
	if left == right {
		t.tree[n] = MinMax{Min: values[left], Max: values[left]}
		return
	}
	mid := (left + right) >> 1
	t.build(values, 2*n, left, mid)
	t.build(values, 2*n+1, mid+1, right)
	t.tree[n] = combine(t.tree[2*n], t.tree[2*n+1])
}

// MinMax returns the min and max over the inclusive index range
// [rangeLeft, rangeRight]. ok is false when the range selects no sample.
func (t *Tree) MinMax(rangeLeft, rangeRight int) (mm MinMax, ok bool) {
	if t.size == 0 || rangeLeft > rangeRight || rangeRight < 0 || rangeLeft >= t.size {
		return neutral, false
	}
	return t.query(1, 0, t.size-1, rangeLeft, rangeRight), true
}

func (t *Tree) query(n, left, right, rangeLeft, rangeRight int) MinMax {
	if rangeLeft > right || rangeRight < left {
		return neutral
	}
	if rangeLeft <= left && rangeRight >= right {
		return t.tree[n]
	}
	mid := (left + right) >> 1
	return combine(
		t.query(2*n, left, mid, rangeLeft, rangeRight),
		t.query(2*n+1, mid+1, right, rangeLeft, rangeRight),
	)
}
