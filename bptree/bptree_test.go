package bptree

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

// counter records structural events for assertions.
type counter struct {
	splits, merges, redistributions [2]int // [internal, leaf]
	grows, shrinks                  int
	height                          int
}

func kind(leaf bool) int {
	if leaf {
		return 1
	}
	return 0
}

func (c *counter) Split(leaf bool)        { c.splits[kind(leaf)]++ }
func (c *counter) Merge(leaf bool)        { c.merges[kind(leaf)]++ }
func (c *counter) Redistribute(leaf bool) { c.redistributions[kind(leaf)]++ }
func (c *counter) Grow(height int)        { c.grows++; c.height = height }
func (c *counter) Shrink(height int)      { c.shrinks++; c.height = height }

func keys(tree *Tree) (keys []int64) {
	for key := range tree.Items {
		keys = append(keys, key)
	}
	return
}

// TestOrderClamp tests that orders below the minimum are raised to 3.
func TestOrderClamp(t *testing.T) {
	for _, order := range []int{-1, 0, 1, 2} {
		require.Equal(t, MinOrder, New(order).Order(), "order %d", order)
	}
	require.Equal(t, 7, New(7).Order())

	var tree Tree
	require.Equal(t, DefaultOrder, tree.Order())
	require.True(t, tree.Empty())
	require.True(t, tree.Insert(1, 1))
	require.NoError(t, tree.Verify())
}

// TestEmptyTree tests that reads and removals on an empty tree are no-ops.
func TestEmptyTree(t *testing.T) {
	tree := New(4)

	require.True(t, tree.Empty())
	require.Nil(t, tree.Search(1))
	_, found := tree.Get(1)
	require.False(t, found)
	require.False(t, tree.Remove(1))
	require.Empty(t, tree.Range(0, 100))
	require.Nil(t, tree.Path(1))
	require.Zero(t, tree.Height())
	require.Zero(t, tree.Len())
	require.NoError(t, tree.Verify())
}

// TestSingleKey tests insert then remove of one key, which must leave the tree empty.
func TestSingleKey(t *testing.T) {
	tree := New(10)
	require.True(t, tree.Insert(1, 1))
	require.False(t, tree.Empty())
	require.Equal(t, 1, tree.Height())

	require.True(t, tree.Remove(1))
	require.True(t, tree.Empty())
	require.Zero(t, tree.Height())
}

// TestDuplicateInsert tests that a second insert of a key keeps the first value.
func TestDuplicateInsert(t *testing.T) {
	tree := New(4)
	require.True(t, tree.Insert(5, 50))
	record := tree.Search(5)
	require.NotNil(t, record)

	require.False(t, tree.Insert(5, 51))
	require.Same(t, record, tree.Search(5))
	require.EqualValues(t, 50, tree.Search(5).Value())
	require.Equal(t, 1, tree.Len())
}

// TestOrder3Ascending inserts 0..9 into an order 3 tree, checking every
// earlier key after each insert, then removes them in the same order.
func TestOrder3Ascending(t *testing.T) {
	const n = 10
	tree := New(3)

	for i := range int64(n) {
		require.True(t, tree.Insert(i, i))
		require.NoError(t, tree.Verify(), "after insert %d", i)
		for j := range i + 1 {
			require.NotNil(t, tree.Search(j), "search %d after insert %d", j, i)
		}
	}

	for i := range int64(n) {
		require.True(t, tree.Remove(i))
		require.NoError(t, tree.Verify(), "after remove %d", i)
		require.Nil(t, tree.Search(i))
	}

	for i := range int64(n) {
		require.Nil(t, tree.Search(i))
	}
	require.True(t, tree.Empty())
	t.Logf("✓ order 3: inserted and removed %d keys", n)
}

// TestOrder5Descending inserts 20000 keys ascending into an order 5 tree and
// removes them in descending order, searching around every removal.
func TestOrder5Descending(t *testing.T) {
	const n = 20000
	tree := New(5)

	for i := range int64(n) {
		tree.Insert(i, i)
	}
	require.Equal(t, n, tree.Len())
	require.NoError(t, tree.Verify())

	for i := int64(n - 1); i >= 0; i-- {
		require.True(t, tree.Remove(i))
		require.Nil(t, tree.Search(i), "removed key %d", i)
		if i > 0 {
			record := tree.Search(i - 1)
			require.NotNil(t, record, "present key %d", i-1)
			require.Equal(t, i-1, record.Value())
		}
		if i%1000 == 0 {
			require.NoError(t, tree.Verify(), "after remove %d", i)
		}
	}
	require.True(t, tree.Empty())
	require.NoError(t, tree.Verify())
	t.Logf("✓ order 5: %d keys round trip", n)
}

// TestRoundTripShuffled tests that removing every inserted key in any order
// empties the tree, across all supported orders.
func TestRoundTripShuffled(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	for order := MinOrder; order <= MaxOrder; order++ {
		tree := New(order)
		keys := r.Perm(500)
		for _, k := range keys {
			tree.Insert(int64(k), int64(-k))
		}
		require.NoError(t, tree.Verify(), "order %d", order)

		r.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		for _, k := range keys {
			require.True(t, tree.Remove(int64(k)), "order %d key %d", order, k)
		}
		require.True(t, tree.Empty(), "order %d", order)
		require.NoError(t, tree.Verify(), "order %d", order)
	}
}

// TestRandomAgainstMap runs a random mix of inserts and removes against a map
// model, verifying the tree and every live key after each step.
func TestRandomAgainstMap(t *testing.T) {
	for _, order := range []int{3, 4, 5, 8} {
		r := rand.New(rand.NewPCG(uint64(order), 7))
		tree := New(order)
		model := map[int64]int64{}

		for step := range 3000 {
			key := r.Int64N(400)
			if r.Float64() < 0.6 {
				_, exists := model[key]
				require.Equal(t, !exists, tree.Insert(key, int64(step)))
				if !exists {
					model[key] = int64(step)
				}
			} else {
				_, exists := model[key]
				require.Equal(t, exists, tree.Remove(key))
				delete(model, key)
			}
			require.NoError(t, tree.Verify(), "order %d step %d", order, step)
		}

		require.Equal(t, len(model), tree.Len())
		for key := range int64(400) {
			val, found := tree.Get(key)
			want, ok := model[key]
			require.Equal(t, ok, found, "order %d key %d", order, key)
			require.Equal(t, want, val, "order %d key %d", order, key)
		}

		want := make([]int64, 0, len(model))
		for key := range model {
			want = append(want, key)
		}
		slices.Sort(want)
		require.Equal(t, want, keys(tree))
	}
}

// TestSplitShape tests the node layout produced by ascending inserts into an
// order 3 tree, including the sentinel handling of an internal split.
func TestSplitShape(t *testing.T) {
	var c counter
	tree := New(3)
	tree.Observe(&c)
	for i := range int64(5) {
		tree.Insert(i, i)
	}

	var levels [][][]int64
	for _, nodes := range tree.Levels {
		var rank [][]int64
		for _, v := range nodes {
			rank = append(rank, v.Keys)
		}
		levels = append(levels, rank)
	}
	require.Equal(t, [][][]int64{
		{{2}},
		{{1}, {3}},
		{{0}, {1}, {2}, {3, 4}},
	}, levels)

	require.Equal(t, [2]int{1, 3}, c.splits)
	require.Equal(t, 2, c.grows)
	require.Equal(t, 3, c.height)
	require.Equal(t, 3, tree.Height())
}

// TestRedistributeLeaf tests merging with and borrowing from both the left
// and the right sibling of an underflowing leaf.
func TestRedistributeLeaf(t *testing.T) {
	// order 5: leaves hold 2..4 keys
	build := func(extra ...int64) (*Tree, *counter) {
		var c counter
		tree := New(5)
		for _, k := range []int64{10, 20, 30, 40, 50, 60, 70} {
			tree.Insert(k, k)
		}
		for _, k := range extra {
			tree.Insert(k, k)
		}
		tree.Observe(&c)
		return tree, &c
	}
	leaves := func(tree *Tree) (leaves [][]int64) {
		for v := range tree.Leaves {
			leaves = append(leaves, v.Keys)
		}
		return
	}

	tree, c := build()
	require.Equal(t, [][]int64{{10, 20}, {30, 40}, {50, 60, 70}}, leaves(tree))

	// slot 0 underflows and merges with its right sibling
	require.True(t, tree.Remove(10))
	require.NoError(t, tree.Verify())
	require.Equal(t, [2]int{0, 1}, c.merges)
	require.Equal(t, [][]int64{{20, 30, 40}, {50, 60, 70}}, leaves(tree))

	// slot 1 underflows and merges into its left sibling
	tree, c = build(25)
	require.True(t, tree.Remove(40))
	require.NoError(t, tree.Verify())
	require.Equal(t, [2]int{0, 1}, c.merges)
	require.Equal(t, [][]int64{{10, 20, 25, 30}, {50, 60, 70}}, leaves(tree))

	// slot 0 borrows the first key of a full right sibling
	tree, c = build(35, 45)
	require.Equal(t, [][]int64{{10, 20}, {30, 35, 40, 45}, {50, 60, 70}}, leaves(tree))
	require.True(t, tree.Remove(10))
	require.NoError(t, tree.Verify())
	require.Equal(t, [2]int{0, 1}, c.redistributions)
	require.Zero(t, c.merges[1])
	require.Equal(t, [][]int64{{20, 30}, {35, 40, 45}, {50, 60, 70}}, leaves(tree))
	require.Equal(t, []int64{35, 50}, tree.Path(35)[0].Keys)

	// slot 1 borrows the last key of a full left sibling
	tree, c = build(5, 15)
	require.Equal(t, [][]int64{{5, 10, 15, 20}, {30, 40}, {50, 60, 70}}, leaves(tree))
	require.True(t, tree.Remove(30))
	require.NoError(t, tree.Verify())
	require.Equal(t, [2]int{0, 1}, c.redistributions)
	require.Equal(t, [][]int64{{5, 10, 15}, {20, 40}, {50, 60, 70}}, leaves(tree))
	require.Equal(t, []int64{20, 50}, tree.Path(20)[0].Keys)
	require.Equal(t, []Entry{{15, 15}, {20, 20}, {40, 40}}, tree.Range(11, 45))
}

// TestRebalanceMix removes most keys of randomly built trees and checks that
// every kind of repair ran while the invariants held throughout.
func TestRebalanceMix(t *testing.T) {
	var total counter
	for order := 3; order <= 8; order++ {
		r := rand.New(rand.NewPCG(uint64(order), 11))
		tree := New(order)
		tree.Observe(&total)

		keys := r.Perm(2000)
		for _, k := range keys {
			tree.Insert(int64(k), int64(k))
		}
		height := tree.Height()

		r.Shuffle(len(keys), func(i, j int) { keys[i], keys[j] = keys[j], keys[i] })
		for i, k := range keys[50:] {
			require.True(t, tree.Remove(int64(k)))
			if i%50 == 0 {
				require.NoError(t, tree.Verify(), "order %d step %d", order, i)
			}
		}
		require.NoError(t, tree.Verify(), "order %d", order)
		require.Less(t, tree.Height(), height, "order %d", order)

		left := slices.Clone(keys[:50])
		slices.Sort(left)
		var got []int
		for key, val := range tree.Items {
			require.Equal(t, key, val)
			got = append(got, int(key))
		}
		require.Equal(t, left, got, "order %d", order)
	}

	require.Positive(t, total.merges[0])
	require.Positive(t, total.merges[1])
	require.Positive(t, total.redistributions[0])
	require.Positive(t, total.redistributions[1])
	require.Positive(t, total.shrinks)
	t.Logf("✓ merges %v redistributions %v shrinks %d", total.merges, total.redistributions, total.shrinks)
}

// TestRootCollapse tests that the tree height shrinks back to one leaf and
// then to empty.
func TestRootCollapse(t *testing.T) {
	var c counter
	tree := New(4)
	tree.Observe(&c)
	for i := range int64(50) {
		tree.Insert(i, i)
	}
	height := tree.Height()
	require.Greater(t, height, 2)

	for i := range int64(49) {
		tree.Remove(i)
	}
	require.Equal(t, 1, tree.Height())
	require.Equal(t, height-1, c.shrinks)
	require.Equal(t, []int64{49}, keys(tree))

	tree.Remove(49)
	require.True(t, tree.Empty())
}

// TestReset tests that Reset empties the tree and the tree is reusable.
func TestReset(t *testing.T) {
	tree := New(4)
	for i := range int64(100) {
		tree.Insert(i, i)
	}
	tree.Reset()
	require.True(t, tree.Empty())
	require.Zero(t, tree.Len())
	require.NoError(t, tree.Verify())

	tree.Insert(1, 2)
	val, found := tree.Get(1)
	require.True(t, found)
	require.EqualValues(t, 2, val)
	require.Equal(t, 4, tree.Order())
}

// TestNegativeKeys tests keys across the whole int64 range, next to the sentinel.
func TestNegativeKeys(t *testing.T) {
	tree := New(3)
	in := []int64{0, -1, 1, -1 << 62, 1 << 62, -9223372036854775808, 9223372036854775807, -5, 5}
	for _, k := range in {
		require.True(t, tree.Insert(k, k))
		require.NoError(t, tree.Verify())
	}
	for _, k := range in {
		val, found := tree.Get(k)
		require.True(t, found, "key %d", k)
		require.Equal(t, k, val)
	}
	want := slices.Clone(in)
	slices.Sort(want)
	require.Equal(t, want, keys(tree))
}

// TestIndexPanics tests that looking up a child in the wrong parent fails fast.
func TestIndexPanics(t *testing.T) {
	parent := newInner(4, nil)
	stranger := newLeaf(4, nil)
	require.Panics(t, func() { parent.index(stranger) })

	require.Panics(t, func() { New(4).findLeaf(1) })
}
