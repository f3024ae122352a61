// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

// rebalance restores the occupancy of the underflowing n by merging it with
// a sibling, or by borrowing one slot when the pair would not fit in one node.
// The neighbor is the preceding sibling, or the following one for slot 0.
func rebalance[N sibling[N]](tree *Tree, n N) {
	parent := n.base().parent
	if parent == nil {
		tree.adjustRoot()
		return
	}

	index := parent.index(n)
	neighborIndex := index - 1
	if index == 0 {
		neighborIndex = 1
	}
	neighbor := parent.slots[neighborIndex].child.(N)

	if n.size()+neighbor.size() <= neighbor.maxSize() {
		coalesce(tree, neighbor, n, parent, index)
	} else {
		redistribute(tree, neighbor, n, index)
	}
}

// coalesce merges the right-hand node of the pair into the left-hand one and
// drops the right-hand slot from parent, which may underflow in turn.
func coalesce[N sibling[N]](tree *Tree, neighbor, n N, parent *inner, index int) {
	if index == 0 {
		neighbor, n = n, neighbor
		index = 1
	}

	neighbor.mergeFrom(n, parent.slots[index].key)
	parent.remove(index)
	tree.observe().Merge(n.isLeaf())
	assertNode("coalesce", neighbor)

	if parent.size() < parent.minSize() {
		rebalance(tree, parent)
	}
}

// redistribute moves exactly one slot from neighbor into n across their
// shared boundary and fixes the separator in the parent.
func redistribute[N sibling[N]](tree *Tree, neighbor, n N, index int) {
	if index == 0 {
		n.borrowFirst(neighbor)
	} else {
		n.borrowLast(neighbor, index)
	}
	tree.observe().Redistribute(n.isLeaf())
	assertNode("redistribute", n)
	assertNode("redistribute", neighbor)
}

// adjustRoot drops a root with a single child, making the child the new root,
// and empties the tree when the root leaf has no keys left.
func (tree *Tree) adjustRoot() {
	switch root := tree.root.(type) {
	case *inner:
		if root.size() == 1 {
			child := root.slots[0].child
			child.base().parent = nil
			root.slots = nil
			tree.root = child
			tree.observe().Shrink(tree.Height())
		}
	case *leaf:
		if root.size() == 0 {
			tree.root = nil
		}
	}
}
