// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

// split moves the upper half of the overflowing n into a new right sibling
// and returns it with the separator key to insert into the parent.
func split[N sibling[N]](tree *Tree, n N) (N, int64) {
	next := n.spawn()
	sep := n.moveUpperHalf(next)
	tree.observe().Split(n.isLeaf())
	return next, sep
}

// insertIntoParent links next, split off old, into old's parent under key.
// A root split grows the tree by one level; an overflowing parent splits in
// turn and the separator moves one level up.
func (tree *Tree) insertIntoParent(old node, key int64, next node) {
	parent := old.base().parent
	if parent == nil {
		root := newInner(tree.Order(), nil)
		root.slots = append(root.slots, innerSlot{sentinel, old}, innerSlot{key, next})
		root.adopt(root.slots)
		tree.root = root
		tree.observe().Grow(tree.Height())
		return
	}

	parent.insertAfter(old, key, next)
	if parent.size() > parent.maxSize() {
		right, sep := split(tree, parent)
		tree.insertIntoParent(parent, sep, right)
	}
	assertNode("insertIntoParent", parent)
}
