// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"fmt"
	"math"
)

// Verify walks the whole tree and reports the first broken invariant:
// strictly ascending keys, node occupancy, sentinel slots, separator bounds,
// parent links, uniform leaf depth, the leaf chain and the key count.
// A nil error means the tree is well formed.
func (tree *Tree) Verify() error {
	if tree.root == nil {
		if tree.count != 0 {
			return fmt.Errorf("%w: empty tree counts %d keys", ErrCorrupt, tree.count)
		}
		return nil
	}
	if tree.root.base().parent != nil {
		return fmt.Errorf("%w: root has a parent", ErrCorrupt)
	}

	v := verifier{depth: -1}
	if err := v.walk(tree.root, math.MinInt64, math.MaxInt64, false, 0); err != nil {
		return err
	}

	for i, l := range v.leaves {
		var want *leaf
		if i+1 < len(v.leaves) {
			want = v.leaves[i+1]
		}
		if l.next != want {
			return fmt.Errorf("%w: leaf %d links to %p, want %p", ErrCorrupt, i, l.next, want)
		}
	}
	if v.count != tree.count {
		return fmt.Errorf("%w: counted %d keys, tree has %d", ErrCorrupt, v.count, tree.count)
	}
	return nil
}

type verifier struct {
	leaves []*leaf
	depth  int
	count  int
}

// walk checks the subtree n, whose keys must lie in [lo, hi).
// bounded is false for the rightmost path, where hi is open.
func (v *verifier) walk(n node, lo, hi int64, bounded bool, depth int) error {
	if err := checkNode(n); err != nil {
		return err
	}

	switch x := n.(type) {
	case *leaf:
		if v.depth < 0 {
			v.depth = depth
		} else if v.depth != depth {
			return fmt.Errorf("%w: leaf %p at depth %d, want %d", ErrCorrupt, x, depth, v.depth)
		}
		for _, slot := range x.slots {
			if slot.key < lo || bounded && slot.key >= hi {
				return fmt.Errorf("%w: key %d outside [%d, %d)", ErrCorrupt, slot.key, lo, hi)
			}
			if slot.record == nil {
				return fmt.Errorf("%w: key %d has no record", ErrCorrupt, slot.key)
			}
		}
		v.leaves = append(v.leaves, x)
		v.count += len(x.slots)

	case *inner:
		for i, slot := range x.slots {
			clo, chi, cbounded := lo, hi, bounded
			if i > 0 {
				clo = slot.key
				if slot.key < lo || bounded && slot.key >= hi {
					return fmt.Errorf("%w: separator %d outside [%d, %d)", ErrCorrupt, slot.key, lo, hi)
				}
			}
			if i+1 < len(x.slots) {
				chi, cbounded = x.slots[i+1].key, true
			}
			if err := v.walk(slot.child, clo, chi, cbounded, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkNode checks the invariants local to one node.
func checkNode(n node) error {
	root := n.base().isRoot()
	size := n.size()

	switch {
	case size > n.maxSize():
		return fmt.Errorf("%w: node %p holds %d > %d slots", ErrCorrupt, n, size, n.maxSize())
	case !root && size < n.minSize():
		return fmt.Errorf("%w: node %p holds %d < %d slots", ErrCorrupt, n, size, n.minSize())
	case root && size == 0:
		return fmt.Errorf("%w: root %p is empty", ErrCorrupt, n)
	}

	switch x := n.(type) {
	case *leaf:
		for i := 1; i < len(x.slots); i++ {
			if x.slots[i-1].key >= x.slots[i].key {
				return fmt.Errorf("%w: leaf %p keys %d, %d out of order", ErrCorrupt, x, x.slots[i-1].key, x.slots[i].key)
			}
		}

	case *inner:
		if root && size < 2 {
			return fmt.Errorf("%w: root %p has a single child", ErrCorrupt, x)
		}
		if x.slots[0].key != sentinel {
			return fmt.Errorf("%w: node %p slot 0 holds key %d", ErrCorrupt, x, x.slots[0].key)
		}
		for i := 2; i < len(x.slots); i++ {
			if x.slots[i-1].key >= x.slots[i].key {
				return fmt.Errorf("%w: node %p keys %d, %d out of order", ErrCorrupt, x, x.slots[i-1].key, x.slots[i].key)
			}
		}
		for _, slot := range x.slots {
			if slot.child == nil {
				return fmt.Errorf("%w: node %p has a nil child", ErrCorrupt, x)
			}
			if slot.child.base().parent != x {
				return fmt.Errorf("%w: child %p does not link back to %p", ErrCorrupt, slot.child, x)
			}
		}
	}
	return nil
}
