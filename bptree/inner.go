// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"fmt"
	"slices"
	"sort"
)

type innerSlot struct {
	key   int64
	child node
}

// inner holds (key, child) slots. Slot 0 carries the sentinel key and the
// subtree of all keys below slot 1's key; for i >= 1 the subtree of slot i
// holds keys in [slots[i].key, slots[i+1].key).
type inner struct {
	header
	slots []innerSlot
}

func newInner(order int, parent *inner) *inner {
	return &inner{header: header{order: order, parent: parent}}
}

func (inner *inner) isLeaf() bool { return false }
func (inner *inner) size() int    { return len(inner.slots) }
func (inner *inner) maxSize() int { return inner.order }
func (inner *inner) first() node  { return inner.slots[0].child }
func (inner *inner) last() node   { return inner.slots[len(inner.slots)-1].child }

// minSize is order/2 but at least 2: a non-root node with one child has no
// sibling under its parent to merge with or borrow from.
func (inner *inner) minSize() int {
	return max(inner.order/2, 2)
}

// lookupIndex returns the slot whose subtree owns key: the last slot with
// a key <= key. Slot 0 always matches.
func (inner *inner) lookupIndex(key int64) int {
	n := len(inner.slots) - 1
	return sort.Search(n, func(i int) bool {
		return inner.slots[i+1].key > key
	})
}

func (inner *inner) lookup(key int64) node {
	return inner.slots[inner.lookupIndex(key)].child
}

// index returns the slot of child. It panics if child is not a child of inner.
func (inner *inner) index(child node) int {
	for i := range inner.slots {
		if inner.slots[i].child == child {
			return i
		}
	}
	panic(fmt.Sprintf("bptree: child %p not found in node %p", child, inner))
}

func (inner *inner) insertAfter(old node, key int64, child node) {
	i := inner.index(old) + 1
	inner.slots = slices.Insert(inner.slots, i, innerSlot{key, child})
	child.base().parent = inner
}

func (inner *inner) remove(i int) {
	inner.slots = slices.Delete(inner.slots, i, i+1)
}

// adopt points the parent links of slots' children at inner.
func (inner *inner) adopt(slots []innerSlot) {
	for i := range slots {
		slots[i].child.base().parent = inner
	}
}

func (inner *inner) spawn() *inner {
	return newInner(inner.order, inner.parent)
}

func (inner *inner) moveUpperHalf(dst *inner) int64 {
	half := inner.minSize()
	dst.slots = append(dst.slots, inner.slots[half:]...)
	dst.adopt(dst.slots)
	clear(inner.slots[half:])
	inner.slots = inner.slots[:half]

	sep := dst.slots[0].key
	dst.slots[0].key = sentinel
	return sep
}

func (inner *inner) mergeFrom(src *inner, sep int64) {
	src.slots[0].key = sep
	inner.adopt(src.slots)
	inner.slots = append(inner.slots, src.slots...)
	src.slots = nil
}

// borrowFirst rotates through the parent: the separator at parent index 1
// comes down as the key of the borrowed child, the neighbor's slot 1 key
// goes up and its slot becomes the neighbor's new sentinel slot.
func (inner *inner) borrowFirst(neighbor *inner) {
	parent := inner.parent
	child := neighbor.slots[0].child
	inner.slots = append(inner.slots, innerSlot{parent.slots[1].key, child})
	child.base().parent = inner

	parent.slots[1].key = neighbor.slots[1].key
	neighbor.slots = slices.Delete(neighbor.slots, 0, 1)
	neighbor.slots[0].key = sentinel
}

// borrowLast rotates the other way: the receiver's old separator becomes the
// key of its former slot 0, and the neighbor's last key goes up.
func (inner *inner) borrowLast(neighbor *inner, index int) {
	parent := inner.parent
	n := len(neighbor.slots) - 1
	slot := neighbor.slots[n]
	neighbor.slots = slices.Delete(neighbor.slots, n, n+1)

	inner.slots[0].key = parent.slots[index].key
	inner.slots = slices.Insert(inner.slots, 0, innerSlot{sentinel, slot.child})
	slot.child.base().parent = inner
	parent.slots[index].key = slot.key
}
