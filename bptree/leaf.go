// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

import (
	"cmp"
	"slices"
	"sort"
)

type leafSlot struct {
	key    int64
	record *Record
}

// leaf holds key/record pairs in ascending key order.
// next links to the leaf holding the following keys, nil for the last leaf.
type leaf struct {
	header
	slots []leafSlot
	next  *leaf
}

func newLeaf(order int, parent *inner) *leaf {
	return &leaf{header: header{order: order, parent: parent}}
}

func (leaf *leaf) isLeaf() bool { return true }
func (leaf *leaf) size() int    { return len(leaf.slots) }
func (leaf *leaf) minSize() int { return leaf.order / 2 }
func (leaf *leaf) maxSize() int { return leaf.order - 1 }
func (leaf *leaf) first() node  { return nil }
func (leaf *leaf) last() node   { return nil }

func (leaf *leaf) key(i int) int64 {
	return leaf.slots[i].key
}

func (leaf *leaf) find(key int64) (int, bool) {
	return sort.Find(len(leaf.slots), func(i int) int {
		return cmp.Compare(key, leaf.slots[i].key)
	})
}

func (leaf *leaf) lookup(key int64) *Record {
	i, found := leaf.find(key)
	if !found {
		return nil
	}
	return leaf.slots[i].record
}

// insert adds key in sorted position. It returns false if key is present.
func (leaf *leaf) insert(key, val int64) bool {
	i, found := leaf.find(key)
	if found {
		return false
	}
	leaf.slots = slices.Insert(leaf.slots, i, leafSlot{key, &Record{val}})
	return true
}

func (leaf *leaf) remove(i int) {
	leaf.slots = slices.Delete(leaf.slots, i, i+1)
}

func (leaf *leaf) spawn() *leaf {
	return newLeaf(leaf.order, leaf.parent)
}

func (leaf *leaf) moveUpperHalf(dst *leaf) int64 {
	half := leaf.minSize()
	dst.slots = append(dst.slots, leaf.slots[half:]...)
	clear(leaf.slots[half:])
	leaf.slots = leaf.slots[:half]

	dst.next = leaf.next
	leaf.next = dst
	return dst.slots[0].key
}

func (leaf *leaf) mergeFrom(src *leaf, _ int64) {
	leaf.slots = append(leaf.slots, src.slots...)
	leaf.next = src.next
	src.slots = nil
	src.next = nil
}

func (leaf *leaf) borrowFirst(neighbor *leaf) {
	leaf.slots = append(leaf.slots, neighbor.slots[0])
	neighbor.slots = slices.Delete(neighbor.slots, 0, 1)
	leaf.parent.slots[1].key = neighbor.slots[0].key
}

func (leaf *leaf) borrowLast(neighbor *leaf, index int) {
	n := len(neighbor.slots) - 1
	slot := neighbor.slots[n]
	neighbor.slots = slices.Delete(neighbor.slots, n, n+1)
	leaf.slots = slices.Insert(leaf.slots, 0, slot)
	leaf.parent.slots[index].key = slot.key
}
