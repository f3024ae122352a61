// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package bptree implements an in-memory B+ tree mapping unique int64 keys to int64 values.
package bptree

import (
	"math"

	"github.com/dacapoday/bplus"
)

const (
	MinOrder     = 3
	MaxOrder     = 20
	DefaultOrder = 4
)

// sentinel is the key of slot 0 in every internal node. It is never compared.
const sentinel = math.MinInt64

// Tree is an in-memory B+ tree. Not thread-safe.
//
// Leaves hold the key/value pairs and are chained in ascending key order;
// internal nodes hold separator keys. Every node other than the root keeps
// between minSize and maxSize slots, restored after each Insert or Remove by
// splitting, merging or borrowing from a sibling.
//
// The zero value is an empty tree of DefaultOrder.
//
// Example usage:
//
//	tree := bptree.New(5)
//	tree.Insert(7, 70)
//	val, found := tree.Get(7)       // val == 70, found == true
//
//	for key, val := range tree.Items {
//		fmt.Println(key, val)
//	}
//
//	tree.Remove(7)
type Tree struct {
	order    int
	root     node
	count    int
	version  uint64
	observer Observer
}

var _ bplus.Index = (*Tree)(nil)

// New returns an empty tree of the given order.
// Orders below MinOrder are raised to MinOrder.
func New(order int) *Tree {
	return &Tree{order: max(order, MinOrder)}
}

// Order returns the maximum number of children of an internal node.
func (tree *Tree) Order() int {
	if tree.order == 0 {
		return DefaultOrder
	}
	return tree.order
}

// Observe installs o to receive structural events. Passing nil removes it.
func (tree *Tree) Observe(o Observer) {
	tree.observer = o
}

// Empty returns true if the tree has no keys.
func (tree *Tree) Empty() bool {
	return tree.root == nil
}

// Len returns the number of keys.
func (tree *Tree) Len() int {
	return tree.count
}

// Height returns the number of levels, 0 for an empty tree.
func (tree *Tree) Height() (height int) {
	for n := tree.root; n != nil; n = n.first() {
		height++
	}
	return
}

// Search returns the record stored under key, or nil if the key is absent.
// The record stays valid until the key is removed.
func (tree *Tree) Search(key int64) *Record {
	if tree.root == nil {
		return nil
	}
	return tree.findLeaf(key).lookup(key)
}

// Get retrieves the value for a key.
func (tree *Tree) Get(key int64) (val int64, found bool) {
	record := tree.Search(key)
	if record == nil {
		return
	}
	return record.Value(), true
}

// Insert stores val under key and returns true.
// If the key already exists its value is kept and Insert returns false;
// remove the key first to replace the value.
func (tree *Tree) Insert(key, val int64) bool {
	if tree.root == nil {
		leaf := newLeaf(tree.Order(), nil)
		leaf.insert(key, val)
		tree.root = leaf
		tree.count++
		tree.version++
		return true
	}

	leaf := tree.findLeaf(key)
	if !leaf.insert(key, val) {
		return false
	}
	tree.count++
	tree.version++

	if leaf.size() > leaf.maxSize() {
		next, sep := split(tree, leaf)
		tree.insertIntoParent(leaf, sep, next)
	}
	assertNode("Insert", leaf)
	return true
}

// Remove deletes key and returns true, or returns false if the key is absent.
func (tree *Tree) Remove(key int64) bool {
	if tree.root == nil {
		return false
	}

	leaf := tree.findLeaf(key)
	index, found := leaf.find(key)
	if !found {
		return false
	}
	leaf.remove(index)
	tree.count--
	tree.version++

	if leaf.size() < leaf.minSize() {
		rebalance(tree, leaf)
	}
	return true
}

// Reset removes all keys. The order is kept.
func (tree *Tree) Reset() {
	tree.root = nil
	tree.count = 0
	tree.version++
}

// findLeaf descends from the root to the leaf whose key range holds key.
// The tree must not be empty.
func (tree *Tree) findLeaf(key int64) *leaf {
	n := tree.root
	if n == nil {
		panic("bptree: findLeaf on empty tree")
	}
	for {
		switch x := n.(type) {
		case *leaf:
			return x
		case *inner:
			n = x.lookup(key)
		}
	}
}

func (tree *Tree) firstLeaf() *leaf {
	n := tree.root
	if n == nil {
		return nil
	}
	for !n.isLeaf() {
		n = n.first()
	}
	return n.(*leaf)
}

func (tree *Tree) lastLeaf() *leaf {
	n := tree.root
	if n == nil {
		return nil
	}
	for !n.isLeaf() {
		n = n.last()
	}
	return n.(*leaf)
}

// prevLeaf returns the leaf holding the greatest keys below key, or nil.
func (tree *Tree) prevLeaf(key int64) *leaf {
	var left node
	n := tree.root
	for n != nil && !n.isLeaf() {
		in := n.(*inner)
		i := in.lookupIndex(key)
		if i > 0 {
			left = in.slots[i-1].child
		}
		n = in.slots[i].child
	}
	if left == nil {
		return nil
	}
	for !left.isLeaf() {
		left = left.last()
	}
	return left.(*leaf)
}

func (tree *Tree) observe() Observer {
	if tree.observer == nil {
		return nopObserver{}
	}
	return tree.observer
}
