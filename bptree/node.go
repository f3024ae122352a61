// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package bptree

// header is the state shared by leaf and internal nodes.
type header struct {
	order  int
	parent *inner
}

func (h *header) base() *header {
	return h
}

func (h *header) isRoot() bool {
	return h.parent == nil
}

// node is either *leaf or *inner.
type node interface {
	base() *header
	isLeaf() bool
	size() int
	minSize() int
	maxSize() int
	// first and last return the outermost children, nil for a leaf.
	first() node
	last() node
}

// sibling is what split, coalesce and redistribute need from one node kind.
// Both *leaf and *inner implement it, so the algorithms are written once.
type sibling[N node] interface {
	node
	// spawn creates an empty node of the same kind, order and parent.
	spawn() N
	// moveUpperHalf moves the slots from minSize onward into the empty dst
	// and returns the separator key for the parent.
	moveUpperHalf(dst N) int64
	// mergeFrom appends all slots of the right-hand src. sep is the parent
	// key that separated the two nodes.
	mergeFrom(src N, sep int64)
	// borrowFirst appends the first slot of the right-hand neighbor
	// and updates the separator at parent index 1.
	borrowFirst(neighbor N)
	// borrowLast prepends the last slot of the left-hand neighbor
	// and updates the separator at the receiver's parent index.
	borrowLast(neighbor N, index int)
}

var (
	_ sibling[*leaf]  = (*leaf)(nil)
	_ sibling[*inner] = (*inner)(nil)
)
