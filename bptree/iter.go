package bptree

import "github.com/dacapoday/bplus/iterator"

// Iter creates an iterator that stays synchronized with the Tree (not a snapshot).
// Call SeekFirst, SeekLast, or Seek to position it before use.
func (tree *Tree) Iter() Iter {
	return &iter{
		root:    tree,
		version: tree.version,
	}
}

// Iter is an iterator over Tree. Do not compare with nil or rely on pointer semantics.
type Iter = *iter

type iter struct {
	root    *Tree
	leaf    *leaf
	index   int
	key     int64
	version uint64
}

var _ iterator.Iterator = Iter(nil)

// Clone creates an independent copy of the iterator at its current position.
func (it Iter) Clone() Iter {
	clone := *it
	return &clone
}

// sync repositions the iterator after the tree changed, at the first key
// >= the key it was on.
func (it Iter) sync() bool {
	if it.leaf == nil {
		it.version = it.root.version
		return false
	}
	return it.Seek(it.key)
}

func (it Iter) reset() bool {
	it.version = it.root.version
	it.leaf = nil
	it.index = 0
	it.key = 0
	return false
}

func (it Iter) at(leaf *leaf, index int) bool {
	it.version = it.root.version
	if leaf == nil {
		return it.reset()
	}
	it.leaf = leaf
	it.index = index
	it.key = leaf.key(index)
	return true
}

// Valid returns true if positioned at a valid key-value pair.
func (it Iter) Valid() bool {
	if it.version != it.root.version {
		return it.sync()
	}
	return it.leaf != nil
}

// Error exists for Iterator interface compatibility.
func (it Iter) Error() error {
	return nil
}

// Key returns the current key, or 0 if invalid.
func (it Iter) Key() int64 {
	return it.key
}

// Val returns the current value, or 0 if invalid.
func (it Iter) Val() int64 {
	if !it.Valid() {
		return 0
	}
	return it.leaf.slots[it.index].record.val
}

// Next advances to the next key. Returns false if no more items.
func (it Iter) Next() bool {
	if !it.Valid() {
		return false
	}
	if it.index+1 < len(it.leaf.slots) {
		return it.at(it.leaf, it.index+1)
	}
	return it.at(it.leaf.next, 0)
}

// Prev moves to the previous key. Returns false if no more items.
// Leaves are linked forward only, so stepping back across a leaf boundary
// descends from the root again.
func (it Iter) Prev() bool {
	if !it.Valid() {
		return false
	}
	if it.index > 0 {
		return it.at(it.leaf, it.index-1)
	}
	prev := it.root.prevLeaf(it.leaf.key(0))
	if prev == nil {
		return it.reset()
	}
	return it.at(prev, len(prev.slots)-1)
}

// SeekFirst positions the iterator at the first key. Returns false if Tree is empty.
func (it Iter) SeekFirst() bool {
	return it.at(it.root.firstLeaf(), 0)
}

// SeekLast positions the iterator at the last key. Returns false if Tree is empty.
func (it Iter) SeekLast() bool {
	leaf := it.root.lastLeaf()
	if leaf == nil {
		return it.reset()
	}
	return it.at(leaf, len(leaf.slots)-1)
}

// Seek positions the iterator at the first key >= the given key.
// Returns false if no such key exists.
func (it Iter) Seek(key int64) bool {
	if it.root.root == nil {
		return it.reset()
	}
	leaf := it.root.findLeaf(key)
	index, _ := leaf.find(key)
	if index == len(leaf.slots) {
		return it.at(leaf.next, 0)
	}
	return it.at(leaf, index)
}
