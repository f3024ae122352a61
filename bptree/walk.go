package bptree

import "unsafe"

// View is a read-only copy of one node, for printing and diagnostics.
type View struct {
	ID   uintptr // node identity, stable while the node lives
	Leaf bool
	Size int     // number of slots, including the sentinel slot of an internal node
	Keys []int64 // leaf keys, or the separator keys of an internal node
	Vals []int64 // leaf values; nil for an internal node
	Next uintptr // ID of the next leaf; 0 for the last leaf and internal nodes
}

func view(n node) View {
	switch x := n.(type) {
	case *leaf:
		v := View{
			ID:   uintptr(unsafe.Pointer(x)),
			Leaf: true,
			Size: len(x.slots),
			Keys: make([]int64, len(x.slots)),
			Vals: make([]int64, len(x.slots)),
		}
		for i, slot := range x.slots {
			v.Keys[i] = slot.key
			v.Vals[i] = slot.record.val
		}
		if x.next != nil {
			v.Next = uintptr(unsafe.Pointer(x.next))
		}
		return v
	case *inner:
		v := View{
			ID:   uintptr(unsafe.Pointer(x)),
			Size: len(x.slots),
			Keys: make([]int64, 0, len(x.slots)-1),
		}
		for _, slot := range x.slots[1:] {
			v.Keys = append(v.Keys, slot.key)
		}
		return v
	}
	return View{}
}

// Levels walks the tree breadth-first, yielding the nodes of each depth
// from left to right. The root is depth 0.
func (tree *Tree) Levels(yield func(depth int, nodes []View) bool) {
	if tree.root == nil {
		return
	}
	rank := []node{tree.root}
	var next []node
	for depth := 0; len(rank) > 0; depth++ {
		views := make([]View, len(rank))
		next = next[:0]
		for i, n := range rank {
			views[i] = view(n)
			if x, ok := n.(*inner); ok {
				for _, slot := range x.slots {
					next = append(next, slot.child)
				}
			}
		}
		if !yield(depth, views) {
			return
		}
		rank, next = next, rank
	}
}

// Leaves yields every leaf along the leaf chain.
func (tree *Tree) Leaves(yield func(View) bool) {
	for leaf := tree.firstLeaf(); leaf != nil; leaf = leaf.next {
		if !yield(view(leaf)) {
			return
		}
	}
}

// Path returns the nodes visited while searching for key, root first.
// It returns nil for an empty tree.
func (tree *Tree) Path(key int64) (path []View) {
	for n := tree.root; n != nil; {
		path = append(path, view(n))
		x, ok := n.(*inner)
		if !ok {
			break
		}
		n = x.lookup(key)
	}
	return
}
