package bptree

// Items implements iter.Seq2[int64, int64], iterating all key-value pairs
// in ascending key order along the leaf chain.
func (tree *Tree) Items(yield func(key, val int64) bool) {
	for leaf := tree.firstLeaf(); leaf != nil; leaf = leaf.next {
		for _, slot := range leaf.slots {
			if !yield(slot.key, slot.record.val) {
				return
			}
		}
	}
}

// Between returns an iter.Seq2 over the pairs with start <= key <= end.
// It starts at the leaf owning start and follows the leaf chain until the
// leaf owning end is exhausted.
func (tree *Tree) Between(start, end int64) func(yield func(key, val int64) bool) {
	return func(yield func(key, val int64) bool) {
		if tree.root == nil || start > end {
			return
		}
		leaf := tree.findLeaf(start)
		last := tree.findLeaf(end)
		i, _ := leaf.find(start)
		for {
			for ; i < len(leaf.slots); i++ {
				slot := leaf.slots[i]
				if slot.key > end {
					return
				}
				if !yield(slot.key, slot.record.val) {
					return
				}
			}
			if leaf == last || leaf.next == nil {
				return
			}
			leaf, i = leaf.next, 0
		}
	}
}

// Range copies the pairs with start <= key <= end in ascending key order.
// It returns nil if the tree is empty or no key falls in the range.
func (tree *Tree) Range(start, end int64) (entries []Entry) {
	for key, val := range tree.Between(start, end) {
		entries = append(entries, Entry{key, val})
	}
	return
}
