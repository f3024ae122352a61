package bptree

// Observer receives structural events from a Tree.
// Calls happen synchronously inside Insert and Remove.
type Observer interface {
	// Split reports a node split; leaf tells the node kind.
	Split(leaf bool)
	// Merge reports two siblings coalesced into one.
	Merge(leaf bool)
	// Redistribute reports one slot borrowed from a sibling.
	Redistribute(leaf bool)
	// Grow reports a new root; height is the new tree height.
	Grow(height int)
	// Shrink reports a collapsed root; height is the new tree height.
	Shrink(height int)
}

type nopObserver struct{}

func (nopObserver) Split(bool)        {}
func (nopObserver) Merge(bool)        {}
func (nopObserver) Redistribute(bool) {}
func (nopObserver) Grow(int)          {}
func (nopObserver) Shrink(int)        {}
