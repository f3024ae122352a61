// Package bplus defines the interfaces shared by the in-memory B+ tree index
// and the tools built on top of it.
package bplus

// Index is an ordered map from unique int64 keys to int64 values.
//
// The *bptree.Tree type satisfies this interface.
type Index interface {
	// Empty reports whether the index holds no keys.
	Empty() bool

	// Get returns the value stored under key.
	// found is false when the key is absent; absence is not an error.
	Get(key int64) (val int64, found bool)

	// Insert stores val under key. An existing key keeps its value and
	// Insert returns false.
	Insert(key, val int64) bool

	// Remove deletes key. Removing an absent key is a no-op returning false.
	Remove(key int64) bool
}

// Inserter is the part of Index a bulk loader needs.
type Inserter interface {
	Insert(key, val int64) bool
}
