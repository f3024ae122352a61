// Package iterator defines the cursor interface over an ordered int64 key space.
package iterator

// Iterator represents a cursor over a sorted key-value dataset.
// The iterator maintains a current position and can be moved forward or backward
// through the dataset in sorted key order.
//
// Usage:
//
//	for iter.SeekFirst(); iter.Valid(); iter.Next() {
//	    key, val := iter.Key(), iter.Val()
//	    // process key, val
//	}
//	if err := iter.Error(); err != nil {
//	    // handle error
//	}
type Iterator interface {
	// Valid returns true if positioned at a valid key-value pair.
	// Returns false when not positioned; check Error() to distinguish the cause.
	Valid() bool

	// Error returns any error that occurred during operations.
	// Returns nil when not positioned due to normal conditions (initial state,
	// boundary reached, empty dataset).
	Error() error

	// Key returns the key at the current iterator position.
	// Behavior is undefined if Valid() returns false.
	Key() int64

	// Val returns the value at the current iterator position.
	// Behavior is undefined if Valid() returns false.
	Val() int64

	// Next advances the iterator to the next key-value pair in ascending order.
	// Returns true if the iterator is positioned at a valid entry afterwards.
	Next() bool

	// Prev moves the iterator to the previous key-value pair in descending order.
	// Returns true if the iterator is positioned at a valid entry afterwards.
	Prev() bool

	// SeekFirst positions the iterator at the first (smallest) key.
	// Returns false if the dataset is empty.
	SeekFirst() bool

	// SeekLast positions the iterator at the last (largest) key.
	// Returns false if the dataset is empty.
	SeekLast() bool

	// Seek positions the iterator at the first key that is greater than or equal
	// to the given key. Returns true if positioned at a valid entry.
	Seek(key int64) bool
}

// Collect drains iter from its current position into a slice of keys and
// a slice of values, stopping after limit entries when limit > 0.
func Collect(iter Iterator, limit int) (keys, vals []int64, err error) {
	for ; iter.Valid(); iter.Next() {
		if limit > 0 && len(keys) >= limit {
			break
		}
		keys = append(keys, iter.Key())
		vals = append(vals, iter.Val())
	}
	err = iter.Error()
	return
}
